package roulette

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var countries = []string{"イギリス", "オランダ", "アメリカ", "カナダ", "ドイツ", "オーストラリア"}

func TestNewWheelValidates(t *testing.T) {
	_, err := NewWheel([]string{"only"})
	assert.ErrorIs(t, err, ErrTooFewOptions)
	_, err = NewWheel([]string{"a", "  "})
	assert.ErrorIs(t, err, ErrBlankOption)

	w, err := NewWheel([]string{" a ", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, w.Options)
}

func TestWinningAngle(t *testing.T) {
	w, err := NewWheel(countries)
	require.NoError(t, err)
	assert.Equal(t, 60.0, w.DegreesPer())
	assert.Equal(t, 330.0, w.WinningAngle(0))
	assert.Equal(t, 30.0, w.WinningAngle(5))
}

func TestAtInvertsWinningAngle(t *testing.T) {
	w, err := NewWheel(countries)
	require.NoError(t, err)
	for i := range countries {
		assert.Equal(t, i, w.At(w.WinningAngle(i)), "option %d", i)
		assert.Equal(t, i, w.At(w.WinningAngle(i)+360*3), "option %d after turns", i)
	}
}

func TestSpinIsInRangeAndCoversWheel(t *testing.T) {
	w, err := NewWheel(countries)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(9, 9))
	seen := map[int]bool{}
	for n := 0; n < 600; n++ {
		i := w.Spin(rng)
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, len(countries))
		seen[i] = true
	}
	assert.Len(t, seen, len(countries))
}

func TestSpinnerSettlesOnWinner(t *testing.T) {
	w, err := NewWheel(countries)
	require.NoError(t, err)

	s := NewSpinner(0, w.WinningAngle(3))
	frames := 0
	last := -1.0
	for !s.Done() && frames < 10*FPS {
		s.Step()
		assert.GreaterOrEqual(t, s.Progress(), 0.0)
		assert.LessOrEqual(t, s.Progress(), 1.0)
		last = s.Angle
		frames++
	}
	assert.Greater(t, last, 360.0*extraTurns, "spins several turns")
	assert.Equal(t, 3, w.At(s.Settle()))
	assert.Equal(t, 1.0, s.Progress())
}
