package reversi

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parse reads rows of ".", "B", "W".
func parse(rows ...string) Board {
	var b Board
	for r, row := range rows {
		for c, ch := range row {
			switch ch {
			case 'B':
				b[r][c] = Black
			case 'W':
				b[r][c] = White
			}
		}
	}
	return b
}

func TestOpeningMoves(t *testing.T) {
	want := []Point{{2, 3}, {3, 2}, {4, 5}, {5, 4}}
	if diff := cmp.Diff(want, ValidMoves(NewBoard(), Black)); diff != "" {
		t.Fatalf("black opening moves (-want +got):\n%s", diff)
	}
	assert.Len(t, ValidMoves(NewBoard(), White), 4)
}

func TestPlaceFlipsAllDirections(t *testing.T) {
	b := parse(
		"........",
		".B.B.B..",
		"..WWW...",
		".BW.WB..",
		"..WWW...",
		".B.B.B..",
		"........",
		"........",
	)
	got, n, err := Place(b, Point{3, 3}, Black)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	want := parse(
		"........",
		".B.B.B..",
		"..BBB...",
		".BBBBB..",
		"..BBB...",
		".B.B.B..",
		"........",
		"........",
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("board after flip (-want +got):\n%s", diff)
	}
}

func TestPlaceDoesNotFlipUnbracketedRuns(t *testing.T) {
	b := parse(
		"........",
		"........",
		"........",
		"...WWB..",
		"...W....",
		"........",
		"........",
		"........",
	)
	got, n, err := Place(b, Point{3, 2}, Black)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, White, got[4][3], "unbracketed run stays")
}

func TestPlaceRejects(t *testing.T) {
	b := NewBoard()
	_, _, err := Place(b, Point{0, 0}, Black)
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, _, err = Place(b, Point{3, 3}, Black)
	assert.ErrorIs(t, err, ErrIllegalMove, "occupied")
	_, _, err = Place(b, Point{8, 0}, Black)
	assert.ErrorIs(t, err, ErrOffBoard)
}

func TestPlaceLeavesInputUntouched(t *testing.T) {
	b := NewBoard()
	_, _, err := Place(b, Point{2, 3}, Black)
	require.NoError(t, err)
	assert.Equal(t, NewBoard(), b)
}

func TestScore(t *testing.T) {
	black, white := Score(NewBoard())
	assert.Equal(t, 2, black)
	assert.Equal(t, 2, white)
}

func TestPointCellRoundTrip(t *testing.T) {
	p, err := PointOf(19)
	require.NoError(t, err)
	assert.Equal(t, Point{2, 3}, p)
	assert.Equal(t, 19, p.Cell())
	assert.Equal(t, "d3", p.String())

	_, err = PointOf(64)
	assert.ErrorIs(t, err, ErrOffBoard)
}

func TestGreedyPicksMostFlips(t *testing.T) {
	b := parse(
		"........",
		"........",
		"........",
		"..BWWW..",
		"...W....",
		"........",
		"........",
		"........",
	)
	moves := ValidMoves(b, Black)
	require.Contains(t, moves, Point{3, 6})
	assert.Equal(t, Point{3, 6}, Greedy{}.Move(b, Black, moves))
}

func TestGamePassesWhenOpponentStuck(t *testing.T) {
	// After black takes a1 white has no discs left, so nobody can move.
	g := &Game{Turn: Black, Board: parse(
		".WB.....",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)}
	_, err := g.Play(Point{0, 0})
	require.NoError(t, err)
	assert.True(t, g.Over)
	assert.Equal(t, Black, g.Winner())
	_, err = g.Play(Point{1, 1})
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestGamePassRecorded(t *testing.T) {
	g := &Game{Turn: Black, Board: parse(
		".WB.....",
		"........",
		"BW......",
		"........",
		"........",
		"........",
		"........",
		"........",
	)}
	_, err := g.Play(Point{0, 0})
	require.NoError(t, err)
	assert.False(t, g.Over)
	assert.Equal(t, White, g.Passed)
	assert.Equal(t, Black, g.Turn)
}

func TestRandomGamesTerminate(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for n := 0; n < 20; n++ {
		g := NewGame()
		cpu := Random{Rand: rng}
		for plies := 0; !g.Over; plies++ {
			require.Less(t, plies, 64)
			moves := g.Moves()
			require.NotEmpty(t, moves)
			_, err := g.Play(cpu.Move(g.Board, g.Turn, moves))
			require.NoError(t, err)
		}
		black, white := Score(g.Board)
		assert.LessOrEqual(t, black+white, 64)
	}
}
