package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	SetTheme("classic")
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(5, 10, 10))
	assert.Equal(t, "██████████ 100%", ProgressBar(12, 10, 10), "clamped")
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1), "minimum width")
}

func TestPanelAlignsWideText(t *testing.T) {
	SetTheme("classic")
	var buf bytes.Buffer
	Panel(&buf, []string{"タイムカード", "ok"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	for _, ln := range lines {
		assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(ln), "line %q", ln)
	}
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
}

func TestMessagesWithoutColor(t *testing.T) {
	SetColorForcing(false, true)
	defer SetColorForcing(false, false)
	SetTheme("classic")

	var buf bytes.Buffer
	OK(&buf, "saved")
	Fail(&buf, "broken")
	Warn(&buf, "careful")
	Info(&buf, "note")
	assert.Equal(t, "✔ saved\n✖ broken\n! careful\ni note\n", buf.String())
}

func TestColorForced(t *testing.T) {
	SetColorForcing(true, false)
	defer SetColorForcing(false, false)
	SetTheme("classic")
	assert.Equal(t, fgGreen+"x"+reset, C(Current().Success, "x"))
	assert.Equal(t, "x", C("", "x"))
}

func TestMonoTheme(t *testing.T) {
	defer SetColorForcing(false, false)
	defer SetTheme("classic")
	SetTheme("mono")
	assert.Equal(t, "+", Current().CornerTL)
	assert.Equal(t, "#####  100%", ProgressBar(1, 1, 5))
}

func TestLeavingMonoRestoresColor(t *testing.T) {
	defer SetColorForcing(false, false)
	defer SetTheme("classic")

	SetColorForcing(true, false)
	SetTheme("mono")
	assert.Equal(t, "x", C(fgGreen, "x"))
	SetTheme("classic")
	assert.Equal(t, fgGreen+"x"+reset, C(Current().Success, "x"))

	SetColorForcing(false, true)
	SetTheme("mono")
	SetTheme("neon")
	assert.Equal(t, "x", C(Current().Success, "x"))
}
