package tui

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/f130r/workspace01/internal/roulette"
)

type frameMsg struct{}

func frame() tea.Cmd {
	return tea.Tick(time.Second/roulette.FPS, func(time.Time) tea.Msg { return frameMsg{} })
}

// Roulette spins a wheel of options. The pointer sits at the top; the
// highlighted option is the one under it as the wheel turns.
type Roulette struct {
	wheel   roulette.Wheel
	rng     *rand.Rand
	spinner *roulette.Spinner
	angle   float64
	bar     progress.Model
	winner  int
	spins   int
}

func NewRoulette(w roulette.Wheel, rng *rand.Rand) Roulette {
	return Roulette{
		wheel:  w,
		rng:    rng,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		winner: -1,
	}
}

func (m Roulette) Init() tea.Cmd { return nil }

func (m Roulette) spinning() bool { return m.spinner != nil }

func (m Roulette) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter", " ":
			if m.spinning() {
				return m, nil
			}
			m.winner = m.wheel.Spin(m.rng)
			m.spinner = roulette.NewSpinner(m.angle, m.wheel.WinningAngle(m.winner))
			return m, frame()
		}
	case frameMsg:
		if !m.spinning() {
			return m, nil
		}
		m.spinner.Step()
		m.angle = m.spinner.Angle
		if m.spinner.Done() {
			m.angle = m.spinner.Settle()
			m.spinner = nil
			m.spins++
			return m, nil
		}
		return m, frame()
	}
	return m, nil
}

// Result is the last settled pick, or "" before the first spin ends.
func (m Roulette) Result() string {
	if m.spinning() || m.winner < 0 || m.spins == 0 {
		return ""
	}
	return m.wheel.Options[m.winner]
}

func (m Roulette) View() string {
	under := m.wheel.At(m.angle)
	var b strings.Builder
	for i, o := range m.wheel.Options {
		line := "  " + o
		if i == under {
			line = selectedStyle.Render("▶ " + o)
		}
		b.WriteString(line + "\n")
	}

	pct := 0.0
	if m.spinner != nil {
		pct = m.spinner.Progress()
	} else if m.spins > 0 {
		pct = 1
	}

	result := mutedStyle.Render("enter でスピン")
	if r := m.Result(); r != "" {
		result = successStyle.Render("🎯 結果: " + r)
	} else if m.spinning() {
		result = pendingStyle.Render("回転中...")
	}

	return panelString(join(
		titleStyle.Render("ルーレット")+mutedStyle.Render(fmt.Sprintf("   %.0f°", math.Mod(m.angle, 360))),
		strings.TrimRight(b.String(), "\n"),
		m.bar.ViewAs(pct),
		result,
		helpStyle.Render("enter: spin • q: quit"),
	))
}
