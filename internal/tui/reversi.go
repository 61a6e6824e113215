package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/logging"
	"github.com/f130r/workspace01/internal/reversi"
)

var keyHints = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle hints"))

// Reversi puts the human on Black against a CPU on White.
type Reversi struct {
	game   reversi.Game
	cpu    reversi.Player
	cursor reversi.Point
	hints  bool
	msg    string
	isErr  bool
	log    *zap.Logger
}

func NewReversi(cpu reversi.Player, log *zap.Logger) Reversi {
	return Reversi{
		game:   *reversi.NewGame(),
		cpu:    cpu,
		cursor: reversi.Point{Row: 2, Col: 3},
		hints:  true,
		log:    logging.OrNop(log),
	}
}

func (m Reversi) Init() tea.Cmd { return nil }

func (m Reversi) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, keyQuit):
		return m, tea.Quit
	case key.Matches(km, keyNew):
		m.game = *reversi.NewGame()
		m.msg, m.isErr = "", false
		return m, nil
	case key.Matches(km, keyHints):
		m.hints = !m.hints
		return m, nil
	case key.Matches(km, keyPick):
		m.play()
		return m, nil
	}
	if c, moved := moveCursor(km, m.cursor.Cell(), reversi.Size, reversi.Size); moved {
		m.cursor, _ = reversi.PointOf(c)
	}
	return m, nil
}

func (m *Reversi) play() {
	if m.game.Over {
		m.msg, m.isErr = reversi.ErrGameOver.Error(), true
		return
	}
	n, err := m.game.Play(m.cursor)
	if err != nil {
		m.msg, m.isErr = fmt.Sprintf("%s: %v", m.cursor, err), true
		return
	}
	notes := []string{fmt.Sprintf("あなた %s (%d枚返し)", m.cursor, n)}

	// The CPU keeps the move while Black has to pass.
	for !m.game.Over && m.game.Turn == reversi.White && m.cpu != nil {
		if m.game.Passed == reversi.Black {
			notes = append(notes, "あなたはパス")
		}
		p := m.cpu.Move(m.game.Board, reversi.White, m.game.Moves())
		flipped, err := m.game.Play(p)
		if err != nil {
			m.log.Error("cpu move rejected", zap.Stringer("point", p), zap.Error(err))
			break
		}
		notes = append(notes, fmt.Sprintf("CPU %s (%d枚返し)", p, flipped))
	}
	if !m.game.Over && m.game.Passed == reversi.White {
		notes = append(notes, "CPUはパス")
	}
	if m.game.Over {
		notes = append(notes, m.result())
	}
	m.msg, m.isErr = strings.Join(notes, " / "), false
}

func (m Reversi) result() string {
	black, white := reversi.Score(m.game.Board)
	switch m.game.Winner() {
	case reversi.Black:
		return fmt.Sprintf("あなたの勝ち %d-%d", black, white)
	case reversi.White:
		return fmt.Sprintf("CPUの勝ち %d-%d", white, black)
	}
	return fmt.Sprintf("引き分け %d-%d", black, white)
}

func (m Reversi) View() string {
	moves := m.game.Moves()
	var b strings.Builder
	b.WriteString("   a b c d e f g h\n")
	for r := 0; r < reversi.Size; r++ {
		fmt.Fprintf(&b, "%d ", r+1)
		for c := 0; c < reversi.Size; c++ {
			p := reversi.Point{Row: r, Col: c}
			s := " ·"
			switch m.game.Board[r][c] {
			case reversi.Black:
				s = " ●"
			case reversi.White:
				s = " ○"
			default:
				if m.hints && m.game.Turn == reversi.Black && slices.Contains(moves, p) {
					s = hintStyle.Render(" *")
				} else {
					s = mutedStyle.Render(s)
				}
			}
			if p == m.cursor {
				s = selectedStyle.Render(s)
			}
			b.WriteString(s)
		}
		b.WriteString("\n")
	}

	black, white := reversi.Score(m.game.Board)
	score := fmt.Sprintf("● あなた %d   ○ CPU %d", black, white)
	return panelString(join(
		titleStyle.Render("リバーシ")+"   "+score,
		strings.TrimRight(b.String(), "\n"),
		status(m.msg, m.isErr),
		helpView(keyUp, keyDown, keyLeft, keyRight, keyPick, keyHints, keyNew, keyQuit),
	))
}
