package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/logging"
	"github.com/f130r/workspace01/internal/store/jsonstore"
	"github.com/f130r/workspace01/internal/tictactoe"
)

// TicTacToe is the 3x3 board. The human is X; with a CPU player the CPU
// answers as O, otherwise two people share the keyboard.
type TicTacToe struct {
	game      tictactoe.Game
	cpu       tictactoe.Player
	cursor    int
	stats     tictactoe.Stats
	statsPath string
	msg       string
	isErr     bool
	log       *zap.Logger
}

// NewTicTacToe loads the running tallies from statsPath ("" keeps them in
// memory only).
func NewTicTacToe(cpu tictactoe.Player, statsPath string, log *zap.Logger) TicTacToe {
	m := TicTacToe{game: *tictactoe.New(), cpu: cpu, cursor: 4, statsPath: statsPath, log: logging.OrNop(log)}
	if statsPath != "" {
		s, err := jsonstore.Load[tictactoe.Stats](statsPath)
		if err != nil {
			m.log.Warn("load tictactoe stats", zap.Error(err))
		}
		m.stats = s
	}
	return m
}

func (m TicTacToe) Init() tea.Cmd { return nil }

func (m TicTacToe) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, keyQuit):
		return m, tea.Quit
	case key.Matches(km, keyNew):
		m.game.Reset()
		m.msg, m.isErr = "", false
		return m, nil
	case key.Matches(km, keyPick):
		m.play()
		return m, nil
	}
	if c, moved := moveCursor(km, m.cursor, 3, 3); moved {
		m.cursor = c
	}
	return m, nil
}

func (m *TicTacToe) play() {
	if err := m.game.Play(m.cursor); err != nil {
		m.msg, m.isErr = err.Error(), true
		return
	}
	m.msg, m.isErr = "", false
	if !m.game.Over && m.cpu != nil {
		cell := m.cpu.Move(m.game.Board, m.game.Turn)
		if err := m.game.Play(cell); err != nil {
			m.log.Error("cpu move rejected", zap.Int("cell", cell), zap.Error(err))
		}
	}
	if m.game.Over {
		m.finish()
	}
}

func (m *TicTacToe) finish() {
	m.stats.Record(m.game.Result)
	switch m.game.Result {
	case tictactoe.Draw:
		m.msg = "引き分け！ (n: new game)"
	default:
		m.msg = fmt.Sprintf("%s の勝ち！ (n: new game)", m.winnerMark())
	}
	if m.statsPath == "" {
		return
	}
	if err := jsonstore.Save(m.statsPath, m.stats); err != nil {
		m.log.Warn("save tictactoe stats", zap.Error(err))
		m.msg, m.isErr = "save stats: "+err.Error(), true
	}
}

func (m TicTacToe) winnerMark() tictactoe.Mark {
	if m.game.Result == tictactoe.OWins {
		return tictactoe.O
	}
	return tictactoe.X
}

func (m TicTacToe) View() string {
	var b strings.Builder
	for r := 0; r < 3; r++ {
		if r > 0 {
			b.WriteString(mutedStyle.Render("───┼───┼───") + "\n")
		}
		for c := 0; c < 3; c++ {
			i := r*3 + c
			if c > 0 {
				b.WriteString(mutedStyle.Render("│"))
			}
			cell := cellStyle.Render(m.game.Board[i].String())
			if i == m.cursor && !m.game.Over {
				cell = selectedStyle.Render(cellStyle.Render(m.game.Board[i].String()))
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	turn := fmt.Sprintf("手番: %s", m.game.Turn)
	if m.game.Over {
		turn = "ゲーム終了"
	}
	tally := fmt.Sprintf("%s %d  %s %d  %s %d",
		successStyle.Render("X"), m.stats.XWins,
		pendingStyle.Render("O"), m.stats.OWins,
		mutedStyle.Render("draw"), m.stats.Draws)

	return panelString(join(
		titleStyle.Render("三目並べ")+"   "+tally,
		strings.TrimRight(b.String(), "\n"),
		turn,
		status(m.msg, m.isErr),
		helpView(keyUp, keyDown, keyLeft, keyRight, keyPick, keyNew, keyQuit),
	))
}
