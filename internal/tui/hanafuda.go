package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/hanafuda"
	"github.com/f130r/workspace01/internal/logging"
)

var kindColor = map[hanafuda.Kind]lipgloss.Style{
	hanafuda.Bright: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	hanafuda.Animal: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	hanafuda.Ribbon: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	hanafuda.Chaff:  mutedStyle,
}

func cardLabel(c hanafuda.Card) string {
	return kindColor[c.Kind].Render(fmt.Sprintf("%d月 %s", c.Month, c.Name))
}

// Hanafuda is a two-seat matching game against the CPU.
type Hanafuda struct {
	game   *hanafuda.Game
	rng    *rand.Rand
	cursor int
	log    []string
	msg    string
	isErr  bool
	zl     *zap.Logger
}

// NewHanafuda deals a fresh game. A nil rng uses the global source.
func NewHanafuda(rng *rand.Rand, log *zap.Logger) Hanafuda {
	return Hanafuda{game: hanafuda.Deal(rng), rng: rng, zl: logging.OrNop(log)}
}

// newHanafudaFrom starts from an existing table.
func newHanafudaFrom(g *hanafuda.Game) Hanafuda {
	return Hanafuda{game: g, zl: logging.OrNop(nil)}
}

func (m Hanafuda) Init() tea.Cmd { return nil }

func (m Hanafuda) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	hand := m.game.Hands[hanafuda.Player]
	switch {
	case key.Matches(km, keyQuit):
		return m, tea.Quit
	case key.Matches(km, keyNew):
		return NewHanafuda(m.rng, m.zl), nil
	case key.Matches(km, keyLeft), key.Matches(km, keyUp):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(km, keyRight), key.Matches(km, keyDown):
		m.cursor = min(m.cursor+1, max(len(hand)-1, 0))
	case key.Matches(km, keyPick):
		m.play()
	}
	return m, nil
}

// play runs the player's turn and then every CPU turn until it is the
// player's move again or the game ends.
func (m *Hanafuda) play() {
	if m.game.Over {
		m.msg, m.isErr = hanafuda.ErrGameOver.Error(), true
		return
	}
	hand := m.game.Hands[hanafuda.Player]
	if m.cursor >= len(hand) {
		return
	}
	rep, err := m.game.Play(hanafuda.Player, hand[m.cursor].ID)
	if err != nil {
		m.msg, m.isErr = err.Error(), true
		return
	}
	m.msg, m.isErr = "", false
	m.log = []string{describeTurn("あなた", rep)}
	for !m.game.Over && m.game.Turn == hanafuda.CPU {
		rep, err := m.game.CPUTurn()
		if err != nil {
			m.zl.Error("cpu turn", zap.Error(err))
			break
		}
		m.log = append(m.log, describeTurn("CPU", rep))
	}
	m.cursor = min(m.cursor, max(len(m.game.Hands[hanafuda.Player])-1, 0))
	if m.game.Over {
		m.msg = m.result()
	}
}

func describeTurn(who string, rep hanafuda.TurnReport) string {
	parts := []string{fmt.Sprintf("%s: %s を出す", who, cardLabel(rep.Played))}
	if rep.Drawn != nil {
		parts = append(parts, fmt.Sprintf("山札から %s", cardLabel(*rep.Drawn)))
	}
	for _, c := range rep.Captures {
		parts = append(parts, fmt.Sprintf("%s で %s を取る", cardLabel(c.Card), cardLabel(c.Taken)))
	}
	return strings.Join(parts, " / ")
}

func (m Hanafuda) result() string {
	p := hanafuda.Score(m.game.Collected[hanafuda.Player])
	c := hanafuda.Score(m.game.Collected[hanafuda.CPU])
	score := fmt.Sprintf("%d文 (%d点) 対 %d文 (%d点)", p.Points, p.Raw, c.Points, c.Raw)
	switch m.game.Winner() {
	case hanafuda.Player:
		return "あなたの勝ち！ " + score
	case hanafuda.CPU:
		return "CPUの勝ち " + score
	}
	return "引き分け " + score
}

func yakuLine(r hanafuda.Result) string {
	if len(r.Yaku) == 0 {
		return mutedStyle.Render("役なし")
	}
	names := make([]string, len(r.Yaku))
	for i, y := range r.Yaku {
		names[i] = fmt.Sprintf("%s(%d)", y.Name, y.Points)
	}
	return strings.Join(names, " ")
}

func (m Hanafuda) View() string {
	var field []string
	for _, c := range m.game.Field {
		field = append(field, cardLabel(c))
	}

	var hand strings.Builder
	for i, c := range m.game.Hands[hanafuda.Player] {
		prefix := "  "
		if i == m.cursor && !m.game.Over {
			prefix = selectedStyle.Render("> ")
		}
		hand.WriteString(prefix + cardLabel(c) + "\n")
	}

	you := hanafuda.Score(m.game.Collected[hanafuda.Player])
	cpu := hanafuda.Score(m.game.Collected[hanafuda.CPU])
	scores := fmt.Sprintf("あなた %d枚 %s\nCPU    %d枚 %s",
		len(m.game.Collected[hanafuda.Player]), yakuLine(you),
		len(m.game.Collected[hanafuda.CPU]), yakuLine(cpu))

	return panelString(join(
		titleStyle.Render("花札")+mutedStyle.Render(fmt.Sprintf("   山札 %d枚  CPU手札 %d枚", len(m.game.Pile), len(m.game.Hands[hanafuda.CPU]))),
		accentStyle.Render("場札")+"\n"+strings.Join(field, "  "),
		accentStyle.Render("手札")+"\n"+strings.TrimRight(hand.String(), "\n"),
		scores,
		strings.Join(m.log, "\n"),
		status(m.msg, m.isErr),
		helpView(keyLeft, keyRight, keyPick, keyNew, keyQuit),
	))
}
