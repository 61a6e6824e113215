package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/f130r/workspace01/internal/janlookup"
)

// Lookuper is satisfied by *janlookup.Service.
type Lookuper interface {
	Lookup(ctx context.Context, code string) (janlookup.Item, error)
}

type lookupMsg struct {
	code string
	item janlookup.Item
	err  error
}

// JAN looks codes up as they are entered.
type JAN struct {
	svc     Lookuper
	ti      textinput.Model
	spin    spinner.Model
	busy    bool
	timeout time.Duration
	demo    []string

	item  *janlookup.Item
	msg   string
	isErr bool
}

func NewJAN(svc Lookuper, demoCodes []string, timeout time.Duration) JAN {
	ti := textinput.New()
	ti.Prompt = "JAN> "
	ti.Placeholder = "13桁のJANコード"
	ti.CharLimit = 13
	ti.Focus()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return JAN{svc: svc, ti: ti, spin: spinner.New(spinner.WithSpinner(spinner.Dot)), timeout: timeout, demo: demoCodes}
}

func (m JAN) Init() tea.Cmd { return textinput.Blink }

func (m JAN) lookup(code string) tea.Cmd {
	svc, timeout := m.svc, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		it, err := svc.Lookup(ctx, code)
		return lookupMsg{code: code, item: it, err: err}
	}
}

func (m JAN) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			code := strings.TrimSpace(m.ti.Value())
			if err := janlookup.Validate(code); err != nil {
				m.item, m.msg, m.isErr = nil, "JANコードは13桁の数字で入力してください", true
				return m, nil
			}
			m.busy, m.msg, m.isErr = true, "", false
			return m, tea.Batch(m.spin.Tick, m.lookup(code))
		}
	case lookupMsg:
		m.busy = false
		switch {
		case msg.err == nil:
			it := msg.item
			m.item, m.msg, m.isErr = &it, "", false
		case errors.Is(msg.err, janlookup.ErrNotFound):
			m.item, m.msg, m.isErr = nil, "該当する商品が見つかりません: "+msg.code, true
		default:
			m.item, m.msg, m.isErr = nil, "検索に失敗しました: "+msg.err.Error(), true
		}
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func itemTable(it janlookup.Item) string {
	rows := make([][]string, 0, 6)
	rows = append(rows, []string{"JAN", it.Code})
	for _, f := range it.Fields() {
		rows = append(rows, []string{f[0], f[1]})
	}
	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return accentStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}

func (m JAN) View() string {
	result := ""
	switch {
	case m.busy:
		result = m.spin.View() + " 検索中..."
	case m.item != nil:
		result = successStyle.Render("見つかりました") + "\n" + itemTable(*m.item)
	}
	hint := ""
	if len(m.demo) > 0 {
		hint = mutedStyle.Render("デモ用コード: " + strings.Join(m.demo, ", "))
	}
	return panelString(join(
		titleStyle.Render("JANコード検索"),
		m.ti.View(),
		result,
		status(m.msg, m.isErr),
		hint,
		helpStyle.Render("enter: search • esc: quit"),
	))
}
