package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/f130r/workspace01/internal/fx"
)

type snapshotMsg fx.Snapshot

type pollClosedMsg struct{}

// FX shows the latest quote, a sparkline and the last five closes for each
// pair, refreshed by a background poller.
type FX struct {
	ch     <-chan fx.Snapshot
	cancel context.CancelFunc
	spin   spinner.Model
	loc    *time.Location
	now    func() time.Time

	series  []fx.Series
	fetched time.Time
	err     error
}

// NewFX starts polling immediately; quitting the model stops it.
func NewFX(ctx context.Context, f fx.Fetcher, pairs []string, every time.Duration, loc *time.Location) FX {
	ctx, cancel := context.WithCancel(ctx)
	m := newFX(fx.Poll(ctx, f, pairs, every), loc)
	m.cancel = cancel
	return m
}

func newFX(ch <-chan fx.Snapshot, loc *time.Location) FX {
	if loc == nil {
		loc = time.Local
	}
	return FX{ch: ch, spin: spinner.New(spinner.WithSpinner(spinner.MiniDot)), loc: loc, now: time.Now}
}

func waitSnapshot(ch <-chan fx.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return pollClosedMsg{}
		}
		return snapshotMsg(s)
	}
}

func (m FX) Init() tea.Cmd { return tea.Batch(m.spin.Tick, waitSnapshot(m.ch)) }

func (m FX) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case snapshotMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.series, m.fetched = msg.Series, msg.Fetched
		}
		return m, waitSnapshot(m.ch)
	case pollClosedMsg:
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func seriesView(s fx.Series, loc *time.Location) string {
	last, ok := s.Last()
	if !ok {
		return accentStyle.Render(fx.Label(s.Pair)) + "  " + mutedStyle.Render("データなし")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", accentStyle.Render(fx.Label(s.Pair)), titleStyle.Render(fmt.Sprintf("%.2f 円", last.Close)))
	b.WriteString(successStyle.Render(fx.Sparkline(s.Closes(), 40)) + "\n")
	for _, q := range s.Tail(5) {
		fmt.Fprintf(&b, "  %s  %.2f\n", mutedStyle.Render(q.Time.In(loc).Format("15:04")), q.Close)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m FX) View() string {
	head := titleStyle.Render("為替レート")
	var body []string
	switch {
	case m.series == nil && m.err == nil:
		body = append(body, m.spin.View()+" 取得中...")
	default:
		for _, s := range m.series {
			body = append(body, seriesView(s, m.loc))
		}
	}
	updated := ""
	if !m.fetched.IsZero() {
		updated = mutedStyle.Render(fmt.Sprintf("更新: %s (%s)",
			m.fetched.In(m.loc).Format("2006-01-02 15:04:05 MST"),
			humanize.RelTime(m.fetched, m.now(), "ago", "from now")))
	}
	errLine := ""
	if m.err != nil {
		errLine = status("取得に失敗しました: "+m.err.Error(), true)
	}
	return panelString(join(
		head,
		strings.Join(body, "\n\n"),
		updated,
		errLine,
		helpStyle.Render("q: quit"),
	))
}

// FXReport is the non-interactive rendering used by `fx --once`.
func FXReport(series []fx.Series, fetched time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	parts := make([]string, 0, len(series)+1)
	for _, s := range series {
		parts = append(parts, seriesView(s, loc))
	}
	parts = append(parts, mutedStyle.Render("取得: "+fetched.In(loc).Format("2006-01-02 15:04:05 MST")))
	return strings.Join(parts, "\n\n")
}
