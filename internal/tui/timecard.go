package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f130r/workspace01/internal/timecard"
)

type changedMsg struct{}

type level int

const (
	levelInfo level = iota
	levelOK
	levelWarn
	levelErr
)

// Timecard lists the log in a table and applies clock operations to it.
// When a change channel is supplied the table reloads after outside edits.
type Timecard struct {
	ctx     context.Context
	book    *timecard.Book
	changes <-chan struct{}
	tbl     table.Model
	recs    []timecard.Record

	confirm string // "row" or "all" while waiting for y/n

	editing bool
	editIdx int
	inputs  [2]textinput.Model
	editPos int

	msg string
	lvl level
}

func NewTimecard(ctx context.Context, book *timecard.Book, changes <-chan struct{}) Timecard {
	cols := []table.Column{
		{Title: "日付", Width: 12},
		{Title: "出勤", Width: 10},
		{Title: "退勤", Width: 10},
		{Title: "勤務時間", Width: 9},
	}
	st := table.DefaultStyles()
	st.Header = st.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	st.Selected = selectedStyle

	m := Timecard{
		ctx:     ctx,
		book:    book,
		changes: changes,
		tbl:     table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(12), table.WithStyles(st)),
	}
	for i, p := range []string{"出勤> ", "退勤> "} {
		ti := textinput.New()
		ti.Prompt = p
		ti.Placeholder = "HH:MM:SS"
		ti.CharLimit = 8
		m.inputs[i] = ti
	}
	m.reload()
	return m
}

func waitChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m Timecard) Init() tea.Cmd { return waitChange(m.changes) }

func (m *Timecard) reload() {
	recs, err := m.book.Records(m.ctx)
	if err != nil {
		m.report(err)
		return
	}
	m.recs = recs
	rows := make([]table.Row, len(recs))
	for i, r := range recs {
		rows[i] = table.Row{r.Date, r.Start, r.End, r.Hours()}
	}
	m.tbl.SetRows(rows)
	if c := m.tbl.Cursor(); c >= len(rows) {
		m.tbl.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *Timecard) report(err error) {
	m.msg = timecard.Describe(err)
	m.lvl = levelErr
	if timecard.IsWarning(err) {
		m.lvl = levelWarn
	}
}

func (m *Timecard) say(l level, msg string) { m.msg, m.lvl = msg, l }

func (m Timecard) selected() (timecard.Record, bool) {
	i := m.tbl.Cursor()
	if i < 0 || i >= len(m.recs) {
		return timecard.Record{}, false
	}
	return m.recs[i], true
}

func (m Timecard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(changedMsg); ok {
		m.reload()
		return m, waitChange(m.changes)
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing {
		return m.updateEdit(km)
	}
	if m.confirm != "" {
		return m.updateConfirm(km), nil
	}

	switch km.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "i":
		rec, err := m.book.ClockIn(m.ctx, m.book.Now())
		if err != nil {
			m.report(err)
			return m, nil
		}
		m.say(levelOK, "出勤: "+rec.Start)
		m.reload()
	case "o":
		rec, err := m.book.ClockOut(m.ctx, m.book.Now())
		if err != nil {
			m.report(err)
			return m, nil
		}
		m.say(levelOK, "退勤: "+rec.End)
		m.reload()
	case "c":
		if _, err := m.book.ClearDay(m.ctx, m.book.Now().Format(timecard.DateLayout)); err != nil {
			m.report(err)
			return m, nil
		}
		m.say(levelInfo, "今日の記録をクリアしました")
		m.reload()
	case "d":
		if rec, ok := m.selected(); ok {
			m.confirm = "row"
			m.say(levelWarn, rec.Date+" の記録を削除しますか？ (y/n)")
		}
	case "D":
		m.confirm = "all"
		m.say(levelWarn, "全ての記録を削除しますか？ (y/n)")
	case "e":
		if rec, ok := m.selected(); ok {
			m.editing, m.editIdx, m.editPos = true, m.tbl.Cursor(), 0
			m.inputs[0].SetValue(rec.Start)
			m.inputs[1].SetValue(rec.End)
			m.inputs[0].Focus()
			m.inputs[1].Blur()
			m.say(levelInfo, rec.Date+" を編集中")
		}
	case "r":
		m.reload()
		m.say(levelInfo, "再読み込みしました")
	default:
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Timecard) updateConfirm(km tea.KeyMsg) Timecard {
	what := m.confirm
	m.confirm = ""
	if km.String() != "y" {
		m.say(levelInfo, "キャンセルしました")
		return m
	}
	switch what {
	case "row":
		rec, ok := m.selected()
		if !ok {
			return m
		}
		if err := m.book.Delete(m.ctx, rec.Date); err != nil {
			m.report(err)
			return m
		}
		m.say(levelOK, rec.Date+" の記録を削除しました")
	case "all":
		if err := m.book.ClearAll(m.ctx); err != nil {
			m.report(err)
			return m
		}
		m.say(levelWarn, "全ての記録を削除しました")
	}
	m.reload()
	return m
}

func (m Timecard) updateEdit(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch km.String() {
	case "esc":
		m.editing = false
		m.say(levelInfo, "キャンセルしました")
		return m, nil
	case "tab", "shift+tab":
		m.inputs[m.editPos].Blur()
		m.editPos = 1 - m.editPos
		m.inputs[m.editPos].Focus()
		return m, nil
	case "enter":
		recs := append([]timecard.Record(nil), m.recs...)
		if m.editIdx < len(recs) {
			recs[m.editIdx].Start = m.inputs[0].Value()
			recs[m.editIdx].End = m.inputs[1].Value()
		}
		m.editing = false
		if _, err := m.book.Replace(m.ctx, recs); err != nil {
			m.report(err)
			return m, nil
		}
		m.say(levelOK, "編集内容を保存しました")
		m.reload()
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.editPos], cmd = m.inputs[m.editPos].Update(km)
	return m, cmd
}

func (m Timecard) View() string {
	now := m.book.Now()
	head := titleStyle.Render("🕒 タイムカード") + mutedStyle.Render("   "+now.Format("2006-01-02 15:04 MST"))

	total := timecard.Total(m.recs)
	foot := fmt.Sprintf("%d 日分  合計 %s", len(m.recs), timecard.FormatDuration(total))

	edit := ""
	if m.editing {
		edit = m.inputs[0].View() + "\n" + m.inputs[1].View()
	}

	var line string
	switch m.lvl {
	case levelOK:
		line = successStyle.Render(m.msg)
	case levelWarn:
		line = pendingStyle.Render(m.msg)
	case levelErr:
		line = errorStyle.Render(m.msg)
	default:
		line = accentStyle.Render(m.msg)
	}
	if m.msg == "" {
		line = ""
	}

	return panelString(join(
		head,
		m.tbl.View(),
		mutedStyle.Render(foot),
		edit,
		line,
		helpStyle.Render(strings.Join([]string{
			"i: 出勤", "o: 退勤", "c: 今日をクリア", "e: 編集", "d: 削除", "D: 全削除", "r: 再読込", "q: quit",
		}, " • ")),
	))
}
