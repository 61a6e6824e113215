package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/logging"
	"github.com/f130r/workspace01/internal/timetable"
)

var (
	keyEdit     = key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit"))
	keyErase    = key.NewBinding(key.WithKeys("x", "backspace", "delete"), key.WithHelp("x", "erase"))
	keyClearAll = key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all"))
)

// Timetable edits the weekly grid in place; every change is saved.
type Timetable struct {
	tt      *timetable.Timetable
	path    string
	cursor  int // period*5 + day
	editing bool
	ti      textinput.Model
	msg     string
	isErr   bool
	log     *zap.Logger
}

// NewTimetable edits tt and saves it to path ("" keeps it in memory).
func NewTimetable(tt *timetable.Timetable, path string, log *zap.Logger) Timetable {
	ti := textinput.New()
	ti.Prompt = "科目> "
	ti.CharLimit = 20
	return Timetable{tt: tt, path: path, ti: ti, log: logging.OrNop(log)}
}

func (m Timetable) Init() tea.Cmd { return nil }

func (m Timetable) pos() (day, period int) {
	return m.cursor % len(timetable.Days), m.cursor / len(timetable.Days)
}

func (m *Timetable) save(note string) {
	if m.path != "" {
		if err := timetable.Save(m.path, m.tt); err != nil {
			m.log.Warn("save timetable", zap.Error(err))
			m.msg, m.isErr = "save: "+err.Error(), true
			return
		}
	}
	m.msg, m.isErr = note, false
}

func (m Timetable) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if m.editing {
		if ok {
			switch km.String() {
			case "enter":
				day, period := m.pos()
				_ = m.tt.Set(day, period, m.ti.Value())
				m.editing = false
				m.ti.Blur()
				m.save(fmt.Sprintf("%s曜 %s を保存しました", timetable.Days[day], timetable.PeriodLabel(period)))
				return m, nil
			case "esc":
				m.editing = false
				m.ti.Blur()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, keyQuit), km.String() == "esc":
		return m, tea.Quit
	case key.Matches(km, keyEdit):
		day, period := m.pos()
		cur, _ := m.tt.Get(day, period)
		m.ti.SetValue(cur)
		m.ti.CursorEnd()
		m.editing = true
		return m, m.ti.Focus()
	case key.Matches(km, keyErase):
		day, period := m.pos()
		_ = m.tt.Set(day, period, "")
		m.save("消去しました")
		return m, nil
	case key.Matches(km, keyClearAll):
		m.tt.Clear()
		m.save("時間割をクリアしました")
		return m, nil
	}
	if c, moved := moveCursor(km, m.cursor, len(timetable.Days), timetable.Periods); moved {
		m.cursor = c
	}
	return m, nil
}

func (m Timetable) View() string {
	day, period := m.pos()
	edit := ""
	if m.editing {
		edit = m.ti.View()
	}
	return panelString(join(
		titleStyle.Render("時間割")+mutedStyle.Render(fmt.Sprintf("   %d/%d コマ", m.tt.Filled(), len(timetable.Days)*timetable.Periods)),
		m.tt.Render(day, period),
		edit,
		status(m.msg, m.isErr),
		helpView(keyUp, keyDown, keyLeft, keyRight, keyEdit, keyErase, keyClearAll, keyQuit),
	))
}
