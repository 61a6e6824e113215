package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Entry is one demo offered by the launcher.
type Entry struct {
	Name string // subcommand
	Desc string
}

func (e Entry) Title() string       { return e.Name }
func (e Entry) Description() string { return e.Desc }
func (e Entry) FilterValue() string { return e.Name + " " + e.Desc }

// entryDelegate renders one line per entry.
type entryDelegate struct{}

func (d entryDelegate) Height() int                               { return 1 }
func (d entryDelegate) Spacing() int                              { return 0 }
func (d entryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, ok := item.(Entry)
	if !ok {
		return
	}
	prefix := "  "
	name := accentStyle.Render(fmt.Sprintf("%-10s", e.Name))
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
		name = titleStyle.Render(fmt.Sprintf("%-10s", e.Name))
	}
	fmt.Fprintf(w, "%s%s %s", prefix, name, mutedStyle.Render(e.Desc))
}

// Launcher lists the demos; enter picks one and quits.
type Launcher struct {
	list   list.Model
	chosen string
}

func NewLauncher(entries []Entry) Launcher {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, e)
	}
	l := list.New(items, entryDelegate{}, 60, len(entries)+8)
	l.Title = "toybox"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keyPick} }
	return Launcher{list: l}
}

// Chosen is the picked subcommand, or "" if the user quit.
func (m Launcher) Chosen() string { return m.chosen }

func (m Launcher) Init() tea.Cmd { return nil }

func (m Launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-2)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if e, ok := m.list.SelectedItem().(Entry); ok {
				m.chosen = e.Name
				return m, tea.Quit
			}
			return m, nil
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Launcher) View() string { return panelString(m.list.View()) }
