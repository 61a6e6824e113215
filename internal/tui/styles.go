// Package tui holds one Bubble Tea model per demo. Models are plain values;
// Update returns the next state.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Faint(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	cellStyle = lipgloss.NewStyle().Width(3).Align(lipgloss.Center)
)

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

// status renders the one-line message under a board. Errors are red, other
// text muted.
func status(msg string, isErr bool) string {
	if msg == "" {
		return ""
	}
	if isErr {
		return errorStyle.Render(msg)
	}
	return accentStyle.Render(msg)
}

func join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// Shared bindings.
var (
	keyUp    = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	keyDown  = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	keyLeft  = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left"))
	keyRight = key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right"))
	keyPick  = key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "play"))
	keyNew   = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game"))
	keyQuit  = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

// bindings adapts a slice to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func helpView(b ...key.Binding) string {
	h := help.New()
	return h.View(bindings(b))
}

// moveCursor steps a row-major cursor on a cols×rows grid, clamped at the
// edges. It reports whether msg was a movement key.
func moveCursor(msg tea.KeyMsg, cursor, cols, rows int) (int, bool) {
	r, c := cursor/cols, cursor%cols
	switch {
	case key.Matches(msg, keyUp):
		r = max(r-1, 0)
	case key.Matches(msg, keyDown):
		r = min(r+1, rows-1)
	case key.Matches(msg, keyLeft):
		c = max(c-1, 0)
	case key.Matches(msg, keyRight):
		c = min(c+1, cols-1)
	default:
		return cursor, false
	}
	return r*cols + c, true
}

// Run starts m full-screen and returns the final model.
func Run(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return tea.NewProgram(m, opts...).Run()
}
