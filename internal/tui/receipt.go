package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/logging"
	"github.com/f130r/workspace01/internal/receipt"
)

const (
	fieldName = iota
	fieldAmount
	fieldDate
	fieldNote
	fieldIssuer
	fieldCount
)

var fieldLabels = [fieldCount]string{"宛名", "金額", "日付", "但し書き", "発行者"}

// Receipt is a form that flips to a rendered preview and back.
type Receipt struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	preview bool
	current receipt.Receipt
	render  string
	outDir  string
	width   int
	loc     *time.Location
	msg     string
	isErr   bool
	log     *zap.Logger
}

// NewReceipt fills the form from r. Saved receipts go to outDir.
func NewReceipt(r receipt.Receipt, outDir string, loc *time.Location, log *zap.Logger) Receipt {
	if loc == nil {
		loc = time.Local
	}
	m := Receipt{outDir: outDir, width: 60, loc: loc, log: logging.OrNop(log)}
	values := [fieldCount]string{
		r.Name,
		strconv.FormatInt(r.Amount, 10),
		r.IssuedAt.In(loc).Format("2006-01-02"),
		r.Note,
		r.Issuer,
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-6s> ", fieldLabels[i])
		ti.CharLimit = 100
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	m.inputs[fieldAmount].CharLimit = 12
	m.inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	m.inputs[fieldName].Focus()
	return m
}

func (m Receipt) Init() tea.Cmd { return textinput.Blink }

func (m *Receipt) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = (i + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
}

// build reads the form into a validated receipt.
func (m Receipt) build() (receipt.Receipt, error) {
	amount, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(m.inputs[fieldAmount].Value()), ",", ""), 10, 64)
	if err != nil {
		return receipt.Receipt{}, errors.New("金額は数字で入力してください")
	}
	issued, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(m.inputs[fieldDate].Value()), m.loc)
	if err != nil {
		return receipt.Receipt{}, errors.New("日付は YYYY-MM-DD で入力してください")
	}
	r := receipt.Receipt{
		Number:   m.current.Number,
		Name:     m.inputs[fieldName].Value(),
		Amount:   amount,
		IssuedAt: issued,
		Note:     m.inputs[fieldNote].Value(),
		Issuer:   m.inputs[fieldIssuer].Value(),
	}
	if err := r.Validate(); err != nil {
		return receipt.Receipt{}, err
	}
	return r, nil
}

func (m Receipt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = max(ws.Width-8, 30)
		return m, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if m.preview {
		if !ok {
			return m, nil
		}
		switch km.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "b":
			m.preview, m.msg, m.isErr = false, "", false
		case "s":
			path, err := receipt.Save(m.outDir, m.current)
			if err != nil {
				m.msg, m.isErr = err.Error(), true
				return m, nil
			}
			m.log.Info("receipt saved", zap.String("path", path))
			m.msg, m.isErr = "保存しました: "+path, false
		}
		return m, nil
	}

	if ok {
		switch km.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "enter":
			if m.focus < fieldCount-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			fallthrough
		case "ctrl+s":
			r, err := m.build()
			if err != nil {
				m.msg, m.isErr = err.Error(), true
				return m, nil
			}
			out, err := receipt.Render(r, m.width)
			if err != nil {
				m.log.Warn("render receipt", zap.Error(err))
				out = receipt.Markdown(r)
			}
			m.current, m.render, m.preview = r, out, true
			m.msg, m.isErr = "", false
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Receipt) View() string {
	if m.preview {
		return join(
			strings.TrimRight(m.render, "\n"),
			status(m.msg, m.isErr),
			helpStyle.Render("s: save • b/esc: back to form • q: quit"),
		)
	}
	lines := make([]string, fieldCount)
	for i := range m.inputs {
		lines[i] = m.inputs[i].View()
	}
	return panelString(join(
		titleStyle.Render("領収書の作成"),
		strings.Join(lines, "\n"),
		status(m.msg, m.isErr),
		helpStyle.Render("tab/↓: next • shift+tab/↑: prev • enter on last field or ctrl+s: preview • esc: quit"),
	))
}
