// Package receipt builds simple Japanese-style receipts (領収書) and renders
// them as Markdown for the terminal.
package receipt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const (
	Title       = "領収書"
	Acknowledge = "上記金額、正に領収いたしました。"

	DefaultName   = "山田太郎"
	DefaultAmount = 1000
	DefaultNote   = "〇〇代として"
)

var ErrAmount = errors.New("amount must be at least 1")

type Receipt struct {
	Number   string    `json:"number"`
	Name     string    `json:"name"`
	Amount   int64     `json:"amount"`
	IssuedAt time.Time `json:"issued_at"`
	Note     string    `json:"note"`
	Issuer   string    `json:"issuer"`
}

// New fills in the form defaults for today.
func New(issuer string, now time.Time) Receipt {
	return Receipt{
		Name:     DefaultName,
		Amount:   DefaultAmount,
		IssuedAt: now,
		Note:     DefaultNote,
		Issuer:   issuer,
	}
}

// Validate trims text fields and checks the amount. Name and note may be
// blank. A receipt without a number is assigned one.
func (r *Receipt) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Note = strings.TrimSpace(r.Note)
	r.Issuer = strings.TrimSpace(r.Issuer)
	if r.Amount < 1 {
		return fmt.Errorf("%w: got %d", ErrAmount, r.Amount)
	}
	if r.Number == "" {
		r.Number = uuid.NewString()
	}
	return nil
}

// Yen formats an amount as ¥1,234.
func Yen(amount int64) string {
	return "¥" + humanize.Comma(amount)
}

// Date formats the issue date the way receipts are usually written.
func Date(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// Markdown lays the receipt out as a Markdown document.
func Markdown(r Receipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title)
	if r.Name != "" {
		fmt.Fprintf(&b, "**%s 様**\n\n", r.Name)
	}
	fmt.Fprintf(&b, "## 金額 %s\n\n", Yen(r.Amount))
	if r.Note != "" {
		fmt.Fprintf(&b, "但し %s\n\n", r.Note)
	}
	fmt.Fprintf(&b, "%s\n\n", Acknowledge)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "- 発行日: %s\n", Date(r.IssuedAt))
	if r.Issuer != "" {
		fmt.Fprintf(&b, "- 発行者: %s\n", r.Issuer)
	}
	if r.Number != "" {
		fmt.Fprintf(&b, "- No. `%s`\n", shortNumber(r.Number))
	}
	return b.String()
}

func shortNumber(n string) string {
	if len(n) > 8 {
		return n[:8]
	}
	return n
}

// Render styles the Markdown for a terminal of the given width.
func Render(r Receipt, width int) (string, error) {
	return render(r, width, "dark")
}

func render(r Receipt, width int, style string) (string, error) {
	if width <= 0 {
		width = 60
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("renderer: %w", err)
	}
	out, err := tr.Render(Markdown(r))
	if err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return out, nil
}

// FileName is the default name for a saved receipt.
func FileName(r Receipt) string {
	return fmt.Sprintf("receipt-%s-%s.md", r.IssuedAt.Format("20060102"), shortNumber(r.Number))
}

// Save writes the Markdown form of r into dir and returns the file path.
func Save(dir string, r Receipt) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	path := filepath.Join(dir, FileName(r))
	if err := os.WriteFile(path, []byte(Markdown(r)), 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}
