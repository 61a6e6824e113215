// Package timetable is a weekly class grid: five weekdays by five periods.
package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/f130r/workspace01/internal/store/jsonstore"
)

var Days = []string{"月", "火", "水", "木", "金"}

const Periods = 5

var (
	ErrDay    = errors.New("day must be one of 月火水木金 or mon..fri")
	ErrPeriod = errors.New("period must be 1..5")
)

var dayAliases = map[string]int{
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4,
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3, "friday": 4,
}

// ParseDay accepts 月..金 (optionally followed by 曜/曜日) or an English name.
func ParseDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "日"), "曜")
	for i, d := range Days {
		if s == d {
			return i, nil
		}
	}
	if i, ok := dayAliases[strings.ToLower(s)]; ok {
		return i, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrDay, s)
}

// ParsePeriod accepts "3" or "3限" and returns a zero-based index.
func ParsePeriod(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "限")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > Periods {
		return 0, fmt.Errorf("%w: %q", ErrPeriod, s)
	}
	return n - 1, nil
}

func PeriodLabel(p int) string { return fmt.Sprintf("%d限", p+1) }

// Timetable holds subjects by [period][day]. Empty means free.
type Timetable struct {
	Cells [Periods][5]string `json:"cells"`
}

func inRange(day, period int) error {
	if day < 0 || day >= len(Days) {
		return ErrDay
	}
	if period < 0 || period >= Periods {
		return ErrPeriod
	}
	return nil
}

// Set stores subject, trimmed. A blank subject clears the cell.
func (t *Timetable) Set(day, period int, subject string) error {
	if err := inRange(day, period); err != nil {
		return err
	}
	t.Cells[period][day] = strings.TrimSpace(subject)
	return nil
}

func (t *Timetable) Get(day, period int) (string, error) {
	if err := inRange(day, period); err != nil {
		return "", err
	}
	return t.Cells[period][day], nil
}

func (t *Timetable) Clear() { t.Cells = [Periods][5]string{} }

// Filled counts non-empty cells.
func (t *Timetable) Filled() int {
	n := 0
	for _, row := range t.Cells {
		for _, c := range row {
			if c != "" {
				n++
			}
		}
	}
	return n
}

// Render draws the grid with periods down the side and days across the top.
// selDay/selPeriod highlight one cell; pass -1 for none.
func (t *Timetable) Render(selDay, selPeriod int) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1).Width(12)
	label := lipgloss.NewStyle().Padding(0, 1).Faint(true)
	selected := cell.Reverse(true)

	rows := make([][]string, Periods)
	for p := range rows {
		rows[p] = append([]string{PeriodLabel(p)}, t.Cells[p][:]...)
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(append([]string{""}, Days...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return label
			case row == selPeriod && col-1 == selDay:
				return selected
			default:
				return cell
			}
		})
	return tbl.String()
}

func Load(path string) (*Timetable, error) {
	t, err := jsonstore.Load[Timetable](path)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func Save(path string, t *Timetable) error {
	return jsonstore.Save(path, t)
}
