// Package timecard keeps a daily clock-in/clock-out log and computes worked
// hours. Records live in a CSV file or an SQLite database.
package timecard

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

var timeRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

// Record is one day. Start and End are "HH:MM:SS" or empty.
type Record struct {
	Date  string
	Start string
	End   string
}

// NormalizeTime returns s when it looks like HH:MM:SS and "" otherwise.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if !timeRe.MatchString(s) {
		return ""
	}
	return s
}

// Normalize trims the date and blanks malformed times.
func (r Record) Normalize() Record {
	return Record{
		Date:  strings.TrimSpace(r.Date),
		Start: NormalizeTime(r.Start),
		End:   NormalizeTime(r.End),
	}
}

// Duration is the time worked. An end before the start is taken to be the
// next day. ok is false when either time is missing or unparseable.
func (r Record) Duration() (d time.Duration, ok bool) {
	if r.Start == "" || r.End == "" {
		return 0, false
	}
	start, err := time.Parse(TimeLayout, r.Start)
	if err != nil {
		return 0, false
	}
	end, err := time.Parse(TimeLayout, r.End)
	if err != nil {
		return 0, false
	}
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return end.Sub(start), true
}

// Hours formats Duration as "HH:MM", or "" when incomplete.
func (r Record) Hours() string {
	d, ok := r.Duration()
	if !ok {
		return ""
	}
	return FormatDuration(d)
}

// FormatDuration renders d as zero-padded hours and minutes. Seconds are
// truncated.
func FormatDuration(d time.Duration) string {
	total := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Total sums the complete records.
func Total(recs []Record) time.Duration {
	var sum time.Duration
	for _, r := range recs {
		if d, ok := r.Duration(); ok {
			sum += d
		}
	}
	return sum
}
