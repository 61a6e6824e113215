package timecard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/logging"
)

var (
	ErrAlreadyClockedIn  = errors.New("today's clock-in is already recorded")
	ErrNotClockedIn      = errors.New("clock in first")
	ErrAlreadyClockedOut = errors.New("already clocked out today")
	ErrNoRecord          = errors.New("no record for that date")
	ErrBadDate           = errors.New("date must be YYYY-MM-DD")
)

// Book applies attendance operations to a Store. Every operation loads the
// current records, changes them and saves the result.
type Book struct {
	Store Store
	Clock func() time.Time
	Loc   *time.Location
	Log   *zap.Logger
}

func NewBook(s Store, loc *time.Location, log *zap.Logger) *Book {
	if loc == nil {
		loc = time.Local
	}
	return &Book{Store: s, Clock: time.Now, Loc: loc, Log: logging.OrNop(log)}
}

// Now is the current time in the book's zone.
func (b *Book) Now() time.Time {
	clock := b.Clock
	if clock == nil {
		clock = time.Now
	}
	loc := b.Loc
	if loc == nil {
		loc = time.Local
	}
	return clock().In(loc)
}

func (b *Book) log() *zap.Logger { return logging.OrNop(b.Log) }

func (b *Book) Records(ctx context.Context) ([]Record, error) {
	return b.Store.Load(ctx)
}

// Total is the worked time across all complete records.
func (b *Book) Total(ctx context.Context) (time.Duration, error) {
	recs, err := b.Store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return Total(recs), nil
}

func indexOf(recs []Record, date string) int {
	return slices.IndexFunc(recs, func(r Record) bool { return r.Date == date })
}

// ClockIn starts today's record. A day can only be clocked in once unless
// it is cleared first.
func (b *Book) ClockIn(ctx context.Context, now time.Time) (Record, error) {
	recs, err := b.Store.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	today := now.Format(DateLayout)
	if indexOf(recs, today) >= 0 {
		return Record{}, ErrAlreadyClockedIn
	}
	rec := Record{Date: today, Start: now.Format(TimeLayout)}
	if err := b.Store.Save(ctx, append(recs, rec)); err != nil {
		return Record{}, err
	}
	b.log().Info("clock in", zap.String("date", rec.Date), zap.String("start", rec.Start))
	return rec, nil
}

// ClockOut closes today's record.
func (b *Book) ClockOut(ctx context.Context, now time.Time) (Record, error) {
	recs, err := b.Store.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	i := indexOf(recs, now.Format(DateLayout))
	if i < 0 {
		return Record{}, ErrNotClockedIn
	}
	if recs[i].End != "" {
		return Record{}, ErrAlreadyClockedOut
	}
	recs[i].End = now.Format(TimeLayout)
	if err := b.Store.Save(ctx, recs); err != nil {
		return Record{}, err
	}
	b.log().Info("clock out", zap.String("date", recs[i].Date), zap.String("end", recs[i].End))
	return recs[i], nil
}

// ClearDay removes the record for date, if any. It reports how many rows
// went away.
func (b *Book) ClearDay(ctx context.Context, date string) (int, error) {
	recs, err := b.Store.Load(ctx)
	if err != nil {
		return 0, err
	}
	kept := slices.DeleteFunc(recs, func(r Record) bool { return r.Date == date })
	removed := len(recs) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := b.Store.Save(ctx, kept); err != nil {
		return 0, err
	}
	b.log().Info("timecard cleared day", zap.String("date", date), zap.Int("removed", removed))
	return removed, nil
}

// Delete is ClearDay for a user-chosen date; the date must exist.
func (b *Book) Delete(ctx context.Context, date string) error {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrBadDate, date)
	}
	n, err := b.ClearDay(ctx, date)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNoRecord, date)
	}
	return nil
}

func (b *Book) ClearAll(ctx context.Context) error {
	if err := b.Store.Save(ctx, nil); err != nil {
		return err
	}
	b.log().Info("timecard cleared")
	return nil
}

// Replace saves an edited copy of the log. Times are normalised, blank rows
// dropped, and dates must parse.
func (b *Book) Replace(ctx context.Context, recs []Record) ([]Record, error) {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		r = r.Normalize()
		if r == (Record{}) {
			continue
		}
		if _, err := time.Parse(DateLayout, r.Date); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadDate, r.Date)
		}
		out = append(out, r)
	}
	if err := b.Store.Save(ctx, out); err != nil {
		return nil, err
	}
	b.log().Info("timecard edited", zap.Int("records", len(out)))
	return out, nil
}

// Describe turns a Book error into the message shown to the user.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyClockedIn):
		return "今日の出勤は既に記録されています"
	case errors.Is(err, ErrNotClockedIn):
		return "まず出勤を記録してください"
	case errors.Is(err, ErrAlreadyClockedOut):
		return "既に退勤済みです"
	case errors.Is(err, ErrNoRecord):
		return "その日付の記録はありません"
	case errors.Is(err, ErrBadDate):
		return "日付は YYYY-MM-DD で入力してください"
	}
	return err.Error()
}

// IsWarning reports whether err is a rule the user broke rather than a
// storage failure.
func IsWarning(err error) bool {
	return errors.Is(err, ErrAlreadyClockedIn) || errors.Is(err, ErrNotClockedIn) ||
		errors.Is(err, ErrAlreadyClockedOut) || errors.Is(err, ErrNoRecord) || errors.Is(err, ErrBadDate)
}
