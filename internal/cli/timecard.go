package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/timecard"
	"github.com/f130r/workspace01/internal/tui"
	"github.com/f130r/workspace01/internal/ui"
)

func newTimecardCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timecard",
		Aliases: []string{"tc"},
		Short:   "Record clock-in and clock-out times",
		Long: `timecard keeps one row per day (date, start, end) in a CSV file or a
SQLite database, chosen by timecard.backend in the config. Without a
subcommand it opens the interactive screen, which reloads when the file
changes on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exit(a.withBook(cmd.Context(), a.doTimecardTUI))
		},
	}

	simple := func(use, short string, fn func(context.Context, *timecard.Book) int) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return exit(a.withBook(cmd.Context(), fn))
			},
		}
	}

	var yes bool
	reset := simple("reset", "Delete every record (needs --yes)", func(ctx context.Context, b *timecard.Book) int {
		return a.doReset(ctx, b, yes)
	})
	reset.Flags().BoolVar(&yes, "yes", false, "confirm deleting everything")

	cmd.AddCommand(
		simple("in", "Clock in for today", a.doClockIn),
		simple("out", "Clock out for today", a.doClockOut),
		simple("clear", "Clear today's record so you can clock in again", a.doClearToday),
		simple("ls", "List records with the total worked time", a.doTimecardList),
		reset,
		&cobra.Command{
			Use:   "rm <date>",
			Short: "Delete the record for a date (YYYY-MM-DD)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return exit(a.withBook(cmd.Context(), func(ctx context.Context, b *timecard.Book) int {
					return a.doTimecardRemove(ctx, b, args[0])
				}))
			},
		},
		&cobra.Command{
			Use:   "edit <date> <start> <end>",
			Short: "Set the times for a date; use \"\" to blank one",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return exit(a.withBook(cmd.Context(), func(ctx context.Context, b *timecard.Book) int {
					return a.doTimecardEdit(ctx, b, timecard.Record{Date: args[0], Start: args[1], End: args[2]})
				}))
			},
		},
	)
	return cmd
}

func (a *App) timecardFile() string {
	if a.Cfg.Timecard.Backend == "sqlite" {
		return a.Cfg.Path(a.Cfg.Timecard.DBFile)
	}
	return a.Cfg.Path(a.Cfg.Timecard.CSVFile)
}

// withBook opens the configured store, runs fn and closes the store.
func (a *App) withBook(ctx context.Context, fn func(context.Context, *timecard.Book) int) int {
	s, err := timecard.OpenStore(ctx, a.Cfg.Timecard.Backend, a.timecardFile(), a.Log)
	if err != nil {
		return a.fail(1, "open: "+err.Error())
	}
	defer func() {
		if err := timecard.CloseStore(s); err != nil {
			a.Log.Warn("timecard close", zap.Error(err))
		}
	}()
	b := timecard.NewBook(s, a.location(), a.Log)
	b.Clock = a.Now
	return fn(ctx, b)
}

// bookError maps rule violations to a warning and storage failures to an error.
func (a *App) bookError(err error) int {
	if timecard.IsWarning(err) {
		ui.Warn(a.Err, timecard.Describe(err))
		return 1
	}
	return a.fail(1, err.Error())
}

func (a *App) doClockIn(ctx context.Context, b *timecard.Book) int {
	rec, err := b.ClockIn(ctx, b.Now())
	if err != nil {
		return a.bookError(err)
	}
	ui.OK(a.Out, fmt.Sprintf("出勤: %s %s", rec.Date, rec.Start))
	return 0
}

func (a *App) doClockOut(ctx context.Context, b *timecard.Book) int {
	rec, err := b.ClockOut(ctx, b.Now())
	if err != nil {
		return a.bookError(err)
	}
	ui.OK(a.Out, fmt.Sprintf("退勤: %s %s (%s)", rec.Date, rec.End, rec.Hours()))
	return 0
}

func (a *App) doClearToday(ctx context.Context, b *timecard.Book) int {
	n, err := b.ClearDay(ctx, b.Now().Format(timecard.DateLayout))
	if err != nil {
		return a.bookError(err)
	}
	if n == 0 {
		ui.Info(a.Out, "今日の記録はありません")
		return 0
	}
	ui.OK(a.Out, "今日の記録をクリアしました")
	return 0
}

func (a *App) doTimecardRemove(ctx context.Context, b *timecard.Book, date string) int {
	if err := b.Delete(ctx, date); err != nil {
		if timecard.IsWarning(err) {
			ui.Warn(a.Err, timecard.Describe(err))
			return 2
		}
		return a.fail(1, err.Error())
	}
	ui.OK(a.Out, date+" の記録を削除しました")
	return 0
}

func (a *App) doReset(ctx context.Context, b *timecard.Book, yes bool) int {
	if !yes {
		ui.Warn(a.Err, "全ての記録を削除するには --yes を付けてください")
		return 2
	}
	if err := b.ClearAll(ctx); err != nil {
		return a.bookError(err)
	}
	ui.OK(a.Out, "全ての記録を削除しました")
	return 0
}

// doTimecardEdit replaces or appends the row for rec.Date.
func (a *App) doTimecardEdit(ctx context.Context, b *timecard.Book, rec timecard.Record) int {
	if rec.Start != "" && timecard.NormalizeTime(rec.Start) == "" ||
		rec.End != "" && timecard.NormalizeTime(rec.End) == "" {
		ui.Warn(a.Err, "時刻は HH:MM:SS で入力してください")
		return 2
	}
	recs, err := b.Records(ctx)
	if err != nil {
		return a.fail(1, "load: "+err.Error())
	}
	found := false
	for i := range recs {
		if recs[i].Date == rec.Date {
			recs[i], found = rec, true
		}
	}
	if !found {
		recs = append(recs, rec)
	}
	if _, err := b.Replace(ctx, recs); err != nil {
		if timecard.IsWarning(err) {
			ui.Warn(a.Err, timecard.Describe(err))
			return 2
		}
		return a.fail(1, err.Error())
	}
	ui.OK(a.Out, "編集内容を保存しました")
	return 0
}

func (a *App) doTimecardList(ctx context.Context, b *timecard.Book) int {
	recs, err := b.Records(ctx)
	if err != nil {
		return a.fail(1, "load: "+err.Error())
	}
	th := ui.Current()
	closed := 0
	for _, r := range recs {
		if r.Hours() != "" {
			closed++
		}
	}
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %s",
		ui.C(th.Title, "Timecard"),
		ui.C(th.Success, th.SymClosed), closed,
		ui.C(th.Pending, th.SymOpen), len(recs)-closed,
		ui.C(th.Accent, "合計"), timecard.FormatDuration(timecard.Total(recs)),
	)

	lines := []string{header, ui.C(th.Muted, ui.ProgressBar(closed, len(recs), 28)), ""}
	if len(recs) == 0 {
		lines = append(lines, ui.C(th.Muted, "(まだ記録はありません)"))
	}
	for _, r := range recs {
		mark, color := th.SymOpen, th.Pending
		if r.Hours() != "" {
			mark, color = th.SymClosed, th.Success
		}
		lines = append(lines, fmt.Sprintf("%s %s  %-8s  %-8s  %s",
			ui.C(color, mark), r.Date, orDash(r.Start), orDash(r.End), ui.C(th.Accent, r.Hours())))
	}
	lines = append(lines, "", ui.C(th.Muted, "Tip: `toybox timecard in` / `toybox timecard out`"))
	ui.Panel(a.Out, lines)
	return 0
}

func orDash(s string) string {
	if s == "" {
		return "--:--:--"
	}
	return s
}

func (a *App) doTimecardTUI(ctx context.Context, b *timecard.Book) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	changes, err := timecard.Watch(ctx, b.Store.Path(), 150*time.Millisecond, a.Log)
	if err != nil {
		// The screen still works without live reload.
		a.Log.Warn("timecard watch", zap.Error(err))
	}
	_, code := a.runTUI(tui.NewTimecard(ctx, b, changes))
	return code
}
