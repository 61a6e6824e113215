package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f130r/workspace01/internal/timetable"
	"github.com/f130r/workspace01/internal/tui"
	"github.com/f130r/workspace01/internal/ui"
)

func newTimetableCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timetable",
		Aliases: []string{"tt"},
		Short:   "Edit a weekly timetable (月〜金, 1〜5限)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tt, code := a.loadTimetable()
			if code != 0 {
				return exit(code)
			}
			_, code = a.runTUI(tui.NewTimetable(tt, a.timetablePath(), a.Log))
			return exit(code)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the timetable",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return exit(a.doTimetableShow())
			},
		},
		&cobra.Command{
			Use:   "set <day> <period> [subject...]",
			Short: "Set one cell; no subject clears it",
			Example: `  toybox timetable set 月 1 数学
  toybox timetable set wed 3限 英語 II`,
			Args: cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return exit(a.doTimetableSet(args[0], args[1], strings.Join(args[2:], " ")))
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty every cell",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return exit(a.doTimetableClear())
			},
		},
	)
	return cmd
}

func (a *App) timetablePath() string { return a.Cfg.Path("timetable.json") }

func (a *App) loadTimetable() (*timetable.Timetable, int) {
	tt, err := timetable.Load(a.timetablePath())
	if err != nil {
		return nil, a.fail(1, "load: "+err.Error())
	}
	return tt, 0
}

func (a *App) doTimetableShow() int {
	tt, code := a.loadTimetable()
	if code != 0 {
		return code
	}
	fmt.Fprintln(a.Out, tt.Render(-1, -1))
	return 0
}

func (a *App) doTimetableSet(dayArg, periodArg, subject string) int {
	day, err := timetable.ParseDay(dayArg)
	if err != nil {
		return a.fail(2, err.Error())
	}
	period, err := timetable.ParsePeriod(periodArg)
	if err != nil {
		return a.fail(2, err.Error())
	}
	tt, code := a.loadTimetable()
	if code != 0 {
		return code
	}
	if err := tt.Set(day, period, subject); err != nil {
		return a.fail(2, err.Error())
	}
	if err := timetable.Save(a.timetablePath(), tt); err != nil {
		return a.fail(1, "save: "+err.Error())
	}
	label := timetable.Days[day] + "曜 " + timetable.PeriodLabel(period)
	if strings.TrimSpace(subject) == "" {
		ui.OK(a.Out, label+" を空きにしました")
	} else {
		ui.OK(a.Out, fmt.Sprintf("%s を保存しました: %s", label, strings.TrimSpace(subject)))
	}
	return 0
}

func (a *App) doTimetableClear() int {
	if err := timetable.Save(a.timetablePath(), &timetable.Timetable{}); err != nil {
		return a.fail(1, "save: "+err.Error())
	}
	ui.OK(a.Out, "時間割をクリアしました")
	return 0
}
