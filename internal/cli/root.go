// Package cli wires the toybox subcommands. Each command returns an exit
// code: 0 ok, 1 runtime error, 2 usage.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/config"
	"github.com/f130r/workspace01/internal/logging"
	"github.com/f130r/workspace01/internal/tui"
	"github.com/f130r/workspace01/internal/ui"
)

// App carries what every command needs. Fields left nil are filled in by
// the root command before a subcommand runs.
type App struct {
	Cfg *config.Config
	Log *zap.Logger
	Out io.Writer
	Err io.Writer
	Now func() time.Time

	// RunTUI starts an interactive model.
	RunTUI func(tea.Model) (tea.Model, error)

	configPath string
	verbose    bool
	theme      string
	noColor    bool
}

func NewApp() *App {
	return &App{
		Out:    os.Stdout,
		Err:    os.Stderr,
		Now:    time.Now,
		RunTUI: func(m tea.Model) (tea.Model, error) { return tui.Run(m) },
	}
}

// exitError stops cobra with a code; the message has already been shown.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit %d", e.code) }

// exit turns a do* result into a cobra error.
func exit(code int) error {
	if code == 0 {
		return nil
	}
	return &exitError{code: code}
}

func (a *App) fail(code int, msg string) int {
	ui.Fail(a.Err, msg)
	return code
}

// setup loads config and logger once per process.
func (a *App) setup() error {
	if a.Cfg == nil {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			ui.Fail(a.Err, "config: "+err.Error())
			return &exitError{code: 2}
		}
		a.Cfg = cfg
	}
	theme := a.Cfg.Theme
	if a.theme != "" {
		theme = a.theme
	}
	ui.SetTheme(theme)
	if a.noColor {
		ui.SetColorForcing(false, true)
	}
	if a.Log == nil {
		l, err := logging.New(a.Cfg.Path(a.Cfg.Logging.File), a.Cfg.Logging.Level, a.verbose)
		if err != nil {
			ui.Fail(a.Err, "logging: "+err.Error())
			return &exitError{code: 1}
		}
		a.Log = l
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	return nil
}

// runTUI starts m and reports failures as exit code 1.
func (a *App) runTUI(m tea.Model) (tea.Model, int) {
	final, err := a.RunTUI(m)
	if err != nil {
		a.Log.Error("tui", zap.Error(err))
		return nil, a.fail(1, "tui: "+err.Error())
	}
	return final, 0
}

func (a *App) location() *time.Location {
	loc, err := a.Cfg.Location()
	if err != nil {
		a.Log.Warn("bad time zone, using local", zap.String("tz", a.Cfg.TimeZone), zap.Error(err))
		return time.Local
	}
	return loc
}

func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "toybox",
		Short: "toybox - small terminal games and tools",
		Long: `toybox bundles a handful of small terminal apps: games (tic-tac-toe,
reversi, hanafuda, roulette) and tools (JAN lookup, FX rates, receipts,
timecard, timetable). Run a subcommand without arguments to open its
interactive screen, or run toybox alone to pick one from a list.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.Log != nil {
				_ = a.Log.Sync()
			}
		},
	}
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return a.launch(cmd)
	}
	root.SetOut(a.Out)
	root.SetErr(a.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultPath(), "config file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&a.theme, "theme", "", "output theme: classic, neon or mono")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colors")

	root.AddCommand(
		newTicTacToeCmd(a),
		newReversiCmd(a),
		newHanafudaCmd(a),
		newRouletteCmd(a),
		newJANCmd(a),
		newFXCmd(a),
		newReceiptCmd(a),
		newTimecardCmd(a),
		newTimetableCmd(a),
		newConfigCmd(a),
	)
	return root
}

// launch shows the demo list and runs the picked subcommand with its
// default flags.
func (a *App) launch(root *cobra.Command) error {
	var entries []tui.Entry
	for _, c := range root.Commands() {
		if c.Runnable() && c.Name() != "config" && !c.Hidden && c.Name() != "help" && c.Name() != "completion" {
			entries = append(entries, tui.Entry{Name: c.Name(), Desc: c.Short})
		}
	}
	final, code := a.runTUI(tui.NewLauncher(entries))
	if code != 0 {
		return exit(code)
	}
	l, ok := final.(tui.Launcher)
	if !ok || l.Chosen() == "" {
		return nil
	}
	sub, _, err := root.Find([]string{l.Chosen()})
	if err != nil || sub.RunE == nil {
		return exit(a.fail(1, "unknown demo: "+l.Chosen()))
	}
	a.Log.Info("launcher", zap.String("demo", l.Chosen()))
	sub.SetContext(root.Context())
	return sub.RunE(sub, nil)
}

// Execute runs args and returns the process exit code.
func Execute(ctx context.Context, a *App, args []string) int {
	root := NewRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Anything cobra rejects before a command runs is a usage problem.
	ui.Fail(a.Err, err.Error())
	fmt.Fprintln(a.Err, "Run 'toybox --help' for usage.")
	return 2
}
