package cli

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/reversi"
	"github.com/f130r/workspace01/internal/roulette"
	"github.com/f130r/workspace01/internal/tictactoe"
	"github.com/f130r/workspace01/internal/tui"
	"github.com/f130r/workspace01/internal/ui"
)

func newTicTacToeCmd(a *App) *cobra.Command {
	var cpu string
	cmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "Play tic-tac-toe against the CPU or a friend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exit(a.doTicTacToe(cpu))
		},
	}
	cmd.Flags().StringVar(&cpu, "cpu", "perfect", "CPU opponent: perfect, random or none")
	return cmd
}

func (a *App) doTicTacToe(cpu string) int {
	if cpu == "none" {
		cpu = ""
	}
	p, err := tictactoe.NewPlayer(cpu)
	if err != nil {
		return a.fail(2, err.Error())
	}
	a.Log.Info("tictactoe start", zap.String("cpu", cpu))
	_, code := a.runTUI(tui.NewTicTacToe(p, a.Cfg.Path("tictactoe.json"), a.Log))
	return code
}

func newReversiCmd(a *App) *cobra.Command {
	var cpu string
	var moves []int
	cmd := &cobra.Command{
		Use:   "reversi",
		Short: "Play reversi (Othello) as Black against the CPU",
		Example: `  toybox reversi
  toybox reversi --moves 19,18   # cells are row*8+col, 0..63`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := reversi.NewPlayer(cpu)
			if err != nil {
				return exit(a.fail(2, err.Error()))
			}
			if cmd.Flags().Changed("moves") {
				return exit(a.doReversiMoves(p, moves))
			}
			_, code := a.runTUI(tui.NewReversi(p, a.Log))
			return exit(code)
		},
	}
	cmd.Flags().StringVar(&cpu, "cpu", "greedy", "CPU strategy: greedy or random")
	cmd.Flags().IntSliceVar(&moves, "moves", nil, "play these cells as Black, print the board and exit")
	return cmd
}

// doReversiMoves plays cells for Black, letting cpu answer after each, and
// prints the final position.
func (a *App) doReversiMoves(cpu reversi.Player, cells []int) int {
	g := reversi.NewGame()
	reply := func() {
		for !g.Over && g.Turn == reversi.White {
			if _, err := g.Play(cpu.Move(g.Board, reversi.White, g.Moves())); err != nil {
				a.Log.Error("reversi cpu", zap.Error(err))
				return
			}
		}
	}
	for _, cell := range cells {
		p, err := reversi.PointOf(cell)
		if err != nil {
			return a.fail(2, err.Error())
		}
		if _, err := g.Play(p); err != nil {
			return a.fail(2, fmt.Sprintf("%s (%d): %v", p, cell, err))
		}
		reply()
	}

	th := ui.Current()
	lines := []string{ui.C(th.Title, "リバーシ"), "", "   a b c d e f g h"}
	for r := 0; r < reversi.Size; r++ {
		row := fmt.Sprintf("%d ", r+1)
		for c := 0; c < reversi.Size; c++ {
			switch g.Board[r][c] {
			case reversi.Black:
				row += " ●"
			case reversi.White:
				row += " ○"
			default:
				row += ui.C(th.Muted, " ·")
			}
		}
		lines = append(lines, row)
	}
	black, white := reversi.Score(g.Board)
	lines = append(lines, "", fmt.Sprintf("● %d  ○ %d", black, white))
	if g.Over {
		result := "引き分け"
		switch g.Winner() {
		case reversi.Black:
			result = "黒の勝ち"
		case reversi.White:
			result = "白の勝ち"
		}
		lines = append(lines, ui.C(th.Success, "終局: "+result))
	} else {
		var next []string
		for _, p := range g.Moves() {
			next = append(next, fmt.Sprintf("%s=%d", p, p.Cell()))
		}
		lines = append(lines, ui.C(th.Muted, "次の手: "+strings.Join(next, " ")))
	}
	ui.Panel(a.Out, lines)
	return 0
}

func newHanafudaCmd(a *App) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "hanafuda",
		Short: "Play a simple hanafuda matching game against the CPU",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rng *rand.Rand
			if seed != 0 {
				rng = rand.New(rand.NewPCG(seed, seed))
			}
			_, code := a.runTUI(tui.NewHanafuda(rng, a.Log))
			return exit(code)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "deal from a fixed shuffle (0 = random)")
	return cmd
}

func newRouletteCmd(a *App) *cobra.Command {
	var options []string
	var once bool
	cmd := &cobra.Command{
		Use:   "roulette",
		Short: "Spin a wheel to pick one option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(options) == 0 {
				options = a.Cfg.Roulette.Options
			}
			return exit(a.doRoulette(options, once, nil))
		},
	}
	cmd.Flags().StringSliceVar(&options, "options", nil, "comma-separated options (default from config)")
	cmd.Flags().BoolVar(&once, "once", false, "print a pick without the animation")
	return cmd
}

func (a *App) doRoulette(options []string, once bool, rng *rand.Rand) int {
	w, err := roulette.NewWheel(options)
	if err != nil {
		return a.fail(2, "roulette: "+err.Error())
	}
	if once {
		i := w.Spin(rng)
		a.Log.Info("roulette pick", zap.String("option", w.Options[i]))
		ui.Panel(a.Out, []string{
			ui.C(ui.Current().Title, "ルーレット"),
			ui.C(ui.Current().Muted, strings.Join(w.Options, " / ")),
			"",
			fmt.Sprintf("🎯 結果: %s", ui.C(ui.Current().Success, w.Options[i])),
		})
		return 0
	}
	_, code := a.runTUI(tui.NewRoulette(w, rng))
	return code
}
