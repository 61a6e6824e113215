// Package tictactoe is the 3x3 rule engine behind the tic-tac-toe TUI.
package tictactoe

import (
	"errors"
	"math/rand/v2"
)

type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	}
	return " "
}

// Other returns the opposing mark.
func (m Mark) Other() Mark {
	if m == X {
		return O
	}
	return X
}

// Board cells are indexed 0..8, row-major.
type Board [9]Mark

// Lines are the eight winning lines: rows, columns, diagonals.
var Lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Outcome of a position.
type Outcome uint8

const (
	None Outcome = iota
	XWins
	OWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case XWins:
		return "X"
	case OWins:
		return "O"
	case Draw:
		return "Draw"
	}
	return ""
}

// Winner reports who owns a complete line. Draw only when the board is full
// and nobody has a line.
func Winner(b Board) Outcome {
	for _, l := range Lines {
		m := b[l[0]]
		if m != Empty && b[l[1]] == m && b[l[2]] == m {
			if m == X {
				return XWins
			}
			return OWins
		}
	}
	if b.Full() {
		return Draw
	}
	return None
}

func (b Board) Full() bool {
	for _, m := range b {
		if m == Empty {
			return false
		}
	}
	return true
}

// EmptyCells lists the free cells in index order.
func (b Board) EmptyCells() []int {
	var out []int
	for i, m := range b {
		if m == Empty {
			out = append(out, i)
		}
	}
	return out
}

var (
	ErrGameOver   = errors.New("game is over")
	ErrOutOfRange = errors.New("cell out of range")
	ErrCellTaken  = errors.New("cell already taken")
)

type Game struct {
	Board  Board
	Turn   Mark
	Over   bool
	Result Outcome
}

// New starts a game with X to move.
func New() *Game {
	g := &Game{}
	g.Reset()
	return g
}

func (g *Game) Reset() {
	*g = Game{Turn: X}
}

// Play places the current mark on cell i, then either ends the game or passes
// the turn.
func (g *Game) Play(i int) error {
	if g.Over {
		return ErrGameOver
	}
	if i < 0 || i >= len(g.Board) {
		return ErrOutOfRange
	}
	if g.Board[i] != Empty {
		return ErrCellTaken
	}
	g.Board[i] = g.Turn
	if r := Winner(g.Board); r != None {
		g.Over = true
		g.Result = r
		return nil
	}
	g.Turn = g.Turn.Other()
	return nil
}

// Player picks a cell for mark on b. b always has at least one free cell.
type Player interface {
	Move(b Board, mark Mark) int
}

// Random picks uniformly among free cells.
type Random struct {
	Rand *rand.Rand
}

func (r Random) Move(b Board, _ Mark) int {
	cells := b.EmptyCells()
	if r.Rand == nil {
		return cells[rand.IntN(len(cells))]
	}
	return cells[r.Rand.IntN(len(cells))]
}

// Perfect plays minimax; it never loses. Ties go to the lowest index.
type Perfect struct{}

func (Perfect) Move(b Board, mark Mark) int {
	best, bestScore := -1, -2
	for _, i := range b.EmptyCells() {
		b[i] = mark
		s := -negamax(b, mark.Other())
		b[i] = Empty
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// negamax scores b from toMove's point of view: 1 win, 0 draw, -1 loss.
func negamax(b Board, toMove Mark) int {
	switch Winner(b) {
	case XWins:
		if toMove == X {
			return 1
		}
		return -1
	case OWins:
		if toMove == O {
			return 1
		}
		return -1
	case Draw:
		return 0
	}
	best := -2
	for _, i := range b.EmptyCells() {
		b[i] = toMove
		if s := -negamax(b, toMove.Other()); s > best {
			best = s
		}
		b[i] = Empty
	}
	return best
}

// NewPlayer maps a CLI name to a CPU player; "" means no CPU.
func NewPlayer(name string) (Player, error) {
	switch name {
	case "":
		return nil, nil
	case "random":
		return Random{}, nil
	case "perfect":
		return Perfect{}, nil
	}
	return nil, errors.New("unknown cpu " + name + " (want random or perfect)")
}

// Stats are the running session tallies, persisted between runs.
type Stats struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}

func (s *Stats) Record(o Outcome) {
	switch o {
	case XWins:
		s.XWins++
	case OWins:
		s.OWins++
	case Draw:
		s.Draws++
	}
}
