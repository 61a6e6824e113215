// Package reversi is the 8x8 Reversi/Othello rule engine: legal moves,
// directional flips, passes, and two CPU opponents.
package reversi

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const Size = 8

type Disc int8

const (
	Empty Disc = 0
	Black Disc = 1
	White Disc = -1
)

func (d Disc) Opponent() Disc { return -d }

func (d Disc) String() string {
	switch d {
	case Black:
		return "Black"
	case White:
		return "White"
	}
	return "Empty"
}

// Point is a board square; Row and Col are 0..7.
type Point struct{ Row, Col int }

// Cell is the 0..63 square number used for typed input.
func (p Point) Cell() int { return p.Row*Size + p.Col }

// PointOf is the inverse of Cell.
func PointOf(cell int) (Point, error) {
	if cell < 0 || cell >= Size*Size {
		return Point{}, fmt.Errorf("%w: %d", ErrOffBoard, cell)
	}
	return Point{Row: cell / Size, Col: cell % Size}, nil
}

func (p Point) inside() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

func (p Point) String() string {
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

var directions = [8]Point{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

type Board [Size][Size]Disc

// NewBoard returns the standard opening: d4/e5 white, e4/d5 black.
func NewBoard() Board {
	var b Board
	b[3][3], b[4][4] = White, White
	b[3][4], b[4][3] = Black, Black
	return b
}

func (b *Board) at(p Point) Disc { return b[p.Row][p.Col] }

// flipsFrom returns the opponent discs bracketed by color in one direction.
func (b *Board) flipsFrom(p, dir Point, color Disc) []Point {
	var run []Point
	q := Point{p.Row + dir.Row, p.Col + dir.Col}
	for q.inside() && b.at(q) == color.Opponent() {
		run = append(run, q)
		q = Point{q.Row + dir.Row, q.Col + dir.Col}
	}
	if len(run) > 0 && q.inside() && b.at(q) == color {
		return run
	}
	return nil
}

// IsLegal reports whether color may play at p.
func (b *Board) IsLegal(p Point, color Disc) bool {
	if !p.inside() || b.at(p) != Empty {
		return false
	}
	for _, d := range directions {
		if len(b.flipsFrom(p, d, color)) > 0 {
			return true
		}
	}
	return false
}

// ValidMoves lists every legal square for color in row-major order.
func ValidMoves(b Board, color Disc) []Point {
	var moves []Point
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p := (Point{r, c}); b.IsLegal(p, color) {
				moves = append(moves, p)
			}
		}
	}
	return moves
}

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrOffBoard    = errors.New("square off the board")
	ErrGameOver    = errors.New("game is over")
)

// Place plays color at p and flips every bracketed run. It returns the new
// board and how many discs flipped; b is not modified.
func Place(b Board, p Point, color Disc) (Board, int, error) {
	if !p.inside() {
		return b, 0, fmt.Errorf("%w: %v", ErrOffBoard, p)
	}
	if !b.IsLegal(p, color) {
		return b, 0, fmt.Errorf("%w: %v", ErrIllegalMove, p)
	}
	flipped := 0
	for _, d := range directions {
		for _, q := range b.flipsFrom(p, d, color) {
			b[q.Row][q.Col] = color
			flipped++
		}
	}
	b[p.Row][p.Col] = color
	return b, flipped, nil
}

// Score counts discs.
func Score(b Board) (black, white int) {
	for r := range b {
		for _, d := range b[r] {
			switch d {
			case Black:
				black++
			case White:
				white++
			}
		}
	}
	return
}

// Player chooses a move for color; moves is never empty.
type Player interface {
	Move(b Board, color Disc, moves []Point) Point
}

// Greedy takes the move flipping the most discs; the first one found wins ties.
type Greedy struct{}

func (Greedy) Move(b Board, color Disc, moves []Point) Point {
	best, most := moves[0], -1
	for _, m := range moves {
		_, n, err := Place(b, m, color)
		if err == nil && n > most {
			best, most = m, n
		}
	}
	return best
}

// Random picks any legal move.
type Random struct {
	Rand *rand.Rand
}

func (r Random) Move(_ Board, _ Disc, moves []Point) Point {
	if r.Rand == nil {
		return moves[rand.IntN(len(moves))]
	}
	return moves[r.Rand.IntN(len(moves))]
}

func NewPlayer(name string) (Player, error) {
	switch name {
	case "greedy", "":
		return Greedy{}, nil
	case "random":
		return Random{}, nil
	}
	return nil, fmt.Errorf("unknown cpu %s (want greedy or random)", name)
}

// Game tracks turn order. A side with no legal move passes automatically;
// the game ends when neither side can move.
type Game struct {
	Board Board
	Turn  Disc
	Over  bool
	// Passed is set when the last Play caused the next side to pass.
	Passed Disc
}

func NewGame() *Game {
	return &Game{Board: NewBoard(), Turn: Black}
}

// Play places the current side's disc at p and advances the turn.
func (g *Game) Play(p Point) (int, error) {
	if g.Over {
		return 0, ErrGameOver
	}
	next, n, err := Place(g.Board, p, g.Turn)
	if err != nil {
		return 0, err
	}
	g.Board = next
	g.advance()
	return n, nil
}

func (g *Game) advance() {
	g.Passed = Empty
	opp := g.Turn.Opponent()
	switch {
	case len(ValidMoves(g.Board, opp)) > 0:
		g.Turn = opp
	case len(ValidMoves(g.Board, g.Turn)) > 0:
		g.Passed = opp
	default:
		g.Over = true
	}
}

// Moves lists the legal moves for the side to play.
func (g *Game) Moves() []Point {
	if g.Over {
		return nil
	}
	return ValidMoves(g.Board, g.Turn)
}

// Winner is Black, White, or Empty for a draw. Meaningful once Over.
func (g *Game) Winner() Disc {
	black, white := Score(g.Board)
	switch {
	case black > white:
		return Black
	case white > black:
		return White
	}
	return Empty
}
