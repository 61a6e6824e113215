package hanafuda

import (
	"errors"
	"math/rand/v2"
)

// Seats.
const (
	Player = 0
	CPU    = 1
)

const (
	HandSize  = 8
	FieldSize = 8
)

var (
	ErrNotInHand   = errors.New("card is not in hand")
	ErrNotYourTurn = errors.New("not your turn")
	ErrGameOver    = errors.New("game is over")
)

// Game is the whole table. Pile[0] is the top of the draw pile.
type Game struct {
	Hands     [2][]Card
	Field     []Card
	Pile      []Card
	Collected [2][]Card
	Turn      int
	Over      bool
}

// Deal shuffles and deals 8 cards to each hand and 8 to the field; the
// remaining 24 form the draw pile. The player moves first.
func Deal(rng *rand.Rand) *Game {
	return DealFrom(Shuffle(rng))
}

// DealFrom deals from a deck already in order.
func DealFrom(deck []Card) *Game {
	take := func(n int) []Card {
		out := append([]Card(nil), deck[:n]...)
		deck = deck[n:]
		return out
	}
	g := &Game{Turn: Player}
	g.Hands[Player] = take(HandSize)
	g.Hands[CPU] = take(HandSize)
	g.Field = take(FieldSize)
	g.Pile = append([]Card(nil), deck...)
	return g
}

// Capture is a played or drawn card paired with the field card it took.
type Capture struct {
	Card  Card
	Taken Card
}

// TurnReport describes what one turn did, for the UI.
type TurnReport struct {
	Seat     int
	Played   Card
	Drawn    *Card
	Captures []Capture
	Left     []Card // cards that went to the field
}

// MatchIndex returns the index of the first field card sharing c's month, or -1.
func MatchIndex(field []Card, c Card) int {
	for i, f := range field {
		if f.Month == c.Month {
			return i
		}
	}
	return -1
}

// Play runs a full turn for seat: play cardID from hand against the field,
// then draw the top of the pile and match it the same way. A card that
// finds no partner stays on the field; pending cards join the field only
// after both steps.
func (g *Game) Play(seat int, cardID string) (TurnReport, error) {
	if g.Over {
		return TurnReport{}, ErrGameOver
	}
	if seat != g.Turn {
		return TurnReport{}, ErrNotYourTurn
	}
	hand := g.Hands[seat]
	idx := -1
	for i, c := range hand {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return TurnReport{}, ErrNotInHand
	}

	played := hand[idx]
	g.Hands[seat] = append(hand[:idx:idx], hand[idx+1:]...)
	rep := TurnReport{Seat: seat, Played: played}

	var pending []Card
	resolve := func(c Card) {
		if m := MatchIndex(g.Field, c); m >= 0 {
			taken := g.Field[m]
			g.Field = append(g.Field[:m:m], g.Field[m+1:]...)
			g.Collected[seat] = append(g.Collected[seat], c, taken)
			rep.Captures = append(rep.Captures, Capture{Card: c, Taken: taken})
			return
		}
		pending = append(pending, c)
	}

	resolve(played)
	if len(g.Pile) > 0 {
		drawn := g.Pile[0]
		g.Pile = g.Pile[1:]
		rep.Drawn = &drawn
		resolve(drawn)
	}
	g.Field = append(g.Field, pending...)
	rep.Left = pending

	if len(g.Hands[Player]) == 0 && len(g.Hands[CPU]) == 0 {
		g.Over = true
	} else {
		g.Turn = 1 - seat
		if len(g.Hands[g.Turn]) == 0 {
			g.Turn = seat
		}
	}
	return rep, nil
}

// CPUChoice picks the CPU's card: the highest-value capture available (the
// played card plus the first field card of its month), otherwise the
// lowest-value card in hand. Earlier cards win ties.
func (g *Game) CPUChoice() Card {
	hand := g.Hands[CPU]
	best, bestVal := -1, -1
	for i, c := range hand {
		if m := MatchIndex(g.Field, c); m >= 0 {
			if v := c.Points + g.Field[m].Points; v > bestVal {
				best, bestVal = i, v
			}
		}
	}
	if best >= 0 {
		return hand[best]
	}
	low := 0
	for i, c := range hand {
		if c.Points < hand[low].Points {
			low = i
		}
	}
	return hand[low]
}

// CPUTurn plays the CPU seat.
func (g *Game) CPUTurn() (TurnReport, error) {
	if g.Over {
		return TurnReport{}, ErrGameOver
	}
	if g.Turn != CPU {
		return TurnReport{}, ErrNotYourTurn
	}
	return g.Play(CPU, g.CPUChoice().ID)
}

// Winner compares yaku scores, then raw points. -1 is a draw.
func (g *Game) Winner() int {
	p, c := Score(g.Collected[Player]), Score(g.Collected[CPU])
	switch {
	case p.Points > c.Points:
		return Player
	case c.Points > p.Points:
		return CPU
	case p.Raw > c.Raw:
		return Player
	case c.Raw > p.Raw:
		return CPU
	}
	return -1
}
