// Package hanafuda implements a two-seat flower-card matching game: the
// 48-card deck, the deal, month matching, a CPU seat and yaku scoring.
package hanafuda

import (
	"fmt"
	"math/rand/v2"
)

type Kind uint8

const (
	Bright Kind = iota
	Animal
	Ribbon
	Chaff
)

func (k Kind) String() string {
	switch k {
	case Bright:
		return "Bright"
	case Animal:
		return "Animal"
	case Ribbon:
		return "Ribbon"
	}
	return "Chaff"
}

// Points is the face value used for raw totals and CPU choices.
func (k Kind) Points() int {
	switch k {
	case Bright:
		return 20
	case Animal:
		return 10
	case Ribbon:
		return 5
	}
	return 1
}

// Names of the cards that take part in named combinations.
const (
	RainMan      = "Rain Man"
	Boar         = "Boar"
	Deer         = "Deer"
	Butterflies  = "Butterflies"
	PinePoetry   = "Pine Poetry Ribbon"
	PlumPoetry   = "Plum Poetry Ribbon"
	CherryPoetry = "Cherry Poetry Ribbon"
	PeonyBlue    = "Peony Blue Ribbon"
	ChrysBlue    = "Chrysanthemum Blue Ribbon"
	MapleBlue    = "Maple Blue Ribbon"
)

var MonthNames = [13]string{"",
	"Pine", "Plum", "Cherry", "Wisteria", "Iris", "Peony",
	"Bush Clover", "Pampas", "Chrysanthemum", "Maple", "Willow", "Paulownia",
}

type Card struct {
	Month  int
	Kind   Kind
	Name   string
	Points int
	ID     string
}

func newCard(month int, kind Kind, name string) Card {
	return Card{
		Month:  month,
		Kind:   kind,
		Name:   name,
		Points: kind.Points(),
		ID:     fmt.Sprintf("%02d_%s", month, name),
	}
}

func (c Card) String() string {
	return fmt.Sprintf("%s (%d/%s)", c.Name, c.Month, c.Kind)
}

func chaff(month int, n int) []Card {
	out := make([]Card, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, newCard(month, Chaff, fmt.Sprintf("%s Chaff %d", MonthNames[month], i)))
	}
	return out
}

// Deck returns the 48 cards in month order. Each call returns a fresh slice.
func Deck() []Card {
	var d []Card
	add := func(cs ...Card) { d = append(d, cs...) }

	add(newCard(1, Bright, "Crane and Sun"), newCard(1, Ribbon, PinePoetry))
	add(chaff(1, 2)...)
	add(newCard(2, Animal, "Bush Warbler"), newCard(2, Ribbon, PlumPoetry))
	add(chaff(2, 2)...)
	add(newCard(3, Bright, "Curtain"), newCard(3, Ribbon, CherryPoetry))
	add(chaff(3, 2)...)
	add(newCard(4, Animal, "Cuckoo"), newCard(4, Ribbon, "Wisteria Ribbon"))
	add(chaff(4, 2)...)
	add(newCard(5, Animal, "Eight-Plank Bridge"), newCard(5, Ribbon, "Iris Ribbon"))
	add(chaff(5, 2)...)
	add(newCard(6, Animal, Butterflies), newCard(6, Ribbon, PeonyBlue))
	add(chaff(6, 2)...)
	add(newCard(7, Animal, Boar), newCard(7, Ribbon, "Bush Clover Ribbon"))
	add(chaff(7, 2)...)
	add(newCard(8, Bright, "Full Moon"), newCard(8, Animal, "Geese"))
	add(chaff(8, 2)...)
	add(newCard(9, Animal, "Sake Cup"), newCard(9, Ribbon, ChrysBlue))
	add(chaff(9, 2)...)
	add(newCard(10, Animal, Deer), newCard(10, Ribbon, MapleBlue))
	add(chaff(10, 2)...)
	add(newCard(11, Bright, RainMan), newCard(11, Animal, "Swallow"),
		newCard(11, Ribbon, "Willow Ribbon"), newCard(11, Chaff, "Lightning"))
	add(newCard(12, Bright, "Phoenix"))
	add(chaff(12, 3)...)

	return d
}

// Shuffle returns a shuffled copy of the deck. A nil rng uses the global source.
func Shuffle(rng *rand.Rand) []Card {
	d := Deck()
	swap := func(i, j int) { d[i], d[j] = d[j], d[i] }
	if rng == nil {
		rand.Shuffle(len(d), swap)
	} else {
		rng.Shuffle(len(d), swap)
	}
	return d
}
