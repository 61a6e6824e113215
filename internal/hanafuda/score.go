package hanafuda

// Yaku is a scoring combination found in a pile of captured cards.
type Yaku struct {
	Name   string
	Points int
}

type Result struct {
	Yaku   []Yaku
	Points int // sum of yaku
	Raw    int // sum of card face values
}

// Score evaluates captured cards. Only the best bright combination counts;
// Tane, Tan and Kasu earn one extra point per card past the threshold.
func Score(collected []Card) Result {
	var r Result
	var brights, animals, ribbons, chaff int
	has := map[string]bool{}
	for _, c := range collected {
		r.Raw += c.Points
		has[c.Name] = true
		switch c.Kind {
		case Bright:
			brights++
		case Animal:
			animals++
		case Ribbon:
			ribbons++
		case Chaff:
			chaff++
		}
	}

	add := func(name string, pts int) {
		r.Yaku = append(r.Yaku, Yaku{Name: name, Points: pts})
		r.Points += pts
	}

	switch {
	case brights == 5:
		add("Goko", 10)
	case brights == 4 && !has[RainMan]:
		add("Shiko", 8)
	case brights == 4:
		add("Ame-Shiko", 7)
	case brights == 3 && !has[RainMan]:
		add("Sanko", 5)
	}

	if has[Boar] && has[Deer] && has[Butterflies] {
		add("Inoshikacho", 5)
	}
	if has[PinePoetry] && has[PlumPoetry] && has[CherryPoetry] {
		add("Akatan", 5)
	}
	if has[PeonyBlue] && has[ChrysBlue] && has[MapleBlue] {
		add("Aotan", 5)
	}
	if animals >= 5 {
		add("Tane", animals-4)
	}
	if ribbons >= 5 {
		add("Tan", ribbons-4)
	}
	if chaff >= 10 {
		add("Kasu", chaff-9)
	}
	return r
}
