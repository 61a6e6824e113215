// Package roulette picks one option from an evenly divided wheel and models
// the spin animation.
package roulette

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/harmonica"
)

var (
	ErrTooFewOptions = errors.New("a wheel needs at least two options")
	ErrBlankOption   = errors.New("options must not be blank")
)

type Wheel struct {
	Options []string
}

// NewWheel trims options and rejects wheels that cannot be spun.
func NewWheel(options []string) (Wheel, error) {
	out := make([]string, 0, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" {
			return Wheel{}, ErrBlankOption
		}
		out = append(out, o)
	}
	if len(out) < 2 {
		return Wheel{}, ErrTooFewOptions
	}
	return Wheel{Options: out}, nil
}

// DegreesPer is the arc of one option.
func (w Wheel) DegreesPer() float64 {
	return 360 / float64(len(w.Options))
}

// Spin draws the winning index uniformly.
func (w Wheel) Spin(rng *rand.Rand) int {
	if rng == nil {
		return rand.IntN(len(w.Options))
	}
	return rng.IntN(len(w.Options))
}

// WinningAngle is the counter-clockwise rotation that puts the centre of
// option i under the pointer at 0°.
func (w Wheel) WinningAngle(i int) float64 {
	deg := w.DegreesPer()
	return 360 - (float64(i)*deg + deg/2)
}

// At returns the option under the pointer when the wheel is rotated by angle
// degrees counter-clockwise.
func (w Wheel) At(angle float64) int {
	a := math.Mod(360-angle, 360)
	if a < 0 {
		a += 360
	}
	return int(a/w.DegreesPer()) % len(w.Options)
}

// Spinner animates the wheel from rest to a target angle several full turns
// away, decelerating on a critically damped spring.
type Spinner struct {
	spring harmonica.Spring
	Angle  float64
	vel    float64
	target float64
	start  float64
}

const (
	FPS        = 30
	extraTurns = 5
)

// NewSpinner starts at from and settles on final plus extraTurns full turns.
func NewSpinner(from, final float64) *Spinner {
	target := final + 360*extraTurns
	for target-from < 360*extraTurns {
		target += 360
	}
	return &Spinner{
		spring: harmonica.NewSpring(harmonica.FPS(FPS), 3.0, 1.0),
		Angle:  from,
		target: target,
		start:  from,
	}
}

// Step advances one frame.
func (s *Spinner) Step() {
	s.Angle, s.vel = s.spring.Update(s.Angle, s.vel, s.target)
}

// Done reports whether the wheel has effectively stopped.
func (s *Spinner) Done() bool {
	return math.Abs(s.target-s.Angle) < 0.5 && math.Abs(s.vel) < 0.5
}

// Progress is 0..1 of the way from start to target.
func (s *Spinner) Progress() float64 {
	p := (s.Angle - s.start) / (s.target - s.start)
	return math.Max(0, math.Min(1, p))
}

// Settle snaps to the target and returns the resting angle in [0,360).
func (s *Spinner) Settle() float64 {
	s.Angle, s.vel = s.target, 0
	return math.Mod(s.target, 360)
}
