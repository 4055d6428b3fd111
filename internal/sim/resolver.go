package sim

import (
	"fmt"
	"math"

	"github.com/vovakirdan/walksim/internal/core"
	"github.com/vovakirdan/walksim/internal/walker"
)

// Interaction is the global bias between walkers.
type Interaction string

const (
	NoInteraction Interaction = ""
	Attract       Interaction = "attract"
	Repel         Interaction = "repel"
)

// InteractionChance is the probability that an interacting walker takes the
// biased move instead of its own.
const InteractionChance = 0.2

// ParseInteraction converts a configuration value into an Interaction.
func ParseInteraction(s string) (Interaction, error) {
	mode := Interaction(s)
	if !mode.Valid() {
		return NoInteraction, fmt.Errorf("%w %q", ErrUnknownInteraction, s)
	}
	return mode, nil
}

// Valid reports whether mode is one of the known interaction modes.
func (mode Interaction) Valid() bool {
	switch mode {
	case NoInteraction, Attract, Repel:
		return true
	}
	return false
}

// quadrants are the axis unit vectors at 0, 90, 180 and 270 degrees.
var quadrants = [4]core.Point{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
}

// resolve performs one raw move for w: the walker's own policy, or with
// InteractionChance a step toward (attract) or away from (repel) the nearest
// other walker.
func (s *Simulation) resolve(w walker.Walker) error {
	if s.interaction == NoInteraction {
		w.Move(s.rng)
		return nil
	}

	other, err := s.nearest(w)
	if err != nil {
		return err
	}
	if s.rng.Float64() > InteractionChance {
		w.Move(s.rng)
		return nil
	}

	distance := 1.0
	if w.Kind().SampledDistance() {
		distance = walker.SampleDistance(s.rng)
	}
	if s.interaction == Repel {
		distance = -distance
	}

	dir := bearing(w.Position(), other.Position(), w.Kind().GridAligned())
	w.SetPosition(w.Position().Add(dir.Scale(distance)))
	walker.Refresh(w)
	return nil
}

// bearing returns the unit vector from a toward b. Grid-aligned walkers get
// the direction snapped to the nearest multiple of 90 degrees.
func bearing(a, b core.Point, gridAligned bool) core.Point {
	theta := math.Atan2(b.Y-a.Y, b.X-a.X)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	if gridAligned {
		k := int(math.Round(theta/(math.Pi/2))) % len(quadrants)
		return quadrants[k]
	}
	return core.Point{X: math.Cos(theta), Y: math.Sin(theta)}
}

// nearest returns the closest other walker by Euclidean distance. Ties go to
// the walker added first.
func (s *Simulation) nearest(w walker.Walker) (walker.Walker, error) {
	var (
		best    walker.Walker
		minDist = math.Inf(1)
	)
	for _, e := range s.walkers {
		if e.Walker == w {
			continue
		}
		if d := e.Walker.Position().Dist(w.Position()); d < minDist {
			minDist = d
			best = e.Walker
		}
	}
	if best == nil {
		return nil, ErrTooFewWalkers
	}
	return best, nil
}
