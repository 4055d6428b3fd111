package walker

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/walksim/internal/core"
)

// Step length bounds of the RandomDistance walker, as [min, max).
const (
	MinStepDistance = 0.5
	MaxStepDistance = 1.5
)

// SampleDistance draws a step length uniformly from [MinStepDistance, MaxStepDistance).
func SampleDistance(rng *rand.Rand) float64 {
	return MinStepDistance + rng.Float64()*(MaxStepDistance-MinStepDistance)
}

// randomBearing draws a direction uniformly from [0, 2*pi).
func randomBearing(rng *rand.Rand) float64 {
	return rng.Float64() * 2 * math.Pi
}

// polar returns the vector of length r along bearing theta.
func polar(theta, r float64) core.Point {
	return core.Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// Unit moves one unit in a uniformly random direction.
type Unit struct {
	Base
}

// NewUnit creates a Unit walker at the origin.
func NewUnit() *Unit {
	return &Unit{}
}

// Kind returns KindUnit.
func (w *Unit) Kind() Kind { return KindUnit }

// Move takes a unit step along a random bearing.
func (w *Unit) Move(rng *rand.Rand) {
	w.step(polar(randomBearing(rng), 1))
}

// RandomDistance moves a random distance in a uniformly random direction.
type RandomDistance struct {
	Base
}

// NewRandomDistance creates a RandomDistance walker at the origin.
func NewRandomDistance() *RandomDistance {
	return &RandomDistance{}
}

// Kind returns KindRandomDistance.
func (w *RandomDistance) Kind() Kind { return KindRandomDistance }

// Move steps along a random bearing by a distance in [0.5, 1.5).
func (w *RandomDistance) Move(rng *rand.Rand) {
	theta := randomBearing(rng)
	w.step(polar(theta, SampleDistance(rng)))
}

// Straight moves one unit along a random axis direction.
type Straight struct {
	Base
}

// NewStraight creates a Straight walker at the origin.
func NewStraight() *Straight {
	return &Straight{}
}

// Kind returns KindStraight.
func (w *Straight) Kind() Kind { return KindStraight }

// Move steps up, down, left or right with equal probability.
func (w *Straight) Move(rng *rand.Rand) {
	w.step(randomAxisStep(rng))
}
