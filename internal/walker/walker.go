// Package walker implements the movement policies of the random-walk agents.
// Each policy is a closed variant sharing the Walker capability set; the
// registry maps configuration type tags to constructors.
package walker

import (
	"errors"
	"math/rand"

	"github.com/vovakirdan/walksim/internal/core"
)

// EscapeRadius is the distance from the origin beyond which a walker escapes.
const EscapeRadius = 10.0

// Kind identifies a walker variant. The string form is the configuration tag.
type Kind string

const (
	KindUnit            Kind = "UnitWalker"
	KindRandomDistance  Kind = "RandomDistanceWalker"
	KindStraight        Kind = "StraightWalker"
	KindDirectionalBias Kind = "DirectionalBiasWalker"
	KindMemory          Kind = "MemoryWalker"
)

// GridAligned reports whether the variant only moves along the axes.
// Interaction-biased bearings are snapped to a multiple of 90 degrees for these.
func (k Kind) GridAligned() bool {
	return k != KindUnit && k != KindRandomDistance
}

// SampledDistance reports whether the variant draws its step length.
func (k Kind) SampledDistance() bool {
	return k == KindRandomDistance
}

var (
	// ErrUnknownKind is returned when a type tag has no registered constructor.
	ErrUnknownKind = errors.New("walker: unknown walker type")

	// ErrInvalidWeights is returned for malformed directional bias weights.
	ErrInvalidWeights = errors.New("walker: invalid bias weights")
)

// Walker is the capability set shared by every movement policy.
type Walker interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Position returns the current position.
	Position() core.Point

	// Previous returns the position held before the latest transition.
	Previous() core.Point

	// SetPosition records the current position as previous and moves to p.
	SetPosition(p core.Point)

	// Restore rewinds both positions, undoing rejected transitions.
	Restore(pos, prev core.Point)

	// Move applies the walker's own policy for one step.
	Move(rng *rand.Rand)

	// Escaped returns the sticky escape flag.
	Escaped() bool

	// CheckEscape sets the escape flag once the walker is beyond EscapeRadius
	// and returns the flag. The flag never clears until Reset.
	CheckEscape() bool

	// Reset returns the walker to the origin with a cleared escape flag.
	Reset()
}

// Rememberer is implemented by walkers that keep a visit history.
// The history must be refreshed after every externally imposed move.
type Rememberer interface {
	RefreshMemory()
}

// Refresh appends the walker's current position to its history, if it has one.
func Refresh(w Walker) {
	if r, ok := w.(Rememberer); ok {
		r.RefreshMemory()
	}
}

// Base holds the state shared by all variants. Variants embed it.
type Base struct {
	pos     core.Point
	prev    core.Point
	escaped bool
}

// Position returns the current position.
func (b *Base) Position() core.Point {
	return b.pos
}

// Previous returns the position held before the latest transition.
func (b *Base) Previous() core.Point {
	return b.prev
}

// SetPosition snapshots the current position into previous and moves to p.
func (b *Base) SetPosition(p core.Point) {
	b.prev = b.pos
	b.pos = p
}

// Restore rewinds both positions.
func (b *Base) Restore(pos, prev core.Point) {
	b.pos = pos
	b.prev = prev
}

// Escaped returns the sticky escape flag.
func (b *Base) Escaped() bool {
	return b.escaped
}

// CheckEscape updates and returns the sticky escape flag.
func (b *Base) CheckEscape() bool {
	if !b.escaped && b.pos.Norm() > EscapeRadius {
		b.escaped = true
	}
	return b.escaped
}

// Reset moves the walker back to the origin and clears the escape flag.
func (b *Base) Reset() {
	b.pos = core.Origin
	b.prev = core.Origin
	b.escaped = false
}

// step moves the walker by the vector d from its current position.
func (b *Base) step(d core.Point) {
	b.SetPosition(b.pos.Add(d))
}

// axisSteps are the four axis-aligned unit vectors: down, up, right, left.
var axisSteps = [4]core.Point{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: -1, Y: 0},
}

// randomAxisStep picks one of the four axis-aligned unit vectors uniformly.
func randomAxisStep(rng *rand.Rand) core.Point {
	return axisSteps[rng.Intn(len(axisSteps))]
}
