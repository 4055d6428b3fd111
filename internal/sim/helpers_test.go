package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/walksim/internal/core"
	"github.com/vovakirdan/walksim/internal/walker"
)

// scripted moves to a fixed list of absolute positions, cycling when exhausted.
type scripted struct {
	walker.Base
	kind    walker.Kind
	targets []core.Point
	next    int
	moves   int
}

func newScripted(targets ...core.Point) *scripted {
	return &scripted{kind: walker.KindUnit, targets: targets}
}

func (w *scripted) Kind() walker.Kind { return w.kind }

func (w *scripted) Move(*rand.Rand) {
	w.SetPosition(w.targets[w.next%len(w.targets)])
	w.next++
	w.moves++
}

func (w *scripted) Reset() {
	w.Base.Reset()
	w.next = 0
	w.moves = 0
}

// fixedSource always yields the same value, pinning every rand draw.
type fixedSource struct {
	v int64
}

func (s fixedSource) Int63() int64 { return s.v }
func (s fixedSource) Seed(int64)   {}

// alwaysInteract makes Float64 return 0, so every draw takes the biased move.
func alwaysInteract() *rand.Rand {
	return rand.New(fixedSource{v: 0})
}

// neverInteract makes Float64 return 0.9, so every draw takes the own move.
func neverInteract() *rand.Rand {
	return rand.New(fixedSource{v: 9 * (1 << 63) / 10})
}

func newSim(t *testing.T, steps int) *Simulation {
	t.Helper()
	s, err := New(steps)
	if err != nil {
		t.Fatalf("New(%d) failed: %v", steps, err)
	}
	s.Seed(1)
	return s
}

func addWalker(t *testing.T, s *Simulation, w walker.Walker) string {
	t.Helper()
	name, err := s.AddWalker(w)
	if err != nil {
		t.Fatalf("AddWalker() failed: %v", err)
	}
	return name
}

func assertPoint(t *testing.T, what string, got, want core.Point) {
	t.Helper()
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("%s = %v, expected %v", what, got, want)
	}
}
