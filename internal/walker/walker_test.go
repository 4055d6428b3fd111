package walker

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/walksim/internal/core"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func isAxisStep(d core.Point) bool {
	for _, s := range axisSteps {
		if near(d.X, s.X) && near(d.Y, s.Y) {
			return true
		}
	}
	return false
}

func TestPoliciesSnapshotPrevious(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bias, err := NewDirectionalBias(nil)
	if err != nil {
		t.Fatalf("NewDirectionalBias() failed: %v", err)
	}

	walkers := []Walker{NewUnit(), NewRandomDistance(), NewStraight(), bias, NewMemory()}
	for _, w := range walkers {
		t.Run(string(w.Kind()), func(t *testing.T) {
			for i := 0; i < 200; i++ {
				before := w.Position()
				w.Move(rng)
				if w.Previous() != before {
					t.Fatalf("step %d: Previous() = %v, expected %v", i, w.Previous(), before)
				}
			}
		})
	}
}

func TestUnitStepLength(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	w := NewUnit()

	for i := 0; i < 500; i++ {
		w.Move(rng)
		if d := w.Position().Dist(w.Previous()); !near(d, 1) {
			t.Fatalf("step %d has length %f, expected 1", i, d)
		}
	}
}

func TestRandomDistanceRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	w := NewRandomDistance()

	for i := 0; i < 500; i++ {
		w.Move(rng)
		d := w.Position().Dist(w.Previous())
		if d < MinStepDistance-eps || d >= MaxStepDistance+eps {
			t.Fatalf("step %d has length %f, outside [0.5, 1.5)", i, d)
		}
	}
}

func TestStraightMovesAlongAxes(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	w := NewStraight()
	seen := make(map[core.Point]int)

	for i := 0; i < 2000; i++ {
		w.Move(rng)
		d := w.Position().Sub(w.Previous())
		if !isAxisStep(d) {
			t.Fatalf("step %d moved by %v, expected an axis unit vector", i, d)
		}
		seen[d]++
	}

	if len(seen) != 4 {
		t.Errorf("saw %d distinct directions, expected 4", len(seen))
	}
}

func TestDirectionalBiasDownOnly(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	w, err := NewDirectionalBias([]float64{1, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("NewDirectionalBias() failed: %v", err)
	}

	for i := 0; i < 5000; i++ {
		w.Move(rng)
		d := w.Position().Sub(w.Previous())
		if !near(d.X, 0) || !near(d.Y, -1) {
			t.Fatalf("step %d moved by %v, expected straight down", i, d)
		}
	}
}

func TestDirectionalBiasTowardOrigin(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	w, err := NewDirectionalBias([]float64{0, 0, 0, 0, 1})
	if err != nil {
		t.Fatalf("NewDirectionalBias() failed: %v", err)
	}

	w.SetPosition(core.Point{X: 3, Y: 4})
	w.Move(rng)

	want := core.Point{X: 2.4, Y: 3.2}
	got := w.Position()
	if !near(got.X, want.X) || !near(got.Y, want.Y) {
		t.Errorf("Position() = %v, expected %v", got, want)
	}

	// A unit step from 0.5 away overshoots the origin
	w.Restore(core.Point{X: 0.5, Y: 0}, core.Point{})
	w.Move(rng)
	if got := w.Position(); !near(got.X, -0.5) || !near(got.Y, 0) {
		t.Errorf("overshoot Position() = %v, expected (-0.5, 0)", got)
	}
}

func TestDirectionalBiasAtOriginOmitsTowardOrigin(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w, err := NewDirectionalBias([]float64{0, 0, 1, 0, 3})
	if err != nil {
		t.Fatalf("NewDirectionalBias() failed: %v", err)
	}

	// At the origin only "right" carries weight among the remaining candidates
	w.Move(rng)
	if got := w.Position(); got != (core.Point{X: 1, Y: 0}) {
		t.Errorf("Position() = %v, expected (1, 0)", got)
	}
}

func TestDirectionalBiasOnlyOriginWeightAtOrigin(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	w, err := NewDirectionalBias([]float64{0, 0, 0, 0, 1})
	if err != nil {
		t.Fatalf("NewDirectionalBias() failed: %v", err)
	}

	// No weighted candidate remains: the draw falls back to a uniform axis step
	w.Move(rng)
	if d := w.Position().Sub(w.Previous()); !isAxisStep(d) {
		t.Errorf("moved by %v, expected an axis unit vector", d)
	}
}

func TestNormalizeWeights(t *testing.T) {
	got, err := NormalizeWeights([]float64{2, 2, 2, 2, 2})
	if err != nil {
		t.Fatalf("NormalizeWeights() failed: %v", err)
	}
	for i, v := range got {
		if !near(v, 0.2) {
			t.Errorf("weight %d = %f, expected 0.2", i, v)
		}
	}

	invalid := [][]float64{
		{1, 1, 1, 1},
		{1, 1, 1, 1, 1, 1},
		{1, -1, 1, 1, 1},
		{0, 0, 0, 0, 0},
		{math.NaN(), 1, 1, 1, 1},
	}
	for _, weights := range invalid {
		if _, err := NormalizeWeights(weights); !errors.Is(err, ErrInvalidWeights) {
			t.Errorf("NormalizeWeights(%v) error = %v, expected ErrInvalidWeights", weights, err)
		}
	}
}

func TestMemoryAvoidsVisitedCells(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	w := NewMemory()

	// Remember three of the four neighbours of the origin
	for _, p := range []core.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: 1, Y: 0}} {
		w.Restore(p, core.Point{})
		w.RefreshMemory()
	}
	w.Restore(core.Point{}, core.Point{})

	w.Move(rng)
	if got := w.Position(); got != (core.Point{X: -1, Y: 0}) {
		t.Errorf("Position() = %v, expected the only unvisited neighbour (-1, 0)", got)
	}
	if !w.Remembers(core.Point{X: -1, Y: 0}) {
		t.Error("own move was not remembered")
	}
}

func TestMemoryFallbackWhenBoxedIn(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	w := NewMemory()

	for _, d := range axisSteps {
		w.Restore(d, core.Point{})
		w.RefreshMemory()
	}
	w.Restore(core.Point{}, core.Point{})
	before := w.MemoryLen()

	w.Move(rng)
	if d := w.Position().Sub(w.Previous()); !isAxisStep(d) {
		t.Errorf("fallback moved by %v, expected an axis unit vector", d)
	}
	if w.MemoryLen() != before {
		t.Errorf("fallback changed memory length from %d to %d", before, w.MemoryLen())
	}
}

func TestMemoryEvictsOldestFirst(t *testing.T) {
	w := NewMemory()

	for i := 0; i < MemoryCapacity+5; i++ {
		w.Restore(core.Point{X: float64(i)}, core.Point{})
		w.RefreshMemory()
	}

	if w.MemoryLen() != MemoryCapacity {
		t.Fatalf("MemoryLen() = %d, expected %d", w.MemoryLen(), MemoryCapacity)
	}
	for i := 0; i < 5; i++ {
		if w.Remembers(core.Point{X: float64(i)}) {
			t.Errorf("cell %d should have been evicted", i)
		}
	}
	if !w.Remembers(core.Point{X: 5}) || !w.Remembers(core.Point{X: MemoryCapacity + 4}) {
		t.Error("recent cells should still be remembered")
	}
}

func TestEscapeIsSticky(t *testing.T) {
	w := NewUnit()

	if w.CheckEscape() {
		t.Fatal("walker at origin reported escaped")
	}

	w.SetPosition(core.Point{X: 10, Y: 0})
	if w.CheckEscape() {
		t.Error("distance exactly 10 should not count as escaped")
	}

	w.SetPosition(core.Point{X: 10.5, Y: 0})
	if !w.CheckEscape() {
		t.Fatal("walker beyond radius 10 should escape")
	}

	w.SetPosition(core.Point{})
	if !w.CheckEscape() || !w.Escaped() {
		t.Error("escape flag cleared after returning inside the radius")
	}

	w.Reset()
	if w.Escaped() || w.Position() != core.Origin {
		t.Errorf("Reset() left escaped=%v position=%v", w.Escaped(), w.Position())
	}
}

func TestMemoryResetClearsHistory(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	w := NewMemory()
	for i := 0; i < 20; i++ {
		w.Move(rng)
	}

	w.Reset()
	if w.MemoryLen() != 0 {
		t.Errorf("MemoryLen() = %d after Reset, expected 0", w.MemoryLen())
	}
}

func TestRefreshOnlyTouchesRememberers(t *testing.T) {
	m := NewMemory()
	m.SetPosition(core.Point{X: 2, Y: 2})
	Refresh(m)
	if !m.Remembers(core.Point{X: 2, Y: 2}) {
		t.Error("Refresh() did not record the memory walker's position")
	}

	// Must be a no-op for walkers without memory
	Refresh(NewUnit())
}

func TestKindCapabilities(t *testing.T) {
	tests := []struct {
		kind        Kind
		gridAligned bool
		sampled     bool
	}{
		{KindUnit, false, false},
		{KindRandomDistance, false, true},
		{KindStraight, true, false},
		{KindDirectionalBias, true, false},
		{KindMemory, true, false},
	}

	for _, tc := range tests {
		if tc.kind.GridAligned() != tc.gridAligned {
			t.Errorf("%s.GridAligned() = %v, expected %v", tc.kind, !tc.gridAligned, tc.gridAligned)
		}
		if tc.kind.SampledDistance() != tc.sampled {
			t.Errorf("%s.SampledDistance() = %v, expected %v", tc.kind, !tc.sampled, tc.sampled)
		}
	}
}
