package sim

import (
	"github.com/vovakirdan/walksim/internal/core"
	"github.com/vovakirdan/walksim/internal/walker"
	"github.com/vovakirdan/walksim/internal/world"
)

// MaxCollisionAttempts is the number of re-rolled moves a walker gets within
// one step before the run is aborted.
const MaxCollisionAttempts = 1000

// applyTerrain transforms the walker's position by the terrain it landed on.
func (s *Simulation) applyTerrain(w walker.Walker) {
	t := s.layout.TerrainAt(w.Position())
	if t == world.None {
		return
	}
	w.SetPosition(world.Effect(t, w.Previous(), w.Position()))
	walker.Refresh(w)
}

// advance moves one walker through a full step: raw move, terrain effect,
// collision retries, gate teleport and bookkeeping.
func (s *Simulation) advance(name string, w walker.Walker, step int) error {
	start, startPrev := w.Position(), w.Previous()

	if err := s.attempt(w); err != nil {
		return err
	}
	for attempts := 0; s.layout.Collides(start, w.Position()); attempts++ {
		if attempts >= MaxCollisionAttempts {
			return &TrappedError{Walker: name, Step: step, Attempts: attempts}
		}
		w.Restore(start, startPrev)
		if err := s.attempt(w); err != nil {
			return err
		}
	}

	if g, ok := s.layout.GateCrossed(start, w.Position()); ok {
		w.SetPosition(g.Exit)
		walker.Refresh(w)
	}

	s.record(name, w, step, start)
	return nil
}

func (s *Simulation) attempt(w walker.Walker) error {
	if err := s.resolve(w); err != nil {
		return err
	}
	s.applyTerrain(w)
	return nil
}

// record updates escape and crossing bookkeeping and appends the step record.
func (s *Simulation) record(name string, w walker.Walker, step int, start core.Point) {
	if !w.CheckEscape() {
		s.escapeTimes[name] = step
	}

	x := w.Position().X
	if start.X*x < 0 || (start.X == 0 && x != 0) {
		s.crossings[name]++
	}

	var escapeTime *int
	if !w.Escaped() {
		t := s.escapeTimes[name]
		escapeTime = &t
	}
	s.table[name] = append(s.table[name], newRecord(step, w.Position(), escapeTime, s.crossings[name]))
}
