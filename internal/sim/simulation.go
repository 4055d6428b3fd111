// Package sim runs random walks of several walkers over a world layout and
// records per-step results for every walker.
package sim

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/vovakirdan/walksim/internal/core"
	"github.com/vovakirdan/walksim/internal/walker"
	"github.com/vovakirdan/walksim/internal/world"
)

// State is the lifecycle state of a Simulation.
type State int

const (
	Idle State = iota
	Running
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Entry pairs a walker with its simulation-assigned name.
type Entry struct {
	Name   string
	Walker walker.Walker
}

// Simulation owns the walkers, the layout and the bookkeeping of one run.
// It is reused across runs through Reset. A Simulation is not safe for
// concurrent use; parallel drivers give every goroutine its own instance.
type Simulation struct {
	steps       int
	walkers     []Entry
	layout      world.Layout
	interaction Interaction
	rng         *rand.Rand
	state       State

	escapeTimes map[string]int
	crossings   map[string]int
	table       Table
}

// New creates an idle simulation with a step budget of steps.
// The random source is seeded from the clock until Seed or SetRand is called.
func New(steps int) (*Simulation, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSteps, steps)
	}
	return &Simulation{
		steps:       steps,
		rng:         core.NewRand(core.DefaultConfig().ResolveSeed()),
		escapeTimes: make(map[string]int),
		crossings:   make(map[string]int),
		table:       make(Table),
	}, nil
}

// Steps returns the step budget of a run.
func (s *Simulation) Steps() int {
	return s.steps
}

// State returns the lifecycle state.
func (s *Simulation) State() State {
	return s.state
}

// Seed reseeds the random source used for every draw of the next run.
func (s *Simulation) Seed(seed int64) {
	s.rng = core.NewRand(seed)
}

// SetRand replaces the random source.
func (s *Simulation) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// AddWalker adds w under the name of its kind plus the lowest unused ordinal,
// e.g. UnitWalker1, UnitWalker2. It returns the assigned name.
func (s *Simulation) AddWalker(w walker.Walker) (string, error) {
	if s.state != Idle {
		return "", ErrNotIdle
	}
	if w == nil {
		return "", fmt.Errorf("%w: nil walker", ErrInvalidWalker)
	}
	for _, e := range s.walkers {
		if e.Walker == w {
			return "", fmt.Errorf("%w: walker already added as %s", ErrInvalidWalker, e.Name)
		}
	}

	name := s.nextName(w.Kind())
	s.walkers = append(s.walkers, Entry{Name: name, Walker: w})
	s.crossings[name] = -1
	s.table[name] = make([]StepRecord, 0, s.steps)
	return name, nil
}

func (s *Simulation) nextName(kind walker.Kind) string {
	taken := make(map[string]bool, len(s.walkers))
	for _, e := range s.walkers {
		taken[e.Name] = true
	}
	for i := 1; ; i++ {
		name := string(kind) + strconv.Itoa(i)
		if !taken[name] {
			return name
		}
	}
}

// SetInteraction sets the interaction mode. The empty mode disables interaction.
func (s *Simulation) SetInteraction(mode Interaction) error {
	if s.state != Idle {
		return ErrNotIdle
	}
	if !mode.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownInteraction, string(mode))
	}
	s.interaction = mode
	return nil
}

// Interaction returns the active interaction mode.
func (s *Simulation) Interaction() Interaction {
	return s.interaction
}

// SetLayout replaces the whole world layout.
func (s *Simulation) SetLayout(l world.Layout) error {
	if s.state != Idle {
		return ErrNotIdle
	}
	s.layout = l
	return nil
}

// AddGrass adds a grass tile.
func (s *Simulation) AddGrass(r core.Rect) error {
	return s.configure(func(l *world.Layout) { l.Grasses = append(l.Grasses, r) })
}

// AddSand adds a sand tile.
func (s *Simulation) AddSand(r core.Rect) error {
	return s.configure(func(l *world.Layout) { l.Sands = append(l.Sands, r) })
}

// AddWater adds a water tile.
func (s *Simulation) AddWater(r core.Rect) error {
	return s.configure(func(l *world.Layout) { l.Waters = append(l.Waters, r) })
}

// AddObstacle adds an impassable obstacle.
func (s *Simulation) AddObstacle(r core.Rect) error {
	return s.configure(func(l *world.Layout) { l.Obstacles = append(l.Obstacles, r) })
}

// AddGate adds a gate. Gates are checked in the order they were added.
func (s *Simulation) AddGate(g world.Gate) error {
	return s.configure(func(l *world.Layout) { l.Gates = append(l.Gates, g) })
}

func (s *Simulation) configure(fn func(l *world.Layout)) error {
	if s.state != Idle {
		return ErrNotIdle
	}
	fn(&s.layout)
	return nil
}

// Layout returns the world layout.
func (s *Simulation) Layout() world.Layout {
	return s.layout
}

// Walkers returns the walkers in insertion order.
func (s *Simulation) Walkers() []Entry {
	out := make([]Entry, len(s.walkers))
	copy(out, s.walkers)
	return out
}

// EscapeTimes returns, per walker name, the latest step at which the walker
// was still inside the escape radius. Walkers with no such step are absent.
func (s *Simulation) EscapeTimes() map[string]int {
	out := make(map[string]int, len(s.escapeTimes))
	for k, v := range s.escapeTimes {
		out[k] = v
	}
	return out
}

// Crossings returns the raw y-axis crossing counters. A counter starts at -1
// so that leaving the origin on the first step is not counted as a crossing.
func (s *Simulation) Crossings() map[string]int {
	out := make(map[string]int, len(s.crossings))
	for k, v := range s.crossings {
		out[k] = v
	}
	return out
}

// Table returns the records of the current run.
func (s *Simulation) Table() Table {
	return s.table
}

// Run executes the step budget. Walkers move in insertion order within every
// step. If a walker stays trapped by obstacles, the run aborts with a
// *TrappedError and its partial records must not be exported.
func (s *Simulation) Run() error {
	if s.state != Idle {
		return ErrNotIdle
	}
	if s.interaction != NoInteraction && len(s.walkers) < 2 {
		return ErrTooFewWalkers
	}

	s.state = Running
	for step := 1; step <= s.steps; step++ {
		for _, e := range s.walkers {
			if err := s.advance(e.Name, e.Walker, step); err != nil {
				s.state = Aborted
				return err
			}
		}
	}
	s.state = Completed
	return nil
}

// ExportTo hands the table of a completed run to r under the given run index.
func (s *Simulation) ExportTo(r Recorder, run int) error {
	if s.state != Completed {
		return fmt.Errorf("%w: simulation is %s", ErrNotCompleted, s.state)
	}
	r.Load(s.table, run)
	return nil
}

// Reset returns the simulation to Idle: walkers go back to the origin and all
// bookkeeping is cleared. Walkers, layout and interaction mode are kept.
func (s *Simulation) Reset() {
	s.escapeTimes = make(map[string]int)
	s.crossings = make(map[string]int, len(s.walkers))
	s.table = make(Table, len(s.walkers))
	for _, e := range s.walkers {
		e.Walker.Reset()
		s.crossings[e.Name] = -1
		s.table[e.Name] = make([]StepRecord, 0, s.steps)
	}
	s.state = Idle
}
