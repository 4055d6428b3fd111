package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/walksim/internal/sim"
	"github.com/vovakirdan/walksim/internal/walker"
)

var (
	// ErrEmpty is returned for a scenario file without content.
	ErrEmpty = errors.New("config: empty scenario")

	// ErrNoWalkers is returned when a scenario lists no walker types.
	ErrNoWalkers = errors.New("config: no walkers in scenario")
)

// Validate checks the scenario the way a run would use it: known walker
// types, well-formed bias weights, a known interaction mode with at least two
// walkers, and a consistent layout.
func (s Scenario) Validate() error {
	if len(s.WalkerTypes) == 0 {
		return ErrNoWalkers
	}
	for i, wt := range s.WalkerTypes {
		if _, err := walker.Create(wt.Spec()); err != nil {
			return fmt.Errorf("config: walker_types[%d]: %w", i, err)
		}
	}

	mode, err := sim.ParseInteraction(s.Interaction)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if mode != sim.NoInteraction && len(s.WalkerTypes) < 2 {
		return fmt.Errorf("config: interaction %q: %w", s.Interaction, sim.ErrTooFewWalkers)
	}

	layout := s.Layout()
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Spec converts the configuration entry into a walker spec.
func (wt WalkerType) Spec() walker.Spec {
	return walker.Spec{Kind: walker.Kind(wt.Name), Weights: wt.Weights}
}

// Build validates the scenario and assembles an idle simulation with a step
// budget of steps. Every call returns fresh walkers, so parallel drivers can
// build one simulation per worker.
func Build(s Scenario, steps int) (*sim.Simulation, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	run, err := sim.New(steps)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	for i, wt := range s.WalkerTypes {
		w, err := walker.Create(wt.Spec())
		if err != nil {
			return nil, fmt.Errorf("config: walker_types[%d]: %w", i, err)
		}
		if _, err := run.AddWalker(w); err != nil {
			return nil, fmt.Errorf("config: walker_types[%d]: %w", i, err)
		}
	}
	if err := run.SetInteraction(sim.Interaction(s.Interaction)); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := run.SetLayout(s.Layout()); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return run, nil
}
