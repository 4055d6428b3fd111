package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewWalkers is returned when an interaction mode is active with
	// fewer than two walkers to interact with.
	ErrTooFewWalkers = errors.New("sim: interaction needs at least two walkers")

	// ErrUnknownInteraction is returned for interaction modes other than attract or repel.
	ErrUnknownInteraction = errors.New("sim: unknown interaction mode")

	// ErrNotIdle is returned when configuring or running a simulation that
	// has not been reset since its last run.
	ErrNotIdle = errors.New("sim: simulation is not idle")

	// ErrNotCompleted is returned when exporting a run that did not complete.
	ErrNotCompleted = errors.New("sim: run did not complete")

	// ErrInvalidWalker is returned for nil walkers or a walker added twice.
	ErrInvalidWalker = errors.New("sim: invalid walker")

	// ErrInvalidSteps is returned when the step budget is not positive.
	ErrInvalidSteps = errors.New("sim: step budget must be positive")

	// ErrTrapped is wrapped by TrappedError.
	ErrTrapped = errors.New("sim: walker trapped by obstacles")
)

// TrappedError reports a walker whose collision retries ran out. The run is aborted.
type TrappedError struct {
	Walker   string
	Step     int
	Attempts int
}

func (e *TrappedError) Error() string {
	return fmt.Sprintf("sim: %s trapped at step %d after %d collision retries", e.Walker, e.Step, e.Attempts)
}

func (e *TrappedError) Unwrap() error {
	return ErrTrapped
}
