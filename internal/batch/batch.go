// Package batch drives many independent runs of one scenario and collects
// their step records into statistics.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/walksim/internal/core"
	"github.com/vovakirdan/walksim/internal/sim"
	"github.com/vovakirdan/walksim/internal/stats"
)

// Factory builds a fresh idle simulation. Parallel batches call it once per worker.
type Factory func() (*sim.Simulation, error)

// Options configures a batch.
type Options struct {
	Runs    int
	Runtime core.RuntimeConfig

	// Logger receives run lifecycle events. Nil discards them.
	Logger *log.Logger

	// Progress is called after every finished run. Calls are serialized.
	Progress func(Progress)
}

// Progress reports how far a batch has got.
type Progress struct {
	Done      int
	Total     int
	Completed int
	Aborted   int
}

// Failure records an aborted run.
type Failure struct {
	Run int
	Err error
}

// Result is the outcome of a batch.
type Result struct {
	Stats     *stats.Statistics
	Seed      int64
	Runs      int
	Completed int
	Aborted   int
	Failures  []Failure
	Elapsed   time.Duration
}

// ErrNoRuns is returned when a batch is asked for fewer than one run.
var ErrNoRuns = errors.New("batch: run count must be positive")

// Run executes opts.Runs runs numbered from 1. Run i is seeded with the batch
// seed plus i, so results do not depend on the worker count. Runs aborted by a
// trapped walker are logged, counted and left out of the statistics; any other
// error stops the batch.
func Run(ctx context.Context, build Factory, opts Options) (*Result, error) {
	if opts.Runs < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoRuns, opts.Runs)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	seed := opts.Runtime.ResolveSeed()
	workers := min(opts.Runtime.WorkerCount(), opts.Runs)
	start := time.Now()
	logger.Info("starting batch", "runs", opts.Runs, "seed", seed, "workers", workers)

	d := &driver{
		build:    build,
		seed:     seed,
		total:    opts.Runs,
		logger:   logger,
		progress: opts.Progress,
	}

	var (
		st  *stats.Statistics
		err error
	)
	if workers == 1 {
		st, err = d.sequential(ctx)
	} else {
		st, err = d.parallel(ctx, workers)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Stats:     st,
		Seed:      seed,
		Runs:      opts.Runs,
		Completed: d.completed,
		Aborted:   d.aborted,
		Failures:  d.sortedFailures(),
		Elapsed:   time.Since(start),
	}
	logger.Info("batch finished",
		"completed", res.Completed,
		"aborted", res.Aborted,
		"elapsed", res.Elapsed.Round(time.Millisecond),
	)
	return res, nil
}

// driver holds the shared counters of one batch.
type driver struct {
	build    Factory
	seed     int64
	total    int
	logger   *log.Logger
	progress func(Progress)

	mu        sync.Mutex
	completed int
	aborted   int
	failures  []Failure
}

func (d *driver) sequential(ctx context.Context) (*stats.Statistics, error) {
	s, err := d.build()
	if err != nil {
		return nil, fmt.Errorf("batch: build simulation: %w", err)
	}
	st := stats.New()
	for run := 1; run <= d.total; run++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := d.runOne(s, st, run); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// parallel gives every worker its own simulation and statistics and merges
// the statistics once all workers are done.
func (d *driver) parallel(ctx context.Context, workers int) (*stats.Statistics, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	partials := make([]*stats.Statistics, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := d.build()
			if err != nil {
				errs[i] = fmt.Errorf("batch: build simulation: %w", err)
				cancel()
				return
			}
			st := stats.New()
			partials[i] = st
			for run := range jobs {
				if err := d.runOne(s, st, run); err != nil {
					errs[i] = err
					cancel()
					return
				}
			}
		}(i)
	}

feed:
	for run := 1; run <= d.total; run++ {
		select {
		case jobs <- run:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := stats.New()
	for _, st := range partials {
		if st != nil {
			merged.Merge(st)
		}
	}
	return merged, nil
}

// runOne seeds, runs, exports and resets a simulation for a single run.
func (d *driver) runOne(s *sim.Simulation, st *stats.Statistics, run int) error {
	s.Seed(core.RunSeed(d.seed, run))
	d.logger.Debug("running simulation", "run", run)

	err := s.Run()
	var trapped *sim.TrappedError
	switch {
	case err == nil:
		if err := s.ExportTo(st, run); err != nil {
			return fmt.Errorf("batch: run %d: %w", run, err)
		}
	case errors.As(err, &trapped):
		d.logger.Warn("run aborted, excluded from statistics",
			"run", run,
			"walker", trapped.Walker,
			"step", trapped.Step,
			"attempts", trapped.Attempts,
		)
	default:
		return fmt.Errorf("batch: run %d: %w", run, err)
	}
	s.Reset()

	d.finish(run, err)
	return nil
}

func (d *driver) finish(run int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err == nil {
		d.completed++
	} else {
		d.aborted++
		d.failures = append(d.failures, Failure{Run: run, Err: err})
	}
	if d.progress != nil {
		d.progress(Progress{
			Done:      d.completed + d.aborted,
			Total:     d.total,
			Completed: d.completed,
			Aborted:   d.aborted,
		})
	}
}

func (d *driver) sortedFailures() []Failure {
	out := make([]Failure, len(d.failures))
	copy(out, d.failures)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Run < out[j].Run
	})
	return out
}
