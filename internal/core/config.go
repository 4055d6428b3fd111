package core

import (
	"math/rand"
	"runtime"
	"time"
)

// RuntimeConfig contains settings shared by every run of a batch.
type RuntimeConfig struct {
	Seed    int64 // Base RNG seed; 0 means derive one from the clock
	Workers int   // Concurrent simulations; values below 1 mean sequential
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Seed:    0, // 0 means use current time in the driver
		Workers: 1,
	}
}

// ResolveSeed returns the configured seed, or a clock-derived one when unset.
func (c RuntimeConfig) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

// WorkerCount clamps the configured worker count to [1, GOMAXPROCS].
func (c RuntimeConfig) WorkerCount() int {
	if c.Workers < 1 {
		return 1
	}
	if max := runtime.GOMAXPROCS(0); c.Workers > max {
		return max
	}
	return c.Workers
}

// RunSeed derives the seed of a single run from the batch seed.
// Every run gets its own source so results do not depend on worker scheduling.
func RunSeed(base int64, run int) int64 {
	return base + int64(run)
}

// NewRand creates a random source for one run.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
