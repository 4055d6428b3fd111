package sim

import (
	"math"

	"github.com/vovakirdan/walksim/internal/core"
)

// StepRecord is the bookkeeping written for one walker after one step.
type StepRecord struct {
	Step     int        `json:"step"`
	Location core.Point `json:"locations"`

	// EscapeTime is the latest step at which the walker was still inside the
	// escape radius. It is nil once the walker has escaped.
	EscapeTime *int `json:"escape time"`

	Crossings      int     `json:"y crosses"`
	DistanceOrigin float64 `json:"distance from origin"`
	DistanceFromX  float64 `json:"distance from x"` // |y|
	DistanceFromY  float64 `json:"distance from y"` // |x|
}

// Escaped reports whether the record was taken after the walker escaped.
func (r StepRecord) Escaped() bool {
	return r.EscapeTime == nil
}

// Table holds the records of one run, keyed by walker name.
// Records of every walker are ordered by step, starting at step 1.
type Table map[string][]StepRecord

// Recorder accepts the table of a completed run under a run index.
type Recorder interface {
	Load(table Table, run int)
}

func newRecord(step int, p core.Point, escapeTime *int, crossings int) StepRecord {
	return StepRecord{
		Step:           step,
		Location:       p,
		EscapeTime:     escapeTime,
		Crossings:      max(0, crossings),
		DistanceOrigin: p.Norm(),
		DistanceFromX:  math.Abs(p.Y),
		DistanceFromY:  math.Abs(p.X),
	}
}
