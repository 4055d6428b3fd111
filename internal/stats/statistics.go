// Package stats aggregates the step records of many completed runs and
// reduces them into per-walker summaries.
package stats

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/vovakirdan/walksim/internal/sim"
)

// Statistics accumulates completed runs keyed by walker name, then run index.
// It is not safe for concurrent use; parallel drivers fill one Statistics per
// worker and Merge them at the end.
type Statistics struct {
	runs map[string]map[int][]sim.StepRecord
}

// New creates an empty accumulator.
func New() *Statistics {
	return &Statistics{runs: make(map[string]map[int][]sim.StepRecord)}
}

// Load stores the table of one completed run under the run index. Loading the
// same run index twice replaces the earlier table.
func (s *Statistics) Load(table sim.Table, run int) {
	for name, records := range table {
		byRun, ok := s.runs[name]
		if !ok {
			byRun = make(map[int][]sim.StepRecord)
			s.runs[name] = byRun
		}
		byRun[run] = records
	}
}

// Merge adds every run held by other. Runs with the same walker and index
// are replaced by the ones from other.
func (s *Statistics) Merge(other *Statistics) {
	for name, byRun := range other.runs {
		for run, records := range byRun {
			s.Load(sim.Table{name: records}, run)
		}
	}
}

// Walkers returns the accumulated walker names in sorted order.
func (s *Statistics) Walkers() []string {
	names := make([]string, 0, len(s.runs))
	for name := range s.runs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Runs returns the number of runs accumulated for a walker.
func (s *Statistics) Runs(name string) int {
	return len(s.runs[name])
}

// Records returns the records of one run of a walker, or nil if absent.
func (s *Statistics) Records(name string, run int) []sim.StepRecord {
	return s.runs[name][run]
}

// Empty reports whether no run has been loaded.
func (s *Statistics) Empty() bool {
	return len(s.runs) == 0
}

// Series holds one value per step; index i is step i+1.
type Series []float64

// At returns the value at a 1-based step, and false when out of range.
func (s Series) At(step int) (float64, bool) {
	if step < 1 || step > len(s) {
		return 0, false
	}
	return s[step-1], true
}

// Last returns the value of the final step, or 0 for an empty series.
func (s Series) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// MarshalJSON encodes the series as an object keyed by step number, in step order.
func (s Series) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i + 1)))
		buf.WriteByte(':')
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AverageDistanceOrigin returns, per walker, the mean distance from the
// origin at every step.
func (s *Statistics) AverageDistanceOrigin() map[string]Series {
	return s.perStep(func(r sim.StepRecord) float64 { return r.DistanceOrigin })
}

// AverageDistanceFromX returns, per walker, the mean distance from the x
// axis (|y|) at every step.
func (s *Statistics) AverageDistanceFromX() map[string]Series {
	return s.perStep(func(r sim.StepRecord) float64 { return r.DistanceFromX })
}

// AverageDistanceFromY returns, per walker, the mean distance from the y
// axis (|x|) at every step.
func (s *Statistics) AverageDistanceFromY() map[string]Series {
	return s.perStep(func(r sim.StepRecord) float64 { return r.DistanceFromY })
}

// AverageCrossings returns, per walker, the mean y-axis crossing count at every step.
func (s *Statistics) AverageCrossings() map[string]Series {
	return s.perStep(func(r sim.StepRecord) float64 { return float64(r.Crossings) })
}

// perStep sums a record field per step over all runs of a walker and divides
// by the number of runs. Runs are expected to share one step budget.
func (s *Statistics) perStep(field func(sim.StepRecord) float64) map[string]Series {
	out := make(map[string]Series, len(s.runs))
	for name, byRun := range s.runs {
		steps := 0
		for _, records := range byRun {
			for _, r := range records {
				steps = max(steps, r.Step)
			}
		}

		sums := make(Series, steps)
		for _, records := range byRun {
			for _, r := range records {
				if r.Step >= 1 {
					sums[r.Step-1] += field(r)
				}
			}
		}
		total := float64(len(byRun))
		for i := range sums {
			sums[i] /= total
		}
		out[name] = sums
	}
	return out
}

// EscapeSummary is the escape reduction of one walker.
type EscapeSummary struct {
	// Average is the mean over escaping runs of each run's average
	// pre-escape step index. It is 0 when no run escaped.
	Average float64

	// Escaped and NeverEscaped count the runs in each outcome.
	Escaped      int
	NeverEscaped int
}

// MarshalJSON encodes the summary as [average, never escaped].
func (e EscapeSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Average, e.NeverEscaped})
}

// AverageEscapeTime returns the escape reduction per walker. A run counts as
// escaped when any of its records is taken after the escape; its value is the
// mean of the escape times recorded before that.
func (s *Statistics) AverageEscapeTime() map[string]EscapeSummary {
	out := make(map[string]EscapeSummary, len(s.runs))
	for name, byRun := range s.runs {
		var (
			summary EscapeSummary
			total   float64
		)
		for _, records := range byRun {
			escaped := false
			var sum float64
			var n int
			for _, r := range records {
				if r.Escaped() {
					escaped = true
					continue
				}
				sum += float64(*r.EscapeTime)
				n++
			}
			if !escaped {
				summary.NeverEscaped++
				continue
			}
			summary.Escaped++
			if n > 0 {
				total += sum / float64(n)
			}
		}
		if summary.Escaped > 0 {
			summary.Average = total / float64(summary.Escaped)
		}
		out[name] = summary
	}
	return out
}
