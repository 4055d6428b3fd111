package walker

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/walksim/internal/core"
)

// BiasWeightCount is the number of directional bias weights:
// down, up, right, left, toward-origin.
const BiasWeightCount = 5

// DefaultBiasWeights gives every direction equal weight.
func DefaultBiasWeights() []float64 {
	return []float64{1, 1, 1, 1, 1}
}

// DirectionalBias takes unit steps chosen by weighted draw among the four
// axis directions and the direction toward the origin.
type DirectionalBias struct {
	Base
	weights [BiasWeightCount]float64
}

// NewDirectionalBias creates a biased walker. A nil slice means equal weights.
// Weights are normalized to sum to 1.
func NewDirectionalBias(weights []float64) (*DirectionalBias, error) {
	if weights == nil {
		weights = DefaultBiasWeights()
	}
	norm, err := NormalizeWeights(weights)
	if err != nil {
		return nil, err
	}
	w := &DirectionalBias{}
	copy(w.weights[:], norm)
	return w, nil
}

// NormalizeWeights validates the five bias weights and scales them to sum to 1.
func NormalizeWeights(weights []float64) ([]float64, error) {
	if len(weights) != BiasWeightCount {
		return nil, fmt.Errorf("%w: expected %d weights, got %d", ErrInvalidWeights, BiasWeightCount, len(weights))
	}

	var total float64
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weight %d is %v", ErrInvalidWeights, i, w)
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: at least one weight must be positive", ErrInvalidWeights)
	}

	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w / total
	}
	return out, nil
}

// Kind returns KindDirectionalBias.
func (w *DirectionalBias) Kind() Kind { return KindDirectionalBias }

// Weights returns the normalized weights.
func (w *DirectionalBias) Weights() []float64 {
	out := make([]float64, BiasWeightCount)
	copy(out, w.weights[:])
	return out
}

// towardOrigin returns the unit vector pointing at the origin.
// ok is false when the walker already stands on the origin.
func (w *DirectionalBias) towardOrigin() (core.Point, bool) {
	length := w.pos.Norm()
	if length == 0 {
		return core.Point{}, false
	}
	return core.Point{X: -w.pos.X / length, Y: -w.pos.Y / length}, true
}

// Move draws a direction and takes a unit step along it. The origin-directed
// step is always length 1 and may overshoot the origin.
func (w *DirectionalBias) Move(rng *rand.Rand) {
	candidates := make([]core.Point, 0, BiasWeightCount)
	candidates = append(candidates, axisSteps[:]...)
	if d, ok := w.towardOrigin(); ok {
		candidates = append(candidates, d)
	}

	w.step(candidates[weightedIndex(rng, w.weights[:len(candidates)])])
}

// weightedIndex picks an index with probability proportional to its weight.
// When every remaining weight is zero the draw is uniform.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, v := range weights {
		total += v
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}

	r := rng.Float64() * total
	var cum float64
	last := 0
	for i, v := range weights {
		if v == 0 {
			continue
		}
		cum += v
		last = i
		if r < cum {
			return i
		}
	}
	return last
}
