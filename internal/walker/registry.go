package walker

import (
	"fmt"
	"sort"
	"sync"
)

// Spec describes a walker to construct: its type tag and optional bias weights.
type Spec struct {
	Kind    Kind
	Weights []float64 // Only used by DirectionalBiasWalker
}

// Info contains metadata about a registered walker type.
type Info struct {
	Kind        Kind
	Description string
}

// Factory creates a new walker from a spec.
type Factory func(spec Spec) (Walker, error)

var (
	factories    = make(map[Kind]Factory)
	descriptions = make(map[Kind]string)
	mu           sync.RWMutex
)

// Register adds a walker factory to the registry.
// Panics if a factory with the same kind is already registered.
func Register(kind Kind, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("walker: type %q already registered", kind))
	}

	factories[kind] = f
	descriptions[kind] = description
}

// List returns information about all registered walker types, sorted by kind.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for kind := range factories {
		result = append(result, Info{
			Kind:        kind,
			Description: descriptions[kind],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})

	return result
}

// Create instantiates a new walker from its spec.
// Returns ErrUnknownKind if the type tag is not registered.
func Create(spec Spec) (Walker, error) {
	mu.RLock()
	f, ok := factories[spec.Kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, spec.Kind)
	}

	return f(spec)
}

// Exists checks if a walker type with the given tag is registered.
func Exists(kind Kind) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[kind]
	return ok
}

// rejectWeights guards the variants that take no bias weights.
func rejectWeights(spec Spec) error {
	if len(spec.Weights) > 0 {
		return fmt.Errorf("%w: %s does not take bias weights", ErrInvalidWeights, spec.Kind)
	}
	return nil
}

func init() {
	Register(KindUnit, "unit step in a uniformly random direction",
		func(spec Spec) (Walker, error) {
			if err := rejectWeights(spec); err != nil {
				return nil, err
			}
			return NewUnit(), nil
		})
	Register(KindRandomDistance, "random direction, distance uniform in [0.5, 1.5)",
		func(spec Spec) (Walker, error) {
			if err := rejectWeights(spec); err != nil {
				return nil, err
			}
			return NewRandomDistance(), nil
		})
	Register(KindStraight, "unit step along a random axis",
		func(spec Spec) (Walker, error) {
			if err := rejectWeights(spec); err != nil {
				return nil, err
			}
			return NewStraight(), nil
		})
	Register(KindDirectionalBias, "weighted axis or toward-origin unit step",
		func(spec Spec) (Walker, error) {
			w, err := NewDirectionalBias(spec.Weights)
			if err != nil {
				return nil, err
			}
			return w, nil
		})
	Register(KindMemory, "axis step avoiding the last 1000 visited cells",
		func(spec Spec) (Walker, error) {
			if err := rejectWeights(spec); err != nil {
				return nil, err
			}
			return NewMemory(), nil
		})
}
