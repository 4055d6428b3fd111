package config

import (
	_ "embed"
)

//go:embed defaults/default.yaml
var defaultScenarioYAML []byte

// DefaultScenario returns the built-in scenario: one walker of every type on
// a plane with a little of every terrain, one obstacle and one gate.
func DefaultScenario() Scenario {
	return Scenario{
		WalkerTypes: []WalkerType{
			{Name: "UnitWalker"},
			{Name: "RandomDistanceWalker"},
			{Name: "StraightWalker"},
			{Name: "DirectionalBiasWalker", Weights: []float64{1, 1, 1, 1, 1}},
			{Name: "MemoryWalker"},
		},
		Obstacles: []Region{{X: 3, Y: 3, Width: 1, Height: 2}},
		Waters:    []Region{{X: -6, Y: -6, Width: 2, Height: 2}},
		Sands:     []Region{{X: 1, Y: -4, Width: 3, Height: 2}},
		Grasses:   []Region{{X: -5, Y: 2, Width: 2, Height: 3}},
		Gates: []GateConfig{{
			Entrance:       Location{X: 6, Y: -1},
			EntranceWidth:  1,
			EntranceHeight: 2,
			Exit:           Location{X: -2, Y: -8},
		}},
	}
}

// DefaultYAML returns the embedded default scenario file.
func DefaultYAML() []byte {
	return defaultScenarioYAML
}
