// Package config provides YAML-based scenario loading and validation for
// the walk simulator.
package config

import (
	"github.com/vovakirdan/walksim/internal/core"
	"github.com/vovakirdan/walksim/internal/world"
)

// Scenario is the content of one scenario file.
type Scenario struct {
	WalkerTypes []WalkerType `yaml:"walker_types"`
	Interaction string       `yaml:"interaction,omitempty"` // "", "attract" or "repel"
	Obstacles   []Region     `yaml:"obstacles,omitempty"`
	Waters      []Region     `yaml:"waters,omitempty"`
	Sands       []Region     `yaml:"sands,omitempty"`
	Grasses     []Region     `yaml:"grasses,omitempty"`
	Gates       []GateConfig `yaml:"enchanted_gates,omitempty"`
}

// WalkerType selects a walker variant by its type tag.
type WalkerType struct {
	Name    string    `yaml:"name"`
	Weights []float64 `yaml:"weights,omitempty"` // DirectionalBiasWalker only
}

// Region is a rectangle anchored at its lower-left corner.
type Region struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Rect converts the region into plane geometry.
func (r Region) Rect() core.Rect {
	return core.NewRect(r.X, r.Y, r.Width, r.Height)
}

// Location is a point on the plane.
type Location struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// GateConfig defines a gate by its entrance rectangle and exit point.
type GateConfig struct {
	Entrance       Location `yaml:"entrance_location"`
	EntranceWidth  float64  `yaml:"entrance_width"`
	EntranceHeight float64  `yaml:"entrance_height"`
	Exit           Location `yaml:"exit_location"`
}

// Gate converts the configuration into a world gate.
func (g GateConfig) Gate() world.Gate {
	return world.Gate{
		Entrance: core.NewRect(g.Entrance.X, g.Entrance.Y, g.EntranceWidth, g.EntranceHeight),
		Exit:     core.Point{X: g.Exit.X, Y: g.Exit.Y},
	}
}

// Layout converts the terrain, obstacle and gate sections into a world layout.
func (s Scenario) Layout() world.Layout {
	return world.Layout{
		Waters:    rects(s.Waters),
		Sands:     rects(s.Sands),
		Grasses:   rects(s.Grasses),
		Obstacles: rects(s.Obstacles),
		Gates:     gates(s.Gates),
	}
}

func rects(regions []Region) []core.Rect {
	if len(regions) == 0 {
		return nil
	}
	out := make([]core.Rect, len(regions))
	for i, r := range regions {
		out[i] = r.Rect()
	}
	return out
}

func gates(cfgs []GateConfig) []world.Gate {
	if len(cfgs) == 0 {
		return nil
	}
	out := make([]world.Gate, len(cfgs))
	for i, g := range cfgs {
		out[i] = g.Gate()
	}
	return out
}
