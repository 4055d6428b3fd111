// Package world describes the static plane a simulation runs on: terrain
// tiles, impassable obstacles and teleporting gates.
package world

import (
	"github.com/vovakirdan/walksim/internal/core"
)

// Terrain identifies the kind of a terrain tile.
type Terrain int

const (
	None Terrain = iota
	Water
	Sand
	Grass
)

// String returns the terrain name as used in configuration files.
func (t Terrain) String() string {
	switch t {
	case Water:
		return "water"
	case Sand:
		return "sand"
	case Grass:
		return "grass"
	default:
		return "none"
	}
}

// Gate teleports any walker whose step crosses its entrance to the exit point.
type Gate struct {
	Entrance core.Rect
	Exit     core.Point
}

// Layout is the static content of the plane. It is loaded once and never
// mutated by a run.
type Layout struct {
	Waters    []core.Rect
	Sands     []core.Rect
	Grasses   []core.Rect
	Obstacles []core.Rect
	Gates     []Gate
}

// TerrainAt returns the terrain under p. Water is checked first, then sand,
// then grass; the first match wins.
func (l *Layout) TerrainAt(p core.Point) Terrain {
	for _, r := range l.Waters {
		if r.Contains(p) {
			return Water
		}
	}
	for _, r := range l.Sands {
		if r.Contains(p) {
			return Sand
		}
	}
	for _, r := range l.Grasses {
		if r.Contains(p) {
			return Grass
		}
	}
	return None
}

// Effect returns where a walker that moved from prev to cur ends up after
// landing on terrain t.
//
//   - water: back to the origin
//   - sand: halfway between prev and cur
//   - grass: cur pushed on by twice the move vector
func Effect(t Terrain, prev, cur core.Point) core.Point {
	switch t {
	case Water:
		return core.Origin
	case Sand:
		return prev.Midpoint(cur)
	case Grass:
		return cur.Add(cur.Sub(prev).Scale(2))
	default:
		return cur
	}
}

// Collides reports whether the segment a-b touches any obstacle.
func (l *Layout) Collides(a, b core.Point) bool {
	for _, o := range l.Obstacles {
		if o.SegmentIntersects(a, b) {
			return true
		}
	}
	return false
}

// GateCrossed returns the first gate, in list order, whose entrance the
// segment a-b touches.
func (l *Layout) GateCrossed(a, b core.Point) (Gate, bool) {
	for _, g := range l.Gates {
		if g.Entrance.SegmentIntersects(a, b) {
			return g, true
		}
	}
	return Gate{}, false
}

// Empty reports whether the layout has no content at all.
func (l *Layout) Empty() bool {
	return len(l.Waters) == 0 && len(l.Sands) == 0 && len(l.Grasses) == 0 &&
		len(l.Obstacles) == 0 && len(l.Gates) == 0
}
