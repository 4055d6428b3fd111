// Package core provides fundamental types and utilities for the walk simulator.
// It contains no external dependencies so the movement logic stays pure and
// testable.
package core

import "math"

// Point is a position on the simulation plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Origin is the starting point of every walker.
var Origin = Point{}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both coordinates by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Norm returns the distance of p from the origin.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Rect is an axis-aligned rectangle anchored at its lower-left corner.
// Rectangles are closed: points on the edges belong to the rectangle.
type Rect struct {
	X, Y float64 // Lower-left corner
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Top returns the y-coordinate of the top edge.
func (r Rect) Top() float64 {
	return r.Y + r.H
}

// Boundary returns the rectangle's corners in counter-clockwise order,
// starting at the anchor.
func (r Rect) Boundary() []Point {
	return []Point{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Top()},
		{X: r.X, Y: r.Top()},
	}
}

// Contains reports whether p lies inside the rectangle or on its edges.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Top()
}

// Intersects reports whether two closed rectangles share at least one point.
// Touching edges count as an intersection.
func (r Rect) Intersects(other Rect) bool {
	if r.X > other.Right() || other.X > r.Right() {
		return false
	}
	if r.Y > other.Top() || other.Y > r.Top() {
		return false
	}
	return true
}

// SegmentIntersects reports whether the segment a-b touches the rectangle,
// including segments that lie entirely inside it.
// Uses Liang-Barsky clipping against the closed rectangle.
func (r Rect) SegmentIntersects(a, b Point) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	t0, t1 := 0.0, 1.0

	clip := func(p, q float64) bool {
		if p == 0 {
			// Parallel to this edge: inside iff on the inner side
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}

	return clip(-dx, a.X-r.X) &&
		clip(dx, r.Right()-a.X) &&
		clip(-dy, a.Y-r.Y) &&
		clip(dy, r.Top()-a.Y)
}

// ContainsOrigin reports whether the rectangle covers the origin.
func (r Rect) ContainsOrigin() bool {
	return r.Contains(Origin)
}
