package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/walksim/internal/core"
)

var (
	// ErrMalformed is returned for rectangles with non-positive or non-finite dimensions.
	ErrMalformed = errors.New("world: malformed region")

	// ErrAtOrigin is returned when a blocking or teleporting region covers the origin.
	ErrAtOrigin = errors.New("world: region covers the origin")

	// ErrOverlap is returned when regions that must stay apart share a point.
	ErrOverlap = errors.New("world: overlapping regions")
)

// Validate checks the layout before any run starts:
//   - every rectangle has finite coordinates and positive dimensions
//   - obstacles, waters and gate entrances do not cover the origin
//   - obstacles and gate entrances do not overlap one another
//   - terrain tiles do not overlap one another
//   - no gate exit lies inside an obstacle or its own entrance
//
// Touching edges count as overlap because regions are closed.
func (l *Layout) Validate() error {
	if err := l.checkShapes(); err != nil {
		return err
	}

	for i, o := range l.Obstacles {
		if o.ContainsOrigin() {
			return fmt.Errorf("%w: obstacle %d", ErrAtOrigin, i)
		}
	}
	for i, w := range l.Waters {
		if w.ContainsOrigin() {
			return fmt.Errorf("%w: water %d", ErrAtOrigin, i)
		}
	}
	for i, g := range l.Gates {
		if g.Entrance.ContainsOrigin() {
			return fmt.Errorf("%w: gate %d entrance", ErrAtOrigin, i)
		}
	}

	if err := checkDisjoint("obstacle or gate", l.blocking()); err != nil {
		return err
	}
	if err := checkDisjoint("terrain", l.terrains()); err != nil {
		return err
	}

	for i, g := range l.Gates {
		for j, o := range l.Obstacles {
			if o.Contains(g.Exit) {
				return fmt.Errorf("%w: gate %d exit lies inside obstacle %d", ErrOverlap, i, j)
			}
		}
		if g.Entrance.Contains(g.Exit) {
			return fmt.Errorf("%w: gate %d exit lies inside its own entrance", ErrOverlap, i)
		}
	}

	return nil
}

type namedRect struct {
	name string
	rect core.Rect
}

func (l *Layout) blocking() []namedRect {
	out := make([]namedRect, 0, len(l.Obstacles)+len(l.Gates))
	for i, o := range l.Obstacles {
		out = append(out, namedRect{fmt.Sprintf("obstacle %d", i), o})
	}
	for i, g := range l.Gates {
		out = append(out, namedRect{fmt.Sprintf("gate %d", i), g.Entrance})
	}
	return out
}

func (l *Layout) terrains() []namedRect {
	out := make([]namedRect, 0, len(l.Waters)+len(l.Sands)+len(l.Grasses))
	for i, r := range l.Waters {
		out = append(out, namedRect{fmt.Sprintf("water %d", i), r})
	}
	for i, r := range l.Sands {
		out = append(out, namedRect{fmt.Sprintf("sand %d", i), r})
	}
	for i, r := range l.Grasses {
		out = append(out, namedRect{fmt.Sprintf("grass %d", i), r})
	}
	return out
}

func checkDisjoint(group string, rects []namedRect) error {
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].rect.Intersects(rects[j].rect) {
				return fmt.Errorf("%w: %s regions %s and %s", ErrOverlap, group, rects[i].name, rects[j].name)
			}
		}
	}
	return nil
}

func (l *Layout) checkShapes() error {
	all := append(l.blocking(), l.terrains()...)
	for _, nr := range all {
		if !wellFormed(nr.rect) {
			return fmt.Errorf("%w: %s has position (%v, %v) and size %vx%v",
				ErrMalformed, nr.name, nr.rect.X, nr.rect.Y, nr.rect.W, nr.rect.H)
		}
	}
	for i, g := range l.Gates {
		if !finite(g.Exit.X) || !finite(g.Exit.Y) {
			return fmt.Errorf("%w: gate %d exit is not a finite point", ErrMalformed, i)
		}
	}
	return nil
}

func wellFormed(r core.Rect) bool {
	return finite(r.X) && finite(r.Y) && finite(r.W) && finite(r.H) && r.W > 0 && r.H > 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
