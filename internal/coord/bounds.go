package coord

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Bounds is the rectangular validity region of a coordinate system, expressed
// in that system's own units. A Bounds is immutable once constructed.
type Bounds struct {
	lowerX, upperX float64
	lowerY, upperY float64
	customCenter   Coordinate
}

// NewBounds returns the bounds [lowerX, upperX] x [lowerY, upperY].
func NewBounds(lowerX, upperX, lowerY, upperY float64) (*Bounds, error) {
	return NewBoundsWithCenter(lowerX, upperX, lowerY, upperY, nil)
}

// NewBoundsWithCenter is like NewBounds but reports center instead of the
// midpoint from Center. A nil center falls back to the midpoint.
func NewBoundsWithCenter(lowerX, upperX, lowerY, upperY float64, center Coordinate) (*Bounds, error) {
	for _, v := range []float64{lowerX, upperX, lowerY, upperY} {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: NaN limit", ErrInvalidBounds)
		}
	}
	if lowerX > upperX {
		return nil, fmt.Errorf("%w: lowerX %v > upperX %v", ErrInvalidBounds, lowerX, upperX)
	}
	if lowerY > upperY {
		return nil, fmt.Errorf("%w: lowerY %v > upperY %v", ErrInvalidBounds, lowerY, upperY)
	}
	b := &Bounds{lowerX: lowerX, upperX: upperX, lowerY: lowerY, upperY: upperY}
	if center != nil {
		if len(center) != 2 {
			return nil, fmt.Errorf("%w: custom center %v must be [x, y]", ErrInvalidBounds, center)
		}
		b.customCenter = Coordinate{center[0], center[1]}
	}
	return b, nil
}

// mustBounds is NewBoundsWithCenter for the built-in systems.
func mustBounds(lowerX, upperX, lowerY, upperY float64, center Coordinate) *Bounds {
	b, err := NewBoundsWithCenter(lowerX, upperX, lowerY, upperY, center)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Bounds) LowerX() float64 { return b.lowerX }
func (b *Bounds) UpperX() float64 { return b.upperX }
func (b *Bounds) LowerY() float64 { return b.lowerY }
func (b *Bounds) UpperY() float64 { return b.upperY }

func (b *Bounds) Width() float64  { return b.upperX - b.lowerX }
func (b *Bounds) Height() float64 { return b.upperY - b.lowerY }

func (b *Bounds) BottomLeft() Coordinate  { return Coordinate{b.lowerX, b.lowerY} }
func (b *Bounds) BottomRight() Coordinate { return Coordinate{b.upperX, b.lowerY} }
func (b *Bounds) TopLeft() Coordinate     { return Coordinate{b.lowerX, b.upperY} }
func (b *Bounds) TopRight() Coordinate    { return Coordinate{b.upperX, b.upperY} }

// CustomCenter returns the center given at construction, if any.
func (b *Bounds) CustomCenter() (Coordinate, bool) {
	if b.customCenter == nil {
		return nil, false
	}
	return Coordinate{b.customCenter[0], b.customCenter[1]}, true
}

// Center returns the custom center when one was given, the midpoint otherwise.
func (b *Bounds) Center() Coordinate {
	if c, ok := b.CustomCenter(); ok {
		return c
	}
	return Coordinate{(b.lowerX + b.upperX) / 2, (b.lowerY + b.upperY) / 2}
}

// Flatten returns [lowerX, lowerY, upperX, upperY].
func (b *Bounds) Flatten() Extent {
	return Extent{b.lowerX, b.lowerY, b.upperX, b.upperY}
}

// IsInBounds reports whether (x, y) lies inside the bounds, edges included.
func (b *Bounds) IsInBounds(x, y float64) bool {
	return x >= b.lowerX && x <= b.upperX && y >= b.lowerY && y <= b.upperY
}

// Bound returns the bounds as an orb.Bound.
func (b *Bounds) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.lowerX, b.lowerY}, Max: orb.Point{b.upperX, b.upperY}}
}

// Polygon returns the bounds as a closed, counter-clockwise polygon.
func (b *Bounds) Polygon() orb.Polygon {
	return b.Bound().ToPolygon()
}

func (b *Bounds) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", b.lowerX, b.lowerY, b.upperX, b.upperY)
}
