// Package coord defines the coordinate systems a web map can be displayed in
// and the helpers to move points, extents and lines between them.
//
// Two families of zoom pyramids exist side by side: the continuous,
// latitude-dependent web mercator pyramid and the discrete, hand-curated Swiss
// grid pyramid. Every CoordinateSystem carries a Pyramid tag selecting one of
// them.
package coord

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

var (
	// ErrMissingCoordinateSystem is returned when a nil *CoordinateSystem is passed.
	ErrMissingCoordinateSystem = errors.New("coord: missing coordinate system")
	// ErrInvalidCoordinates is returned for malformed coordinate input.
	ErrInvalidCoordinates = errors.New("coord: invalid coordinates")
	// ErrInvalidBounds is returned for bounds with lower > upper or NaN limits.
	ErrInvalidBounds = errors.New("coord: invalid bounds")
	// ErrUnknownEPSG is returned for EPSG codes that are malformed or not registered.
	ErrUnknownEPSG = errors.New("coord: unknown EPSG code")
	// ErrInvalidConfig is returned when a registry configuration cannot be used.
	ErrInvalidConfig = errors.New("coord: invalid configuration")
)

// Coordinate is [x, y] or [x, y, z].
type Coordinate []float64

// Point drops any z value.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c[0], c[1]}
}

func (c Coordinate) valid() bool {
	if len(c) != 2 && len(c) != 3 {
		return false
	}
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// round rounds v to the given number of decimals.
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
