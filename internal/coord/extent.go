package coord

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Extent is [minX, minY, maxX, maxY].
type Extent [4]float64

// NormalizedExtent is [[minX, minY], [maxX, maxY]].
type NormalizedExtent [2][2]float64

// ExtentShape is either representation of an extent.
type ExtentShape interface {
	Extent | NormalizedExtent
}

// Bound returns the extent as an orb.Bound.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e[0], e[1]}, Max: orb.Point{e[2], e[3]}}
}

// NormalizeExtent returns e as [[minX, minY], [maxX, maxY]].
func NormalizeExtent[E ExtentShape](e E) NormalizedExtent {
	switch v := any(e).(type) {
	case Extent:
		return NormalizedExtent{{v[0], v[1]}, {v[2], v[3]}}
	case NormalizedExtent:
		return v
	}
	panic("unreachable")
}

// FlattenExtent returns e as [minX, minY, maxX, maxY].
func FlattenExtent[E ExtentShape](e E) Extent {
	switch v := any(e).(type) {
	case Extent:
		return v
	case NormalizedExtent:
		return Extent{v[0][0], v[0][1], v[1][0], v[1][1]}
	}
	panic("unreachable")
}

// asShape converts a flat extent into the representation E.
func asShape[E ExtentShape](flat Extent) E {
	var zero E
	switch any(zero).(type) {
	case NormalizedExtent:
		return any(NormalizeExtent(flat)).(E)
	default:
		return any(flat).(E)
	}
}

// ExtentCenter returns the midpoint of the two corners.
func ExtentCenter[E ExtentShape](e E) Coordinate {
	f := FlattenExtent(e)
	return Coordinate{(f[0] + f[2]) / 2, (f[1] + f[3]) / 2}
}

// ProjExtent reprojects both corners of e from src to dst and returns the
// result in the representation it was given.
func ProjExtent[E ExtentShape](src, dst *CoordinateSystem, e E) (E, error) {
	var zero E
	if src == nil || dst == nil {
		return zero, fmt.Errorf("%w: reprojecting an extent needs a source and a target", ErrMissingCoordinateSystem)
	}
	n := NormalizeExtent(e)
	corners, err := ReprojectAndRound(src, dst, []Coordinate{n[0][:], n[1][:]})
	if err != nil {
		return zero, err
	}
	// Rotated or wrapping projections can swap the corners.
	return asShape[E](Extent{
		math.Min(corners[0][0], corners[1][0]),
		math.Min(corners[0][1], corners[1][1]),
		math.Max(corners[0][0], corners[1][0]),
		math.Max(corners[0][1], corners[1][1]),
	}), nil
}

// ExtentIntersectionWithCurrentProjection clips extent, given in target's
// coordinates, to the bounds of limit and returns the overlap in target's
// coordinates and in the extent's representation. ok is false when the
// extent lies entirely outside limit's bounds. A limit without bounds
// leaves the extent as it is.
func ExtentIntersectionWithCurrentProjection[E ExtentShape](extent E, target, limit *CoordinateSystem) (result E, ok bool, err error) {
	if target == nil || limit == nil {
		return result, false, fmt.Errorf("%w: intersecting an extent needs a target and a limit", ErrMissingCoordinateSystem)
	}
	flat := FlattenExtent(extent)
	if !target.Equal(limit) {
		if flat, err = ProjExtent(target, limit, flat); err != nil {
			return result, false, err
		}
	}
	if limit.Bounds() == nil {
		return extent, true, nil
	}

	overlap, ok := intersectExtents(flat, limit.Bounds().Flatten())
	if !ok {
		return result, false, nil
	}
	if !target.Equal(limit) {
		if overlap, err = ProjExtent(limit, target, overlap); err != nil {
			return result, false, err
		}
	}
	return asShape[E](overlap), true, nil
}

// intersectExtents returns the overlap of a and b. Touching extents overlap
// in a zero-area extent.
func intersectExtents(a, b Extent) (Extent, bool) {
	if !a.Bound().Intersects(b.Bound()) {
		return Extent{}, false
	}
	out := Extent{
		math.Max(a[0], b[0]),
		math.Max(a[1], b[1]),
		math.Min(a[2], b[2]),
		math.Min(a[3], b[3]),
	}
	for _, v := range out {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Extent{}, false
		}
	}
	return out, true
}

// bufferSegments is the number of vertices approximating the buffer circle.
const bufferSegments = 64

// PixelExtentOptions configures CreatePixelExtentAround.
type PixelExtentOptions struct {
	// Size is the radius in pixels.
	Size float64
	// Coordinate is the center, in Projection's coordinates.
	Coordinate Coordinate
	Projection *CoordinateSystem
	// Resolution is the current ground resolution in meters per pixel.
	Resolution float64
	// Rounded rounds the resulting extent to whole units.
	Rounded bool
}

// CreatePixelExtentAround returns the extent covering a circle of Size pixels
// around Coordinate at the given resolution.
func CreatePixelExtentAround(opts PixelExtentOptions) (Extent, error) {
	if opts.Projection == nil {
		return Extent{}, fmt.Errorf("%w: pixel extent needs a projection", ErrMissingCoordinateSystem)
	}
	if !opts.Coordinate.valid() {
		return Extent{}, fmt.Errorf("%w: %v", ErrInvalidCoordinates, []float64(opts.Coordinate))
	}
	center, err := opts.Projection.toWGS84(opts.Coordinate)
	if err != nil {
		return Extent{}, err
	}

	radius := opts.Size * opts.Resolution
	bound := bufferPoint(center.Point(), radius).Bound()

	bl, err := opts.Projection.fromWGS84(Coordinate{bound.Min[0], bound.Min[1]})
	if err != nil {
		return Extent{}, err
	}
	tr, err := opts.Projection.fromWGS84(Coordinate{bound.Max[0], bound.Max[1]})
	if err != nil {
		return Extent{}, err
	}
	e := Extent{bl[0], bl[1], tr[0], tr[1]}
	if opts.Rounded {
		for i := range e {
			e[i] = math.Round(e[i])
		}
	}
	return e, nil
}

// bufferPoint approximates a circle of radius meters around the WGS84 point p.
func bufferPoint(p orb.Point, radius float64) orb.Ring {
	ring := make(orb.Ring, 0, bufferSegments+1)
	for i := 0; i < bufferSegments; i++ {
		bearing := 360.0 * float64(i) / bufferSegments
		ring = append(ring, geo.PointAtBearingAndDistance(p, bearing, radius))
	}
	return append(ring, ring[0])
}
