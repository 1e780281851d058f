package coord

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Coordinates is a single coordinate or a list of them.
type Coordinates interface {
	Coordinate | []Coordinate
}

// ReprojectAndRound moves coords from src to dst and rounds every resulting
// ordinate to dst's precision.
func ReprojectAndRound[T Coordinates](src, dst *CoordinateSystem, coords T) (T, error) {
	var zero T
	if src == nil || dst == nil {
		return zero, fmt.Errorf("%w: reprojecting needs a source and a target", ErrMissingCoordinateSystem)
	}
	switch c := any(coords).(type) {
	case Coordinate:
		out, err := reprojectAndRound(src, dst, c)
		if err != nil {
			return zero, err
		}
		return any(out).(T), nil
	case []Coordinate:
		out := make([]Coordinate, len(c))
		for i, cc := range c {
			p, err := reprojectAndRound(src, dst, cc)
			if err != nil {
				return zero, fmt.Errorf("coordinate %d: %w", i, err)
			}
			out[i] = p
		}
		return any(out).(T), nil
	}
	return zero, fmt.Errorf("%w: %T", ErrInvalidCoordinates, coords)
}

func reprojectAndRound(src, dst *CoordinateSystem, c Coordinate) (Coordinate, error) {
	if !c.valid() {
		return nil, fmt.Errorf("%w: %v is not [x, y] or [x, y, z]", ErrInvalidCoordinates, []float64(c))
	}
	out, err := src.project(dst, c)
	if err != nil {
		return nil, err
	}
	for i, v := range out {
		out[i] = dst.RoundCoordinateValue(v)
	}
	return out, nil
}

// WrapXCoordinates brings x values that went around the world back into the
// bounds of a mercator system by adding or removing whole bounds widths.
// Other systems, and systems without bounds, get coords back untouched.
func WrapXCoordinates[T Coordinates](coords T, cs *CoordinateSystem) T {
	if cs == nil || !cs.UsesMercatorPyramid() || cs.Bounds() == nil {
		return coords
	}
	b := cs.Bounds()
	switch c := any(coords).(type) {
	case Coordinate:
		return any(wrapX(c, b)).(T)
	case []Coordinate:
		out := make([]Coordinate, len(c))
		for i, cc := range c {
			out[i] = wrapX(cc, b)
		}
		return any(out).(T)
	}
	return coords
}

func wrapX(c Coordinate, b *Bounds) Coordinate {
	if len(c) < 2 || b.Width() <= 0 || (c[0] >= b.LowerX() && c[0] <= b.UpperX()) {
		return c
	}
	out := append(Coordinate(nil), c...)
	width := b.Width()
	if c[0] > b.UpperX() {
		out[0] -= math.Ceil((c[0]-b.UpperX())/width) * width
	} else {
		out[0] += math.Ceil((b.LowerX()-c[0])/width) * width
	}
	return out
}

// UnwrapGeometryCoordinates returns the first leaf coordinate list of g: the
// point itself, the line, the outer ring of the (first) polygon, and so on.
func UnwrapGeometryCoordinates(g orb.Geometry) []Coordinate {
	var points []orb.Point
	switch g := g.(type) {
	case orb.Point:
		points = []orb.Point{g}
	case orb.MultiPoint:
		points = g
	case orb.LineString:
		points = g
	case orb.Ring:
		points = g
	case orb.MultiLineString:
		if len(g) > 0 {
			points = g[0]
		}
	case orb.Polygon:
		if len(g) > 0 {
			points = g[0]
		}
	case orb.MultiPolygon:
		if len(g) > 0 && len(g[0]) > 0 {
			points = g[0][0]
		}
	case orb.Bound:
		points = g.ToRing()
	case orb.Collection:
		for _, sub := range g {
			if out := UnwrapGeometryCoordinates(sub); len(out) > 0 {
				return out
			}
		}
	}
	if len(points) == 0 {
		return nil
	}
	out := make([]Coordinate, len(points))
	for i, p := range points {
		out[i] = Coordinate{p[0], p[1]}
	}
	return out
}

// UnwrapGeoJSONCoordinates decodes a GeoJSON feature collection, feature or
// geometry and unwraps the coordinates of its first geometry.
func UnwrapGeoJSONCoordinates(data []byte) ([]Coordinate, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		return UnwrapGeometryCoordinates(fc.Features[0].Geometry), nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		return UnwrapGeometryCoordinates(f.Geometry), nil
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	return UnwrapGeometryCoordinates(g.Geometry()), nil
}

// RemoveZValues strips the third ordinate of every coordinate. All
// coordinates must have the same arity, either 2 or 3.
func RemoveZValues(coords []Coordinate) ([]Coordinate, error) {
	if len(coords) == 0 {
		return coords, nil
	}
	arity := len(coords[0])
	if arity != 2 && arity != 3 {
		return nil, fmt.Errorf("%w: coordinates must be [x, y] or [x, y, z], got %d values", ErrInvalidCoordinates, arity)
	}
	out := make([]Coordinate, len(coords))
	for i, c := range coords {
		if len(c) != arity {
			return nil, fmt.Errorf("%w: coordinate %d has %d values, expected %d", ErrInvalidCoordinates, i, len(c), arity)
		}
		out[i] = Coordinate{c[0], c[1]}
	}
	return out, nil
}
