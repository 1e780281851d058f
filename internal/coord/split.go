package coord

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// CoordinatesChunk is one ordered piece of a polyline split at the bounds.
type CoordinatesChunk struct {
	Coordinates    []Coordinate `json:"coordinates"`
	IsWithinBounds bool         `json:"isWithinBounds"`
}

// SplitIfOutOfBounds cuts the polyline coords wherever it crosses the bounds
// and returns the pieces in traversal order, each flagged as inside or
// outside. A polyline that is entirely inside is returned as a single chunk.
//
// It returns nil, meaning "do not clip", for fewer than two points or when
// any point is not a plain [x, y] pair.
func (b *Bounds) SplitIfOutOfBounds(coords []Coordinate) []CoordinatesChunk {
	if len(coords) < 2 {
		return nil
	}
	for _, c := range coords {
		if len(c) != 2 {
			return nil
		}
	}

	inside := true
	for _, c := range coords {
		if !b.IsInBounds(c[0], c[1]) {
			inside = false
			break
		}
	}
	if inside {
		return []CoordinatesChunk{{Coordinates: coords, IsWithinBounds: true}}
	}

	poly := b.Polygon()
	line := make(orb.LineString, len(coords))
	for i, c := range coords {
		line[i] = orb.Point{c[0], c[1]}
	}

	fragments := chainFragments(line[0], splitLineString(line, poly[0]))

	chunks := make([]CoordinatesChunk, 0, len(fragments))
	for _, f := range fragments {
		chunk := CoordinatesChunk{
			Coordinates:    make([]Coordinate, len(f)),
			IsWithinBounds: true,
		}
		for i, p := range f {
			chunk.Coordinates[i] = Coordinate{p[0], p[1]}
			if !polygonCovers(poly, p) {
				chunk.IsWithinBounds = false
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// polygonCovers is planar.PolygonContains with the boundary counted as inside.
func polygonCovers(poly orb.Polygon, p orb.Point) bool {
	return planar.PolygonContains(poly, p) || onRing(poly[0], p)
}

// splitLineString cuts line at every point where it crosses an edge of ring.
// Interior vertices lying exactly on the ring also start a new fragment.
func splitLineString(line orb.LineString, ring orb.Ring) []orb.LineString {
	var fragments []orb.LineString
	current := orb.LineString{line[0]}

	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		for _, p := range segmentCrossings(a, b, ring) {
			if p == current[len(current)-1] {
				continue
			}
			current = append(current, p)
			fragments = append(fragments, current)
			current = orb.LineString{p}
		}
		if b != current[len(current)-1] {
			current = append(current, b)
		}
		if i < len(line)-1 && len(current) > 1 && onRing(ring, b) {
			fragments = append(fragments, current)
			current = orb.LineString{b}
		}
	}
	if len(current) > 1 {
		fragments = append(fragments, current)
	}
	return fragments
}

func onRing(ring orb.Ring, p orb.Point) bool {
	for i := 0; i < len(ring)-1; i++ {
		q1, q2 := ring[i], ring[i+1]
		switch {
		case q1[0] == q2[0] && p[0] == q1[0]:
			if p[1] >= math.Min(q1[1], q2[1]) && p[1] <= math.Max(q1[1], q2[1]) {
				return true
			}
		case q1[1] == q2[1] && p[1] == q1[1]:
			if p[0] >= math.Min(q1[0], q2[0]) && p[0] <= math.Max(q1[0], q2[0]) {
				return true
			}
		case planar.DistanceFromSegment(q1, q2, p) < 1e-9:
			return true
		}
	}
	return false
}

// segmentCrossings returns the points strictly between a and b where the
// segment crosses an edge of ring, ordered from a to b. Points are computed
// on the ring edge so they land exactly on axis-aligned edges.
func segmentCrossings(a, b orb.Point, ring orb.Ring) []orb.Point {
	const eps = 1e-12
	if a == b {
		return nil
	}

	type crossing struct {
		t float64
		p orb.Point
	}
	var found []crossing

	dx, dy := b[0]-a[0], b[1]-a[1]
	for i := 0; i < len(ring)-1; i++ {
		q1, q2 := ring[i], ring[i+1]
		ex, ey := q2[0]-q1[0], q2[1]-q1[1]
		denom := dx*ey - dy*ex
		if denom == 0 {
			// Parallel or collinear, no single crossing point.
			continue
		}
		wx, wy := q1[0]-a[0], q1[1]-a[1]
		t := (wx*ey - wy*ex) / denom
		u := (wx*dy - wy*dx) / denom
		if t <= eps || t >= 1-eps || u < 0 || u > 1 {
			continue
		}
		found = append(found, crossing{t: t, p: orb.Point{q1[0] + u*ex, q1[1] + u*ey}})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].t < found[j].t })

	points := make([]orb.Point, 0, len(found))
	for i, c := range found {
		// A crossing through a corner hits two edges at the same t.
		if i > 0 && math.Abs(c.t-found[i-1].t) <= eps {
			continue
		}
		points = append(points, c.p)
	}
	return points
}

// chainFragments reorders fragments by walking from start and repeatedly
// picking the fragment whose first point is closest to the end of the
// previous one. Quadratic, but a rectangle cut yields only a few fragments.
func chainFragments(start orb.Point, fragments []orb.LineString) []orb.LineString {
	remaining := append([]orb.LineString(nil), fragments...)
	ordered := make([]orb.LineString, 0, len(fragments))
	cursor := start

	for len(remaining) > 0 {
		best := 0
		bestDist := planar.Distance(cursor, remaining[0][0])
		for i := 1; i < len(remaining); i++ {
			if d := planar.Distance(cursor, remaining[i][0]); d < bestDist {
				best, bestDist = i, d
			}
		}
		next := remaining[best]
		ordered = append(ordered, next)
		cursor = next[len(next)-1]
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return ordered
}

// ChunksToFeatureCollection renders chunks as GeoJSON LineString features
// carrying an "isWithinBounds" property.
func ChunksToFeatureCollection(chunks []CoordinatesChunk) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, chunk := range chunks {
		ls := make(orb.LineString, 0, len(chunk.Coordinates))
		for _, c := range chunk.Coordinates {
			ls = append(ls, c.Point())
		}
		f := geojson.NewFeature(ls)
		f.Properties["isWithinBounds"] = chunk.IsWithinBounds
		fc.Append(f)
	}
	return fc
}
