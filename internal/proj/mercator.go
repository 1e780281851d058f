package proj

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	// sphereRadius is the radius of the sphere web mercator is computed on.
	sphereRadius = orb.EarthRadius
	// OriginShift is half the earth's equatorial circumference, the largest
	// absolute web mercator ordinate.
	OriginShift = math.Pi * sphereRadius
)

// WebMercator implements Projection for EPSG:3857 with orb's spherical
// mercator transforms. Latitudes beyond the square are clamped to its edge.
type WebMercator struct {
	fwd orb.Projection
	inv orb.Projection
}

// NewWebMercator returns the spherical (pseudo) mercator projection.
func NewWebMercator() *WebMercator {
	return &WebMercator{
		fwd: project.WGS84.ToMercator,
		inv: project.Mercator.ToWGS84,
	}
}

func (w *WebMercator) ToWGS84(x, y float64) (lon, lat float64) {
	p := w.inv(orb.Point{x, y})
	return p[0], p[1]
}

func (w *WebMercator) FromWGS84(lon, lat float64) (x, y float64) {
	p := w.fwd(orb.Point{lon, lat})
	return p[0], p[1]
}
