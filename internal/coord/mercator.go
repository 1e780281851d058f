package coord

import "math"

const (
	// EarthCircumference is the equatorial circumference in meters at zoom 0.
	EarthCircumference = 40075016.685578488
	// DefaultTileSize is the standard web map tile dimension.
	DefaultTileSize = 256
	// EquatorialResolution is the zoom 0 resolution at the equator in meters per pixel.
	EquatorialResolution = EarthCircumference / DefaultTileSize

	mercatorLevels = 21
)

// MercatorPyramidParams returns the pyramid shared by WebMercator and WGS84:
// 21 power-of-two levels starting at EquatorialResolution.
func MercatorPyramidParams() Pyramid {
	return Pyramid{
		Kind:                 MercatorContinuous,
		EquatorialResolution: EquatorialResolution,
		Levels:               mercatorLevels,
	}
}

// MercatorResolution returns the ground resolution in meters/pixel at the
// given latitude (degrees) and zoom level.
func MercatorResolution(p Pyramid, zoom, latitude float64) float64 {
	return math.Abs(p.EquatorialResolution*math.Cos(latitude*math.Pi/180.0)) / math.Pow(2, zoom)
}

// MercatorZoom is the exact inverse of MercatorResolution.
func MercatorZoom(p Pyramid, resolution, latitude float64) float64 {
	return math.Log2(math.Abs(p.EquatorialResolution*math.Cos(latitude*math.Pi/180.0)) / resolution)
}

func mercatorSteps(p Pyramid, latitude float64) []ResolutionStep {
	levels := p.Levels
	if levels <= 0 {
		levels = mercatorLevels
	}
	steps := make([]ResolutionStep, levels)
	for z := range steps {
		steps[z] = ResolutionStep{
			Resolution: MercatorResolution(p, float64(z), latitude),
			Zoom:       float64(z),
		}
	}
	return steps
}

// NormalizeWGS84AxisOrder swaps an extent given as (lat, lon) back to
// (lon, lat), detected by minX > minY.
//
// This only holds for data around Switzerland, where longitudes (~6-10) are
// always smaller than latitudes (~45-48). It is not a general axis order
// detection.
func NormalizeWGS84AxisOrder(e Extent) Extent {
	if e[0] > e[1] {
		return Extent{e[1], e[0], e[3], e[2]}
	}
	return e
}
