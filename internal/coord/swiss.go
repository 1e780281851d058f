package coord

import "math"

// StandardZoomLevel1To25000 is the standard zoom of the 1:25'000 national
// map. It is also the fallback for zoom levels that cannot be mapped.
const StandardZoomLevel1To25000 = 14.5

// swissSteps are the map scales of the Swiss national grids (LV95, LV03).
// The 1.5 m/px step has no national map of its own and is interpolated
// between 1:5'000 and 1:2'500, so every zoom index after 1:5'000 is one
// higher than in the native LV95 tile matrix (1.0 m/px is 11 here, not 10).
var swissSteps = []ResolutionStep{
	{Resolution: 650.0, Zoom: 0, Label: "1:2'500'000"},
	{Resolution: 500.0, Zoom: 1, Label: "1:2'000'000"},
	{Resolution: 250.0, Zoom: 2, Label: "1:1'000'000"},
	{Resolution: 100.0, Zoom: 3, Label: "1:500'000"},
	{Resolution: 50.0, Zoom: 4, Label: "1:200'000"},
	{Resolution: 20.0, Zoom: 5, Label: "1:100'000"},
	{Resolution: 10.0, Zoom: 6, Label: "1:50'000"},
	{Resolution: 5.0, Zoom: 7, Label: "1:25'000"},
	{Resolution: 2.5, Zoom: 8, Label: "1:10'000"},
	{Resolution: 2.0, Zoom: 9, Label: "1:5'000"},
	{Resolution: 1.5, Zoom: 10},
	{Resolution: 1.0, Zoom: 11, Label: "1:2'500"},
	{Resolution: 0.5, Zoom: 12, Label: "1:1'000"},
	{Resolution: 0.25, Zoom: 13, Label: "1:500"},
	{Resolution: 0.1, Zoom: 14, Label: "1:250"},
}

// swissStandardZooms[i] is the web mercator zoom showing Switzerland at
// roughly the resolution of swissSteps[i].
var swissStandardZooms = []float64{
	7.35,  // 1:2'500'000
	7.75,  // 1:2'000'000
	8.75,  // 1:1'000'000
	10,    // 1:500'000
	11,    // 1:200'000
	12.5,  // 1:100'000
	13.5,  // 1:50'000
	StandardZoomLevel1To25000,
	15.5,  // 1:10'000
	15.75, // 1:5'000
	16.25,
	16.75, // 1:2'500
	17.75, // 1:1'000
	18.75, // 1:500
	20,    // 1:250
}

// SwissGridParams returns the pyramid shared by LV95 and LV03.
func SwissGridParams() Pyramid {
	return Pyramid{
		Kind:          SwissGrid,
		Steps:         append([]ResolutionStep(nil), swissSteps...),
		StandardZooms: append([]float64(nil), swissStandardZooms...),
	}
}

// swissResolution rounds zoom to the nearest table index. Out of range
// zooms yield 0.
func swissResolution(p Pyramid, zoom float64) float64 {
	if math.IsNaN(zoom) {
		return 0
	}
	i := int(math.Round(zoom))
	if i < 0 || i >= len(p.Steps) {
		return 0
	}
	return p.Steps[i].Resolution
}

// swissZoom returns the zoom of the first step whose resolution is at most
// resolution, or the last zoom when resolution is finer than the table.
func swissZoom(p Pyramid, resolution float64) float64 {
	for _, s := range p.Steps {
		if s.Resolution <= resolution {
			return s.Zoom
		}
	}
	return p.Steps[len(p.Steps)-1].Zoom
}

// swissNearestZoom snaps zoom to the closest zoom of the table. On a tie the
// earlier (coarser) step wins.
func swissNearestZoom(p Pyramid, zoom float64) float64 {
	best := p.Steps[0].Zoom
	bestDist := math.Abs(zoom - best)
	for _, s := range p.Steps[1:] {
		if d := math.Abs(zoom - s.Zoom); d < bestDist {
			best, bestDist = s.Zoom, d
		}
	}
	return best
}

// swiss1To25000Index is the table index of the 1:25'000 map.
func swiss1To25000Index(p Pyramid) int {
	for i, z := range p.StandardZooms {
		if z == StandardZoomLevel1To25000 {
			return i
		}
	}
	return len(p.StandardZooms) / 2
}

func swissStandardToCustom(p Pyramid, zoom float64) float64 {
	zooms := p.StandardZooms
	switch {
	case math.IsNaN(zoom):
		return float64(swiss1To25000Index(p))
	case zoom == StandardZoomLevel1To25000:
		return float64(swiss1To25000Index(p))
	case zoom <= zooms[0]:
		return 0
	case zoom >= zooms[len(zooms)-1]:
		return float64(len(zooms) - 1)
	}

	best, bestDist := 0, math.Abs(zoom-zooms[0])
	for i := 1; i < len(zooms); i++ {
		if d := math.Abs(zoom - zooms[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return float64(best)
}

func swissCustomToStandard(p Pyramid, zoom float64) float64 {
	zooms := p.StandardZooms
	if math.IsNaN(zoom) {
		return StandardZoomLevel1To25000
	}
	i := int(math.Round(zoom))
	if i < 0 {
		i = 0
	}
	if i >= len(zooms) {
		i = len(zooms) - 1
	}
	return zooms[i]
}
