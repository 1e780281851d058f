package coord

import (
	"fmt"
	"strings"

	"github.com/pspoerri/mapcrs/internal/proj"
)

// PyramidKind selects how a coordinate system converts zoom levels to
// ground resolution.
type PyramidKind int

const (
	// MercatorContinuous is the power-of-two, latitude-dependent pyramid.
	MercatorContinuous PyramidKind = iota
	// SwissGrid is a fixed table of hand-picked map scales.
	SwissGrid
)

func (k PyramidKind) String() string {
	switch k {
	case MercatorContinuous:
		return "mercator"
	case SwissGrid:
		return "swiss"
	default:
		return fmt.Sprintf("PyramidKind(%d)", int(k))
	}
}

// ParsePyramidKind is the inverse of PyramidKind.String.
func ParsePyramidKind(s string) (PyramidKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mercator", "":
		return MercatorContinuous, nil
	case "swiss":
		return SwissGrid, nil
	default:
		return 0, fmt.Errorf("%w: unknown pyramid %q", ErrInvalidConfig, s)
	}
}

// Pyramid carries the parameters of one pyramid family. Only the fields of
// the selected Kind are used.
type Pyramid struct {
	Kind PyramidKind

	// EquatorialResolution is the zoom 0 resolution at the equator in meters
	// per pixel (MercatorContinuous).
	EquatorialResolution float64
	// Levels is the number of zoom levels generated (MercatorContinuous).
	Levels int

	// Steps is the descending resolution table (SwissGrid).
	Steps []ResolutionStep
	// StandardZooms pairs each step with a standard web mercator zoom (SwissGrid).
	StandardZooms []float64
}

// ResolutionStep is one entry of a zoom pyramid.
type ResolutionStep struct {
	Resolution float64 `json:"resolution"`
	Zoom       float64 `json:"zoom"`
	Label      string  `json:"label,omitempty"`
}

// CoordinateSystem is a named spatial reference with its projection
// definition, validity bounds and zoom pyramid. Values are created by a
// Registry and never change afterwards; compare them with Equal.
type CoordinateSystem struct {
	epsgNumber    int
	label         string
	technicalName string
	proj4         string
	bounds        *Bounds
	pyramid       Pyramid
	decimals      int
	engine        *proj.Engine
}

func (cs *CoordinateSystem) EPSGNumber() int { return cs.epsgNumber }

// EPSG returns the "EPSG:<n>" identifier.
func (cs *CoordinateSystem) EPSG() string { return fmt.Sprintf("EPSG:%d", cs.epsgNumber) }

func (cs *CoordinateSystem) Label() string         { return cs.label }
func (cs *CoordinateSystem) TechnicalName() string { return cs.technicalName }

// Proj4 returns the definition handed to the projection engine.
func (cs *CoordinateSystem) Proj4() string { return cs.proj4 }

// Bounds returns the validity bounds, or nil when the system is unbounded.
func (cs *CoordinateSystem) Bounds() *Bounds { return cs.bounds }

func (cs *CoordinateSystem) Pyramid() Pyramid { return cs.pyramid }

// UsesMercatorPyramid reports whether the system belongs to the continuous
// mercator family.
func (cs *CoordinateSystem) UsesMercatorPyramid() bool {
	return cs.pyramid.Kind == MercatorContinuous
}

// IsGeographic reports whether the system's units are degrees.
func (cs *CoordinateSystem) IsGeographic() bool {
	return strings.Contains(cs.proj4, "+proj=longlat")
}

// Equal compares coordinate systems by EPSG code.
func (cs *CoordinateSystem) Equal(other *CoordinateSystem) bool {
	if cs == nil || other == nil {
		return cs == other
	}
	return cs.epsgNumber == other.epsgNumber
}

func (cs *CoordinateSystem) String() string { return cs.EPSG() }

// RoundCoordinateValue rounds v to the system's coordinate precision.
func (cs *CoordinateSystem) RoundCoordinateValue(v float64) float64 {
	return round(v, cs.decimals)
}

// IsInBounds reports whether (x, y) lies in the system's bounds. Unbounded
// systems contain nothing.
func (cs *CoordinateSystem) IsInBounds(x, y float64) bool {
	if cs.bounds == nil {
		return false
	}
	return cs.bounds.IsInBounds(x, y)
}

// BoundsAs expresses the bounds in target's coordinates. Unbounded systems
// return nil bounds and no error.
func (cs *CoordinateSystem) BoundsAs(target *CoordinateSystem) (*Bounds, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: bounds target", ErrMissingCoordinateSystem)
	}
	if cs.bounds == nil {
		return nil, nil
	}
	if cs.Equal(target) {
		return cs.bounds, nil
	}

	bl, err := cs.project(target, cs.bounds.BottomLeft())
	if err != nil {
		return nil, err
	}
	tr, err := cs.project(target, cs.bounds.TopRight())
	if err != nil {
		return nil, err
	}
	var center Coordinate
	if c, ok := cs.bounds.CustomCenter(); ok {
		if center, err = cs.project(target, c); err != nil {
			return nil, err
		}
	}
	return NewBoundsWithCenter(bl[0], tr[0], bl[1], tr[1], center)
}

// TileOrigin is the top-left corner of the bounds, the anchor of the tile
// grid row/column math. Unbounded systems use [0, 0].
func (cs *CoordinateSystem) TileOrigin() Coordinate {
	if cs.bounds == nil {
		return Coordinate{0, 0}
	}
	return cs.bounds.TopLeft()
}

// ResolutionSteps returns the zoom pyramid, largest resolution first.
// latitude (degrees) only matters for the mercator family.
func (cs *CoordinateSystem) ResolutionSteps(latitude float64) []ResolutionStep {
	switch cs.pyramid.Kind {
	case MercatorContinuous:
		return mercatorSteps(cs.pyramid, latitude)
	case SwissGrid:
		return append([]ResolutionStep(nil), cs.pyramid.Steps...)
	default:
		panic(fmt.Sprintf("coord: unhandled pyramid %v", cs.pyramid.Kind))
	}
}

// MatrixIDs returns one sequential identifier per resolution step.
func (cs *CoordinateSystem) MatrixIDs() []int {
	steps := cs.ResolutionSteps(0)
	ids := make([]int, len(steps))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// RoundZoomLevel rounds zoom to 3 decimals. With normalize set, Swiss grid
// systems instead snap to the nearest zoom of their table.
func (cs *CoordinateSystem) RoundZoomLevel(zoom float64, normalize bool) float64 {
	switch cs.pyramid.Kind {
	case MercatorContinuous:
		return round(zoom, 3)
	case SwissGrid:
		if normalize {
			return swissNearestZoom(cs.pyramid, zoom)
		}
		return round(zoom, 3)
	default:
		panic(fmt.Sprintf("coord: unhandled pyramid %v", cs.pyramid.Kind))
	}
}

// ResolutionForZoomAndCenter returns the ground resolution (meters per pixel)
// at zoom. The mercator family evaluates it at center's latitude and rounds to
// 2 decimals; the Swiss grid ignores center and returns 0 outside its table.
func (cs *CoordinateSystem) ResolutionForZoomAndCenter(zoom float64, center Coordinate) (float64, error) {
	switch cs.pyramid.Kind {
	case MercatorContinuous:
		lat, err := cs.latitudeOf(center)
		if err != nil {
			return 0, err
		}
		return round(MercatorResolution(cs.pyramid, zoom, lat), 2), nil
	case SwissGrid:
		return swissResolution(cs.pyramid, zoom), nil
	default:
		panic(fmt.Sprintf("coord: unhandled pyramid %v", cs.pyramid.Kind))
	}
}

// ZoomForResolutionAndCenter is the inverse of ResolutionForZoomAndCenter.
// The result is not rounded, pass it through RoundZoomLevel when needed.
func (cs *CoordinateSystem) ZoomForResolutionAndCenter(resolution float64, center Coordinate) (float64, error) {
	switch cs.pyramid.Kind {
	case MercatorContinuous:
		lat, err := cs.latitudeOf(center)
		if err != nil {
			return 0, err
		}
		return MercatorZoom(cs.pyramid, resolution, lat), nil
	case SwissGrid:
		return swissZoom(cs.pyramid, resolution), nil
	default:
		panic(fmt.Sprintf("coord: unhandled pyramid %v", cs.pyramid.Kind))
	}
}

// TransformStandardZoomLevelToCustom maps a standard (web mercator) zoom to
// this system's own zoom. It is the identity for the mercator family.
func (cs *CoordinateSystem) TransformStandardZoomLevelToCustom(zoom float64) float64 {
	switch cs.pyramid.Kind {
	case MercatorContinuous:
		return zoom
	case SwissGrid:
		return swissStandardToCustom(cs.pyramid, zoom)
	default:
		panic(fmt.Sprintf("coord: unhandled pyramid %v", cs.pyramid.Kind))
	}
}

// TransformCustomZoomLevelToStandard is the inverse of
// TransformStandardZoomLevelToCustom.
func (cs *CoordinateSystem) TransformCustomZoomLevelToStandard(zoom float64) float64 {
	switch cs.pyramid.Kind {
	case MercatorContinuous:
		return zoom
	case SwissGrid:
		return swissCustomToStandard(cs.pyramid, zoom)
	default:
		panic(fmt.Sprintf("coord: unhandled pyramid %v", cs.pyramid.Kind))
	}
}

// project reprojects c into target without rounding.
func (cs *CoordinateSystem) project(target *CoordinateSystem, c Coordinate) (Coordinate, error) {
	if cs.engine == nil {
		return nil, fmt.Errorf("%w: %s is not registered with a projection engine", ErrUnknownEPSG, cs.EPSG())
	}
	out, err := cs.engine.Project(cs.EPSG(), target.EPSG(), c)
	if err != nil {
		return nil, fmt.Errorf("reprojecting %v from %s to %s: %w", []float64(c), cs.EPSG(), target.EPSG(), err)
	}
	return out, nil
}

// toWGS84 returns c as WGS84 longitude/latitude.
func (cs *CoordinateSystem) toWGS84(c Coordinate) (Coordinate, error) {
	if cs.engine == nil {
		return nil, fmt.Errorf("%w: %s is not registered with a projection engine", ErrUnknownEPSG, cs.EPSG())
	}
	out, err := cs.engine.Project(cs.EPSG(), wgs84EPSG, c)
	if err != nil {
		return nil, fmt.Errorf("reprojecting %v from %s to WGS84: %w", []float64(c), cs.EPSG(), err)
	}
	return out, nil
}

// fromWGS84 is the inverse of toWGS84.
func (cs *CoordinateSystem) fromWGS84(c Coordinate) (Coordinate, error) {
	if cs.engine == nil {
		return nil, fmt.Errorf("%w: %s is not registered with a projection engine", ErrUnknownEPSG, cs.EPSG())
	}
	out, err := cs.engine.Project(wgs84EPSG, cs.EPSG(), c)
	if err != nil {
		return nil, fmt.Errorf("reprojecting %v from WGS84 to %s: %w", []float64(c), cs.EPSG(), err)
	}
	return out, nil
}

// latitudeOf returns the geographic latitude (degrees) of center.
func (cs *CoordinateSystem) latitudeOf(center Coordinate) (float64, error) {
	if len(center) < 2 {
		return 0, fmt.Errorf("%w: center %v", ErrInvalidCoordinates, []float64(center))
	}
	wgs, err := cs.toWGS84(center)
	if err != nil {
		return 0, err
	}
	return wgs[1], nil
}
