package coord

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pspoerri/mapcrs/internal/proj"
)

// EPSG codes of the built-in coordinate systems.
const (
	LV95Code        = 2056
	LV03Code        = 21781
	WebMercatorCode = 3857
	WGS84Code       = 4326
)

const wgs84EPSG = "EPSG:4326"

// Proj4 definitions of the built-in coordinate systems.
const (
	LV95Proj4        = "+proj=somerc +lat_0=46.9524055555556 +lon_0=7.43958333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +towgs84=674.374,15.056,405.346,0,0,0,0 +units=m +no_defs"
	LV03Proj4        = "+proj=somerc +lat_0=46.9524055555556 +lon_0=7.43958333333333 +k_0=1 +x_0=600000 +y_0=200000 +ellps=bessel +towgs84=674.374,15.056,405.346,0,0,0,0 +units=m +no_defs"
	WebMercatorProj4 = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +wktext +no_defs"
	WGS84Proj4       = "+proj=longlat +datum=WGS84 +no_defs"
)

// Definition describes a coordinate system before it is registered.
type Definition struct {
	EPSGNumber    int
	Label         string
	TechnicalName string
	Proj4         string
	Bounds        *Bounds
	Pyramid       Pyramid
	// Decimals is the number of decimals coordinates are rounded to.
	Decimals int
}

// BuiltinDefinitions returns LV95, LV03, WebMercator and WGS84.
func BuiltinDefinitions() []Definition {
	return []Definition{
		{
			EPSGNumber:    LV95Code,
			Label:         "CH1903+ / LV95",
			TechnicalName: "LV95",
			Proj4:         LV95Proj4,
			Bounds:        mustBounds(2_420_000, 2_900_000, 1_030_000, 1_350_000, nil),
			Pyramid:       SwissGridParams(),
			Decimals:      2,
		},
		{
			EPSGNumber:    LV03Code,
			Label:         "CH1903 / LV03",
			TechnicalName: "LV03",
			Proj4:         LV03Proj4,
			Bounds:        mustBounds(420_000, 900_000, 30_000, 350_000, nil),
			Pyramid:       SwissGridParams(),
			Decimals:      2,
		},
		{
			EPSGNumber:    WebMercatorCode,
			Label:         "WebMercator",
			TechnicalName: "WEBMERCATOR",
			Proj4:         WebMercatorProj4,
			Bounds:        mustBounds(-proj.OriginShift, proj.OriginShift, -proj.OriginShift, proj.OriginShift, nil),
			Pyramid:       MercatorPyramidParams(),
			Decimals:      2,
		},
		{
			EPSGNumber:    WGS84Code,
			Label:         "WGS 84 (lat/lon)",
			TechnicalName: "WGS84",
			Proj4:         WGS84Proj4,
			Bounds:        mustBounds(-180, 180, -90, 90, nil),
			Pyramid:       MercatorPyramidParams(),
			Decimals:      6,
		},
	}
}

// Registry indexes coordinate systems by EPSG code. It is built once and
// only read afterwards, so it can be shared between goroutines.
type Registry struct {
	engine  *proj.Engine
	systems map[int]*CoordinateSystem
}

// NewRegistry registers every definition with engine and builds the
// coordinate systems. A nil engine gets a fresh one. WGS84 is always defined
// in the engine since mercator systems compute latitudes through it.
// Later definitions replace earlier ones with the same code.
func NewRegistry(engine *proj.Engine, defs ...Definition) (*Registry, error) {
	if engine == nil {
		engine = proj.NewEngine()
	}
	if !engine.Defined(wgs84EPSG) {
		if err := engine.Define(wgs84EPSG, WGS84Proj4); err != nil {
			return nil, err
		}
	}

	r := &Registry{engine: engine, systems: make(map[int]*CoordinateSystem, len(defs))}
	for _, d := range defs {
		cs, err := r.build(d)
		if err != nil {
			return nil, err
		}
		r.systems[d.EPSGNumber] = cs
	}
	return r, nil
}

func (r *Registry) build(d Definition) (*CoordinateSystem, error) {
	if d.EPSGNumber <= 0 {
		return nil, fmt.Errorf("%w: EPSG number %d", ErrInvalidConfig, d.EPSGNumber)
	}
	if d.Pyramid.Kind == SwissGrid {
		if len(d.Pyramid.Steps) == 0 || len(d.Pyramid.Steps) != len(d.Pyramid.StandardZooms) {
			return nil, fmt.Errorf("%w: EPSG:%d swiss pyramid needs one standard zoom per step", ErrInvalidConfig, d.EPSGNumber)
		}
	}
	if d.Pyramid.Kind == MercatorContinuous && d.Pyramid.EquatorialResolution <= 0 {
		return nil, fmt.Errorf("%w: EPSG:%d mercator pyramid needs an equatorial resolution", ErrInvalidConfig, d.EPSGNumber)
	}
	cs := &CoordinateSystem{
		epsgNumber:    d.EPSGNumber,
		label:         d.Label,
		technicalName: d.TechnicalName,
		proj4:         d.Proj4,
		bounds:        d.Bounds,
		pyramid:       d.Pyramid,
		decimals:      d.Decimals,
		engine:        r.engine,
	}
	if err := r.engine.Define(cs.EPSG(), d.Proj4); err != nil {
		return nil, err
	}
	return cs, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of the built-in systems, built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(proj.NewEngine(), BuiltinDefinitions()...)
		if err != nil {
			panic(fmt.Sprintf("coord: building default registry: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Engine returns the projection engine the systems were registered with.
func (r *Registry) Engine() *proj.Engine { return r.engine }

// ByCode returns the system registered under code.
func (r *Registry) ByCode(code int) (*CoordinateSystem, bool) {
	cs, ok := r.systems[code]
	return cs, ok
}

// ByEPSG looks a system up by "EPSG:<n>" (see ParseEPSG).
func (r *Registry) ByEPSG(epsg string) (*CoordinateSystem, error) {
	code, err := ParseEPSG(epsg)
	if err != nil {
		return nil, err
	}
	cs, ok := r.systems[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not registered", ErrUnknownEPSG, epsg)
	}
	return cs, nil
}

// MustByCode is ByCode for codes known to be registered.
func (r *Registry) MustByCode(code int) *CoordinateSystem {
	cs, ok := r.systems[code]
	if !ok {
		panic(fmt.Sprintf("coord: EPSG:%d is not registered", code))
	}
	return cs
}

// All returns the registered systems ordered by EPSG code.
func (r *Registry) All() []*CoordinateSystem {
	out := make([]*CoordinateSystem, 0, len(r.systems))
	for _, cs := range r.systems {
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].epsgNumber < out[j].epsgNumber })
	return out
}

// ParseEPSG accepts "EPSG:2056", "epsg:2056" or a bare "2056".
func ParseEPSG(s string) (int, error) {
	v := strings.TrimSpace(s)
	if len(v) >= 5 && strings.EqualFold(v[:5], "EPSG:") {
		v = v[5:]
	}
	code, err := strconv.Atoi(v)
	if err != nil || code <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEPSG, s)
	}
	return code, nil
}
