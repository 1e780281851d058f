// Package proj is a small projection engine. Coordinate reference systems are
// registered once with a proj4 definition string and afterwards transformed
// into each other, always pivoting through WGS84 longitude/latitude.
package proj

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	// ErrUnknownCode is returned when a code was never registered with Define.
	ErrUnknownCode = errors.New("proj: unknown coordinate system code")
	// ErrUnsupportedDefinition is returned for proj4 definitions the engine cannot build.
	ErrUnsupportedDefinition = errors.New("proj: unsupported definition")
	// ErrInvalidCoordinate is returned when a coordinate has fewer than two ordinates.
	ErrInvalidCoordinate = errors.New("proj: invalid coordinate")
)

// Projection converts between a source CRS and WGS84.
type Projection interface {
	// ToWGS84 converts source CRS coordinates to WGS84 longitude/latitude (degrees).
	ToWGS84(x, y float64) (lon, lat float64)

	// FromWGS84 converts WGS84 longitude/latitude (degrees) to source CRS coordinates.
	FromWGS84(lon, lat float64) (x, y float64)
}

// LonLat is a no-op projection for data already in geographic WGS84.
type LonLat struct{}

func (LonLat) ToWGS84(x, y float64) (lon, lat float64)   { return x, y }
func (LonLat) FromWGS84(lon, lat float64) (x, y float64) { return lon, lat }

// Engine holds the registered projections, keyed by code (e.g. "EPSG:2056").
// It is safe for concurrent use.
type Engine struct {
	mu   sync.RWMutex
	defs map[string]entry
}

type entry struct {
	definition string
	projection Projection
}

// NewEngine returns an engine without any registered definitions.
func NewEngine() *Engine {
	return &Engine{defs: make(map[string]entry)}
}

// Define parses a proj4 definition and registers it under code.
// Redefining a code replaces the previous projection.
func (e *Engine) Define(code, definition string) error {
	p, err := Parse(definition)
	if err != nil {
		return fmt.Errorf("defining %s: %w", code, err)
	}
	e.Register(code, definition, p)
	return nil
}

// Register adds an already built projection under code.
func (e *Engine) Register(code, definition string, p Projection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defs[code] = entry{definition: definition, projection: p}
}

// Defined reports whether code has been registered.
func (e *Engine) Defined(code string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.defs[code]
	return ok
}

// Definition returns the proj4 string code was registered with.
func (e *Engine) Definition(code string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.defs[code]
	return d.definition, ok
}

func (e *Engine) lookup(code string) (Projection, error) {
	e.mu.RLock()
	d, ok := e.defs[code]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	return d.projection, nil
}

// Project transforms a single coordinate from src to dst. Ordinates past the
// second (height) are passed through untouched. The input is never modified.
func (e *Engine) Project(src, dst string, coord []float64) ([]float64, error) {
	if len(coord) < 2 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoordinate, coord)
	}
	from, err := e.lookup(src)
	if err != nil {
		return nil, err
	}
	to, err := e.lookup(dst)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(coord))
	copy(out, coord)
	if src == dst {
		return out, nil
	}
	lon, lat := from.ToWGS84(coord[0], coord[1])
	out[0], out[1] = to.FromWGS84(lon, lat)
	if math.IsNaN(out[0]) || math.IsNaN(out[1]) {
		return nil, fmt.Errorf("%w: %v cannot be projected from %s to %s", ErrInvalidCoordinate, coord, src, dst)
	}
	return out, nil
}

// ProjectAll transforms every coordinate of coords, preserving the nesting.
func (e *Engine) ProjectAll(src, dst string, coords [][]float64) ([][]float64, error) {
	out := make([][]float64, len(coords))
	for i, c := range coords {
		p, err := e.Project(src, dst, c)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
