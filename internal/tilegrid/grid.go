// Package tilegrid lays a tile matrix set over a coordinate system: one
// matrix per resolution step, all anchored at the system's tile origin.
package tilegrid

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/pspoerri/mapcrs/internal/coord"
)

var (
	// ErrNoBounds is returned for coordinate systems without bounds.
	ErrNoBounds = errors.New("tilegrid: coordinate system has no bounds")
	// ErrUnknownMatrix is returned for matrix ids outside the pyramid.
	ErrUnknownMatrix = errors.New("tilegrid: unknown matrix")
)

// Tile addresses one tile: matrix (zoom index), column and row counted from
// the top-left origin.
type Tile struct {
	Matrix int
	Col    int
	Row    int
}

func (t Tile) String() string { return fmt.Sprintf("%d/%d/%d", t.Matrix, t.Col, t.Row) }

// Grid is the tile matrix set of one coordinate system.
type Grid struct {
	cs          *coord.CoordinateSystem
	origin      coord.Coordinate
	bounds      *coord.Bounds
	resolutions []float64 // CRS units per pixel
	matrixIDs   []int
	tileSize    int
}

// New builds the grid of cs with DefaultTileSize pixel tiles. latitude is
// only used by mercator pyramids; the usual tiling evaluates it at 0.
func New(cs *coord.CoordinateSystem, latitude float64) (*Grid, error) {
	if cs == nil {
		return nil, coord.ErrMissingCoordinateSystem
	}
	if cs.Bounds() == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoBounds, cs.EPSG())
	}

	// Resolutions are in meters, geographic systems need degrees.
	scale := 1.0
	if cs.IsGeographic() {
		scale = 360.0 / coord.EarthCircumference
	}
	steps := cs.ResolutionSteps(latitude)
	res := make([]float64, len(steps))
	for i, s := range steps {
		res[i] = s.Resolution * scale
	}

	return &Grid{
		cs:          cs,
		origin:      cs.TileOrigin(),
		bounds:      cs.Bounds(),
		resolutions: res,
		matrixIDs:   cs.MatrixIDs(),
		tileSize:    coord.DefaultTileSize,
	}, nil
}

func (g *Grid) CoordinateSystem() *coord.CoordinateSystem { return g.cs }
func (g *Grid) Origin() coord.Coordinate                  { return g.origin }
func (g *Grid) TileSize() int                             { return g.tileSize }
func (g *Grid) MatrixIDs() []int                          { return append([]int(nil), g.matrixIDs...) }

// Resolution returns the size of a pixel of matrix in CRS units.
func (g *Grid) Resolution(matrix int) (float64, error) {
	if matrix < 0 || matrix >= len(g.resolutions) {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrUnknownMatrix, matrix, len(g.resolutions))
	}
	return g.resolutions[matrix], nil
}

// span is the width of one tile of matrix in CRS units.
func (g *Grid) span(matrix int) (float64, error) {
	res, err := g.Resolution(matrix)
	if err != nil {
		return 0, err
	}
	return res * float64(g.tileSize), nil
}

// sizeEpsilon absorbs the last-bit difference between the circumference
// constant and the web mercator bounds.
const sizeEpsilon = 1e-9

// MatrixSize returns the number of columns and rows needed to cover the bounds.
func (g *Grid) MatrixSize(matrix int) (cols, rows int, err error) {
	span, err := g.span(matrix)
	if err != nil {
		return 0, 0, err
	}
	cols = int(math.Ceil(g.bounds.Width()/span - sizeEpsilon))
	rows = int(math.Ceil(g.bounds.Height()/span - sizeEpsilon))
	return max(cols, 1), max(rows, 1), nil
}

// TileAt returns the tile of matrix containing (x, y). Points outside the
// bounds are clamped to the nearest edge tile.
func (g *Grid) TileAt(x, y float64, matrix int) (Tile, error) {
	span, err := g.span(matrix)
	if err != nil {
		return Tile{}, err
	}
	cols, rows, _ := g.MatrixSize(matrix)

	col := int(math.Floor((x - g.origin[0]) / span))
	row := int(math.Floor((g.origin[1] - y) / span))
	col = min(max(col, 0), cols-1)
	row = min(max(row, 0), rows-1)
	return Tile{Matrix: matrix, Col: col, Row: row}, nil
}

// TileBounds returns the extent covered by t.
func (g *Grid) TileBounds(t Tile) (coord.Extent, error) {
	span, err := g.span(t.Matrix)
	if err != nil {
		return coord.Extent{}, err
	}
	minX := g.origin[0] + float64(t.Col)*span
	maxY := g.origin[1] - float64(t.Row)*span
	return coord.Extent{minX, maxY - span, minX + span, maxY}, nil
}

// TileBound is TileBounds as an orb.Bound.
func (g *Grid) TileBound(t Tile) (orb.Bound, error) {
	e, err := g.TileBounds(t)
	if err != nil {
		return orb.Bound{}, err
	}
	return e.Bound(), nil
}

// TilesInExtent returns the tiles of matrix intersecting extent, ordered
// along a Hilbert curve. An extent outside the bounds has no tiles.
func (g *Grid) TilesInExtent(extent coord.Extent, matrix int) ([]Tile, error) {
	if _, err := g.span(matrix); err != nil {
		return nil, err
	}
	if !extent.Bound().Intersects(g.bounds.Bound()) {
		return nil, nil
	}
	topLeft, _ := g.TileAt(extent[0], extent[3], matrix)
	bottomRight, _ := g.TileAt(extent[2], extent[1], matrix)

	var tiles []Tile
	for row := topLeft.Row; row <= bottomRight.Row; row++ {
		for col := topLeft.Col; col <= bottomRight.Col; col++ {
			tiles = append(tiles, Tile{Matrix: matrix, Col: col, Row: row})
		}
	}
	SortTilesByHilbert(tiles)
	return tiles, nil
}

// AutoMatrixRange picks the matrices suited to source data with the given
// ground resolution (meters per pixel): the finest matrix still coarser than
// the source, and six levels above it.
func (g *Grid) AutoMatrixRange(pixelSizeMeters float64) (minMatrix, maxMatrix int) {
	scale := 1.0
	if g.cs.IsGeographic() {
		scale = 360.0 / coord.EarthCircumference
	}
	for i := len(g.resolutions) - 1; i >= 0; i-- {
		if g.resolutions[i] >= pixelSizeMeters*scale {
			maxMatrix = i
			break
		}
	}
	minMatrix = maxMatrix - 6
	if minMatrix < 0 {
		minMatrix = 0
	}
	return
}

// WebTile returns t as a slippy map tile. Only web mercator grids line up
// with the slippy map scheme; ok is false for every other system.
func (g *Grid) WebTile(t Tile) (mt maptile.Tile, ok bool) {
	if g.cs.EPSGNumber() != coord.WebMercatorCode || t.Matrix < 0 || t.Col < 0 || t.Row < 0 {
		return maptile.Tile{}, false
	}
	mt = maptile.New(uint32(t.Col), uint32(t.Row), maptile.Zoom(t.Matrix))
	return mt, mt.Valid()
}
