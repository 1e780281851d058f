package tilegrid

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pspoerri/mapcrs/internal/coord"
)

func grid(t *testing.T, code int) *Grid {
	t.Helper()
	g, err := New(coord.Default().MustByCode(code), 0)
	require.NoError(t, err)
	return g
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, 0)
	assert.ErrorIs(t, err, coord.ErrMissingCoordinateSystem)

	cfg := &coord.RegistryConfig{
		SkipBuiltins: true,
		Systems:      []coord.SystemConfig{{Code: 1, Proj4: coord.WGS84Proj4}},
	}
	r, err := coord.NewRegistryFromConfig(cfg)
	require.NoError(t, err)
	_, err = New(r.MustByCode(1), 0)
	assert.ErrorIs(t, err, ErrNoBounds)
}

func TestGrid_LV95(t *testing.T) {
	g := grid(t, coord.LV95Code)

	assert.Equal(t, coord.Coordinate{2_420_000, 1_350_000}, g.Origin())
	assert.Equal(t, 256, g.TileSize())
	assert.Len(t, g.MatrixIDs(), 15)

	res, err := g.Resolution(7)
	require.NoError(t, err)
	assert.Equal(t, 5.0, res)

	cols, rows, err := g.MatrixSize(7)
	require.NoError(t, err)
	assert.Equal(t, 375, cols)
	assert.Equal(t, 250, rows)

	cols, rows, err = g.MatrixSize(0)
	require.NoError(t, err)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 2, rows)

	tile, err := g.TileAt(2_600_000, 1_200_000, 7)
	require.NoError(t, err)
	assert.Equal(t, Tile{Matrix: 7, Col: 140, Row: 117}, tile)
	assert.Equal(t, "7/140/117", tile.String())

	e, err := g.TileBounds(tile)
	require.NoError(t, err)
	assert.Equal(t, coord.Extent{2_599_200, 1_198_960, 2_600_480, 1_200_240}, e)

	b, err := g.TileBound(tile)
	require.NoError(t, err)
	assert.True(t, b.Contains(orb.Point{2_600_000, 1_200_000}))

	// Outside the bounds clamps to the edge tiles.
	tile, err = g.TileAt(0, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, Tile{Matrix: 7, Col: 0, Row: 249}, tile)

	_, err = g.Resolution(15)
	assert.ErrorIs(t, err, ErrUnknownMatrix)
	_, err = g.TileAt(0, 0, -1)
	assert.ErrorIs(t, err, ErrUnknownMatrix)
}

func TestGrid_TilesInExtent(t *testing.T) {
	g := grid(t, coord.LV95Code)

	tiles, err := g.TilesInExtent(coord.Extent{2_599_000, 1_199_000, 2_601_000, 1_201_000}, 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Tile{
		{7, 139, 116}, {7, 140, 116}, {7, 141, 116},
		{7, 139, 117}, {7, 140, 117}, {7, 141, 117},
	}, tiles)

	tiles, err = g.TilesInExtent(coord.Extent{0, 0, 10, 10}, 7)
	require.NoError(t, err)
	assert.Empty(t, tiles)

	_, err = g.TilesInExtent(coord.Extent{}, 99)
	assert.ErrorIs(t, err, ErrUnknownMatrix)
}

func TestGrid_WebMercatorMatchesSlippyTiles(t *testing.T) {
	g := grid(t, coord.WebMercatorCode)
	merc := g.CoordinateSystem()
	wgs := coord.Default().MustByCode(coord.WGS84Code)

	points := []orb.Point{
		{8.5417, 47.3769},   // Zurich
		{-0.1278, 51.5074},  // London
		{-74.0060, 40.7128}, // New York
		{139.6917, 35.6895}, // Tokyo
	}
	for _, p := range points {
		xy, err := coord.ReprojectAndRound(wgs, merc, coord.Coordinate{p[0], p[1]})
		require.NoError(t, err)
		for _, z := range []int{0, 5, 10, 14} {
			tile, err := g.TileAt(xy[0], xy[1], z)
			require.NoError(t, err)

			want := maptile.At(p, maptile.Zoom(z))
			got, ok := g.WebTile(tile)
			require.True(t, ok)
			assert.Equal(t, want, got, "%v at z%d", p, z)
		}
	}

	zurich, ok := g.WebTile(Tile{Matrix: 10, Col: 536, Row: 358})
	require.True(t, ok)
	assert.True(t, zurich.Bound().Contains(points[0]))

	_, ok = grid(t, coord.LV95Code).WebTile(Tile{Matrix: 10, Col: 1, Row: 1})
	assert.False(t, ok)
}

func TestGrid_WGS84(t *testing.T) {
	g := grid(t, coord.WGS84Code)

	res, err := g.Resolution(0)
	require.NoError(t, err)
	assert.InDelta(t, 360.0/256, res, 1e-12)

	cols, rows, err := g.MatrixSize(1)
	require.NoError(t, err)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 1, rows)

	tile, err := g.TileAt(8.5, 47.4, 1)
	require.NoError(t, err)
	assert.Equal(t, Tile{Matrix: 1, Col: 1, Row: 0}, tile)
}

func TestGrid_AutoMatrixRange(t *testing.T) {
	minM, maxM := grid(t, coord.LV95Code).AutoMatrixRange(2.2)
	assert.Equal(t, 2, minM)
	assert.Equal(t, 8, maxM)

	minM, maxM = grid(t, coord.WebMercatorCode).AutoMatrixRange(10)
	assert.Equal(t, 7, minM)
	assert.Equal(t, 13, maxM)

	minM, maxM = grid(t, coord.LV95Code).AutoMatrixRange(400)
	assert.Equal(t, 0, minM)
	assert.Equal(t, 1, maxM)
}
