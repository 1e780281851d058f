package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlattenExtent(t *testing.T) {
	flat := Extent{2_600_000, 1_200_000, 2_700_000, 1_250_000}
	norm := NormalizedExtent{{2_600_000, 1_200_000}, {2_700_000, 1_250_000}}

	assert.Equal(t, norm, NormalizeExtent(flat))
	assert.Equal(t, norm, NormalizeExtent(norm))
	assert.Equal(t, flat, FlattenExtent(norm))
	assert.Equal(t, flat, FlattenExtent(flat))

	assert.Equal(t, flat, FlattenExtent(NormalizeExtent(flat)))
	assert.Equal(t, norm, NormalizeExtent(FlattenExtent(norm)))

	assert.Equal(t, Coordinate{2_650_000, 1_225_000}, ExtentCenter(flat))
	assert.Equal(t, Coordinate{2_650_000, 1_225_000}, ExtentCenter(norm))
}

func TestProjExtent(t *testing.T) {
	lv95 := Default().MustByCode(LV95Code)
	lv03 := Default().MustByCode(LV03Code)

	flat, err := ProjExtent(lv95, lv03, Extent{2_600_000, 1_200_000, 2_700_000, 1_250_000})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{600_000, 200_000, 700_000, 250_000}, flat[:], 0.01)

	norm, err := ProjExtent(lv95, lv03, NormalizedExtent{{2_600_000, 1_200_000}, {2_700_000, 1_250_000}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{600_000, 200_000}, norm[0][:], 0.01)
	assert.InDeltaSlice(t, []float64{700_000, 250_000}, norm[1][:], 0.01)

	world, err := ProjExtent(Default().MustByCode(WGS84Code), lv95, Extent{-180, -90, 180, 90})
	require.NoError(t, err)
	assert.LessOrEqual(t, world[0], world[2])
	assert.LessOrEqual(t, world[1], world[3])

	_, err = ProjExtent(nil, lv03, Extent{})
	assert.ErrorIs(t, err, ErrMissingCoordinateSystem)
}

func TestExtentIntersectionWithCurrentProjection(t *testing.T) {
	lv95 := Default().MustByCode(LV95Code)
	wgs := Default().MustByCode(WGS84Code)

	t.Run("overlap", func(t *testing.T) {
		got, ok, err := ExtentIntersectionWithCurrentProjection(Extent{2_800_000, 1_300_000, 3_000_000, 1_400_000}, lv95, lv95)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Extent{2_800_000, 1_300_000, 2_900_000, 1_350_000}, got)
	})

	t.Run("contained", func(t *testing.T) {
		in := NormalizedExtent{{2_600_000, 1_200_000}, {2_610_000, 1_210_000}}
		got, ok, err := ExtentIntersectionWithCurrentProjection(in, lv95, lv95)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, in, got)
	})

	t.Run("disjoint", func(t *testing.T) {
		_, ok, err := ExtentIntersectionWithCurrentProjection(Extent{0, 0, 10, 10}, lv95, lv95)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other projection", func(t *testing.T) {
		// A WGS84 extent reaching from Bern far to the north east.
		got, ok, err := ExtentIntersectionWithCurrentProjection(Extent{7.4386, 46.9511, 20, 60}, wgs, lv95)
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, 7.4386, got[0], 1e-5)
		assert.InDelta(t, 46.9511, got[1], 1e-5)
		assert.Less(t, got[2], 20.0)
		assert.Less(t, got[3], 60.0)
	})

	t.Run("world", func(t *testing.T) {
		got, ok, err := ExtentIntersectionWithCurrentProjection(Extent{-180, -90, 180, 90}, wgs, lv95)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Greater(t, got[0], 7.0)
		assert.Less(t, got[0], 8.0)
		assert.Greater(t, got[1], 45.0)
		assert.Less(t, got[1], 46.0)
		assert.Greater(t, got[2], 11.0)
		assert.Less(t, got[2], 12.0)
		assert.Greater(t, got[3], 48.0)
		assert.Less(t, got[3], 49.0)
	})

	t.Run("missing system", func(t *testing.T) {
		_, _, err := ExtentIntersectionWithCurrentProjection(Extent{}, nil, lv95)
		assert.ErrorIs(t, err, ErrMissingCoordinateSystem)
	})
}

func TestCreatePixelExtentAround(t *testing.T) {
	lv95 := Default().MustByCode(LV95Code)
	center := Coordinate{2_600_000, 1_200_000}

	e, err := CreatePixelExtentAround(PixelExtentOptions{
		Size:       10,
		Coordinate: center,
		Projection: lv95,
		Resolution: 5,
	})
	require.NoError(t, err)

	// 10 px at 5 m/px is a 50 m radius.
	assert.InDelta(t, center[0]-50, e[0], 1)
	assert.InDelta(t, center[1]-50, e[1], 1)
	assert.InDelta(t, center[0]+50, e[2], 1)
	assert.InDelta(t, center[1]+50, e[3], 1)

	rounded, err := CreatePixelExtentAround(PixelExtentOptions{
		Size:       10,
		Coordinate: center,
		Projection: lv95,
		Resolution: 5,
		Rounded:    true,
	})
	require.NoError(t, err)
	for _, v := range rounded {
		assert.Equal(t, float64(int64(v)), v)
	}

	_, err = CreatePixelExtentAround(PixelExtentOptions{Coordinate: center})
	assert.ErrorIs(t, err, ErrMissingCoordinateSystem)
	_, err = CreatePixelExtentAround(PixelExtentOptions{Coordinate: Coordinate{1}, Projection: lv95})
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}
