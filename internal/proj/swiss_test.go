package proj

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wroge/wgs84"
)

const (
	lv95Def = "+proj=somerc +lat_0=46.9524055555556 +lon_0=7.43958333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +towgs84=674.374,15.056,405.346,0,0,0,0 +units=m +no_defs"
	lv03Def = "+proj=somerc +lat_0=46.9524055555556 +lon_0=7.43958333333333 +k_0=1 +x_0=600000 +y_0=200000 +ellps=bessel +towgs84=674.374,15.056,405.346,0,0,0,0 +units=m +no_defs"
)

// Reference points:
//
// Bern (old observatory): E 2_600_000  N 1_200_000  →  lon 7.438632  lat 46.951083
// Zurich:                 E 2_683_474  N 1_247_862  →  lon 8.5439    lat 47.3763
// Geneva:                 E 2_500_560  N 1_118_017  →  lon 6.1502    lat 46.2062
var swissRefPoints = []struct {
	name              string
	easting, northing float64
	lon, lat          float64
	tolDeg            float64
}{
	{
		name:    "Bern (reference origin)",
		easting: 2_600_000, northing: 1_200_000,
		lon: 7.438632, lat: 46.951083,
		tolDeg: 0.0001, // ~10m, 3-parameter datum shift
	},
	{
		name:    "Zurich",
		easting: 2_683_474, northing: 1_247_862,
		lon: 8.5439, lat: 47.3763,
		tolDeg: 0.001,
	},
	{
		name:    "Geneva",
		easting: 2_500_560, northing: 1_118_017,
		lon: 6.1502, lat: 46.2062,
		tolDeg: 0.001,
	},
}

func lv95(t *testing.T) Projection {
	t.Helper()
	p, err := Parse(lv95Def)
	require.NoError(t, err)
	return p
}

func TestSwissLV95_ToWGS84_ReferencePoints(t *testing.T) {
	s := lv95(t)

	for _, ref := range swissRefPoints {
		t.Run(ref.name, func(t *testing.T) {
			gotLon, gotLat := s.ToWGS84(ref.easting, ref.northing)
			assert.InDelta(t, ref.lon, gotLon, ref.tolDeg, "ToWGS84 lon")
			assert.InDelta(t, ref.lat, gotLat, ref.tolDeg, "ToWGS84 lat")
		})
	}
}

func TestSwissLV95_FromWGS84_ReferencePoints(t *testing.T) {
	s := lv95(t)

	for _, ref := range swissRefPoints {
		t.Run(ref.name, func(t *testing.T) {
			gotE, gotN := s.FromWGS84(ref.lon, ref.lat)
			// The reference longitudes/latitudes above are rounded, 0.001° is ~100m.
			tolM := ref.tolDeg * 111_000
			assert.InDelta(t, ref.easting, gotE, tolM, "FromWGS84 easting")
			assert.InDelta(t, ref.northing, gotN, tolM, "FromWGS84 northing")
		})
	}
}

func TestSwissLV95_RoundTrip(t *testing.T) {
	s := lv95(t)

	corners := [][2]float64{
		{2_420_000, 1_030_000},
		{2_900_000, 1_350_000},
		{2_600_000, 1_200_000},
		{2_683_474, 1_247_862},
		{2_500_560, 1_118_017},
	}
	for _, c := range corners {
		lon, lat := s.ToWGS84(c[0], c[1])
		gotE, gotN := s.FromWGS84(lon, lat)
		assert.InDelta(t, c[0], gotE, 1e-4, "roundtrip easting of %v", c)
		assert.InDelta(t, c[1], gotN, 1e-4, "roundtrip northing of %v", c)
	}
}

func TestSwissLV95_EdgeOfSwitzerland(t *testing.T) {
	s := lv95(t)

	edges := [][2]float64{
		{5.96, 45.82},  // SW corner (near Geneva)
		{10.49, 47.81}, // NE corner (near Bodensee)
		{6.13, 47.50},  // NW (Jura)
		{10.47, 46.17}, // SE (Engadin)
	}

	for _, pt := range edges {
		lon, lat := pt[0], pt[1]
		e, n := s.FromWGS84(lon, lat)
		gotLon, gotLat := s.ToWGS84(e, n)

		assert.InDelta(t, lon, gotLon, 1e-9)
		assert.InDelta(t, lat, gotLat, 1e-9)
	}
}

func TestSwissLV03_OffsetFromLV95(t *testing.T) {
	p95 := lv95(t)
	p03, err := Parse(lv03Def)
	require.NoError(t, err)

	// LV03 and LV95 share the projection, only the false origin differs.
	e95, n95 := p95.FromWGS84(8.5417, 47.3769)
	e03, n03 := p03.FromWGS84(8.5417, 47.3769)
	assert.InDelta(t, 2_000_000, e95-e03, 1e-6)
	assert.InDelta(t, 1_000_000, n95-n03, 1e-6)
}

func TestEllipsoid_GeocentricRoundTrip(t *testing.T) {
	for name, ell := range ellipsoids {
		t.Run(name, func(t *testing.T) {
			phi, lambda, h := 46.95*deg, 7.44*deg, 550.0
			x, y, z := ell.geocentric(phi, lambda, h)
			gotPhi, gotLambda, gotH := ell.geodetic(x, y, z)
			assert.InDelta(t, phi, gotPhi, 1e-12)
			assert.InDelta(t, lambda, gotLambda, 1e-12)
			assert.InDelta(t, h, gotH, 1e-6)
		})
	}
}

func TestDatumShift_IsExactInverse(t *testing.T) {
	d := datumShift{local: ellipsoids["bessel"], dx: [3]float64{674.374, 15.056, 405.346}}
	phi, lambda := 46.5*deg, 8.1*deg
	wp, wl := d.toWGS84(phi, lambda)
	assert.False(t, math.Abs(wp-phi) < 1e-9, "shift should move the point")
	gotPhi, gotLambda := d.fromWGS84(wp, wl)
	assert.InDelta(t, phi, gotPhi, 1e-12)
	assert.InDelta(t, lambda, gotLambda, 1e-12)
}

func TestDatumShift_MatchesHelmert(t *testing.T) {
	d := datumShift{local: ellipsoids["bessel"], dx: [3]float64{674.374, 15.056, 405.346}}
	ch1903 := wgs84.Helmert(6377397.155, 299.1528128, 674.374, 15.056, 405.346, 0, 0, 0, 0)
	toWGS84 := ch1903.LonLat().To(wgs84.LonLat())

	for _, pt := range [][2]float64{{7.4386, 46.9511}, {6.1432, 46.2044}, {9.8355, 46.4908}} {
		phi, lambda := d.toWGS84(pt[1]*deg, pt[0]*deg)
		wantLon, wantLat, _ := toWGS84(pt[0], pt[1], 0)
		assert.InDelta(t, wantLon, lambda/deg, 1e-8, "%v lon", pt)
		assert.InDelta(t, wantLat, phi/deg, 1e-8, "%v lat", pt)
	}
}
