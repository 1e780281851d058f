package proj

import "math"

// Ellipsoid is a reference ellipsoid given by its semi-major axis (meters)
// and its first eccentricity squared.
type Ellipsoid struct {
	A  float64
	E2 float64
}

var ellipsoids = map[string]Ellipsoid{
	"bessel": {A: 6377397.155, E2: 0.006674372230614},
	"GRS80":  {A: 6378137.0, E2: 0.00669438002290},
	"WGS84":  {A: 6378137.0, E2: 0.00669437999014},
}

// WGS84Ellipsoid is the ellipsoid all projections pivot through.
var WGS84Ellipsoid = ellipsoids["WGS84"]

// geocentric converts geodetic latitude/longitude (radians) and ellipsoidal
// height (meters) to earth-centered cartesian coordinates.
func (e Ellipsoid) geocentric(phi, lambda, h float64) (x, y, z float64) {
	sinPhi, cosPhi := math.Sincos(phi)
	n := e.A / math.Sqrt(1-e.E2*sinPhi*sinPhi)
	x = (n + h) * cosPhi * math.Cos(lambda)
	y = (n + h) * cosPhi * math.Sin(lambda)
	z = (n*(1-e.E2) + h) * sinPhi
	return
}

// geodetic is the iterative inverse of geocentric.
func (e Ellipsoid) geodetic(x, y, z float64) (phi, lambda, h float64) {
	p := math.Hypot(x, y)
	lambda = math.Atan2(y, x)
	phi = math.Atan2(z, p*(1-e.E2))
	var n float64
	for i := 0; i < 20; i++ {
		sinPhi := math.Sin(phi)
		n = e.A / math.Sqrt(1-e.E2*sinPhi*sinPhi)
		h = p/math.Cos(phi) - n
		next := math.Atan2(z, p*(1-e.E2*n/(n+h)))
		if math.Abs(next-phi) < 1e-15 {
			phi = next
			break
		}
		phi = next
	}
	sinPhi := math.Sin(phi)
	n = e.A / math.Sqrt(1-e.E2*sinPhi*sinPhi)
	h = p/math.Cos(phi) - n
	return
}

// datumShift moves geodetic positions between a local datum and WGS84 with
// a geocentric translation. Positions on the local datum are always taken to
// lie on its ellipsoid (height 0).
type datumShift struct {
	local Ellipsoid
	dx    [3]float64
}

func (d datumShift) identity() bool {
	return d.dx == [3]float64{} && d.local == WGS84Ellipsoid
}

// toWGS84 converts local geodetic radians to WGS84 geodetic radians.
func (d datumShift) toWGS84(phi, lambda float64) (float64, float64) {
	if d.identity() {
		return phi, lambda
	}
	x, y, z := d.local.geocentric(phi, lambda, 0)
	p, l, _ := WGS84Ellipsoid.geodetic(x+d.dx[0], y+d.dx[1], z+d.dx[2])
	return p, l
}

// fromWGS84 is the exact inverse of toWGS84: it searches the WGS84 height
// at which the shifted point lands on the local ellipsoid.
func (d datumShift) fromWGS84(phi, lambda float64) (float64, float64) {
	if d.identity() {
		return phi, lambda
	}
	var h, lp, ll float64
	for i := 0; i < 10; i++ {
		x, y, z := WGS84Ellipsoid.geocentric(phi, lambda, h)
		var lh float64
		lp, ll, lh = d.local.geodetic(x-d.dx[0], y-d.dx[1], z-d.dx[2])
		if math.Abs(lh) < 1e-7 {
			break
		}
		h -= lh
	}
	return lp, ll
}
