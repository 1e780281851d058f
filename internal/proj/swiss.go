package proj

import "math"

const deg = math.Pi / 180

// SwissParams configures a Swiss oblique Mercator projection. Angles are in
// degrees, offsets in meters.
type SwissParams struct {
	Lat0, Lon0    float64
	Scale         float64
	FalseEasting  float64
	FalseNorthing float64
	Ellipsoid     Ellipsoid
	// ToWGS84 is the geocentric translation from the local datum to WGS84.
	ToWGS84 [3]float64
}

// SwissObliqueMercator implements Projection for the Swiss national grids
// (EPSG:2056 CH1903+/LV95 and EPSG:21781 CH1903/LV03) using swisstopo's
// rigorous conformal double projection: ellipsoid -> sphere -> oblique
// cylinder.
//
// Reference: swisstopo, "Formulas and constants for the calculation of the
// Swiss conformal cylindrical projection and for the transformation between
// coordinate systems".
type SwissObliqueMercator struct {
	lambda0 float64
	e       float64
	alpha   float64
	b0      float64
	k       float64
	r       float64
	fe, fn  float64
	datum   datumShift
}

// NewSwissObliqueMercator precomputes the projection constants.
func NewSwissObliqueMercator(p SwissParams) *SwissObliqueMercator {
	if p.Scale == 0 {
		p.Scale = 1
	}
	e2 := p.Ellipsoid.E2
	e := math.Sqrt(e2)
	phi0 := p.Lat0 * deg
	sin0, cos0 := math.Sincos(phi0)

	alpha := math.Sqrt(1 + e2/(1-e2)*math.Pow(cos0, 4))
	b0 := math.Asin(sin0 / alpha)
	k := math.Log(math.Tan(math.Pi/4+b0/2)) -
		alpha*math.Log(math.Tan(math.Pi/4+phi0/2)) +
		alpha*e*math.Atanh(e*sin0)
	r := p.Scale * p.Ellipsoid.A * math.Sqrt(1-e2) / (1 - e2*sin0*sin0)

	return &SwissObliqueMercator{
		lambda0: p.Lon0 * deg,
		e:       e,
		alpha:   alpha,
		b0:      b0,
		k:       k,
		r:       r,
		fe:      p.FalseEasting,
		fn:      p.FalseNorthing,
		datum:   datumShift{local: p.Ellipsoid, dx: p.ToWGS84},
	}
}

// ToWGS84 converts Swiss easting/northing to WGS84 longitude/latitude (degrees).
func (s *SwissObliqueMercator) ToWGS84(easting, northing float64) (lon, lat float64) {
	phi, lambda := s.inverse(easting, northing)
	phi, lambda = s.datum.toWGS84(phi, lambda)
	return lambda / deg, phi / deg
}

// FromWGS84 converts WGS84 longitude/latitude (degrees) to Swiss easting/northing.
func (s *SwissObliqueMercator) FromWGS84(lon, lat float64) (easting, northing float64) {
	phi, lambda := s.datum.fromWGS84(lat*deg, lon*deg)
	return s.forward(phi, lambda)
}

// forward projects local geodetic radians to grid coordinates.
func (s *SwissObliqueMercator) forward(phi, lambda float64) (easting, northing float64) {
	// Gauss sphere.
	q := s.alpha*math.Log(math.Tan(math.Pi/4+phi/2)) -
		s.alpha*s.e*math.Atanh(s.e*math.Sin(phi)) + s.k
	b := 2 * (math.Atan(math.Exp(q)) - math.Pi/4)
	l := s.alpha * (lambda - s.lambda0)

	// Rotate to the pseudo-equatorial system.
	sinB0, cosB0 := math.Sincos(s.b0)
	lBar := math.Atan2(math.Sin(l), sinB0*math.Tan(b)+cosB0*math.Cos(l))
	bBar := math.Asin(cosB0*math.Sin(b) - sinB0*math.Cos(b)*math.Cos(l))

	y := s.r * lBar
	x := s.r / 2 * math.Log((1+math.Sin(bBar))/(1-math.Sin(bBar)))
	return y + s.fe, x + s.fn
}

// inverse maps grid coordinates back to local geodetic radians.
func (s *SwissObliqueMercator) inverse(easting, northing float64) (phi, lambda float64) {
	y := easting - s.fe
	x := northing - s.fn

	lBar := y / s.r
	bBar := 2 * (math.Atan(math.Exp(x/s.r)) - math.Pi/4)

	sinB0, cosB0 := math.Sincos(s.b0)
	b := math.Asin(cosB0*math.Sin(bBar) + sinB0*math.Cos(bBar)*math.Cos(lBar))
	l := math.Atan2(math.Sin(lBar), cosB0*math.Cos(lBar)-sinB0*math.Tan(bBar))

	lambda = s.lambda0 + l/s.alpha

	iso := (math.Log(math.Tan(math.Pi/4+b/2)) - s.k) / s.alpha
	phi = b
	for i := 0; i < 30; i++ {
		q := iso + s.e*math.Atanh(s.e*math.Sin(phi))
		next := 2*math.Atan(math.Exp(q)) - math.Pi/2
		if math.Abs(next-phi) < 1e-15 {
			phi = next
			break
		}
		phi = next
	}
	return phi, lambda
}
