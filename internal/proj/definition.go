package proj

import (
	"fmt"
	"strconv"
	"strings"
)

// params is a parsed proj4 definition: "+proj=somerc +no_defs" becomes
// {"proj": "somerc", "no_defs": ""}.
type params map[string]string

func parseParams(definition string) (params, error) {
	p := make(params)
	for _, tok := range strings.Fields(definition) {
		if !strings.HasPrefix(tok, "+") {
			return nil, fmt.Errorf("%w: token %q does not start with '+'", ErrUnsupportedDefinition, tok)
		}
		key, value, _ := strings.Cut(tok[1:], "=")
		if key == "" {
			return nil, fmt.Errorf("%w: empty parameter in %q", ErrUnsupportedDefinition, definition)
		}
		p[key] = value
	}
	if p["proj"] == "" {
		return nil, fmt.Errorf("%w: missing +proj in %q", ErrUnsupportedDefinition, definition)
	}
	return p, nil
}

// float returns the numeric value of key, or def when key is absent.
func (p params) float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: +%s=%s is not a number", ErrUnsupportedDefinition, key, v)
	}
	return f, nil
}

func (p params) floats(key string) ([]float64, error) {
	v, ok := p[key]
	if !ok {
		return nil, nil
	}
	parts := strings.Split(v, ",")
	out := make([]float64, len(parts))
	for i, s := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: +%s=%s is not a number list", ErrUnsupportedDefinition, key, v)
		}
		out[i] = f
	}
	return out, nil
}

// Parse builds a Projection from a proj4 definition. Supported are
// +proj=longlat (WGS84 datum), +proj=merc on a 6378137 m sphere and
// +proj=somerc (Swiss oblique Mercator) with a 3-parameter +towgs84 shift.
func Parse(definition string) (Projection, error) {
	p, err := parseParams(definition)
	if err != nil {
		return nil, err
	}
	switch p["proj"] {
	case "longlat", "lonlat", "latlong":
		if d := p["datum"]; d != "" && d != "WGS84" {
			return nil, fmt.Errorf("%w: datum %s", ErrUnsupportedDefinition, d)
		}
		return LonLat{}, nil
	case "merc":
		return parseMercator(p)
	case "somerc":
		return parseSwissObliqueMercator(p)
	default:
		return nil, fmt.Errorf("%w: +proj=%s", ErrUnsupportedDefinition, p["proj"])
	}
}

func parseMercator(p params) (Projection, error) {
	if ellps, ok := p["ellps"]; ok {
		return nil, fmt.Errorf("%w: ellipsoidal mercator (+ellps=%s)", ErrUnsupportedDefinition, ellps)
	}
	a, err := p.float("a", sphereRadius)
	if err != nil {
		return nil, err
	}
	b, err := p.float("b", a)
	if err != nil {
		return nil, err
	}
	if a != sphereRadius || b != sphereRadius {
		return nil, fmt.Errorf("%w: only the spherical web mercator (a=b=%v) is supported", ErrUnsupportedDefinition, sphereRadius)
	}
	for _, key := range []string{"lat_ts", "lon_0", "x_0", "y_0"} {
		v, err := p.float(key, 0)
		if err != nil {
			return nil, err
		}
		if v != 0 {
			return nil, fmt.Errorf("%w: +%s must be 0 for web mercator", ErrUnsupportedDefinition, key)
		}
	}
	if k, err := p.float("k", 1); err != nil {
		return nil, err
	} else if k != 1 {
		return nil, fmt.Errorf("%w: +k must be 1 for web mercator", ErrUnsupportedDefinition)
	}
	return NewWebMercator(), nil
}

func parseSwissObliqueMercator(p params) (Projection, error) {
	lat0, err := p.float("lat_0", 0)
	if err != nil {
		return nil, err
	}
	lon0, err := p.float("lon_0", 0)
	if err != nil {
		return nil, err
	}
	k0, err := p.float("k_0", 1)
	if err != nil {
		return nil, err
	}
	x0, err := p.float("x_0", 0)
	if err != nil {
		return nil, err
	}
	y0, err := p.float("y_0", 0)
	if err != nil {
		return nil, err
	}

	name := p["ellps"]
	if name == "" {
		name = "WGS84"
	}
	ell, ok := ellipsoids[name]
	if !ok {
		return nil, fmt.Errorf("%w: ellipsoid %s", ErrUnsupportedDefinition, name)
	}

	towgs84, err := p.floats("towgs84")
	if err != nil {
		return nil, err
	}
	var shift [3]float64
	for i, v := range towgs84 {
		if i < 3 {
			shift[i] = v
			continue
		}
		if v != 0 {
			return nil, fmt.Errorf("%w: only 3-parameter +towgs84 shifts are supported", ErrUnsupportedDefinition)
		}
	}

	return NewSwissObliqueMercator(SwissParams{
		Lat0:          lat0,
		Lon0:          lon0,
		Scale:         k0,
		FalseEasting:  x0,
		FalseNorthing: y0,
		Ellipsoid:     ell,
		ToWGS84:       shift,
	}), nil
}
