package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/pspoerri/mapcrs/internal/coord"
	"github.com/pspoerri/mapcrs/internal/tilegrid"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

type options struct {
	registry   *coord.Registry
	src        *coord.CoordinateSystem
	dst        *coord.CoordinateSystem
	latitude   float64
	zoom       int
	pixelSize  float64
	size       float64
	resolution float64
	rounded    bool
	verbose    bool
}

func main() {
	var (
		configPath  string
		srcCode     string
		dstCode     string
		showVersion bool
		opts        options
	)

	flag.StringVar(&configPath, "config", "", "YAML or TOML file with additional coordinate systems")
	flag.StringVar(&srcCode, "crs", "EPSG:2056", "Coordinate system of the input")
	flag.StringVar(&dstCode, "to", "EPSG:4326", "Target coordinate system")
	flag.Float64Var(&opts.latitude, "lat", 0, "Latitude for mercator resolution steps")
	flag.IntVar(&opts.zoom, "zoom", -1, "Tile matrix (default: derived from -pixel-size)")
	flag.Float64Var(&opts.pixelSize, "pixel-size", 10, "Source ground resolution in meters, used when -zoom is not set")
	flag.Float64Var(&opts.size, "size", 10, "Radius in pixels for the around command")
	flag.Float64Var(&opts.resolution, "res", 1, "Ground resolution in meters per pixel for the around command")
	flag.BoolVar(&opts.rounded, "round", false, "Round the around extent to whole units")
	flag.BoolVar(&opts.verbose, "verbose", false, "Verbose output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: crsinfo [flags] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  list                          list the known coordinate systems\n")
		fmt.Fprintf(os.Stderr, "  steps                         print the zoom pyramid of -crs\n")
		fmt.Fprintf(os.Stderr, "  reproject <x> <y> [z]         move a point from -crs to -to\n")
		fmt.Fprintf(os.Stderr, "  extent <minX> <minY> <maxX> <maxY>\n")
		fmt.Fprintf(os.Stderr, "                                clip an extent to the bounds of -to\n")
		fmt.Fprintf(os.Stderr, "  around <x> <y>                extent of -size pixels around a point\n")
		fmt.Fprintf(os.Stderr, "  split <file.geojson|->        split a line at the bounds of -crs\n")
		fmt.Fprintf(os.Stderr, "  tiles <minX> <minY> <maxX> <maxY>\n")
		fmt.Fprintf(os.Stderr, "                                list the tiles covering an extent\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("crsinfo %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	opts.registry = coord.Default()
	if configPath != "" {
		cfg, err := coord.LoadRegistryConfig(configPath)
		if err != nil {
			log.Fatalf("Loading config: %v", err)
		}
		if opts.registry, err = coord.NewRegistryFromConfig(cfg); err != nil {
			log.Fatalf("Building registry: %v", err)
		}
		if opts.verbose {
			log.Printf("Loaded %d coordinate systems from %s", len(cfg.Systems), configPath)
		}
	}

	var err error
	if opts.src, err = opts.registry.ByEPSG(srcCode); err != nil {
		log.Fatalf("-crs: %v", err)
	}
	if opts.dst, err = opts.registry.ByEPSG(dstCode); err != nil {
		log.Fatalf("-to: %v", err)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		err = runList(os.Stdout, opts)
	case "steps":
		err = runSteps(os.Stdout, opts)
	case "reproject":
		err = runReproject(os.Stdout, opts, rest)
	case "extent":
		err = runExtent(os.Stdout, opts, rest)
	case "around":
		err = runAround(os.Stdout, opts, rest)
	case "split":
		err = runSplit(os.Stdout, opts, rest)
	case "tiles":
		err = runTiles(os.Stdout, opts, rest)
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func runList(w io.Writer, opts options) error {
	for _, cs := range opts.registry.All() {
		bounds := "unbounded"
		if b := cs.Bounds(); b != nil {
			bounds = b.String()
		}
		fmt.Fprintf(w, "%-11s %-12s %-9s %-20s %s\n",
			cs.EPSG(), cs.TechnicalName(), cs.Pyramid().Kind, cs.Label(), bounds)
	}
	return nil
}

func runSteps(w io.Writer, opts options) error {
	cs := opts.src
	fmt.Fprintf(w, "%s (%s pyramid)\n", cs.EPSG(), cs.Pyramid().Kind)
	for i, s := range cs.ResolutionSteps(opts.latitude) {
		fmt.Fprintf(w, "  %2d  %14.4f m/px  standard zoom %6.2f  %s\n",
			i, s.Resolution, cs.TransformCustomZoomLevelToStandard(s.Zoom), s.Label)
	}
	return nil
}

func runReproject(w io.Writer, opts options, args []string) error {
	if len(args) != 2 && len(args) != 3 {
		return fmt.Errorf("expected <x> <y> [z], got %d values", len(args))
	}
	c, err := parseFloats(args)
	if err != nil {
		return err
	}
	out, err := coord.ReprojectAndRound(opts.src, opts.dst, coord.Coordinate(c))
	if err != nil {
		return err
	}
	out = coord.WrapXCoordinates(out, opts.dst)
	if opts.verbose {
		log.Printf("%v %s -> %v %s", c, opts.src, out, opts.dst)
	}
	return writeJSON(w, out)
}

func readExtent(opts options, args []string) (coord.Extent, error) {
	if len(args) != 4 {
		return coord.Extent{}, fmt.Errorf("expected <minX> <minY> <maxX> <maxY>, got %d values", len(args))
	}
	v, err := parseFloats(args)
	if err != nil {
		return coord.Extent{}, err
	}
	e := coord.Extent{v[0], v[1], v[2], v[3]}
	if opts.src.IsGeographic() {
		e = coord.NormalizeWGS84AxisOrder(e)
	}
	return e, nil
}

func runExtent(w io.Writer, opts options, args []string) error {
	e, err := readExtent(opts, args)
	if err != nil {
		return err
	}
	clipped, ok, err := coord.ExtentIntersectionWithCurrentProjection(e, opts.src, opts.dst)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("extent %v lies outside the bounds of %s", e, opts.dst)
	}
	projected, err := coord.ProjExtent(opts.src, opts.dst, clipped)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"extent":    clipped,
		"projected": coord.NormalizeExtent(projected),
		"center":    coord.ExtentCenter(clipped),
	})
}

func runAround(w io.Writer, opts options, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected <x> <y>, got %d values", len(args))
	}
	c, err := parseFloats(args)
	if err != nil {
		return err
	}
	e, err := coord.CreatePixelExtentAround(coord.PixelExtentOptions{
		Size:       opts.size,
		Coordinate: c,
		Projection: opts.src,
		Resolution: opts.resolution,
		Rounded:    opts.rounded,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, e)
}

func runSplit(w io.Writer, opts options, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected one GeoJSON file")
	}
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	coords, err := coord.UnwrapGeoJSONCoordinates(data)
	if err != nil {
		return err
	}
	if coords, err = coord.RemoveZValues(coords); err != nil {
		return err
	}
	if opts.src.Bounds() == nil {
		return fmt.Errorf("%s has no bounds", opts.src)
	}

	chunks := opts.src.Bounds().SplitIfOutOfBounds(coords)
	if chunks == nil {
		return fmt.Errorf("need a line of at least two points, got %d", len(coords))
	}
	if opts.verbose {
		log.Printf("Split %d points into %d chunks", len(coords), len(chunks))
	}
	return writeJSON(w, coord.ChunksToFeatureCollection(chunks))
}

func runTiles(w io.Writer, opts options, args []string) error {
	e, err := readExtent(opts, args)
	if err != nil {
		return err
	}
	g, err := tilegrid.New(opts.src, opts.latitude)
	if err != nil {
		return err
	}

	matrix := opts.zoom
	if matrix < 0 {
		_, matrix = g.AutoMatrixRange(opts.pixelSize)
		if opts.verbose {
			log.Printf("Using matrix %d for %.2f m/px source data", matrix, opts.pixelSize)
		}
	}
	tiles, err := g.TilesInExtent(e, matrix)
	if err != nil {
		return err
	}
	for _, t := range tiles {
		b, err := g.TileBounds(t)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.2f %.2f %.2f %.2f\n", t, b[0], b[1], b[2], b[3])
	}
	if opts.verbose {
		log.Printf("%d tiles at matrix %d", len(tiles), matrix)
	}
	return nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
