package coord

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"github.com/pspoerri/mapcrs/internal/proj"
)

// RegistryConfig lists coordinate systems to add to (or replace in) the
// built-in set.
//
//	systems:
//	  - code: 2056
//	    label: "CH1903+ / LV95"
//	    technical_name: LV95
//	    proj4: "+proj=somerc ..."
//	    bounds: [2420000, 1030000, 2900000, 1350000]
//	    center: [2660000, 1190000]
//	    pyramid: swiss
//	    decimals: 2
type RegistryConfig struct {
	// SkipBuiltins starts from an empty registry instead of the built-in systems.
	SkipBuiltins bool           `yaml:"skip_builtins" toml:"skip_builtins"`
	Systems      []SystemConfig `yaml:"systems" toml:"systems"`
}

// SystemConfig is the file representation of a Definition.
type SystemConfig struct {
	Code          int       `yaml:"code" toml:"code"`
	Label         string    `yaml:"label" toml:"label"`
	TechnicalName string    `yaml:"technical_name" toml:"technical_name"`
	Proj4         string    `yaml:"proj4" toml:"proj4"`
	Bounds        []float64 `yaml:"bounds" toml:"bounds"` // minX, minY, maxX, maxY
	Center        []float64 `yaml:"center" toml:"center"`
	Pyramid       string    `yaml:"pyramid" toml:"pyramid"`
	Decimals      *int      `yaml:"decimals" toml:"decimals"`
}

// LoadRegistryConfig reads a YAML (.yaml, .yml) or TOML (.toml) file.
func LoadRegistryConfig(path string) (*RegistryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseRegistryConfigTOML(data)
	case ".yaml", ".yml", "":
		return ParseRegistryConfigYAML(data)
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(path))
	}
}

// ParseRegistryConfigYAML decodes a YAML registry config.
func ParseRegistryConfigYAML(data []byte) (*RegistryConfig, error) {
	var cfg RegistryConfig
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// ParseRegistryConfigTOML decodes a TOML registry config.
func ParseRegistryConfigTOML(data []byte) (*RegistryConfig, error) {
	var cfg RegistryConfig
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrInvalidConfig, undecoded)
	}
	return &cfg, nil
}

// Definitions turns the config into definitions, built-ins first unless
// SkipBuiltins is set.
func (c *RegistryConfig) Definitions() ([]Definition, error) {
	var defs []Definition
	if !c.SkipBuiltins {
		defs = BuiltinDefinitions()
	}
	for i, s := range c.Systems {
		d, err := s.definition()
		if err != nil {
			return nil, fmt.Errorf("system %d: %w", i, err)
		}
		defs = append(defs, d)
	}
	return defs, nil
}

func (s SystemConfig) definition() (Definition, error) {
	if s.Code <= 0 {
		return Definition{}, fmt.Errorf("%w: missing code", ErrInvalidConfig)
	}
	if s.Proj4 == "" {
		return Definition{}, fmt.Errorf("%w: EPSG:%d has no proj4 definition", ErrInvalidConfig, s.Code)
	}
	kind, err := ParsePyramidKind(s.Pyramid)
	if err != nil {
		return Definition{}, err
	}

	d := Definition{
		EPSGNumber:    s.Code,
		Label:         s.Label,
		TechnicalName: s.TechnicalName,
		Proj4:         s.Proj4,
		Decimals:      2,
	}
	if s.Decimals != nil {
		d.Decimals = *s.Decimals
	}
	switch kind {
	case SwissGrid:
		d.Pyramid = SwissGridParams()
	default:
		d.Pyramid = MercatorPyramidParams()
	}

	if len(s.Bounds) > 0 {
		if len(s.Bounds) != 4 {
			return Definition{}, fmt.Errorf("%w: EPSG:%d bounds must be [minX, minY, maxX, maxY]", ErrInvalidConfig, s.Code)
		}
		var center Coordinate
		if len(s.Center) > 0 {
			center = Coordinate(s.Center)
		}
		b, err := NewBoundsWithCenter(s.Bounds[0], s.Bounds[2], s.Bounds[1], s.Bounds[3], center)
		if err != nil {
			return Definition{}, fmt.Errorf("EPSG:%d: %w", s.Code, err)
		}
		d.Bounds = b
	} else if len(s.Center) > 0 {
		return Definition{}, fmt.Errorf("%w: EPSG:%d has a center but no bounds", ErrInvalidConfig, s.Code)
	}
	return d, nil
}

// NewRegistryFromConfig builds a registry from cfg on a fresh engine.
func NewRegistryFromConfig(cfg *RegistryConfig) (*Registry, error) {
	defs, err := cfg.Definitions()
	if err != nil {
		return nil, err
	}
	return NewRegistry(proj.NewEngine(), defs...)
}
