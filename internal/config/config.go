// Package config handles exporter configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/mapforge/pkg/geometry"
	"github.com/Faultbox/mapforge/pkg/mapfile"
	"github.com/Faultbox/mapforge/pkg/scene"
)

// Destination values for OutputConfig.Destination.
const (
	DestFile      = "file"
	DestClipboard = "clipboard"
	DestGTK       = "gtk"
)

// UVAuto selects the target format's native texture convention.
const UVAuto = "auto"

// ErrInvalidConfig wraps all Validate failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all exporter settings.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Geometry  GeometryConfig  `yaml:"geometry"`
	Texturing TexturingConfig `yaml:"texturing"`
	Entities  EntitiesConfig  `yaml:"entities"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// OutputConfig selects the target grammar and where the text goes.
type OutputConfig struct {
	Format      string `yaml:"format"`
	UV          string `yaml:"uv"` // "auto" or a convention name
	Destination string `yaml:"destination"`
	Path        string `yaml:"path"` // empty derives <scene name>.map
}

// GeometryConfig holds mesh-to-brush settings.
type GeometryConfig struct {
	Mode           string  `yaml:"mode"` // default for objects without an override
	Scale          float64 `yaml:"scale"`
	Grid           float64 `yaml:"grid"`  // snap step, 0 for off-grid
	Depth          float64 `yaml:"depth"` // pyramid poke offset
	TriangulateTJs bool    `yaml:"triangulate_tjunctions"`
	ApplyTransform bool    `yaml:"apply_transform"`
}

// TexturingConfig holds UV serialization settings.
type TexturingConfig struct {
	// Precision is the significant digit count for every numeric field in
	// the output (0 behaves as 1). Too few digits shifts three-point plane
	// triples off the true plane, which cracks compiled geometry at seams;
	// too many bloats the file and makes editors show unwieldy values like
	// 15.999999999999998 for hand-editing.
	Precision      int    `yaml:"precision"`
	Fallback       string `yaml:"fallback"` // texture for new and unassigned faces
	FallbackWidth  int    `yaml:"fallback_width"`
	FallbackHeight int    `yaml:"fallback_height"`
}

// EntitiesConfig holds point-entity and flag-matching settings.
type EntitiesConfig struct {
	LightScale  float64 `yaml:"light_scale"` // world energy to map light units
	DetailMatch string  `yaml:"detail_match"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:      "quake",
			UV:          UVAuto,
			Destination: DestFile,
			Path:        "",
		},
		Geometry: GeometryConfig{
			Mode:           "faces",
			Scale:          1.0,
			Grid:           0.0,
			Depth:          8.0,
			TriangulateTJs: true,
			ApplyTransform: true,
		},
		Texturing: TexturingConfig{
			Precision:      5,
			Fallback:       "skip",
			FallbackWidth:  64,
			FallbackHeight: 64,
		},
		Entities: EntitiesConfig{
			LightScale:  0.3,
			DetailMatch: "detail",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Format resolves the configured format name.
func (c *Config) Format() (mapfile.Format, error) {
	return mapfile.ParseFormat(c.Output.Format)
}

// Convention resolves the configured UV convention against the format,
// substituting the format's native convention for "auto".
func (c *Config) Convention() (geometry.Convention, error) {
	f, err := c.Format()
	if err != nil {
		return 0, err
	}
	if c.Output.UV == "" || c.Output.UV == UVAuto {
		return f.DefaultConvention(), nil
	}
	return geometry.ParseConvention(c.Output.UV)
}

// Mode resolves the configured default export mode.
func (c *Config) Mode() (scene.Mode, error) {
	return scene.ParseMode(c.Geometry.Mode)
}

// Validate checks every value before any geometry work starts. The
// format/convention matrix is enforced here, so an impossible pairing
// (halflife with standard UVs, doom3 with anything but brush primitives)
// fails the whole export instead of producing a file no editor loads.
func (c *Config) Validate() error {
	f, err := c.Format()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	conv, err := c.Convention()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !f.SupportsConvention(conv) {
		return fmt.Errorf("%w: format %v cannot encode %v texture alignment", ErrInvalidConfig, f, conv)
	}

	mode, err := c.Mode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if mode == scene.ModeUnset {
		return fmt.Errorf("%w: geometry mode must be set", ErrInvalidConfig)
	}

	switch c.Output.Destination {
	case DestFile, DestClipboard, DestGTK:
	default:
		return fmt.Errorf("%w: unknown destination %q", ErrInvalidConfig, c.Output.Destination)
	}

	if c.Texturing.Precision < 0 || c.Texturing.Precision > 17 {
		return fmt.Errorf("%w: precision %d outside [0,17]", ErrInvalidConfig, c.Texturing.Precision)
	}
	if c.Texturing.Fallback == "" {
		return fmt.Errorf("%w: fallback texture name must not be empty", ErrInvalidConfig)
	}
	if c.Texturing.FallbackWidth <= 0 || c.Texturing.FallbackHeight <= 0 {
		return fmt.Errorf("%w: fallback texture size %dx%d must be positive",
			ErrInvalidConfig, c.Texturing.FallbackWidth, c.Texturing.FallbackHeight)
	}

	if c.Geometry.Scale <= 0 {
		return fmt.Errorf("%w: scale %g must be positive", ErrInvalidConfig, c.Geometry.Scale)
	}
	if c.Geometry.Grid < 0 || c.Geometry.Grid > 256 {
		return fmt.Errorf("%w: grid %g outside [0,256]", ErrInvalidConfig, c.Geometry.Grid)
	}
	if c.Geometry.Depth <= 0 || c.Geometry.Depth > 256 {
		return fmt.Errorf("%w: pyramid depth %g outside (0,256]", ErrInvalidConfig, c.Geometry.Depth)
	}

	if c.Entities.LightScale < 0 {
		return fmt.Errorf("%w: light scale %g must not be negative", ErrInvalidConfig, c.Entities.LightScale)
	}
	// An empty match string would flag every face as detail.
	if c.Entities.DetailMatch == "" {
		return fmt.Errorf("%w: detail match string must not be empty", ErrInvalidConfig)
	}

	return nil
}
