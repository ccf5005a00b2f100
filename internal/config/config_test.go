package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/mapforge/pkg/geometry"
	"github.com/Faultbox/mapforge/pkg/mapfile"
	"github.com/Faultbox/mapforge/pkg/scene"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Output.Format != "quake" {
		t.Errorf("expected format quake, got %s", cfg.Output.Format)
	}
	if cfg.Output.UV != UVAuto {
		t.Errorf("expected uv auto, got %s", cfg.Output.UV)
	}
	if cfg.Output.Destination != DestFile {
		t.Errorf("expected destination file, got %s", cfg.Output.Destination)
	}

	if cfg.Geometry.Mode != "faces" {
		t.Errorf("expected mode faces, got %s", cfg.Geometry.Mode)
	}
	if cfg.Geometry.Scale != 1.0 {
		t.Errorf("expected scale 1, got %g", cfg.Geometry.Scale)
	}
	if cfg.Geometry.Grid != 0 {
		t.Errorf("expected off-grid default, got %g", cfg.Geometry.Grid)
	}
	if cfg.Geometry.Depth != 8.0 {
		t.Errorf("expected depth 8, got %g", cfg.Geometry.Depth)
	}
	if !cfg.Geometry.TriangulateTJs {
		t.Error("expected T-junction triangulation on by default")
	}
	if !cfg.Geometry.ApplyTransform {
		t.Error("expected apply_transform on by default")
	}

	if cfg.Texturing.Precision != 5 {
		t.Errorf("expected precision 5, got %d", cfg.Texturing.Precision)
	}
	if cfg.Texturing.Fallback != "skip" {
		t.Errorf("expected fallback skip, got %s", cfg.Texturing.Fallback)
	}
	if cfg.Texturing.FallbackWidth != 64 || cfg.Texturing.FallbackHeight != 64 {
		t.Errorf("expected 64x64 fallback size, got %dx%d",
			cfg.Texturing.FallbackWidth, cfg.Texturing.FallbackHeight)
	}

	if cfg.Entities.DetailMatch != "detail" {
		t.Errorf("expected detail match 'detail', got %s", cfg.Entities.DetailMatch)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
output:
  format: quake3
  uv: brushprims
  destination: clipboard

geometry:
  mode: hull
  scale: 16
  grid: 8
  triangulate_tjunctions: false

texturing:
  precision: 9
  fallback: caulk

entities:
  light_scale: 1.5
  detail_match: func_detail

logging:
  level: debug
  log_file: export.log
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Output.Format != "quake3" {
		t.Errorf("expected format quake3, got %s", cfg.Output.Format)
	}
	if cfg.Output.UV != "brushprims" {
		t.Errorf("expected uv brushprims, got %s", cfg.Output.UV)
	}
	if cfg.Output.Destination != DestClipboard {
		t.Errorf("expected destination clipboard, got %s", cfg.Output.Destination)
	}
	if cfg.Geometry.Mode != "hull" {
		t.Errorf("expected mode hull, got %s", cfg.Geometry.Mode)
	}
	if cfg.Geometry.Scale != 16 {
		t.Errorf("expected scale 16, got %g", cfg.Geometry.Scale)
	}
	if cfg.Geometry.Grid != 8 {
		t.Errorf("expected grid 8, got %g", cfg.Geometry.Grid)
	}
	if cfg.Geometry.TriangulateTJs {
		t.Error("expected T-junction triangulation off")
	}
	// Depth was not in the file and keeps its default.
	if cfg.Geometry.Depth != 8.0 {
		t.Errorf("expected depth 8 from defaults, got %g", cfg.Geometry.Depth)
	}
	if cfg.Texturing.Precision != 9 {
		t.Errorf("expected precision 9, got %d", cfg.Texturing.Precision)
	}
	if cfg.Texturing.Fallback != "caulk" {
		t.Errorf("expected fallback caulk, got %s", cfg.Texturing.Fallback)
	}
	if cfg.Entities.LightScale != 1.5 {
		t.Errorf("expected light scale 1.5, got %g", cfg.Entities.LightScale)
	}
	if cfg.Entities.DetailMatch != "func_detail" {
		t.Errorf("expected detail match func_detail, got %s", cfg.Entities.DetailMatch)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "export.log" {
		t.Errorf("expected log file export.log, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
output:
  format: [not, a, string
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "quake3"
	cfg.Geometry.Grid = 8
	cfg.Texturing.Fallback = "caulk"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config failed: %v", err)
	}
	if loaded.Output.Format != "quake3" {
		t.Errorf("expected format quake3 after round trip, got %s", loaded.Output.Format)
	}
	if loaded.Geometry.Grid != 8 {
		t.Errorf("expected grid 8 after round trip, got %g", loaded.Geometry.Grid)
	}
	if loaded.Texturing.Fallback != "caulk" {
		t.Errorf("expected fallback caulk after round trip, got %s", loaded.Texturing.Fallback)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "format and uv flags",
			setup: func() {
				*flagFormat = "doom3"
				*flagUV = "brushprims"
			},
			verify: func(cfg *Config) {
				if cfg.Output.Format != "doom3" {
					t.Errorf("expected format doom3, got %s", cfg.Output.Format)
				}
				if cfg.Output.UV != "brushprims" {
					t.Errorf("expected uv brushprims, got %s", cfg.Output.UV)
				}
			},
			teardown: func() {
				*flagFormat = ""
				*flagUV = ""
			},
		},
		{
			name: "numeric flags",
			setup: func() {
				*flagPrecision = 8
				*flagGrid = 0.5
				*flagScale = 32
			},
			verify: func(cfg *Config) {
				if cfg.Texturing.Precision != 8 {
					t.Errorf("expected precision 8, got %d", cfg.Texturing.Precision)
				}
				if cfg.Geometry.Grid != 0.5 {
					t.Errorf("expected grid 0.5, got %g", cfg.Geometry.Grid)
				}
				if cfg.Geometry.Scale != 32 {
					t.Errorf("expected scale 32, got %g", cfg.Geometry.Scale)
				}
			},
			teardown: func() {
				*flagPrecision = -1
				*flagGrid = -1
				*flagScale = 0
			},
		},
		{
			name: "grid zero turns snapping off",
			setup: func() {
				*flagGrid = 0
			},
			verify: func(cfg *Config) {
				if cfg.Geometry.Grid != 0 {
					t.Errorf("expected grid 0, got %g", cfg.Geometry.Grid)
				}
			},
			teardown: func() {
				*flagGrid = -1
			},
		},
		{
			name: "toggle flags",
			setup: func() {
				*flagNoTJs = true
				*flagNoTransform = true
			},
			verify: func(cfg *Config) {
				if cfg.Geometry.TriangulateTJs {
					t.Error("expected T-junction triangulation disabled")
				}
				if cfg.Geometry.ApplyTransform {
					t.Error("expected transform baking disabled")
				}
			},
			teardown: func() {
				*flagNoTJs = false
				*flagNoTransform = false
			},
		},
		{
			name: "output flags",
			setup: func() {
				*flagDest = "clipboard"
				*flagOutput = "out/test.map"
			},
			verify: func(cfg *Config) {
				if cfg.Output.Destination != DestClipboard {
					t.Errorf("expected destination clipboard, got %s", cfg.Output.Destination)
				}
				if cfg.Output.Path != "out/test.map" {
					t.Errorf("expected path out/test.map, got %s", cfg.Output.Path)
				}
			},
			teardown: func() {
				*flagDest = ""
				*flagOutput = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
geometry:
  mode: hull
  grid: 16
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set a flag that overrides the config file
	*flagConfig = configPath
	*flagGrid = 2
	defer func() {
		*flagConfig = ""
		*flagGrid = -1
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Grid should come from the flag (2), not the file (16)
	if cfg.Geometry.Grid != 2 {
		t.Errorf("expected grid 2 from flag, got %g", cfg.Geometry.Grid)
	}

	// Mode should come from the file since no flag override
	if cfg.Geometry.Mode != "hull" {
		t.Errorf("expected mode hull from file, got %s", cfg.Geometry.Mode)
	}
}

func TestConfigResolvers(t *testing.T) {
	cfg := Default()

	f, err := cfg.Format()
	if err != nil || f != mapfile.FormatQuake {
		t.Errorf("Format() = %v, %v, want quake", f, err)
	}

	// auto resolves to the format's native convention
	conv, err := cfg.Convention()
	if err != nil || conv != geometry.ConventionValve {
		t.Errorf("Convention() = %v, %v, want valve for quake auto", conv, err)
	}

	cfg.Output.Format = "doom3"
	conv, err = cfg.Convention()
	if err != nil || conv != geometry.ConventionBrushPrimitives {
		t.Errorf("Convention() = %v, %v, want brushprims for doom3 auto", conv, err)
	}

	mode, err := cfg.Mode()
	if err != nil || mode != scene.ModeFaces {
		t.Errorf("Mode() = %v, %v, want faces", mode, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown format", func(c *Config) { c.Output.Format = "quake5" }},
		{"unknown uv", func(c *Config) { c.Output.UV = "sideways" }},
		{"halflife standard uv", func(c *Config) { c.Output.Format = "halflife"; c.Output.UV = "standard" }},
		{"doom3 valve uv", func(c *Config) { c.Output.Format = "doom3"; c.Output.UV = "valve" }},
		{"unknown mode", func(c *Config) { c.Geometry.Mode = "banana" }},
		{"empty mode", func(c *Config) { c.Geometry.Mode = "" }},
		{"unknown destination", func(c *Config) { c.Output.Destination = "printer" }},
		{"precision too high", func(c *Config) { c.Texturing.Precision = 18 }},
		{"negative precision", func(c *Config) { c.Texturing.Precision = -1 }},
		{"empty fallback", func(c *Config) { c.Texturing.Fallback = "" }},
		{"zero fallback size", func(c *Config) { c.Texturing.FallbackWidth = 0 }},
		{"zero scale", func(c *Config) { c.Geometry.Scale = 0 }},
		{"grid too large", func(c *Config) { c.Geometry.Grid = 512 }},
		{"zero depth", func(c *Config) { c.Geometry.Depth = 0 }},
		{"negative light scale", func(c *Config) { c.Entities.LightScale = -1 }},
		{"empty detail match", func(c *Config) { c.Entities.DetailMatch = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidate_FormatConventionMatrix(t *testing.T) {
	valid := []struct {
		format string
		uv     string
	}{
		{"quake", "standard"},
		{"quake", "valve"},
		{"halflife", "valve"},
		{"quake2", "standard"},
		{"quake3", "brushprims"},
		{"doom3", "brushprims"},
		{"quake4", UVAuto},
	}
	for _, tc := range valid {
		cfg := Default()
		cfg.Output.Format = tc.format
		cfg.Output.UV = tc.uv
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s/%s: expected valid, got %v", tc.format, tc.uv, err)
		}
	}
}
