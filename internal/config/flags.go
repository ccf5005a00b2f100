package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagFormat      = flag.String("format", "", "Target map format (quake, halflife, quake2, quake3, doom3, quake4)")
	flagUV          = flag.String("uv", "", "Texture alignment (auto, standard, valve, brushprims)")
	flagMode        = flag.String("mode", "", "Export mode (hull, faces, asis)")
	flagDest        = flag.String("dest", "", "Destination (file, clipboard, gtk)")
	flagOutput      = flag.String("o", "", "Output .map path")
	flagPrecision   = flag.Int("precision", -1, "Significant digits for numeric fields")
	flagGrid        = flag.Float64("grid", -1, "Snap vertices to this grid step (0 for off-grid)")
	flagScale       = flag.Float64("scale", 0, "Uniform geometry scale factor")
	flagDepth       = flag.Float64("depth", 0, "Pyramid poke offset for faces mode")
	flagFallback    = flag.String("fallback", "", "Texture for new and unassigned faces")
	flagDetailMatch = flag.String("detail-match", "", "Substring marking detail objects and face groups")
	flagNoTJs       = flag.Bool("no-tjunctions", false, "Do not triangulate faces with T-junction corners")
	flagNoTransform = flag.Bool("no-transform", false, "Do not bake object transforms into vertices")
	flagSaveConfig  = flag.Bool("save-config", false, "Write the effective settings to the user config directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// InputPath returns the positional scene file argument, if any.
func InputPath() string {
	return flag.Arg(0)
}

// SaveRequested reports whether the user asked to persist the effective
// settings via --save-config.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagUV != "" {
		cfg.Output.UV = *flagUV
	}
	if *flagMode != "" {
		cfg.Geometry.Mode = *flagMode
	}
	if *flagDest != "" {
		cfg.Output.Destination = *flagDest
	}
	if *flagOutput != "" {
		cfg.Output.Path = *flagOutput
	}
	if *flagPrecision >= 0 {
		cfg.Texturing.Precision = *flagPrecision
	}
	if *flagGrid >= 0 {
		cfg.Geometry.Grid = *flagGrid
	}
	if *flagScale > 0 {
		cfg.Geometry.Scale = *flagScale
	}
	if *flagDepth > 0 {
		cfg.Geometry.Depth = *flagDepth
	}
	if *flagFallback != "" {
		cfg.Texturing.Fallback = *flagFallback
	}
	if *flagDetailMatch != "" {
		cfg.Entities.DetailMatch = *flagDetailMatch
	}
	if *flagNoTJs {
		cfg.Geometry.TriangulateTJs = false
	}
	if *flagNoTransform {
		cfg.Geometry.ApplyTransform = false
	}
}
