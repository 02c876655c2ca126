package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/sketchdraw/internal/imaging"
)

// DefaultFile is the config file picked up from the working directory when no
// path is given explicitly.
const DefaultFile = "sketchdraw.toml"

// Brush size limits, matching the size slider of the drawing surface.
const (
	MinBrushSize = 1
	MaxBrushSize = 20
)

// Config is the full application configuration.
type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	Edges   EdgeConfig    `toml:"edges"`
	Shading ShadingConfig `toml:"shading"`
	Sketch  SketchConfig  `toml:"sketch"`
	History HistoryConfig `toml:"history"`
	Brush   BrushConfig   `toml:"brush"`
}

// CanvasConfig sets the drawing surface size. Loaded images are fitted into it.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// EdgeConfig controls edge extraction and the polylines drawn from it.
type EdgeConfig struct {
	Low         int     `toml:"low"`
	High        int     `toml:"high"`
	StrokeWidth float64 `toml:"stroke_width"`
}

// ShadingConfig controls the stipple pass.
type ShadingConfig struct {
	Stride    int `toml:"stride"`
	Cutoff    int `toml:"cutoff"`
	MaxRadius int `toml:"max_radius"`
}

// SketchConfig controls the pencil-sketch filter.
type SketchConfig struct {
	Kernel int `toml:"kernel"`
}

// HistoryConfig locates the drawing ledger.
type HistoryConfig struct {
	Dir    string `toml:"dir"`
	Recent int    `toml:"recent"`
}

// BrushConfig holds the initial drawing color and brush size.
type BrushConfig struct {
	Color imaging.Color `toml:"color"`
	Size  int           `toml:"size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas:  CanvasConfig{Width: 800, Height: 600},
		Edges:   EdgeConfig{Low: imaging.DefaultLowThreshold, High: imaging.DefaultHighThreshold, StrokeWidth: 1.5},
		Shading: ShadingConfig{Stride: 3, Cutoff: 200, MaxRadius: 3},
		Sketch:  SketchConfig{Kernel: imaging.DefaultSketchKernel},
		History: HistoryConfig{Dir: "drawings", Recent: 20},
		Brush:   BrushConfig{Color: imaging.Black, Size: 2},
	}
}

// Load reads a TOML file over the defaults and validates the result.
//
// Keys missing from the file keep their default values. Unknown keys are an
// error so that typos do not go unnoticed. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the config file to load: explicit when set, otherwise
// DefaultFile if it exists in the working directory, otherwise "".
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Canvas.Width > 0 && c.Canvas.Height > 0,
		"canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	check(c.Edges.Low >= 0 && c.Edges.Low <= 255, "edges.low must be 0-255, got %d", c.Edges.Low)
	check(c.Edges.High >= 0 && c.Edges.High <= 255, "edges.high must be 0-255, got %d", c.Edges.High)
	check(c.Edges.Low <= c.Edges.High, "edges.low (%d) must not exceed edges.high (%d)", c.Edges.Low, c.Edges.High)
	check(c.Edges.StrokeWidth > 0, "edges.stroke_width must be positive, got %v", c.Edges.StrokeWidth)
	check(c.Shading.Stride >= 1, "shading.stride must be at least 1, got %d", c.Shading.Stride)
	check(c.Shading.Cutoff >= 1 && c.Shading.Cutoff <= 256, "shading.cutoff must be 1-256, got %d", c.Shading.Cutoff)
	check(c.Shading.MaxRadius >= 1, "shading.max_radius must be at least 1, got %d", c.Shading.MaxRadius)
	check(c.Sketch.Kernel >= 0, "sketch.kernel must not be negative, got %d", c.Sketch.Kernel)
	check(c.History.Dir != "", "history.dir must be set")
	check(c.History.Recent >= 1, "history.recent must be at least 1, got %d", c.History.Recent)
	check(c.Brush.Size >= MinBrushSize && c.Brush.Size <= MaxBrushSize,
		"brush.size must be %d-%d, got %d", MinBrushSize, MaxBrushSize, c.Brush.Size)

	return errors.Join(errs...)
}
