// Package config loads trazo settings from a YAML file. Keys missing from
// the file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the file Load reads when no path is given.
const DefaultPath = "trazo.yaml"

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid config")

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// CanvasConfig sizes the rendered image.
type CanvasConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`
}

// ExtrudeConfig controls face extrusion.
type ExtrudeConfig struct {
	Height float64 `yaml:"height"`
	// Cells is the marching cubes resolution along the longest side.
	Cells int `yaml:"cells"`
}

// Config is the full settings tree.
type Config struct {
	SnapRadius  float64       `yaml:"snap_radius_px"`
	Canvas      CanvasConfig  `yaml:"canvas"`
	Palette     []string      `yaml:"palette"`
	Extrude     ExtrudeConfig `yaml:"extrude"`
	EvalTimeout time.Duration `yaml:"eval_timeout"`
	LogLevel    string        `yaml:"log_level"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		SnapRadius: 10,
		Canvas: CanvasConfig{
			Width:      800,
			Height:     600,
			Background: "#000000",
		},
		Palette: []string{
			"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
			"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
		},
		Extrude: ExtrudeConfig{
			Height: 10,
			Cells:  200,
		},
		EvalTimeout: 5 * time.Second,
		LogLevel:    "info",
	}
}

// Load reads the config at path over the defaults. An empty path means
// DefaultPath. A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read the config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse the config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create the config directory %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks ranges and colour syntax.
func (c Config) Validate() error {
	switch {
	case !(c.SnapRadius >= 0):
		return fmt.Errorf("%w: snap_radius_px must not be negative, got %v", ErrInvalid, c.SnapRadius)
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("%w: canvas size must be positive, got %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	case !hexColor.MatchString(c.Canvas.Background):
		return fmt.Errorf("%w: canvas.background %q is not a hex colour", ErrInvalid, c.Canvas.Background)
	case !(c.Extrude.Height > 0):
		return fmt.Errorf("%w: extrude.height must be positive, got %v", ErrInvalid, c.Extrude.Height)
	case c.Extrude.Cells < 8:
		return fmt.Errorf("%w: extrude.cells must be at least 8, got %d", ErrInvalid, c.Extrude.Cells)
	case c.EvalTimeout <= 0:
		return fmt.Errorf("%w: eval_timeout must be positive, got %s", ErrInvalid, c.EvalTimeout)
	}
	for i, col := range c.Palette {
		if !hexColor.MatchString(col) {
			return fmt.Errorf("%w: palette[%d] %q is not a hex colour", ErrInvalid, i, col)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel (debug, info, warn, error).
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}
