package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "kgview/internal/platform/errors"
)

type Config struct {
	Canvas   CanvasConfig   `yaml:"canvas"`
	Layout   LayoutConfig   `yaml:"layout"`
	Style    StyleConfig    `yaml:"style"`
	Viewport ViewportConfig `yaml:"viewport"`
	Sources  SourcesConfig  `yaml:"sources"`
	Export   ExportConfig   `yaml:"export"`
	Log      LogConfig      `yaml:"log"`
	Serve    ServeConfig    `yaml:"serve"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type LayoutConfig struct {
	RingSpacing  float64 `yaml:"ring_spacing"`
	RootSentinel string  `yaml:"root_sentinel"`
}

type StyleConfig struct {
	RootSize   float64  `yaml:"root_size"`
	BaseSize   float64  `yaml:"base_size"`
	Decay      float64  `yaml:"decay"`
	MinSize    float64  `yaml:"min_size"`
	Palette    []string `yaml:"palette"`
	Background string   `yaml:"background"`
	Edge       string   `yaml:"edge"`
	Label      string   `yaml:"label"`
	HoverShade float64  `yaml:"hover_shade"`
}

type ViewportConfig struct {
	MinScale        float64       `yaml:"min_scale"`
	MaxScale        float64       `yaml:"max_scale"`
	ZoomStep        float64       `yaml:"zoom_step"`
	ZoomSpeed       float64       `yaml:"zoom_speed"`
	Smoothing       float64       `yaml:"smoothing"`
	PositionEpsilon float64       `yaml:"position_epsilon"`
	ScaleEpsilon    float64       `yaml:"scale_epsilon"`
	PanSpeed        float64       `yaml:"pan_speed"`
	WheelStep       float64       `yaml:"wheel_step"`
	FrameInterval   time.Duration `yaml:"frame_interval"`
}

type SourcesConfig struct {
	GraphEndpoint   string        `yaml:"graph_endpoint"`
	RoadmapEndpoint string        `yaml:"roadmap_endpoint"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxPDFPages     int           `yaml:"max_pdf_pages"`
}

type ExportConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Dir       string `yaml:"dir"`
	MaxPixels int    `yaml:"max_pixels"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type ServeConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

func Default() Config {
	return Config{
		Canvas: CanvasConfig{Width: 2000, Height: 1500},
		Layout: LayoutConfig{RingSpacing: 800, RootSentinel: "The Brain"},
		Style: StyleConfig{
			RootSize:   150,
			BaseSize:   120,
			Decay:      0.8,
			MinSize:    8,
			Palette:    []string{"#FF4086", "#FF5E86", "#FF7C86", "#FF9A86", "#FFB886", "#FFCB86"},
			Background: "#111827",
			Edge:       "#FFFFFF",
			Label:      "#FFFFFF",
			HoverShade: 0.8,
		},
		Viewport: ViewportConfig{
			MinScale:        0.1,
			MaxScale:        5,
			ZoomStep:        2,
			ZoomSpeed:       0.005,
			Smoothing:       0.3,
			PositionEpsilon: 0.1,
			ScaleEpsilon:    0.001,
			PanSpeed:        10,
			WheelStep:       40,
			FrameInterval:   16 * time.Millisecond,
		},
		Sources: SourcesConfig{
			GraphEndpoint:   "https://edulga-one.vercel.app/api/courses/create-kg-from-pdf",
			RoadmapEndpoint: "https://edulga-one.vercel.app/api/courses/generate-roadmap",
			Timeout:         2 * time.Minute,
			MaxPDFPages:     500,
		},
		Export: ExportConfig{Width: 1600, Height: 1200, Dir: ".", MaxPixels: 40_000_000},
		Log:    LogConfig{Level: "info", Dir: filepath.Join(stateDir(), "logs")},
		Serve:  ServeConfig{Addr: "127.0.0.1:8088", MaxBodyBytes: 4 << 20},
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/kgview, falling back to ~/.config/kgview.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "kgview")
}

func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func stateDir() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "kgview")
}

// Load overlays the yaml file at path on Default. A missing file is not an
// error; an empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("%w: canvas size must be positive", apperrors.ErrInvalidInput)
	case c.Layout.RingSpacing <= 0:
		return fmt.Errorf("%w: ring_spacing must be positive", apperrors.ErrInvalidInput)
	case c.Style.MinSize <= 0:
		return fmt.Errorf("%w: min_size must be positive", apperrors.ErrInvalidInput)
	case c.Style.Decay <= 0 || c.Style.Decay > 1:
		return fmt.Errorf("%w: decay must be in (0,1]", apperrors.ErrInvalidInput)
	case len(c.Style.Palette) == 0:
		return fmt.Errorf("%w: palette is empty", apperrors.ErrInvalidInput)
	case c.Viewport.MinScale <= 0:
		return fmt.Errorf("%w: min_scale must be positive", apperrors.ErrInvalidInput)
	case c.Viewport.MaxScale < c.Viewport.MinScale:
		return fmt.Errorf("%w: max_scale below min_scale", apperrors.ErrInvalidInput)
	case c.Viewport.ZoomStep <= 1:
		return fmt.Errorf("%w: zoom_step must be greater than 1", apperrors.ErrInvalidInput)
	case c.Viewport.Smoothing <= 0 || c.Viewport.Smoothing > 1:
		return fmt.Errorf("%w: smoothing must be in (0,1]", apperrors.ErrInvalidInput)
	case c.Viewport.PositionEpsilon <= 0 || c.Viewport.ScaleEpsilon <= 0:
		return fmt.Errorf("%w: epsilons must be positive", apperrors.ErrInvalidInput)
	case c.Viewport.FrameInterval <= 0:
		return fmt.Errorf("%w: frame_interval must be positive", apperrors.ErrInvalidInput)
	case c.Export.Width <= 0 || c.Export.Height <= 0:
		return fmt.Errorf("%w: export size must be positive", apperrors.ErrInvalidInput)
	case c.Export.MaxPixels <= 0:
		return fmt.Errorf("%w: max_pixels must be positive", apperrors.ErrInvalidInput)
	case c.Export.Width > c.Export.MaxPixels/c.Export.Height:
		return fmt.Errorf("%w: export size exceeds max_pixels", apperrors.ErrInvalidInput)
	}
	return nil
}

func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
