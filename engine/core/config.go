package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hubastard/lumen/engine/colors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("core: invalid config")

// MaxUpdateRate bounds UpdateRate so a tick stays at least a millisecond long.
const MaxUpdateRate = 1000

// Config for the engine run.
type Config struct {
	Title      string       `yaml:"title"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	VSync      bool         `yaml:"vsync"`
	ClearColor colors.Color `yaml:"clear_color"` // RGBA

	// UpdateRate is the number of fixed OnUpdate ticks per second.
	UpdateRate int `yaml:"update_rate"`
	// MaxUpdateSteps caps catch-up ticks per frame after a stall.
	MaxUpdateSteps int `yaml:"max_update_steps"`

	LogLevel  string `yaml:"log_level"`
	ShaderDir string `yaml:"shader_dir"`
	HotReload bool   `yaml:"hot_reload"`
}

func DefaultConfig() Config {
	return Config{
		Title:          "lumen",
		Width:          1280,
		Height:         720,
		VSync:          true,
		ClearColor:     colors.DarkGray,
		UpdateRate:     60,
		MaxUpdateSteps: 10,
		LogLevel:       "info",
		ShaderDir:      "assets/shaders",
	}
}

// LoadConfig reads a YAML file over DefaultConfig. A missing file is not an
// error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.UpdateRate <= 0 || c.UpdateRate > MaxUpdateRate {
		return fmt.Errorf("%w: update_rate %d", ErrInvalidConfig, c.UpdateRate)
	}
	if c.MaxUpdateSteps <= 0 {
		return fmt.Errorf("%w: max_update_steps %d", ErrInvalidConfig, c.MaxUpdateSteps)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level; unknown names mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
