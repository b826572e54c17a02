package config

import (
	"fmt"

	"github.com/spaghettifunk/gamesystem/engine/core"
)

const (
	DefaultWidth     = 640
	DefaultHeight    = 480
	DefaultDepth     = 32
	DefaultWindowed  = true
	DefaultFrameRate = 60.0
	DefaultTitle     = "Game System OpenGL"
	DefaultLogLevel  = "info"
)

// Display is a requested display mode.
type Display struct {
	Width    int  `toml:"width" yaml:"width"`
	Height   int  `toml:"height" yaml:"height"`
	Depth    int  `toml:"depth" yaml:"depth"`
	Windowed bool `toml:"windowed" yaml:"windowed"`
}

// Config is the persisted application configuration.
type Config struct {
	Title     string  `toml:"title" yaml:"title"`
	FrameRate float64 `toml:"frame_rate" yaml:"frame_rate"`
	LogLevel  string  `toml:"log_level" yaml:"log_level"`
	Display   Display `toml:"display" yaml:"display"`
}

func Default() Config {
	return Config{
		Title:     DefaultTitle,
		FrameRate: DefaultFrameRate,
		LogLevel:  DefaultLogLevel,
		Display: Display{
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			Depth:    DefaultDepth,
			Windowed: DefaultWindowed,
		},
	}
}

// Normalize replaces a non-positive width or height and a depth other than
// 16, 24 or 32 with the defaults.
func (d Display) Normalize() Display {
	if d.Width <= 0 {
		d.Width = DefaultWidth
	}
	if d.Height <= 0 {
		d.Height = DefaultHeight
	}
	switch d.Depth {
	case 16, 24, 32:
	default:
		d.Depth = DefaultDepth
	}
	return d
}

// Equivalent reports whether both displays produce the same mode. Fullscreen
// modes always use the desktop resolution so their sizes are not compared.
func (d Display) Equivalent(o Display) bool {
	if d.Windowed != o.Windowed || d.Depth != o.Depth {
		return false
	}
	if !d.Windowed {
		return true
	}
	return d.Width == o.Width && d.Height == o.Height
}

func (d Display) String() string {
	mode := "fullscreen"
	if d.Windowed {
		mode = "windowed"
	}
	return fmt.Sprintf("%dx%dx%d %s", d.Width, d.Height, d.Depth, mode)
}

func (c Config) Validate() error {
	if c.FrameRate < 0 {
		return fmt.Errorf("frame_rate must not be negative, got %v", c.FrameRate)
	}
	if c.LogLevel != "" {
		if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
		}
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() core.LogLevel {
	level, err := core.ParseLogLevel(c.LogLevel)
	if err != nil {
		return core.InfoLevel
	}
	return level
}
