package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/gamesystem/engine/core"
	"gopkg.in/yaml.v3"
)

//go:embed default.toml
var defaultTOML []byte

const FileName = "gamesystem.toml"

var ErrUnknownFormat = errors.New("unknown config format")

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatTOML, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Decode parses data on top of the defaults, so missing keys keep their
// default value.
func Decode(data []byte, format Format) (Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile reads and decodes a single config file.
func LoadFile(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Default(), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Decode(data, format)
	if err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Load loads the configuration and returns the path it came from, empty for
// the embedded default.
// Search order: customPath -> ~/.gamesystem/gamesystem.toml -> ./gamesystem.toml -> embedded default
func Load(customPath string) (Config, string, error) {
	if customPath != "" {
		cfg, err := LoadFile(customPath)
		if err != nil {
			return cfg, "", err
		}
		return cfg, customPath, nil
	}

	candidates := []string{userConfigPath(FileName), FileName}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadFile(path)
		if err != nil {
			core.LogWarn("skipping config: %s", err)
			continue
		}
		return cfg, path, nil
	}

	cfg, err := Decode(defaultTOML, FormatTOML)
	if err != nil {
		return Default(), "", nil
	}
	return cfg, "", nil
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gamesystem", filename)
}
