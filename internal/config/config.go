// Package config loads detection settings from a JSON file.
//
// Every field is optional. Omitted fields fall back to the compiled-in
// defaults through the Get* accessors, so a partial file is always safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/OlivierCrt/Projet-groupe4/internal/detection"
	"github.com/OlivierCrt/Projet-groupe4/internal/imaging"
)

// EnvConfigPath names the environment variable that points at a config file.
const EnvConfigPath = "MARKER_CONFIG"

// RangeConfig is an inclusive [min,max] pair per channel.
type RangeConfig struct {
	Red   [2]int `json:"red"`
	Green [2]int `json:"green"`
	Blue  [2]int `json:"blue"`
}

// Config is the root configuration document.
//
// Example:
//
//	{
//	  "object_threshold": 30,
//	  "largest_component": true,
//	  "max_width": 640,
//	  "colors": {
//	    "yellow": {"red": [200, 255], "green": [180, 255], "blue": [0, 100]}
//	  }
//	}
type Config struct {
	ObjectThreshold  *int            `json:"object_threshold,omitempty"`
	LargestComponent *bool           `json:"largest_component,omitempty"`
	MaxWidth         *int            `json:"max_width,omitempty"`
	Region           *imaging.Region `json:"region,omitempty"`
	DumpDir          *string         `json:"dump_dir,omitempty"`

	// Colors overrides ranges by class label ("yellow", "blue", "orange").
	// Classes not listed keep their default range.
	Colors map[string]RangeConfig `json:"colors,omitempty"`
}

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file.
// The file must have a .json extension and be at most 1MB.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads the file named by MARKER_CONFIG, or returns an empty
// Config when the variable is unset.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return Empty(), nil
	}
	return Load(path)
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.ObjectThreshold != nil && *c.ObjectThreshold < 0 {
		return fmt.Errorf("object_threshold must be non-negative, got %d", *c.ObjectThreshold)
	}
	if c.MaxWidth != nil && *c.MaxWidth < 0 {
		return fmt.Errorf("max_width must be non-negative, got %d", *c.MaxWidth)
	}
	if r := c.Region; r != nil && (r.X1 >= r.X2 || r.Y1 >= r.Y2) {
		return fmt.Errorf("region must satisfy x1 < x2 and y1 < y2, got (%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
	}
	seen := make(map[detection.ColorClass]string)
	for name, rc := range c.Colors {
		class, err := detection.ParseColorClass(name)
		if err != nil {
			return fmt.Errorf("colors: %w", err)
		}
		if prev, ok := seen[class]; ok {
			return fmt.Errorf("colors: duplicate color %s (keys %q and %q)", class, prev, name)
		}
		seen[class] = name
		for _, ch := range []struct {
			label  string
			bounds [2]int
		}{{"red", rc.Red}, {"green", rc.Green}, {"blue", rc.Blue}} {
			lo, hi := ch.bounds[0], ch.bounds[1]
			if lo < 0 || hi > 255 || lo > hi {
				return fmt.Errorf("colors.%s.%s must satisfy 0 <= min <= max <= 255, got [%d,%d]", name, ch.label, lo, hi)
			}
		}
	}
	return nil
}

// GetObjectThreshold returns the object_threshold value or the default.
func (c *Config) GetObjectThreshold() int {
	if c.ObjectThreshold == nil {
		return detection.DefaultObjectThreshold
	}
	return *c.ObjectThreshold
}

// GetLargestComponent returns the largest_component value or the default.
func (c *Config) GetLargestComponent() bool {
	if c.LargestComponent == nil {
		return false
	}
	return *c.LargestComponent
}

// GetMaxWidth returns the max_width value or 0 (no resizing).
func (c *Config) GetMaxWidth() int {
	if c.MaxWidth == nil {
		return 0
	}
	return *c.MaxWidth
}

// GetDumpDir returns the dump_dir value or "" (no dumps).
func (c *Config) GetDumpDir() string {
	if c.DumpDir == nil {
		return ""
	}
	return *c.DumpDir
}

// Catalog returns the default catalog with any configured overrides applied.
func (c *Config) Catalog() ([]detection.ColorRange, error) {
	catalog := detection.DefaultCatalog()
	for name, rc := range c.Colors {
		class, err := detection.ParseColorClass(name)
		if err != nil {
			return nil, err
		}
		for i := range catalog {
			if catalog[i].Class != class {
				continue
			}
			catalog[i] = detection.ColorRange{
				Class:    class,
				RedMin:   uint8(rc.Red[0]),
				RedMax:   uint8(rc.Red[1]),
				GreenMin: uint8(rc.Green[0]),
				GreenMax: uint8(rc.Green[1]),
				BlueMin:  uint8(rc.Blue[0]),
				BlueMax:  uint8(rc.Blue[1]),
			}
		}
	}
	return catalog, nil
}

// Detection builds the detection.Config this file describes.
func (c *Config) Detection() (detection.Config, error) {
	if err := c.Validate(); err != nil {
		return detection.Config{}, err
	}
	catalog, err := c.Catalog()
	if err != nil {
		return detection.Config{}, err
	}
	return detection.Config{
		Catalog:          catalog,
		Classifier:       detection.Classifier{Threshold: c.GetObjectThreshold()},
		LargestComponent: c.GetLargestComponent(),
	}, nil
}

// Prepare returns the preprocessing options this file describes.
func (c *Config) Prepare() imaging.PrepareOptions {
	return imaging.PrepareOptions{Region: c.Region, MaxWidth: c.GetMaxWidth()}
}
