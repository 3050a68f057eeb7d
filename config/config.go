// Package config handles the renderer's YAML configuration file: render
// and logging parameters, with sensible defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds render and logging settings. Each render setting can also
// be overridden by a command-line flag; the logging settings cannot.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds defaults for scene parameters the text/glTF scene
// formats may leave unspecified, and the worker pool size.
type RenderConfig struct {
	RayDepth int   `yaml:"ray_depth"`
	Samples  int   `yaml:"samples"`
	Workers  int   `yaml:"workers"`
	Seed     int64 `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			RayDepth: 6,
			Samples:  64,
			Workers:  0,
			Seed:     1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file at path, if it exists, layered over
// Default. A missing file is not an error: the defaults are returned as
// is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
