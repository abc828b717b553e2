// Package config loads modectl configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/modectl/internal/mode"
)

// FadeConfig controls the gamma fade masking mode switches.
type FadeConfig struct {
	Enabled    bool `yaml:"enabled"`
	DurationMS int  `yaml:"duration_ms"`
	Steps      int  `yaml:"steps"`
}

// Config is the effective modectl configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Fade FadeConfig `yaml:"fade"`

	// Outputs maps an output name to its preferred mode spec
	// ("1920x1080@60" or "1920x1080"), used when a switch command names
	// no explicit mode.
	Outputs map[string]string `yaml:"outputs"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Fade: FadeConfig{
			Enabled:    true,
			DurationMS: 200,
			Steps:      16,
		},
		Outputs: map[string]string{},
	}
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "modectl", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from path, layering it over the
// defaults. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Outputs == nil {
		cfg.Outputs = map[string]string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the rest of the program
// would choke on.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	if c.Fade.DurationMS < 0 {
		return fmt.Errorf("fade duration_ms must not be negative, got %d", c.Fade.DurationMS)
	}
	if c.Fade.Steps < 1 {
		return fmt.Errorf("fade steps must be at least 1, got %d", c.Fade.Steps)
	}

	for output, spec := range c.Outputs {
		if _, _, _, err := mode.ParseSpec(spec); err != nil {
			return fmt.Errorf("output %q: %w", output, err)
		}
	}
	return nil
}

// SlogLevel translates the configured log level for slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// PreferredMode returns the configured preferred mode for an output, or
// ok=false when none is configured.
func (c *Config) PreferredMode(output string) (width, height, refresh int, ok bool) {
	spec, found := c.Outputs[output]
	if !found {
		return 0, 0, 0, false
	}
	width, height, refresh, err := mode.ParseSpec(spec)
	if err != nil {
		return 0, 0, 0, false
	}
	return width, height, refresh, true
}
