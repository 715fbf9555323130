// SPDX-License-Identifier: EPL-2.0

// Package config loads the audibites command line configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Library LibraryConfig `yaml:"library"`
	Logging LoggingConfig `yaml:"logging"`
	Capture CaptureConfig `yaml:"capture"`
	Export  ExportConfig  `yaml:"export"`
}

// LibraryConfig says where tracks are stored.
type LibraryConfig struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CaptureConfig struct {
	ChunkSize      int `yaml:"chunk_size"`       // bytes
	TickIntervalMS int `yaml:"tick_interval_ms"` // 0 disables progress
}

// ExportConfig is applied when writing WAV files out of the library.
type ExportConfig struct {
	SampleRate int  `yaml:"sample_rate"` // 0 keeps the track rate
	Mono       bool `yaml:"mono"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	dir := ".audibites"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".audibites")
	}

	return &Config{
		Library: LibraryConfig{Dir: dir},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Capture: CaptureConfig{ChunkSize: 4096, TickIntervalMS: 1000},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Library.Validate(); err != nil {
		return fmt.Errorf("library config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Capture.Validate(); err != nil {
		return fmt.Errorf("capture config: %w", err)
	}

	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export config: %w", err)
	}

	return nil
}

func (l *LibraryConfig) Validate() error {
	if !l.InMemory && l.Dir == "" {
		return errors.New("dir cannot be empty unless in_memory is set")
	}

	return nil
}

func (l *LoggingConfig) Validate() error {
	if _, err := l.SlogLevel(); err != nil {
		return err
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// SlogLevel maps Level to a slog.Level.
func (l *LoggingConfig) SlogLevel() (slog.Level, error) {
	switch l.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}
}

func (c *CaptureConfig) Validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1 byte, got %d", c.ChunkSize)
	}

	if c.TickIntervalMS < 0 {
		return fmt.Errorf("tick_interval_ms cannot be negative, got %d", c.TickIntervalMS)
	}

	return nil
}

// TickInterval returns the progress interval as a time.Duration.
func (c *CaptureConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

func (e *ExportConfig) Validate() error {
	if e.SampleRate < 0 {
		return fmt.Errorf("sample_rate cannot be negative, got %d", e.SampleRate)
	}

	return nil
}
