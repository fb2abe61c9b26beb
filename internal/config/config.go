// Package config loads rewind settings from TOML, with environment
// overrides and live reload.
//
// Settings come from three places, later ones winning:
//
//   - built-in defaults (Default)
//   - a TOML file (Load, Parse)
//   - REWIND_* environment variables (ApplyEnv)
//
// A Watcher reloads the file when it changes on disk.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the complete rewind configuration.
type Config struct {
	History HistoryConfig `toml:"history"`
	Logging LoggingConfig `toml:"logging"`
	Script  ScriptConfig  `toml:"script"`
	Metrics MetricsConfig `toml:"metrics"`
	Browser BrowserConfig `toml:"browser"`
}

// HistoryConfig configures the command history.
type HistoryConfig struct {
	// Capacity bounds the number of undoable plus redoable commands.
	Capacity int `toml:"capacity"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is console or json.
	Format string `toml:"format"`
}

// ScriptConfig configures the Lua runtime.
type ScriptConfig struct {
	// Timeout bounds a single script run. Zero disables the limit.
	Timeout Duration `toml:"timeout"`

	// CallStackSize is the Lua call stack depth.
	CallStackSize int `toml:"call_stack_size"`

	// RegistrySize is the initial Lua registry size.
	RegistrySize int `toml:"registry_size"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled"`
	Namespace string `toml:"namespace"`
}

// BrowserConfig configures the interactive history browser.
type BrowserConfig struct {
	// ShowIDs adds descriptor ids to the listing.
	ShowIDs bool `toml:"show_ids"`

	// ShowTimes adds execution times to the listing.
	ShowTimes bool `toml:"show_times"`
}

// Duration is a time.Duration written as a string ("2s", "150ms").
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			Capacity: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Script: ScriptConfig{
			Timeout:       Duration{5 * time.Second},
			CallStackSize: 256,
			RegistrySize:  5120,
		},
		Metrics: MetricsConfig{
			Namespace: "rewind",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	return parse("<input>", data)
}

func parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, newParseError(source, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var errs []error
	if c.History.Capacity <= 0 {
		errs = append(errs, &ValidationError{Setting: "history.capacity", Problem: "must be greater than 0"})
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, &ValidationError{Setting: "logging.level", Problem: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, &ValidationError{Setting: "logging.format", Problem: fmt.Sprintf("unknown format %q", c.Logging.Format)})
	}
	if c.Script.Timeout.Duration < 0 {
		errs = append(errs, &ValidationError{Setting: "script.timeout", Problem: "must not be negative"})
	}
	if c.Script.CallStackSize <= 0 {
		errs = append(errs, &ValidationError{Setting: "script.call_stack_size", Problem: "must be greater than 0"})
	}
	if c.Script.RegistrySize <= 0 {
		errs = append(errs, &ValidationError{Setting: "script.registry_size", Problem: "must be greater than 0"})
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		errs = append(errs, &ValidationError{Setting: "metrics.namespace", Problem: "required when metrics are enabled"})
	}
	return errors.Join(errs...)
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
