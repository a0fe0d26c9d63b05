// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the client configuration.
//
// Configuration comes from a YAML file, located by:
//   - the STUDYHALL_CONFIG environment variable, or
//   - $XDG_CONFIG_HOME/studyhall/config.yaml (falling back to
//     ~/.config/studyhall/config.yaml)
//
// A missing file is not an error: every field has a working default,
// so a fresh install talks to a local development server with no
// setup. After the file is read, STUDYHALL_SERVER overrides the server
// URL, which keeps switching servers a one-variable affair in CI and
// classroom labs.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultServerURL is the API root used when neither the config file
// nor STUDYHALL_SERVER names one. It matches the development server's
// default listen address.
const DefaultServerURL = "http://localhost:5000/api"

// Config is the client configuration.
type Config struct {
	// ServerURL is the API root, including the /api prefix.
	ServerURL string `yaml:"server_url"`

	// RequestTimeout bounds each HTTP request, as a duration string
	// ("30s", "2m"). Empty means no timeout.
	RequestTimeout string `yaml:"request_timeout"`

	// LogLevel is "debug", "info", "warn", or "error".
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ServerURL:      DefaultServerURL,
		RequestTimeout: "30s",
		LogLevel:       "info",
	}
}

// Timeout parses RequestTimeout. Validate has already checked it, so
// a parse failure here returns zero (no timeout).
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0
	}
	return d
}

// FilePath returns the config file location: STUDYHALL_CONFIG if set,
// otherwise config.yaml under the XDG config directory.
func FilePath() string {
	if path := os.Getenv("STUDYHALL_CONFIG"); path != "" {
		return path
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".studyhall", "config.yaml")
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "studyhall", "config.yaml")
}

// Load reads the configuration from FilePath, applies the
// STUDYHALL_SERVER override, and validates the result.
func Load() (*Config, error) {
	return LoadFile(FilePath())
}

// LoadFile loads configuration from a specific file path. A missing
// file yields the defaults; a malformed one is an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if server := os.Getenv("STUDYHALL_SERVER"); server != "" {
		cfg.ServerURL = server
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.ServerURL == "" {
		errs = append(errs, fmt.Errorf("server_url is required"))
	} else if parsed, err := url.Parse(c.ServerURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("server_url %q is not an absolute URL", c.ServerURL))
	}

	if c.RequestTimeout != "" {
		if d, err := time.ParseDuration(c.RequestTimeout); err != nil {
			errs = append(errs, fmt.Errorf("request_timeout %q is not a duration", c.RequestTimeout))
		} else if d < 0 {
			errs = append(errs, fmt.Errorf("request_timeout must not be negative"))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of: debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
