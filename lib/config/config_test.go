// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if cfg.ServerURL != DefaultServerURL {
			t.Errorf("ServerURL = %q, want default", cfg.ServerURL)
		}
		if cfg.Timeout() != 30*time.Second {
			t.Errorf("Timeout = %v, want 30s", cfg.Timeout())
		}
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "server_url: https://forum.campus.edu/api\nrequest_timeout: 1m\nlog_level: debug\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if cfg.ServerURL != "https://forum.campus.edu/api" {
			t.Errorf("ServerURL = %q", cfg.ServerURL)
		}
		if cfg.Timeout() != time.Minute {
			t.Errorf("Timeout = %v, want 1m", cfg.Timeout())
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("server_url: [nope"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("STUDYHALL_SERVER overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("server_url: http://from-file:5000/api\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		t.Setenv("STUDYHALL_SERVER", "http://from-env:5000/api")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if cfg.ServerURL != "http://from-env:5000/api" {
			t.Errorf("ServerURL = %q, want env override", cfg.ServerURL)
		}
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"empty server URL", func(c *Config) { c.ServerURL = "" }, true},
		{"relative server URL", func(c *Config) { c.ServerURL = "localhost:5000" }, true},
		{"bad timeout", func(c *Config) { c.RequestTimeout = "soon" }, true},
		{"negative timeout", func(c *Config) { c.RequestTimeout = "-5s" }, true},
		{"no timeout allowed", func(c *Config) { c.RequestTimeout = "" }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestFilePath(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("STUDYHALL_CONFIG", "/tmp/custom.yaml")
		if got := FilePath(); got != "/tmp/custom.yaml" {
			t.Errorf("FilePath = %q", got)
		}
	})

	t.Run("XDG location", func(t *testing.T) {
		t.Setenv("STUDYHALL_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		want := filepath.Join("/xdg", "studyhall", "config.yaml")
		if got := FilePath(); got != want {
			t.Errorf("FilePath = %q, want %q", got, want)
		}
	})
}
