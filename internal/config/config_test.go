package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":3000")
	}
	if cfg.Fetch.TimeoutSeconds != 15 {
		t.Errorf("Fetch.TimeoutSeconds = %d, want 15", cfg.Fetch.TimeoutSeconds)
	}
	if cfg.Render.TimeoutSeconds != 60 {
		t.Errorf("Render.TimeoutSeconds = %d, want 60", cfg.Render.TimeoutSeconds)
	}
	if cfg.Render.ScriptDelayMs != 1500 {
		t.Errorf("Render.ScriptDelayMs = %d, want 1500", cfg.Render.ScriptDelayMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
server:
  addr: ":8080"
fetch:
  timeoutSeconds: 30
  userAgent: "custom-agent"
render:
  timeoutSeconds: 90
  scriptDelayMs: 500
style:
  headerDateFormat: "long"
workers: 4
`)
		cfg, err := config.LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Addr != ":8080" {
			t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
		}
		if cfg.Fetch.TimeoutSeconds != 30 || cfg.Fetch.UserAgent != "custom-agent" {
			t.Errorf("Fetch = %+v", cfg.Fetch)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "server:\n  addr: \":9000\"\n")
		cfg, err := config.LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Addr != ":9000" {
			t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
		}
		if cfg.Fetch.TimeoutSeconds != 15 {
			t.Errorf("Fetch.TimeoutSeconds = %d, want default 15", cfg.Fetch.TimeoutSeconds)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "serverz:\n  addr: \":9000\"\n")
		if _, err := config.LoadConfig(path); !errors.Is(err, config.ErrConfigParse) {
			t.Errorf("error = %v, want %v", err, config.ErrConfigParse)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "nope.yaml")
		if _, err := config.LoadConfig(missing); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("error = %v, want %v", err, config.ErrConfigNotFound)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := config.LoadConfig(""); !errors.Is(err, config.ErrEmptyConfigName) {
			t.Errorf("error = %v, want %v", err, config.ErrEmptyConfigName)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "negative fetch timeout",
			mutate:  func(c *config.Config) { c.Fetch.TimeoutSeconds = -1 },
			wantErr: "fetch.timeoutSeconds",
		},
		{
			name:    "render timeout too large",
			mutate:  func(c *config.Config) { c.Render.TimeoutSeconds = 10000 },
			wantErr: "render.timeoutSeconds",
		},
		{
			name:    "script delay too large",
			mutate:  func(c *config.Config) { c.Render.ScriptDelayMs = 60001 },
			wantErr: "render.scriptDelayMs",
		},
		{
			name:    "too many workers",
			mutate:  func(c *config.Config) { c.Workers = 100 },
			wantErr: "workers",
		},
		{
			name:    "addr too long",
			mutate:  func(c *config.Config) { c.Server.Addr = strings.Repeat("x", 100) },
			wantErr: "server.addr",
		},
		{
			name:    "bad header date format",
			mutate:  func(c *config.Config) { c.Style.HeaderDateFormat = "[unclosed" },
			wantErr: "style.headerDateFormat",
		},
		{
			name:   "preset date format accepted",
			mutate: func(c *config.Config) { c.Style.HeaderDateFormat = "european" },
		},
		{
			name:   "token date format accepted",
			mutate: func(c *config.Config) { c.Style.HeaderDateFormat = "MMMM D, YYYY" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
