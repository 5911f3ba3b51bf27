// Package config loads and validates service configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/dateutil"
	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/fileutil"
	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length and range limits.
const (
	MaxAddrLength       = 64
	MaxUserAgentLength  = 512
	MaxPathLength       = 2048
	MaxFetchTimeoutSec  = 120
	MaxRenderTimeoutSec = 300
	MaxScriptDelayMs    = 30000
	MaxWorkers          = 32
)

// Config holds all configuration for the conversion service.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Render RenderConfig `yaml:"render"`
	Style  StyleConfig  `yaml:"style"`

	// Workers bounds concurrent browser instances. Zero picks a size
	// from available CPUs.
	Workers int `yaml:"workers"`
}

// ServerConfig defines HTTP listener options.
type ServerConfig struct {
	Addr string `yaml:"addr"` // listen address (default ":3000")
}

// FetchConfig defines source page fetching options.
type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // default 15
	UserAgent      string `yaml:"userAgent"`      // default desktop UA
}

// RenderConfig defines PDF rendering options.
type RenderConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"` // page load bound, default 60
	ScriptDelayMs  int `yaml:"scriptDelayMs"`  // settle delay after load, default 1500
}

// StyleConfig defines styling options for the generated document.
type StyleConfig struct {
	// CSSPath points at an optional user style sheet appended after the
	// built-in print style.
	CSSPath string `yaml:"cssPath"`
	// HeaderDateFormat renders the header date with friendly tokens
	// (e.g. "MMMM D, YYYY") or a preset (iso, european, us, long).
	// Empty keeps YYYY-MM-DD.
	HeaderDateFormat string `yaml:"headerDateFormat"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":3000"},
		Fetch: FetchConfig{
			TimeoutSeconds: 15,
			UserAgent:      "Mozilla/5.0",
		},
		Render: RenderConfig{
			TimeoutSeconds: 60,
			ScriptDelayMs:  1500,
		},
	}
}

// Validate checks field lengths and ranges. Called automatically by
// LoadConfig, but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("fetch.userAgent", c.Fetch.UserAgent, MaxUserAgentLength); err != nil {
		return err
	}
	if err := validateFieldLength("style.cssPath", c.Style.CSSPath, MaxPathLength); err != nil {
		return err
	}

	if c.Fetch.TimeoutSeconds < 0 || c.Fetch.TimeoutSeconds > MaxFetchTimeoutSec {
		return fmt.Errorf("fetch.timeoutSeconds: must be between 0 and %d, got %d", MaxFetchTimeoutSec, c.Fetch.TimeoutSeconds)
	}
	if c.Render.TimeoutSeconds < 0 || c.Render.TimeoutSeconds > MaxRenderTimeoutSec {
		return fmt.Errorf("render.timeoutSeconds: must be between 0 and %d, got %d", MaxRenderTimeoutSec, c.Render.TimeoutSeconds)
	}
	if c.Render.ScriptDelayMs < 0 || c.Render.ScriptDelayMs > MaxScriptDelayMs {
		return fmt.Errorf("render.scriptDelayMs: must be between 0 and %d, got %d", MaxScriptDelayMs, c.Render.ScriptDelayMs)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers: must be between 0 and %d, got %d", MaxWorkers, c.Workers)
	}

	if c.Style.HeaderDateFormat != "" {
		format := c.Style.HeaderDateFormat
		if preset, ok := dateutil.DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
		if _, err := dateutil.ParseDateFormat(format); err != nil {
			return fmt.Errorf("style.headerDateFormat: %w", err)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard
// locations. Tries extensions in order: .yaml, .yml.
// Tries locations in order: current directory, ~/.config/blog2pdf/.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "blog2pdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
