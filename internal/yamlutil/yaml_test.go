package yamlutil_test

// Notes:
// - Marshal error branch: not tested because yaml.Marshal only fails with
//   unmarshalable types (channels, functions) which are compile-time
//   detectable and not realistic in production usage.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/yamlutil"
)

// serviceSettings mirrors the shape of the service config file: nested
// sections plus a top-level scalar.
type serviceSettings struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Fetch struct {
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
		UserAgent      string `yaml:"userAgent"`
	} `yaml:"fetch"`
	Workers int `yaml:"workers"`
}

const serviceYAML = `server:
  addr: ":8080"
fetch:
  timeoutSeconds: 30
  userAgent: "custom-agent"
workers: 4
`

// ---------------------------------------------------------------------------
// TestUnmarshal - Parses YAML into Go structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("nested sections decoded", func(t *testing.T) {
		t.Parallel()

		var cfg serviceSettings
		if err := yamlutil.Unmarshal([]byte(serviceYAML), &cfg); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if cfg.Server.Addr != ":8080" {
			t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
		}
		if cfg.Fetch.TimeoutSeconds != 30 || cfg.Fetch.UserAgent != "custom-agent" {
			t.Errorf("Fetch = %+v", cfg.Fetch)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("absent keys keep prior values", func(t *testing.T) {
		t.Parallel()

		// Decoding a partial file over a pre-populated struct must only
		// touch the keys the file names; config defaults rely on this.
		var cfg serviceSettings
		cfg.Fetch.TimeoutSeconds = 15
		cfg.Fetch.UserAgent = "default-agent"

		if err := yamlutil.Unmarshal([]byte("workers: 2\n"), &cfg); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if cfg.Workers != 2 {
			t.Errorf("Workers = %d, want 2", cfg.Workers)
		}
		if cfg.Fetch.TimeoutSeconds != 15 || cfg.Fetch.UserAgent != "default-agent" {
			t.Errorf("defaults overwritten: Fetch = %+v", cfg.Fetch)
		}
	})

	t.Run("unknown keys tolerated", func(t *testing.T) {
		t.Parallel()

		var cfg serviceSettings
		err := yamlutil.Unmarshal([]byte("workers: 2\nfuture: option\n"), &cfg)
		if err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if cfg.Workers != 2 {
			t.Errorf("Workers = %d, want 2", cfg.Workers)
		}
	})

	t.Run("malformed YAML reported", func(t *testing.T) {
		t.Parallel()

		var cfg serviceSettings
		if err := yamlutil.Unmarshal([]byte("server: [unclosed"), &cfg); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})

	t.Run("nil data", func(t *testing.T) {
		t.Parallel()

		var cfg serviceSettings
		if err := yamlutil.Unmarshal(nil, &cfg); !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("error = %v, want %v", err, yamlutil.ErrNilData)
		}
	})

	t.Run("empty data", func(t *testing.T) {
		t.Parallel()

		var cfg serviceSettings
		if err := yamlutil.Unmarshal([]byte{}, &cfg); !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("error = %v, want %v", err, yamlutil.ErrNilData)
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()

		if err := yamlutil.Unmarshal([]byte("workers: 2"), nil); !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("error = %v, want %v", err, yamlutil.ErrNilDestination)
		}
	})
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Rejects unknown fields (config typo safety)
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("valid config accepted", func(t *testing.T) {
		t.Parallel()

		var cfg serviceSettings
		if err := yamlutil.UnmarshalStrict([]byte(serviceYAML), &cfg); err != nil {
			t.Fatalf("UnmarshalStrict() error = %v", err)
		}
		if cfg.Server.Addr != ":8080" {
			t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
		}
	})

	t.Run("top-level typo rejected", func(t *testing.T) {
		t.Parallel()

		var cfg serviceSettings
		err := yamlutil.UnmarshalStrict([]byte("serverz:\n  addr: \":8080\"\n"), &cfg)
		if err == nil {
			t.Error("expected error for unknown top-level key")
		}
	})

	t.Run("nested typo rejected", func(t *testing.T) {
		t.Parallel()

		var cfg serviceSettings
		err := yamlutil.UnmarshalStrict([]byte("fetch:\n  timeoutSecs: 30\n"), &cfg)
		if err == nil {
			t.Error("expected error for unknown nested key")
		}
	})

	t.Run("nil data", func(t *testing.T) {
		t.Parallel()

		var cfg serviceSettings
		if err := yamlutil.UnmarshalStrict(nil, &cfg); !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("error = %v, want %v", err, yamlutil.ErrNilData)
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()

		if err := yamlutil.UnmarshalStrict([]byte("workers: 2"), nil); !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("error = %v, want %v", err, yamlutil.ErrNilDestination)
		}
	})
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - 1MB cap shared by both decode paths
// ---------------------------------------------------------------------------

func TestInputSizeLimit(t *testing.T) {
	// Not parallel: mutates the package-level MaxInputSize.
	orig := yamlutil.MaxInputSize
	yamlutil.MaxInputSize = 64
	defer func() { yamlutil.MaxInputSize = orig }()

	oversized := []byte("workers: 2\n# " + strings.Repeat("x", 100))

	var cfg serviceSettings
	if err := yamlutil.Unmarshal(oversized, &cfg); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("Unmarshal error = %v, want %v", err, yamlutil.ErrInputTooLarge)
	}
	if err := yamlutil.UnmarshalStrict(oversized, &cfg); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalStrict error = %v, want %v", err, yamlutil.ErrInputTooLarge)
	}

	within := []byte("workers: 2\n")
	if err := yamlutil.UnmarshalStrict(within, &cfg); err != nil {
		t.Errorf("UnmarshalStrict at limit error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestMarshal - Encodes structs and round-trips
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	var cfg serviceSettings
	cfg.Server.Addr = ":9000"
	cfg.Fetch.TimeoutSeconds = 20
	cfg.Fetch.UserAgent = "agent"
	cfg.Workers = 3

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{"addr:", "timeoutSeconds:", "workers:"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, data)
		}
	}

	var decoded serviceSettings
	if err := yamlutil.UnmarshalStrict(data, &decoded); err != nil {
		t.Fatalf("round-trip decode error = %v", err)
	}
	if decoded != cfg {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", decoded, cfg)
	}
}
