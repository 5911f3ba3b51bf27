package assets_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/assets"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		asset   string
		wantErr error
	}{
		{"valid", "print", nil},
		{"empty", "", assets.ErrInvalidAssetName},
		{"path separator", "styles/print", assets.ErrInvalidAssetName},
		{"backslash", `styles\print`, assets.ErrInvalidAssetName},
		{"traversal", "../secrets", assets.ErrInvalidAssetName},
		{"null byte", "print\x00", assets.ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := assets.ValidateAssetName(tt.asset); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) = %v, want %v", tt.asset, err, tt.wantErr)
			}
		})
	}
}

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	t.Run("print style present", func(t *testing.T) {
		t.Parallel()

		css, err := assets.LoadStyle("print")
		if err != nil {
			t.Fatalf("LoadStyle(print) error = %v", err)
		}
		for _, want := range []string{"@page", "btp-header", "btp-footer"} {
			if !strings.Contains(css, want) {
				t.Errorf("print style missing %q", want)
			}
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		if _, err := assets.LoadStyle("nope"); !errors.Is(err, assets.ErrStyleNotFound) {
			t.Errorf("error = %v, want %v", err, assets.ErrStyleNotFound)
		}
	})

	t.Run("invalid name rejected before lookup", func(t *testing.T) {
		t.Parallel()

		if _, err := assets.LoadStyle("../print"); !errors.Is(err, assets.ErrInvalidAssetName) {
			t.Errorf("error = %v, want %v", err, assets.ErrInvalidAssetName)
		}
	})
}

func TestLoadTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"header", "{{.Title}}"},
		{"footer", "{{.URL}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, err := assets.LoadTemplate(tt.name)
			if err != nil {
				t.Fatalf("LoadTemplate(%s) error = %v", tt.name, err)
			}
			if !strings.Contains(content, tt.want) {
				t.Errorf("%s template missing %q", tt.name, tt.want)
			}
		})
	}

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()

		if _, err := assets.LoadTemplate("nope"); !errors.Is(err, assets.ErrTemplateNotFound) {
			t.Errorf("error = %v, want %v", err, assets.ErrTemplateNotFound)
		}
	})
}
