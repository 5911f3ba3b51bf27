// Package assets provides the embedded print style sheet and the
// header/footer markup templates injected into every document.
package assets

import (
	"errors"
	"strings"
)

// Sentinel errors for asset loading.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
)

// ValidateAssetName rejects names that could escape the asset directories.
func ValidateAssetName(name string) error {
	if name == "" {
		return ErrInvalidAssetName
	}
	if strings.ContainsAny(name, "/\\\x00") || strings.Contains(name, "..") {
		return ErrInvalidAssetName
	}
	return nil
}
