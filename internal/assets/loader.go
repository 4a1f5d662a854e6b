package assets

import (
	"errors"
	"fmt"
)

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetName      = errors.New("invalid asset name")
	ErrInvalidBasePath       = errors.New("invalid base path")
	ErrAssetRead             = errors.New("failed to read asset")
	ErrPathTraversal         = errors.New("path traversal detected")
)

// AssetLoader loads themes and template sets by name.
type AssetLoader interface {
	// LoadStyle returns the stylesheet styles/{name}.css.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet returns templates/{name}/document.html and footer.html.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// ValidateAssetName accepts names made of letters, digits, '-' and '_'.
// Anything else could select a file outside the asset directories.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
