package mdpdf

import (
	"errors"

	"github.com/cobalt-rocks/mdpdf/internal/assets"
)

const (
	// DefaultTheme is the built-in theme used when none is given.
	DefaultTheme = assets.DefaultStyleName

	// DefaultTemplateSet is the built-in template set.
	DefaultTemplateSet = assets.DefaultTemplateSetName
)

// ThemeNames lists the built-in themes.
func ThemeNames() []string {
	return assets.StyleNames()
}

// AssetLoader loads themes and template sets by name. NewAssetLoader covers
// a directory on disk; implement it to serve assets from elsewhere.
//
// LoadStyle reports ErrStyleNotFound for unknown names. LoadTemplateSet
// reports ErrTemplateSetNotFound, or ErrIncompleteTemplateSet when one of
// the two templates is absent.
type AssetLoader = assets.AssetLoader

// TemplateSet holds the two HTML templates of a document.
//
// Document is an html/template receiving .Title, .Lang and .Body.
// Footer is an html/template receiving .Name, .Date, .Text, .License and
// .LicenseURL; Chrome's pageNumber and totalPages classes work inside it.
type TemplateSet = assets.TemplateSet

func NewTemplateSet(name, document, footer string) *TemplateSet {
	return &TemplateSet{Name: name, Document: document, Footer: footer}
}

// NewAssetLoader returns a loader reading basePath/styles/{name}.css and
// basePath/templates/{name}/{document,footer}.html, falling back to the
// built-in assets for anything missing there. An empty basePath serves the
// built-in assets only.
//
// Returns ErrInvalidAssetPath if basePath is not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return publicAssetErrors{resolver}, nil
}

// publicAssetErrors reports internal asset errors as the exported sentinels.
type publicAssetErrors struct {
	AssetLoader
}

func (p publicAssetErrors) LoadStyle(name string) (string, error) {
	css, err := p.AssetLoader.LoadStyle(name)
	return css, convertAssetError(err)
}

func (p publicAssetErrors) LoadTemplateSet(name string) (*TemplateSet, error) {
	ts, err := p.AssetLoader.LoadTemplateSet(name)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return ts, nil
}

// assetErrorMap pairs internal sentinels with the exported ones. An invalid
// name can never match an asset, so it reads as not found.
var assetErrorMap = []struct{ internal, public error }{
	{assets.ErrStyleNotFound, ErrStyleNotFound},
	{assets.ErrTemplateSetNotFound, ErrTemplateSetNotFound},
	{assets.ErrIncompleteTemplateSet, ErrIncompleteTemplateSet},
	{assets.ErrInvalidBasePath, ErrInvalidAssetPath},
	{assets.ErrPathTraversal, ErrInvalidAssetPath},
	{assets.ErrInvalidAssetName, ErrStyleNotFound},
}

// convertAssetError keeps err's message but makes errors.Is match the
// exported sentinel. Unknown errors pass through.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range assetErrorMap {
		if errors.Is(err, m.internal) {
			return &assetError{public: m.public, err: err}
		}
	}
	return err
}

type assetError struct {
	public error
	err    error
}

func (e *assetError) Error() string { return e.err.Error() }

func (e *assetError) Unwrap() error { return e.public }
