package mdpdf

import (
	"errors"

	"github.com/cobalt-rocks/mdpdf/internal/pipeline"
)

// Input errors, reported before any rendering starts.
var (
	ErrEmptyMarkdown         = errors.New("empty markdown input")
	ErrUnknownExtension      = pipeline.ErrUnknownExtension
	ErrInvalidPolicy         = pipeline.ErrInvalidPolicy
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
	ErrInvalidPageSize       = errors.New("invalid page size")
	ErrInvalidOrientation    = errors.New("invalid orientation")
	ErrInvalidMargin         = errors.New("invalid margin")
	ErrInvalidLicense        = errors.New("invalid license")
	ErrLicenseRequiresName   = errors.New("license needs an author name")
	ErrInvalidLang           = errors.New("invalid language")
)

// Asset errors. They wrap the internal asset sentinels so callers can
// match them without importing internal packages.
var (
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set is incomplete")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)

// Rendering errors.
var (
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrDocumentRender = pipeline.ErrDocumentRender
	ErrFooterRender   = pipeline.ErrFooterRender
)

// Browser errors.
var (
	ErrBrowserConnect = errors.New("browser connection failed")
	ErrPageCreate     = errors.New("browser page creation failed")
	ErrPageLoad       = errors.New("page load failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
