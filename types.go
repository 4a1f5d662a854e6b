package mdpdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/cobalt-rocks/mdpdf/internal/pipeline"
)

// Page size constants (ISO 216 A series).
const (
	PageSizeA3 = "a3"
	PageSizeA4 = "a4"
	PageSizeA5 = "a5"
	PageSizeA6 = "a6"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in millimeters.
const (
	MinMargin     = 0.0
	MaxMargin     = 50.0
	DefaultMargin = 10.0
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "a3", "a4", "a5", "a6"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // millimeters, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q (must be a3, a4, a5, or a6)", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.0f and %.0f mm)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Document languages.
const (
	LangEnglish = "en"
	LangGerman  = "de"
)

// defaultFooterText maps a document language to the text before the author.
var defaultFooterText = map[string]string{
	LangEnglish: "Created by",
	LangGerman:  "Erstellt von",
}

// License is a Creative Commons 4.0 license variant.
type License string

// Creative Commons 4.0 variants.
const (
	LicenseBY     License = "by"
	LicenseBYSA   License = "by-sa"
	LicenseBYND   License = "by-nd"
	LicenseBYNC   License = "by-nc"
	LicenseBYNCSA License = "by-nc-sa"
	LicenseBYNCND License = "by-nc-nd"
)

// Licenses lists the supported license variants.
func Licenses() []License {
	return []License{LicenseBY, LicenseBYSA, LicenseBYND, LicenseBYNC, LicenseBYNCSA, LicenseBYNCND}
}

// ParseLicense parses a license variant such as "by-sa" or "CC-BY-SA".
func ParseLicense(s string) (License, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "cc-")
	for _, l := range Licenses() {
		if License(name) == l {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLicense, s)
}

// Label returns the display name, e.g. "CC BY-SA 4.0".
func (l License) Label() string {
	return "CC " + strings.ToUpper(string(l)) + " 4.0"
}

// URL returns the license deed URL.
func (l License) URL() string {
	return "https://creativecommons.org/licenses/" + string(l) + "/4.0/"
}

// Footer configures the footer printed on every PDF page.
type Footer struct {
	Name    string  // Author, printed after Text
	Date    string  // Preformatted; empty means today (see FooterDate)
	Text    string  // Defaults to the document language's "Created by"
	License License // Optional; requires Name
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil || f.License == "" {
		return nil
	}
	if _, err := ParseLicense(string(f.License)); err != nil {
		return err
	}
	if strings.TrimSpace(f.Name) == "" {
		return ErrLicenseRequiresName
	}
	return nil
}

// Markdown extension and sanitization types.
type (
	// Extensions selects the optional Markdown syntax.
	Extensions = pipeline.Extensions

	// Policy is the HTML allow-list applied to rendered Markdown.
	Policy = pipeline.Policy

	// Highlighter colorizes fenced code blocks.
	Highlighter = pipeline.Highlighter

	// Sanitizer enforces a Policy on rendered HTML.
	Sanitizer = pipeline.Sanitizer
)

// DefaultExtensions returns footnotes, tables, task lists, strikethrough
// and smart punctuation.
func DefaultExtensions() Extensions { return pipeline.DefaultExtensions() }

// AllExtensions returns every supported extension enabled.
func AllExtensions() Extensions { return pipeline.AllExtensions() }

// ParseExtensions maps extension names to Extensions.
// Returns ErrUnknownExtension for unrecognized names.
func ParseExtensions(names []string) (Extensions, error) { return pipeline.ParseExtensions(names) }

// ExtensionNames lists the recognized extension names, sorted.
func ExtensionNames() []string { return pipeline.ExtensionNames() }

// DefaultPolicy returns the permissive allow-list, which keeps task checkboxes.
func DefaultPolicy() *Policy { return pipeline.DefaultPolicy() }

// NarrowPolicy returns the strict allow-list.
func NarrowPolicy() *Policy { return pipeline.NarrowPolicy() }

// HasHighlightStyle reports whether name is a known highlight style.
func HasHighlightStyle(name string) bool { return pipeline.HasHighlightStyle(name) }

// Input contains conversion parameters.
type Input struct {
	Markdown   string        // Markdown content (required)
	SourceDir  string        // Base for relative links and images (optional)
	Title      string        // Document title; empty = first heading
	Lang       string        // "en" (default) or "de"
	Extensions *Extensions   // nil = DefaultExtensions()
	Unsafe     bool          // Skip sanitization
	Policy     *Policy       // nil = DefaultPolicy()
	Theme      string        // Built-in or custom theme name; empty = "light"
	CSS        string        // Custom CSS appended after the theme (optional)
	Footer     *Footer       // Footer config (optional)
	Page       *PageSettings // Page settings (optional, nil = defaults)
	HTMLOnly   bool          // Skip PDF generation
}

// ConvertResult holds the outputs of a conversion.
type ConvertResult struct {
	HTML     []byte   // Standalone HTML document
	PDF      []byte   // nil when Input.HTMLOnly is set
	Title    string   // Resolved document title
	Warnings []string // Non-fatal problems, e.g. ignored CSS
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	assetPath      string
	templateSet    string
	highlightStyle string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdpdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithAssetPath loads themes and templates from a directory, falling back
// to the embedded assets for anything it does not provide.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader. Takes precedence over WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.customLoader = loader
	}
}

// WithTemplateSet selects the template set by name (default: "default").
func WithTemplateSet(name string) Option {
	return func(c *Converter) {
		c.cfg.templateSet = name
	}
}

// WithHighlightStyle selects the chroma style for code blocks.
// NewConverter returns ErrUnknownHighlightStyle for unknown names.
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithHighlighter replaces the code highlighter. Takes precedence over WithHighlightStyle.
func WithHighlighter(h Highlighter) Option {
	return func(c *Converter) {
		c.highlighter = h
	}
}

// WithSanitizer replaces the HTML sanitizer.
func WithSanitizer(s Sanitizer) Option {
	return func(c *Converter) {
		c.sanitizer = s
	}
}
