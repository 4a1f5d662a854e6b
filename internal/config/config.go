package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cobalt-rocks/mdpdf/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxNameLength        = 100  // Author name
	MaxDateLength        = 30   // "2025-12-31" or "auto:footer"
	MaxTextLength        = 500  // Footer free-form text
	MaxLicenseLength     = 20   // "by-nc-sa"
	MaxPathLength        = 4096 // Filesystem paths
	MaxPageSizeLength    = 10   // "a4"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxThemeLength       = 50   // "night"
	MaxExtensionLength   = 30   // "description_lists"
	MaxLangLength        = 10   // "en", "de"
)

// Sanitization presets.
const (
	PresetDefault = "default"
	PresetNarrow  = "narrow"
	PresetNone    = "none"
)

// Config holds all configuration for document generation.
// Zero values mean "not set"; CLI flags override any field.
type Config struct {
	Author    AuthorConfig    `yaml:"author"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Sanitize  SanitizeConfig  `yaml:"sanitize"`
	Highlight HighlightConfig `yaml:"highlight"`
	Style     StyleConfig     `yaml:"style"`
	Footer    FooterConfig    `yaml:"footer"`
	Page      PageConfig      `yaml:"page"`
	Assets    AssetsConfig    `yaml:"assets"`
	Output    OutputConfig    `yaml:"output"`
	Lang      string          `yaml:"lang"` // "en" (default), "de"
}

// AuthorConfig identifies the author printed in the footer.
type AuthorConfig struct {
	Name string `yaml:"name"`
}

// MarkdownConfig selects parser behavior.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"` // Empty = default set
	Unsafe     bool     `yaml:"unsafe"`     // Skip sanitization
}

// SanitizeConfig describes the HTML allow-list.
// Elements, GlobalAttributes, Values and URLSchemes extend the preset.
type SanitizeConfig struct {
	Preset           string                         `yaml:"preset"` // "default", "narrow", "none"
	Elements         map[string][]string            `yaml:"elements"`
	GlobalAttributes []string                       `yaml:"globalAttributes"`
	Values           map[string]map[string][]string `yaml:"values"`
	URLSchemes       []string                       `yaml:"urlSchemes"`
}

// HighlightConfig selects the code highlighting style.
type HighlightConfig struct {
	Style string `yaml:"style"` // chroma style name (default: monokai)
}

// StyleConfig defines the document theme and extra stylesheet.
type StyleConfig struct {
	Theme      string `yaml:"theme"`      // "light", "lime", "night"
	Stylesheet string `yaml:"stylesheet"` // Path to additional CSS
}

// FooterConfig defines page footer options.
type FooterConfig struct {
	Enabled bool   `yaml:"enabled"`
	Date    string `yaml:"date"`    // Literal or "auto[:FORMAT]"
	Text    string `yaml:"text"`    // Text before the author name
	License string `yaml:"license"` // CC 4.0 variant, e.g. "by-sa"
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "a3", "a4", "a5", "a6" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // millimeters (default: 10)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// OutputConfig defines output options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Used when OUTPUT is omitted
	Keep       bool   `yaml:"keep"`       // Keep the assembled HTML document
	HTMLOnly   bool   `yaml:"htmlOnly"`   // Write HTML instead of PDF
}

// Validate checks field lengths and enumerated values. LoadConfig calls it;
// callers building a Config by hand should too.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"author.name", c.Author.Name, MaxNameLength},
		{"footer.date", c.Footer.Date, MaxDateLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"footer.license", c.Footer.License, MaxLicenseLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"style.theme", c.Style.Theme, MaxThemeLength},
		{"style.stylesheet", c.Style.Stylesheet, MaxPathLength},
		{"highlight.style", c.Highlight.Style, MaxThemeLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"lang", c.Lang, MaxLangLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	for i, ext := range c.Markdown.Extensions {
		if err := validateFieldLength(fmt.Sprintf("markdown.extensions[%d]", i), ext, MaxExtensionLength); err != nil {
			return err
		}
	}

	if c.Page.Margin < 0 {
		return fmt.Errorf("%w: page.margin must not be negative, got %.2f", ErrInvalidValue, c.Page.Margin)
	}

	switch strings.ToLower(c.Sanitize.Preset) {
	case "", PresetDefault, PresetNarrow, PresetNone:
	default:
		return fmt.Errorf("%w: sanitize.preset %q (must be %s, %s, or %s)",
			ErrInvalidValue, c.Sanitize.Preset, PresetDefault, PresetNarrow, PresetNone)
	}

	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with every field unset.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads, decodes and validates a config file. nameOrPath is
// either a path (it contains a separator) or a bare
// name looked up in SearchPaths. A missing file is always an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	path := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		candidates := SearchPaths(nameOrPath)
		i := slices.IndexFunc(candidates, fileutil.FileExists)
		if i < 0 {
			return nil, fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(candidates, ", "))
		}
		path = candidates[i]
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path chosen by the user
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// the working directory first, then <user config dir>/mdpdf.
func SearchPaths(name string) []string {
	dirs := []string{""}
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, "mdpdf"))
	}

	var paths []string
	for _, dir := range dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			paths = append(paths, filepath.Join(dir, name+ext))
		}
	}
	return paths
}
