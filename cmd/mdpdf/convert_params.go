package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cobalt-rocks/mdpdf"
	"github.com/cobalt-rocks/mdpdf/internal/config"
)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	title      string // Explicit title; empty = input file name
	lang       string
	extensions *mdpdf.Extensions
	unsafe     bool
	policy     *mdpdf.Policy
	theme      string
	css        string
	footer     *mdpdf.Footer
	page       *mdpdf.PageSettings
	keep       bool
	htmlOnly   bool
}

// buildConversionParams resolves the merged config into conversion inputs.
func buildConversionParams(flags *convertFlags, cfg *config.Config, now time.Time, out *printer) (*conversionParams, error) {
	params := &conversionParams{
		title:    flags.document.title,
		lang:     cfg.Lang,
		unsafe:   cfg.Markdown.Unsafe,
		theme:    cfg.Style.Theme,
		css:      readStylesheet(cfg.Style.Stylesheet, out),
		keep:     cfg.Output.Keep,
		htmlOnly: cfg.Output.HTMLOnly,
	}

	if len(cfg.Markdown.Extensions) > 0 {
		ext, err := mdpdf.ParseExtensions(cfg.Markdown.Extensions)
		if err != nil {
			return nil, err
		}
		params.extensions = &ext
	}

	if !params.unsafe {
		policy, err := buildPolicy(cfg.Sanitize)
		if err != nil {
			return nil, err
		}
		params.policy = policy
	}

	footer, err := buildFooter(cfg, now)
	if err != nil {
		return nil, err
	}
	params.footer = footer

	params.page = buildPageSettings(cfg, flags.page.margin, out)

	return params, nil
}

// buildPageSettings merges page config over the defaults.
func buildPageSettings(cfg *config.Config, marginFlag string, out *printer) *mdpdf.PageSettings {
	page := mdpdf.DefaultPageSettings()
	if cfg.Page.Size != "" {
		page.Size = strings.ToLower(cfg.Page.Size)
	}
	if cfg.Page.Orientation != "" {
		page.Orientation = strings.ToLower(cfg.Page.Orientation)
	}
	page.Margin = resolveMargin(marginFlag, cfg.Page.Margin, out)
	return page
}

// resolveMargin parses the --margin flag leniently: anything that is not a
// number within bounds prints an info message and yields the default.
// Without the flag, a non-zero config margin is used.
func resolveMargin(flagValue string, cfgMargin float64, out *printer) float64 {
	if flagValue == "" {
		if cfgMargin != 0 {
			return cfgMargin
		}
		return mdpdf.DefaultMargin
	}

	m, err := strconv.ParseFloat(strings.TrimSpace(flagValue), 64)
	if err != nil || m < mdpdf.MinMargin || m > mdpdf.MaxMargin {
		out.Info("Invalid Margin supplied")
		return mdpdf.DefaultMargin
	}
	return m
}

// buildFooter returns the footer for the author, or nil when there is
// neither an author nor footer.enabled in the config.
// A date or license without an author is an error.
func buildFooter(cfg *config.Config, now time.Time) (*mdpdf.Footer, error) {
	name := strings.TrimSpace(cfg.Author.Name)
	if name == "" {
		if cfg.Footer.Date != "" {
			return nil, ErrDateRequiresName
		}
		if cfg.Footer.License != "" {
			return nil, mdpdf.ErrLicenseRequiresName
		}
		if !cfg.Footer.Enabled {
			return nil, nil
		}
	}

	footer := &mdpdf.Footer{Name: name, Text: cfg.Footer.Text}

	if cfg.Footer.Date != "" {
		date, err := mdpdf.ResolveDateIn(cfg.Footer.Date, now, cfg.Lang)
		if err != nil {
			return nil, fmt.Errorf("footer date: %w", err)
		}
		footer.Date = date
	}

	if cfg.Footer.License != "" {
		license, err := mdpdf.ParseLicense(cfg.Footer.License)
		if err != nil {
			return nil, err
		}
		footer.License = license
	}

	return footer, nil
}

// buildPolicy starts from the configured preset and adds the extra
// elements, attributes, values and URL schemes.
func buildPolicy(s config.SanitizeConfig) (*mdpdf.Policy, error) {
	var policy *mdpdf.Policy
	switch strings.ToLower(s.Preset) {
	case "", config.PresetDefault:
		policy = mdpdf.DefaultPolicy()
	case config.PresetNarrow:
		policy = mdpdf.NarrowPolicy()
	case config.PresetNone:
		policy = &mdpdf.Policy{}
	default:
		return nil, fmt.Errorf("%w: sanitize.preset %q", config.ErrInvalidValue, s.Preset)
	}

	if len(s.Elements) > 0 && policy.Elements == nil {
		policy.Elements = make(map[string][]string, len(s.Elements))
	}
	for tag, attrs := range s.Elements {
		policy.Elements[strings.ToLower(tag)] = append(policy.Elements[strings.ToLower(tag)], attrs...)
	}

	policy.GlobalAttributes = append(policy.GlobalAttributes, s.GlobalAttributes...)

	if len(s.Values) > 0 && policy.Values == nil {
		policy.Values = make(map[string]map[string][]string, len(s.Values))
	}
	for tag, attrs := range s.Values {
		tag = strings.ToLower(tag)
		if policy.Values[tag] == nil {
			policy.Values[tag] = make(map[string][]string, len(attrs))
		}
		for attr, values := range attrs {
			policy.Values[tag][attr] = append(policy.Values[tag][attr], values...)
		}
	}

	policy.URLSchemes = append(policy.URLSchemes, s.URLSchemes...)

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// readStylesheet reads the additional stylesheet.
// A missing or unreadable file is a warning; the default style still applies.
func readStylesheet(path string, out *printer) string {
	if path == "" {
		return ""
	}

	info, err := os.Stat(path)
	if err != nil {
		out.Warning("Selected stylesheet wasn't found. Falling back to default")
		return ""
	}
	if info.IsDir() {
		out.Warning("Selected stylesheet isn't a file. Falling back to default")
		return ""
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided stylesheet path
	if err != nil {
		out.Warning(fmt.Sprintf("Selected stylesheet couldn't be read (%v). Falling back to default", err))
		return ""
	}
	return string(data)
}

// titleFor returns the document title for a file: the explicit title,
// else the file name without its Markdown extension.
func titleFor(explicit, inputPath string) string {
	if explicit != "" {
		return explicit
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
