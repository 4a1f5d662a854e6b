package mdpdf

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/cobalt-rocks/mdpdf/internal/assets"
	"github.com/cobalt-rocks/mdpdf/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.CSSInjector          = pipeline.StyleBlock{}
	_ pipeline.DocumentWrapper      = (*pipeline.DocumentTemplate)(nil)
	_ pipeline.FooterRenderer       = (*pipeline.FooterTemplate)(nil)
)

// Converter orchestrates the Markdown to PDF conversion pipeline.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
// A Converter may be used by one goroutine at a time; use ConverterPool for
// parallel work.
type Converter struct {
	cfg          converterConfig
	assetLoader  AssetLoader
	customLoader AssetLoader // from WithAssetLoader
	preprocessor pipeline.MarkdownPreprocessor
	highlighter  Highlighter
	sanitizer    Sanitizer
	cssInjector  pipeline.CSSInjector
	document     pipeline.DocumentWrapper
	footer       pipeline.FooterRenderer
	pdfConverter pdfConverter
	now          func() time.Time
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithAssetPath, WithHighlightStyle).
// Returns error if asset loading or template parsing fails.
// The browser is started lazily by the first PDF conversion.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:        defaultTimeout,
			templateSet:    DefaultTemplateSet,
			highlightStyle: pipeline.DefaultHighlightStyle,
		},
		assetLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		sanitizer:    &pipeline.AllowListSanitizer{},
		cssInjector:  pipeline.StyleBlock{},
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, convertAssetError(err)
		}
		c.assetLoader = resolver
	}

	// WithAssetLoader takes precedence over WithAssetPath
	if c.customLoader != nil {
		c.assetLoader = c.customLoader
	}

	if c.highlighter == nil {
		if !pipeline.HasHighlightStyle(c.cfg.highlightStyle) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, c.cfg.highlightStyle)
		}
		c.highlighter = pipeline.NewChromaHighlighter(c.cfg.highlightStyle)
	}

	ts, err := c.assetLoader.LoadTemplateSet(c.cfg.templateSet)
	if err != nil {
		return nil, fmt.Errorf("loading template set %q: %w", c.cfg.templateSet, convertAssetError(err))
	}

	// Templates may be injected by tests
	if c.document == nil {
		c.document, err = pipeline.NewDocumentTemplate(ts.Document)
		if err != nil {
			return nil, fmt.Errorf("initializing document template: %w", err)
		}
	}
	if c.footer == nil {
		c.footer, err = pipeline.NewFooterTemplate(ts.Footer)
		if err != nil {
			return nil, fmt.Errorf("initializing footer template: %w", err)
		}
	}

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Convert runs the full pipeline and returns the result containing HTML and PDF.
// The context is used for cancellation and timeout.
// If input.HTMLOnly is true, PDF generation is skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	mdContent := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	renderer := pipeline.NewMarkupRenderer(pipeline.RendererConfig{
		Extensions:  resolveExtensions(input.Extensions),
		Highlighter: c.highlighter,
		Sanitizer:   c.sanitizer,
		Policy:      resolvePolicy(input.Policy, input.Unsafe),
		SourceDir:   input.SourceDir,
	})
	fragment, err := pipeline.NewMarkupConverter(renderer).ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	title := input.Title
	if title == "" {
		title = pipeline.ExtractTitle(fragment)
	}

	themeCSS, err := c.loadTheme(input.Theme)
	if err != nil {
		return nil, err
	}
	cssContent, warnings := buildStylesheet(themeCSS, input.CSS)

	lang := resolveLang(input.Lang)
	htmlContent, err := c.document.WrapDocument(ctx, &pipeline.DocumentData{
		Title: title,
		Lang:  lang,
		Body:  template.HTML(fragment), // #nosec G203 -- fragment is sanitized unless Unsafe was requested
	})
	if err != nil {
		return nil, fmt.Errorf("wrapping document: %w", err)
	}

	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	res := &ConvertResult{
		HTML:     []byte(htmlContent),
		Title:    title,
		Warnings: warnings,
	}

	if input.HTMLOnly {
		return res, nil
	}

	footerHTML, err := c.footer.RenderFooter(ctx, c.toFooterData(input.Footer, lang))
	if err != nil {
		return nil, fmt.Errorf("rendering footer: %w", err)
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{
		Footer: footerHTML,
		Page:   input.Page,
	})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	res.PDF = pdfBytes
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// loadTheme returns the stylesheet of the named theme, the default theme
// when name is empty.
func (c *Converter) loadTheme(name string) (string, error) {
	if name == "" {
		name = DefaultTheme
	}
	css, err := c.assetLoader.LoadStyle(name)
	if err != nil {
		return "", fmt.Errorf("loading theme %q: %w", name, convertAssetError(err))
	}
	return css, nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their input validated earlier by Config.Validate() at config load time.
func (c *Converter) validateInput(input Input) error {
	if strings.TrimSpace(input.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	if input.Lang != "" {
		if _, ok := defaultFooterText[strings.ToLower(input.Lang)]; !ok {
			return fmt.Errorf("%w: %q (must be en or de)", ErrInvalidLang, input.Lang)
		}
	}
	if input.Policy != nil && !input.Unsafe {
		if err := input.Policy.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// toFooterData fills footer defaults and converts to pipeline.FooterData.
// Returns nil when no footer is configured.
func (c *Converter) toFooterData(f *Footer, lang string) *pipeline.FooterData {
	if f == nil {
		return nil
	}
	data := &pipeline.FooterData{
		Name: strings.TrimSpace(f.Name),
		Date: f.Date,
		Text: f.Text,
	}
	if data.Date == "" {
		data.Date = FooterDate(c.now(), lang)
	}
	if data.Text == "" {
		data.Text = defaultFooterText[lang]
	}
	if f.License != "" {
		// Validated by Footer.Validate
		l, _ := ParseLicense(string(f.License))
		data.License = l.Label()
		data.LicenseURL = l.URL()
	}
	return data
}

// resolveExtensions returns the extensions to render with.
func resolveExtensions(ext *Extensions) Extensions {
	if ext == nil {
		return DefaultExtensions()
	}
	return *ext
}

// sharedDefaultPolicy is used when Input.Policy is nil. It is never
// modified, so the sanitizer compiles it once for all conversions.
var sharedDefaultPolicy = sync.OnceValue(DefaultPolicy)

// resolvePolicy returns the allow-list to sanitize with. Unsafe yields a
// bypassing copy so the caller's policy is never mutated.
func resolvePolicy(p *Policy, unsafe bool) *Policy {
	if p == nil {
		p = sharedDefaultPolicy()
	}
	if !unsafe {
		return p
	}
	bypass := *p
	bypass.Bypass = true
	return &bypass
}

// resolveLang normalizes the document language, defaulting to English.
func resolveLang(lang string) string {
	if lang == "" {
		return LangEnglish
	}
	return strings.ToLower(lang)
}
