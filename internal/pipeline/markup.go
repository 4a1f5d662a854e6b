package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// RendererConfig holds the collaborators of a MarkupRenderer.
// Nil fields get defaults: ChromaHighlighter with DefaultHighlightStyle,
// AllowListSanitizer and DefaultPolicy.
type RendererConfig struct {
	Extensions  Extensions
	Highlighter Highlighter
	Sanitizer   Sanitizer
	Policy      *Policy

	// SourceDir, when set, turns relative link and image destinations into
	// file:// URLs under it.
	SourceDir string
}

// MarkupRenderer runs parse, transform, render and sanitize.
// It holds no per-render state and is safe for concurrent use.
type MarkupRenderer struct {
	parser      *Parser
	highlighter Highlighter
	sanitizer   Sanitizer
	policy      *Policy
	sourceDir   string
}

// NewMarkupRenderer creates a MarkupRenderer from cfg.
func NewMarkupRenderer(cfg RendererConfig) *MarkupRenderer {
	r := &MarkupRenderer{
		parser:      NewParser(cfg.Extensions),
		highlighter: cfg.Highlighter,
		sanitizer:   cfg.Sanitizer,
		policy:      cfg.Policy,
		sourceDir:   cfg.SourceDir,
	}
	if r.highlighter == nil {
		r.highlighter = NewChromaHighlighter(DefaultHighlightStyle)
	}
	if r.sanitizer == nil {
		r.sanitizer = &AllowListSanitizer{}
	}
	if r.policy == nil {
		r.policy = sharedDefaultPolicy()
	}
	return r
}

// Render converts Markdown source into a sanitized HTML fragment.
func (r *MarkupRenderer) Render(source string) string {
	events := r.parser.Parse(source)
	if r.sourceDir != "" {
		events = RewriteRelativeLinks(events, r.sourceDir)
	}
	events = Transduce(events, r.highlighter)
	out := RenderHTML(events, RenderOptions{TagFilter: r.parser.Extensions().TagFilter})
	return r.sanitizer.Sanitize(out, r.policy)
}

// RenderMarkup converts source into an HTML fragment with the default
// highlighter and the default policy. With bypass set, sanitization is
// skipped and the rendered markup is returned as is.
func RenderMarkup(source string, ext Extensions, bypass bool) string {
	policy := DefaultPolicy()
	policy.Bypass = bypass
	return NewMarkupRenderer(RendererConfig{Extensions: ext, Policy: policy}).Render(source)
}

// MarkupConverter adapts a MarkupRenderer to HTMLConverter.
type MarkupConverter struct {
	renderer *MarkupRenderer
}

// NewMarkupConverter creates a MarkupConverter around r.
func NewMarkupConverter(r *MarkupRenderer) *MarkupConverter {
	return &MarkupConverter{renderer: r}
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// rendering doesn't natively support context.
func (c *MarkupConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, r)}
			}
		}()
		done <- result{html: c.renderer.Render(content)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// Compile-time interface check.
var _ HTMLConverter = (*MarkupConverter)(nil)
