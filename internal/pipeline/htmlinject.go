package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

var (
	// ErrDocumentRender indicates the document template failed to execute.
	ErrDocumentRender = errors.New("document template rendering failed")
	// ErrFooterRender indicates the footer template failed to execute.
	ErrFooterRender = errors.New("footer template rendering failed")
)

// CSSInjector places a stylesheet into a complete HTML document.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// StyleBlock injects CSS as an inline <style> element.
type StyleBlock struct{}

// InjectCSS puts the style element before </head>, else right after the
// <body> tag, else in front of the document. Case of the tags is ignored.
func (StyleBlock) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	block := "<style>" + escapeStyleText(cssContent) + "</style>"
	at := styleInsertPoint(htmlContent)
	return htmlContent[:at] + block + htmlContent[at:]
}

func styleInsertPoint(doc string) int {
	lower := strings.ToLower(doc)
	if i := strings.Index(lower, "</head>"); i >= 0 {
		return i
	}
	if i := strings.Index(lower, "<body"); i >= 0 {
		if end := strings.IndexByte(doc[i:], '>'); end >= 0 {
			return i + end + 1
		}
	}
	return 0
}

// escapeStyleText keeps stylesheet text from closing the element it sits in.
func escapeStyleText(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// DocumentData holds the values of the document template.
type DocumentData struct {
	Title string
	Lang  string
	// Body is the sanitized fragment; it is inserted without escaping.
	Body template.HTML
}

// DocumentWrapper wraps a fragment into a standalone HTML document.
type DocumentWrapper interface {
	WrapDocument(ctx context.Context, data *DocumentData) (string, error)
}

// FooterData holds the values of the page footer template.
type FooterData struct {
	Name       string // author shown after "Created by"
	Date       string // preformatted
	Text       string
	License    string // label, e.g. "CC BY-SA 4.0"
	LicenseURL string
}

// FooterRenderer renders the footer printed on every page.
type FooterRenderer interface {
	RenderFooter(ctx context.Context, data *FooterData) (string, error)
}

// pageTemplate is a parsed html/template tied to the sentinel its
// execution failures wrap.
type pageTemplate struct {
	tmpl    *template.Template
	failure error
}

func parsePageTemplate(name, text string, failure error) (pageTemplate, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return pageTemplate{}, fmt.Errorf("parsing %s template: %w", name, err)
	}
	return pageTemplate{tmpl: tmpl, failure: failure}, nil
}

func (p pageTemplate) execute(ctx context.Context, data any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("%w: %v", p.failure, err)
	}
	return sb.String(), nil
}

// DocumentTemplate renders the standalone document around a fragment.
type DocumentTemplate struct {
	page pageTemplate
}

// NewDocumentTemplate parses text as an html/template document.
func NewDocumentTemplate(text string) (*DocumentTemplate, error) {
	page, err := parsePageTemplate("document", text, ErrDocumentRender)
	if err != nil {
		return nil, err
	}
	return &DocumentTemplate{page: page}, nil
}

// WrapDocument renders data, defaulting Lang to "en". A nil data renders
// an empty document.
func (d *DocumentTemplate) WrapDocument(ctx context.Context, data *DocumentData) (string, error) {
	values := DocumentData{}
	if data != nil {
		values = *data
	}
	if values.Lang == "" {
		values.Lang = "en"
	}
	return d.page.execute(ctx, values)
}

// FooterTemplate renders the footer printed on every PDF page.
type FooterTemplate struct {
	page pageTemplate
}

// NewFooterTemplate parses text as an html/template footer.
func NewFooterTemplate(text string) (*FooterTemplate, error) {
	page, err := parsePageTemplate("footer", text, ErrFooterRender)
	if err != nil {
		return nil, err
	}
	return &FooterTemplate{page: page}, nil
}

// RenderFooter returns "" for nil data.
func (f *FooterTemplate) RenderFooter(ctx context.Context, data *FooterData) (string, error) {
	if data == nil {
		return "", nil
	}
	return f.page.execute(ctx, data)
}

var (
	_ CSSInjector     = StyleBlock{}
	_ DocumentWrapper = (*DocumentTemplate)(nil)
	_ FooterRenderer  = (*FooterTemplate)(nil)
)
