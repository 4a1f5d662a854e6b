package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/util"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "monokai"

// Highlighter turns a code block into themed HTML.
// Implementations must be total: unknown languages fall back to plain text
// and the result is never empty for non-empty input.
type Highlighter interface {
	Highlight(source, lang string) string
}

// ChromaHighlighter highlights code with chroma using inline styles,
// so the output carries its theme without an external stylesheet.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter using the named chroma style.
// Unknown style names fall back to chroma's default style.
func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	return &ChromaHighlighter{
		style: styles.Get(styleName),
		formatter: chromahtml.New(
			chromahtml.WithClasses(false), // inline styles survive the allow-list
			chromahtml.TabWidth(4),
		),
	}
}

// HasHighlightStyle reports whether chroma knows the named style.
func HasHighlightStyle(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}

// Highlight returns source as highlighted HTML.
// The lexer is looked up by lang; unknown or empty tokens use plain text.
func (h *ChromaHighlighter) Highlight(source, lang string) string {
	lexer := lexers.Get(lang)
	if lang == "" || lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return plainCodeHTML(source)
	}

	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, iterator); err != nil {
		return plainCodeHTML(source)
	}
	return b.String()
}

// plainCodeHTML renders source without highlighting.
func plainCodeHTML(source string) string {
	return "<pre><code>" + string(util.EscapeHTML([]byte(source))) + "</code></pre>"
}

// Compile-time interface check.
var _ Highlighter = (*ChromaHighlighter)(nil)
