package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"
)

// RenderOptions configures RenderHTML.
type RenderOptions struct {
	// TagFilter escapes the GFM-disallowed raw HTML tags.
	TagFilter bool
}

// disallowedRawTag matches the opening bracket of tags GFM's tag filter escapes.
var disallowedRawTag = regexp.MustCompile(`(?i)<(/?(?:title|textarea|style|xmp|iframe|noembed|noframes|script|plaintext))([\s/>]|$)`)

// filterTags escapes disallowed raw HTML tags.
func filterTags(s string) string {
	return disallowedRawTag.ReplaceAllString(s, "&lt;$1$2")
}

// htmlWriter serializes events and tracks the little context some
// containers need (table sections, column alignment, image alt text).
type htmlWriter struct {
	b    strings.Builder
	opts RenderOptions

	tableAlign []Alignment
	inHead     bool
	column     int
	altDepth   int
}

// RenderHTML serializes an event stream into an HTML fragment.
func RenderHTML(events []Event, opts RenderOptions) string {
	w := &htmlWriter{opts: opts}
	for _, ev := range events {
		w.event(ev)
	}
	return w.b.String()
}

func (w *htmlWriter) escape(s string) {
	w.b.Write(util.EscapeHTML([]byte(s)))
}

func (w *htmlWriter) escapeURL(s string) {
	w.b.Write(util.EscapeHTML(util.URLEscape([]byte(s), true)))
}

func (w *htmlWriter) event(ev Event) {
	if w.altDepth > 0 {
		w.altText(ev)
		return
	}

	switch ev.Kind {
	case EventStart:
		w.start(ev.Tag)
	case EventEnd:
		w.end(ev.Tag)
	case EventText:
		w.escape(ev.Text)
	case EventCode:
		w.b.WriteString("<code>")
		w.escape(ev.Text)
		w.b.WriteString("</code>")
	case EventHTML:
		if w.opts.TagFilter {
			w.b.WriteString(filterTags(ev.Text))
		} else {
			w.b.WriteString(ev.Text)
		}
	case EventSoftBreak:
		w.b.WriteByte('\n')
	case EventHardBreak:
		w.b.WriteString("<br />\n")
	case EventRule:
		w.b.WriteString("<hr />\n")
	case EventTaskMarker:
		if ev.Checked {
			w.b.WriteString(`<input disabled="" type="checkbox" checked="" />`)
		} else {
			w.b.WriteString(`<input disabled="" type="checkbox" />`)
		}
	case EventFootnoteRef:
		w.b.WriteString(`<sup class="footnote-reference"><a href="#fn-`)
		w.escape(ev.Label)
		w.b.WriteString(`">`)
		w.escape(ev.Label)
		w.b.WriteString("</a></sup>")
	default:
		panic("pipeline: unhandled event kind " + ev.Kind.String())
	}
}

// altText collects the text of an image description into its alt attribute.
func (w *htmlWriter) altText(ev Event) {
	switch ev.Kind {
	case EventText, EventCode:
		w.escape(ev.Text)
	case EventSoftBreak, EventHardBreak:
		w.b.WriteByte(' ')
	case EventStart:
		if ev.Tag.Kind == TagImage {
			w.altDepth++
		}
	case EventEnd:
		if ev.Tag.Kind != TagImage {
			return
		}
		w.altDepth--
		if w.altDepth == 0 {
			w.b.WriteByte('"')
			if ev.Tag.Title != "" {
				w.b.WriteString(` title="`)
				w.escape(ev.Tag.Title)
				w.b.WriteByte('"')
			}
			w.b.WriteString(" />")
		}
	}
}

func (w *htmlWriter) start(tag Tag) {
	switch tag.Kind {
	case TagParagraph:
		w.b.WriteString("<p>")
	case TagHeading:
		w.b.WriteString("<h" + strconv.Itoa(tag.Level))
		if tag.ID != "" {
			w.b.WriteString(` id="`)
			w.escape(tag.ID)
			w.b.WriteByte('"')
		}
		w.b.WriteByte('>')
	case TagBlockQuote:
		w.b.WriteString("<blockquote>\n")
	case TagCodeBlock:
		if tag.Fenced && tag.Lang != "" {
			w.b.WriteString(`<pre><code class="language-`)
			w.escape(tag.Lang)
			w.b.WriteString(`">`)
		} else {
			w.b.WriteString("<pre><code>")
		}
	case TagList:
		switch {
		case !tag.Ordered:
			w.b.WriteString("<ul>\n")
		case tag.Start != 1:
			w.b.WriteString(`<ol start="` + strconv.Itoa(tag.Start) + "\">\n")
		default:
			w.b.WriteString("<ol>\n")
		}
	case TagItem:
		w.b.WriteString("<li>")
	case TagTable:
		w.tableAlign = tag.Align
		w.b.WriteString("<table>")
	case TagTableHead:
		w.inHead = true
		w.column = 0
		w.b.WriteString("<thead><tr>")
	case TagTableRow:
		w.column = 0
		w.b.WriteString("<tr>")
	case TagTableCell:
		if w.inHead {
			w.b.WriteString("<th")
		} else {
			w.b.WriteString("<td")
		}
		if w.column < len(w.tableAlign) {
			switch w.tableAlign[w.column] {
			case AlignLeft:
				w.b.WriteString(` style="text-align: left"`)
			case AlignCenter:
				w.b.WriteString(` style="text-align: center"`)
			case AlignRight:
				w.b.WriteString(` style="text-align: right"`)
			}
		}
		w.b.WriteByte('>')
	case TagEmphasis:
		w.b.WriteString("<em>")
	case TagStrong:
		w.b.WriteString("<strong>")
	case TagStrikethrough:
		w.b.WriteString("<del>")
	case TagSuperscript:
		w.b.WriteString("<sup>")
	case TagLink:
		w.b.WriteString(`<a href="`)
		w.escapeURL(tag.Dest)
		w.b.WriteByte('"')
		if tag.Title != "" {
			w.b.WriteString(` title="`)
			w.escape(tag.Title)
			w.b.WriteByte('"')
		}
		w.b.WriteByte('>')
	case TagImage:
		w.b.WriteString(`<img src="`)
		w.escapeURL(tag.Dest)
		w.b.WriteString(`" alt="`)
		w.altDepth = 1
	case TagFootnoteDefinition:
		w.b.WriteString(`<div class="footnote-definition" id="fn-`)
		w.escape(tag.Label)
		w.b.WriteString(`"><sup class="footnote-definition-label">`)
		w.escape(tag.Label)
		w.b.WriteString("</sup>")
	case TagDefinitionList:
		w.b.WriteString("<dl>\n")
	case TagDefinitionTerm:
		w.b.WriteString("<dt>")
	case TagDefinitionDescription:
		w.b.WriteString("<dd>")
	default:
		panic("pipeline: unhandled tag kind " + tag.Kind.String())
	}
}

func (w *htmlWriter) end(tag Tag) {
	switch tag.Kind {
	case TagParagraph:
		w.b.WriteString("</p>\n")
	case TagHeading:
		w.b.WriteString("</h" + strconv.Itoa(tag.Level) + ">\n")
	case TagBlockQuote:
		w.b.WriteString("</blockquote>\n")
	case TagCodeBlock:
		w.b.WriteString("</code></pre>\n")
	case TagList:
		if tag.Ordered {
			w.b.WriteString("</ol>\n")
		} else {
			w.b.WriteString("</ul>\n")
		}
	case TagItem:
		w.b.WriteString("</li>\n")
	case TagTable:
		w.tableAlign = nil
		w.b.WriteString("</tbody></table>\n")
	case TagTableHead:
		w.inHead = false
		w.b.WriteString("</tr></thead><tbody>\n")
	case TagTableRow:
		w.b.WriteString("</tr>\n")
	case TagTableCell:
		if w.inHead {
			w.b.WriteString("</th>")
		} else {
			w.b.WriteString("</td>")
		}
		w.column++
	case TagEmphasis:
		w.b.WriteString("</em>")
	case TagStrong:
		w.b.WriteString("</strong>")
	case TagStrikethrough:
		w.b.WriteString("</del>")
	case TagSuperscript:
		w.b.WriteString("</sup>")
	case TagLink:
		w.b.WriteString("</a>")
	case TagImage:
		// Closed by altText.
	case TagFootnoteDefinition:
		w.b.WriteString("</div>\n")
	case TagDefinitionList:
		w.b.WriteString("</dl>\n")
	case TagDefinitionTerm:
		w.b.WriteString("</dt>\n")
	case TagDefinitionDescription:
		w.b.WriteString("</dd>\n")
	default:
		panic("pipeline: unhandled tag kind " + tag.Kind.String())
	}
}
