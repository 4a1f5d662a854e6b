package pipeline

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Parser turns markdown into the structural event stream.
// It delegates CommonMark parsing to goldmark and flattens the resulting
// tree into Start/End/leaf events in document order.
type Parser struct {
	md  goldmark.Markdown
	ext Extensions
}

// NewParser creates a Parser recognizing the given extensions.
func NewParser(ext Extensions) *Parser {
	var extenders []goldmark.Extender
	if ext.Tables {
		extenders = append(extenders, extension.Table)
	}
	if ext.Strikethrough {
		extenders = append(extenders, extension.Strikethrough)
	}
	if ext.Autolink {
		extenders = append(extenders, extension.Linkify)
	}
	if ext.TaskLists {
		extenders = append(extenders, extension.TaskList)
	}
	if ext.Footnotes {
		extenders = append(extenders, extension.Footnote)
	}
	if ext.DescriptionLists {
		extenders = append(extenders, extension.DefinitionList)
	}
	if ext.SmartPunctuation {
		extenders = append(extenders, extension.Typographer)
	}
	if ext.Superscript {
		extenders = append(extenders, superscriptExtension{})
	}

	var parserOpts []parser.Option
	if ext.HeaderIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extenders...),
		goldmark.WithParserOptions(parserOpts...),
	)
	return &Parser{md: md, ext: ext}
}

// Extensions returns the extensions this parser was built with.
func (p *Parser) Extensions() Extensions {
	return p.ext
}

// Parse returns the event stream of source.
func (p *Parser) Parse(source string) []Event {
	src := []byte(source)
	doc := p.md.Parser().Parse(text.NewReader(src))

	w := &eventWalker{source: src}
	// The walker never returns an error.
	_ = ast.Walk(doc, w.visit)
	return w.events
}

// eventWalker accumulates events while walking a goldmark tree.
type eventWalker struct {
	source []byte
	events []Event
}

func (w *eventWalker) emit(ev Event) {
	w.events = append(w.events, ev)
}

// container emits Start on entering and End on leaving.
func (w *eventWalker) container(tag Tag, entering bool) {
	if entering {
		w.emit(Start(tag))
	} else {
		w.emit(End(tag))
	}
}

func (w *eventWalker) visit(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	case *ast.Document, *ast.TextBlock, *east.FootnoteList:
		// Transparent: children carry the content.

	case *ast.Paragraph:
		w.container(Tag{Kind: TagParagraph}, entering)

	case *ast.Heading:
		tag := Tag{Kind: TagHeading, Level: n.Level}
		if id, ok := n.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				tag.ID = string(b)
			}
		}
		w.container(tag, entering)

	case *ast.ThematicBreak:
		if entering {
			w.emit(Event{Kind: EventRule})
		}

	case *ast.CodeBlock:
		tag := Tag{Kind: TagCodeBlock}
		w.container(tag, entering)
		if entering {
			w.lines(n.Lines())
		}
		return ast.WalkSkipChildren, nil

	case *ast.FencedCodeBlock:
		tag := FencedCode(string(n.Language(w.source)))
		w.container(tag, entering)
		if entering {
			w.lines(n.Lines())
		}
		return ast.WalkSkipChildren, nil

	case *ast.Blockquote:
		w.container(Tag{Kind: TagBlockQuote}, entering)

	case *ast.List:
		w.container(Tag{Kind: TagList, Ordered: n.IsOrdered(), Start: n.Start}, entering)

	case *ast.ListItem:
		w.container(Tag{Kind: TagItem}, entering)

	case *ast.HTMLBlock:
		if entering {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				w.emit(HTML(string(seg.Value(w.source))))
			}
			if n.HasClosure() {
				w.emit(HTML(string(n.ClosureLine.Value(w.source))))
			}
		}
		return ast.WalkSkipChildren, nil

	case *ast.Text:
		if entering {
			value := n.Segment.Value(w.source)
			if !n.IsRaw() {
				value = unescapeText(value)
			}
			if len(value) > 0 {
				w.emit(Text(string(value)))
			}
			if n.HardLineBreak() {
				w.emit(Event{Kind: EventHardBreak})
			} else if n.SoftLineBreak() {
				w.emit(Event{Kind: EventSoftBreak})
			}
		}

	case *ast.String:
		if entering && len(n.Value) > 0 {
			if n.IsCode() {
				w.emit(HTML(string(n.Value)))
			} else {
				w.emit(Text(string(n.Value)))
			}
		}

	case *ast.CodeSpan:
		if entering {
			w.emit(Code(w.codeSpan(n)))
		}
		return ast.WalkSkipChildren, nil

	case *ast.Emphasis:
		kind := TagEmphasis
		if n.Level >= 2 {
			kind = TagStrong
		}
		w.container(Tag{Kind: kind}, entering)

	case *ast.Link:
		w.container(Tag{Kind: TagLink, Dest: string(n.Destination), Title: string(n.Title)}, entering)

	case *ast.Image:
		w.container(Tag{Kind: TagImage, Dest: string(n.Destination), Title: string(n.Title)}, entering)

	case *ast.AutoLink:
		if entering {
			dest := string(n.URL(w.source))
			if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(dest), "mailto:") {
				dest = "mailto:" + dest
			}
			tag := Tag{Kind: TagLink, Dest: dest}
			w.emit(Start(tag))
			w.emit(Text(string(n.Label(w.source))))
			w.emit(End(tag))
		}
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering {
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				w.emit(HTML(string(seg.Value(w.source))))
			}
		}
		return ast.WalkSkipChildren, nil

	case *east.Table:
		align := make([]Alignment, len(n.Alignments))
		for i, a := range n.Alignments {
			align[i] = alignmentOf(a)
		}
		w.container(Tag{Kind: TagTable, Align: align}, entering)

	case *east.TableHeader:
		w.container(Tag{Kind: TagTableHead}, entering)

	case *east.TableRow:
		w.container(Tag{Kind: TagTableRow}, entering)

	case *east.TableCell:
		w.container(Tag{Kind: TagTableCell}, entering)

	case *east.Strikethrough:
		w.container(Tag{Kind: TagStrikethrough}, entering)

	case *east.TaskCheckBox:
		if entering {
			w.emit(TaskMarker(n.IsChecked))
		}

	case *east.FootnoteLink:
		if entering {
			w.emit(FootnoteRef(strconv.Itoa(n.Index)))
		}

	case *east.FootnoteBacklink:
		return ast.WalkSkipChildren, nil

	case *east.Footnote:
		w.container(Tag{Kind: TagFootnoteDefinition, Label: strconv.Itoa(n.Index)}, entering)

	case *east.DefinitionList:
		w.container(Tag{Kind: TagDefinitionList}, entering)

	case *east.DefinitionTerm:
		w.container(Tag{Kind: TagDefinitionTerm}, entering)

	case *east.DefinitionDescription:
		w.container(Tag{Kind: TagDefinitionDescription}, entering)

	case *superscriptNode:
		w.container(Tag{Kind: TagSuperscript}, entering)
	}

	return ast.WalkContinue, nil
}

// lines emits one Text event per source line of a code block.
func (w *eventWalker) lines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		w.emit(Text(string(seg.Value(w.source))))
	}
}

// codeSpan collects the literal content of an inline code span.
// Line endings inside a span render as spaces.
func (w *eventWalker) codeSpan(n *ast.CodeSpan) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var value []byte
		switch t := c.(type) {
		case *ast.Text:
			value = t.Segment.Value(w.source)
		case *ast.String:
			value = t.Value
		default:
			continue
		}
		if len(value) > 0 && value[len(value)-1] == '\n' {
			b.Write(value[:len(value)-1])
			b.WriteByte(' ')
			continue
		}
		b.Write(value)
	}
	return b.String()
}

// unescapeText resolves backslash escapes and character references.
func unescapeText(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}

func alignmentOf(a east.Alignment) Alignment {
	switch a {
	case east.AlignLeft:
		return AlignLeft
	case east.AlignCenter:
		return AlignCenter
	case east.AlignRight:
		return AlignRight
	default:
		return AlignNone
	}
}
