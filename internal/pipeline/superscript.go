package pipeline

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// kindSuperscript is the goldmark node kind of ^superscript^ spans.
var kindSuperscript = ast.NewNodeKind("Superscript")

// superscriptNode is an inline ^text^ span.
type superscriptNode struct {
	ast.BaseInline
}

func (n *superscriptNode) Kind() ast.NodeKind {
	return kindSuperscript
}

func (n *superscriptNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// superscriptParser recognizes ^text^ where text is non-empty and has no
// whitespace. A backslash escapes the next byte.
type superscriptParser struct{}

func (p *superscriptParser) Trigger() []byte {
	return []byte{'^'}
}

func (p *superscriptParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, segment := block.PeekLine()
	if len(line) < 3 || line[0] != '^' {
		return nil
	}

	end := -1
	for i := 1; i < len(line); i++ {
		c := line[i]
		if c == '^' {
			end = i
			break
		}
		if util.IsSpace(c) {
			return nil
		}
		if c == '\\' && i+1 < len(line) {
			i++
		}
	}
	if end <= 1 {
		return nil
	}

	node := &superscriptNode{}
	node.AppendChild(node, ast.NewTextSegment(text.NewSegment(segment.Start+1, segment.Start+end)))
	block.Advance(end + 1)
	return node
}

// superscriptExtension registers the ^text^ inline parser.
type superscriptExtension struct{}

func (superscriptExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&superscriptParser{}, 600),
	))
}
