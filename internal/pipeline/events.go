package pipeline

import "fmt"

// EventKind identifies the variant carried by an Event.
type EventKind uint8

// Event kinds.
const (
	EventStart       EventKind = iota // block or inline container opens (Tag set)
	EventEnd                          // block or inline container closes (Tag set)
	EventText                         // literal text, escaped on render
	EventCode                         // inline code span
	EventHTML                         // raw markup, written verbatim
	EventSoftBreak                    // soft line break
	EventHardBreak                    // hard line break
	EventRule                         // thematic break
	EventTaskMarker                   // task-list checkbox (Checked set)
	EventFootnoteRef                  // footnote reference (Label set)
)

var eventKindNames = [...]string{
	EventStart:       "Start",
	EventEnd:         "End",
	EventText:        "Text",
	EventCode:        "Code",
	EventHTML:        "HTML",
	EventSoftBreak:   "SoftBreak",
	EventHardBreak:   "HardBreak",
	EventRule:        "Rule",
	EventTaskMarker:  "TaskMarker",
	EventFootnoteRef: "FootnoteRef",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// TagKind identifies the container opened or closed by a Start/End event.
type TagKind uint8

// Tag kinds.
const (
	TagParagraph TagKind = iota
	TagHeading
	TagBlockQuote
	TagCodeBlock
	TagList
	TagItem
	TagTable
	TagTableHead
	TagTableRow
	TagTableCell
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagSuperscript
	TagLink
	TagImage
	TagFootnoteDefinition
	TagDefinitionList
	TagDefinitionTerm
	TagDefinitionDescription
)

var tagKindNames = [...]string{
	TagParagraph:             "Paragraph",
	TagHeading:               "Heading",
	TagBlockQuote:            "BlockQuote",
	TagCodeBlock:             "CodeBlock",
	TagList:                  "List",
	TagItem:                  "Item",
	TagTable:                 "Table",
	TagTableHead:             "TableHead",
	TagTableRow:              "TableRow",
	TagTableCell:             "TableCell",
	TagEmphasis:              "Emphasis",
	TagStrong:                "Strong",
	TagStrikethrough:         "Strikethrough",
	TagSuperscript:           "Superscript",
	TagLink:                  "Link",
	TagImage:                 "Image",
	TagFootnoteDefinition:    "FootnoteDefinition",
	TagDefinitionList:        "DefinitionList",
	TagDefinitionTerm:        "DefinitionTerm",
	TagDefinitionDescription: "DefinitionDescription",
}

func (k TagKind) String() string {
	if int(k) < len(tagKindNames) {
		return tagKindNames[k]
	}
	return fmt.Sprintf("TagKind(%d)", k)
}

// Alignment is the horizontal alignment of a table column.
type Alignment uint8

// Column alignments.
const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Tag describes a container. Only the fields relevant to Kind are set.
type Tag struct {
	Kind    TagKind
	Level   int    // Heading: 1-6
	ID      string // Heading: anchor id (header_ids extension)
	Fenced  bool   // CodeBlock: fenced (true) or indented (false)
	Lang    string // CodeBlock: language token of a fenced block, may be empty
	Ordered bool   // List
	Start   int    // List: first number of an ordered list
	Dest    string // Link, Image
	Title   string // Link, Image
	Label   string // FootnoteDefinition
	Align   []Alignment
}

// IsFencedCode reports whether t is a fenced code block.
func (t Tag) IsFencedCode() bool {
	return t.Kind == TagCodeBlock && t.Fenced
}

// Event is one entry of the structural event stream.
type Event struct {
	Kind    EventKind
	Tag     Tag    // Start, End
	Text    string // Text, Code, HTML
	Checked bool   // TaskMarker
	Label   string // FootnoteRef
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart, EventEnd:
		if e.Tag.IsFencedCode() {
			return fmt.Sprintf("%s(FencedCode(%q))", e.Kind, e.Tag.Lang)
		}
		return fmt.Sprintf("%s(%s)", e.Kind, e.Tag.Kind)
	case EventText, EventCode, EventHTML:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Text)
	case EventTaskMarker:
		return fmt.Sprintf("%s(%t)", e.Kind, e.Checked)
	case EventFootnoteRef:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Label)
	default:
		return e.Kind.String()
	}
}

// Start returns a Start event for tag.
func Start(tag Tag) Event { return Event{Kind: EventStart, Tag: tag} }

// End returns an End event for tag.
func End(tag Tag) Event { return Event{Kind: EventEnd, Tag: tag} }

// Text returns a Text event.
func Text(s string) Event { return Event{Kind: EventText, Text: s} }

// Code returns an inline Code event.
func Code(s string) Event { return Event{Kind: EventCode, Text: s} }

// HTML returns a raw markup event.
func HTML(s string) Event { return Event{Kind: EventHTML, Text: s} }

// TaskMarker returns a task-list checkbox event.
func TaskMarker(checked bool) Event { return Event{Kind: EventTaskMarker, Checked: checked} }

// FootnoteRef returns a footnote reference event.
func FootnoteRef(label string) Event { return Event{Kind: EventFootnoteRef, Label: label} }

// FencedCode returns the tag of a fenced code block carrying lang.
func FencedCode(lang string) Tag {
	return Tag{Kind: TagCodeBlock, Fenced: true, Lang: lang}
}
