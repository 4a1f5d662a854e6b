package pipeline

// Notes:
// - Events are compared through Event.String so expectations stay readable
// - Where goldmark may split a text run into several nodes, tests assert on
//   a contiguous run of events or on the joined text instead of the exact
//   stream

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func eventStrings(events []Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.String()
	}
	return out
}

// containsRun reports whether want appears contiguously in got.
func containsRun(got, want []string) bool {
	for i := 0; i+len(want) <= len(got); i++ {
		if cmp.Equal(got[i:i+len(want)], want) {
			return true
		}
	}
	return false
}

// joinedText concatenates the Text events of a stream.
func joinedText(events []Event) string {
	var b strings.Builder
	for _, ev := range events {
		if ev.Kind == EventText {
			b.WriteString(ev.Text)
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Exact streams
// ---------------------------------------------------------------------------

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ext  Extensions
		src  string
		want []string
	}{
		{
			name: "heading",
			src:  "# Title\n",
			want: []string{"Start(Heading)", `Text("Title")`, "End(Heading)"},
		},
		{
			name: "fenced code one text event per line",
			src:  "```go\na := 1\nb := 2\n```\n",
			want: []string{`Start(FencedCode("go"))`, `Text("a := 1\n")`, `Text("b := 2\n")`, `End(FencedCode("go"))`},
		},
		{
			name: "fenced code without language",
			src:  "```\nx\n```\n",
			want: []string{`Start(FencedCode(""))`, `Text("x\n")`, `End(FencedCode(""))`},
		},
		{
			name: "indented code",
			src:  "    x\n",
			want: []string{"Start(CodeBlock)", `Text("x\n")`, "End(CodeBlock)"},
		},
		{
			name: "thematic break",
			src:  "---\n",
			want: []string{"Rule"},
		},
		{
			name: "code span",
			src:  "`a<b`\n",
			want: []string{"Start(Paragraph)", `Code("a<b")`, "End(Paragraph)"},
		},
		{
			name: "task list",
			ext:  Extensions{TaskLists: true},
			src:  "- [x] done\n- [ ] todo\n",
			want: []string{
				"Start(List)",
				"Start(Item)", "TaskMarker(true)", `Text("done")`, "End(Item)",
				"Start(Item)", "TaskMarker(false)", `Text("todo")`, "End(Item)",
				"End(List)",
			},
		},
		{
			name: "superscript",
			ext:  Extensions{Superscript: true},
			src:  "x^2^\n",
			want: []string{"Start(Paragraph)", `Text("x")`, "Start(Superscript)", `Text("2")`, "End(Superscript)", "End(Paragraph)"},
		},
		{
			name: "empty document",
			src:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := eventStrings(NewParser(tt.ext).Parse(tt.src))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Extensions
// ---------------------------------------------------------------------------

func TestParser_ExtensionRuns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ext  Extensions
		src  string
		want []string
	}{
		{
			name: "soft break",
			src:  "a\nb\n",
			want: []string{`Text("a")`, "SoftBreak", `Text("b")`},
		},
		{
			name: "hard break",
			src:  "a\\\nb\n",
			want: []string{"HardBreak", `Text("b")`},
		},
		{
			name: "raw inline html",
			src:  "a <b>bold</b>\n",
			want: []string{`HTML("<b>")`, `Text("bold")`, `HTML("</b>")`},
		},
		{
			name: "strikethrough",
			ext:  Extensions{Strikethrough: true},
			src:  "~~gone~~\n",
			want: []string{"Start(Strikethrough)", `Text("gone")`, "End(Strikethrough)"},
		},
		{
			name: "smart punctuation",
			ext:  Extensions{SmartPunctuation: true},
			src:  "\"hi\"\n",
			want: []string{`HTML("&ldquo;")`, `Text("hi")`, `HTML("&rdquo;")`},
		},
		{
			name: "footnote reference",
			ext:  Extensions{Footnotes: true},
			src:  "Claim[^n].\n\n[^n]: Source.\n",
			want: []string{`Text("Claim")`, `FootnoteRef("1")`},
		},
		{
			name: "description list",
			ext:  Extensions{DescriptionLists: true},
			src:  "Term\n: Meaning\n",
			want: []string{"Start(DefinitionList)", "Start(DefinitionTerm)", `Text("Term")`, "End(DefinitionTerm)", "Start(DefinitionDescription)"},
		},
		{
			name: "emphasis and strong",
			src:  "*a* **b**\n",
			want: []string{"Start(Emphasis)", `Text("a")`, "End(Emphasis)", `Text(" ")`, "Start(Strong)", `Text("b")`, "End(Strong)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := eventStrings(NewParser(tt.ext).Parse(tt.src))
			if !containsRun(got, tt.want) {
				t.Errorf("Parse(%q) = %v\nwant run %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestParser_TaskListsDisabled(t *testing.T) {
	t.Parallel()

	events := NewParser(Extensions{}).Parse("- [x] done\n")
	for _, ev := range events {
		if ev.Kind == EventTaskMarker {
			t.Fatalf("TaskMarker emitted without the tasklist extension: %v", eventStrings(events))
		}
	}
	if got := joinedText(events); got != "[x] done" {
		t.Errorf("text = %q, want %q", got, "[x] done")
	}
}

func TestParser_FootnoteDefinition(t *testing.T) {
	t.Parallel()

	events := NewParser(Extensions{Footnotes: true}).Parse("A[^x].\n\n[^x]: Note.\n")

	var found bool
	for _, ev := range events {
		if ev.Kind == EventStart && ev.Tag.Kind == TagFootnoteDefinition {
			found = true
			if ev.Tag.Label != "1" {
				t.Errorf("definition label = %q, want %q", ev.Tag.Label, "1")
			}
		}
	}
	if !found {
		t.Errorf("no footnote definition in %v", eventStrings(events))
	}
}

func TestParser_TableAlignment(t *testing.T) {
	t.Parallel()

	events := NewParser(Extensions{Tables: true}).Parse("| a | b | c | d |\n|:--|:-:|--:|---|\n| 1 | 2 | 3 | 4 |\n")
	if len(events) == 0 || events[0].Kind != EventStart || events[0].Tag.Kind != TagTable {
		t.Fatalf("first event = %v, want Start(Table)", eventStrings(events))
	}

	want := []Alignment{AlignLeft, AlignCenter, AlignRight, AlignNone}
	if diff := cmp.Diff(want, events[0].Tag.Align); diff != "" {
		t.Errorf("alignment mismatch (-want +got):\n%s", diff)
	}

	var head, cells int
	for _, ev := range events {
		if ev.Kind != EventStart {
			continue
		}
		switch ev.Tag.Kind {
		case TagTableHead:
			head++
		case TagTableCell:
			cells++
		}
	}
	if head != 1 || cells != 8 {
		t.Errorf("head = %d, cells = %d, want 1 and 8", head, cells)
	}
}

func TestParser_TablesDisabled(t *testing.T) {
	t.Parallel()

	events := NewParser(Extensions{}).Parse("| a |\n|---|\n| 1 |\n")
	for _, ev := range events {
		if ev.Kind == EventStart && ev.Tag.Kind == TagTable {
			t.Fatal("table parsed without the table extension")
		}
	}
}

func TestParser_Links(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ext       Extensions
		src       string
		wantDest  string
		wantTitle string
	}{
		{name: "inline link", src: `[go](https://go.dev "Go")`, wantDest: "https://go.dev", wantTitle: "Go"},
		{name: "relative link", src: "[doc](guide.md#install)", wantDest: "guide.md#install"},
		{name: "angle autolink", src: "<https://example.com>", wantDest: "https://example.com"},
		{name: "email autolink", src: "<me@example.com>", wantDest: "mailto:me@example.com"},
		{name: "bare url with autolink", ext: Extensions{Autolink: true}, src: "see https://example.com now", wantDest: "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			events := NewParser(tt.ext).Parse(tt.src + "\n")
			for _, ev := range events {
				if ev.Kind == EventStart && ev.Tag.Kind == TagLink {
					if ev.Tag.Dest != tt.wantDest || ev.Tag.Title != tt.wantTitle {
						t.Errorf("link = (%q, %q), want (%q, %q)", ev.Tag.Dest, ev.Tag.Title, tt.wantDest, tt.wantTitle)
					}
					return
				}
			}
			t.Errorf("no link in %v", eventStrings(events))
		})
	}
}

func TestParser_BareURLWithoutAutolink(t *testing.T) {
	t.Parallel()

	events := NewParser(Extensions{}).Parse("see https://example.com now\n")
	for _, ev := range events {
		if ev.Kind == EventStart && ev.Tag.Kind == TagLink {
			t.Fatal("bare URL linked without the autolink extension")
		}
	}
}

func TestParser_HeaderIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ext    Extensions
		wantID string
	}{
		{name: "enabled", ext: Extensions{HeaderIDs: true}, wantID: "hello-world"},
		{name: "disabled", ext: Extensions{}, wantID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			events := NewParser(tt.ext).Parse("# Hello World\n")
			if events[0].Tag.ID != tt.wantID {
				t.Errorf("heading id = %q, want %q", events[0].Tag.ID, tt.wantID)
			}
		})
	}
}

func TestParser_TextUnescaped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{src: "Tom &amp; Jerry\n", want: "Tom & Jerry"},
		{src: "&copy; &#65;\n", want: "© A"},
		{src: "\\*not emphasis\\*\n", want: "*not emphasis*"},
	}

	for _, tt := range tests {
		if got := joinedText(NewParser(Extensions{}).Parse(tt.src)); got != tt.want {
			t.Errorf("Parse(%q) text = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParser_Extensions(t *testing.T) {
	t.Parallel()

	ext := DefaultExtensions()
	if got := NewParser(ext).Extensions(); got != ext {
		t.Errorf("Extensions() = %+v, want %+v", got, ext)
	}
}
