package pipeline

// Notes:
// - Transducer tests use hand-built event streams so the state machine is
//   exercised independently of goldmark's tokenization
// - fakeHighlighter records every call; the single-highlight property is
//   asserted on the recorded calls, not on the output markup

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// fakeHighlighter records calls and returns a recognizable fragment.
type fakeHighlighter struct {
	mu    sync.Mutex
	calls []highlightCall
}

type highlightCall struct {
	Source string
	Lang   string
}

func (h *fakeHighlighter) Highlight(source, lang string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, highlightCall{Source: source, Lang: lang})
	return fmt.Sprintf("<hl lang=%q>%s</hl>", lang, source)
}

func (h *fakeHighlighter) Calls() []highlightCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]highlightCall(nil), h.calls...)
}

var (
	paragraph = Tag{Kind: TagParagraph}
	item      = Tag{Kind: TagItem}
)

// ---------------------------------------------------------------------------
// Pass-through
// ---------------------------------------------------------------------------

func TestTransduce_PassThroughIdentity(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"prose":         "# Title\n\nSome *emphasis* and **strong** text.\n",
		"lists":         "- one\n- two\n\n1. first\n2. second\n",
		"indented code": "    not fenced\n    still not\n",
		"inline code":   "Use `go test` here.\n",
		"table":         "| a | b |\n|---|---|\n| 1 | 2 |\n",
		"raw html":      "<div>raw</div>\n\ntext <b>bold</b>\n",
		"footnote":      "Claim[^1].\n\n[^1]: Source.\n",
		"breaks":        "line one  \nline two\nline three\n",
		"empty":         "",
	}

	p := NewParser(DefaultExtensions())

	for name, src := range docs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			events := p.Parse(src)
			h := &fakeHighlighter{}
			got := Transduce(events, h)

			if diff := cmp.Diff(events, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Transduce() changed a stream without code or tasks (-want +got):\n%s", diff)
			}
			if n := len(h.Calls()); n != 0 {
				t.Errorf("highlighter called %d times, want 0", n)
			}
		})
	}
}

func TestTransduce_TextOutsideCodeUnmodified(t *testing.T) {
	t.Parallel()

	events := []Event{
		Start(paragraph),
		Text("<not markup> & stays raw"),
		End(paragraph),
	}

	got := Transduce(events, &fakeHighlighter{})
	if diff := cmp.Diff(events, got); diff != "" {
		t.Errorf("Transduce() mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Fenced code buffering
// ---------------------------------------------------------------------------

func TestTransduce_SingleHighlightPerBlock(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d text events", n), func(t *testing.T) {
			t.Parallel()

			var parts []string
			events := []Event{Start(FencedCode("go"))}
			for i := 0; i < n; i++ {
				part := fmt.Sprintf("line %d\n", i)
				parts = append(parts, part)
				events = append(events, Text(part))
			}
			events = append(events, End(FencedCode("go")))

			h := &fakeHighlighter{}
			got := Transduce(events, h)

			wantCalls := []highlightCall{{Source: strings.Join(parts, ""), Lang: "go"}}
			if diff := cmp.Diff(wantCalls, h.Calls()); diff != "" {
				t.Errorf("highlighter calls mismatch (-want +got):\n%s", diff)
			}

			want := []Event{
				Start(FencedCode("go")),
				HTML(fmt.Sprintf("<hl lang=%q>%s</hl>", "go", strings.Join(parts, ""))),
				End(FencedCode("go")),
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Transduce() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransduce_EmptyLanguageToken(t *testing.T) {
	t.Parallel()

	h := &fakeHighlighter{}
	events := []Event{Start(FencedCode("")), Text("x\n"), End(FencedCode(""))}

	_ = Transduce(events, h)

	calls := h.Calls()
	if len(calls) != 1 || calls[0].Lang != "" {
		t.Errorf("calls = %+v, want one call with empty language", calls)
	}
}

func TestTransduce_ConsecutiveBlocksResetAccumulator(t *testing.T) {
	t.Parallel()

	h := &fakeHighlighter{}
	events := []Event{
		Start(FencedCode("go")), Text("a\n"), End(FencedCode("go")),
		Start(paragraph), Text("between"), End(paragraph),
		Start(FencedCode("python")), Text("b\n"), End(FencedCode("python")),
	}

	got := Transduce(events, h)

	wantCalls := []highlightCall{
		{Source: "a\n", Lang: "go"},
		{Source: "b\n", Lang: "python"},
	}
	if diff := cmp.Diff(wantCalls, h.Calls()); diff != "" {
		t.Errorf("highlighter calls mismatch (-want +got):\n%s", diff)
	}

	wantBetween := []Event{Start(paragraph), Text("between"), End(paragraph)}
	if diff := cmp.Diff(wantBetween, got[3:6]); diff != "" {
		t.Errorf("events between blocks changed (-want +got):\n%s", diff)
	}
}

func TestTransduce_IndentedCodeNotBuffered(t *testing.T) {
	t.Parallel()

	indented := Tag{Kind: TagCodeBlock}
	events := []Event{Start(indented), Text("plain\n"), End(indented)}

	h := &fakeHighlighter{}
	got := Transduce(events, h)

	if diff := cmp.Diff(events, got); diff != "" {
		t.Errorf("Transduce() mismatch (-want +got):\n%s", diff)
	}
	if len(h.Calls()) != 0 {
		t.Error("indented code block should not be highlighted")
	}
}

// ---------------------------------------------------------------------------
// Checkbox substitution
// ---------------------------------------------------------------------------

func TestTransduce_CheckboxDeterminism(t *testing.T) {
	t.Parallel()

	var events []Event
	for i := 0; i < 10; i++ {
		events = append(events,
			Start(item), TaskMarker(i%3 == 0), Text(fmt.Sprintf("task %d", i)), End(item))
	}

	got := Transduce(events, &fakeHighlighter{})
	if len(got) != len(events) {
		t.Fatalf("len = %d, want %d", len(got), len(events))
	}

	for i, ev := range events {
		if ev.Kind != EventTaskMarker {
			continue
		}
		want := HTML(CheckboxUnchecked)
		if ev.Checked {
			want = HTML(CheckboxChecked)
		}
		if diff := cmp.Diff(want, got[i]); diff != "" {
			t.Errorf("event %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestCheckbox(t *testing.T) {
	t.Parallel()

	if Checkbox(true) != CheckboxChecked {
		t.Errorf("Checkbox(true) = %q", Checkbox(true))
	}
	if Checkbox(false) != CheckboxUnchecked {
		t.Errorf("Checkbox(false) = %q", Checkbox(false))
	}
	if CheckboxChecked == CheckboxUnchecked {
		t.Error("checked and unchecked fragments must differ")
	}
}

// ---------------------------------------------------------------------------
// Malformed input
// ---------------------------------------------------------------------------

func TestTransduce_MalformedWhileBuffering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		events    []Event
		want      []Event
		wantCalls []highlightCall
	}{
		{
			name: "task marker passes through unsubstituted",
			events: []Event{
				Start(FencedCode("go")), Text("a"), TaskMarker(true), Text("b"), End(FencedCode("go")),
			},
			want: []Event{
				Start(FencedCode("go")), TaskMarker(true), HTML(`<hl lang="go">ab</hl>`), End(FencedCode("go")),
			},
			wantCalls: []highlightCall{{Source: "ab", Lang: "go"}},
		},
		{
			name: "other block start passes through without flush",
			events: []Event{
				Start(FencedCode("go")), Text("a"), Start(paragraph), End(paragraph), End(FencedCode("go")),
			},
			want: []Event{
				Start(FencedCode("go")), Start(paragraph), End(paragraph), HTML(`<hl lang="go">a</hl>`), End(FencedCode("go")),
			},
			wantCalls: []highlightCall{{Source: "a", Lang: "go"}},
		},
		{
			name: "nested fenced start does not restart buffering",
			events: []Event{
				Start(FencedCode("go")), Text("a"), Start(FencedCode("rust")), Text("b"), End(FencedCode("go")),
			},
			want: []Event{
				Start(FencedCode("go")), Start(FencedCode("rust")), HTML(`<hl lang="go">ab</hl>`), End(FencedCode("go")),
			},
			wantCalls: []highlightCall{{Source: "ab", Lang: "go"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := &fakeHighlighter{}
			got := Transduce(tt.events, h)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Transduce() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCalls, h.Calls()); diff != "" {
				t.Errorf("highlighter calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransducer_UnterminatedBlockDiscarded(t *testing.T) {
	t.Parallel()

	h := &fakeHighlighter{}
	tr := NewTransducer(h)

	var got []Event
	emit := func(e Event) { got = append(got, e) }

	for _, ev := range []Event{Start(paragraph), Text("p"), End(paragraph), Start(FencedCode("go")), Text("lost\n")} {
		tr.Step(ev, emit)
	}

	if !tr.Pending() {
		t.Error("Pending() = false, want true for an open block")
	}

	want := []Event{Start(paragraph), Text("p"), End(paragraph), Start(FencedCode("go"))}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("emitted mismatch (-want +got):\n%s", diff)
	}
	if len(h.Calls()) != 0 {
		t.Error("highlighter should not run for an unterminated block")
	}
}

func TestTransducer_PendingClearedAfterFlush(t *testing.T) {
	t.Parallel()

	tr := NewTransducer(&fakeHighlighter{})
	emit := func(Event) {}

	tr.Step(Start(FencedCode("go")), emit)
	tr.Step(Text("x"), emit)
	tr.Step(End(FencedCode("go")), emit)

	if tr.Pending() {
		t.Error("Pending() = true after the closing event")
	}
}

func TestTransducer_UnknownKindPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("Step() with an unknown event kind should panic")
		}
	}()

	NewTransducer(&fakeHighlighter{}).Step(Event{Kind: EventKind(200)}, func(Event) {})
}

// ---------------------------------------------------------------------------
// Independence
// ---------------------------------------------------------------------------

func TestTransduce_ConcurrentPassesIndependent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			lang := fmt.Sprintf("lang%d", i)
			h := &fakeHighlighter{}
			events := []Event{Start(FencedCode(lang)), Text("a"), Text("b"), End(FencedCode(lang))}
			_ = Transduce(events, h)

			calls := h.Calls()
			if len(calls) != 1 || calls[0].Lang != lang || calls[0].Source != "ab" {
				t.Errorf("pass %d: calls = %+v", i, calls)
			}
		}(i)
	}
	wg.Wait()
}
