package pipeline

import "strings"

// Transducer rewrites the event stream in a single forward pass:
//   - text of a fenced code block is buffered from its Start to its End and
//     replaced by one highlighted HTML event emitted before the End;
//   - task-list markers become fixed checkbox fragments;
//   - everything else passes through unchanged.
//
// A Transducer holds the state of one pass and must not be shared.
type Transducer struct {
	highlighter Highlighter

	buffering bool
	lang      string
	code      strings.Builder
}

// NewTransducer creates a Transducer in the idle state.
func NewTransducer(h Highlighter) *Transducer {
	return &Transducer{highlighter: h}
}

// Step consumes one event and emits zero or more events.
func (t *Transducer) Step(ev Event, emit func(Event)) {
	if t.buffering {
		t.stepBuffering(ev, emit)
		return
	}

	switch ev.Kind {
	case EventStart:
		if ev.Tag.IsFencedCode() {
			t.buffering = true
			t.lang = ev.Tag.Lang
			t.code.Reset()
		}
		emit(ev)
	case EventTaskMarker:
		emit(HTML(Checkbox(ev.Checked)))
	case EventEnd, EventText, EventCode, EventHTML, EventSoftBreak,
		EventHardBreak, EventRule, EventFootnoteRef:
		emit(ev)
	default:
		panic("pipeline: unhandled event kind " + ev.Kind.String())
	}
}

// stepBuffering handles an event while a fenced code block is open.
// Events other than Text and the closing End are malformed here; they pass
// through without flushing.
func (t *Transducer) stepBuffering(ev Event, emit func(Event)) {
	switch {
	case ev.Kind == EventText:
		t.code.WriteString(ev.Text)
	case ev.Kind == EventEnd && ev.Tag.IsFencedCode():
		emit(HTML(t.highlighter.Highlight(t.code.String(), t.lang)))
		emit(ev)
		t.buffering = false
		t.lang = ""
		t.code.Reset()
	default:
		emit(ev)
	}
}

// Pending reports whether a fenced code block is still open.
// Its buffered text is discarded if the stream ends here.
func (t *Transducer) Pending() bool {
	return t.buffering
}

// Transduce runs one pass over events with a fresh Transducer.
func Transduce(events []Event, h Highlighter) []Event {
	out := make([]Event, 0, len(events))
	t := NewTransducer(h)
	for _, ev := range events {
		t.Step(ev, func(e Event) { out = append(out, e) })
	}
	return out
}
