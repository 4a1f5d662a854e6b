package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownExtension indicates an extension name outside the recognized set.
var ErrUnknownExtension = errors.New("unknown markdown extension")

// Extensions selects the CommonMark extensions the parser recognizes.
// Task-list markers only reach the event stream when TaskLists is set.
type Extensions struct {
	Footnotes        bool
	Tables           bool
	TaskLists        bool
	Strikethrough    bool
	SmartPunctuation bool
	Autolink         bool
	Superscript      bool
	TagFilter        bool
	DescriptionLists bool
	HeaderIDs        bool
}

// extensionSetters maps recognized extension names to the flag they enable.
var extensionSetters = map[string]func(*Extensions){
	"footnotes":         func(e *Extensions) { e.Footnotes = true },
	"table":             func(e *Extensions) { e.Tables = true },
	"tasklist":          func(e *Extensions) { e.TaskLists = true },
	"strikethrough":     func(e *Extensions) { e.Strikethrough = true },
	"smart-punctuation": func(e *Extensions) { e.SmartPunctuation = true },
	"autolink":          func(e *Extensions) { e.Autolink = true },
	"superscript":       func(e *Extensions) { e.Superscript = true },
	"tagfilter":         func(e *Extensions) { e.TagFilter = true },
	"description_lists": func(e *Extensions) { e.DescriptionLists = true },
	"header_ids":        func(e *Extensions) { e.HeaderIDs = true },
}

// DefaultExtensions returns the extensions enabled when none are requested.
func DefaultExtensions() Extensions {
	return Extensions{
		Footnotes:        true,
		Tables:           true,
		TaskLists:        true,
		Strikethrough:    true,
		SmartPunctuation: true,
	}
}

// AllExtensions returns every recognized extension enabled.
func AllExtensions() Extensions {
	var e Extensions
	for _, set := range extensionSetters {
		set(&e)
	}
	return e
}

// ParseExtensions builds Extensions from a list of names.
// Names are trimmed and matched case-insensitively; empty entries are skipped.
// An empty list yields no extensions, not the defaults.
func ParseExtensions(names []string) (Extensions, error) {
	var e Extensions
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		set, ok := extensionSetters[name]
		if !ok {
			return Extensions{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownExtension, raw, strings.Join(ExtensionNames(), ", "))
		}
		set(&e)
	}
	return e, nil
}

// ExtensionNames returns the recognized extension names, sorted.
func ExtensionNames() []string {
	names := make([]string, 0, len(extensionSetters))
	for name := range extensionSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
