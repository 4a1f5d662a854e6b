// Package pipeline implements the Markdown-to-HTML render pipeline.
//
// A render runs in four stages over a flat stream of structural events:
//   - Parser turns Markdown into events (goldmark AST flattened in order)
//   - Transducer replaces fenced code text with highlighted HTML and
//     task-list markers with checkbox fragments
//   - RenderHTML serializes the events
//   - a Sanitizer filters the markup through an allow-list Policy
//
// MarkupRenderer wires the stages; RenderMarkup is the one-call entry point.
// The package also holds the stages around a render: source preprocessing,
// relative link rewriting, title extraction and document assembly.
//
// PDF generation is handled separately by the root mdpdf package using
// headless Chrome (go-rod).
package pipeline
