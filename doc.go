// Package mdpdf turns Markdown into a sanitized, standalone HTML document and
// prints that document to PDF with headless Chrome.
//
// A conversion runs in order: source cleanup (byte order mark, line endings,
// NFC), goldmark parsing with chroma highlighting of fenced code, task list
// checkbox substitution, bluemonday sanitization, the document template with
// theme and custom CSS, and finally the go-rod print step.
//
//	conv, err := mdpdf.NewConverter(mdpdf.WithHighlightStyle("github"))
//	if err != nil {
//		return err
//	}
//	defer conv.Close()
//
//	res, err := conv.Convert(ctx, mdpdf.Input{
//		Markdown:  src,
//		SourceDir: filepath.Dir(path),
//		Footer:    &mdpdf.Footer{Name: "Jane Doe", License: mdpdf.LicenseBYSA},
//	})
//
// Set Input.HTMLOnly to skip the browser. Input.Policy picks the allow-list
// and Input.Unsafe skips sanitization entirely.
//
// ConverterPool shares a bounded set of converters, each owning one browser,
// between goroutines. Acquire blocks until a converter is free.
//
// Themes and template sets can be replaced from a directory laid out as
// styles/<name>.css and templates/<set>/{document,footer}.html, passed with
// WithAssetPath or NewAssetLoader.
//
// The browser is found through ROD_BROWSER_BIN or downloaded by go-rod on
// first use. ROD_NO_SANDBOX=1 disables the Chrome sandbox, which is also the
// default inside containers and CI.
package mdpdf
