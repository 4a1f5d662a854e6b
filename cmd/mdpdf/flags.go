package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds document metadata and footer flags.
type documentFlags struct {
	name    string
	title   string
	date    string
	license string
	lang    string
	german  bool
}

// markdownFlags holds parser and sanitizer flags.
type markdownFlags struct {
	extensions []string
	unsafe     bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      string // Parsed leniently: invalid values fall back to the default
}

// styleFlags holds theme, stylesheet and asset flags.
type styleFlags struct {
	theme      string
	stylesheet string
	highlight  string
	assetPath  string
}

// outputFlags holds output mode flags.
type outputFlags struct {
	keep     bool // Keep the assembled HTML document next to the PDF
	htmlOnly bool // Output HTML only, skip PDF
}

// convertFlags holds all flags for a conversion run.
type convertFlags struct {
	common   commonFlags
	workers  int
	timeout  string
	document documentFlags
	markdown markdownFlags
	page     pageFlags
	style    styleFlags
	output   outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addDocumentFlags adds document and footer flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVarP(&f.name, "name", "n", "", "author name printed in the footer (env: NAME)")
	fs.StringVarP(&f.title, "title", "t", "", "document title (default: input file name)")
	fs.StringVar(&f.date, "date", "", "footer date: literal, \"auto\" or \"auto:FORMAT\" (requires --name)")
	fs.StringVarP(&f.license, "license", "l", "", "Creative Commons 4.0 license, e.g. by-sa (requires --name)")
	fs.StringVar(&f.lang, "lang", "", "document language: en, de")
	fs.BoolVarP(&f.german, "german", "d", false, "German document (same as --lang de)")
}

// addMarkdownFlags adds Markdown parsing flags to a FlagSet.
func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.StringSliceVar(&f.extensions, "extensions", nil, "comma-separated Markdown extensions")
	fs.BoolVar(&f.unsafe, "unsafe", false, "skip HTML sanitization")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.size, "pagesize", "", "page size: a3, a4, a5, a6")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.StringVar(&f.margin, "margin", "", "page margin in millimeters (0-50)")
}

// addStyleFlags adds styling flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.theme, "theme", "", "theme: light, lime, night")
	fs.StringVarP(&f.stylesheet, "stylesheet", "s", "", "additional CSS file")
	fs.StringVar(&f.highlight, "highlight", "", "code highlighting style (chroma name)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVarP(&f.keep, "keep", "k", false, "keep the HTML document next to the PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "output HTML only, skip PDF")
}

// buildConvertFlagSet registers every conversion flag on a new FlagSet.
func buildConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("mdpdf", flag.ContinueOnError)

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.timeout, "timeout", "", "per-document timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addMarkdownFlags(fs, &f.markdown)
	addPageFlags(fs, &f.page)
	addStyleFlags(fs, &f.style)
	addOutputFlags(fs, &f.output)

	return fs
}

// parseConvertFlags parses conversion flags and returns positional args.
// Parse errors are returned, not printed; -h yields flag.ErrHelp.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := buildConvertFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
