package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cobalt-rocks/mdpdf"
	"github.com/cobalt-rocks/mdpdf/internal/fileutil"
)

const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// ConversionResult is the outcome of one input file.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	KeptPath   string // assembled HTML written for --keep
	Warnings   []string
	Err        error
	Duration   time.Duration
}

// convertBatch converts files with at most pool.Size() in flight. Results
// keep the order of files; one failure does not stop the others.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	results := make([]ConversionResult, len(files))

	var g errgroup.Group
	g.SetLimit(max(1, min(pool.Size(), len(files))))

	for i, f := range files {
		g.Go(func() error {
			results[i] = convertWithPool(ctx, pool, f, params)
			return nil
		})
	}
	_ = g.Wait()

	if len(results) == 0 {
		return nil
	}
	return results
}

func convertWithPool(ctx context.Context, pool Pool, f FileToConvert, params *conversionParams) ConversionResult {
	if err := ctx.Err(); err != nil {
		return ConversionResult{InputPath: f.InputPath, Err: err}
	}
	conv, err := pool.Acquire()
	if err != nil {
		return ConversionResult{InputPath: f.InputPath, Err: err}
	}
	defer pool.Release(conv)

	return convertFile(ctx, conv, f, params)
}

func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) (result ConversionResult) {
	start := time.Now()
	result = ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	defer func() { result.Duration = time.Since(start) }()

	input, err := readInput(f.InputPath, params)
	if err != nil {
		result.Err = err
		return result
	}

	converted, err := conv.Convert(ctx, input)
	if err != nil {
		result.Err = err
		return result
	}
	result.Warnings = converted.Warnings

	body := converted.PDF
	if params.htmlOnly {
		body = converted.HTML
	}
	if err := writeOutput(f.OutputPath, body); err != nil {
		result.Err = err
		return result
	}

	if params.keep && !params.htmlOnly {
		result.KeptPath, result.Err = keepDocument(f.OutputPath, converted.HTML)
	}
	return result
}

// readInput loads the Markdown file and fills the per-file parts of the
// conversion input.
func readInput(path string, params *conversionParams) (mdpdf.Input, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		return mdpdf.Input{}, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	sourceDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return mdpdf.Input{}, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	return mdpdf.Input{
		Markdown:   string(content),
		SourceDir:  sourceDir,
		Title:      titleFor(params.title, path),
		Lang:       params.lang,
		Extensions: params.extensions,
		Unsafe:     params.unsafe,
		Policy:     params.policy,
		Theme:      params.theme,
		CSS:        params.css,
		Footer:     params.footer,
		Page:       params.page,
		HTMLOnly:   params.htmlOnly,
	}, nil
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrCreateOutputDir, err)
	}
	// #nosec G306 -- outputs are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	return nil
}

// keepDocument writes the assembled HTML next to the output at the first
// free path: doc.html, doc-1.html, ...
func keepDocument(outputPath string, html []byte) (string, error) {
	path, err := fileutil.AllocatePath(htmlOutputPath(outputPath))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(path, html, filePermissions); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	return path, nil
}

// ResultSummary counts conversions by outcome.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

func countResults(results []ConversionResult) ResultSummary {
	var s ResultSummary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Succeeded++
	}
	return s
}

// reportResults prints one line per file and returns the run's error. A
// single failed file returns its own error so the exit code reflects it.
func reportResults(results []ConversionResult, verbose bool, out *printer) error {
	if len(results) == 1 && results[0].Err != nil {
		return results[0].Err
	}

	for _, r := range results {
		reportResult(r, verbose, out)
	}

	summary := countResults(results)
	if len(results) > 1 {
		out.Info(fmt.Sprintf("%d succeeded, %d failed", summary.Succeeded, summary.Failed))
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrConversionsFailed, summary.Failed, len(results))
	}
	return nil
}

func reportResult(r ConversionResult, verbose bool, out *printer) {
	if r.Err != nil {
		out.Error(fmt.Errorf("%s: %w", r.InputPath, r.Err))
		return
	}
	for _, w := range r.Warnings {
		out.Warning(r.InputPath + ": " + w)
	}

	msg := fmt.Sprintf("Generated %s and saved to %s", outputKind(r.OutputPath), r.OutputPath)
	if verbose {
		msg += fmt.Sprintf(" (%v)", r.Duration.Round(time.Millisecond))
	}
	out.Info(msg)
	if r.KeptPath != "" {
		out.Info("Kept document body under: " + r.KeptPath)
	}
}

func outputKind(path string) string {
	if filepath.Ext(path) == ".html" {
		return "HTML"
	}
	return "PDF"
}
