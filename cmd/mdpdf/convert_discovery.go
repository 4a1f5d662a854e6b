package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cobalt-rocks/mdpdf/internal/config"
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// resolvePaths returns INPUT and OUTPUT from the positional arguments.
// OUTPUT falls back to output.defaultDir from the config.
func resolvePaths(args []string, cfg *config.Config) (string, string, error) {
	switch {
	case len(args) == 0:
		return "", "", ErrMissingArgument
	case len(args) > 2:
		return "", "", fmt.Errorf("%w: unexpected argument %q", ErrUsage, args[2])
	case len(args) == 2:
		return args[0], args[1], nil
	case cfg.Output.DefaultDir != "":
		return args[0], cfg.Output.DefaultDir + string(filepath.Separator), nil
	default:
		return "", "", ErrMissingArgument
	}
}

// discoverFiles finds the markdown files to convert.
// A file INPUT is converted as-is, whatever its extension; a directory is
// walked for .md and .markdown files, mirrored below OUTPUT.
func discoverFiles(inputPath, outputPath string, htmlOnly bool) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%s doesn't exist: %w", inputPath, err)
	}

	ext := outputExtension(htmlOnly)

	if !info.IsDir() {
		return []FileToConvert{{
			InputPath:  inputPath,
			OutputPath: resolveFileOutputPath(inputPath, outputPath, ext),
		}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isMarkdownFile(path) {
			return nil
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: resolveDirOutputPath(path, inputPath, outputPath, ext),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, disambiguateOutputs(files, ext)
}

// disambiguateOutputs renames outputs shared by several inputs, such as
// notes.md and notes.markdown, to keep the source extension
// (notes.md.pdf, notes.markdown.pdf). It fails if a clash remains.
func disambiguateOutputs(files []FileToConvert, ext string) error {
	count := make(map[string]int, len(files))
	for _, f := range files {
		count[f.OutputPath]++
	}
	for i, f := range files {
		if count[f.OutputPath] > 1 {
			files[i].OutputPath = filepath.Join(filepath.Dir(f.OutputPath), filepath.Base(f.InputPath)+ext)
		}
	}

	owner := make(map[string]string, len(files))
	for _, f := range files {
		if prev, ok := owner[f.OutputPath]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrUsage, prev, f.InputPath, f.OutputPath)
		}
		owner[f.OutputPath] = f.InputPath
	}
	return nil
}

// resolveFileOutputPath returns OUTPUT itself, or OUTPUT/<stem><ext> when
// OUTPUT is an existing directory or ends with a path separator.
func resolveFileOutputPath(inputPath, outputPath, ext string) string {
	if isDirTarget(outputPath) {
		return filepath.Join(outputPath, stem(inputPath)+ext)
	}
	if ext == ".html" {
		return htmlOutputPath(outputPath)
	}
	return outputPath
}

// resolveDirOutputPath mirrors inputPath's position below baseInputDir into outputDir.
func resolveDirOutputPath(inputPath, baseInputDir, outputDir, ext string) string {
	relPath, err := filepath.Rel(baseInputDir, inputPath)
	if err != nil {
		return filepath.Join(outputDir, stem(inputPath)+ext)
	}
	return filepath.Join(outputDir, filepath.Dir(relPath), stem(inputPath)+ext)
}

// isDirTarget reports whether an output path names a directory.
func isDirTarget(path string) bool {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// isMarkdownFile reports whether path has a .md or .markdown extension.
func isMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func outputExtension(htmlOnly bool) string {
	if htmlOnly {
		return ".html"
	}
	return ".pdf"
}

// htmlOutputPath returns the HTML path corresponding to a PDF path.
func htmlOutputPath(pdfPath string) string {
	if strings.EqualFold(filepath.Ext(pdfPath), ".html") {
		return pdfPath
	}
	return strings.TrimSuffix(pdfPath, ".pdf") + ".html"
}
