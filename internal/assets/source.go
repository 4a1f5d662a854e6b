package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

// fileReader reads a slash-separated path below an asset root.
type fileReader interface {
	ReadFile(name string) ([]byte, error)
}

// Loader reads styles and template sets from one asset root.
type Loader struct {
	styles    fileReader
	templates fileReader
}

// NewEmbeddedLoader returns a Loader over the built-in assets.
func NewEmbeddedLoader() *Loader {
	return &Loader{styles: styles, templates: templates}
}

// NewFilesystemLoader returns a Loader over basePath, which must be a
// readable directory. Files resolving outside basePath are refused.
func NewFilesystemLoader(basePath string) (*Loader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	root, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(root); err == nil {
		root = real
	}

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	dir := dirReader(root)
	return &Loader{styles: dir, templates: dir}, nil
}

// LoadStyle implements AssetLoader.
func (l *Loader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := l.styles.ReadFile(path.Join("styles", name+".css"))
	switch {
	case err == nil:
		return string(content), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	case errors.Is(err, ErrPathTraversal):
		return "", err
	default:
		return "", fmt.Errorf("%w: %w", ErrAssetRead, err)
	}
}

// LoadTemplateSet implements AssetLoader.
func (l *Loader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dir := path.Join("templates", name)
	document, docErr := l.templates.ReadFile(path.Join(dir, documentTemplateFile))
	footer, footErr := l.templates.ReadFile(path.Join(dir, footerTemplateFile))

	docMissing := errors.Is(docErr, fs.ErrNotExist)
	footMissing := errors.Is(footErr, fs.ErrNotExist)

	switch {
	case docMissing && footMissing:
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	case docErr != nil && !docMissing:
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetRead, documentTemplateFile, docErr)
	case footErr != nil && !footMissing:
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetRead, footerTemplateFile, footErr)
	case docMissing:
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, documentTemplateFile)
	case footMissing:
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, footerTemplateFile)
	}

	return &TemplateSet{Name: name, Document: string(document), Footer: string(footer)}, nil
}

// StyleNames lists the built-in style names, sorted.
func StyleNames() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".css"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// dirReader reads files below a resolved directory, following symlinks
// only while they stay inside it.
type dirReader string

func (d dirReader) ReadFile(name string) ([]byte, error) {
	full := filepath.Join(string(d), filepath.FromSlash(name))
	if real, err := filepath.EvalSymlinks(full); err == nil {
		full = real
	}

	rel, err := filepath.Rel(string(d), full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s", ErrPathTraversal, name)
	}

	return os.ReadFile(full) // #nosec G304 -- confined to the asset directory
}

var _ AssetLoader = (*Loader)(nil)
