// Package fileutil holds the small file helpers shared by the converter and
// the command line.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrInvalidExtension = errors.New("invalid extension")
	ErrNoFreePath       = errors.New("no free file name")
)

// maxPathAttempts bounds the numbered candidates tried by AllocatePath.
const maxPathAttempts = 1000

// TempFile stores content in a new file named mdpdf-*.ext under the system
// temp directory. The caller owns the returned remove func.
func TempFile(content, ext string) (name string, remove func(), err error) {
	if err := checkExtension(ext); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "mdpdf-*."+ext)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	if _, err = f.WriteString(content); err != nil {
		_ = f.Close()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}

func checkExtension(ext string) error {
	switch {
	case ext == "":
		return fmt.Errorf("%w: empty", ErrInvalidExtension)
	case strings.ContainsAny(ext, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	return nil
}

// FileExists reports whether path names something that is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsFilePath reports whether s contains a path separator, which sets a
// stylesheet path apart from a built-in style name.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, `/\`)
}

// AllocatePath returns path if nothing exists there, otherwise the first free
// numbered sibling: doc.html, doc-1.html, doc-2.html, ...
// The returned path may be taken by the time the caller writes to it.
func AllocatePath(path string) (string, error) {
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return path, nil
	} else if err != nil {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i <= maxPathAttempts; i++ {
		candidate := base + "-" + strconv.Itoa(i) + ext
		if _, err := os.Lstat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoFreePath, path)
}
