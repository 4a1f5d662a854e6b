package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"
)

// RewriteRelativeLinks points relative link and image destinations at
// file:// URLs under sourceDir, so a document printed from a temp file still
// finds its images. Destinations with a scheme, absolute or protocol-relative
// paths, bare fragments and paths leaving sourceDir are kept as written. A
// query or fragment after a rewritten path survives. An empty sourceDir
// returns events as is; the input slice is never modified.
func RewriteRelativeLinks(events []Event, sourceDir string) []Event {
	if sourceDir == "" {
		return events
	}
	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return events
	}

	out := make([]Event, len(events))
	copy(out, events)
	for i := range out {
		ev := &out[i]
		if ev.Kind != EventStart || (ev.Tag.Kind != TagLink && ev.Tag.Kind != TagImage) {
			continue
		}
		if dest, ok := localDestination(ev.Tag.Dest, root); ok {
			ev.Tag.Dest = dest
		}
	}
	return out
}

// localDestination resolves dest against root. ok is false when dest is not
// a relative path or would resolve outside root.
func localDestination(dest, root string) (string, bool) {
	if !isRelativePath(dest) {
		return "", false
	}

	rel, tail := dest, ""
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		rel, tail = dest[:i], dest[i:]
	}
	if rel == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(rel); err == nil {
		rel = unescaped
	}

	target := filepath.Join(root, filepath.FromSlash(rel))
	if !within(root, target) {
		return "", false
	}
	return FileURL(target) + tail, true
}

func isRelativePath(dest string) bool {
	switch {
	case dest == "", dest[0] == '#', strings.HasPrefix(dest, "//"):
		return false
	// before the scheme check, which reads C:\ as scheme "c"
	case dest[0] == '/', filepath.IsAbs(dest):
		return false
	}
	u, err := url.Parse(dest)
	return err != nil || u.Scheme == ""
}

// within reports whether target is dir or lies below it. Both are cleaned
// absolute paths.
func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// FileURL turns an absolute path into a file:// URL, escaping as needed.
// Windows drive paths become file:///C:/...
func FileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
