package pipeline

// Notes:
// - Only Start(Link) and Start(Image) destinations reach the renderer, so the
//   rewritten value is read from the first event
// - Expected URLs are built with FileURL so the cases hold on Windows too

import (
	"path/filepath"
	"runtime"
	"testing"
)

func testSourceDir() string {
	if runtime.GOOS == "windows" {
		return `C:\docs`
	}
	return "/docs"
}

func TestRewriteRelativeLinks(t *testing.T) {
	t.Parallel()

	dir := testSourceDir()
	under := func(rel, tail string) string {
		return FileURL(filepath.Join(dir, filepath.FromSlash(rel))) + tail
	}

	tests := []struct {
		name string
		kind TagKind
		dest string
		want string // empty means unchanged
	}{
		{name: "image with dot slash", kind: TagImage, dest: "./img/logo.png", want: under("img/logo.png", "")},
		{name: "image without dot slash", kind: TagImage, dest: "img/logo.png", want: under("img/logo.png", "")},
		{name: "sibling document link", kind: TagLink, dest: "other.md", want: under("other.md", "")},
		{name: "fragment kept", kind: TagLink, dest: "guide.md#install", want: under("guide.md", "#install")},
		{name: "query kept", kind: TagImage, dest: "chart.svg?v=2", want: under("chart.svg", "?v=2")},
		{name: "percent escapes decoded once", kind: TagImage, dest: "my%20image.png", want: under("my image.png", "")},
		{name: "inner dot dot staying inside", kind: TagImage, dest: "a/../b.png", want: under("b.png", "")},
		{name: "absolute path", kind: TagImage, dest: "/abs/logo.png"},
		{name: "https", kind: TagImage, dest: "https://example.com/logo.png"},
		{name: "data uri", kind: TagImage, dest: "data:image/png;base64,AAAA"},
		{name: "file url", kind: TagImage, dest: "file:///already/there.png"},
		{name: "mailto", kind: TagLink, dest: "mailto:ada@example.com"},
		{name: "fragment only", kind: TagLink, dest: "#section"},
		{name: "query only", kind: TagLink, dest: "?page=2"},
		{name: "protocol relative", kind: TagImage, dest: "//cdn.example.com/x.png"},
		{name: "empty", kind: TagImage, dest: ""},
		{name: "escapes the directory", kind: TagImage, dest: "../../etc/passwd"},
		{name: "escapes through a subdirectory", kind: TagImage, dest: "img/../../../etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tag := Tag{Kind: tt.kind, Dest: tt.dest}
			got := RewriteRelativeLinks([]Event{Start(tag), Text("label"), End(tag)}, dir)
			if len(got) != 3 {
				t.Fatalf("RewriteRelativeLinks() returned %d events, want 3", len(got))
			}

			want := tt.want
			if want == "" {
				want = tt.dest
			}
			if got[0].Tag.Dest != want {
				t.Errorf("destination = %q, want %q", got[0].Tag.Dest, want)
			}
		})
	}
}

func TestRewriteRelativeLinks_EmptySourceDir(t *testing.T) {
	t.Parallel()

	events := []Event{Start(Tag{Kind: TagImage, Dest: "logo.png"})}
	if got := RewriteRelativeLinks(events, ""); got[0].Tag.Dest != "logo.png" {
		t.Errorf("destination = %q, want unchanged", got[0].Tag.Dest)
	}
}

func TestRewriteRelativeLinks_InputUntouched(t *testing.T) {
	t.Parallel()

	tag := Tag{Kind: TagImage, Dest: "logo.png"}
	events := []Event{Start(tag), End(tag)}
	_ = RewriteRelativeLinks(events, testSourceDir())

	if events[0].Tag.Dest != "logo.png" {
		t.Errorf("input event mutated: Dest = %q", events[0].Tag.Dest)
	}
}

func TestRewriteRelativeLinks_OtherEventsUntouched(t *testing.T) {
	t.Parallel()

	events := []Event{
		Start(Tag{Kind: TagParagraph}),
		Text("img/logo.png"),
		HTML(`<img src="logo.png">`),
		End(Tag{Kind: TagParagraph}),
	}

	got := RewriteRelativeLinks(events, testSourceDir())
	for i := range events {
		if got[i].String() != events[i].String() {
			t.Errorf("event %d = %s, want %s", i, got[i], events[i])
		}
	}
}

func TestRewriteRelativeLinks_RelativeSourceDir(t *testing.T) {
	t.Parallel()

	abs, err := filepath.Abs("docs")
	if err != nil {
		t.Fatalf("filepath.Abs() error = %v", err)
	}

	got := RewriteRelativeLinks([]Event{Start(Tag{Kind: TagImage, Dest: "logo.png"})}, "docs")
	if want := FileURL(filepath.Join(abs, "logo.png")); got[0].Tag.Dest != want {
		t.Errorf("destination = %q, want %q", got[0].Tag.Dest, want)
	}
}

func TestWithin(t *testing.T) {
	t.Parallel()

	dir := filepath.FromSlash("/docs")
	tests := []struct {
		target string
		want   bool
	}{
		{"/docs", true},
		{"/docs/a.png", true},
		{"/docs/img/a.png", true},
		{"/docs-old/a.png", false},
		{"/etc/passwd", false},
		{"/", false},
	}

	for _, tt := range tests {
		if got := within(dir, filepath.FromSlash(tt.target)); got != tt.want {
			t.Errorf("within(%q, %q) = %v, want %v", dir, tt.target, got, tt.want)
		}
	}
}

func TestFileURL(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	tests := map[string]string{
		"/docs/img/logo.png":       "file:///docs/img/logo.png",
		"/docs/my img/a.png":       "file:///docs/my%20img/a.png",
		"/docs/100%/a.png":         "file:///docs/100%25/a.png",
		"/docs/\u65e5\u672c/a.png": "file:///docs/%E6%97%A5%E6%9C%AC/a.png",
	}
	for in, want := range tests {
		if got := FileURL(in); got != want {
			t.Errorf("FileURL(%q) = %q, want %q", in, got, want)
		}
	}
}
