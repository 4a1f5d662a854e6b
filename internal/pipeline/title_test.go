package pipeline

import "testing"

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{name: "first h1", fragment: "<h1>Report</h1>\n<p>x</p>", want: "Report"},
		{name: "nested inline markup", fragment: "<h1>The <em>final</em> <code>v2</code></h1>", want: "The final v2"},
		{name: "whitespace collapsed", fragment: "<h1>\n  Spaced\n   out  </h1>", want: "Spaced out"},
		{name: "later h1 ignored", fragment: "<h1>One</h1><h1>Two</h1>", want: "One"},
		{name: "h1 inside container", fragment: "<div><section><h1>Deep</h1></section></div>", want: "Deep"},
		{name: "h2 only", fragment: "<h2>Sub</h2>", want: ""},
		{name: "entities decoded", fragment: "<h1>Tom &amp; Jerry</h1>", want: "Tom & Jerry"},
		{name: "empty", fragment: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractTitle(tt.fragment); got != tt.want {
				t.Errorf("ExtractTitle(%q) = %q, want %q", tt.fragment, got, tt.want)
			}
		})
	}
}
