package pipeline

import (
	"errors"
	"strings"
	"testing"
)

// sanitizeSamples covers markup the pipeline produces plus hostile input.
var sanitizeSamples = []string{
	"",
	"<p>plain text</p>\n",
	"<p>Tom &amp; Jerry &lt;3</p>",
	CheckboxChecked + CheckboxUnchecked,
	`<div class="form-check evil"><input class="form-check-input other" type="checkbox" checked=""></div>`,
	`<pre><code class="language-go"><pre style="color:#f8f8f2;background-color:#272822;"><code><span style="display:flex;"><span style="color:#66d9ef">func</span></span></code></pre></code></pre>`,
	`<script>alert(1)</script><p>after</p>`,
	`<style>body{}</style><p onclick="x()">click</p>`,
	`<a href="javascript:alert(1)">bad</a><a href="https://example.com" title="ok">good</a>`,
	`<img src="file:///docs/a.png" alt="a"><img src="data:image/png;base64,AAA" alt="b">`,
	`<!-- comment --><p>unclosed <em>emphasis`,
	`<table><thead><tr><th style="text-align: left">a</th></tr></thead><tbody><tr><td>1</td></tr></tbody></table>`,
	`<sup class="footnote-reference"><a href="#fn-1">1</a></sup><div class="footnote-definition" id="fn-1">note</div>`,
	`<iframe src="https://example.com"></iframe><form><input type="text" name="q"></form>`,
	"<p>\"quoted\" 'single'</p>",
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

func TestSanitize_BypassIdentity(t *testing.T) {
	t.Parallel()

	s := &AllowListSanitizer{}
	for _, policy := range []*Policy{
		{Bypass: true},
		func() *Policy { p := DefaultPolicy(); p.Bypass = true; return p }(),
		func() *Policy { p := NarrowPolicy(); p.Bypass = true; return p }(),
	} {
		for _, in := range sanitizeSamples {
			if got := s.Sanitize(in, policy); got != in {
				t.Errorf("Sanitize(%q, bypass) = %q, want input unchanged", in, got)
			}
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	t.Parallel()

	policies := map[string]*Policy{
		"default": DefaultPolicy(),
		"narrow":  NarrowPolicy(),
	}

	s := &AllowListSanitizer{}
	for name, policy := range policies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, in := range sanitizeSamples {
				once := s.Sanitize(in, policy)
				twice := s.Sanitize(once, policy)
				if once != twice {
					t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Policies
// ---------------------------------------------------------------------------

func TestSanitize_DefaultPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "checkbox fragments preserved exactly",
			in:   CheckboxChecked + CheckboxUnchecked,
			want: CheckboxChecked + CheckboxUnchecked,
		},
		{
			name: "class tokens outside the value set dropped",
			in:   `<div class="form-check evil">x</div>`,
			want: `<div class="form-check">x</div>`,
		},
		{
			name: "class attribute dropped when no token allowed",
			in:   `<input class="other" type="checkbox">`,
			want: `<input type="checkbox">`,
		},
		{
			name: "class on unlisted tag dropped",
			in:   `<code class="language-go">x</code>`,
			want: `<code>x</code>`,
		},
		{
			name: "inline styles kept",
			in:   `<span style="color:#f92672">x</span>`,
			want: `<span style="color:#f92672">x</span>`,
		},
		{
			name: "heading id kept",
			in:   `<h2 id="intro">Intro</h2>`,
			want: `<h2 id="intro">Intro</h2>`,
		},
		{
			name: "script removed with content",
			in:   `<script>alert(1)</script><p>after</p>`,
			want: `<p>after</p>`,
		},
		{
			name: "event handler attribute dropped",
			in:   `<p onclick="x()">click</p>`,
			want: `<p>click</p>`,
		},
		{
			name: "javascript URL dropped",
			in:   `<a href="javascript:alert(1)">bad</a>`,
			want: `bad`,
		},
		{
			name: "file URL kept",
			in:   `<img src="file:///docs/a.png" alt="a">`,
			want: `<img src="file:///docs/a.png" alt="a">`,
		},
		{
			name: "fragment link kept",
			in:   `<a href="#fn-1">1</a>`,
			want: `<a href="#fn-1">1</a>`,
		},
		{
			name: "unknown element unwrapped",
			in:   `<custom>text</custom>`,
			want: `text`,
		},
		{
			name: "comment removed",
			in:   `<!-- hidden --><p>shown</p>`,
			want: `<p>shown</p>`,
		},
	}

	s := &AllowListSanitizer{}
	policy := DefaultPolicy()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := s.Sanitize(tt.in, policy); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitize_NarrowPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "checkbox input removed and classes stripped",
			in:   CheckboxChecked,
			want: `<div></div>`,
		},
		{
			name: "style kept",
			in:   `<pre style="color:#f8f8f2">x</pre>`,
			want: `<pre style="color:#f8f8f2">x</pre>`,
		},
		{
			name: "id dropped",
			in:   `<h2 id="intro">Intro</h2>`,
			want: `<h2>Intro</h2>`,
		},
		{
			name: "links kept",
			in:   `<a href="https://example.com">x</a>`,
			want: `<a href="https://example.com">x</a>`,
		},
	}

	s := &AllowListSanitizer{}
	policy := NarrowPolicy()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := s.Sanitize(tt.in, policy); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitize_NilPolicyUsesDefault(t *testing.T) {
	t.Parallel()

	s := &AllowListSanitizer{}
	in := CheckboxUnchecked + `<script>x</script>`

	if got, want := s.Sanitize(in, nil), s.Sanitize(in, DefaultPolicy()); got != want {
		t.Errorf("Sanitize(nil policy) = %q, want %q", got, want)
	}
}

func TestSanitize_CustomValueSet(t *testing.T) {
	t.Parallel()

	policy := &Policy{
		Elements: map[string][]string{
			"span": {"class"},
			"td":   {"align"},
		},
		Values: map[string]map[string][]string{
			"span": {"class": {"note", "warn"}},
			"td":   {"align": {"left", "right"}},
		},
	}

	tests := []struct {
		in   string
		want string
	}{
		{`<span class="warn note x">a</span>`, `<span class="warn note">a</span>`},
		{`<td align="center">b</td>`, `<td>b</td>`},
		{`<td align="right">c</td>`, `<td align="right">c</td>`},
	}

	s := &AllowListSanitizer{}
	for _, tt := range tests {
		if got := s.Sanitize(tt.in, policy); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitize_PoliciesAreIndependent(t *testing.T) {
	t.Parallel()

	a := DefaultPolicy()
	b := DefaultPolicy()
	delete(a.Elements, "p")

	s := &AllowListSanitizer{}
	if got := s.Sanitize("<p>x</p>", b); !strings.Contains(got, "<p>") {
		t.Errorf("mutating one DefaultPolicy changed another: %q", got)
	}
}

func TestAllowListSanitizer_CompilesPolicyOnce(t *testing.T) {
	t.Parallel()

	s := &AllowListSanitizer{}
	narrow := NarrowPolicy()
	first := s.policyFor(narrow)

	if s.policyFor(narrow) != first {
		t.Error("policyFor() recompiled a policy it has already seen")
	}
	if s.policyFor(NarrowPolicy()) == first {
		t.Error("policyFor() shared a compiled policy between distinct policies")
	}
}

func TestAllowListSanitizer_CacheBounded(t *testing.T) {
	t.Parallel()

	s := &AllowListSanitizer{}
	for range 3 * maxCompiledPolicies {
		if got := s.Sanitize("<p>x</p>", DefaultPolicy()); got != "<p>x</p>" {
			t.Fatalf("Sanitize() = %q, want paragraph kept", got)
		}
	}

	s.mu.Lock()
	n := len(s.compiled)
	s.mu.Unlock()
	if n > maxCompiledPolicies {
		t.Errorf("cache holds %d policies, want at most %d", n, maxCompiledPolicies)
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		policy  *Policy
		wantErr bool
	}{
		{name: "nil", policy: nil},
		{name: "default", policy: DefaultPolicy()},
		{name: "narrow", policy: NarrowPolicy()},
		{name: "bypass skips checks", policy: &Policy{Bypass: true, Values: map[string]map[string][]string{"x": {"y": nil}}}},
		{
			name: "values for unlisted element",
			policy: &Policy{
				Elements: map[string][]string{"p": nil},
				Values:   map[string]map[string][]string{"div": {"class": {"a"}}},
			},
			wantErr: true,
		},
		{
			name: "values for attribute the element cannot carry",
			policy: &Policy{
				Elements: map[string][]string{"td": nil},
				Values:   map[string]map[string][]string{"td": {"align": {"left"}}},
			},
			wantErr: true,
		},
		{
			name: "values for a global attribute",
			policy: &Policy{
				Elements:         map[string][]string{"td": nil},
				GlobalAttributes: []string{"align"},
				Values:           map[string]map[string][]string{"td": {"align": {"left"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.policy.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPolicy) {
					t.Errorf("Validate() error = %v, want ErrInvalidPolicy", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
