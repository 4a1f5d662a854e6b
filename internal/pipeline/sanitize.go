package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ErrInvalidPolicy indicates an inconsistent sanitization policy.
var ErrInvalidPolicy = errors.New("invalid sanitization policy")

// Policy is an HTML allow-list.
//
// Elements maps a tag to the attributes it may carry; GlobalAttributes are
// allowed on every permitted tag. Values restricts an attribute of a tag to
// literal values; class attributes are filtered token by token. Links and
// sources must use one of URLSchemes or be relative.
//
// When Bypass is set the sanitizer returns its input unchanged.
type Policy struct {
	Bypass           bool
	Elements         map[string][]string
	GlobalAttributes []string
	Values           map[string]map[string][]string
	URLSchemes       []string
}

// commonElements lists content tags and their attributes shared by the
// built-in policies.
func commonElements() map[string][]string {
	return map[string][]string{
		"a": {"href", "hreflang", "title"}, "abbr": nil, "acronym": nil,
		"article": nil, "aside": nil, "b": nil, "bdi": nil, "bdo": {"dir"},
		"blockquote": {"cite"}, "br": nil, "caption": nil, "center": nil,
		"cite": nil, "code": nil, "col": {"align", "span"},
		"colgroup": {"align", "span"}, "data": nil, "dd": nil,
		"del": {"cite", "datetime"}, "details": nil, "dfn": nil, "div": nil,
		"dl": nil, "dt": nil, "em": nil, "figcaption": nil, "figure": nil,
		"footer": nil, "h1": nil, "h2": nil, "h3": nil, "h4": nil, "h5": nil,
		"h6": nil, "header": nil, "hgroup": nil, "hr": nil, "i": nil,
		"img": {"align", "alt", "height", "src", "title", "width"},
		"ins": {"cite", "datetime"}, "kbd": nil, "li": nil, "mark": nil,
		"nav": nil, "ol": {"start"}, "p": nil, "pre": nil, "q": {"cite"},
		"rp": nil, "rt": nil, "ruby": nil, "s": nil, "samp": nil,
		"small": nil, "span": nil, "strike": nil, "strong": nil, "sub": nil,
		"summary": nil, "sup": nil, "table": {"align", "summary"},
		"tbody": nil, "td": {"colspan", "rowspan"}, "tfoot": nil,
		"th": {"colspan", "rowspan", "scope"}, "thead": nil, "time": nil,
		"tr": nil, "tt": nil, "u": nil, "ul": nil, "var": nil, "wbr": nil,
	}
}

// DefaultPolicy returns the permissive policy: common content tags plus the
// checkbox input, global style/type/checked/id attributes and a class
// allow-list covering the checkbox fragments.
func DefaultPolicy() *Policy {
	elements := commonElements()
	elements["input"] = nil
	elements["pre"] = []string{"tabindex"}
	return &Policy{
		Elements:         elements,
		GlobalAttributes: []string{"style", "type", "checked", "id"},
		Values: map[string]map[string][]string{
			"div":   {"class": {"form-check"}},
			"input": {"class": {"form-check-input"}},
		},
		URLSchemes: []string{"http", "https", "mailto", "file"},
	}
}

// NarrowPolicy returns the strict policy: common content tags with only a
// global style attribute. Checkbox inputs and classes are stripped.
func NarrowPolicy() *Policy {
	return &Policy{
		Elements:         commonElements(),
		GlobalAttributes: []string{"style"},
		URLSchemes:       []string{"http", "https", "mailto", "file"},
	}
}

// Validate checks that every value restriction targets an allowed tag and
// an attribute that tag may carry.
func (p *Policy) Validate() error {
	if p == nil || p.Bypass {
		return nil
	}
	for tag, attrs := range p.Values {
		allowedAttrs, ok := p.Elements[tag]
		if !ok {
			return fmt.Errorf("%w: values for %q, which is not an allowed element", ErrInvalidPolicy, tag)
		}
		for attr := range attrs {
			if !slices.Contains(allowedAttrs, attr) && !slices.Contains(p.GlobalAttributes, attr) && attr != "class" {
				return fmt.Errorf("%w: values for %s[%s], which is not an allowed attribute", ErrInvalidPolicy, tag, attr)
			}
		}
	}
	return nil
}

// compile builds the bluemonday policy enforcing tags, attributes and URLs.
func (p *Policy) compile() *bluemonday.Policy {
	bm := bluemonday.NewPolicy()

	tags := make([]string, 0, len(p.Elements))
	for tag := range p.Elements {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	if len(tags) > 0 {
		bm.AllowElements(tags...)
	}
	for _, tag := range tags {
		if attrs := p.Elements[tag]; len(attrs) > 0 {
			bm.AllowAttrs(attrs...).OnElements(tag)
		}
	}
	if len(p.GlobalAttributes) > 0 {
		bm.AllowAttrs(p.GlobalAttributes...).Globally()
	}
	for tag, attrs := range p.Values {
		for attr := range attrs {
			bm.AllowAttrs(attr).OnElements(tag)
		}
	}

	if len(p.URLSchemes) > 0 {
		bm.AllowURLSchemes(p.URLSchemes...)
	}
	bm.AllowRelativeURLs(true)
	return bm
}

// Sanitizer filters HTML through a Policy.
type Sanitizer interface {
	Sanitize(htmlContent string, p *Policy) string
}

// sharedDefaultPolicy stands in for a nil policy. It is never modified.
var sharedDefaultPolicy = sync.OnceValue(DefaultPolicy)

// maxCompiledPolicies bounds the compiled-policy cache of an AllowListSanitizer.
const maxCompiledPolicies = 16

// AllowListSanitizer enforces a Policy with bluemonday after dropping
// attribute values outside the policy's value sets.
// Elements outside the allow-list are removed; script and style elements
// lose their content as well.
//
// Compiled policies are cached by pointer, so a Policy must not change
// once it has been used. The zero value is ready to use and safe for
// concurrent use; it must not be copied.
type AllowListSanitizer struct {
	mu       sync.Mutex
	compiled map[*Policy]*bluemonday.Policy
}

// Sanitize returns htmlContent filtered through p.
// A nil policy means DefaultPolicy.
func (s *AllowListSanitizer) Sanitize(htmlContent string, p *Policy) string {
	if p == nil {
		p = sharedDefaultPolicy()
	}
	if p.Bypass {
		return htmlContent
	}
	filtered := filterAttributeValues(htmlContent, p.Values)
	return s.policyFor(p).Sanitize(filtered)
}

// policyFor returns the bluemonday policy for p, compiling it on first use.
// The cache starts over once it holds maxCompiledPolicies entries.
func (s *AllowListSanitizer) policyFor(p *Policy) *bluemonday.Policy {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bm, ok := s.compiled[p]; ok {
		return bm
	}
	if s.compiled == nil || len(s.compiled) >= maxCompiledPolicies {
		s.compiled = make(map[*Policy]*bluemonday.Policy)
	}
	bm := p.compile()
	s.compiled[p] = bm
	return bm
}

// filterAttributeValues rewrites start tags whose attributes carry value
// restrictions. All other tokens are copied byte for byte.
func filterAttributeValues(content string, values map[string]map[string][]string) string {
	if len(values) == 0 {
		return content
	}

	z := html.NewTokenizer(strings.NewReader(content))
	var b strings.Builder
	b.Grow(len(content))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return b.String()
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			b.Write(z.Raw())
			continue
		}

		// Token() rewrites the tokenizer buffer, so keep a copy of the raw tag.
		raw := append([]byte(nil), z.Raw()...)
		tok := z.Token()
		allowed, ok := values[tok.Data]
		if !ok {
			b.Write(raw)
			continue
		}
		tok.Attr = filterValues(tok.Attr, allowed)
		b.WriteString(tok.String())
	}
}

// filterValues drops restricted attribute values that are not allowed.
// Class values are checked individually; an empty result drops the attribute.
func filterValues(attrs []html.Attribute, allowed map[string][]string) []html.Attribute {
	out := attrs[:0]
	for _, a := range attrs {
		permitted, restricted := allowed[a.Key]
		if !restricted {
			out = append(out, a)
			continue
		}
		if a.Key == "class" {
			var keep []string
			for _, v := range strings.Fields(a.Val) {
				if slices.Contains(permitted, v) {
					keep = append(keep, v)
				}
			}
			if len(keep) == 0 {
				continue
			}
			a.Val = strings.Join(keep, " ")
		} else if !slices.Contains(permitted, a.Val) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Compile-time interface check.
var _ Sanitizer = (*AllowListSanitizer)(nil)
