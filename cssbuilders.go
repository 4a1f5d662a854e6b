package mdpdf

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Orphan and widow line counts applied to text blocks.
const (
	defaultOrphans = 2
	defaultWidows  = 2
)

// buildPageBreaksCSS generates CSS for page break control.
// Keeps headings with the content that follows and avoids single lines
// at the top or bottom of a page.
func buildPageBreaksCSS() string {
	return fmt.Sprintf(`
/* Page breaks: prevent heading alone at page bottom */
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}

/* Page breaks: keep code blocks, table rows and figures whole */
pre, tr, img {
  break-inside: avoid;
  page-break-inside: avoid;
}

/* Page breaks: orphan/widow control */
p, li, dd, dt, blockquote {
  orphans: %d;
  widows: %d;
}
`, defaultOrphans, defaultWidows)
}

// checkCustomCSS parses user CSS and returns the part that can be injected.
// Unparsable CSS is dropped entirely; @import rules are removed so the
// document never fetches remote stylesheets. Every removal is reported as
// a warning.
func checkCustomCSS(custom string) (string, []string) {
	if strings.TrimSpace(custom) == "" {
		return "", nil
	}

	sheet, err := parser.Parse(custom)
	if err != nil {
		return "", []string{fmt.Sprintf("ignoring custom stylesheet: %v", err)}
	}

	var warnings []string
	kept := sheet.Rules[:0]
	for _, rule := range sheet.Rules {
		if rule.Kind == css.AtRule && strings.EqualFold(rule.Name, "@import") {
			warnings = append(warnings, fmt.Sprintf("ignoring @import %s", strings.TrimSpace(rule.Prelude)))
			continue
		}
		kept = append(kept, rule)
	}
	if len(warnings) == 0 {
		return custom, nil
	}

	sheet.Rules = kept
	return sheet.String(), warnings
}

// buildStylesheet combines page break rules, the theme and user CSS.
// Order matters: theme first (base), user CSS last (can override).
func buildStylesheet(themeCSS, customCSS string) (string, []string) {
	var buf strings.Builder
	buf.WriteString(buildPageBreaksCSS())
	buf.WriteString(themeCSS)

	custom, warnings := checkCustomCSS(customCSS)
	if custom != "" {
		buf.WriteString("\n")
		buf.WriteString(custom)
	}
	return buf.String(), warnings
}
