package mdpdf

import (
	"time"

	"github.com/cobalt-rocks/mdpdf/internal/dateutil"
)

// ResolveDate expands "auto" and "auto:FORMAT" against t. FORMAT is either a
// preset name (iso, european, us, long, footer) or a token layout such as
// "DD/MM/YYYY" with literal text in brackets. Other values pass through.
func ResolveDate(value string, t time.Time) (string, error) {
	return dateutil.ResolveDate(value, t)
}

// ResolveDateIn is ResolveDate with weekday and month names in lang
// (LangEnglish or LangGerman).
func ResolveDateIn(value string, t time.Time, lang string) (string, error) {
	return dateutil.ResolveDateIn(value, t, lang)
}

// FooterDate formats t the way footers print dates by default, e.g.
// "Sun Oct 18 2026" in English and "So Okt 18 2026" in German.
func FooterDate(t time.Time, lang string) string {
	layout, err := dateutil.ParseDateFormat(dateutil.FooterDateFormat)
	if err != nil {
		return t.Format(time.DateOnly)
	}
	return dateutil.Format(t, layout, lang)
}
