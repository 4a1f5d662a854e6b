// Package dateutil resolves the footer date setting: a literal, "auto", or
// "auto:FORMAT" with a human-friendly format.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

const (
	// MaxDateFormatLength bounds format strings.
	MaxDateFormatLength = 50

	// DefaultDateFormat is used by a bare "auto".
	DefaultDateFormat = "YYYY-MM-DD"

	// FooterDateFormat prints dates like "Sat Oct 18 2026".
	FooterDateFormat = "ddd MMM _D YYYY"
)

// DatePresets are the names accepted in place of a format after "auto:".
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"footer":   FooterDateFormat,
}

// tokens maps format tokens to Go layout elements. Longer tokens come
// first: the replacer prefers earlier arguments at the same position.
var tokens = strings.NewReplacer(
	"dddd", "Monday",
	"ddd", "Mon",
	"YYYY", "2006",
	"MMMM", "January",
	"MMM", "Jan",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"_D", "_2",
	"M", "1",
	"D", "2",
)

// ParseDateFormat converts a format such as "DD/MM/YYYY" into a Go layout.
// Tokens: YYYY YY MMMM MMM MM M DD _D D dddd ddd. Text in brackets is kept
// literally ("[Date]: YYYY"); other characters pass through.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	rest := format
	for rest != "" {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			layout.WriteString(tokens.Replace(rest))
			break
		}
		layout.WriteString(tokens.Replace(rest[:open]))

		closing := strings.IndexByte(rest[open:], ']')
		if closing < 0 {
			pos := len(format) - len(rest) + open
			return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, pos)
		}
		layout.WriteString(rest[open+1 : open+closing])
		rest = rest[open+closing+1:]
	}
	return layout.String(), nil
}

// ResolveDate formats t when value is "auto" or "auto:FORMAT" (FORMAT may
// be a preset name) and returns any other value unchanged.
func ResolveDate(value string, t time.Time) (string, error) {
	return ResolveDateIn(value, t, "")
}

// ResolveDateIn is ResolveDate with weekday and month names in lang.
func ResolveDateIn(value string, t time.Time, lang string) (string, error) {
	if len(value) < 4 || !strings.EqualFold(value[:4], "auto") {
		return value, nil
	}

	format := DefaultDateFormat
	if len(value) > 4 {
		if value[4] != ':' {
			return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
		}
		format = value[5:]
		if format == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return Format(t, layout, lang), nil
}

// calendarNames holds translated weekday and month names, indexed by
// time.Weekday and time.Month-1.
type calendarNames struct {
	days, shortDays     [7]string
	months, shortMonths [12]string
}

// localNames lists the languages whose names differ from Go's English ones.
var localNames = map[string]*calendarNames{
	"de": {
		days:        [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
		shortDays:   [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
		months:      [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
		shortMonths: [12]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"},
	},
}

// nameElements swaps the layout's name elements for markers that
// time.Format copies through untouched.
var nameElements = strings.NewReplacer(
	"Monday", "\x00D",
	"Mon", "\x00d",
	"January", "\x00M",
	"Jan", "\x00m",
)

// Format formats t with a Go layout, naming weekdays and months in lang.
// Unknown languages, including "" and "en", get Go's English names.
func Format(t time.Time, layout, lang string) string {
	names, ok := localNames[strings.ToLower(lang)]
	if !ok {
		return t.Format(layout)
	}
	return strings.NewReplacer(
		"\x00D", names.days[t.Weekday()],
		"\x00d", names.shortDays[t.Weekday()],
		"\x00M", names.months[t.Month()-1],
		"\x00m", names.shortMonths[t.Month()-1],
	).Replace(t.Format(nameElements.Replace(layout)))
}
