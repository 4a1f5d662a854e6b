package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	maxLen := strings.Repeat("-", MaxDateFormatLength)

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{format: "YYYY-MM-DD", want: "2006-01-02"},
		{format: "DD/MM/YYYY", want: "02/01/2006"},
		{format: "M/D/YY", want: "1/2/06"},
		{format: "MMMM D, YYYY", want: "January 2, 2006"},
		{format: "MMM YYYY", want: "Jan 2006"},
		{format: "dddd ddd", want: "Monday Mon"},
		{format: FooterDateFormat, want: "Mon Jan _2 2006"},
		{format: "(YYYY)", want: "(2006)"},
		{format: "Date: YYYY", want: "2ate: 2006"},
		{format: "[Date]: YYYY", want: "Date: 2006"},
		{format: "[YYYY]-MM", want: "YYYY-01"},
		{format: "[Day]: D [Month]: M", want: "Day: 2 Month: 1"},
		{format: "YYYY[]MM", want: "200601"},
		{format: "[a[b]c", want: "a[bc"},
		{format: maxLen, want: maxLen},
		{format: "[Date YYYY", wantErr: true},
		{format: "", wantErr: true},
		{format: maxLen + "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDateFormat) {
					t.Errorf("ParseDateFormat(%q) error = %v, want ErrInvalidDateFormat", tt.format, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{value: "", want: ""},
		{value: "2024-01-01", want: "2024-01-01"},
		{value: "Q1 2024", want: "Q1 2024"},
		{value: "auto", want: "2024-03-15"},
		{value: "AUTO", want: "2024-03-15"},
		{value: "auto:DD/MM/YYYY", want: "15/03/2024"},
		{value: "auto:MMMM D, YYYY", want: "March 15, 2024"},
		{value: "auto:footer", want: "Fri Mar 15 2024"},
		{value: "auto:iso", want: "2024-03-15"},
		{value: "auto:European", want: "15/03/2024"},
		{value: "auto:us", want: "03/15/2024"},
		{value: "auto:long", want: "March 15, 2024"},
		{value: "auto:[Date]: YYYY-MM-DD", want: "Date: 2024-03-15"},
		{value: "auto:", wantErr: true},
		{value: "autoX", wantErr: true},
		{value: "Automatic", wantErr: true},
		{value: "auto:[open", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveDate(tt.value, now)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDateFormat) {
					t.Errorf("ResolveDate(%q) error = %v, want ErrInvalidDateFormat", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDate(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ResolveDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestResolveDate_FooterPadding(t *testing.T) {
	t.Parallel()

	got, err := ResolveDate("auto:footer", time.Date(2026, time.October, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ResolveDate() error: %v", err)
	}
	if want := "Sun Oct  4 2026"; got != want {
		t.Errorf("ResolveDate() = %q, want %q", got, want)
	}
}

func TestResolveDateIn_German(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		value string
		lang  string
		want  string
	}{
		{value: "auto:footer", lang: "de", want: "Sa Mär  7 2026"},
		{value: "auto:footer", lang: "DE", want: "Sa Mär  7 2026"},
		{value: "auto:dddd, D. MMMM YYYY", lang: "de", want: "Samstag, 7. März 2026"},
		{value: "auto:DD.MM.YYYY", lang: "de", want: "07.03.2026"},
		{value: "auto:footer", lang: "en", want: "Sat Mar  7 2026"},
		{value: "auto:footer", lang: "fr", want: "Sat Mar  7 2026"},
		{value: "Frühjahr", lang: "de", want: "Frühjahr"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.value, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveDateIn(tt.value, day, tt.lang)
			if err != nil {
				t.Fatalf("ResolveDateIn() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveDateIn(%q, %q) = %q, want %q", tt.value, tt.lang, got, tt.want)
			}
		})
	}
}

func TestFormat_EveryGermanName(t *testing.T) {
	t.Parallel()

	// Mondays through the year cover each month; a week covers each day.
	for m := time.January; m <= time.December; m++ {
		day := time.Date(2026, m, 1, 0, 0, 0, 0, time.UTC)
		got := Format(day, "Jan January", "de")
		want := localNames["de"].shortMonths[m-1] + " " + localNames["de"].months[m-1]
		if got != want {
			t.Errorf("Format(%s) = %q, want %q", m, got, want)
		}
	}
	for d := range 7 {
		day := time.Date(2026, time.October, 18+d, 0, 0, 0, 0, time.UTC)
		got := Format(day, "Mon Monday", "de")
		want := localNames["de"].shortDays[day.Weekday()] + " " + localNames["de"].days[day.Weekday()]
		if got != want {
			t.Errorf("Format(%s) = %q, want %q", day.Weekday(), got, want)
		}
	}
}
