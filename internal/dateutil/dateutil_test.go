package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedTime = time.Date(2024, time.March, 5, 23, 30, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// TestParseDateFormat - Token conversion
// ---------------------------------------------------------------------------

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{"iso", "YYYY-MM-DD", "2006-01-02", nil},
		{"short tokens", "D/M/YY", "2/1/06", nil},
		{"month names", "MMMM MMM", "January Jan", nil},
		{"bracket literal", "[Day] DD", "Day 02", nil},
		{"preset", "european", "02.01.2006", nil},
		{"preset case-insensitive", "COMPACT", "20060102", nil},
		{"empty", "", "", ErrInvalidDateFormat},
		{"too long", strings.Repeat("Y", MaxDateFormatLength+1), "", ErrInvalidDateFormat},
		{"unclosed bracket", "[Day DD", "", ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseDateFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExpandPattern - File name placeholders
// ---------------------------------------------------------------------------

func TestExpandPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		want    string
		wantErr error
	}{
		{"default export name", "markdown-document-{date}.pdf", "markdown-document-2024-03-05.pdf", nil},
		{"custom format", "notes-{date:DD.MM.YY}.pdf", "notes-05.03.24.pdf", nil},
		{"preset", "{date:compact}.pdf", "20240305.pdf", nil},
		{"two placeholders", "{date:YYYY}/{date}.pdf", "2024/2024-03-05.pdf", nil},
		{"no placeholder", "fixed.pdf", "fixed.pdf", nil},
		{"unclosed", "doc-{date.pdf", "", ErrInvalidDateFormat},
		{"unknown placeholder", "doc-{dates}.pdf", "", ErrInvalidDateFormat},
		{"empty format", "doc-{date:}.pdf", "", ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExpandPattern(tt.pattern, fixedTime)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ExpandPattern(%q) error = %v, want %v", tt.pattern, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExpandPattern(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}
