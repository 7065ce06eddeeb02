package export

import (
	"errors"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestOptions_Validate - Printable page checks
// ---------------------------------------------------------------------------

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr error
	}{
		{"defaults", func(*Options) {}, nil},
		{"letter landscape", func(o *Options) { o.Format, o.Orientation = FormatLetter, Landscape }, nil},
		{"unknown format", func(o *Options) { o.Format = "b5" }, ErrInvalidOptions},
		{"unknown orientation", func(o *Options) { o.Orientation = "diagonal" }, ErrInvalidOptions},
		{"zero scale", func(o *Options) { o.Scale = 0 }, ErrInvalidOptions},
		{"huge scale", func(o *Options) { o.Scale = MaxScale + 1 }, ErrInvalidOptions},
		{"negative margin", func(o *Options) { o.Margins[2] = -1 }, ErrInvalidOptions},
		{"margins swallow page", func(o *Options) { o.Margins[1], o.Margins[3] = 105, 105 }, ErrInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			tt.mutate(&opts)
			if err := opts.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseFormatAndOrientation(t *testing.T) {
	t.Parallel()

	if f, err := ParseFormat(" A4 "); err != nil || f != FormatA4 {
		t.Errorf("ParseFormat(A4) = %q, %v", f, err)
	}
	if o, err := ParseOrientation("Landscape"); err != nil || o != Landscape {
		t.Errorf("ParseOrientation(Landscape) = %q, %v", o, err)
	}
	if _, err := ParseOrientation(""); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("ParseOrientation(\"\") error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestFilename - Dated export names
// ---------------------------------------------------------------------------

func TestFilename(t *testing.T) {
	t.Parallel()

	// 23:30 in UTC-5 is already the next day in UTC.
	now := time.Date(2024, time.March, 5, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))

	got, err := Filename("", now)
	if err != nil {
		t.Fatalf("Filename() error = %v", err)
	}
	if got != "markdown-document-2024-03-06.pdf" {
		t.Errorf("Filename() = %q", got)
	}

	if _, err := Filename("doc-{date", now); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("Filename(bad) error = %v, want ErrInvalidOptions", err)
	}
}
