package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-mdlive/internal/dateutil"
)

// Format names a paper size.
type Format string

// Supported paper sizes.
const (
	FormatA3     Format = "a3"
	FormatA4     Format = "a4"
	FormatA5     Format = "a5"
	FormatLetter Format = "letter"
	FormatLegal  Format = "legal"
)

// Orientation is portrait or landscape.
type Orientation string

// Supported orientations.
const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Defaults for exported documents.
const (
	DefaultMargin          = 10.0 // millimetres, every side
	DefaultScale           = 2.0
	DefaultFilenamePattern = "markdown-document-{date}.pdf"
	DefaultTimeout         = 30 * time.Second
	MaxScale               = 4.0
	mmPerInch              = 25.4
)

// paperSizes in millimetres, portrait.
var paperSizes = map[Format][2]float64{
	FormatA3:     {297, 420},
	FormatA4:     {210, 297},
	FormatA5:     {148, 210},
	FormatLetter: {215.9, 279.4},
	FormatLegal:  {215.9, 355.6},
}

// Options describes the printed page.
type Options struct {
	Margins     [4]float64 // millimetres: top, right, bottom, left
	Format      Format
	Orientation Orientation
	Scale       float64 // device pixel ratio used while printing
}

// DefaultOptions returns A4 portrait, 10mm margins, scale 2.
func DefaultOptions() Options {
	return Options{
		Margins:     [4]float64{DefaultMargin, DefaultMargin, DefaultMargin, DefaultMargin},
		Format:      FormatA4,
		Orientation: Portrait,
		Scale:       DefaultScale,
	}
}

// ParseFormat resolves a paper size name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := paperSizes[f]; !ok {
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidOptions, s)
	}
	return f, nil
}

// ParseOrientation resolves an orientation name (case-insensitive).
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case Portrait, Landscape:
		return o, nil
	default:
		return "", fmt.Errorf("%w: unknown orientation %q", ErrInvalidOptions, s)
	}
}

// Validate checks the options describe a printable page.
func (o Options) Validate() error {
	if _, err := ParseFormat(string(o.Format)); err != nil {
		return err
	}
	if _, err := ParseOrientation(string(o.Orientation)); err != nil {
		return err
	}
	if o.Scale <= 0 || o.Scale > MaxScale {
		return fmt.Errorf("%w: scale %.2f outside (0, %.0f]", ErrInvalidOptions, o.Scale, MaxScale)
	}

	w, h := o.paperMM()
	for _, m := range o.Margins {
		if m < 0 {
			return fmt.Errorf("%w: negative margin %.1fmm", ErrInvalidOptions, m)
		}
	}
	if o.Margins[1]+o.Margins[3] >= w || o.Margins[0]+o.Margins[2] >= h {
		return fmt.Errorf("%w: margins leave no printable area", ErrInvalidOptions)
	}
	return nil
}

// PaperSize returns width and height in inches with orientation applied.
func (o Options) PaperSize() (width, height float64) {
	w, h := o.paperMM()
	return w / mmPerInch, h / mmPerInch
}

// MarginsInches returns top, right, bottom, left margins in inches.
func (o Options) MarginsInches() [4]float64 {
	var out [4]float64
	for i, m := range o.Margins {
		out[i] = m / mmPerInch
	}
	return out
}

func (o Options) paperMM() (float64, float64) {
	size := paperSizes[o.Format]
	if o.Orientation == Landscape {
		return size[1], size[0]
	}
	return size[0], size[1]
}

// Filename expands pattern (DefaultFilenamePattern when empty) with the
// UTC date of now.
func Filename(pattern string, now time.Time) (string, error) {
	if pattern == "" {
		pattern = DefaultFilenamePattern
	}
	name, err := dateutil.ExpandPattern(pattern, now.UTC())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return name, nil
}
