package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPageBreakMode indicates an unknown page-break mode name.
var ErrPageBreakMode = errors.New("unknown page-break mode")

// PageBreakMode selects a family of page-break rules for printed output.
type PageBreakMode string

// Page-break modes.
const (
	// PageBreakAvoidAll keeps block elements whole when they fit on a page.
	PageBreakAvoidAll PageBreakMode = "avoid-all"
	// PageBreakCSS honors break-before/after declared in the document and
	// keeps headings attached to the content that follows them.
	PageBreakCSS PageBreakMode = "css"
	// PageBreakLegacy breaks after elements marked with a page-break class.
	PageBreakLegacy PageBreakMode = "legacy"
)

// DefaultPageBreakModes returns the modes applied when none are configured.
func DefaultPageBreakModes() []PageBreakMode {
	return []PageBreakMode{PageBreakAvoidAll, PageBreakCSS, PageBreakLegacy}
}

// ParsePageBreakModes validates mode names.
func ParsePageBreakModes(names []string) ([]PageBreakMode, error) {
	modes := make([]PageBreakMode, 0, len(names))
	for _, name := range names {
		m := PageBreakMode(strings.ToLower(strings.TrimSpace(name)))
		switch m {
		case PageBreakAvoidAll, PageBreakCSS, PageBreakLegacy:
			modes = append(modes, m)
		default:
			return nil, fmt.Errorf("%w: %q", ErrPageBreakMode, name)
		}
	}
	return modes, nil
}

// BuildPageBreakCSS returns the print rules for the given modes, in order.
// Unknown modes contribute nothing.
func BuildPageBreakCSS(modes []PageBreakMode) string {
	var buf strings.Builder

	for _, m := range modes {
		switch m {
		case PageBreakAvoidAll:
			buf.WriteString(`
/* Page breaks: avoid-all */
p, pre, blockquote, table, tr, img, li, .table-wrapper {
  break-inside: avoid;
  page-break-inside: avoid;
}
`)
		case PageBreakCSS:
			buf.WriteString(`
/* Page breaks: css - keep headings with what follows */
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}
`)
		case PageBreakLegacy:
			buf.WriteString(`
/* Page breaks: legacy markers */
.page-break, .html2pdf__page-break {
  break-after: page;
  page-break-after: always;
}
`)
		}
	}
	return buf.String()
}
