// Package dateutil expands date placeholders in file name patterns.
//
// A pattern such as "markdown-document-{date}.pdf" gets the current date in
// YYYY-MM-DD form; "{date:DD.MM.YYYY}" or "{date:european}" pick another
// format. Format tokens are YYYY, YY, MMMM, MMM, MM, M, DD, D; text in
// brackets is copied literally.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format or placeholder.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used by a bare {date} placeholder.
const DefaultDateFormat = "YYYY-MM-DD"

// dateTokens maps format tokens to Go layout components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets are named shortcuts usable as {date:NAME}.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"compact":  "YYYYMMDD",
	"european": "DD.MM.YYYY",
	"us":       "MM-DD-YYYY",
}

// ParseDateFormat converts a token format to a Go time layout.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	var out strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			out.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				out.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(format[i])
			i++
		}
	}
	return out.String(), nil
}

// ExpandPattern replaces every {date} and {date:FORMAT} placeholder in
// pattern with t formatted accordingly. Other text is kept as is.
func ExpandPattern(pattern string, t time.Time) (string, error) {
	var out strings.Builder
	rest := pattern

	for {
		start := strings.Index(rest, "{date")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}
		end := strings.IndexByte(rest[start:], '}')
		if end == -1 {
			return "", fmt.Errorf("%w: unclosed placeholder in %q", ErrInvalidDateFormat, pattern)
		}
		end += start

		format := DefaultDateFormat
		switch inner := rest[start+len("{date") : end]; {
		case inner == "":
		case strings.HasPrefix(inner, ":"):
			format = inner[1:]
		default:
			return "", fmt.Errorf("%w: unknown placeholder %q", ErrInvalidDateFormat, rest[start:end+1])
		}

		layout, err := ParseDateFormat(format)
		if err != nil {
			return "", err
		}
		out.WriteString(rest[:start])
		out.WriteString(t.Format(layout))
		rest = rest[end+1:]
	}
}
