// Package stats derives document statistics from editor text.
package stats

import (
	"strings"
	"unicode/utf8"
)

// Stats holds the counts shown in the editor status bar.
type Stats struct {
	Words int // whitespace-separated runs
	Lines int // newline-separated segments, at least 1
	Chars int // code points, whitespace included
}

// Compute derives Stats from text. It is pure and never fails.
func Compute(text string) Stats {
	return Stats{
		Words: countWords(text),
		Lines: countLines(text),
		Chars: utf8.RuneCountInString(text),
	}
}

// countWords returns the number of maximal runs of non-whitespace, where
// whitespace is the set a browser's regexp \s matches.
func countWords(text string) int {
	return len(strings.FieldsFunc(text, isSpace))
}

// isSpace matches the ECMAScript WhiteSpace and LineTerminator sets.
// Unlike unicode.IsSpace it includes U+FEFF and excludes U+0085.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\u1680',
		'\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

// countLines returns 1 for empty text, otherwise newlines + 1.
func countLines(text string) int {
	if text == "" {
		return 1
	}
	return strings.Count(text, "\n") + 1
}
