package pipeline

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrHighlight indicates the highlighter failed on a known language.
var ErrHighlight = errors.New("code highlighting failed")

// PlainLanguage is the class suffix used when a fence names no known language.
const PlainLanguage = "plaintext"

// DefaultStyle is the chroma style used for the export stylesheet.
const DefaultStyle = "github"

// Highlighter colors a code block. Unknown languages pass through escaped.
type Highlighter interface {
	Highlight(code, lang string) (string, error)
	Supports(lang string) bool
}

// ChromaHighlighter highlights with chroma lexers and emits class-based spans.
type ChromaHighlighter struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewChromaHighlighter creates a highlighter using the named chroma style for
// its stylesheet. An unknown style name falls back to chroma's default.
func NewChromaHighlighter(style string) *ChromaHighlighter {
	if style == "" {
		style = DefaultStyle
	}
	return &ChromaHighlighter{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		style: styles.Get(style),
	}
}

// Supports reports whether a lexer exists for lang.
func (h *ChromaHighlighter) Supports(lang string) bool {
	return lang != "" && lexers.Get(lang) != nil
}

// Highlight returns code as highlighted HTML spans. When lang is unknown the
// code is returned HTML-escaped and otherwise untouched.
func (h *ChromaHighlighter) Highlight(code, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lang == "" || lexer == nil {
		return html.EscapeString(code), nil
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHighlight, lang, err)
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHighlight, lang, err)
	}
	return buf.String(), nil
}

// CSS returns the token stylesheet scoped to code blocks. chroma scopes its
// rules to a .chroma wrapper, which the renderer does not emit, so the
// selectors are rewritten to target pre elements instead.
func (h *ChromaHighlighter) CSS() (string, error) {
	var buf strings.Builder
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight css: %w", err)
	}
	return strings.ReplaceAll(buf.String(), ".chroma ", "pre "), nil
}

// Compile-time interface check.
var _ Highlighter = (*ChromaHighlighter)(nil)
