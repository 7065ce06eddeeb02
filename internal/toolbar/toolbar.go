// Package toolbar computes selection-aware markdown insertions.
//
// Apply is pure: it takes the buffer, the selection and an action, and
// returns the new buffer plus the caret position. All offsets are rune
// (code point) offsets.
package toolbar

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for toolbar operations.
var (
	ErrUnknownAction    = errors.New("unknown toolbar action")
	ErrInvalidSelection = errors.New("invalid selection")
)

// Action names a toolbar button.
type Action string

// Toolbar actions.
const (
	Bold    Action = "bold"
	Italic  Action = "italic"
	Heading Action = "heading"
	Quote   Action = "quote"
	Code    Action = "code"
	Link    Action = "link"
	Image   Action = "image"
	List    Action = "list"
	Table   Action = "table"
)

// Actions lists every toolbar action in button order.
func Actions() []Action {
	return []Action{Bold, Italic, Heading, Quote, Code, Link, Image, List, Table}
}

// ParseAction resolves a button name (case-insensitive) to an Action.
func ParseAction(name string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Actions() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Placeholder text inserted when the selection is empty.
const (
	BoldPlaceholder    = "粗体文本"
	ItalicPlaceholder  = "斜体文本"
	HeadingPlaceholder = "标题"
	QuotePlaceholder   = "引用文本"
	CodePlaceholder    = "代码"
	LinkPlaceholder    = "链接文本"
	ImagePlaceholder   = "图片描述"
	ListPlaceholder    = "列表项"
)

// TablePlaceholder is the fixed 3x3 table inserted by the table action.
const TablePlaceholder = "| 列1 | 列2 | 列3 |\n|-----|-----|-----|\n| 内容1 | 内容2 | 内容3 |"

// tableCaretPrefix is the part of TablePlaceholder left of the caret after
// a table insert: the caret sits in the last header cell, before its "3".
const tableCaretPrefix = "| 列1 | 列2 | 列"

// TableCursorOffset moves the caret from the end of the inserted table back
// to tableCaretPrefix. It is -43 for the current placeholder and follows it
// if the text changes.
var TableCursorOffset = utf8.RuneCountInString(tableCaretPrefix) - utf8.RuneCountInString(TablePlaceholder)

// Selection is a half-open rune range [Start, End) of the buffer.
type Selection struct {
	Start int
	End   int
}

// Empty reports whether the selection is a bare caret.
func (s Selection) Empty() bool {
	return s.Start == s.End
}

// Validate checks that the selection fits a buffer of n runes.
func (s Selection) Validate(n int) error {
	if s.Start < 0 || s.End < s.Start || s.End > n {
		return fmt.Errorf("%w: [%d,%d) in buffer of %d runes", ErrInvalidSelection, s.Start, s.End, n)
	}
	return nil
}

// Result is the outcome of applying an action.
type Result struct {
	Text   string // new buffer content
	Cursor int    // collapsed caret position (rune offset)
}

// Selection returns the collapsed selection at the cursor.
func (r Result) Selection() Selection {
	return Selection{Start: r.Cursor, End: r.Cursor}
}

// Apply splices the action's replacement over the selection:
//
//	text   = buffer[:start] + replacement + buffer[end:]
//	cursor = start + len(replacement) + offset
//
// where offset is zero or negative and depends on the action and on whether
// the selection was empty.
func Apply(buffer string, sel Selection, action Action) (Result, error) {
	runes := []rune(buffer)
	if err := sel.Validate(len(runes)); err != nil {
		return Result{}, err
	}

	selected := string(runes[sel.Start:sel.End])
	replacement, offset, err := Replacement(action, selected)
	if err != nil {
		return Result{}, err
	}

	var b strings.Builder
	b.Grow(len(buffer) + len(replacement))
	b.WriteString(string(runes[:sel.Start]))
	b.WriteString(replacement)
	b.WriteString(string(runes[sel.End:]))

	return Result{
		Text:   b.String(),
		Cursor: sel.Start + utf8.RuneCountInString(replacement) + offset,
	}, nil
}

// Replacement returns the text that replaces selected and the caret offset
// relative to the end of that text.
func Replacement(action Action, selected string) (string, int, error) {
	has := selected != ""

	switch action {
	case Bold:
		return "**" + or(selected, BoldPlaceholder) + "**", pick(has, 0, -4), nil
	case Italic:
		return "*" + or(selected, ItalicPlaceholder) + "*", pick(has, 0, -3), nil
	case Heading:
		return "## " + or(selected, HeadingPlaceholder), pick(has, 0, -2), nil
	case Quote:
		return "> " + or(selected, QuotePlaceholder), pick(has, 0, -2), nil
	case Code:
		if strings.Contains(selected, "\n") {
			return "```\n" + selected + "\n```", -4, nil
		}
		return "`" + or(selected, CodePlaceholder) + "`", pick(has, 0, -2), nil
	case Link:
		return "[" + or(selected, LinkPlaceholder) + "](URL)", pick(has, -5, -9), nil
	case Image:
		return "![" + or(selected, ImagePlaceholder) + "](图片URL)", pick(has, -7, -11), nil
	case List:
		return "- " + or(selected, ListPlaceholder), pick(has, 0, -2), nil
	case Table:
		return TablePlaceholder, TableCursorOffset, nil
	}
	return "", 0, fmt.Errorf("%w: %q", ErrUnknownAction, string(action))
}

// or returns s, or fallback when s is empty.
func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// pick returns withSelection or withoutSelection.
func pick(has bool, withSelection, withoutSelection int) int {
	if has {
		return withSelection
	}
	return withoutSelection
}
