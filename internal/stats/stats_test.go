package stats

import (
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Stats
	}{
		{
			name: "empty",
			text: "",
			want: Stats{Words: 0, Lines: 1, Chars: 0},
		},
		{
			name: "whitespace only",
			text: "  ",
			want: Stats{Words: 0, Lines: 1, Chars: 2},
		},
		{
			name: "collapsed whitespace runs",
			text: "a b  c",
			want: Stats{Words: 3, Lines: 1, Chars: 6},
		},
		{
			name: "byte order mark only",
			text: "\ufeff",
			want: Stats{Words: 0, Lines: 1, Chars: 1},
		},
		{
			name: "byte order mark before text",
			text: "\ufeff# Title",
			want: Stats{Words: 2, Lines: 1, Chars: 8},
		},
		{
			name: "next line is not whitespace",
			text: "a\u0085b",
			want: Stats{Words: 1, Lines: 1, Chars: 3},
		},
		{
			name: "ideographic and no-break spaces",
			text: "中\u3000文\u00a0字",
			want: Stats{Words: 3, Lines: 1, Chars: 5},
		},
		{
			name: "three lines",
			text: "a\nb\nc",
			want: Stats{Words: 3, Lines: 3, Chars: 5},
		},
		{
			name: "trailing newline adds a line",
			text: "# Title\n",
			want: Stats{Words: 2, Lines: 2, Chars: 8},
		},
		{
			name: "tabs and leading space",
			text: "\t one\ttwo \n",
			want: Stats{Words: 2, Lines: 2, Chars: 11},
		},
		{
			name: "CJK counts code points",
			text: "**粗体文本**",
			want: Stats{Words: 1, Lines: 1, Chars: 8},
		},
		{
			name: "blank lines only",
			text: "\n\n",
			want: Stats{Words: 0, Lines: 3, Chars: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Compute(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compute(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestCompute_CharsMatchesLength(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain",
		"| 列1 | 列2 | 列3 |\n|-----|-----|-----|",
		"emoji 🙂 and\r\nCRLF",
		"```go\nfunc main() {}\n```",
	}

	for _, in := range inputs {
		if got, want := Compute(in).Chars, utf8.RuneCountInString(in); got != want {
			t.Errorf("Compute(%q).Chars = %d, want %d", in, got, want)
		}
	}
}

func TestCompute_LinesAtLeastOne(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", " ", "x", "\n"} {
		if got := Compute(in).Lines; got < 1 {
			t.Errorf("Compute(%q).Lines = %d, want >= 1", in, got)
		}
	}
}
