package pipeline

import "strings"

// Stylesheet is CSS destined for its own <style> element. Name is written
// to a data-sheet attribute so user styles can be told apart from the
// generated print rules in the output.
type Stylesheet struct {
	Name string
	CSS  string
}

// InjectStyles places one <style> element per non-empty sheet, in order,
// just before </head>. Without a head they go right after the opening
// <body> tag, and a bare fragment gets them prepended.
func InjectStyles(doc string, sheets ...Stylesheet) string {
	var block strings.Builder
	for _, s := range sheets {
		if s.CSS == "" {
			continue
		}
		block.WriteString(`<style data-sheet="`)
		block.WriteString(s.Name)
		block.WriteString(`">`)
		// "</" would let CSS close the element early.
		block.WriteString(strings.ReplaceAll(s.CSS, "</", `<\/`))
		block.WriteString("</style>")
	}
	if block.Len() == 0 {
		return doc
	}

	pos := stylePosition(doc)
	return doc[:pos] + block.String() + doc[pos:]
}

// stylePosition returns the byte offset where style elements belong.
func stylePosition(doc string) int {
	lower := strings.ToLower(doc)
	if i := strings.Index(lower, "</head>"); i >= 0 {
		return i
	}
	if i := strings.Index(lower, "<body"); i >= 0 {
		if end := strings.IndexByte(doc[i:], '>'); end >= 0 {
			return i + end + 1
		}
	}
	return 0
}
