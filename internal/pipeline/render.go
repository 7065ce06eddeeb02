package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates goldmark failed to convert the document.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// blockRendererPriority beats goldmark's table (500) and default (1000)
// renderers, which register for the same node kinds.
const blockRendererPriority = 100

// Renderer converts markdown to the preview HTML fragment.
//
// Thread-safety: a Renderer may be shared; goldmark converters are
// safe for concurrent use once built.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer highlighting fenced code with h.
// A nil h uses a ChromaHighlighter with the default style.
func NewRenderer(h Highlighter) *Renderer {
	if h == nil {
		h = NewChromaHighlighter(DefaultStyle)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,         // Tables, strikethrough, autolinks, task lists
			extension.Typographer, // Smart quotes and dashes
		),
		goldmark.WithRendererOptions(
			goldhtml.WithHardWraps(), // Single newlines become <br>
			goldhtml.WithUnsafe(),    // Raw HTML passes through
			renderer.WithNodeRenderers(
				util.Prioritized(tableRenderer{}, blockRendererPriority),
				util.Prioritized(&codeRenderer{highlighter: h}, blockRendererPriority),
			),
		),
	)
	return &Renderer{md: md}
}

// Render converts markdown to an HTML fragment.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}

// tableRenderer wraps tables so wide ones scroll instead of overflowing.
// Header, rows and cells are still rendered by the GFM table renderer.
type tableRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (t tableRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(extast.KindTable, t.renderTable)
}

func (tableRenderer) renderTable(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<div class=\"table-wrapper\"><table class=\"markdown-table\">\n")
	} else {
		_, _ = w.WriteString("</table></div>\n")
	}
	return ast.WalkContinue, nil
}

// codeRenderer highlights fenced and indented code blocks.
type codeRenderer struct {
	highlighter Highlighter
}

// RegisterFuncs implements renderer.NodeRenderer.
func (b *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, b.renderCode)
	reg.Register(ast.KindCodeBlock, b.renderCode)
}

// renderCode emits <pre class="language-L"><code class="language-L">, where L
// is the fence language if the highlighter knows it and plaintext otherwise.
func (b *codeRenderer) renderCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var lang string
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		lang = string(fenced.Language(source))
	}
	if !b.highlighter.Supports(lang) {
		lang = PlainLanguage
	}

	var code strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}
	text := strings.TrimSuffix(code.String(), "\n")

	highlighted, err := b.highlight(text, lang)
	if err != nil {
		return ast.WalkStop, err
	}

	class := html.EscapeString(lang)
	_, _ = w.WriteString(`<pre class="language-` + class + `"><code class="language-` + class + `">`)
	_, _ = w.WriteString(highlighted)
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

func (b *codeRenderer) highlight(code, lang string) (string, error) {
	if lang == PlainLanguage {
		return html.EscapeString(code), nil
	}
	return b.highlighter.Highlight(code, lang)
}
