package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ErrDocumentRender indicates the document template failed to execute.
var ErrDocumentRender = errors.New("document template rendering failed")

// DefaultTitle is used when DocumentOptions.Title is empty.
const DefaultTitle = "Markdown Document"

// DocumentOptions controls standalone document assembly.
type DocumentOptions struct {
	Title      string
	CSS        string          // document stylesheet, injected into <head>
	PageBreaks []PageBreakMode // print rules, in a second style element
	SourceDir  string          // relative img/a paths resolve against it; empty leaves them
}

// DocumentBuilder wraps an HTML fragment in the document template.
type DocumentBuilder struct {
	tmpl *template.Template
}

// NewDocumentBuilder parses tmplContent, which receives .Title and .Body.
func NewDocumentBuilder(tmplContent string) (*DocumentBuilder, error) {
	tmpl, err := template.New("document").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}
	return &DocumentBuilder{tmpl: tmpl}, nil
}

// Build returns a complete HTML document around fragment. The fragment is
// trusted: it is the renderer's own output.
func (d *DocumentBuilder) Build(ctx context.Context, fragment string, opts DocumentOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := RewriteRelativePaths(fragment, opts.SourceDir)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting paths: %v", ErrDocumentRender, err)
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	var buf bytes.Buffer
	data := struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body), // #nosec G203 -- renderer output, raw HTML is a feature
	}
	if err := d.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}

	return InjectStyles(buf.String(),
		Stylesheet{Name: "document", CSS: opts.CSS},
		Stylesheet{Name: "print", CSS: BuildPageBreakCSS(opts.PageBreaks)},
	), nil
}

// DocumentConverter converts markdown straight to a standalone document.
// Code is highlighted with inline styles, so the output needs no
// highlighting stylesheet and survives being opened on its own.
type DocumentConverter struct {
	md      goldmark.Markdown
	builder *DocumentBuilder
}

// NewDocumentConverter creates a converter using the chroma style for code.
func NewDocumentConverter(builder *DocumentBuilder, style string) *DocumentConverter {
	if style == "" {
		style = DefaultStyle
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles: no external stylesheet
				),
			),
		),
		goldmark.WithRendererOptions(
			goldhtml.WithHardWraps(),
			goldhtml.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(tableRenderer{}, blockRendererPriority),
			),
		),
	)
	return &DocumentConverter{md: md, builder: builder}
}

// ToHTML converts markdown to a standalone document.
// Supports context cancellation via goroutine + select since goldmark
// doesn't natively support context.
func (c *DocumentConverter) ToHTML(ctx context.Context, markdown string, opts DocumentOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		return c.builder.Build(ctx, r.html, opts)
	}
}
