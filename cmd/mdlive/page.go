package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdlive/internal/assets"
	"github.com/alnah/go-mdlive/internal/config"
	"github.com/alnah/go-mdlive/internal/pipeline"
)

// previewPage turns markdown or rendered fragments into standalone HTML
// documents styled like the preview pane.
type previewPage struct {
	builder *pipeline.DocumentBuilder
	style   string // preview stylesheet
	codeCSS string // classes emitted by the preview renderer
}

// newPreviewPage loads the document template and preview style, honoring
// assets.basePath.
func newPreviewPage(cfg *config.Config) (*previewPage, error) {
	resolver, err := assets.NewResolver(cfg.Assets.BasePath)
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	tmpl, err := resolver.LoadTemplate(assets.DocumentTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading document template: %w", err)
	}
	builder, err := pipeline.NewDocumentBuilder(tmpl)
	if err != nil {
		return nil, err
	}
	style, err := resolver.LoadStyle(assets.PreviewStyle)
	if err != nil {
		return nil, fmt.Errorf("loading preview style: %w", err)
	}
	codeCSS, err := pipeline.NewChromaHighlighter(pipeline.DefaultStyle).CSS()
	if err != nil {
		return nil, err
	}
	return &previewPage{builder: builder, style: style, codeCSS: codeCSS}, nil
}

// Wrap places a rendered preview fragment in a document.
func (p *previewPage) Wrap(ctx context.Context, fragment, source string) (string, error) {
	return p.builder.Build(ctx, fragment, p.options(source, p.style+"\n"+p.codeCSS))
}

// Convert renders markdown to a document with inline code styles.
func (p *previewPage) Convert(ctx context.Context, markdown, source string) (string, error) {
	conv := pipeline.NewDocumentConverter(p.builder, pipeline.DefaultStyle)
	return conv.ToHTML(ctx, markdown, p.options(source, p.style))
}

// options titles the document after source and resolves its relative
// links against source's directory.
func (p *previewPage) options(source, css string) pipeline.DocumentOptions {
	opts := pipeline.DocumentOptions{CSS: css}
	if source == "" {
		return opts
	}
	base := filepath.Base(source)
	opts.Title = strings.TrimSuffix(base, filepath.Ext(base))
	if abs, err := filepath.Abs(source); err == nil {
		opts.SourceDir = filepath.Dir(abs)
	}
	return opts
}
