// Package preview keeps the rendered view and statistics in step with the
// editor buffer.
//
// Text changes are debounced on the trailing edge; toolbar edits and other
// programmatic changes call RenderNow instead. Every pass renders the buffer
// as it is when the pass runs, never a copy taken when it was scheduled.
package preview

import (
	"errors"
	"fmt"
	"time"

	"github.com/alnah/go-mdlive/internal/schedule"
	"github.com/alnah/go-mdlive/internal/stats"
)

// ErrRender indicates the renderer failed. The previous result is kept.
var ErrRender = errors.New("preview render failed")

// DefaultDelay is the quiet period before a debounced render.
const DefaultDelay = 100 * time.Millisecond

// Renderer converts markdown to an HTML fragment.
type Renderer interface {
	Render(markdown string) (string, error)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(markdown string) (string, error)

// Render implements Renderer.
func (f RenderFunc) Render(markdown string) (string, error) {
	return f(markdown)
}

// Update is one consistent render pass: HTML and the stats of the same text.
type Update struct {
	HTML  string
	Stats stats.Stats
}

// Preview owns the render timer slot and the last successful Update.
type Preview struct {
	debounce *schedule.Debouncer
	renderer Renderer
	source   func() string
	delay    time.Duration
	onUpdate func(Update)
	onError  func(error)

	last    Update
	renders int
}

// Option configures a Preview.
type Option func(*Preview)

// WithDelay sets the debounce window.
func WithDelay(d time.Duration) Option {
	return func(p *Preview) {
		if d > 0 {
			p.delay = d
		}
	}
}

// WithOnUpdate registers the publisher for successful passes.
func WithOnUpdate(fn func(Update)) Option {
	return func(p *Preview) {
		p.onUpdate = fn
	}
}

// WithOnError registers the handler for failures of debounced passes,
// which have no caller to return to.
func WithOnError(fn func(error)) Option {
	return func(p *Preview) {
		p.onError = fn
	}
}

// New creates a Preview reading text from source and rendering with r.
// The initial state is the empty document's stats with no HTML.
func New(s schedule.Scheduler, source func() string, r Renderer, opts ...Option) *Preview {
	p := &Preview{
		renderer: r,
		source:   source,
		delay:    DefaultDelay,
		last:     Update{Stats: stats.Compute("")},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.debounce = schedule.NewDebouncer(s, p.delay, p.fire)
	return p
}

// Changed records a text change and restarts the debounce window.
func (p *Preview) Changed() {
	p.debounce.Trigger()
}

// RenderNow renders synchronously. A pending debounced pass is left in
// place; when it fires it re-renders the same current text.
func (p *Preview) RenderNow() error {
	return p.render()
}

// Cancel drops the pending debounced pass.
func (p *Preview) Cancel() {
	p.debounce.Cancel()
}

// Pending reports whether a debounced pass is scheduled.
func (p *Preview) Pending() bool {
	return p.debounce.Pending()
}

// Last returns the most recent successful Update.
func (p *Preview) Last() Update {
	return p.last
}

// Renders returns the number of successful passes.
func (p *Preview) Renders() int {
	return p.renders
}

func (p *Preview) fire() {
	if err := p.render(); err != nil && p.onError != nil {
		p.onError(err)
	}
}

func (p *Preview) render() error {
	text := p.source()

	html, err := p.safeRender(text)
	if err != nil {
		return err
	}

	p.last = Update{HTML: html, Stats: stats.Compute(text)}
	p.renders++
	if p.onUpdate != nil {
		p.onUpdate(p.last)
	}
	return nil
}

// safeRender calls the renderer and turns both errors and panics into
// ErrRender so a malformed document never takes the editor down.
func (p *Preview) safeRender(text string) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrRender, r)
		}
	}()

	html, err = p.renderer.Render(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return html, nil
}
