// Package clipboard copies text to the system clipboard, falling back to an
// OSC 52 terminal escape sequence when no clipboard tool is available
// (headless sessions, SSH).
package clipboard

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"

	sysclip "github.com/atotto/clipboard"
)

// ErrCopy indicates that every copy method failed.
var ErrCopy = errors.New("clipboard copy failed")

// Writer puts text on a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, text string) error

// WriteText implements Writer.
func (f WriterFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// System writes through the platform clipboard (pbcopy, xclip, xsel,
// wl-copy, Windows API).
type System struct{}

// Available reports whether a platform clipboard tool was found.
func (System) Available() bool {
	return !sysclip.Unsupported
}

// WriteText implements Writer. The platform call cannot be interrupted, so
// cancellation only stops the wait.
func (System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sysclip.Unsupported {
		return errors.New("no clipboard utility available")
	}

	done := make(chan error, 1)
	go func() {
		done <- sysclip.WriteAll(text)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// OSC52 asks the terminal to set its clipboard by writing an escape
// sequence to w, usually the controlling terminal.
//
// Thread-safety: WriteText is safe for concurrent use.
type OSC52 struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOSC52 creates an OSC52 writer on w.
func NewOSC52(w io.Writer) *OSC52 {
	return &OSC52{w: w}
}

// WriteText implements Writer.
func (o *OSC52) WriteText(_ context.Context, text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\x07"
	if _, err := io.WriteString(o.w, seq); err != nil {
		return fmt.Errorf("writing osc52 sequence: %w", err)
	}
	return nil
}

// Copier tries a primary writer and, when it fails, a fallback. Only the
// fallback's failure is reported, as ErrCopy.
type Copier struct {
	primary  Writer
	fallback Writer
}

// NewCopier creates a Copier. fallback may be nil.
func NewCopier(primary, fallback Writer) *Copier {
	return &Copier{primary: primary, fallback: fallback}
}

// WriteText implements Writer.
func (c *Copier) WriteText(ctx context.Context, text string) error {
	err := c.primary.WriteText(ctx, text)
	if err == nil {
		return nil
	}
	// A cancelled copy is not a clipboard failure; do not try the fallback.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if c.fallback == nil {
		return fmt.Errorf("%w: %v", ErrCopy, err)
	}
	if fbErr := c.fallback.WriteText(ctx, text); fbErr != nil {
		return fmt.Errorf("%w: %v", ErrCopy, errors.Join(err, fbErr))
	}
	return nil
}

// Compile-time interface checks.
var (
	_ Writer = System{}
	_ Writer = (*OSC52)(nil)
	_ Writer = (*Copier)(nil)
	_ Writer = WriterFunc(nil)
)
