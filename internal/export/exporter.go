// Package export prints HTML documents to PDF with headless Chrome.
//
// Chrome is launched lazily on the first export and reused until Close.
// Rod downloads a Chromium build on first run when none is installed;
// ROD_BROWSER_BIN selects a pre-installed browser instead.
package export

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdlive/internal/fileutil"
	"github.com/alnah/go-mdlive/internal/process"
)

// cssPixelsPerInch is the CSS reference resolution used to size the viewport.
const cssPixelsPerInch = 96

// pdfRenderer renders a local HTML file to PDF. It exists so the Exporter
// can be tested without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts Options) ([]byte, error)
	Close() error
}

// Exporter converts HTML documents to PDF bytes.
//
// Thread-safety: Export may be called concurrently; renders are serialized
// on the shared browser.
type Exporter struct {
	mu       sync.Mutex
	renderer pdfRenderer
	closed   bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithTimeout sets the page load timeout used when ctx has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Exporter) {
		if r, ok := e.renderer.(*rodRenderer); ok && d > 0 {
			r.timeout = d
		}
	}
}

// New creates an Exporter backed by headless Chrome.
func New(opts ...Option) *Exporter {
	e := &Exporter{renderer: newRodRenderer(DefaultTimeout)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export prints htmlDoc, a complete HTML document, to PDF.
func (e *Exporter) Export(ctx context.Context, htmlDoc string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlDoc, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer cleanup()

	return e.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases the browser. Further exports fail with ErrClosed.
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.renderer.Close()
}

// rodRenderer implements pdfRenderer using go-rod.
type rodRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to Chrome.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser for containers
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	// CI runners and containers lack the user namespaces the sandbox needs
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	return nil
}

// Close shuts the browser down and kills its process group so no helper
// processes outlive the editor.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}

	err := r.browser.Close()
	if r.launcher != nil {
		// The group is usually gone once the browser closed.
		_ = process.KillTree(r.launcher.PID())
		r.launcher.Kill()
		r.launcher.Cleanup()
	}
	r.browser = nil
	r.launcher = nil
	return err
}

// RenderFromFile opens a local HTML file and prints it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts Options) ([]byte, error) {
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	width, height := opts.PaperSize()
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             int(math.Round(width * cssPixelsPerInch)),
		Height:            int(math.Round(height * cssPixelsPerInch)),
		DeviceScaleFactor: opts.Scale,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// buildPDFOptions maps Options onto Chrome's print parameters. Paper size
// is passed already rotated, so Landscape stays false.
func buildPDFOptions(opts Options) *proto.PagePrintToPDF {
	width, height := opts.PaperSize()
	m := opts.MarginsInches()

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(m[0]),
		MarginRight:     floatPtr(m[1]),
		MarginBottom:    floatPtr(m[2]),
		MarginLeft:      floatPtr(m[3]),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)
