package mdlive

import (
	"log/slog"
	"time"

	"github.com/alnah/go-mdlive/internal/clipboard"
	"github.com/alnah/go-mdlive/internal/config"
	"github.com/alnah/go-mdlive/internal/preview"
	"github.com/alnah/go-mdlive/internal/schedule"
	"github.com/alnah/go-mdlive/internal/storage"
)

// Option configures an Editor.
type Option func(*Editor)

// WithConfig applies a loaded configuration. Nil keeps the defaults.
func WithConfig(cfg *config.Config) Option {
	return func(e *Editor) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithRenderer sets the markdown renderer.
func WithRenderer(r preview.Renderer) Option {
	return func(e *Editor) {
		e.renderer = r
	}
}

// WithStorage sets where the buffer is saved and restored from.
func WithStorage(s storage.Store) Option {
	return func(e *Editor) {
		e.store = s
	}
}

// WithExporter sets the PDF exporter. The editor closes it on Close.
func WithExporter(x Exporter) Option {
	return func(e *Editor) {
		e.exporter = x
	}
}

// WithClipboard sets the clipboard writer.
func WithClipboard(w clipboard.Writer) Option {
	return func(e *Editor) {
		e.clipboard = w
	}
}

// WithFileReader sets the reader used by Import.
func WithFileReader(r FileReader) Option {
	return func(e *Editor) {
		e.reader = r
	}
}

// WithScheduler sets the timer source. Tests pass a schedule.Manual.
func WithScheduler(s schedule.Scheduler) Option {
	return func(e *Editor) {
		e.sched = s
	}
}

// WithLogger sets the logger for collaborator failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithNow sets the clock used to date exported files.
func WithNow(now func() time.Time) Option {
	return func(e *Editor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithExportCSS replaces the stylesheet of exported documents.
func WithExportCSS(css string) Option {
	return func(e *Editor) {
		e.exportCSS = css
	}
}
