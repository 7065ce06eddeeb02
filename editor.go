package mdlive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-mdlive/internal/assets"
	"github.com/alnah/go-mdlive/internal/autosave"
	"github.com/alnah/go-mdlive/internal/clipboard"
	"github.com/alnah/go-mdlive/internal/config"
	"github.com/alnah/go-mdlive/internal/export"
	"github.com/alnah/go-mdlive/internal/fileutil"
	"github.com/alnah/go-mdlive/internal/pipeline"
	"github.com/alnah/go-mdlive/internal/preview"
	"github.com/alnah/go-mdlive/internal/schedule"
	"github.com/alnah/go-mdlive/internal/scroll"
	"github.com/alnah/go-mdlive/internal/status"
	"github.com/alnah/go-mdlive/internal/storage"
	"github.com/alnah/go-mdlive/internal/toolbar"
)

// FullscreenBreakpoint is the window width above which the fullscreen
// preview is left automatically.
const FullscreenBreakpoint = 768

// Editor is one editing session. Create with NewEditor and Close when done.
//
// Thread-safety: all methods are safe for concurrent use. Handlers and
// timer callbacks are serialized on one lock; the view is only touched
// while it is held.
type Editor struct {
	mu sync.Mutex

	views     Views
	cfg       *config.Config
	renderer  preview.Renderer
	store     storage.Store
	exporter  Exporter
	clipboard clipboard.Writer
	reader    FileReader
	sched     schedule.Scheduler
	log       *slog.Logger
	now       func() time.Time
	exportCSS string

	docs     *pipeline.DocumentBuilder
	preview  *preview.Preview
	autosave *autosave.Controller
	notifier *status.Notifier
	scroll   scroll.Synchronizer

	sourceDir string
	busy      map[Control]bool
	ctx       context.Context
	cancel    context.CancelFunc
	tasks     sync.WaitGroup
	closed    bool
}

// ExportResult describes a written PDF.
type ExportResult struct {
	Path string
	Size int
}

// NewEditor creates an editor over views and renders the current buffer.
// Without options it renders with goldmark and chroma, keeps saves in
// memory, exports with headless Chrome and copies to the system clipboard.
func NewEditor(views Views, opts ...Option) (*Editor, error) {
	if views.Editor == nil {
		return nil, ErrNoEditorView
	}

	e := &Editor{
		views:  views.withDefaults(),
		cfg:    config.DefaultConfig(),
		reader: OSFileReader{},
		sched:  schedule.Real{},
		log:    slog.New(slog.DiscardHandler),
		now:    time.Now,
		busy:   make(map[Control]bool),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := e.initDocuments(); err != nil {
		return nil, err
	}
	if e.store == nil {
		e.store = storage.NewMemory()
	}
	if e.exporter == nil {
		e.exporter = export.New(export.WithTimeout(e.cfg.Export.Timeout.Std()))
	}
	if e.clipboard == nil {
		e.clipboard = clipboard.NewCopier(clipboard.System{}, nil)
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())

	locked := schedule.Locked(e.sched, &e.mu)
	cfg := e.cfg

	statusOpts := []status.Option{status.WithDefaultDuration(cfg.Status.Duration.Std())}
	if cfg.Status.IdleText != "" {
		statusOpts = append(statusOpts, status.WithIdleText(cfg.Status.IdleText))
	}
	e.notifier = status.New(locked, e.views.Status.SetStatus, statusOpts...)

	e.preview = preview.New(locked, e.views.Editor.Text, e.renderer,
		preview.WithDelay(cfg.Preview.Delay.Std()),
		preview.WithOnUpdate(e.publish),
		preview.WithOnError(e.renderFailed),
	)

	e.autosave = autosave.New(locked, e.store, e.views.Editor.Text,
		autosave.WithDelay(cfg.Autosave.Delay.Std()),
		autosave.WithEnabled(cfg.Autosave.Enabled),
		autosave.WithOnSaved(e.saved),
		autosave.WithOnError(e.saveFailed),
	)

	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.renderNowLocked()
	return e, nil
}

// initDocuments loads the export template and stylesheet and builds the
// default renderer.
func (e *Editor) initDocuments() error {
	resolver, err := assets.NewResolver(e.cfg.Assets.BasePath)
	if err != nil {
		return fmt.Errorf("loading assets: %w", err)
	}

	tmpl, err := resolver.LoadTemplate(assets.DocumentTemplate)
	if err != nil {
		return fmt.Errorf("loading document template: %w", err)
	}
	if e.docs, err = pipeline.NewDocumentBuilder(tmpl); err != nil {
		return err
	}

	highlighter := pipeline.NewChromaHighlighter(pipeline.DefaultStyle)
	if e.renderer == nil {
		e.renderer = pipeline.NewRenderer(highlighter)
	}

	if e.exportCSS == "" {
		style, err := resolver.LoadStyle(assets.ExportStyle)
		if err != nil {
			return fmt.Errorf("loading export style: %w", err)
		}
		codeCSS, err := highlighter.CSS()
		if err != nil {
			return err
		}
		e.exportCSS = style + "\n" + codeCSS
	}
	return nil
}

// ---------------------------------------------------------------------------
// Synchronous handlers
// ---------------------------------------------------------------------------

// OnInput records an edit of the buffer: the preview and the autosave
// each restart their quiet period.
func (e *Editor) OnInput() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.preview.Changed()
	e.autosave.Changed()
}

// OnScroll mirrors the editor pane's scroll ratio onto the preview.
// Ignored while the preview is fullscreen.
func (e *Editor) OnScroll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if top, ok := e.scroll.Sync(e.views.Editor.ScrollInfo(), e.views.Preview.ScrollInfo()); ok {
		e.views.Preview.SetScrollTop(top)
	}
}

// Apply runs a toolbar action on the current selection, places the caret
// and renders immediately. A render failure is returned after the buffer
// has been updated.
func (e *Editor) Apply(action toolbar.Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	res, err := toolbar.Apply(e.views.Editor.Text(), e.views.Editor.Selection(), action)
	if err != nil {
		return err
	}
	e.views.Editor.SetText(res.Text)
	e.views.Editor.SetSelection(res.Selection())
	e.autosave.Changed()
	return e.renderNowLocked()
}

// HandleKey runs Ctrl/Cmd shortcuts: b bold, i italic, k link, s save and
// p export. handled reports that the host must suppress the key's default.
func (e *Editor) HandleKey(k KeyEvent) (handled bool, err error) {
	if !k.Ctrl && !k.Meta {
		return false, nil
	}
	switch k.Key {
	case "b":
		return true, e.Apply(toolbar.Bold)
	case "i":
		return true, e.Apply(toolbar.Italic)
	case "k":
		return true, e.Apply(toolbar.Link)
	case "s":
		e.Save()
		return true, nil
	case "p":
		e.Export(e.ctx)
		return true, nil
	}
	return false, nil
}

// Save schedules a save after the autosave quiet period, even when
// autosave is disabled.
func (e *Editor) Save() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.autosave.Request()
}

// Clear empties a non-blank buffer once the user confirms. It reports
// whether the buffer was cleared.
func (e *Editor) Clear() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false, ErrClosed
	}

	if strings.TrimSpace(e.views.Editor.Text()) == "" || !e.views.Confirm.Confirm(PromptClear) {
		return false, nil
	}

	e.views.Editor.SetText("")
	e.views.Editor.SetSelection(Selection{})
	e.autosave.Changed()
	if err := e.renderNowLocked(); err != nil {
		return true, err
	}
	e.notifier.Notify(MsgCleared, status.KindInfo, 0)
	return true, nil
}

// Restore loads the saved buffer. It reports whether content was found.
func (e *Editor) Restore() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false, ErrClosed
	}

	content, ok, err := e.store.Get(storage.ContentKey)
	if err != nil {
		e.log.Warn("restore failed", "error", err)
		e.notifier.Notify(MsgRestoreFailed, status.KindError, 0)
		return false, err
	}
	if !ok || content == "" {
		return false, nil
	}

	e.views.Editor.SetText(content)
	if err := e.renderNowLocked(); err != nil {
		return true, err
	}
	e.notifier.Notify(MsgRestored, status.KindInfo, 0)
	return true, nil
}

// ToggleFullscreen switches the fullscreen preview and returns the new
// state. Scroll sync is off while it is on.
func (e *Editor) ToggleFullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setFullscreenLocked(!e.scroll.Fullscreen())
	return e.scroll.Fullscreen()
}

// Resize leaves the fullscreen preview when the window grows wider than
// FullscreenBreakpoint.
func (e *Editor) Resize(width int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if width > FullscreenBreakpoint && e.scroll.Fullscreen() {
		e.setFullscreenLocked(false)
	}
}

// Fullscreen reports whether the preview is fullscreen.
func (e *Editor) Fullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scroll.Fullscreen()
}

// ConfirmLeave returns the exit prompt and true when leaving would drop a
// non-blank buffer.
func (e *Editor) ConfirmLeave() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if strings.TrimSpace(e.views.Editor.Text()) == "" {
		return "", false
	}
	return PromptLeave, true
}

// SetSourceDir sets the directory relative image paths resolve against
// in exports. Import sets it to the imported file's directory.
func (e *Editor) SetSourceDir(dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sourceDir = dir
}

// HTML returns the last rendered preview.
func (e *Editor) HTML() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preview.Last().HTML
}

// Stats returns the statistics of the last render.
func (e *Editor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preview.Last().Stats
}

// Status returns the visible status message.
func (e *Editor) Status() (string, StatusKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notifier.Current()
}

// Busy reports whether the operation behind ctl is running.
func (e *Editor) Busy(ctl Control) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy[ctl]
}

// Close stops the timers, waits for running operations, saves pending
// edits and releases the exporter. Later calls are no-ops.
func (e *Editor) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.cancel()
	e.mu.Unlock()

	// Running tasks take the lock to publish their outcome.
	e.tasks.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.preview.Cancel()
	saveErr := e.autosave.Flush()
	e.notifier.Stop()
	return errors.Join(saveErr, e.exporter.Close())
}

// ---------------------------------------------------------------------------
// Asynchronous operations
// ---------------------------------------------------------------------------

// Export prints the preview to a dated PDF in export.outputDir.
func (e *Editor) Export(ctx context.Context) *Task[ExportResult] {
	e.mu.Lock()
	defer e.mu.Unlock()

	// The export shows what the preview shows, including an edit whose
	// debounced render has not fired yet.
	if e.preview.Pending() {
		_ = e.renderNowLocked()
	}
	fragment := e.preview.Last().HTML
	docOpts := pipeline.DocumentOptions{CSS: e.exportCSS, SourceDir: e.sourceDir}
	dir := e.cfg.Export.OutputDir

	opts, optErr := e.cfg.ExportOptions()
	modes, modeErr := e.cfg.PageBreakModes()
	docOpts.PageBreaks = modes
	name, nameErr := export.Filename(e.cfg.Export.Filename, e.now())

	work := func(ctx context.Context) (ExportResult, error) {
		if err := errors.Join(optErr, modeErr, nameErr); err != nil {
			return ExportResult{}, err
		}
		doc, err := e.docs.Build(ctx, fragment, docOpts)
		if err != nil {
			return ExportResult{}, err
		}
		pdf, err := e.exporter.Export(ctx, doc, opts)
		if err != nil {
			return ExportResult{}, err
		}
		path, err := writeExport(dir, name, pdf)
		if err != nil {
			return ExportResult{}, err
		}
		return ExportResult{Path: path, Size: len(pdf)}, nil
	}

	finish := func(res ExportResult, err error) (ExportResult, error) {
		if err != nil {
			e.log.Warn("export failed", "error", err)
			e.notifier.Notify(MsgExportFailed, status.KindError, 0)
			return res, fmt.Errorf("%w: %w", ErrExport, err)
		}
		e.log.Info("exported", "path", res.Path, "bytes", res.Size)
		e.notifier.Notify(MsgExported, status.KindSuccess, 0)
		return res, nil
	}

	return startTask(e, ctx, ControlExport, work, finish)
}

// writeExport writes pdf to dir/name, creating dir.
func writeExport(dir, name string, pdf []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := fileutil.WriteFileAtomic(path, pdf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Import replaces the buffer with the file at path and renders it.
// On failure the buffer is left untouched.
func (e *Editor) Import(ctx context.Context, path string) *Task[string] {
	e.mu.Lock()
	defer e.mu.Unlock()

	work := func(ctx context.Context) (string, error) {
		return e.reader.ReadText(ctx, path)
	}

	finish := func(text string, err error) (string, error) {
		if err != nil {
			e.log.Warn("import failed", "path", path, "error", err)
			e.notifier.Notify(MsgImportFailed, status.KindError, 0)
			return "", fmt.Errorf("%w: %w", ErrImport, err)
		}

		e.views.Editor.SetText(text)
		if abs, err := filepath.Abs(path); err == nil {
			e.sourceDir = filepath.Dir(abs)
		}
		e.autosave.Changed()
		if err := e.renderNowLocked(); err != nil {
			return text, nil
		}
		e.notifier.Notify(MsgImported, status.KindSuccess, 0)
		return text, nil
	}

	return startTask(e, ctx, ControlImport, work, finish)
}

// Copy writes the buffer to the clipboard. An empty buffer only shows a
// warning.
func (e *Editor) Copy(ctx context.Context) *Task[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()

	text := e.views.Editor.Text()
	if text == "" && !e.closed {
		e.notifier.Notify(MsgNothingToCopy, status.KindWarning, 0)
		return completedTask(struct{}{}, ErrEmptyBuffer)
	}

	work := func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.clipboard.WriteText(ctx, text)
	}

	finish := func(v struct{}, err error) (struct{}, error) {
		if err != nil {
			e.log.Warn("copy failed", "error", err)
			e.notifier.Notify(MsgCopyFailed, status.KindError, 0)
			return v, fmt.Errorf("%w: %w", ErrCopy, err)
		}
		e.notifier.Notify(MsgCopied, status.KindSuccess, 0)
		return v, nil
	}

	return startTask(e, ctx, ControlCopy, work, finish)
}

// startTask runs work on its own goroutine with ctl disabled, then calls
// finish under the lock. The caller holds e.mu. Closing the editor
// cancels the work's context.
func startTask[T any](e *Editor, ctx context.Context, ctl Control, work func(context.Context) (T, error), finish func(T, error) (T, error)) *Task[T] {
	if err := e.beginLocked(ctl); err != nil {
		var zero T
		return completedTask(zero, err)
	}

	task := newTask[T]()
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(e.ctx, cancel)

	e.tasks.Add(1)
	go func() {
		defer e.tasks.Done()
		defer cancel()
		defer stop()

		val, err := work(ctx)

		e.mu.Lock()
		e.endLocked(ctl)
		val, err = finish(val, err)
		e.mu.Unlock()

		task.complete(val, err)
	}()
	return task
}

// beginLocked claims ctl and disables its control.
func (e *Editor) beginLocked(ctl Control) error {
	if e.closed {
		return ErrClosed
	}
	if e.busy[ctl] {
		return ErrBusy
	}
	e.busy[ctl] = true
	e.views.Controls.SetEnabled(ctl, false)
	return nil
}

// endLocked releases ctl and re-enables its control.
func (e *Editor) endLocked(ctl Control) {
	delete(e.busy, ctl)
	e.views.Controls.SetEnabled(ctl, true)
}

// ---------------------------------------------------------------------------
// Component callbacks, run with e.mu held
// ---------------------------------------------------------------------------

func (e *Editor) renderNowLocked() error {
	err := e.preview.RenderNow()
	if err != nil {
		e.renderFailed(err)
	}
	return err
}

func (e *Editor) publish(u preview.Update) {
	e.views.Preview.SetHTML(u.HTML)
	e.views.Stats.SetStats(u.Stats)
}

func (e *Editor) renderFailed(err error) {
	e.log.Warn("render failed", "error", err)
	e.notifier.Notify(MsgRenderFailed, status.KindError, 0)
}

func (e *Editor) saved() {
	e.log.Debug("autosaved")
	e.notifier.Notify(MsgSaved, status.KindSuccess, e.cfg.Autosave.StatusDuration.Std())
}

func (e *Editor) saveFailed(err error) {
	e.log.Warn("autosave failed", "error", err)
	e.notifier.Notify(MsgSaveFailed, status.KindError, 0)
}

func (e *Editor) setFullscreenLocked(on bool) {
	e.scroll.SetFullscreen(on)
	e.views.Preview.SetFullscreen(on)
}
