package mdlive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdlive/internal/config"
	"github.com/alnah/go-mdlive/internal/export"
	"github.com/alnah/go-mdlive/internal/preview"
	"github.com/alnah/go-mdlive/internal/schedule"
	"github.com/alnah/go-mdlive/internal/status"
	"github.com/alnah/go-mdlive/internal/storage"
	"github.com/alnah/go-mdlive/internal/toolbar"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

var errRenderBoom = errors.New("bad fence")

// stubRender wraps the text in a paragraph and fails on "boom".
var stubRender = preview.RenderFunc(func(md string) (string, error) {
	if strings.Contains(md, "boom") {
		return "", errRenderBoom
	}
	return "<p>" + md + "</p>", nil
})

type fakeExporter struct {
	mu      sync.Mutex
	docs    []string
	opts    export.Options
	err     error
	release chan struct{}
	closed  int
}

func (f *fakeExporter) Export(ctx context.Context, doc string, opts export.Options) ([]byte, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, doc)
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func (f *fakeExporter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

type fakeClipboard struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (c *fakeClipboard) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

type fixture struct {
	clock *schedule.Manual
	view  *MemoryView
	store *storage.Memory
	exp   *fakeExporter
	clip  *fakeClipboard
	dir   string
	ed    *Editor
}

var fixedNow = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		clock: schedule.NewManual(),
		view:  NewMemoryView(),
		store: storage.NewMemory(),
		exp:   &fakeExporter{},
		clip:  &fakeClipboard{},
		dir:   t.TempDir(),
	}
	cfg := config.DefaultConfig()
	cfg.Export.OutputDir = f.dir

	base := []Option{
		WithConfig(cfg),
		WithScheduler(f.clock),
		WithRenderer(stubRender),
		WithStorage(f.store),
		WithExporter(f.exp),
		WithClipboard(f.clip),
		WithNow(func() time.Time { return fixedNow }),
	}
	ed, err := NewEditor(f.view.Views(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewEditor() error = %v", err)
	}
	f.ed = ed
	t.Cleanup(func() { _ = ed.Close() })
	return f
}

// typeText simulates a keystroke that leaves the buffer at text.
func (f *fixture) typeText(text string) {
	f.view.SetText(text)
	f.ed.OnInput()
}

func (f *fixture) wantStatus(t *testing.T, msg string, kind StatusKind) {
	t.Helper()
	gotMsg, gotKind := f.view.Status()
	if gotMsg != msg || gotKind != kind {
		t.Errorf("status = (%q, %q), want (%q, %q)", gotMsg, gotKind, msg, kind)
	}
}

func wait[T any](t *testing.T, task *Task[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := task.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("task did not finish")
	}
	return v, err
}

// ---------------------------------------------------------------------------
// TestNewEditor - Construction
// ---------------------------------------------------------------------------

func TestNewEditor(t *testing.T) {
	t.Parallel()

	t.Run("requires an editor view", func(t *testing.T) {
		t.Parallel()

		if _, err := NewEditor(Views{}); !errors.Is(err, ErrNoEditorView) {
			t.Errorf("NewEditor() error = %v, want ErrNoEditorView", err)
		}
	})

	t.Run("renders the initial buffer and shows idle status", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		if got := f.view.HTML(); got != "<p></p>" {
			t.Errorf("HTML = %q", got)
		}
		if diff := cmp.Diff(Stats{Words: 0, Lines: 1, Chars: 0}, f.view.Stats()); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
		f.wantStatus(t, "已就绪", status.KindNone)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Export.Scale = 99
		if _, err := NewEditor(NewMemoryView().Views(), WithConfig(cfg), WithExporter(&fakeExporter{})); !errors.Is(err, config.ErrInvalidValue) {
			t.Errorf("NewEditor() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("views other than the editor are optional", func(t *testing.T) {
		t.Parallel()

		view := NewMemoryView()
		ed, err := NewEditor(Views{Editor: view.Views().Editor}, WithRenderer(stubRender), WithExporter(&fakeExporter{}))
		if err != nil {
			t.Fatalf("NewEditor() error = %v", err)
		}
		defer ed.Close()
		view.SetText("x")
		if err := ed.Apply(toolbar.Bold); err != nil {
			t.Errorf("Apply() error = %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestEditor_Input - Debounced preview and autosave
// ---------------------------------------------------------------------------

func TestEditor_Input_DebouncesRender(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for _, s := range []string{"a", "a b", "a b  c"} {
		f.typeText(s)
		f.clock.Advance(50 * time.Millisecond)
	}
	if got := f.view.HTML(); got != "<p></p>" {
		t.Fatalf("rendered during the burst: %q", got)
	}

	f.clock.Advance(50 * time.Millisecond)
	if got := f.view.HTML(); got != "<p>a b  c</p>" {
		t.Errorf("HTML = %q, want last buffer", got)
	}
	if diff := cmp.Diff(Stats{Words: 3, Lines: 1, Chars: 6}, f.view.Stats()); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_Input_Autosaves(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.typeText("hello")
	f.clock.Advance(999 * time.Millisecond)
	if _, ok, _ := f.store.Get(storage.ContentKey); ok {
		t.Fatal("saved before the quiet period")
	}

	f.clock.Advance(time.Millisecond)
	if got, _, _ := f.store.Get(storage.ContentKey); got != "hello" {
		t.Errorf("stored %q, want hello", got)
	}
	f.wantStatus(t, MsgSaved, status.KindSuccess)

	// The saved message lasts 1000ms, not the default 3000ms.
	f.clock.Advance(time.Second)
	f.wantStatus(t, "已就绪", status.KindNone)
}

func TestEditor_Input_AutosaveDisabled(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Autosave.Enabled = false
	f := newFixture(t, WithConfig(cfg))

	f.typeText("draft")
	f.clock.Advance(2 * time.Second)
	if _, ok, _ := f.store.Get(storage.ContentKey); ok {
		t.Error("disabled autosave stored the buffer")
	}

	// An explicit save still goes through.
	f.ed.Save()
	f.clock.Advance(time.Second)
	if got, _, _ := f.store.Get(storage.ContentKey); got != "draft" {
		t.Errorf("stored %q after Save, want draft", got)
	}
}

// ---------------------------------------------------------------------------
// TestEditor_Apply - Toolbar actions
// ---------------------------------------------------------------------------

func TestEditor_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		buffer   string
		sel      Selection
		action   toolbar.Action
		wantText string
		wantSel  Selection
	}{
		{
			name:     "bold on empty buffer",
			action:   toolbar.Bold,
			wantText: "**粗体文本**",
			wantSel:  Selection{Start: 4, End: 4},
		},
		{
			name:     "link around selection",
			buffer:   "see docs",
			sel:      Selection{Start: 4, End: 8},
			action:   toolbar.Link,
			wantText: "see [docs](URL)",
			wantSel:  Selection{Start: 10, End: 10},
		},
		{
			name:     "table discards selection",
			buffer:   "abc",
			sel:      Selection{Start: 0, End: 3},
			action:   toolbar.Table,
			wantText: toolbar.TablePlaceholder,
			wantSel:  Selection{Start: 13, End: 13},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.view.SetText(tt.buffer)
			f.view.SetSelection(tt.sel)

			if err := f.ed.Apply(tt.action); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got := f.view.Text(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if got := f.view.Selection(); got != tt.wantSel {
				t.Errorf("selection = %+v, want %+v", got, tt.wantSel)
			}
			// Rendered synchronously, without advancing the clock.
			if got := f.view.HTML(); got != "<p>"+tt.wantText+"</p>" {
				t.Errorf("HTML = %q", got)
			}
		})
	}
}

func TestEditor_Apply_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid selection leaves buffer", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.view.SetText("ab")
		f.view.SetSelection(Selection{Start: 1, End: 5})
		if err := f.ed.Apply(toolbar.Bold); !errors.Is(err, toolbar.ErrInvalidSelection) {
			t.Errorf("Apply() error = %v, want ErrInvalidSelection", err)
		}
		if f.view.Text() != "ab" {
			t.Errorf("buffer changed to %q", f.view.Text())
		}
	})

	t.Run("render failure keeps previous preview", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.view.SetText("fine")
		if err := f.ed.Apply(toolbar.List); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		before := f.view.HTML()

		f.view.SetText("boom")
		f.view.SetSelection(Selection{})
		err := f.ed.Apply(toolbar.Bold)
		if !errors.Is(err, preview.ErrRender) {
			t.Fatalf("Apply() error = %v, want ErrRender", err)
		}
		if f.view.HTML() != before {
			t.Errorf("HTML = %q, want previous %q", f.view.HTML(), before)
		}
		f.wantStatus(t, MsgRenderFailed, status.KindError)
	})

	t.Run("debounced render failure reaches the status bar", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.typeText("boom")
		f.clock.Advance(100 * time.Millisecond)
		f.wantStatus(t, MsgRenderFailed, status.KindError)
		if f.view.HTML() != "<p></p>" {
			t.Errorf("preview was replaced: %q", f.view.HTML())
		}
	})
}

// ---------------------------------------------------------------------------
// TestEditor_HandleKey - Shortcuts
// ---------------------------------------------------------------------------

func TestEditor_HandleKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		key         KeyEvent
		wantHandled bool
		wantText    string
	}{
		{"ctrl+b bolds", KeyEvent{Key: "b", Ctrl: true}, true, "**粗体文本**"},
		{"cmd+i italicizes", KeyEvent{Key: "i", Meta: true}, true, "*斜体文本*"},
		{"ctrl+k links", KeyEvent{Key: "k", Ctrl: true}, true, "[链接文本](URL)"},
		{"plain b is typing", KeyEvent{Key: "b"}, false, ""},
		{"ctrl+x is not a shortcut", KeyEvent{Key: "x", Ctrl: true}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			handled, err := f.ed.Dispatch(tt.key)
			if err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			if handled != tt.wantHandled {
				t.Errorf("handled = %v, want %v", handled, tt.wantHandled)
			}
			if got := f.view.Text(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestEditor_HandleKey_SaveAndExport(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.view.SetText("content")

	if handled, _ := f.ed.HandleKey(KeyEvent{Key: "s", Ctrl: true}); !handled {
		t.Fatal("ctrl+s not handled")
	}
	f.clock.Advance(time.Second)
	if got, _, _ := f.store.Get(storage.ContentKey); got != "content" {
		t.Errorf("stored %q after ctrl+s", got)
	}

	if handled, _ := f.ed.HandleKey(KeyEvent{Key: "p", Meta: true}); !handled {
		t.Fatal("cmd+p not handled")
	}
	// The export runs in the background; wait for its file.
	want := filepath.Join(f.dir, "markdown-document-2024-03-05.pdf")
	deadline := time.Now().Add(5 * time.Second)
	for !fileExists(want) {
		if time.Now().After(deadline) {
			t.Fatal("cmd+p did not export")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ---------------------------------------------------------------------------
// TestEditor_Clear - Confirmed clearing
// ---------------------------------------------------------------------------

func TestEditor_Clear(t *testing.T) {
	t.Parallel()

	t.Run("blank buffer asks nothing", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.view.SetText("  \n ")
		cleared, err := f.ed.Clear()
		if err != nil || cleared {
			t.Errorf("Clear() = %v, %v; want false, nil", cleared, err)
		}
		if len(f.view.Prompts()) != 0 {
			t.Errorf("prompted for a blank buffer: %v", f.view.Prompts())
		}
	})

	t.Run("declined", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.view.SetText("keep me")
		f.view.SetConfirmAnswer(false)
		if cleared, _ := f.ed.Clear(); cleared {
			t.Error("Clear() cleared after the user declined")
		}
		if f.view.Text() != "keep me" {
			t.Errorf("text = %q", f.view.Text())
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.view.SetText("gone")
		f.ed.OnInput()
		f.clock.Advance(100 * time.Millisecond)

		cleared, err := f.ed.Dispatch(ClearEvent{})
		if err != nil || !cleared {
			t.Fatalf("Dispatch(ClearEvent) = %v, %v", cleared, err)
		}
		if f.view.Text() != "" || f.view.HTML() != "<p></p>" {
			t.Errorf("text = %q, HTML = %q", f.view.Text(), f.view.HTML())
		}
		if diff := cmp.Diff([]string{PromptClear}, f.view.Prompts()); diff != "" {
			t.Errorf("prompts mismatch (-want +got):\n%s", diff)
		}
		f.wantStatus(t, MsgCleared, status.KindInfo)
	})
}

// ---------------------------------------------------------------------------
// TestEditor_Restore - Startup hydration
// ---------------------------------------------------------------------------

func TestEditor_Restore(t *testing.T) {
	t.Parallel()

	t.Run("saved content", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_ = f.store.Set(storage.ContentKey, "# saved")

		ok, err := f.ed.Restore()
		if err != nil || !ok {
			t.Fatalf("Restore() = %v, %v", ok, err)
		}
		if f.view.Text() != "# saved" || f.view.HTML() != "<p># saved</p>" {
			t.Errorf("text = %q, HTML = %q", f.view.Text(), f.view.HTML())
		}
		f.wantStatus(t, MsgRestored, status.KindInfo)

		f.clock.Advance(3 * time.Second)
		f.wantStatus(t, "已就绪", status.KindNone)
	})

	t.Run("nothing saved", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		if ok, err := f.ed.Restore(); ok || err != nil {
			t.Errorf("Restore() = %v, %v; want false, nil", ok, err)
		}
		f.wantStatus(t, "已就绪", status.KindNone)
	})
}

// ---------------------------------------------------------------------------
// TestEditor_Scroll - Sync and fullscreen
// ---------------------------------------------------------------------------

func TestEditor_Scroll(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.view.SetEditorScroll(ScrollInfo{Top: 50, Height: 200, ClientHeight: 100})
	f.view.SetPreviewScroll(ScrollInfo{Height: 500, ClientHeight: 100})

	f.ed.Dispatch(ScrollEvent{})
	if got := f.view.PreviewScroll().Top; got != 200 {
		t.Errorf("preview top = %v, want 200", got)
	}

	if !f.ed.ToggleFullscreen() || !f.view.Fullscreen() {
		t.Fatal("ToggleFullscreen() did not enter fullscreen")
	}
	f.view.SetEditorScroll(ScrollInfo{Top: 100, Height: 200, ClientHeight: 100})
	f.ed.OnScroll()
	if got := f.view.PreviewScroll().Top; got != 200 {
		t.Errorf("scroll synced in fullscreen: top = %v", got)
	}

	f.ed.Resize(600)
	if !f.ed.Fullscreen() {
		t.Error("narrow resize left fullscreen")
	}
	f.ed.Dispatch(ResizeEvent{Width: 1024})
	if f.ed.Fullscreen() || f.view.Fullscreen() {
		t.Error("wide resize kept fullscreen")
	}

	f.ed.OnScroll()
	if got := f.view.PreviewScroll().Top; got != 400 {
		t.Errorf("preview top = %v, want 400", got)
	}
}

func TestEditor_ConfirmLeave(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if _, ask := f.ed.ConfirmLeave(); ask {
		t.Error("ConfirmLeave() asked for an empty buffer")
	}
	f.view.SetText(" text ")
	if prompt, ask := f.ed.ConfirmLeave(); !ask || prompt != PromptLeave {
		t.Errorf("ConfirmLeave() = %q, %v", prompt, ask)
	}
}

// ---------------------------------------------------------------------------
// TestEditor_Export - PDF export task
// ---------------------------------------------------------------------------

func TestEditor_Export(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.view.SetText("report")
	f.ed.OnInput() // not yet rendered: export must flush it

	res, err := wait(t, f.ed.Export(context.Background()))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	wantPath := filepath.Join(f.dir, "markdown-document-2024-03-05.pdf")
	if res.Path != wantPath || res.Size != len("%PDF-fake") {
		t.Errorf("result = %+v", res)
	}
	if data, err := os.ReadFile(wantPath); err != nil || string(data) != "%PDF-fake" {
		t.Errorf("written file = %q, %v", data, err)
	}

	doc := f.exp.docs[0]
	for _, want := range []string{"<p>report</p>", `class="markdown-body"`, "max-width: 800px", "break-inside: avoid"} {
		if !strings.Contains(doc, want) {
			t.Errorf("exported document missing %q", want)
		}
	}
	if diff := cmp.Diff(export.DefaultOptions(), f.exp.opts); diff != "" {
		t.Errorf("export options mismatch (-want +got):\n%s", diff)
	}
	f.wantStatus(t, MsgExported, status.KindSuccess)
	if !f.view.Enabled(ControlExport) {
		t.Error("export control left disabled")
	}
}

func TestEditor_Export_Busy(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.exp.release = make(chan struct{})
	f.view.SetText("x")

	first := f.ed.Export(context.Background())
	if f.view.Enabled(ControlExport) || !f.ed.Busy(ControlExport) {
		t.Error("export control enabled while exporting")
	}

	if _, err := wait(t, f.ed.Export(context.Background())); !errors.Is(err, ErrBusy) {
		t.Errorf("second Export() error = %v, want ErrBusy", err)
	}

	close(f.exp.release)
	if _, err := wait(t, first); err != nil {
		t.Fatalf("first Export() error = %v", err)
	}
	if !f.view.Enabled(ControlExport) || f.ed.Busy(ControlExport) {
		t.Error("export control not re-enabled")
	}
	if len(f.exp.docs) != 1 {
		t.Errorf("exporter called %d times, want 1", len(f.exp.docs))
	}
}

func TestEditor_Export_Failure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.exp.err = export.ErrBrowserConnect

	_, err := wait(t, f.ed.Export(context.Background()))
	if !errors.Is(err, ErrExport) || !errors.Is(err, export.ErrBrowserConnect) {
		t.Errorf("Export() error = %v, want ErrExport wrapping ErrBrowserConnect", err)
	}
	f.wantStatus(t, MsgExportFailed, status.KindError)
	if !f.view.Enabled(ControlExport) {
		t.Error("export control not re-enabled after failure")
	}

	// The editor stays usable.
	f.exp.err = nil
	if _, err := wait(t, f.ed.Export(context.Background())); err != nil {
		t.Errorf("retry Export() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestEditor_Import - File import task
// ---------------------------------------------------------------------------

func TestEditor_Import(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("# Title\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := wait(t, f.ed.Import(context.Background(), path))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if text != "# Title\n" || f.view.Text() != "# Title\n" {
		t.Errorf("imported %q, buffer %q", text, f.view.Text())
	}
	if f.view.HTML() != "<p># Title\n</p>" {
		t.Errorf("HTML = %q", f.view.HTML())
	}
	f.wantStatus(t, MsgImported, status.KindSuccess)
}

func TestEditor_Import_Failure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.view.SetText("untouched")

	_, err := wait(t, f.ed.Import(context.Background(), filepath.Join(t.TempDir(), "missing.md")))
	if !errors.Is(err, ErrImport) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Import() error = %v, want ErrImport wrapping ErrNotExist", err)
	}
	if f.view.Text() != "untouched" {
		t.Errorf("buffer = %q", f.view.Text())
	}
	f.wantStatus(t, MsgImportFailed, status.KindError)
	if !f.view.Enabled(ControlImport) {
		t.Error("import control not re-enabled")
	}
}

func TestEditor_Import_CustomReader(t *testing.T) {
	t.Parallel()

	reader := FileReaderFunc(func(_ context.Context, path string) (string, error) {
		return "from " + path, nil
	})
	f := newFixture(t, WithFileReader(reader))

	if _, err := wait(t, f.ed.Import(context.Background(), "virtual.md")); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if f.view.Text() != "from virtual.md" {
		t.Errorf("buffer = %q", f.view.Text())
	}
}

func TestEditor_Import_RenderFailure(t *testing.T) {
	t.Parallel()

	files := map[string]string{"good.md": "fine", "bad.md": "boom"}
	reader := FileReaderFunc(func(_ context.Context, path string) (string, error) {
		return files[path], nil
	})
	f := newFixture(t, WithFileReader(reader))

	if _, err := wait(t, f.ed.Import(context.Background(), "good.md")); err != nil {
		t.Fatalf("Import(good) error = %v", err)
	}

	// The read succeeded, so the import does too; only the preview failed.
	text, err := wait(t, f.ed.Import(context.Background(), "bad.md"))
	if err != nil {
		t.Fatalf("Import(bad) error = %v, want nil", err)
	}
	if text != "boom" || f.view.Text() != "boom" {
		t.Errorf("imported %q, buffer %q, want %q", text, f.view.Text(), "boom")
	}
	if f.view.HTML() != "<p>fine</p>" {
		t.Errorf("HTML = %q, want previous render kept", f.view.HTML())
	}
	f.wantStatus(t, MsgRenderFailed, status.KindError)
	if !f.view.Enabled(ControlImport) {
		t.Error("import control not re-enabled")
	}
}

// ---------------------------------------------------------------------------
// TestEditor_Copy - Clipboard task
// ---------------------------------------------------------------------------

func TestEditor_Copy(t *testing.T) {
	t.Parallel()

	t.Run("empty buffer", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		if _, err := wait(t, f.ed.Copy(context.Background())); !errors.Is(err, ErrEmptyBuffer) {
			t.Errorf("Copy() error = %v, want ErrEmptyBuffer", err)
		}
		if len(f.clip.texts) != 0 {
			t.Error("clipboard called for an empty buffer")
		}
		f.wantStatus(t, MsgNothingToCopy, status.KindWarning)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.view.SetText("# copy me")
		if _, err := wait(t, f.ed.Copy(context.Background())); err != nil {
			t.Fatalf("Copy() error = %v", err)
		}
		if diff := cmp.Diff([]string{"# copy me"}, f.clip.texts); diff != "" {
			t.Errorf("clipboard mismatch (-want +got):\n%s", diff)
		}
		f.wantStatus(t, MsgCopied, status.KindSuccess)
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.clip.err = errors.New("no display")
		f.view.SetText("x")
		if _, err := wait(t, f.ed.Copy(context.Background())); !errors.Is(err, ErrCopy) {
			t.Errorf("Copy() error = %v, want ErrCopy", err)
		}
		f.wantStatus(t, MsgCopyFailed, status.KindError)
	})
}

// ---------------------------------------------------------------------------
// TestEditor_Close - Shutdown
// ---------------------------------------------------------------------------

func TestEditor_Close(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.typeText("unsaved")

	if err := f.ed.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got, _, _ := f.store.Get(storage.ContentKey); got != "unsaved" {
		t.Errorf("pending edit not flushed: stored %q", got)
	}
	if f.exp.closed != 1 {
		t.Errorf("exporter closed %d times, want 1", f.exp.closed)
	}
	if f.clock.Pending() != 0 {
		t.Errorf("%d timers left after Close", f.clock.Pending())
	}

	if _, err := wait(t, f.ed.Export(context.Background())); !errors.Is(err, ErrClosed) {
		t.Errorf("Export() after Close error = %v, want ErrClosed", err)
	}
	if err := f.ed.Apply(toolbar.Bold); !errors.Is(err, ErrClosed) {
		t.Errorf("Apply() after Close error = %v, want ErrClosed", err)
	}
	if err := f.ed.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestEditor_Close_CancelsRunningExport(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.exp.release = make(chan struct{}) // never released
	f.view.SetText("x")

	task := f.ed.Export(context.Background())
	if err := f.ed.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := wait(t, task); !errors.Is(err, context.Canceled) {
		t.Errorf("Export() error = %v, want context.Canceled", err)
	}
}
