package mdlive

import (
	"fmt"

	"github.com/alnah/go-mdlive/internal/toolbar"
)

// Event is a user interaction delivered to Editor.Dispatch.
type Event interface {
	event()
}

// InputEvent reports that the user edited the buffer.
type InputEvent struct{}

// ScrollEvent reports that the editor pane scrolled.
type ScrollEvent struct{}

// ActionEvent is a toolbar button press.
type ActionEvent struct {
	Action toolbar.Action
}

// KeyEvent is a key press. Key is the produced character, such as "b".
type KeyEvent struct {
	Key  string
	Ctrl bool
	Meta bool
}

// ClearEvent is a press of the clear button.
type ClearEvent struct{}

// FullscreenEvent toggles the fullscreen preview.
type FullscreenEvent struct{}

// ResizeEvent reports the new window width in pixels.
type ResizeEvent struct {
	Width int
}

// SaveEvent requests a save.
type SaveEvent struct{}

// ExportEvent is a press of the export button.
type ExportEvent struct{}

// ImportEvent reports a file picked for import.
type ImportEvent struct {
	Path string
}

// CopyEvent is a press of the copy button.
type CopyEvent struct{}

func (InputEvent) event()      {}
func (ScrollEvent) event()     {}
func (ActionEvent) event()     {}
func (KeyEvent) event()        {}
func (ClearEvent) event()      {}
func (FullscreenEvent) event() {}
func (ResizeEvent) event()     {}
func (SaveEvent) event()       {}
func (ExportEvent) event()     {}
func (ImportEvent) event()     {}
func (CopyEvent) event()       {}

// Dispatch routes ev to its handler. For key events, handled reports that
// the key was a shortcut and the host must suppress its default action.
// Asynchronous operations are started and not awaited; their outcome
// reaches the status bar.
func (e *Editor) Dispatch(ev Event) (handled bool, err error) {
	switch ev := ev.(type) {
	case InputEvent:
		e.OnInput()
	case ScrollEvent:
		e.OnScroll()
	case ActionEvent:
		err = e.Apply(ev.Action)
	case KeyEvent:
		return e.HandleKey(ev)
	case ClearEvent:
		_, err = e.Clear()
	case FullscreenEvent:
		e.ToggleFullscreen()
	case ResizeEvent:
		e.Resize(ev.Width)
	case SaveEvent:
		e.Save()
	case ExportEvent:
		e.Export(e.ctx)
	case ImportEvent:
		e.Import(e.ctx, ev.Path)
	case CopyEvent:
		e.Copy(e.ctx)
	default:
		return false, fmt.Errorf("unknown event %T", ev)
	}
	return true, err
}
