package mdlive

import "errors"

// Sentinel errors for editor operations.
var (
	ErrExport       = errors.New("PDF export failed")
	ErrImport       = errors.New("file import failed")
	ErrCopy         = errors.New("clipboard copy failed")
	ErrBusy         = errors.New("operation already in progress")
	ErrClosed       = errors.New("editor is closed")
	ErrEmptyBuffer  = errors.New("buffer is empty")
	ErrNoEditorView = errors.New("editor view is required")
)
