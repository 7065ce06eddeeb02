// Package mdlive is a live markdown editing engine.
//
// An Editor keeps a rendered preview, scroll position and document
// statistics in step with a text buffer, and applies toolbar actions that
// insert markdown around the selection with exact caret placement.
// The host surface (a terminal, a GUI toolkit, a test) is reached only
// through small view interfaces, so the engine runs and tests without a
// display.
//
// # Quick Start
//
//	view := mdlive.NewMemoryView()
//	ed, err := mdlive.NewEditor(view.Views(),
//	    mdlive.WithStorage(storage.NewFile(path)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ed.Close()
//
//	ed.Restore()
//	view.SetText("# Hello")
//	ed.OnInput() // preview re-renders 100ms after the last keystroke
//
// # Timing
//
// Text changes are debounced: the preview renders 100ms after the last
// change and the buffer is saved 1000ms after it, each on its own timer.
// Toolbar actions, imports and clears render immediately. Status messages
// revert to the idle text after their duration, and a newer message always
// replaces the revert of an older one.
//
// Every handler and every timer callback runs under one lock, so handlers
// never interleave. Inject a schedule.Manual with WithScheduler to drive
// time in tests.
//
// # Asynchronous Operations
//
// Export, Import and Copy call slow collaborators (headless Chrome, the
// filesystem, the system clipboard). They return a Task immediately and
// disable their control until the call completes; a second trigger while
// one is running completes at once with ErrBusy.
//
//	task := ed.Export(ctx)
//	res, err := task.Wait(ctx)
//	if errors.Is(err, mdlive.ErrExport) {
//	    // status bar already shows the failure
//	}
package mdlive
