package mdlive

import (
	"sync"
	"unicode/utf8"
)

// MemoryView is an in-memory host surface. Tests and headless hosts such
// as the CLI use it; it records everything the editor publishes.
//
// Thread-safety: all methods are safe for concurrent use.
type MemoryView struct {
	mu sync.Mutex

	text          string
	sel           Selection
	editorScroll  ScrollInfo
	html          string
	previewScroll ScrollInfo
	fullscreen    bool
	stats         Stats
	status        string
	kind          StatusKind
	disabled      map[Control]bool
	answer        bool
	prompts       []string
	onHTML        func(string)
}

// NewMemoryView returns an empty view whose confirmations are approved.
func NewMemoryView() *MemoryView {
	return &MemoryView{disabled: make(map[Control]bool), answer: true}
}

// Views exposes the view as every host surface.
func (v *MemoryView) Views() Views {
	return Views{
		Editor:   memoryEditor{v},
		Preview:  memoryPreview{v},
		Stats:    v,
		Status:   v,
		Controls: v,
		Confirm:  v,
	}
}

// Text returns the buffer.
func (v *MemoryView) Text() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.text
}

// SetText replaces the buffer and puts the caret at its end, the way a
// text area does when its value is assigned.
func (v *MemoryView) SetText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.text = text
	n := utf8.RuneCountInString(text)
	v.sel = Selection{Start: n, End: n}
}

// Selection returns the selected rune range.
func (v *MemoryView) Selection() Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel
}

// SetSelection selects a rune range.
func (v *MemoryView) SetSelection(sel Selection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel = sel
}

// SetEditorScroll sets the editor pane geometry.
func (v *MemoryView) SetEditorScroll(info ScrollInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editorScroll = info
}

// SetPreviewScroll sets the preview pane geometry.
func (v *MemoryView) SetPreviewScroll(info ScrollInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.previewScroll = info
}

// PreviewScroll returns the preview pane geometry.
func (v *MemoryView) PreviewScroll() ScrollInfo {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.previewScroll
}

// HTML returns the last published preview.
func (v *MemoryView) HTML() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.html
}

// OnHTML registers fn to receive every published preview.
func (v *MemoryView) OnHTML(fn func(html string)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onHTML = fn
}

// Fullscreen reports whether the preview is shown fullscreen.
func (v *MemoryView) Fullscreen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fullscreen
}

// SetStats implements StatsView.
func (v *MemoryView) SetStats(s Stats) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stats = s
}

// Stats returns the last published statistics.
func (v *MemoryView) Stats() Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

// SetStatus implements StatusView.
func (v *MemoryView) SetStatus(message string, kind StatusKind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = message
	v.kind = kind
}

// Status returns the visible status message and kind.
func (v *MemoryView) Status() (string, StatusKind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status, v.kind
}

// SetEnabled implements ControlView.
func (v *MemoryView) SetEnabled(c Control, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.disabled[c] = !enabled
}

// Enabled reports whether a control is enabled.
func (v *MemoryView) Enabled(c Control) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.disabled[c]
}

// SetConfirmAnswer sets the answer given to every prompt.
func (v *MemoryView) SetConfirmAnswer(yes bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.answer = yes
}

// Confirm implements Confirmer.
func (v *MemoryView) Confirm(prompt string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.prompts = append(v.prompts, prompt)
	return v.answer
}

// Prompts returns the prompts asked so far.
func (v *MemoryView) Prompts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.prompts...)
}

// memoryEditor adds the editor pane geometry to the shared methods.
type memoryEditor struct{ *MemoryView }

func (m memoryEditor) ScrollInfo() ScrollInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editorScroll
}

// memoryPreview is the preview pane side of a MemoryView.
type memoryPreview struct{ v *MemoryView }

func (m memoryPreview) SetHTML(html string) {
	m.v.mu.Lock()
	m.v.html = html
	fn := m.v.onHTML
	m.v.mu.Unlock()
	if fn != nil {
		fn(html)
	}
}

func (m memoryPreview) ScrollInfo() ScrollInfo {
	return m.v.PreviewScroll()
}

func (m memoryPreview) SetScrollTop(top float64) {
	m.v.mu.Lock()
	defer m.v.mu.Unlock()
	m.v.previewScroll.Top = top
}

func (m memoryPreview) SetFullscreen(on bool) {
	m.v.mu.Lock()
	defer m.v.mu.Unlock()
	m.v.fullscreen = on
}

// Compile-time interface checks.
var (
	_ EditorView  = memoryEditor{}
	_ PreviewView = memoryPreview{}
	_ StatsView   = (*MemoryView)(nil)
	_ StatusView  = (*MemoryView)(nil)
	_ ControlView = (*MemoryView)(nil)
	_ Confirmer   = (*MemoryView)(nil)
)
