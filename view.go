package mdlive

import (
	"github.com/alnah/go-mdlive/internal/scroll"
	"github.com/alnah/go-mdlive/internal/stats"
	"github.com/alnah/go-mdlive/internal/status"
	"github.com/alnah/go-mdlive/internal/toolbar"
)

// Selection is a rune range of the buffer.
type Selection = toolbar.Selection

// ScrollInfo is the scroll geometry of one pane.
type ScrollInfo = scroll.Info

// Stats are the document statistics shown under the editor.
type Stats = stats.Stats

// StatusKind classifies a status message.
type StatusKind = status.Kind

// EditorView is the text input pane. It holds the buffer.
type EditorView interface {
	Text() string
	SetText(text string)
	Selection() Selection
	SetSelection(sel Selection)
	ScrollInfo() ScrollInfo
}

// PreviewView is the rendered pane.
type PreviewView interface {
	SetHTML(html string)
	ScrollInfo() ScrollInfo
	SetScrollTop(top float64)
	SetFullscreen(on bool)
}

// StatsView shows word, line and character counts.
type StatsView interface {
	SetStats(s Stats)
}

// StatusView shows the status bar message.
type StatusView interface {
	SetStatus(message string, kind StatusKind)
}

// Control names a button driving an asynchronous operation.
type Control string

// Controls disabled while their operation runs.
const (
	ControlExport Control = "export"
	ControlImport Control = "import"
	ControlCopy   Control = "copy"
)

// ControlView enables and disables buttons.
type ControlView interface {
	SetEnabled(c Control, enabled bool)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Views bundles the host surfaces. Editor is required; the others are
// optional and a nil view simply receives nothing. A nil Confirmer
// approves every prompt.
type Views struct {
	Editor   EditorView
	Preview  PreviewView
	Stats    StatsView
	Status   StatusView
	Controls ControlView
	Confirm  Confirmer
}

// nopPreview is used when the host has no preview pane.
type nopPreview struct{}

func (nopPreview) SetHTML(string)         {}
func (nopPreview) ScrollInfo() ScrollInfo { return ScrollInfo{} }
func (nopPreview) SetScrollTop(float64)   {}
func (nopPreview) SetFullscreen(bool)     {}

// withDefaults fills the optional views with no-ops.
func (v Views) withDefaults() Views {
	if v.Preview == nil {
		v.Preview = nopPreview{}
	}
	if v.Stats == nil {
		v.Stats = statsFunc(func(Stats) {})
	}
	if v.Status == nil {
		v.Status = statusFunc(func(string, StatusKind) {})
	}
	if v.Controls == nil {
		v.Controls = controlFunc(func(Control, bool) {})
	}
	if v.Confirm == nil {
		v.Confirm = confirmFunc(func(string) bool { return true })
	}
	return v
}

type statsFunc func(Stats)

func (f statsFunc) SetStats(s Stats) { f(s) }

type statusFunc func(string, StatusKind)

func (f statusFunc) SetStatus(m string, k StatusKind) { f(m, k) }

type controlFunc func(Control, bool)

func (f controlFunc) SetEnabled(c Control, on bool) { f(c, on) }

type confirmFunc func(string) bool

func (f confirmFunc) Confirm(p string) bool { return f(p) }

// Compile-time interface checks.
var (
	_ PreviewView = nopPreview{}
	_ StatsView   = statsFunc(nil)
	_ StatusView  = statusFunc(nil)
	_ ControlView = controlFunc(nil)
	_ Confirmer   = confirmFunc(nil)
)
