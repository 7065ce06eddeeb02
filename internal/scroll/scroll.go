// Package scroll maps the editor pane's scroll position onto the preview pane.
package scroll

// Info describes a scrollable pane.
type Info struct {
	Top          float64 // current scroll offset
	Height       float64 // total content height
	ClientHeight float64 // visible height
}

// Range returns the maximum scroll offset, never negative.
func (i Info) Range() float64 {
	if r := i.Height - i.ClientHeight; r > 0 {
		return r
	}
	return 0
}

// Ratio returns how far the pane is scrolled, in [0,1].
// A pane without overflow has ratio 0.
func Ratio(src Info) float64 {
	r := src.Range()
	if r == 0 {
		return 0
	}
	ratio := src.Top / r
	switch {
	case ratio != ratio, ratio < 0: // NaN or negative
		return 0
	case ratio > 1:
		return 1
	}
	return ratio
}

// Map returns the target offset matching the source's proportional position.
func Map(src, dst Info) float64 {
	return Ratio(src) * dst.Range()
}

// Synchronizer applies one-way source-to-target scroll mapping.
// Synchronization is suspended while the preview is shown fullscreen.
type Synchronizer struct {
	fullscreen bool
}

// SetFullscreen enables or disables the exclusive preview mode.
func (s *Synchronizer) SetFullscreen(on bool) {
	s.fullscreen = on
}

// Fullscreen reports whether the preview is in exclusive mode.
func (s *Synchronizer) Fullscreen() bool {
	return s.fullscreen
}

// Sync returns the new target offset and true, or false when the event
// must be ignored.
func (s *Synchronizer) Sync(src, dst Info) (float64, bool) {
	if s.fullscreen {
		return 0, false
	}
	return Map(src, dst), true
}
