// Package status shows transient, auto-reverting status messages.
package status

import (
	"time"

	"github.com/alnah/go-mdlive/internal/schedule"
)

// Kind classifies a status message for styling.
type Kind string

// Status kinds. KindNone is the idle state.
const (
	KindNone    Kind = ""
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Default timings and idle text.
const (
	DefaultDuration = 3000 * time.Millisecond
	DefaultIdleText = "已就绪"
)

// Sink receives every visible status change.
type Sink func(message string, kind Kind)

// Notifier sets a message immediately and reverts it to the idle text after
// a delay. Exactly one revert timer exists at a time; each Notify replaces
// it, so an earlier, longer notification never clears a later one.
type Notifier struct {
	slot     *schedule.Slot
	sink     Sink
	idleText string
	fallback time.Duration

	message string
	kind    Kind
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithIdleText sets the text shown when no message is active.
func WithIdleText(s string) Option {
	return func(n *Notifier) {
		n.idleText = s
	}
}

// WithDefaultDuration sets the duration used when Notify gets d <= 0.
func WithDefaultDuration(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.fallback = d
		}
	}
}

// New creates a Notifier that publishes to sink. The sink is called once
// with the idle state so the host starts from a known message.
func New(s schedule.Scheduler, sink Sink, opts ...Option) *Notifier {
	n := &Notifier{
		slot:     schedule.NewSlot(s),
		sink:     sink,
		idleText: DefaultIdleText,
		fallback: DefaultDuration,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.message = n.idleText
	n.publish()
	return n
}

// Notify shows message with kind and schedules the revert after d
// (DefaultDuration when d <= 0).
func (n *Notifier) Notify(message string, kind Kind, d time.Duration) {
	if d <= 0 {
		d = n.fallback
	}
	n.message = message
	n.kind = kind
	n.publish()
	n.slot.Schedule(d, n.revert)
}

// Current returns the visible message and kind.
func (n *Notifier) Current() (string, Kind) {
	return n.message, n.kind
}

// Pending reports whether a revert is scheduled.
func (n *Notifier) Pending() bool {
	return n.slot.Pending()
}

// Stop cancels the pending revert without changing the message.
func (n *Notifier) Stop() {
	n.slot.Cancel()
}

func (n *Notifier) revert() {
	n.message = n.idleText
	n.kind = KindNone
	n.publish()
}

func (n *Notifier) publish() {
	if n.sink != nil {
		n.sink(n.message, n.kind)
	}
}
