package schedule

import (
	"sync"
	"time"
)

// Slot holds at most one pending timer. Scheduling a new callback cancels the
// previous one, and a callback that lost the race with Schedule or Cancel
// (already fired, waiting on a lock) is discarded by sequence number.
//
// Thread-safety: all methods are safe for concurrent use.
type Slot struct {
	sched Scheduler

	mu      sync.Mutex
	cancel  CancelFunc
	seq     uint64 // identifies the current timer; stale callbacks compare unequal
	pending bool
}

// NewSlot creates an empty slot backed by s.
func NewSlot(s Scheduler) *Slot {
	return &Slot{sched: s}
}

// Schedule replaces any pending callback with fn, due after d.
func (s *Slot) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.seq++
	seq := s.seq
	s.pending = true

	s.cancel = s.sched.After(d, func() {
		s.mu.Lock()
		if s.seq != seq || !s.pending {
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.cancel = nil
		s.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending callback, if any.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.seq++
	s.pending = false
}

// Pending reports whether a callback is scheduled and has not fired.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// stopLocked stops the current timer (must hold lock).
func (s *Slot) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Debouncer runs fn once after no Trigger call has happened for delay
// (trailing edge).
type Debouncer struct {
	slot  *Slot
	delay time.Duration
	fn    func()
}

// NewDebouncer creates a Debouncer with its own Slot.
func NewDebouncer(s Scheduler, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		slot:  NewSlot(s),
		delay: delay,
		fn:    fn,
	}
}

// Trigger restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.slot.Schedule(d.delay, d.fn)
}

// Cancel drops the pending call.
func (d *Debouncer) Cancel() {
	d.slot.Cancel()
}

// Pending reports whether a call is waiting for the quiet period to end.
func (d *Debouncer) Pending() bool {
	return d.slot.Pending()
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
