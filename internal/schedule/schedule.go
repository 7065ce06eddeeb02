// Package schedule provides the timer capability used by debounced editor work.
//
// Components never call time.AfterFunc directly. They receive a Scheduler,
// which lets tests drive time with Manual instead of sleeping, and lets the
// editor serialize every callback behind its own lock with Locked.
package schedule

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled callback. Calling it after the callback ran,
// or more than once, is a no-op.
type CancelFunc func()

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
}

// Real schedules callbacks on the wall clock.
type Real struct{}

// After implements Scheduler using time.AfterFunc.
func (Real) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// lockedScheduler runs every callback while holding a shared lock.
type lockedScheduler struct {
	inner Scheduler
	mu    sync.Locker
}

// Locked returns a Scheduler whose callbacks acquire mu before running.
// The editor hands this to its components so timer callbacks never
// interleave with event handlers.
func Locked(s Scheduler, mu sync.Locker) Scheduler {
	return &lockedScheduler{inner: s, mu: mu}
}

func (l *lockedScheduler) After(d time.Duration, fn func()) CancelFunc {
	return l.inner.After(d, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		fn()
	})
}

// Compile-time interface checks.
var (
	_ Scheduler = Real{}
	_ Scheduler = (*lockedScheduler)(nil)
	_ Scheduler = (*Manual)(nil)
)
