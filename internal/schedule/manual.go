package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by Advance instead of the wall clock.
// Callbacks run on the goroutine calling Advance, in deadline order
// (ties in scheduling order), with the clock set to their deadline.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	nextID uint64
	timers []*manualTimer
}

type manualTimer struct {
	id  uint64
	at  time.Duration
	fn  func()
	off bool
}

// NewManual returns a Manual clock at elapsed time zero.
func NewManual() *Manual {
	return &Manual{}
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) CancelFunc {
	if d < 0 {
		d = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	t := &manualTimer{id: m.nextID, at: m.now + d, fn: fn}
	m.timers = append(m.timers, t)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		t.off = true
	}
}

// Advance moves the clock forward by d, firing every timer that falls due.
// Timers scheduled by callbacks fire too if their deadline is within d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d

	for {
		t := m.popDueLocked(target)
		if t == nil {
			break
		}
		m.now = t.at
		m.mu.Unlock()
		t.fn()
		m.mu.Lock()
	}

	m.now = target
	m.mu.Unlock()
}

// Elapsed returns the time advanced since creation.
func (m *Manual) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of live timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.timers {
		if !t.off {
			n++
		}
	}
	return n
}

// popDueLocked removes and returns the earliest live timer due at or before
// target (must hold lock). Cancelled timers are dropped along the way.
func (m *Manual) popDueLocked(target time.Duration) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.off {
			live = append(live, t)
		}
	}
	m.timers = live

	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].at != m.timers[j].at {
			return m.timers[i].at < m.timers[j].at
		}
		return m.timers[i].id < m.timers[j].id
	})

	if len(m.timers) == 0 || m.timers[0].at > target {
		return nil
	}

	t := m.timers[0]
	m.timers = m.timers[1:]
	t.off = true
	return t
}
