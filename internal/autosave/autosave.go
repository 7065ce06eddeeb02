// Package autosave persists the editor buffer after typing pauses.
package autosave

import (
	"errors"
	"fmt"
	"time"

	"github.com/alnah/go-mdlive/internal/schedule"
	"github.com/alnah/go-mdlive/internal/storage"
)

// ErrSave indicates the store rejected a save. The buffer is untouched.
var ErrSave = errors.New("autosave failed")

// DefaultDelay is the quiet period before a save.
const DefaultDelay = 1000 * time.Millisecond

// Controller debounces saves on its own timer slot, independent of the
// preview timer. Each save reads the buffer when it runs.
type Controller struct {
	debounce *schedule.Debouncer
	store    storage.Store
	source   func() string
	key      string
	delay    time.Duration
	disabled bool
	onSaved  func()
	onError  func(error)

	saves int
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelay sets the debounce window.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(c *Controller) {
		if key != "" {
			c.key = key
		}
	}
}

// WithEnabled turns autosave on or off. Disabled controllers ignore Changed.
func WithEnabled(on bool) Option {
	return func(c *Controller) {
		c.disabled = !on
	}
}

// WithOnSaved registers the success callback of debounced saves.
func WithOnSaved(fn func()) Option {
	return func(c *Controller) {
		c.onSaved = fn
	}
}

// WithOnError registers the failure callback of debounced saves.
func WithOnError(fn func(error)) Option {
	return func(c *Controller) {
		c.onError = fn
	}
}

// New creates a Controller saving source() into store.
func New(s schedule.Scheduler, store storage.Store, source func() string, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		source: source,
		key:    storage.ContentKey,
		delay:  DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.debounce = schedule.NewDebouncer(s, c.delay, c.fire)
	return c
}

// Changed restarts the quiet period after an edit. Disabled controllers
// ignore it.
func (c *Controller) Changed() {
	if c.disabled {
		return
	}
	c.debounce.Trigger()
}

// Request restarts the quiet period even when autosave is disabled.
// Explicit save commands use it.
func (c *Controller) Request() {
	c.debounce.Trigger()
}

// Flush saves immediately if a save is pending and cancels the timer.
// Used on shutdown so the last edits are not lost.
func (c *Controller) Flush() error {
	if !c.debounce.Pending() {
		return nil
	}
	c.debounce.Cancel()
	return c.save()
}

// Cancel drops the pending save.
func (c *Controller) Cancel() {
	c.debounce.Cancel()
}

// Pending reports whether a save is scheduled.
func (c *Controller) Pending() bool {
	return c.debounce.Pending()
}

// Enabled reports whether Changed schedules saves.
func (c *Controller) Enabled() bool {
	return !c.disabled
}

// Saves returns the number of successful saves.
func (c *Controller) Saves() int {
	return c.saves
}

func (c *Controller) fire() {
	if err := c.save(); err != nil {
		if c.onError != nil {
			c.onError(err)
		}
		return
	}
	if c.onSaved != nil {
		c.onSaved()
	}
}

func (c *Controller) save() error {
	if err := c.store.Set(c.key, c.source()); err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	c.saves++
	return nil
}
