package mdlive

import (
	"context"
	"sync"
)

// Task is the pending result of an asynchronous editor operation.
// The editor has already published the outcome to the status bar by the
// time Done is closed; waiting is only needed for the typed result.
type Task[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func newTask[T any]() *Task[T] {
	return &Task[T]{done: make(chan struct{})}
}

// completedTask returns a task that is already finished.
func completedTask[T any](val T, err error) *Task[T] {
	t := newTask[T]()
	t.complete(val, err)
	return t
}

func (t *Task[T]) complete(val T, err error) {
	t.once.Do(func() {
		t.val = val
		t.err = err
		close(t.done)
	})
}

// Done is closed when the operation finishes.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the operation finishes or ctx is done. Giving up on
// the wait does not cancel the operation.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome and true once the operation has finished.
func (t *Task[T]) Result() (T, error, bool) {
	select {
	case <-t.done:
		return t.val, t.err, true
	default:
		var zero T
		return zero, nil, false
	}
}
