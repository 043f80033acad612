// Package future provides a callback-style asynchronous result.
//
// A Future is completed exactly once, either with a value or with an error.
// Continuations registered with Then run on the goroutine that completes the
// future, or immediately on the caller's goroutine when it is already done.
package future

import (
	"context"
	"sync"
)

type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	completed bool
	value     T
	err       error
	callbacks []func(T, error)
}

func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func Resolved[T any](v T) *Future[T] {
	f := New[T]()
	f.Resolve(v)

	return f
}

func Failed[T any](err error) *Future[T] {
	f := New[T]()
	f.Reject(err)

	return f
}

// Complete settles the future. Only the first call has any effect; it
// reports whether this call was the one that settled it.
func (f *Future[T]) Complete(v T, err error) bool {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return false
	}

	f.completed = true
	f.value = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}

	return true
}

func (f *Future[T]) Resolve(v T) bool { return f.Complete(v, nil) }

func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.Complete(zero, err)
}

// Done is closed once the future is settled.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await blocks until the future settles or ctx ends. It is meant for
// goroutines that are allowed to block, such as tests and CLI entrypoints.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then registers fn to run once the future settles.
func (f *Future[T]) Then(fn func(T, error)) {
	f.mu.Lock()
	if !f.completed {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()

		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()

	fn(v, err)
}

// Map derives a future whose value is fn applied to f's value. Errors pass
// through without calling fn.
func Map[T, R any](f *Future[T], fn func(T) (R, error)) *Future[R] {
	out := New[R]()

	f.Then(func(v T, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		out.Complete(fn(v))
	})

	return out
}

// Chain continues f with another asynchronous step.
func Chain[T, R any](f *Future[T], fn func(T) *Future[R]) *Future[R] {
	out := New[R]()

	f.Then(func(v T, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		fn(v).Then(func(r R, err error) { out.Complete(r, err) })
	})

	return out
}

// All settles once every input has settled. It fails with the first error
// observed; values keep the order of fs.
func All[T any](fs ...*Future[T]) *Future[[]T] {
	out := New[[]T]()
	if len(fs) == 0 {
		out.Resolve([]T{})
		return out
	}

	var (
		mu        sync.Mutex
		remaining = len(fs)
		values    = make([]T, len(fs))
	)

	for i, f := range fs {
		f.Then(func(v T, err error) {
			if err != nil {
				out.Reject(err)
				return
			}

			mu.Lock()
			values[i] = v
			remaining--
			last := remaining == 0
			mu.Unlock()

			if last {
				out.Resolve(values)
			}
		})
	}

	return out
}
