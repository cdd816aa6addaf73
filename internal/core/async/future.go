// Package async provides futures for work that runs off the caller's goroutine.
package async

import (
	"context"
	"fmt"
)

// Future is a value produced in the background. Work starts when the future
// is created; Await blocks until it completes.
type Future[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	value  T
	err    error
}

// Go runs fn on runner and returns its future. fn receives a context that is
// cancelled by Cancel or when ctx ends. A nil runner uses a plain goroutine.
func Go[T any](ctx context.Context, runner Runner, fn func(ctx context.Context) (T, error)) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future[T]{done: make(chan struct{}), cancel: cancel}

	task := func() {
		defer cancel()
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("async task panicked: %v", r)
			}
		}()
		f.value, f.err = fn(ctx)
	}

	if runner == nil {
		go task()
		return f
	}
	if err := runner.Submit(task); err != nil {
		cancel()
		f.err = err
		close(f.done)
	}
	return f
}

// Completed returns a future already holding v.
func Completed[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), cancel: func() {}, value: v}
	close(f.done)
	return f
}

// Failed returns a future already holding err. No goroutine is started.
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), cancel: func() {}, err: err}
	close(f.done)
	return f
}

// Await waits for the result. It returns ctx.Err() if ctx ends first; the
// work itself keeps running until Cancel is called.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Get waits for the result without a deadline.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Cancel cancels the context the work runs under.
func (f *Future[T]) Cancel() {
	f.cancel()
}
