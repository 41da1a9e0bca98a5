// Package future provides a single-result asynchronous value: a computation started with Go
// completes exactly once with either a value or an error, and completion callbacks receive it.
package future

import "context"

// Future is the handle of an asynchronous computation producing a T.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn in a new goroutine and returns a Future for its result.
// ctx is handed to fn unchanged; cancelling it is up to fn to honour.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()

	return f
}

// OnComplete calls fn with the result from a new goroutine once it is available.
func (f *Future[T]) OnComplete(fn func(value T, err error)) {
	go func() {
		<-f.done
		fn(f.value, f.err)
	}()
}
