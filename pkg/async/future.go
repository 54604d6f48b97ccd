package async

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Future represents the eventual result of an asynchronous computation.
// A Future settles exactly once, either with a value or with an error.
type Future[T any] struct {
	result T
	err    error
	once   sync.Once
	done   chan struct{}
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// settle stores the outcome and releases waiters. Only the first call wins.
func (f *Future[T]) settle(v T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.result = v
		f.err = err
		settled = true
		close(f.done)
	})
	return settled
}

// Await blocks until the future settles and returns its value and error.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for the future or for ctx to be done, whichever comes first.
// The underlying computation keeps running when ctx wins.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout waits for the future with a timeout.
// If the timeout elapses first, ErrTimeout is returned.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero T
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the future has settled, without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Resolved returns a future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.settle(v, nil)
	return f
}

// Rejected returns a future already settled with err.
func Rejected[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.settle(zero, err)
	return f
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	future *Future[T]
}

// NewPromise creates an unsettled promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{future: newFuture[T]()}
}

// Future returns the read side of the promise.
func (p *Promise[T]) Future() *Future[T] {
	return p.future
}

// Resolve settles the promise with v.
// Returns ErrAlreadySettled if the promise was settled before.
func (p *Promise[T]) Resolve(v T) error {
	if !p.future.settle(v, nil) {
		return ErrAlreadySettled
	}
	return nil
}

// Reject settles the promise with err.
// Returns ErrAlreadySettled if the promise was settled before.
func (p *Promise[T]) Reject(err error) error {
	var zero T
	if !p.future.settle(zero, err) {
		return ErrAlreadySettled
	}
	return nil
}

// Go runs fn in its own goroutine and returns a Future for its outcome.
// A panic inside fn rejects the future with an error wrapping ErrPanicked.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	go run(ctx, f, fn)
	return f
}

// Async executes fn with param asynchronously and returns a Future.
func Async[P any, T any](ctx context.Context, param P, fn func(context.Context, P) (T, error)) *Future[T] {
	return Go(ctx, func(ctx context.Context) (T, error) {
		return fn(ctx, param)
	})
}

func run[T any](ctx context.Context, f *Future[T], fn func(context.Context) (T, error)) {
	var zero T
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				f.settle(zero, fmt.Errorf("%w: %w", ErrPanicked, err))
				return
			}
			f.settle(zero, fmt.Errorf("%w: %v", ErrPanicked, r))
		}
	}()

	// Early exit prevents running work for a context that is already gone
	select {
	case <-ctx.Done():
		f.settle(zero, ctx.Err())
		return
	default:
	}

	res, err := fn(ctx)
	f.settle(res, err)
}

// WaitAll waits for every future and returns their values in order,
// together with the first error any of them settled with.
func WaitAll[T any](futures ...*Future[T]) ([]T, error) {
	results := make([]T, len(futures))
	var g errgroup.Group
	for i, future := range futures {
		g.Go(func() error {
			result, err := future.Await()
			results[i] = result
			return err
		})
	}
	return results, g.Wait()
}

// WaitAny returns the index, value and error of the first future to settle.
func WaitAny[T any](futures ...*Future[T]) (int, T, error) {
	if len(futures) == 0 {
		var zero T
		return -1, zero, ErrNoFutures
	}

	type settled struct {
		index  int
		result T
		err    error
	}
	done := make(chan settled, len(futures))
	for i, future := range futures {
		go func(index int, f *Future[T]) {
			result, err := f.Await()
			done <- settled{index, result, err}
		}(i, future)
	}

	res := <-done
	return res.index, res.result, res.err
}
