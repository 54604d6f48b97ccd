package async

import "context"

// Result holds either an immediate value or a Future that settles later.
// The zero Result is an immediate zero value.
type Result[T any] struct {
	value  T
	future *Future[T]
}

// Ready wraps an immediate value.
func Ready[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Empty is an immediate zero value.
func Empty[T any]() Result[T] {
	return Result[T]{}
}

// Later wraps a future. A nil future yields an immediate zero value.
func Later[T any](f *Future[T]) Result[T] {
	return Result[T]{future: f}
}

// IsPending reports whether the result is backed by a future.
// A pending result stays pending even after its future settles.
func (r Result[T]) IsPending() bool {
	return r.future != nil
}

// Value returns the immediate value. ok is false for pending results.
func (r Result[T]) Value() (v T, ok bool) {
	if r.future != nil {
		return v, false
	}
	return r.value, true
}

// Await returns the value, blocking on the future for pending results.
func (r Result[T]) Await() (T, error) {
	if r.future == nil {
		return r.value, nil
	}
	return r.future.Await()
}

// AwaitContext is Await bounded by ctx.
func (r Result[T]) AwaitContext(ctx context.Context) (T, error) {
	if r.future == nil {
		return r.value, nil
	}
	return r.future.AwaitContext(ctx)
}

// Future returns the result as a future; immediate values come back already resolved.
func (r Result[T]) Future() *Future[T] {
	if r.future == nil {
		return Resolved(r.value)
	}
	return r.future
}

// Then maps the value of r with fn. Immediate results are mapped in place,
// pending ones on a new goroutine once they settle. Errors pass through untouched.
func Then[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.future == nil {
		return Ready(fn(r.value))
	}

	src := r.future
	return Later(Go(context.Background(), func(context.Context) (U, error) {
		v, err := src.Await()
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v), nil
	}))
}
