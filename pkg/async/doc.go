// Package async provides small generic primitives for values that may not be available yet.
//
// A Future is the read side of an eventual value. It settles exactly once, either with a value
// or with an error, and can be awaited any number of times. A Promise is its write side. Go and
// Async start a function on its own goroutine and hand back a Future for its outcome; a panic
// inside that function rejects the Future instead of crashing the process.
//
// Result is a union of "value now" and "value later". Code that may or may not need to wait,
// such as a handler chain whose handlers can answer synchronously or asynchronously, returns a
// Result and lets the caller decide:
//
//	r := async.Ready(42)                 // immediate
//	p := async.Later(async.Go(ctx, fn))  // pending
//
//	if v, ok := r.Value(); ok {
//	    // no waiting needed
//	}
//	v, err := p.Await()
//
// Then maps a Result without forcing it: immediate values are mapped in place, pending ones
// once they settle.
//
// # Waiting on several futures
//
// WaitAll waits for every future, collecting values in order plus the first error. WaitAny returns the first
// future to settle.
//
// # Error Handling
//
// Functions return the error produced by the user callback. AwaitWithTimeout returns ErrTimeout,
// Promise.Resolve and Promise.Reject return ErrAlreadySettled on a second settle, and a
// recovered panic is reported as an error wrapping ErrPanicked.
package async
