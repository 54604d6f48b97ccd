// Package middleware provides reusable handlers for a handlerchain.HandlerChain.
//
// Each constructor returns a HandlerFunc meant to be registered at a low
// priority so it wraps the handlers after it:
//
//	chain := handlerchain.New[*Request, string]()
//	chain.HandleAt(0, middleware.Logging[*Request, string](log))
//	chain.Handle(middleware.Match(isPing, pong))
//
// Wrapping middleware work with both immediate and pending downstream
// answers: when the rest of the chain answers later, the "after" part runs
// once that answer settles.
package middleware

import (
	"context"
	"time"

	"github.com/dmitrymomot/handlerchain"
	"github.com/dmitrymomot/handlerchain/pkg/async"
)

// Around runs the rest of the chain and calls after with the elapsed time, read
// from the chain's clock, and the rejection error, if any, once the downstream
// answer is available.
func Around[Req, Resp any](after func(c *handlerchain.Context[Req, Resp], elapsed time.Duration, err error)) handlerchain.HandlerFunc[Req, Resp] {
	return func(c *handlerchain.Context[Req, Resp]) (async.Result[Resp], error) {
		start := c.Now()
		res := c.Next()
		if !res.IsPending() {
			after(c, c.Now().Sub(start), nil)
			return res, nil
		}

		downstream := res.Future()
		f := async.Go(context.WithoutCancel(c.Context()), func(context.Context) (Resp, error) {
			v, err := downstream.Await()
			after(c, c.Now().Sub(start), err)
			return v, err
		})
		return async.Later(f), nil
	}
}

// Match runs fn only for requests accepted by pred; other requests pass
// straight to the next handler.
func Match[Req, Resp any](pred func(Req) bool, fn handlerchain.HandlerFunc[Req, Resp]) handlerchain.HandlerFunc[Req, Resp] {
	return func(c *handlerchain.Context[Req, Resp]) (async.Result[Resp], error) {
		if !pred(c.Request()) {
			return c.Next(), nil
		}
		return fn(c)
	}
}

// Timing reports how long the downstream handlers took and the task status
// they left behind.
func Timing[Req, Resp any](observe func(elapsed time.Duration, s handlerchain.StatusSnapshot)) handlerchain.HandlerFunc[Req, Resp] {
	return Around(func(c *handlerchain.Context[Req, Resp], elapsed time.Duration, _ error) {
		observe(elapsed, c.GetStatus())
	})
}
