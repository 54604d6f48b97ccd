package handlerchain

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/handlerchain/pkg/async"
)

// Context is what a handler sees of the dispatch it takes part in.
// It is only valid for that one dispatch.
type Context[Req, Resp any] struct {
	ctx      context.Context
	dispatch *dispatch[Req, Resp]
	index    int
	set      *HandlerSet[Req, Resp]
}

// Context returns the dispatch context. It carries the task id.
func (c *Context[Req, Resp]) Context() context.Context {
	return c.ctx
}

// Request returns the dispatched request. Every handler of the dispatch gets
// the same value; use a pointer type to let handlers hand changes downstream.
func (c *Context[Req, Resp]) Request() Req {
	return c.dispatch.task.Request
}

// TaskID returns the id of the task being built.
func (c *Context[Req, Resp]) TaskID() string {
	return c.dispatch.task.ID
}

// Logger returns the chain's logger.
func (c *Context[Req, Resp]) Logger() *slog.Logger {
	return c.dispatch.chain.logger
}

// Now reads the chain's clock (see WithClock).
func (c *Context[Req, Resp]) Now() time.Time {
	return c.dispatch.chain.now()
}

// Store returns the store shared by the handler's set.
func (c *Context[Req, Resp]) Store() any {
	return c.set.Store
}

// Next runs the rest of the chain and returns its answer, which may be pending.
// Calling Next more than once runs the downstream handlers again.
func (c *Context[Req, Resp]) Next() async.Result[Resp] {
	return c.dispatch.step(c.index + 1)
}

// NextSync is Next for callers that expect an immediate answer. A pending
// answer is awaited; if it is rejected, NextSync panics with the rejection
// error, which the chain records as a handler failure.
func (c *Context[Req, Resp]) NextSync() Resp {
	v, err := c.Next().Await()
	if err != nil {
		panic(err)
	}
	return v
}

// NextAsync is Next returned as a future; immediate answers come back resolved.
func (c *Context[Req, Resp]) NextAsync() *async.Future[Resp] {
	return c.Next().Future()
}

// SetStatus records status and err on the task. The change is visible to
// every later GetStatus call in the dispatch. It has no effect once the task
// is finalized.
func (c *Context[Req, Resp]) SetStatus(status int, err error) {
	c.dispatch.task.setStatus(status, err)
}

// GetStatus returns the task's current status and error.
func (c *Context[Req, Resp]) GetStatus() StatusSnapshot {
	return c.dispatch.task.status()
}

// RemoveHandler removes every handler of the running handler's set from the
// chain. Handlers the current dispatch already captured still run.
func (c *Context[Req, Resp]) RemoveHandler() {
	c.dispatch.chain.removeSet(c.set)
}

// StoreAs returns the handler's store asserted to S.
//
//	counter, ok := handlerchain.StoreAs[*Counter](c)
func StoreAs[S any, Req, Resp any](c *Context[Req, Resp]) (S, bool) {
	s, ok := c.set.Store.(S)
	return s, ok
}
