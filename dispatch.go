package handlerchain

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/dmitrymomot/handlerchain/pkg/async"
	"github.com/dmitrymomot/handlerchain/pkg/logger"
	"github.com/dmitrymomot/handlerchain/pkg/taskid"
)

type entry[Req, Resp any] struct {
	handler  *Handler[Req, Resp]
	set      *HandlerSet[Req, Resp]
	priority int
}

// dispatch is the state of one HandleRequest call.
type dispatch[Req, Resp any] struct {
	chain   *HandlerChain[Req, Resp]
	ctx     context.Context
	entries []entry[Req, Resp]
	task    *Task[Req, Resp]
}

// HandleRequest dispatches req through the chain.
//
// When every handler on the path answers immediately, the returned result is
// immediate and holds the finalized task. When the first handler answers with
// a pending value, the result is pending and settles once that value does. A
// rejected pending value is not recovered: Await returns its error.
//
// Synchronous handler failures never escape; they set StatusInternalError on
// the task. Walking past the last handler sets StatusNotFound.
func (ch *HandlerChain[Req, Resp]) HandleRequest(req Req) async.Result[*Task[Req, Resp]] {
	return ch.HandleRequestContext(context.Background(), req)
}

// HandleRequestContext is HandleRequest with a parent context. The context,
// carrying the task id, is handed to handlers through Context.Context. The
// chain does not cancel handlers when ctx is done.
func (ch *HandlerChain[Req, Resp]) HandleRequestContext(ctx context.Context, req Req) async.Result[*Task[Req, Resp]] {
	_, res := ch.start(ctx, req)
	return res
}

// HandleRequestSync dispatches req and returns its task directly, for callers
// that know no handler answers asynchronously. If one does anyway, the call
// blocks until it settles; a rejected dispatch returns the task unfinalized.
func (ch *HandlerChain[Req, Resp]) HandleRequestSync(req Req) *Task[Req, Resp] {
	task, res := ch.start(context.Background(), req)
	_, _ = res.Await()
	return task
}

func (ch *HandlerChain[Req, Resp]) start(ctx context.Context, req Req) (*Task[Req, Resp], async.Result[*Task[Req, Resp]]) {
	ctx, id := taskid.Ensure(ctx)
	d := &dispatch[Req, Resp]{
		chain:   ch,
		ctx:     ctx,
		entries: ch.snapshot(),
		task:    newTask[Req, Resp](id, ch.now(), req),
	}

	res := d.step(0)
	if v, ok := res.Value(); ok {
		d.finish(v, false)
		return d.task, async.Ready(d.task)
	}

	p := async.NewPromise[*Task[Req, Resp]]()
	go func() {
		v, err := res.Await()
		if err != nil {
			ch.logger.LogAttrs(d.ctx, slog.LevelError, "dispatch rejected",
				logger.Error(err),
			)
			_ = p.Reject(err)
			return
		}
		d.finish(v, true)
		_ = p.Resolve(d.task)
	}()
	return d.task, async.Later(p.Future())
}

// step runs the handler at index i and returns its answer.
func (d *dispatch[Req, Resp]) step(i int) async.Result[Resp] {
	if i >= len(d.entries) {
		d.task.setStatus(StatusNotFound, nil)
		return async.Empty[Resp]()
	}

	e := d.entries[i]
	if e.set.Once {
		claimed := e.handler.fired.CompareAndSwap(false, true)
		d.chain.RemoveHandler(e.handler)
		if !claimed {
			// Already fired by another dispatch.
			return d.step(i + 1)
		}
	}

	c := &Context[Req, Resp]{
		ctx:      d.ctx,
		dispatch: d,
		index:    i,
		set:      e.set,
	}
	res, err := d.invoke(e.handler, c)
	if err != nil {
		d.task.setStatus(StatusInternalError, err)
		d.chain.logger.LogAttrs(d.ctx, slog.LevelWarn, "handler failed",
			logger.HandlerIndex(i),
			logger.Priority(e.priority),
			logger.Error(err),
		)
		return async.Empty[Resp]()
	}
	return res
}

func (d *dispatch[Req, Resp]) invoke(h *Handler[Req, Resp], c *Context[Req, Resp]) (res async.Result[Resp], err error) {
	defer func() {
		if r := recover(); r != nil {
			res = async.Empty[Resp]()
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return h.fn(c)
}

func (d *dispatch[Req, Resp]) finish(resp Resp, pending bool) {
	d.task.finalize(resp, d.chain.now())
	d.chain.logger.LogAttrs(d.ctx, slog.LevelDebug, "dispatch finished",
		logger.Status(d.task.Status),
		logger.Duration(d.task.Duration()),
		logger.Pending(pending),
	)
}
