// Package handlerchain provides a generic, priority-ordered request dispatcher.
//
// Handlers are registered at an integer priority and run lowest priority
// first, in registration order within one priority. Each handler receives a
// Context and decides whether to answer directly or to hand the request down
// the chain with Next, optionally post-processing what the rest of the chain
// answered.
//
// Basic Usage:
//
//	type Request struct {
//		Action string
//	}
//
//	chain := handlerchain.New[*Request, string]()
//
//	// Runs first, wraps everything after it.
//	chain.HandleAt(5, func(c *handlerchain.Context[*Request, string]) (async.Result[string], error) {
//		return handlerchain.Respond(c.NextSync() + "!")
//	})
//
//	chain.Handle(func(c *handlerchain.Context[*Request, string]) (async.Result[string], error) {
//		if c.Request().Action != "hello" {
//			return c.Next(), nil
//		}
//		return handlerchain.Respond("world")
//	})
//
//	task := chain.HandleRequestSync(&Request{Action: "hello"})
//	// task.Status == 200, task.Response == "world!"
//
// Sets and Stores:
//
// Handlers registered together in a HandlerSet share a store that survives
// across dispatches. A set marked FireOnce removes each of its handlers right
// before the handler's first run, so every one of them fires at most once even
// under concurrent dispatches:
//
//	set := handlerchain.NewSet(first, second).WithStore(&Counter{}).FireOnce()
//	chain.AddHandler(set)
//
// A handler calling Context.RemoveHandler removes its whole set. Removing a
// handler from outside takes the *Handler returned by NewHandler and only
// removes that one registration.
//
// Asynchronous Answers:
//
// A handler may answer with a pending value built on pkg/async:
//
//	return handlerchain.Defer(async.Go(c.Context(), fetch))
//
// HandleRequest then returns a pending result that resolves with the task
// once the value settles. A rejected value is not recovered by the chain and
// rejects the dispatch.
//
// Status:
//
// Every dispatch produces a Task. Its status starts unset, becomes 404 when
// the chain is walked past its last handler, 500 when a handler returns an
// error or panics, and defaults to 200 on completion. Handlers may set any
// status with Context.SetStatus.
//
// Configuration:
//
// Chains are configured with functional options (WithDefaultPriority,
// WithLogger, WithClock), or from HANDLERCHAIN_* environment variables via
// LoadConfig and NewFromConfig.
package handlerchain
