package handlerchain

import (
	"sync/atomic"

	"github.com/dmitrymomot/handlerchain/pkg/async"
)

// HandlerFunc processes a request inside a chain.
//
// It answers with an immediate or pending result. Returning a non-nil error
// (or panicking) marks the task with StatusInternalError and that error; the
// step then yields no response, while handlers that already called Next keep
// running.
//
//	chain.Handle(func(c *handlerchain.Context[*Req, string]) (async.Result[string], error) {
//		return handlerchain.Respond(c.NextSync() + "1")
//	})
type HandlerFunc[Req, Resp any] func(c *Context[Req, Resp]) (async.Result[Resp], error)

// Handler is a registered handler. Its pointer is its identity: pass the same
// *Handler to RemoveHandler to unregister it.
type Handler[Req, Resp any] struct {
	fn HandlerFunc[Req, Resp]
	// fired is claimed by the dispatch that runs a fire-once handler.
	fired atomic.Bool
}

// NewHandler wraps fn into a removable handler. Panics with ErrNilHandler for nil fn.
func NewHandler[Req, Resp any](fn HandlerFunc[Req, Resp]) *Handler[Req, Resp] {
	if fn == nil {
		panic(ErrNilHandler)
	}
	return &Handler[Req, Resp]{fn: fn}
}

// Bag is the store given to sets registered without one.
type Bag map[string]any

// HandlerSet groups handlers that share a store and a fire-once policy.
// Removing a handler from inside its own execution removes the whole set.
type HandlerSet[Req, Resp any] struct {
	Handlers []*Handler[Req, Resp]
	// Store is shared by every handler of the set across all dispatches.
	// The chain never synchronizes access to it. Nil means a fresh Bag.
	Store any
	// Once removes each handler right before its first invocation. A
	// registered handler fires at most once even under concurrent dispatches;
	// registering it again re-arms it.
	Once bool
}

// NewSet wraps fns into a set, in order.
func NewSet[Req, Resp any](fns ...HandlerFunc[Req, Resp]) *HandlerSet[Req, Resp] {
	s := &HandlerSet[Req, Resp]{Handlers: make([]*Handler[Req, Resp], 0, len(fns))}
	for _, fn := range fns {
		s.Handlers = append(s.Handlers, NewHandler(fn))
	}
	return s
}

// WithStore sets the shared store and returns the set.
func (s *HandlerSet[Req, Resp]) WithStore(store any) *HandlerSet[Req, Resp] {
	s.Store = store
	return s
}

// FireOnce marks the set fire-once and returns it.
func (s *HandlerSet[Req, Resp]) FireOnce() *HandlerSet[Req, Resp] {
	s.Once = true
	return s
}

// Registrant is anything the chain accepts for registration:
// a HandlerFunc, a *Handler or a *HandlerSet.
type Registrant[Req, Resp any] interface {
	handlerSet() *HandlerSet[Req, Resp]
}

func (f HandlerFunc[Req, Resp]) handlerSet() *HandlerSet[Req, Resp] {
	return NewHandler(f).handlerSet()
}

func (h *Handler[Req, Resp]) handlerSet() *HandlerSet[Req, Resp] {
	if h == nil {
		panic(ErrNilHandler)
	}
	return &HandlerSet[Req, Resp]{Handlers: []*Handler[Req, Resp]{h}, Store: Bag{}}
}

func (s *HandlerSet[Req, Resp]) handlerSet() *HandlerSet[Req, Resp] {
	if s == nil {
		panic(ErrNilHandler)
	}
	for _, h := range s.Handlers {
		if h == nil || h.fn == nil {
			panic(ErrNilHandler)
		}
	}
	if s.Store == nil {
		s.Store = Bag{}
	}
	return s
}

// Respond answers immediately with v.
func Respond[Resp any](v Resp) (async.Result[Resp], error) {
	return async.Ready(v), nil
}

// NoResponse answers immediately without a value.
func NoResponse[Resp any]() (async.Result[Resp], error) {
	return async.Empty[Resp](), nil
}

// Defer answers with a value that becomes available when f settles.
// A rejected f is not recovered by the chain: it rejects the dispatch.
func Defer[Resp any](f *async.Future[Resp]) (async.Result[Resp], error) {
	return async.Later(f), nil
}

// Fail reports a synchronous handler failure.
func Fail[Resp any](err error) (async.Result[Resp], error) {
	return async.Empty[Resp](), err
}
