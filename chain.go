package handlerchain

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/handlerchain/pkg/logger"
	"github.com/dmitrymomot/handlerchain/pkg/taskid"
)

// DefaultPriority is used when no priority is given. Lower runs earlier.
const DefaultPriority = 10

// HandlerChain dispatches requests through registered handlers in ascending
// priority order, then in registration order within one priority.
//
// Registration, removal and dispatch are safe for concurrent use. Handlers
// run without any chain lock held, so they may register or remove handlers
// themselves; such changes only affect later dispatches.
type HandlerChain[Req, Resp any] struct {
	mu      sync.RWMutex
	buckets map[int][]*Handler[Req, Resp]
	// owners maps each registered handler to its set. Lookup only.
	owners map[*Handler[Req, Resp]]*HandlerSet[Req, Resp]

	defaultPriority int
	logger          *slog.Logger
	now             func() time.Time
}

// New creates an empty chain. No options are required.
func New[Req, Resp any](opts ...Option) *HandlerChain[Req, Resp] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &HandlerChain[Req, Resp]{
		buckets:         make(map[int][]*Handler[Req, Resp]),
		owners:          make(map[*Handler[Req, Resp]]*HandlerSet[Req, Resp]),
		defaultPriority: o.defaultPriority,
		logger:          chainLogger(o.logger),
		now:             o.now,
	}
}

// chainLogger tags records with the component and the task id found in the
// dispatch context.
func chainLogger(l *slog.Logger) *slog.Logger {
	h := logger.NewContextHandler(l.Handler(), taskid.LoggerExtractor())
	return slog.New(h).With(logger.Component("handlerchain"))
}

// AddHandler registers r at the default priority.
func (ch *HandlerChain[Req, Resp]) AddHandler(r Registrant[Req, Resp]) *HandlerChain[Req, Resp] {
	return ch.AddHandlerAt(ch.defaultPriority, r)
}

// AddHandlerAt registers r at priority. A bare HandlerFunc or *Handler becomes
// a singleton set with a fresh store; every handler of a set is appended to the
// priority's bucket in declaration order.
// Panics with ErrInvalidPriority for negative priorities and ErrNilHandler for nil input.
func (ch *HandlerChain[Req, Resp]) AddHandlerAt(priority int, r Registrant[Req, Resp]) *HandlerChain[Req, Resp] {
	if priority < 0 {
		panic(ErrInvalidPriority)
	}
	if r == nil {
		panic(ErrNilHandler)
	}
	set := r.handlerSet()

	ch.mu.Lock()
	defer ch.mu.Unlock()

	for _, h := range set.Handlers {
		ch.owners[h] = set
		if set.Once {
			h.fired.Store(false)
		}
	}
	ch.buckets[priority] = append(ch.buckets[priority], set.Handlers...)
	return ch
}

// Handle registers a bare handler function at the default priority.
func (ch *HandlerChain[Req, Resp]) Handle(fn HandlerFunc[Req, Resp]) *HandlerChain[Req, Resp] {
	return ch.HandleAt(ch.defaultPriority, fn)
}

// HandleAt registers a bare handler function at priority.
func (ch *HandlerChain[Req, Resp]) HandleAt(priority int, fn HandlerFunc[Req, Resp]) *HandlerChain[Req, Resp] {
	if fn == nil {
		panic(ErrNilHandler)
	}
	return ch.AddHandlerAt(priority, fn)
}

// RemoveHandler removes the first registration of h, scanning priorities in
// ascending order. Only that one instance is removed, never its siblings.
// It reports whether anything was removed.
func (ch *HandlerChain[Req, Resp]) RemoveHandler(h *Handler[Req, Resp]) bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.removeLocked(h)
}

func (ch *HandlerChain[Req, Resp]) removeLocked(h *Handler[Req, Resp]) bool {
	if h == nil {
		return false
	}
	for _, p := range ch.prioritiesLocked() {
		bucket := ch.buckets[p]
		idx := slices.Index(bucket, h)
		if idx < 0 {
			continue
		}
		bucket = slices.Delete(bucket, idx, idx+1)
		if len(bucket) == 0 {
			delete(ch.buckets, p)
		} else {
			ch.buckets[p] = bucket
		}
		if !ch.registeredLocked(h) {
			delete(ch.owners, h)
		}
		return true
	}
	return false
}

// removeSet removes one registration of every handler in set.
func (ch *HandlerChain[Req, Resp]) removeSet(set *HandlerSet[Req, Resp]) int {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	removed := 0
	for _, h := range set.Handlers {
		if ch.removeLocked(h) {
			removed++
		}
	}
	return removed
}

func (ch *HandlerChain[Req, Resp]) registeredLocked(h *Handler[Req, Resp]) bool {
	for _, bucket := range ch.buckets {
		if slices.Contains(bucket, h) {
			return true
		}
	}
	return false
}

// Len returns the number of registered handler entries.
func (ch *HandlerChain[Req, Resp]) Len() int {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	n := 0
	for _, bucket := range ch.buckets {
		n += len(bucket)
	}
	return n
}

// Priorities returns the occupied priorities in ascending order.
func (ch *HandlerChain[Req, Resp]) Priorities() []int {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.prioritiesLocked()
}

func (ch *HandlerChain[Req, Resp]) prioritiesLocked() []int {
	keys := make([]int, 0, len(ch.buckets))
	for p := range ch.buckets {
		keys = append(keys, p)
	}
	slices.Sort(keys)
	return keys
}

// snapshot flattens the buckets in ascending priority order and pins each
// handler's set, so removals during the dispatch cannot lose the lookup.
func (ch *HandlerChain[Req, Resp]) snapshot() []entry[Req, Resp] {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	entries := make([]entry[Req, Resp], 0, len(ch.owners))
	for _, p := range ch.prioritiesLocked() {
		for _, h := range ch.buckets[p] {
			entries = append(entries, entry[Req, Resp]{
				handler:  h,
				set:      ch.owners[h],
				priority: p,
			})
		}
	}
	return entries
}
