package handlerchain

import (
	"sync"
	"time"
)

// Status codes the dispatcher assigns on its own. Handlers may set any other value.
const (
	StatusUnset         = 0
	StatusOK            = 200
	StatusNotFound      = 404
	StatusInternalError = 500
)

// StatusSnapshot is the status and error of a task at one moment.
type StatusSnapshot struct {
	Status int
	Error  error
}

// Task is the record of a single dispatch.
//
// Fields are written by the dispatcher and by handlers through Context
// until the task is finalized; after that the task never changes and the
// fields can be read freely.
type Task[Req, Resp any] struct {
	ID         string
	ReceivedAt time.Time
	// FinishedAt is zero until the task is finalized.
	FinishedAt time.Time

	Request  Req
	Response Resp

	Status int
	Error  error

	mu        sync.Mutex
	finalized bool
}

func newTask[Req, Resp any](id string, receivedAt time.Time, req Req) *Task[Req, Resp] {
	return &Task[Req, Resp]{
		ID:         id,
		ReceivedAt: receivedAt,
		Request:    req,
		Status:     StatusUnset,
	}
}

// Finalized reports whether the dispatch that produced the task completed.
func (t *Task[Req, Resp]) Finalized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finalized
}

// Duration is the time between receiving and finalizing the task,
// or zero for a task that never finalized.
func (t *Task[Req, Resp]) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.finalized {
		return 0
	}
	return t.FinishedAt.Sub(t.ReceivedAt)
}

// setStatus is a no-op once the task is finalized.
func (t *Task[Req, Resp]) setStatus(status int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized {
		return
	}
	t.Status = status
	t.Error = err
}

func (t *Task[Req, Resp]) status() StatusSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return StatusSnapshot{Status: t.Status, Error: t.Error}
}

func (t *Task[Req, Resp]) finalize(resp Resp, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized {
		return
	}
	t.Response = resp
	t.FinishedAt = at
	if t.Status == StatusUnset {
		t.Status = StatusOK
	}
	t.finalized = true
}
