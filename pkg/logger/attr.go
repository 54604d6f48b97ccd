package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// TaskID records the dispatch task identifier under the key "task_id".
// Empty ids produce an empty Attr.
func TaskID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("task_id", id)
}

// Status records a dispatch status code under the key "status".
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Priority records a handler priority under the key "priority".
func Priority(p int) slog.Attr {
	return slog.Int("priority", p)
}

// HandlerIndex records the position of a handler in a flattened chain.
func HandlerIndex(i int) slog.Attr {
	return slog.Int("handler_index", i)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Pending records whether a dispatch settled asynchronously.
func Pending(p bool) slog.Attr {
	return slog.Bool("pending", p)
}
