package handlerchain

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/handlerchain/pkg/logger"
)

// Option configures a HandlerChain.
type Option func(*options)

type options struct {
	defaultPriority int
	logger          *slog.Logger
	now             func() time.Time
}

func defaultOptions() *options {
	return &options{
		defaultPriority: DefaultPriority,
		logger:          logger.Nop(),
		now:             time.Now,
	}
}

// WithDefaultPriority changes the priority used by AddHandler and Handle.
// Panics with ErrInvalidPriority for negative values.
func WithDefaultPriority(p int) Option {
	return func(o *options) {
		if p < 0 {
			panic(ErrInvalidPriority)
		}
		o.defaultPriority = p
	}
}

// WithLogger sets the logger for dispatch diagnostics. Nil is ignored.
// By default the chain logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces time.Now for task timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
