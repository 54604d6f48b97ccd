package middleware

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/handlerchain"
	"github.com/dmitrymomot/handlerchain/pkg/async"
	"github.com/dmitrymomot/handlerchain/pkg/logger"
)

// Logging logs when a request enters the chain and when the downstream
// handlers are done, with the status they left and the elapsed time.
// A nil log falls back to the chain's logger.
func Logging[Req, Resp any](log *slog.Logger) handlerchain.HandlerFunc[Req, Resp] {
	done := Around(func(c *handlerchain.Context[Req, Resp], elapsed time.Duration, err error) {
		l := pick(log, c)
		s := c.GetStatus()
		if err != nil {
			l.ErrorContext(c.Context(), "request rejected",
				logger.Duration(elapsed),
				logger.Error(err),
			)
			return
		}
		level := slog.LevelInfo
		if s.Error != nil || s.Status >= handlerchain.StatusInternalError {
			level = slog.LevelError
		}
		l.LogAttrs(c.Context(), level, "request handled",
			logger.Status(s.Status),
			logger.Duration(elapsed),
			logger.Error(s.Error),
		)
	})

	return func(c *handlerchain.Context[Req, Resp]) (async.Result[Resp], error) {
		pick(log, c).DebugContext(c.Context(), "request received")
		return done(c)
	}
}

func pick[Req, Resp any](log *slog.Logger, c *handlerchain.Context[Req, Resp]) *slog.Logger {
	if log != nil {
		return log
	}
	return c.Logger()
}
