package taskid

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/handlerchain/pkg/logger"
)

// LoggerExtractor returns a logger.ContextExtractor that adds the task id.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return logger.TaskID(id), true
		}
		return slog.Attr{}, false
	}
}
