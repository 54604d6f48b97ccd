// Package logger builds *slog.Logger values with functional options and
// injects attributes taken from context.Context into every record.
//
// New picks slog.NewTextHandler or slog.NewJSONHandler from the configured
// Format and wraps it in a ContextHandler, which runs the registered
// ContextExtractor callbacks on each Handle call. This is how per-dispatch
// values such as the task id reach log lines without threading a logger
// through every handler.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithLevelName("debug"),
//	    logger.WithTextFormatter(),
//	    logger.WithContextExtractors(taskid.LoggerExtractor()),
//	)
//
//	log.DebugContext(ctx, "dispatch finished",
//	    logger.Status(task.Status),
//	    logger.Duration(task.Duration()),
//	)
//
// Attribute helpers in attr.go keep key names consistent. Error and TaskID
// return an empty Attr for empty input, so callers can pass them unconditionally:
//
//	log.Info("done", logger.Error(err))
//
// WithFormat and WithLevelName panic on invalid input: a misconfigured logger
// should stop startup rather than fail later.
package logger
