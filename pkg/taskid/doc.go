// Package taskid generates and propagates dispatch task identifiers.
//
// Every dispatch of a handler chain gets an id. The id travels in the
// dispatch context.Context so handlers, and log records written with a
// context, can be correlated with the Task the dispatch produced:
//
//	ctx, id := taskid.Ensure(ctx)
//	log := logger.New(logger.WithContextExtractors(taskid.LoggerExtractor()))
//	log.InfoContext(ctx, "working") // carries task_id=<id>
//
// Ids are UUIDv4 strings. Ensure keeps an id already present in the context
// when it passes Valid, so a dispatch started from inside another dispatch
// inherits the outer id.
package taskid
