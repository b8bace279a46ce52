// Package logger builds the slog loggers used across the framework:
// JSON to stdout, request-scoped attributes pulled from context, and an
// optional Sentry mirror for warnings and errors.
//
// The usual entry point is the application option, which prefixes every
// record with the component name and runs the extractors per call:
//
//	app := microframe.New(
//	    microframe.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
//
// A ContextExtractor pulls one attribute out of a context:
//
//	func tenantExtractor(ctx context.Context) (slog.Attr, bool) {
//	    if id, ok := ctx.Value(tenantKey{}).(string); ok && id != "" {
//	        return slog.String("tenant_id", id), true
//	    }
//	    return slog.Attr{}, false
//	}
//
//	log := logger.New(tenantExtractor)
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//
// FromContextValue covers the common string-under-a-known-key case without
// writing the closure by hand.
//
// NewWithSentry mirrors records to Sentry on top of stdout. With an empty
// DSN it degrades to stdout only, so the same construction works in
// development:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//	    DSN:      os.Getenv("SENTRY_DSN"),
//	    MinLevel: slog.LevelWarn,
//	}, middlewares.RequestIDExtractor())
//
// NewLogHandlerDecorator wraps any slog.Handler with the extractor pass,
// for callers that bring their own handler.
package logger
