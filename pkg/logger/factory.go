package logger

import (
	"io"
	"log/slog"
	"os"
)

// New builds the standard JSON stdout logger, wrapped so the given context
// extractors run on every record.
func New(extractors ...ContextExtractor) *slog.Logger {
	log := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(NewLogHandlerDecorator(log, extractors...))
}

// NewNope returns a logger that discards everything. The app falls back to
// it when no logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
