package logger

import (
	"context"
	"log/slog"
)

// fanoutHandler duplicates records to several destinations, typically
// stdout plus Sentry.
type fanoutHandler struct {
	targets []slog.Handler
}

func newFanoutHandler(targets ...slog.Handler) slog.Handler {
	return &fanoutHandler{targets: targets}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, target := range h.targets {
		if target.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, target := range h.targets {
		if !target.Enabled(ctx, rec.Level) {
			continue
		}
		// Each target gets its own copy; handlers may retain the record.
		if err := target.Handle(ctx, rec.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	targets := make([]slog.Handler, len(h.targets))
	for i, target := range h.targets {
		targets[i] = target.WithAttrs(attrs)
	}
	return newFanoutHandler(targets...)
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	targets := make([]slog.Handler, len(h.targets))
	for i, target := range h.targets {
		targets[i] = target.WithGroup(name)
	}
	return newFanoutHandler(targets...)
}
