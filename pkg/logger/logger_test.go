package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type reqKey struct{}

func captureHandler(buf *bytes.Buffer) slog.Handler {
	return slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
}

func logEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogHandlerDecorator(t *testing.T) {
	t.Parallel()

	t.Run("injects extracted attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(NewLogHandlerDecorator(captureHandler(&buf),
			FromContextValue(reqKey{}, "request_id"),
		))

		ctx := context.WithValue(context.Background(), reqKey{}, "req-42")
		log.InfoContext(ctx, "handled")

		entry := logEntry(t, &buf)
		require.Equal(t, "handled", entry["msg"])
		require.Equal(t, "req-42", entry["request_id"])
	})

	t.Run("skips missing context values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(NewLogHandlerDecorator(captureHandler(&buf),
			FromContextValue(reqKey{}, "request_id"),
		))

		log.Info("handled")

		entry := logEntry(t, &buf)
		require.NotContains(t, entry, "request_id")
	})

	t.Run("nil extractors are filtered", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(NewLogHandlerDecorator(captureHandler(&buf), nil, nil))

		require.NotPanics(t, func() {
			log.Info("handled")
		})
	})

	t.Run("extractors survive WithAttrs and WithGroup", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(NewLogHandlerDecorator(captureHandler(&buf),
			FromContextValue(reqKey{}, "request_id"),
		)).With("component", "api")

		ctx := context.WithValue(context.Background(), reqKey{}, "req-42")
		log.InfoContext(ctx, "handled")

		entry := logEntry(t, &buf)
		require.Equal(t, "api", entry["component"])
		require.Equal(t, "req-42", entry["request_id"])
	})
}

func TestFromContextValue(t *testing.T) {
	t.Parallel()

	ex := FromContextValue(reqKey{}, "request_id")

	attr, ok := ex(context.WithValue(context.Background(), reqKey{}, "req-1"))
	require.True(t, ok)
	require.Equal(t, "request_id", attr.Key)
	require.Equal(t, "req-1", attr.Value.String())

	_, ok = ex(context.Background())
	require.False(t, ok, "missing value")

	_, ok = ex(context.WithValue(context.Background(), reqKey{}, ""))
	require.False(t, ok, "empty value")

	_, ok = ex(context.WithValue(context.Background(), reqKey{}, 42))
	require.False(t, ok, "non-string value")
}

func TestFanoutHandler(t *testing.T) {
	t.Parallel()

	var first, second bytes.Buffer
	log := slog.New(newFanoutHandler(captureHandler(&first), captureHandler(&second)))

	log.Info("fan out")

	require.Contains(t, first.String(), "fan out")
	require.Contains(t, second.String(), "fan out")
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := NewNope()
	require.NotPanics(t, func() {
		log.Info("discarded")
	})
}

func TestNewWithSentryFallsBackWithoutDSN(t *testing.T) {
	t.Parallel()

	log := NewWithSentry(SentryConfig{})
	require.NotNil(t, log)
}
