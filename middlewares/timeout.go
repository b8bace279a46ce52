package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/microframe-dev/microframe/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	Timeout time.Duration
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// Timeout returns middleware that enforces a request timeout. The deadline is
// attached to the request context, so handlers observe it through the Context
// itself. If the handler does not finish in time, a 504 error carrying a
// TimeoutError is returned.
//
// Note: the handler goroutine continues running after the timeout. Use
// c.Done() in long-running operations to detect cancellation and stop early.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := &TimeoutConfig{
		Timeout: timeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context, p internal.Params) (any, error) {
			r := c.Request()
			ctx, cancel := context.WithTimeout(r.Context(), cfg.Timeout)
			defer cancel()
			c.SetRequest(r.WithContext(ctx))

			type outcome struct {
				result any
				err    error
			}

			// Let the handler finish normally when the context is cancelled
			// for reasons other than the deadline.
			done := make(chan outcome, 1)
			go func() {
				result, err := next(c, p)
				done <- outcome{result: result, err: err}
			}()

			select {
			case out := <-done:
				return out.result, out.err
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					c.Logger().WarnContext(c, "request timeout", "timeout", cfg.Timeout.String())
					return nil, internal.NewHTTPError(http.StatusGatewayTimeout, "request timeout",
						internal.WithErrorCode("timeout"),
						internal.WithError(&TimeoutError{Duration: cfg.Timeout}))
				}
				return nil, ctx.Err()
			}
		}
	}
}
