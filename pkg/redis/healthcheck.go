package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/microframe-dev/microframe/pkg/health"
)

// Healthcheck adapts a Redis client into a readiness check for
// WithReadinessCheck. A nil client reports unhealthy instead of panicking
// so a partially wired app still answers its probes.
//
//	microframe.WithHealthChecks(
//	    microframe.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func Healthcheck(client redis.UniversalClient) health.CheckFunc {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
