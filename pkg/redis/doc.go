// Package redis opens go-redis clients with pooling, startup retry, and the
// hook functions the framework's readiness and shutdown plumbing expect.
//
// A typical app opens one client and threads it through the Redis-backed
// rate limiter, the readiness probe, and graceful shutdown:
//
//	client, err := redis.Open(ctx, cfg.RedisURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app := microframe.New(
//	    microframe.WithMiddleware(middlewares.RateLimit(
//	        middlewares.NewRedisStore(client, 100, time.Minute),
//	    )),
//	    microframe.WithHealthChecks(
//	        microframe.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	    ),
//	)
//
//	err = app.Run(":8080",
//	    microframe.ShutdownHook(redis.Shutdown(client)),
//	)
//
// Open accepts redis:// and rediss:// URLs and fails with sentinel errors
// (ErrEmptyConnectionURL, ErrFailedToParseURL, ErrConnectionFailed) that
// callers can match with errors.Is.
package redis
