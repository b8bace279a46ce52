// Package health provides the liveness and readiness handlers mounted by
// WithHealthChecks, usable standalone on any router that takes an
// http.HandlerFunc.
//
// Most apps never import this package directly and configure probes through
// the application options:
//
//	app := microframe.New(
//	    microframe.WithHealthChecks(
//	        microframe.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	    ),
//	)
//
// Mounting the handlers by hand works the same way:
//
//	mux.Handle("/health/live", health.LivenessHandler())
//	mux.Handle("/health/ready", health.ReadinessHandler(health.Checks{
//	    "redis": redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second)))
//
// Checks run in parallel under a shared timeout. Responses are plain text
// ("OK" / "Service Unavailable") for probe compatibility; clients get the
// per-check JSON breakdown with Accept: application/json or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "redis": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
package health
