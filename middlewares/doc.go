// Package middlewares provides HTTP middleware for MicroFrame applications.
//
// # Request ID
//
// RequestID assigns a unique ID to each request for tracing and debugging.
// It checks incoming headers for an existing ID before generating a UUID.
//
//	app := microframe.New(
//	    microframe.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// Use RequestIDExtractor() with WithLogger for automatic request_id in all logs:
//
//	app := microframe.New(
//	    microframe.WithLogger("api", middlewares.RequestIDExtractor()),
//	    microframe.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// # Recover
//
// Recover catches panics, logs them, and converts them into 500 responses.
// A custom ErrorHandler can still reach the panic value:
//
//	app := microframe.New(
//	    microframe.WithMiddleware(middlewares.Recover()),
//	    microframe.WithErrorHandler(func(c microframe.Context, err error) error {
//	        if pe, ok := middlewares.AsPanicError(err); ok {
//	            c.Logger().Error("panic", "value", pe.Value)
//	        }
//	        return err
//	    }),
//	)
//
// # Timeout
//
// Timeout enforces a per-request deadline and answers 504 when it is
// exceeded. The deadline propagates through the Context, so handlers can
// watch c.Done() to stop early.
//
//	microframe.WithMiddleware(middlewares.Timeout(5 * time.Second))
//
// # CORS
//
// CORS handles Cross-Origin Resource Sharing: preflight (OPTIONS) requests
// and response headers.
//
//	microframe.WithMiddleware(middlewares.CORS(
//	    middlewares.WithAllowOrigins("https://app.example.com"),
//	    middlewares.WithAllowCredentials(),
//	))
//
// # Rate limiting
//
// RateLimit throttles requests per client using a pluggable store. The
// in-process MemoryStore suits single instances; RedisStore shares a fixed
// window across replicas.
//
//	microframe.WithMiddleware(middlewares.RateLimit(
//	    middlewares.NewMemoryStore(10, 20),
//	))
//
// # Authentication
//
// Auth verifies JWT access tokens issued by authx.TokenService and stores
// the claims on the Context:
//
//	tokens := authx.NewTokenService(cfg.SigningKey)
//	microframe.WithMiddleware(middlewares.Auth(tokens))
//
//	func profile(c microframe.Context, p microframe.Params) (any, error) {
//	    claims, _ := middlewares.GetClaims(c)
//	    return userStore.Find(c, claims.Subject)
//	}
//
// WithUserLookup resolves the token subject to an application principal on
// every authenticated request. A lookup failure yields 401, and the resolved
// value is available through GetUser:
//
//	microframe.WithMiddleware(middlewares.Auth(tokens,
//	    middlewares.WithUserLookup(userStore.FindBySubject),
//	))
//
//	func profile(c microframe.Context, p microframe.Params) (any, error) {
//	    user, _ := middlewares.GetUser(c)
//	    return user, nil
//	}
//
// # Recommended order
//
//	microframe.WithMiddleware(
//	    middlewares.CORS(),       // handle preflight before anything else
//	    middlewares.RequestID(),  // assign ID for all subsequent logging
//	    middlewares.Recover(),    // catch panics from everything below
//	    middlewares.Timeout(5*time.Second),
//	    middlewares.RateLimit(store),
//	    middlewares.Auth(tokens),
//	)
package middlewares
