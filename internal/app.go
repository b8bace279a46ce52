package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/microframe-dev/microframe/pkg/cookie"
	"github.com/microframe-dev/microframe/pkg/health"
	"github.com/microframe-dev/microframe/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates the application lifecycle. It owns the root route table,
// the dependency manager, and the request parser, and compiles everything
// onto a chi mux on first use. Registration after compilation is a wiring
// bug and panics.
type App struct {
	host                    chi.Router
	root                    *Router
	deps                    *Manager
	binder                  *Binder
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	cookieManager           *cookie.Manager
	middlewares             []Middleware
	handlers                []Handler
	staticRoutes            []staticRoute
	listingPath             string

	compileOnce sync.Once
	compiled    atomic.Bool
	routes      []*RouteInfo
}

// staticRoute represents a static file handler mount point.
type staticRoute struct {
	handler http.Handler
	pattern string
}

// New creates a new application with the given options.
//
// Example:
//
//	app := microframe.New(
//	    microframe.WithLogger("api", "dev"),
//	    microframe.WithHandlers(
//	        handlers.NewItems(store),
//	        handlers.NewUsers(repo),
//	    ),
//	)
func New(opts ...Option) *App {
	a := &App{
		host:          chi.NewRouter(),
		root:          NewRouter(""),
		deps:          NewManager(),
		logger:        logger.NewNope(),
		cookieManager: cookie.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.binder = NewBinder(a.deps.Registered)
	return a
}

// Dependencies returns the app's dependency manager for named registration.
func (a *App) Dependencies() *Manager {
	return a.deps
}

// Handle registers a route on the application root.
func (a *App) Handle(path string, methods []string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	a.checkMutable()
	return a.root.Handle(path, methods, h, opts...)
}

func (a *App) GET(path string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	a.checkMutable()
	return a.root.GET(path, h, opts...)
}

func (a *App) POST(path string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	a.checkMutable()
	return a.root.POST(path, h, opts...)
}

func (a *App) PUT(path string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	a.checkMutable()
	return a.root.PUT(path, h, opts...)
}

func (a *App) PATCH(path string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	a.checkMutable()
	return a.root.PATCH(path, h, opts...)
}

func (a *App) DELETE(path string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	a.checkMutable()
	return a.root.DELETE(path, h, opts...)
}

// Include mounts a router on the application root.
func (a *App) Include(r *Router, opts ...IncludeOption) {
	a.checkMutable()
	a.root.Include(r, opts...)
}

func (a *App) checkMutable() {
	if a.compiled.Load() {
		panic("app: route registered after the app was compiled")
	}
}

// Routes returns the flattened route table. Before compilation it reflects
// the current registrations; afterwards it is the compiled snapshot.
func (a *App) Routes() []*RouteInfo {
	if a.compiled.Load() {
		return a.routes
	}
	return a.root.Routes("", nil)
}

// Handler compiles the app on first call and returns the host mux.
func (a *App) Handler() http.Handler {
	a.compileOnce.Do(a.compile)
	return a.host
}

// ServeHTTP implements http.Handler, compiling lazily on first request.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.Handler().ServeHTTP(w, r)
}

// Run compiles the app and serves it until shutdown.
//
// Example:
//
//	app := microframe.New(
//	    microframe.WithHandlers(handlers.NewItems(store)),
//	)
//	err := app.Run(":8080", microframe.Logger(slog))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	return runServer(runtimeConfig{
		handler:         a.Handler(),
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// compile flattens the route table and wires everything onto the host mux.
func (a *App) compile() {
	if a.notFoundHandler != nil {
		a.host.NotFound(a.bareEndpoint(a.notFoundHandler, http.StatusNotFound))
	} else {
		a.host.NotFound(func(w http.ResponseWriter, r *http.Request) {
			c := newContext(w, r, a.logger, a.cookieManager)
			a.respondError(c, ErrNotFound("resource not found"))
		})
	}
	if a.methodNotAllowedHandler != nil {
		a.host.MethodNotAllowed(a.bareEndpoint(a.methodNotAllowedHandler, http.StatusMethodNotAllowed))
	} else {
		a.host.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			c := newContext(w, r, a.logger, a.cookieManager)
			a.respondError(c, NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"))
		})
	}

	for _, sr := range a.staticRoutes {
		a.host.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		a.host.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.host.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks,
			health.WithLogger(a.logger)))
	}

	for _, h := range a.handlers {
		h.Routes(a.root)
	}

	if a.listingPath != "" {
		a.root.GET(a.listingPath, routeListingHandler(a), WithoutSchema())
	}

	a.routes = a.root.Routes("", nil)
	a.compiled.Store(true)

	for _, route := range a.routes {
		endpoint := a.endpoint(route)
		for _, method := range route.Methods {
			a.host.Method(method, route.Path, endpoint)
		}
	}
}

// endpoint builds the http.HandlerFunc for one route: create the context,
// bind request params, resolve dependencies, run the handler through the
// middleware chain, then normalize the result.
func (a *App) endpoint(route *RouteInfo) http.HandlerFunc {
	h := route.Handler
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		h = a.middlewares[i](h)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a.logger, a.cookieManager)

		vals, err := a.binder.Parse(c, route.Params)
		if err != nil {
			a.respondError(c, err)
			return
		}
		resolved, err := a.deps.Resolve(r.Context(), c, route.Params)
		if err != nil {
			a.respondError(c, err)
			return
		}
		// Dependency results win over request-sourced values of the same name.
		for k, v := range resolved {
			vals[k] = v
		}

		result, err := h(c, NewParams(vals))
		if err != nil {
			a.respondError(c, err)
			return
		}
		a.respond(c, route, result)
	}
}

// bareEndpoint wraps a HandlerFunc invoked outside route dispatch, such as
// the not-found handler. It receives no params.
func (a *App) bareEndpoint(h HandlerFunc, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a.logger, a.cookieManager)
		result, err := h(c, NewParams(nil))
		if err != nil {
			a.respondError(c, err)
			return
		}
		a.respond(c, &RouteInfo{StatusCode: status}, result)
	}
}

// respond normalizes a handler result into a response. A nil result or an
// already written response passes through untouched.
func (a *App) respond(c Context, route *RouteInfo, result any) {
	if result == nil || c.Written() {
		return
	}
	switch v := result.(type) {
	case Component:
		if err := c.Render(route.StatusCode, v); err != nil {
			a.respondError(c, err)
		}
	case Responder:
		if err := v.Respond(c); err != nil {
			a.respondError(c, err)
		}
	default:
		if err := c.JSON(route.StatusCode, v); err != nil {
			a.logger.ErrorContext(c, "failed to write response", slog.Any("error", err))
		}
	}
}

// errorBody is the stable JSON error envelope.
type errorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// respondError maps an error onto the wire. Rules apply in order: the custom
// error handler, validation errors, circular dependency errors, deliberate
// HTTP errors, then the generic 500 fallback. Internal failure detail never
// leaks to clients.
func (a *App) respondError(c Context, err error) {
	if c.Written() {
		return
	}

	if a.errorHandler != nil {
		if handled := a.errorHandler(c, err); handled == nil {
			return
		}
	}

	if ve := AsValidationError(err); ve != nil {
		_ = c.JSON(http.StatusUnprocessableEntity, errorBody{
			Message: "validation failed",
			Status:  http.StatusUnprocessableEntity,
			Code:    "validation_error",
			Details: ve.Fields,
		})
		return
	}

	var cycle *CircularDependencyError
	if errors.As(err, &cycle) {
		a.logger.ErrorContext(c, "dependency resolution failed",
			slog.String("provider", cycle.Provider),
			slog.Any("error", err))
		_ = c.JSON(http.StatusInternalServerError, errorBody{
			Message: "internal server error",
			Status:  http.StatusInternalServerError,
		})
		return
	}

	if httpErr := AsHTTPError(err); httpErr != nil {
		if httpErr.Status >= http.StatusInternalServerError {
			a.logger.ErrorContext(c, "request failed",
				slog.Int("status", httpErr.Status),
				slog.Any("error", err))
		}
		_ = c.JSON(httpErr.Status, errorBody{
			Message: httpErr.Message,
			Status:  httpErr.Status,
			Code:    httpErr.Code,
			Details: httpErr.Details,
		})
		return
	}

	a.logger.ErrorContext(c, "unhandled error", slog.Any("error", err))
	_ = c.JSON(http.StatusInternalServerError, errorBody{
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
	})
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	microframe.WithReadinessCheck("redis", redisPing(client))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
