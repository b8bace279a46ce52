package microframe

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/microframe-dev/microframe/internal"
	"github.com/microframe-dev/microframe/pkg/cookie"
	"github.com/microframe-dev/microframe/pkg/health"
	"github.com/microframe-dev/microframe/pkg/logger"
	"github.com/microframe-dev/microframe/pkg/ui"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages routing, dependency resolution, and graceful shutdown.
	App = internal.App

	// Router groups routes under a shared prefix and tags.
	// Routers nest via Include and are flattened when the app compiles.
	Router = internal.Router

	// RouteInfo is the immutable descriptor of a registered route.
	RouteInfo = internal.RouteInfo

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Responder lets a handler result take over response writing.
	Responder = internal.Responder

	// Component is the interface for renderable templates.
	Component = internal.Component

	// Param declares how a handler parameter is sourced.
	Param = internal.Param

	// Params carries the values bound for a handler invocation.
	Params = internal.Params

	// Values is the raw name-to-value map behind Params.
	Values = internal.Values

	// Dependency is a registered provider resolved per request.
	Dependency = internal.Dependency

	// ProviderFunc builds a dependency value.
	ProviderFunc = internal.ProviderFunc

	// HTTPError is an error with an associated HTTP status code.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ValidationError aggregates field-level validation failures.
	ValidationError = internal.ValidationError

	// FieldError describes a single field-level validation failure.
	FieldError = internal.FieldError

	// CircularDependencyError reports a dependency cycle.
	CircularDependencyError = internal.CircularDependencyError

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// RouteOption configures a route at registration.
	RouteOption = internal.RouteOption

	// RouterOption configures a router.
	RouterOption = internal.RouterOption

	// IncludeOption configures router inclusion.
	IncludeOption = internal.IncludeOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// RouteListing is one entry of the route introspection endpoint.
	RouteListing = internal.RouteListing

	// ResponseWriter wraps http.ResponseWriter with write tracking and hooks.
	ResponseWriter = internal.ResponseWriter

	// Extractor tries multiple request sources in order.
	Extractor = internal.Extractor

	// ExtractorSource extracts a value from the request context.
	ExtractorSource = internal.ExtractorSource

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option
)

// Constructors

// New creates a new application with the given options.
// Routes may be added until the app compiles on first use;
// registration after that panics.
//
// Example:
//
//	app := microframe.New(
//	    microframe.WithLogger("api"),
//	    microframe.WithMiddleware(middlewares.RequestID()),
//	    microframe.WithHandlers(
//	        handlers.NewUsers(repo),
//	        handlers.NewBilling(repo),
//	    ),
//	)
//
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewRouter creates a router with an optional path prefix.
//
// Example:
//
//	v1 := microframe.NewRouter("/v1", microframe.WithRouterTags("v1"))
//	v1.GET("/users/{id}", getUser)
//	app.Include(v1)
func NewRouter(prefix string, opts ...RouterOption) *Router {
	return internal.NewRouter(prefix, opts...)
}

// WithRouterTags sets the tags inherited by every route on the router.
func WithRouterTags(tags ...string) RouterOption {
	return internal.WithRouterTags(tags...)
}

// NewDependency creates a named dependency with the given provider.
// Chain DependsOn and Cache to declare sub-dependencies and caching.
//
// Example:
//
//	db := microframe.NewDependency("db", func(ctx context.Context, p microframe.Params) (any, error) {
//	    return pool, nil
//	}).Cache()
func NewDependency(name string, provide ProviderFunc) *Dependency {
	return internal.NewDependency(name, provide)
}

// NewParams wraps a value map for handler invocation.
func NewParams(values Values) Params {
	return internal.NewParams(values)
}

// Parameter declarations

// Request declares a parameter that receives the request Context.
func Request() Param {
	return internal.Request()
}

// Body declares a parameter bound from the request body into the model
// returned by the factory. The decoded model is sanitized and validated.
func Body(name string, model func() any) Param {
	return internal.Body(name, model)
}

// Depends declares a parameter resolved from the given dependency.
func Depends(name string, dep *Dependency) Param {
	return internal.Depends(name, dep)
}

// Field declares a parameter bound from the path, query, or a registered
// dependency of the same name.
func Field(name string) Param {
	return internal.Field(name)
}

// FieldDefault is Field with a fallback value when the request carries none.
func FieldDefault(name string, def any) Param {
	return internal.FieldDefault(name, def)
}

// Route options

// WithSummary sets a short route summary for introspection.
func WithSummary(s string) RouteOption {
	return internal.WithSummary(s)
}

// WithDescription sets a longer route description.
func WithDescription(d string) RouteOption {
	return internal.WithDescription(d)
}

// WithRouteTags appends tags to the route.
func WithRouteTags(tags ...string) RouteOption {
	return internal.WithRouteTags(tags...)
}

// WithStatus sets the success status code. Defaults to 200.
func WithStatus(code int) RouteOption {
	return internal.WithStatus(code)
}

// WithParams declares the handler's parameters.
func WithParams(params ...Param) RouteOption {
	return internal.WithParams(params...)
}

// WithResponseModel documents the route's response model.
func WithResponseModel(model any) RouteOption {
	return internal.WithResponseModel(model)
}

// WithDeprecated marks the route as deprecated in listings.
func WithDeprecated() RouteOption {
	return internal.WithDeprecated()
}

// WithoutSchema hides the route from the route listing.
func WithoutSchema() RouteOption {
	return internal.WithoutSchema()
}

// Include options

// IncludePrefix prepends an extra prefix when including a router.
func IncludePrefix(prefix string) IncludeOption {
	return internal.IncludePrefix(prefix)
}

// IncludeTags appends extra tags when including a router.
func IncludeTags(tags ...string) IncludeOption {
	return internal.IncludeTags(tags...)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithDependency registers a named dependency available to all routes.
func WithDependency(name string, dep *Dependency) Option {
	return internal.WithDependency(name, dep)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	microframe.New(
//	    microframe.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called before the built-in mapping; return nil to mark the error handled.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// HTMLErrorHandler returns an ErrorHandler that renders an HTML error page
// for requests that accept text/html and leaves everything else to the
// built-in JSON mapping. Install it with WithErrorHandler:
//
//	microframe.New(
//	    microframe.WithErrorHandler(microframe.HTMLErrorHandler()),
//	)
func HTMLErrorHandler() ErrorHandler {
	return func(c Context, err error) error {
		if !strings.Contains(c.Request().Header.Get("Accept"), "text/html") {
			return err
		}
		status := http.StatusInternalServerError
		message := "internal server error"
		if ve := internal.AsValidationError(err); ve != nil {
			status, message = http.StatusUnprocessableEntity, "validation failed"
		} else if httpErr := internal.AsHTTPError(err); httpErr != nil && httpErr.Status < http.StatusInternalServerError {
			status, message = httpErr.Status, httpErr.Message
		}
		return c.Render(status, ui.ErrorPage(status, message))
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	microframe.WithHealthChecks(
//	    microframe.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithRouteListing serves a JSON listing of registered routes at the given
// path. Routes registered with WithoutSchema are omitted.
func WithRouteListing(path string) Option {
	return internal.WithRouteListing(path)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, user_id).
//
// Example:
//
//	microframe.New(
//	    microframe.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	microframe.New(
//	    microframe.WithCookieOptions(
//	        microframe.WithCookieSecret(os.Getenv("COOKIE_SECRET")),
//	        microframe.WithCookieSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server runtime logger.
// If nil, logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// This applies to both the HTTP server and shutdown hooks.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run during server startup.
// Hooks are called in the order they were registered, before the port is
// bound. If any hook fails, the server does not start.
//
// Example:
//
//	microframe.StartupHook(cache.Warm)
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
// Each hook receives a context with the shutdown timeout.
//
// Example:
//
//	microframe.ShutdownHook(redis.Shutdown(client))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
// Useful for testing or when integrating with existing context hierarchies.
// Defaults to context.Background() if not set.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// NewHTTPError creates an HTTPError with the given status and message.
func NewHTTPError(status int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(status, message, opts...)
}

// WithErrorCode sets a machine-readable error code on an HTTPError.
func WithErrorCode(code string) HTTPErrorOption {
	return internal.WithErrorCode(code)
}

// WithDetails attaches structured details to an HTTPError.
func WithDetails(details any) HTTPErrorOption {
	return internal.WithDetails(details)
}

// WithError wraps an underlying cause into an HTTPError.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// HTTPError constructors for common statuses.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrConflict(message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

func ErrTooManyRequests(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrTooManyRequests(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrServiceUnavailable(message, opts...)
}

// AsHTTPError extracts the HTTPError from an error chain if present.
// Returns nil if the error is not an HTTPError.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// AsValidationError extracts the ValidationError from an error chain if
// present. Returns nil otherwise.
func AsValidationError(err error) *ValidationError {
	return internal.AsValidationError(err)
}

// Extractors

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader returns a source that reads from a request header.
func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

// FromQuery returns a source that reads from a query parameter.
func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

// FromCookie returns a source that reads from a plain cookie.
func FromCookie(name string) ExtractorSource {
	return internal.FromCookie(name)
}

// FromCookieSigned returns a source that reads from a signed cookie.
func FromCookieSigned(name string) ExtractorSource {
	return internal.FromCookieSigned(name)
}

// FromParam returns a source that reads from a URL parameter.
func FromParam(name string) ExtractorSource {
	return internal.FromParam(name)
}

// FromForm returns a source that reads from a form field.
func FromForm(name string) ExtractorSource {
	return internal.FromForm(name)
}

// FromBearerToken returns a source that reads a Bearer token from the
// Authorization header.
func FromBearerToken() ExtractorSource {
	return internal.FromBearerToken()
}

// Context helpers

// ContextValue retrieves a typed value stored on the Context.
// Returns the zero value of T if the key is not found or the type differs.
//
// Example:
//
//	tenant := microframe.ContextValue[string](c, "tenant")
func ContextValue[T any](c Context, key string) T {
	return internal.ContextValue[T](c, key)
}

// PathParam retrieves and converts a URL path parameter.
// Returns the zero value of T when missing or not convertible.
func PathParam[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.PathParam[T](c, name)
}

// QueryParam retrieves and converts a query parameter.
// Returns the zero value of T when missing or not convertible.
func QueryParam[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.QueryParam[T](c, name)
}

// QueryParamDefault retrieves and converts a query parameter with a fallback.
func QueryParamDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.QueryParamDefault[T](c, name, defaultValue)
}

// ParamValue retrieves a typed value from bound handler parameters.
// Returns the zero value of T when missing or the type differs.
//
// Example:
//
//	user := microframe.ParamValue[*User](p, "current_user")
func ParamValue[T any](p Params, name string) T {
	return internal.Value[T](p, name)
}

// Cookie options

// WithCookieSecret sets the secret for cookie signing.
// Must be at least 32 bytes.
func WithCookieSecret(secret string) CookieOption {
	return cookie.WithSecret(secret)
}

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieOption {
	return cookie.WithDomain(domain)
}

// WithCookiePath sets the cookie path.
func WithCookiePath(path string) CookieOption {
	return cookie.WithPath(path)
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieOption {
	return cookie.WithSecure(secure)
}

// WithCookieHTTPOnly sets the HttpOnly flag.
func WithCookieHTTPOnly(httpOnly bool) CookieOption {
	return cookie.WithHTTPOnly(httpOnly)
}

// WithCookieSameSite sets the SameSite attribute.
func WithCookieSameSite(ss http.SameSite) CookieOption {
	return cookie.WithSameSite(ss)
}

// WithCookieMaxAge sets the cookie max age in seconds.
func WithCookieMaxAge(seconds int) CookieOption {
	return cookie.WithMaxAge(seconds)
}

// Cookie errors for checking return values.
var (
	ErrCookieNotFound = cookie.ErrNotFound
	ErrCookieNoSecret = cookie.ErrNoSecret
	ErrCookieBadSig   = cookie.ErrBadSig
)
