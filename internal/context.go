package internal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/microframe-dev/microframe/pkg/cookie"
)

// Component is the interface for renderable templates.
// This is compatible with templ.Component.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the underlying request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// SetRequest replaces the underlying request, typically after deriving
	// a new request context in middleware.
	SetRequest(r *http.Request)

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Param returns the URL path parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Param(name string) string

	// Query returns the query parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// HasQuery reports whether the query string carries the key at all.
	HasQuery(name string) bool

	// Form returns the form value by name.
	// Calls ParseForm/ParseMultipartForm internally on first access.
	Form(name string) string

	// FormFile returns the first file for the given form key.
	FormFile(name string) (multipart.File, *multipart.FileHeader, error)

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// RealIP returns the client IP, honoring X-Forwarded-For and X-Real-IP.
	RealIP() string

	// RequestID returns the request's tracking ID, if one was assigned.
	RequestID() string

	// JSON writes a JSON response with the given status code.
	JSON(status int, v any) error

	// String writes a plain text response with the given status code.
	String(status int, s string) error

	// Render writes an HTML response by rendering the component.
	Render(status int, comp Component) error

	// NoContent writes an empty response with the given status code.
	NoContent(status int) error

	// Redirect sends an HTTP redirect to the given URL.
	Redirect(status int, url string) error

	// Written reports whether the response has been written to.
	Written() bool

	// Logger returns the request-scoped structured logger.
	Logger() *slog.Logger

	// Set stores a request-scoped value.
	Set(key string, value any)

	// Get retrieves a request-scoped value.
	Get(key string) (any, bool)

	// Cookie returns the named request cookie's value.
	Cookie(name string) (string, error)

	// SetCookie sets a response cookie using the app's cookie defaults.
	SetCookie(name, value string, opts ...cookie.Option) error

	// CookieSigned returns and verifies a signed cookie's value.
	CookieSigned(name string) (string, error)

	// SetCookieSigned sets a tamper-evident signed cookie.
	SetCookieSigned(name, value string, opts ...cookie.Option) error

	// DeleteCookie expires the named cookie.
	DeleteCookie(name string)
}

type requestContext struct {
	r       *http.Request
	w       *ResponseWriter
	logger  *slog.Logger
	cookies *cookie.Manager

	mu     sync.RWMutex
	values map[string]any
}

func newContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger, cookies *cookie.Manager) *requestContext {
	return &requestContext{
		r:       r,
		w:       NewResponseWriter(w),
		logger:  logger,
		cookies: cookies,
	}
}

// context.Context delegation.

func (c *requestContext) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *requestContext) Err() error                  { return c.r.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.r.Context().Value(key) }

func (c *requestContext) Request() *http.Request {
	return c.r
}

func (c *requestContext) SetRequest(r *http.Request) {
	c.r = r
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.w
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.r, name)
}

func (c *requestContext) Query(name string) string {
	return c.r.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if !c.r.URL.Query().Has(name) {
		return defaultValue
	}
	return c.r.URL.Query().Get(name)
}

func (c *requestContext) HasQuery(name string) bool {
	return c.r.URL.Query().Has(name)
}

func (c *requestContext) Form(name string) string {
	if c.r.Form == nil {
		const maxMemory = 32 << 20
		if err := c.r.ParseMultipartForm(maxMemory); err != nil && err != http.ErrNotMultipart {
			return ""
		}
	}
	return c.r.FormValue(name)
}

func (c *requestContext) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	if c.r.MultipartForm == nil {
		const maxMemory = 32 << 20
		if err := c.r.ParseMultipartForm(maxMemory); err != nil {
			return nil, nil, err
		}
	}
	return c.r.FormFile(name)
}

func (c *requestContext) Header(name string) string {
	return c.r.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.w.Header().Set(name, value)
}

func (c *requestContext) RealIP() string {
	if xff := c.r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if rip := c.r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(c.r.RemoteAddr)
	if err != nil {
		return c.r.RemoteAddr
	}
	return host
}

func (c *requestContext) RequestID() string {
	if id, ok := c.Get("request_id"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

func (c *requestContext) JSON(status int, v any) error {
	c.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.w.WriteHeader(status)
	return json.NewEncoder(c.w).Encode(v)
}

func (c *requestContext) String(status int, s string) error {
	c.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.w.WriteHeader(status)
	_, err := io.WriteString(c.w, s)
	return err
}

func (c *requestContext) Render(status int, comp Component) error {
	c.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.w.WriteHeader(status)
	return comp.Render(c.r.Context(), c.w)
}

func (c *requestContext) NoContent(status int) error {
	c.w.WriteHeader(status)
	return nil
}

func (c *requestContext) Redirect(status int, url string) error {
	http.Redirect(c.w, c.r, url, status)
	return nil
}

func (c *requestContext) Written() bool {
	return c.w.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

func (c *requestContext) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookies.Get(c.r, name)
}

func (c *requestContext) SetCookie(name, value string, opts ...cookie.Option) error {
	return c.cookies.Set(c.w, name, value, opts...)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookies.GetSigned(c.r, name)
}

func (c *requestContext) SetCookieSigned(name, value string, opts ...cookie.Option) error {
	return c.cookies.SetSigned(c.w, name, value, opts...)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookies.Delete(c.w, name)
}
