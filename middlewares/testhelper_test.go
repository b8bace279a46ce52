package middlewares_test

import (
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/microframe-dev/microframe/internal"
	"github.com/microframe-dev/microframe/pkg/cookie"
)

// testContext is a minimal Context implementation for middleware tests.
type testContext struct {
	request  *http.Request
	response http.ResponseWriter
	written  bool
	values   map[string]any
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		request:  r,
		response: w,
		values:   make(map[string]any),
	}
}

var _ internal.Context = (*testContext)(nil)

func (c *testContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *testContext) Err() error                  { return c.request.Context().Err() }
func (c *testContext) Value(key any) any           { return c.request.Context().Value(key) }

func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) SetRequest(r *http.Request)    { c.request = r }
func (c *testContext) Response() http.ResponseWriter { return c.response }

func (c *testContext) Param(name string) string { return "" }

func (c *testContext) Query(name string) string { return c.request.URL.Query().Get(name) }

func (c *testContext) QueryDefault(name, defaultValue string) string {
	if !c.request.URL.Query().Has(name) {
		return defaultValue
	}
	return c.request.URL.Query().Get(name)
}

func (c *testContext) HasQuery(name string) bool { return c.request.URL.Query().Has(name) }

func (c *testContext) Form(name string) string { return c.request.FormValue(name) }

func (c *testContext) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	return c.request.FormFile(name)
}

func (c *testContext) Header(name string) string    { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string) { c.response.Header().Set(name, value) }

func (c *testContext) RealIP() string {
	if xff := c.request.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(c.request.RemoteAddr)
	if err != nil {
		return c.request.RemoteAddr
	}
	return host
}

func (c *testContext) RequestID() string {
	if v, ok := c.values["request_id"].(string); ok {
		return v
	}
	return ""
}

func (c *testContext) JSON(status int, v any) error {
	c.written = true
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(status)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *testContext) String(status int, s string) error {
	c.written = true
	c.response.WriteHeader(status)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *testContext) Render(status int, comp internal.Component) error {
	c.written = true
	c.response.WriteHeader(status)
	return comp.Render(c.request.Context(), c.response)
}

func (c *testContext) NoContent(status int) error {
	c.written = true
	c.response.WriteHeader(status)
	return nil
}

func (c *testContext) Redirect(status int, url string) error {
	c.written = true
	http.Redirect(c.response, c.request, url, status)
	return nil
}

func (c *testContext) Written() bool { return c.written }

func (c *testContext) Logger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func (c *testContext) Set(key string, value any) { c.values[key] = value }

func (c *testContext) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *testContext) Cookie(name string) (string, error) {
	ck, err := c.request.Cookie(name)
	if err != nil {
		return "", err
	}
	return ck.Value, nil
}

func (c *testContext) SetCookie(name, value string, opts ...cookie.Option) error {
	http.SetCookie(c.response, &http.Cookie{Name: name, Value: value})
	return nil
}

func (c *testContext) CookieSigned(name string) (string, error) { return c.Cookie(name) }

func (c *testContext) SetCookieSigned(name, value string, opts ...cookie.Option) error {
	return c.SetCookie(name, value, opts...)
}

func (c *testContext) DeleteCookie(name string) {
	http.SetCookie(c.response, &http.Cookie{Name: name, MaxAge: -1})
}
