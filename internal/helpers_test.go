package internal

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/microframe-dev/microframe/pkg/cookie"
)

func newHelperCtx(path string, params map[string]string) *requestContext {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return newContext(httptest.NewRecorder(), req, slog.New(slog.DiscardHandler), cookie.New())
}

func TestContextValue(t *testing.T) {
	t.Parallel()

	c := newHelperCtx("/", nil)
	c.Set("tenant", "acme")
	c.Set("count", 7)

	require.Equal(t, "acme", ContextValue[string](c, "tenant"))
	require.Equal(t, 7, ContextValue[int](c, "count"))

	// Missing key and type mismatch both yield the zero value.
	require.Empty(t, ContextValue[string](c, "missing"))
	require.Zero(t, ContextValue[int](c, "tenant"))
}

func TestPathParam(t *testing.T) {
	t.Parallel()

	c := newHelperCtx("/users/42", map[string]string{
		"id":     "42",
		"score":  "3.5",
		"active": "true",
		"name":   "alice",
	})

	require.Equal(t, 42, PathParam[int](c, "id"))
	require.Equal(t, int64(42), PathParam[int64](c, "id"))
	require.Equal(t, 3.5, PathParam[float64](c, "score"))
	require.Equal(t, true, PathParam[bool](c, "active"))
	require.Equal(t, "alice", PathParam[string](c, "name"))

	// Unparseable and missing params yield the zero value.
	require.Zero(t, PathParam[int](c, "name"))
	require.Zero(t, PathParam[int](c, "missing"))
}

func TestQueryParam(t *testing.T) {
	t.Parallel()

	c := newHelperCtx("/?page=3&limit=abc", nil)

	require.Equal(t, 3, QueryParam[int](c, "page"))
	require.Zero(t, QueryParam[int](c, "limit"))
	require.Zero(t, QueryParam[int](c, "missing"))
}

func TestQueryParamDefault(t *testing.T) {
	t.Parallel()

	c := newHelperCtx("/?page=3&limit=abc", nil)

	require.Equal(t, 3, QueryParamDefault(c, "page", 1))
	require.Equal(t, 20, QueryParamDefault(c, "limit", 20))
	require.Equal(t, 1, QueryParamDefault(c, "missing", 1))
	require.Equal(t, "asc", QueryParamDefault(c, "order", "asc"))
}
