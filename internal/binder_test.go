package internal

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/microframe-dev/microframe/pkg/cookie"
)

type createUserBody struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=18"`
	Bio   string `json:"bio" sanitize:"safe"`
}

func newBinderCtx(method, target, body, contentType string, params map[string]string) *requestContext {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return newContext(httptest.NewRecorder(), req, slog.New(slog.DiscardHandler), cookie.New())
}

func TestBinderFieldPrecedence(t *testing.T) {
	t.Parallel()

	b := NewBinder(nil)

	t.Run("path wins over query", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodGet, "/users/7?id=99", "", "", map[string]string{"id": "7"})
		vals, err := b.Parse(c, []Param{Field("id")})
		require.NoError(t, err)
		require.Equal(t, "7", vals["id"])
	})

	t.Run("query wins over default", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodGet, "/?limit=50", "", "", nil)
		vals, err := b.Parse(c, []Param{FieldDefault("limit", "20")})
		require.NoError(t, err)
		require.Equal(t, "50", vals["limit"])
	})

	t.Run("present-but-empty query still binds", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodGet, "/?filter=", "", "", nil)
		vals, err := b.Parse(c, []Param{FieldDefault("filter", "all")})
		require.NoError(t, err)
		require.Equal(t, "", vals["filter"])
	})

	t.Run("default applies when request has nothing", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodGet, "/", "", "", nil)
		vals, err := b.Parse(c, []Param{FieldDefault("limit", 20)})
		require.NoError(t, err)
		require.Equal(t, 20, vals["limit"])
	})

	t.Run("no value and no default stays unbound", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodGet, "/", "", "", nil)
		vals, err := b.Parse(c, []Param{Field("missing")})
		require.NoError(t, err)
		require.NotContains(t, vals, "missing")
	})

	t.Run("dependency-claimed names are skipped", func(t *testing.T) {
		t.Parallel()

		named := NewBinder(func(name string) bool { return name == "db" })
		c := newBinderCtx(http.MethodGet, "/?db=query-value", "", "", nil)
		vals, err := named.Parse(c, []Param{Field("db")})
		require.NoError(t, err)
		require.NotContains(t, vals, "db")
	})

	t.Run("request param injects the context", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodGet, "/", "", "", nil)
		vals, err := b.Parse(c, []Param{Request()})
		require.NoError(t, err)
		require.Same(t, c, vals["request"])
	})
}

func TestBinderBody(t *testing.T) {
	t.Parallel()

	b := NewBinder(nil)
	bodyParam := Body("payload", func() any { return &createUserBody{} })

	t.Run("valid JSON body binds", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodPost, "/users",
			`{"name":"Alice","email":"alice@example.com","age":30}`,
			"application/json", nil)

		vals, err := b.Parse(c, []Param{bodyParam})
		require.NoError(t, err)

		model, ok := vals["payload"].(*createUserBody)
		require.True(t, ok)
		require.Equal(t, "Alice", model.Name)
		require.Equal(t, "alice@example.com", model.Email)
		require.Equal(t, 30, model.Age)
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodPost, "/users", `{"name":`, "application/json", nil)

		_, err := b.Parse(c, []Param{bodyParam})
		httpErr := AsHTTPError(err)
		require.NotNil(t, httpErr)
		require.Equal(t, http.StatusBadRequest, httpErr.Status)
		require.Equal(t, "malformed_body", httpErr.Code)
	})

	t.Run("validation failure is a ValidationError", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodPost, "/users",
			`{"name":"","email":"not-an-email","age":15}`,
			"application/json", nil)

		_, err := b.Parse(c, []Param{bodyParam})
		ve := AsValidationError(err)
		require.NotNil(t, ve)
		require.True(t, ve.Has("name"))
		require.True(t, ve.Has("email"))
		require.True(t, ve.Has("age"))

		for _, f := range ve.Fields {
			if f.Field == "email" {
				require.Equal(t, "email", f.Rule)
				require.Equal(t, "must be a valid email address", f.Message)
			}
		}
	})

	t.Run("body content is sanitized", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodPost, "/users",
			`{"name":"<script>alert(1)</script>Bob","email":"bob@example.com","age":25,"bio":"<b>bold</b><script>x</script>"}`,
			"application/json", nil)

		vals, err := b.Parse(c, []Param{bodyParam})
		require.NoError(t, err)

		model := vals["payload"].(*createUserBody)
		require.Equal(t, "Bob", model.Name)
		require.Equal(t, "<b>bold</b>", model.Bio)
	})

	t.Run("form body binds by json tag", func(t *testing.T) {
		t.Parallel()

		form := url.Values{
			"name":  {"Carol"},
			"email": {"carol@example.com"},
			"age":   {"41"},
		}
		c := newBinderCtx(http.MethodPost, "/users", form.Encode(),
			"application/x-www-form-urlencoded", nil)

		vals, err := b.Parse(c, []Param{bodyParam})
		require.NoError(t, err)

		model := vals["payload"].(*createUserBody)
		require.Equal(t, "Carol", model.Name)
		require.Equal(t, 41, model.Age)
	})

	t.Run("unparseable form value is a 400", func(t *testing.T) {
		t.Parallel()

		form := url.Values{
			"name":  {"Carol"},
			"email": {"carol@example.com"},
			"age":   {"not-a-number"},
		}
		c := newBinderCtx(http.MethodPost, "/users", form.Encode(),
			"application/x-www-form-urlencoded", nil)

		_, err := b.Parse(c, []Param{bodyParam})
		httpErr := AsHTTPError(err)
		require.NotNil(t, httpErr)
		require.Equal(t, http.StatusBadRequest, httpErr.Status)
		require.Equal(t, "malformed_body", httpErr.Code)
	})

	t.Run("empty body still validates the fresh model", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodPost, "/users", "", "application/json", nil)

		_, err := b.Parse(c, []Param{bodyParam})
		ve := AsValidationError(err)
		require.NotNil(t, ve)
		require.True(t, ve.Has("name"))
	})

	t.Run("body without model is an error", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodPost, "/users", `{}`, "application/json", nil)
		_, err := b.Parse(c, []Param{{Name: "payload", Kind: ParamBody}})
		require.Error(t, err)
	})

	t.Run("two body params share one read", func(t *testing.T) {
		t.Parallel()

		c := newBinderCtx(http.MethodPost, "/users",
			`{"name":"Dora","email":"dora@example.com","age":22}`,
			"application/json", nil)

		vals, err := b.Parse(c, []Param{
			Body("first", func() any { return &createUserBody{} }),
			Body("second", func() any { return &createUserBody{} }),
		})
		require.NoError(t, err)

		first := vals["first"].(*createUserBody)
		second := vals["second"].(*createUserBody)
		require.Equal(t, "Dora", first.Name)
		require.Equal(t, "Dora", second.Name)
		require.NotSame(t, first, second)
	})
}
