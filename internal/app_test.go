package internal_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/microframe-dev/microframe/internal"
)

func doRequest(t *testing.T, app *internal.App, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAppDispatch(t *testing.T) {
	t.Parallel()

	t.Run("path param arrives as string", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/users/{id}", func(c internal.Context, p internal.Params) (any, error) {
			return map[string]any{"id": p.Get("id")}, nil
		}, internal.WithParams(internal.Field("id")))

		rec := doRequest(t, app, http.MethodGet, "/users/42", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		require.Equal(t, "42", decodeBody(t, rec)["id"])
	})

	t.Run("route status code applies to normalized responses", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.POST("/items", func(c internal.Context, p internal.Params) (any, error) {
			return map[string]string{"name": "widget"}, nil
		}, internal.WithStatus(http.StatusCreated))

		rec := doRequest(t, app, http.MethodPost, "/items", nil)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "widget", decodeBody(t, rec)["name"])
	})

	t.Run("query value binds through declared field", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/search", func(c internal.Context, p internal.Params) (any, error) {
			return map[string]any{"q": p.String("q"), "limit": p.String("limit")}, nil
		}, internal.WithParams(
			internal.Field("q"),
			internal.FieldDefault("limit", "20"),
		))

		rec := doRequest(t, app, http.MethodGet, "/search?q=golang", nil)

		body := decodeBody(t, rec)
		require.Equal(t, "golang", body["q"])
		require.Equal(t, "20", body["limit"])
	})

	t.Run("dependency result wins over request value of the same name", func(t *testing.T) {
		t.Parallel()

		dep := internal.NewDependency("name", func(ctx context.Context, p internal.Params) (any, error) {
			return "from-dep", nil
		})

		app := internal.New()
		app.GET("/who", func(c internal.Context, p internal.Params) (any, error) {
			return map[string]any{"name": p.Get("name")}, nil
		}, internal.WithParams(
			internal.Field("name"),
			internal.Depends("name", dep),
		))

		rec := doRequest(t, app, http.MethodGet, "/who?name=from-query", nil)

		require.Equal(t, "from-dep", decodeBody(t, rec)["name"])
	})

	t.Run("handlers registered through the Handler interface", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithHandlers(&pingHandler{}))

		rec := doRequest(t, app, http.MethodGet, "/ping", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "pong", decodeBody(t, rec)["message"])
	})

	t.Run("global middleware wraps every route in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		mw := func(label string) internal.Middleware {
			return func(next internal.HandlerFunc) internal.HandlerFunc {
				return func(c internal.Context, p internal.Params) (any, error) {
					order = append(order, label)
					return next(c, p)
				}
			}
		}

		app := internal.New(internal.WithMiddleware(mw("first"), mw("second")))
		app.GET("/mw", func(c internal.Context, p internal.Params) (any, error) {
			order = append(order, "handler")
			return nil, c.NoContent(http.StatusNoContent)
		})

		rec := doRequest(t, app, http.MethodGet, "/mw", nil)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("middleware can short-circuit with an error", func(t *testing.T) {
		t.Parallel()

		deny := func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context, p internal.Params) (any, error) {
				return nil, internal.ErrForbidden("admin only")
			}
		}

		app := internal.New(internal.WithMiddleware(deny))
		app.GET("/secret", func(c internal.Context, p internal.Params) (any, error) {
			t.Fatal("handler must not run")
			return nil, nil
		})

		rec := doRequest(t, app, http.MethodGet, "/secret", nil)

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "admin only", decodeBody(t, rec)["message"])
	})
}

type pingHandler struct{}

func (h *pingHandler) Routes(r *internal.Router) {
	r.GET("/ping", func(c internal.Context, p internal.Params) (any, error) {
		return map[string]string{"message": "pong"}, nil
	})
}

func TestAppErrorEnvelope(t *testing.T) {
	t.Parallel()

	t.Run("unknown path returns 404 envelope", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/exists", func(c internal.Context, p internal.Params) (any, error) {
			return nil, nil
		})

		rec := doRequest(t, app, http.MethodGet, "/missing", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "resource not found", body["message"])
		require.Equal(t, float64(http.StatusNotFound), body["status"])
	})

	t.Run("wrong method returns 405 envelope", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/only-get", func(c internal.Context, p internal.Params) (any, error) {
			return nil, nil
		})

		rec := doRequest(t, app, http.MethodPost, "/only-get", nil)

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "method not allowed", body["message"])
		require.Equal(t, float64(http.StatusMethodNotAllowed), body["status"])
	})

	t.Run("handler HTTP error maps status code and details", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/conflict", func(c internal.Context, p internal.Params) (any, error) {
			return nil, internal.ErrConflict("already exists",
				internal.WithErrorCode("duplicate"),
				internal.WithDetails(map[string]string{"field": "email"}),
			)
		})

		rec := doRequest(t, app, http.MethodGet, "/conflict", nil)

		require.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "already exists", body["message"])
		require.Equal(t, "duplicate", body["code"])
		require.Equal(t, map[string]any{"field": "email"}, body["details"])
	})

	t.Run("validation error maps to 422 with field details", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.POST("/signup", func(c internal.Context, p internal.Params) (any, error) {
			return nil, &internal.ValidationError{Fields: []internal.FieldError{
				{Field: "email", Rule: "email", Message: "must be a valid email address"},
			}}
		})

		rec := doRequest(t, app, http.MethodPost, "/signup", nil)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "validation failed", body["message"])
		require.Equal(t, "validation_error", body["code"])
		details, ok := body["details"].([]any)
		require.True(t, ok)
		require.Len(t, details, 1)
		field := details[0].(map[string]any)
		require.Equal(t, "email", field["field"])
		require.Equal(t, "must be a valid email address", field["message"])
	})

	t.Run("body validation failure at the boundary returns 422", func(t *testing.T) {
		t.Parallel()

		type signupBody struct {
			Email string `json:"email" validate:"required,email"`
		}

		app := internal.New()
		app.POST("/register", func(c internal.Context, p internal.Params) (any, error) {
			t.Fatal("handler must not run on invalid body")
			return nil, nil
		}, internal.WithParams(internal.Body("payload", func() any { return &signupBody{} })))

		rec := doRequest(t, app, http.MethodPost, "/register", strings.NewReader(`{"email":"nope"}`))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Equal(t, "validation_error", decodeBody(t, rec)["code"])
	})

	t.Run("unknown error returns generic 500 without detail", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/boom", func(c internal.Context, p internal.Params) (any, error) {
			return nil, errors.New("db password is hunter2")
		})

		rec := doRequest(t, app, http.MethodGet, "/boom", nil)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "internal server error", body["message"])
		require.NotContains(t, rec.Body.String(), "hunter2")
	})

	t.Run("dependency cycle returns generic 500", func(t *testing.T) {
		t.Parallel()

		var dep *internal.Dependency
		dep = internal.NewDependency("self", func(ctx context.Context, p internal.Params) (any, error) {
			return ctx, nil
		})
		dep.DependsOn(internal.Depends("self", dep))

		app := internal.New()
		app.GET("/cycle", func(c internal.Context, p internal.Params) (any, error) {
			return nil, nil
		}, internal.WithParams(internal.Depends("self", dep)))

		rec := doRequest(t, app, http.MethodGet, "/cycle", nil)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "internal server error", decodeBody(t, rec)["message"])
	})
}

func TestAppCustomErrorHandling(t *testing.T) {
	t.Parallel()

	t.Run("nil return marks the error handled", func(t *testing.T) {
		t.Parallel()

		errTeapot := errors.New("teapot")
		app := internal.New(internal.WithErrorHandler(func(c internal.Context, err error) error {
			if errors.Is(err, errTeapot) {
				return c.JSON(http.StatusTeapot, map[string]string{"message": "short and stout"})
			}
			return err
		}))
		app.GET("/tea", func(c internal.Context, p internal.Params) (any, error) {
			return nil, errTeapot
		})
		app.GET("/coffee", func(c internal.Context, p internal.Params) (any, error) {
			return nil, internal.ErrNotFound("no coffee here")
		})

		rec := doRequest(t, app, http.MethodGet, "/tea", nil)
		require.Equal(t, http.StatusTeapot, rec.Code)
		require.Equal(t, "short and stout", decodeBody(t, rec)["message"])

		// Non-nil return falls through to the built-in mapping.
		rec = doRequest(t, app, http.MethodGet, "/coffee", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "no coffee here", decodeBody(t, rec)["message"])
	})

	t.Run("custom not found handler", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithNotFoundHandler(func(c internal.Context, _ internal.Params) (any, error) {
			return nil, c.String(http.StatusNotFound, "nothing here")
		}))

		rec := doRequest(t, app, http.MethodGet, "/nope", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "nothing here", rec.Body.String())
	})

	t.Run("custom method not allowed handler", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithMethodNotAllowedHandler(func(c internal.Context, _ internal.Params) (any, error) {
			return map[string]string{"hint": "try GET"}, nil
		}))
		app.GET("/resource", func(c internal.Context, p internal.Params) (any, error) {
			return nil, nil
		})

		rec := doRequest(t, app, http.MethodDelete, "/resource", nil)

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Equal(t, "try GET", decodeBody(t, rec)["hint"])
	})
}

type htmlStub struct {
	markup string
}

func (s htmlStub) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, s.markup)
	return err
}

type csvResult struct {
	rows string
}

func (r csvResult) Respond(c internal.Context) error {
	w := c.Response()
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_, err := io.WriteString(w, r.rows)
	return err
}

func TestAppResultNormalization(t *testing.T) {
	t.Parallel()

	t.Run("nil result with written response passes through", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/raw", func(c internal.Context, p internal.Params) (any, error) {
			return nil, c.String(http.StatusAccepted, "done")
		})

		rec := doRequest(t, app, http.MethodGet, "/raw", nil)

		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Equal(t, "done", rec.Body.String())
	})

	t.Run("component result renders as HTML", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/page", func(c internal.Context, p internal.Params) (any, error) {
			return htmlStub{markup: "<h1>Hello</h1>"}, nil
		})

		rec := doRequest(t, app, http.MethodGet, "/page", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		require.Equal(t, "<h1>Hello</h1>", rec.Body.String())
	})

	t.Run("responder result takes over response writing", func(t *testing.T) {
		t.Parallel()

		app := internal.New()
		app.GET("/export", func(c internal.Context, p internal.Params) (any, error) {
			return csvResult{rows: "id,name\n1,widget\n"}, nil
		})

		rec := doRequest(t, app, http.MethodGet, "/export", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		require.Equal(t, "id,name\n1,widget\n", rec.Body.String())
	})

	t.Run("anything else serializes as JSON", func(t *testing.T) {
		t.Parallel()

		type item struct {
			Name string `json:"name"`
		}

		app := internal.New()
		app.GET("/item", func(c internal.Context, p internal.Params) (any, error) {
			return item{Name: "widget"}, nil
		})

		rec := doRequest(t, app, http.MethodGet, "/item", nil)

		require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		require.Equal(t, "widget", decodeBody(t, rec)["name"])
	})
}

func TestAppRouteListing(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithRouteListing("/_routes"))
	app.GET("/users", func(c internal.Context, p internal.Params) (any, error) {
		return nil, nil
	}, internal.WithSummary("List users"), internal.WithRouteTags("users"))
	app.GET("/internal/debug", func(c internal.Context, p internal.Params) (any, error) {
		return nil, nil
	}, internal.WithoutSchema())

	rec := doRequest(t, app, http.MethodGet, "/_routes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing []internal.RouteListing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))

	require.Len(t, listing, 1)
	require.Equal(t, "/users", listing[0].Path)
	require.Equal(t, []string{http.MethodGet}, listing[0].Methods)
	require.Equal(t, "List users", listing[0].Summary)
	require.Equal(t, []string{"users"}, listing[0].Tags)
}

func TestAppHealthEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("liveness always responds OK", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithHealthChecks())

		rec := doRequest(t, app, http.MethodGet, "/health/live", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("readiness reflects failing checks", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithHealthChecks(
			internal.WithReadinessCheck("db", func(ctx context.Context) error {
				return errors.New("connection refused")
			}),
		))

		rec := doRequest(t, app, http.MethodGet, "/health/ready", nil)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("custom paths", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithHealthChecks(
			internal.WithLivenessPath("/livez"),
		))

		rec := doRequest(t, app, http.MethodGet, "/livez", nil)

		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAppStaticFiles(t *testing.T) {
	t.Parallel()

	assets := fstest.MapFS{
		"public/app.css": {Data: []byte("body { margin: 0 }")},
	}

	app := internal.New(internal.WithStaticFiles("/static", assets, "public"))

	rec := doRequest(t, app, http.MethodGet, "/static/app.css", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body { margin: 0 }", rec.Body.String())
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	// Directory listings are blocked.
	rec = doRequest(t, app, http.MethodGet, "/static/", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAppRegistrationAfterCompile(t *testing.T) {
	t.Parallel()

	app := internal.New()
	app.GET("/before", func(c internal.Context, p internal.Params) (any, error) {
		return nil, nil
	})

	_ = app.Handler()

	require.PanicsWithValue(t, "app: route registered after the app was compiled", func() {
		app.GET("/after", func(c internal.Context, p internal.Params) (any, error) {
			return nil, nil
		})
	})
}
