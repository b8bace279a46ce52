package internal

// Handler declares routes on a router.
//
// Example:
//
//	type ItemsHandler struct {
//	    store *itemStore
//	}
//
//	func (h *ItemsHandler) Routes(r *microframe.Router) {
//	    r.GET("/items", h.listItems)
//	    r.POST("/items", h.createItem, microframe.WithStatus(201))
//	}
type Handler interface {
	Routes(r *Router)
}

// HandlerFunc is the signature for route handlers. It receives the request
// context and the resolved parameter bag, and returns the result to
// normalize into a response. Returning a non-nil error triggers the
// application's error mapping.
type HandlerFunc func(c Context, p Params) (any, error)

// Middleware wraps a HandlerFunc to add cross-cutting concerns. Middleware
// can inspect the request, short-circuit processing, or transform the
// result before normalization.
//
// Example:
//
//	func RequireAdmin(next microframe.HandlerFunc) microframe.HandlerFunc {
//	    return func(c microframe.Context, p microframe.Params) (any, error) {
//	        if c.Header("X-Role") != "admin" {
//	            return nil, microframe.ErrForbidden("admin only")
//	        }
//	        return next(c, p)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers. Returning a non-nil
// error falls through to the built-in error mapping.
type ErrorHandler func(Context, error) error

// Responder lets a handler result take over response writing entirely,
// bypassing JSON normalization.
type Responder interface {
	Respond(c Context) error
}
