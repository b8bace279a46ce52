// Package internal provides the core types and implementation for the
// MicroFrame framework.
//
// This package is internal and should not be used directly. Import
// "github.com/microframe-dev/microframe" instead, which re-exports the
// public API.
//
// # Core Types
//
// The package defines the fundamental types that users interact with:
//
//   - App: Orchestrates the route table, dependency resolution, request
//     parsing, and graceful shutdown
//   - Router: Ordered, composable route table that nests through Include
//   - RouteInfo: Immutable descriptor for one registered route
//   - Param: Declares one named handler input and where it comes from
//   - Manager: Owns dependency providers and their memoization caches
//   - Context: Request/response access and helper methods
//   - HandlerFunc: Signature for route handlers returning a result to
//     normalize
//   - Middleware: Wraps handlers to add cross-cutting concerns
//
// # Request Lifecycle
//
// On each request the compiled endpoint creates a Context, binds the
// declared params from the request, resolves dependency-backed params
// through the Manager, runs the handler, and normalizes the result:
// components render as HTML, Responder results write themselves, and
// everything else is encoded as JSON with the route's status code.
//
// # Handler Pattern
//
// Handlers implement the Handler interface and declare routes:
//
//	type ItemsHandler struct {
//	    store *itemStore
//	}
//
//	func (h *ItemsHandler) Routes(r *internal.Router) {
//	    r.GET("/items/{item_id}", h.getItem,
//	        internal.WithParams(internal.Field("item_id")))
//	    r.POST("/items", h.createItem,
//	        internal.WithStatus(201),
//	        internal.WithParams(internal.Body("item", func() any { return new(ItemForm) })))
//	}
//
// # Error Handling
//
// Errors returned from handlers map onto a stable JSON envelope. The rules
// apply in order: the custom error handler, validation errors (422),
// circular dependency errors (500, logged), deliberate HTTP errors (their
// own status), then the generic 500 fallback. Internal failure detail never
// reaches clients.
//
// # Design Principles
//
//   - Declared inputs: handler params are metadata built at registration,
//     never recovered from signatures at request time
//   - Relative until flattened: routers compose by reference and produce
//     absolute paths only when the app compiles
//   - Constructor injection for services, declared dependencies for
//     request-scoped values
//
// See the microframe package documentation for the public API and usage
// examples.
package internal
