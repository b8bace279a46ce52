package internal

import (
	"net/http"
	"strings"
)

// Router is an ordered, composable route table. Routers nest through Include
// and stay fully relative until Routes flattens them; flattening copies every
// descriptor so the originals never change.
type Router struct {
	prefix string
	tags   []string
	routes []*RouteInfo
	nested []inclusion
}

// inclusion records one Include call with its per-inclusion overrides.
type inclusion struct {
	child  *Router
	prefix string
	tags   []string
}

// RouterOption configures a Router at construction time.
type RouterOption func(*Router)

// WithRouterTags sets tags applied to every route the router owns.
func WithRouterTags(tags ...string) RouterOption {
	return func(r *Router) {
		r.tags = mergeTags(r.tags, tags)
	}
}

// NewRouter creates a route table mounted under prefix. An empty prefix is
// valid and common for the application root.
func NewRouter(prefix string, opts ...RouterOption) *Router {
	r := &Router{prefix: prefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prefix returns the router's own mount prefix.
func (r *Router) Prefix() string {
	return r.prefix
}

// Handle registers a route for the given methods at a path relative to the
// router's prefix. The returned descriptor is owned by the router; callers
// must not mutate it after registration.
func (r *Router) Handle(path string, methods []string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	if len(methods) == 0 {
		panic("router: route registered without methods")
	}
	route := &RouteInfo{
		Path:            path,
		Methods:         append([]string(nil), methods...),
		Handler:         h,
		Tags:            append([]string(nil), r.tags...),
		StatusCode:      http.StatusOK,
		IncludeInSchema: true,
	}
	for _, opt := range opts {
		opt(route)
	}
	r.routes = append(r.routes, route)
	return route
}

func (r *Router) GET(path string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	return r.Handle(path, []string{http.MethodGet}, h, opts...)
}

func (r *Router) POST(path string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	return r.Handle(path, []string{http.MethodPost}, h, opts...)
}

func (r *Router) PUT(path string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	return r.Handle(path, []string{http.MethodPut}, h, opts...)
}

func (r *Router) PATCH(path string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	return r.Handle(path, []string{http.MethodPatch}, h, opts...)
}

func (r *Router) DELETE(path string, h HandlerFunc, opts ...RouteOption) *RouteInfo {
	return r.Handle(path, []string{http.MethodDelete}, h, opts...)
}

// IncludeOption adjusts how a child router is mounted.
type IncludeOption func(*inclusion)

// IncludePrefix adds an extra prefix in front of the child's own prefix for
// this inclusion only.
func IncludePrefix(prefix string) IncludeOption {
	return func(inc *inclusion) {
		inc.prefix = prefix
	}
}

// IncludeTags adds tags to every route of the child for this inclusion only.
func IncludeTags(tags ...string) IncludeOption {
	return func(inc *inclusion) {
		inc.tags = mergeTags(inc.tags, tags)
	}
}

// Include mounts a child router. The child is recorded by reference, so
// routes registered on it after inclusion still appear when the parent is
// flattened. Including a nil router is a wiring bug and panics.
func (r *Router) Include(child *Router, opts ...IncludeOption) {
	if child == nil {
		panic("router: include called with nil router")
	}
	inc := inclusion{child: child}
	for _, opt := range opts {
		opt(&inc)
	}
	r.nested = append(r.nested, inc)
}

// Routes flattens the router into absolute route descriptors. A router's own
// routes come first, then each inclusion in registration order. Every
// returned descriptor is a copy.
func (r *Router) Routes(externalPrefix string, externalTags []string) []*RouteInfo {
	base := joinPaths(externalPrefix, r.prefix)

	var out []*RouteInfo
	for _, route := range r.routes {
		flat := route.clone()
		flat.Path = joinPaths(base, route.Path)
		flat.Tags = mergeTags(externalTags, flat.Tags)
		out = append(out, flat)
	}
	for _, inc := range r.nested {
		childPrefix := joinPaths(base, inc.prefix)
		// The router's own tags apply only to its local routes; nested
		// children inherit the external tags plus the per-inclusion ones.
		childTags := mergeTags(externalTags, inc.tags)
		out = append(out, inc.child.Routes(childPrefix, childTags)...)
	}
	return out
}

// joinPaths concatenates two path fragments, collapsing duplicate slashes at
// the seam and guaranteeing a single leading slash. A trailing slash on the
// second fragment is preserved because it is routing-significant.
func joinPaths(a, b string) string {
	joined := a + "/" + b
	trailing := strings.HasSuffix(joined, "/") && joined != "/"

	parts := strings.Split(joined, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	path := "/" + strings.Join(segs, "/")
	if trailing && path != "/" {
		path += "/"
	}
	return path
}

// mergeTags returns the order-preserving union of two tag lists.
func mergeTags(a, b []string) []string {
	if len(a) == 0 {
		return append([]string(nil), b...)
	}
	out := append([]string(nil), a...)
	for _, t := range b {
		seen := false
		for _, have := range out {
			if have == t {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, t)
		}
	}
	return out
}
