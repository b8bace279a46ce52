package internal

// ParamKind tells the request parser where a handler parameter's value
// comes from.
type ParamKind int

const (
	// ParamField is resolved from the path, the query string, or a declared
	// default, in that order.
	ParamField ParamKind = iota

	// ParamRequest injects the live request context.
	ParamRequest

	// ParamBody binds and validates the request body against a model.
	ParamBody

	// ParamDepends resolves the value through the dependency manager.
	ParamDepends
)

// Param declares a single named input of a handler. Params are built once at
// registration time so dispatch never inspects handler signatures.
type Param struct {
	// Name is the key under which the resolved value lands in Params.
	Name string

	// Kind selects the resolution strategy.
	Kind ParamKind

	// Model allocates a fresh body model instance. Set for ParamBody only.
	Model func() any

	// Dep is the provider to resolve. Set for ParamDepends only.
	Dep *Dependency

	// Default is used when neither path nor query carries the value.
	Default any

	// HasDefault distinguishes a declared nil default from no default.
	HasDefault bool
}

// Request declares a parameter that receives the request context.
func Request() Param {
	return Param{Name: "request", Kind: ParamRequest}
}

// Body declares a parameter bound from the request body into a fresh
// instance returned by model.
func Body(name string, model func() any) Param {
	return Param{Name: name, Kind: ParamBody, Model: model}
}

// Depends declares a parameter resolved through the given dependency.
func Depends(name string, dep *Dependency) Param {
	return Param{Name: name, Kind: ParamDepends, Dep: dep}
}

// Field declares a plain parameter filled from the path or query string.
// Missing values without a default stay unbound.
func Field(name string) Param {
	return Param{Name: name, Kind: ParamField}
}

// FieldDefault declares a plain parameter with a fallback value.
func FieldDefault(name string, def any) Param {
	return Param{Name: name, Kind: ParamField, Default: def, HasDefault: true}
}

// RouteInfo is an immutable descriptor for one registered route. The path is
// always relative to the owning router; absolute paths are produced only when
// a route table is flattened.
type RouteInfo struct {
	// Path is the route pattern relative to the owning router's prefix.
	Path string

	// Methods lists the HTTP methods this route answers.
	Methods []string

	// Handler is invoked after parameter resolution.
	Handler HandlerFunc

	// Params declares the handler's named inputs.
	Params []Param

	// Tags label the route for grouping and introspection.
	Tags []string

	// Summary is a short human-readable label.
	Summary string

	// Description is a longer free-form note.
	Description string

	// StatusCode is the success status for normalized JSON responses.
	StatusCode int

	// ResponseModel documents the success response shape for introspection.
	ResponseModel any

	// Deprecated marks the route as slated for removal.
	Deprecated bool

	// IncludeInSchema controls visibility in the route listing.
	IncludeInSchema bool
}

// clone returns a deep-enough copy so that flattening never mutates the
// descriptor a caller registered.
func (r *RouteInfo) clone() *RouteInfo {
	c := *r
	c.Methods = append([]string(nil), r.Methods...)
	c.Params = append([]Param(nil), r.Params...)
	c.Tags = append([]string(nil), r.Tags...)
	return &c
}

// RouteOption configures a RouteInfo at registration time.
type RouteOption func(*RouteInfo)

func WithSummary(s string) RouteOption {
	return func(r *RouteInfo) {
		r.Summary = s
	}
}

func WithDescription(d string) RouteOption {
	return func(r *RouteInfo) {
		r.Description = d
	}
}

func WithRouteTags(tags ...string) RouteOption {
	return func(r *RouteInfo) {
		r.Tags = mergeTags(r.Tags, tags)
	}
}

// WithStatus overrides the success status code for normalized responses.
func WithStatus(code int) RouteOption {
	return func(r *RouteInfo) {
		r.StatusCode = code
	}
}

// WithParams declares the handler's named inputs.
func WithParams(params ...Param) RouteOption {
	return func(r *RouteInfo) {
		r.Params = append(r.Params, params...)
	}
}

// WithResponseModel documents the success response shape for introspection.
func WithResponseModel(model any) RouteOption {
	return func(r *RouteInfo) {
		r.ResponseModel = model
	}
}

func WithDeprecated() RouteOption {
	return func(r *RouteInfo) {
		r.Deprecated = true
	}
}

// WithoutSchema hides the route from the route listing.
func WithoutSchema() RouteOption {
	return func(r *RouteInfo) {
		r.IncludeInSchema = false
	}
}
