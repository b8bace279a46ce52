package internal

import "strconv"

// Values is the bag of resolved handler inputs, keyed by parameter name.
type Values map[string]any

// Params gives handlers typed access to their resolved inputs. A parameter
// that stayed unbound is simply absent.
type Params struct {
	values Values
}

// NewParams wraps a resolved value bag.
func NewParams(values Values) Params {
	return Params{values: values}
}

// Has reports whether a parameter was bound.
func (p Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Get returns the raw bound value, or nil when unbound.
func (p Params) Get(name string) any {
	return p.values[name]
}

// String returns the parameter as a string, or "" when unbound or not a
// string.
func (p Params) String(name string) string {
	if s, ok := p.values[name].(string); ok {
		return s
	}
	return ""
}

// Int returns the parameter as an int. String values are parsed, which is
// the common case for path and query inputs.
func (p Params) Int(name string) int {
	switch v := p.values[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// Int64 returns the parameter as an int64, parsing strings when needed.
func (p Params) Int64(name string) int64 {
	switch v := p.values[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

// Float64 returns the parameter as a float64, parsing strings when needed.
func (p Params) Float64(name string) float64 {
	switch v := p.values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// Bool returns the parameter as a bool, parsing strings when needed.
func (p Params) Bool(name string) bool {
	switch v := p.values[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// Value returns a parameter asserted to T. The zero value is returned when
// the parameter is unbound or holds a different type. Use it for body models
// and dependency results whose concrete type the handler knows.
func Value[T any](p Params, name string) T {
	if v, ok := p.values[name].(T); ok {
		return v
	}
	var zero T
	return zero
}
