package internal

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ProviderFunc computes a dependency value. Providers receive the resolved
// values of their own declared params.
type ProviderFunc func(ctx context.Context, p Params) (any, error)

// Dependency is a provider plus its resolution metadata. Construct one with
// NewDependency, then chain DependsOn and Cache as needed. The pointer
// identity of a Dependency is its cache and cycle-detection key.
type Dependency struct {
	name     string
	params   []Param
	provide  ProviderFunc
	useCache bool
}

// NewDependency wraps a provider function. The name is used in error
// messages and for named registration.
func NewDependency(name string, provide ProviderFunc) *Dependency {
	return &Dependency{name: name, provide: provide}
}

// Name returns the provider's display name.
func (d *Dependency) Name() string {
	return d.name
}

// DependsOn declares the provider's own inputs and returns the dependency
// for chaining.
func (d *Dependency) DependsOn(params ...Param) *Dependency {
	d.params = append(d.params, params...)
	return d
}

// Cache enables memoization of the provider's result.
func (d *Dependency) Cache() *Dependency {
	d.useCache = true
	return d
}

// Manager owns the named-provider registry and both memoization caches.
// Named results are cached by name, marker results by provider identity;
// the two caches never mix. Resolution is depth first and bottom up.
type Manager struct {
	mu          sync.Mutex
	named       map[string]*Dependency
	namedCache  map[string]any
	markerCache map[*Dependency]any
	flight      singleflight.Group
}

// NewManager creates an empty dependency manager.
func NewManager() *Manager {
	return &Manager{
		named:       make(map[string]*Dependency),
		namedCache:  make(map[string]any),
		markerCache: make(map[*Dependency]any),
	}
}

// Register binds a provider to a name so parameters with that name resolve
// through it. Re-registering a taken name is a wiring bug and panics.
func (m *Manager) Register(name string, dep *Dependency) {
	if dep == nil {
		panic(fmt.Sprintf("dependency: register called with nil provider for %q", name))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.named[name]; exists {
		panic(fmt.Sprintf("dependency: provider %q already registered", name))
	}
	m.named[name] = dep
}

// Registered reports whether a named provider exists.
func (m *Manager) Registered(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.named[name]
	return ok
}

// ClearCache drops all memoized results from both caches. Registered
// providers are kept.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namedCache = make(map[string]any)
	m.markerCache = make(map[*Dependency]any)
}

// resolveState tracks one top-level Resolve call. The in-progress set lives
// here so cycle detection never sees another request's resolution stack.
type resolveState struct {
	c          Context
	inProgress map[*Dependency]struct{}
}

// Resolve computes values for every dependency-backed parameter in params.
// Marker params resolve through their attached provider; plain params whose
// name matches a registered provider resolve through that. Everything else
// is left for the request parser.
func (m *Manager) Resolve(ctx context.Context, c Context, params []Param) (Values, error) {
	state := &resolveState{
		c:          c,
		inProgress: make(map[*Dependency]struct{}),
	}

	out := make(Values)
	for _, p := range params {
		switch p.Kind {
		case ParamDepends:
			v, err := m.resolveMarker(ctx, state, p.Dep)
			if err != nil {
				return nil, err
			}
			out[p.Name] = v
		case ParamField:
			m.mu.Lock()
			dep, ok := m.named[p.Name]
			m.mu.Unlock()
			if !ok {
				continue
			}
			v, err := m.resolveNamed(ctx, state, p.Name, dep)
			if err != nil {
				return nil, err
			}
			out[p.Name] = v
		}
	}
	return out, nil
}

func (m *Manager) resolveMarker(ctx context.Context, state *resolveState, dep *Dependency) (any, error) {
	if dep == nil {
		return nil, fmt.Errorf("dependency: marker param without provider")
	}
	if !dep.useCache {
		return m.build(ctx, state, dep)
	}

	// Re-entering the singleflight key of the call currently executing would
	// wait on itself forever, so cycles must be caught before flight.Do.
	if _, busy := state.inProgress[dep]; busy {
		return nil, &CircularDependencyError{Provider: dep.name}
	}

	m.mu.Lock()
	if v, ok := m.markerCache[dep]; ok {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	v, err, _ := m.flight.Do(fmt.Sprintf("marker:%p", dep), func() (any, error) {
		m.mu.Lock()
		if v, ok := m.markerCache[dep]; ok {
			m.mu.Unlock()
			return v, nil
		}
		m.mu.Unlock()

		v, err := m.build(ctx, state, dep)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.markerCache[dep] = v
		m.mu.Unlock()
		return v, nil
	})
	return v, err
}

func (m *Manager) resolveNamed(ctx context.Context, state *resolveState, name string, dep *Dependency) (any, error) {
	if !dep.useCache {
		return m.build(ctx, state, dep)
	}

	if _, busy := state.inProgress[dep]; busy {
		return nil, &CircularDependencyError{Provider: dep.name}
	}

	m.mu.Lock()
	if v, ok := m.namedCache[name]; ok {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	v, err, _ := m.flight.Do("named:"+name, func() (any, error) {
		m.mu.Lock()
		if v, ok := m.namedCache[name]; ok {
			m.mu.Unlock()
			return v, nil
		}
		m.mu.Unlock()

		v, err := m.build(ctx, state, dep)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.namedCache[name] = v
		m.mu.Unlock()
		return v, nil
	})
	return v, err
}

// build runs the provider after resolving its own params depth first. The
// in-progress marker is removed on every exit path so a failed resolution
// leaves no stale state behind.
func (m *Manager) build(ctx context.Context, state *resolveState, dep *Dependency) (any, error) {
	if _, busy := state.inProgress[dep]; busy {
		return nil, &CircularDependencyError{Provider: dep.name}
	}
	state.inProgress[dep] = struct{}{}
	defer delete(state.inProgress, dep)

	vals := make(Values)
	for _, p := range dep.params {
		switch p.Kind {
		case ParamRequest:
			vals[p.Name] = state.c
		case ParamDepends:
			v, err := m.resolveMarker(ctx, state, p.Dep)
			if err != nil {
				return nil, err
			}
			vals[p.Name] = v
		case ParamField:
			m.mu.Lock()
			sub, ok := m.named[p.Name]
			m.mu.Unlock()
			if ok {
				v, err := m.resolveNamed(ctx, state, p.Name, sub)
				if err != nil {
					return nil, err
				}
				vals[p.Name] = v
			} else if p.HasDefault {
				vals[p.Name] = p.Default
			}
		}
	}
	return dep.provide(ctx, NewParams(vals))
}
