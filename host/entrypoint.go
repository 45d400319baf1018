package host

import (
	"context"
	"fmt"
	"sort"

	"github.com/casper-native/erc20-host/domain/ports"
)

// EntryPoint is contract code invoked by name. It talks to the host only
// through api and ends by returning normally, calling api.Ret or calling
// api.Revert.
type EntryPoint func(ctx context.Context, api ports.HostABI)

// EntryPointRegistry is an immutable collection of named entry points.
// Once created via NewEntryPointRegistry, entry points cannot be added or removed.
type EntryPointRegistry struct {
	entryPoints map[string]EntryPoint
	names       []string // sorted for consistent iteration
	middleware  []Middleware
	schemas     ports.SchemaRegistry
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	entryPoints map[string]EntryPoint
	middleware  []Middleware
	schemas     ports.SchemaRegistry
	argModels   map[string]any
	errors      []error
}

// RegistryOption is a functional option for configuring an EntryPointRegistry.
type RegistryOption func(*registryBuilder)

// NewEntryPointRegistry creates an immutable EntryPointRegistry.
// Returns an error if any entry point name is registered twice.
//
// Example usage:
//
//	reg, err := NewEntryPointRegistry(
//	    WithMiddleware(RecoverMiddleware(), LoggingMiddleware(logger)),
//	    WithBundle(erc20.Bundle()),
//	)
func NewEntryPointRegistry(opts ...RegistryOption) (*EntryPointRegistry, error) {
	b := &registryBuilder{
		entryPoints: make(map[string]EntryPoint),
		argModels:   make(map[string]any),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	if b.schemas != nil {
		for _, name := range sortedKeys(b.argModels) {
			if err := b.schemas.Register(name, b.argModels[name]); err != nil {
				return nil, fmt.Errorf("failed to register argument schema: %w", err)
			}
		}
	}

	r := &EntryPointRegistry{
		entryPoints: make(map[string]EntryPoint, len(b.entryPoints)),
		names:       sortedKeys(b.entryPoints),
		middleware:  b.middleware,
		schemas:     b.schemas,
	}
	for name, ep := range b.entryPoints {
		r.entryPoints[name] = r.Wrap(ep)
	}
	return r, nil
}

// Wrap applies the registry's middleware chain to ep. First middleware wraps outermost.
func (r *EntryPointRegistry) Wrap(ep EntryPoint) EntryPoint {
	wrapped := ep
	for i := len(r.middleware) - 1; i >= 0; i-- {
		wrapped = r.middleware[i](wrapped)
	}
	return wrapped
}

// Lookup returns the wrapped entry point registered under name.
func (r *EntryPointRegistry) Lookup(name string) (EntryPoint, bool) {
	ep, ok := r.entryPoints[name]
	return ep, ok
}

// Has returns true if an entry point with the given name is registered.
func (r *EntryPointRegistry) Has(name string) bool {
	_, ok := r.entryPoints[name]
	return ok
}

// Names returns a sorted list of all registered entry point names.
func (r *EntryPointRegistry) Names() []string {
	result := make([]string, len(r.names))
	copy(result, r.names)
	return result
}

// Schemas returns the argument schema registry, or nil when none was configured.
func (r *EntryPointRegistry) Schemas() ports.SchemaRegistry {
	return r.schemas
}

func (b *registryBuilder) addEntryPoint(name string, ep EntryPoint) error {
	if name == "" {
		return fmt.Errorf("entry point name cannot be empty")
	}
	if ep == nil {
		return fmt.Errorf("entry point %q is nil", name)
	}
	if _, exists := b.entryPoints[name]; exists {
		return fmt.Errorf("duplicate entry point name: %q", name)
	}
	b.entryPoints[name] = ep
	return nil
}

// WithEntryPoint registers a single entry point.
func WithEntryPoint(name string, ep EntryPoint) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addEntryPoint(name, ep); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithBundle registers all entry points from a bundle. Bundles that also
// implement ArgDescriber contribute argument schemas.
func WithBundle(bundle Bundle) RegistryOption {
	return func(b *registryBuilder) {
		for name, ep := range bundle.EntryPoints() {
			if err := b.addEntryPoint(name, ep); err != nil {
				b.errors = append(b.errors, err)
			}
		}
		if d, ok := bundle.(ArgDescriber); ok {
			for name, model := range d.ArgModels() {
				b.argModels[name] = model
			}
		}
	}
}

// WithArgModel describes the named arguments of an entry point with a Go
// struct. The struct is reflected into a JSON schema when a schema registry is set.
func WithArgModel(name string, model any) RegistryOption {
	return func(b *registryBuilder) {
		b.argModels[name] = model
	}
}

// WithSchemaRegistry sets where argument schemas are recorded.
func WithSchemaRegistry(schemas ports.SchemaRegistry) RegistryOption {
	return func(b *registryBuilder) {
		b.schemas = schemas
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}

// ArgDescriber is implemented by bundles that publish argument models.
type ArgDescriber interface {
	ArgModels() map[string]any
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
