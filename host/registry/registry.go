// Package registry stores JSON schemas for the named arguments accepted by
// contract entry points.
package registry

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
)

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	strictMode bool // Fail on duplicate registrations
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		strictMode: true,
	}
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithStrictMode enables/disables strict mode for duplicate registrations.
// Default is true (fail on duplicates).
func WithStrictMode(enabled bool) RegistryOption {
	return func(c *registryConfig) {
		c.strictMode = enabled
	}
}

// Registry implements ports.SchemaRegistry.
type Registry struct {
	config    registryConfig
	reflector *jsonschema.Reflector
	schemas   sync.Map // map[string]string (json schema)
}

var _ ports.SchemaRegistry = (*Registry)(nil)

// NewRegistry creates a new Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{
		config: cfg,
		reflector: &jsonschema.Reflector{
			ExpandedStruct:            true,
			DoNotReference:            true,
			AllowAdditionalProperties: false,
		},
	}
}

// Register adds a schema generated from a Go struct.
func (r *Registry) Register(entryPoint string, model any) error {
	if entryPoint == "" {
		return &errors.SchemaError{Err: fmt.Errorf("entry point name cannot be empty")}
	}
	if r.config.strictMode {
		if _, exists := r.schemas.Load(entryPoint); exists {
			return &errors.SchemaError{Type: entryPoint, Err: fmt.Errorf("entry point %q already registered", entryPoint)}
		}
	}

	s := r.reflector.Reflect(model)
	s.Title = entryPoint
	data, err := json.Marshal(s)
	if err != nil {
		return &errors.SchemaError{Type: entryPoint, Err: fmt.Errorf("failed to marshal schema: %w", err)}
	}
	r.schemas.Store(entryPoint, string(data))
	return nil
}

// GetSchema retrieves the JSON Schema for an entry point.
func (r *Registry) GetSchema(entryPoint string) (string, bool) {
	v, ok := r.schemas.Load(entryPoint)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// List returns all registered entry point names.
func (r *Registry) List() []string {
	var keys []string
	r.schemas.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}
