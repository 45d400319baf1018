package ports

// SchemaRegistry manages JSON schemas describing the named arguments of
// contract entry points.
type SchemaRegistry interface {
	// Register adds a schema generated from a Go struct describing the
	// arguments of entryPoint.
	Register(entryPoint string, model any) error

	// GetSchema retrieves the JSON Schema for an entry point.
	GetSchema(entryPoint string) (string, bool)

	// List returns all registered entry point names in sorted order.
	List() []string
}
