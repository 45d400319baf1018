package wazero

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

// contextKey is a private type for context keys.
type contextKey struct {
	name string
}

var contractNameKey = &contextKey{name: "contract_name"}

// WithContractName adds the contract name to the context. It is attached to
// log records emitted while serving that contract's host calls.
func WithContractName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, contractNameKey, name)
}

// ContractNameFromContext retrieves the contract name from the context.
func ContractNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(contractNameKey).(string)
	return name, ok
}

// GetContractName extracts the contract name from context, falling back to the module name.
func GetContractName(ctx context.Context, mod api.Module) string {
	if name, ok := ContractNameFromContext(ctx); ok {
		return name
	}
	return mod.Name()
}
