package host

import (
	"context"
)

// CallContext wraps a standard context.Context with invocation-specific helpers.
// It lets middleware store request-scoped values without polluting the
// standard context.
type CallContext interface {
	context.Context

	// EntryPoint returns the name of the entry point being invoked.
	EntryPoint() string

	// SetValue stores a request-scoped value. Unlike context.WithValue,
	// this mutates the existing CallContext.
	SetValue(key, value any)

	// GetValue retrieves a request-scoped value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

type callContext struct {
	context.Context
	values     map[any]any
	entryPoint string
}

// NewCallContext creates a new CallContext wrapping the given context.
func NewCallContext(ctx context.Context, entryPoint string) CallContext {
	return &callContext{
		Context:    ctx,
		entryPoint: entryPoint,
		values:     make(map[any]any),
	}
}

func (c *callContext) EntryPoint() string {
	return c.entryPoint
}

func (c *callContext) SetValue(key, value any) {
	c.values[key] = value
}

func (c *callContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// CallContextFrom extracts a CallContext from a context.Context.
// If the context is already a CallContext, it is returned directly.
func CallContextFrom(ctx context.Context, entryPoint string) CallContext {
	if cc, ok := ctx.(CallContext); ok {
		return cc
	}
	return NewCallContext(ctx, entryPoint)
}
