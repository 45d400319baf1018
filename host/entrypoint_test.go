package host

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
	"github.com/casper-native/erc20-host/host/registry"
)

func noop(context.Context, ports.HostABI) {}

func TestNewEntryPointRegistry(t *testing.T) {
	reg, err := NewEntryPointRegistry(
		WithEntryPoint("b", noop),
		WithBundle(BundleOf(map[string]EntryPoint{"a": noop, "c": noop})),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, reg.Names())
	assert.True(t, reg.Has("a"))
	assert.False(t, reg.Has("d"))
	assert.Nil(t, reg.Schemas())

	_, ok := reg.Lookup("c")
	assert.True(t, ok)
}

func TestNewEntryPointRegistry_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts []RegistryOption
		want string
	}{
		{"duplicate", []RegistryOption{WithEntryPoint("a", noop), WithEntryPoint("a", noop)}, "duplicate entry point name"},
		{"empty name", []RegistryOption{WithEntryPoint("", noop)}, "cannot be empty"},
		{"nil entry point", []RegistryOption{WithEntryPoint("a", nil)}, "is nil"},
		{"bundle clash", []RegistryOption{WithEntryPoint("a", noop), WithBundle(BundleOf(map[string]EntryPoint{"a": noop}))}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewEntryPointRegistry(tt.opts...)
			require.Error(t, err)
			assert.Nil(t, reg)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

type transferArgs struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type describedBundle struct{}

func (describedBundle) EntryPoints() map[string]EntryPoint {
	return map[string]EntryPoint{"transfer": noop}
}

func (describedBundle) ArgModels() map[string]any {
	return map[string]any{"transfer": transferArgs{}}
}

func TestNewEntryPointRegistry_Schemas(t *testing.T) {
	schemas := registry.NewRegistry()
	reg, err := NewEntryPointRegistry(
		WithSchemaRegistry(schemas),
		WithBundle(describedBundle{}),
		WithArgModel("mint", transferArgs{}),
	)
	require.NoError(t, err)
	assert.Same(t, schemas, reg.Schemas())
	assert.Equal(t, []string{"mint", "transfer"}, schemas.List())

	s, ok := schemas.GetSchema("transfer")
	require.True(t, ok)
	assert.Contains(t, s, `"recipient"`)

	// Registering the same models again hits the strict schema registry.
	_, err = NewEntryPointRegistry(WithSchemaRegistry(schemas), WithBundle(describedBundle{}))
	var schemaErr *errors.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next EntryPoint) EntryPoint {
			return func(ctx context.Context, api ports.HostABI) {
				order = append(order, name+">")
				next(ctx, api)
				order = append(order, "<"+name)
			}
		}
	}

	reg, err := NewEntryPointRegistry(
		WithMiddleware(tag("outer"), tag("inner")),
		WithEntryPoint("ep", func(context.Context, ports.HostABI) { order = append(order, "ep") }),
	)
	require.NoError(t, err)

	ep, _ := reg.Lookup("ep")
	ep(context.Background(), nil)
	assert.Equal(t, []string{"outer>", "inner>", "ep", "<inner", "<outer"}, order)
}

func TestRecoverMiddleware(t *testing.T) {
	tests := []struct {
		name  string
		panic any
		check func(t *testing.T, r any)
	}{
		{
			name:  "runtime error",
			panic: assert.AnError,
			check: func(t *testing.T, r any) {
				fatal, ok := r.(*errors.FatalError)
				require.True(t, ok)
				assert.ErrorIs(t, fatal, assert.AnError)
				assert.Equal(t, "contract", fatal.Op)
			},
		},
		{
			name:  "plain value",
			panic: "boom",
			check: func(t *testing.T, r any) {
				fatal, ok := r.(*errors.FatalError)
				require.True(t, ok)
				assert.Contains(t, fatal.Error(), "panic: boom")
			},
		},
		{
			name:  "revert passes through",
			panic: &errors.RevertError{Code: errors.User(1)},
			check: func(t *testing.T, r any) {
				assert.Equal(t, &errors.RevertError{Code: errors.User(1)}, r)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := RecoverMiddleware()(func(context.Context, ports.HostABI) { panic(tt.panic) })
			defer func() { tt.check(t, recover()) }()
			ep(context.Background(), nil)
		})
	}

	ep := RecoverMiddleware()(noop)
	assert.NotPanics(t, func() { ep(context.Background(), nil) })
}

func TestLoggingMiddleware(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ep := LoggingMiddleware(logger)(func(_ context.Context, api ports.HostABI) {
		api.Revert(errors.User(5))
	})
	assert.Panics(t, func() {
		ep(NewCallContext(context.Background(), "fail"), revertingHost{})
	})
	out := logs.String()
	assert.Contains(t, out, "entry_point=fail")
	assert.Contains(t, out, "outcome=reverted")
	assert.Contains(t, out, "code=65541")

	logs.Reset()
	halting := LoggingMiddleware(logger)(func(context.Context, ports.HostABI) { panic("boom") })
	assert.Panics(t, func() { halting(context.Background(), nil) })
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "entry_point=unknown")
}

// revertingHost implements only Revert; other calls panic on the nil interface.
type revertingHost struct {
	ports.HostABI
}

func (revertingHost) Revert(code errors.ApiError) {
	panic(&errors.RevertError{Code: code})
}

func TestCallContext(t *testing.T) {
	cc := NewCallContext(context.Background(), "transfer")
	assert.Equal(t, "transfer", cc.EntryPoint())

	cc.SetValue("k", 1)
	v, ok := cc.GetValue("k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = cc.GetValue("missing")
	assert.False(t, ok)

	assert.Same(t, cc, CallContextFrom(cc, "other"))
	assert.Equal(t, "other", CallContextFrom(context.Background(), "other").EntryPoint())
}

func TestCompose(t *testing.T) {
	var hit string
	first := BundleOf(map[string]EntryPoint{"a": noop, "b": noop})
	second := BundleOf(map[string]EntryPoint{"b": func(context.Context, ports.HostABI) { hit = "second" }})

	eps := Compose(first, second).EntryPoints()
	assert.Len(t, eps, 2)
	eps["b"](context.Background(), nil)
	assert.Equal(t, "second", hit)
}
