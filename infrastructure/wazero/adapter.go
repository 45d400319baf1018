package wazero

import (
	"context"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// DefaultModuleName is the import module contracts link their host functions from.
const DefaultModuleName = "env"

// DefaultMaxRequestSize limits a single value read out of guest memory (1MB).
const DefaultMaxRequestSize = 1 * 1024 * 1024

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// Logger receives a debug record for every host call.
	Logger *slog.Logger

	// ModuleName is the host module name (default: "env").
	ModuleName string

	// CustomHandlers allows adding additional wazero-specific handlers to
	// the same module.
	CustomHandlers []CustomHandler

	// MaxRequestSize limits the size of incoming values from guest memory.
	// Default is 1MB.
	MaxRequestSize uint32

	// TraceCalls enables the per-call debug record.
	TraceCalls bool
}

// CustomHandler represents an extra import with a hand-written implementation.
type CustomHandler struct {
	// Handler is the wazero GoModuleFunc implementation.
	Handler api.GoModuleFunc

	// Name is the exported function name.
	Name string

	// ParamTypes are the WASM parameter types.
	ParamTypes []api.ValueType

	// ResultTypes are the WASM result types.
	ResultTypes []api.ValueType
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name (default: "env").
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithMaxRequestSize sets the maximum request size from guest memory.
func WithMaxRequestSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxRequestSize = size
	}
}

// WithCustomHandler adds a custom wazero handler.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

// WithLogger sets the logger used for call traces.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		c.Logger = logger
	}
}

// WithTraceCalls logs every host call at debug level.
func WithTraceCalls(enabled bool) AdapterOption {
	return func(c *AdapterConfig) {
		c.TraceCalls = enabled
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName:     DefaultModuleName,
		MaxRequestSize: DefaultMaxRequestSize,
		Logger:         slog.Default(),
	}
}

// RegisterWithRuntime builds the host module exporting every casper_* function
// served by h, plus any custom handlers, and instantiates it in runtime.
//
// Example:
//
//	h := hostfuncs.NewHost(memstore.New())
//	err := wazero.RegisterWithRuntime(ctx, runtime, h)
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, h Host, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)
	im := &imports{host: h}

	for _, f := range im.table() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(bind(f, cfg), i32s(f.params), resultTypes(f.hasResult)).
			Export(f.name)
	}

	for _, ch := range cfg.CustomHandlers {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	_, err := builder.Instantiate(ctx)
	return err
}

// bind adapts an importFunc to the wazero stack calling convention.
func bind(f importFunc, cfg AdapterConfig) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		if cfg.TraceCalls {
			cfg.Logger.DebugContext(ctx, "wazero: host call", "function", f.name, "contract", GetContractName(ctx, mod))
		}
		args := make([]uint32, f.params)
		for i := range args {
			args[i] = api.DecodeU32(stack[i])
		}
		g := guest{mem: mod.Memory(), op: f.name, maxRequestSize: cfg.MaxRequestSize}
		result := f.fn(g, args)
		if f.hasResult {
			stack[0] = api.EncodeI32(result)
		}
	}
}

func i32s(n int) []api.ValueType {
	types := make([]api.ValueType, n)
	for i := range types {
		types[i] = api.ValueTypeI32
	}
	return types
}

func resultTypes(hasResult bool) []api.ValueType {
	if hasResult {
		return []api.ValueType{api.ValueTypeI32}
	}
	return []api.ValueType{}
}
