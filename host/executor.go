package host

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tetratelabs/wazero"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/hostfuncs"
	"github.com/casper-native/erc20-host/infrastructure/memstore"
	adapter "github.com/casper-native/erc20-host/infrastructure/wazero"
)

// ErrUnknownEntryPoint is returned by Call for names missing from the registry.
var ErrUnknownEntryPoint = stdErrors.New("unknown entry point")

// Executor runs entry points one at a time against a single Host.
type Executor struct {
	mu          sync.Mutex
	host        *hostfuncs.Host
	entryPoints *EntryPointRegistry
	logger      *slog.Logger

	wasmMu      sync.Mutex
	wasm        wazero.Runtime
	adapterOpts []adapter.AdapterOption
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...Option) (*Executor, error) {
	cfg := defaultExecutorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.config.Validate(); err != nil {
		return nil, err
	}
	hostOpts, err := cfg.config.hostOptions()
	if err != nil {
		return nil, err
	}
	hostOpts = append(hostOpts, hostfuncs.WithLogger(cfg.logger))
	if cfg.random != nil {
		hostOpts = append(hostOpts, hostfuncs.WithRandomSource(cfg.random))
	}

	if cfg.store == nil {
		cfg.store = memstore.New(memstore.WithLogger(cfg.logger))
	}

	if cfg.entryPoints == nil {
		reg, err := NewEntryPointRegistry()
		if err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
		cfg.entryPoints = reg
	}

	return &Executor{
		host:        hostfuncs.NewHost(cfg.store, hostOpts...),
		entryPoints: cfg.entryPoints,
		logger:      cfg.logger,
		adapterOpts: append([]adapter.AdapterOption{adapter.WithLogger(cfg.logger)}, cfg.adapterOpts...),
	}, nil
}

// Host returns the emulated host. It must not be used while a call is running.
func (e *Executor) Host() *hostfuncs.Host {
	return e.host
}

// EntryPoints returns the entry point registry.
func (e *Executor) EntryPoints() *EntryPointRegistry {
	return e.entryPoints
}

// Call runs the registered entry point name with args.
//
// It returns the value passed to ret, or nil when the entry point returned
// without calling it. A revert is reported as *errors.RevertError. Fatal
// errors are logged and re-raised as panics.
func (e *Executor) Call(ctx context.Context, name string, args *entities.RuntimeArgs) (*entities.CLValue, error) {
	ep, ok := e.entryPoints.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntryPoint, name)
	}
	return e.invoke(ctx, name, ep, args, nil)
}

// CallAs is Call with the invocation attributed to the account caller. The
// configured caller is restored afterwards.
func (e *Executor) CallAs(ctx context.Context, caller entities.Key, name string, args *entities.RuntimeArgs) (*entities.CLValue, error) {
	if caller.Tag() != entities.KeyTagAccount {
		return nil, fmt.Errorf("%w: caller must be an account, got %s", errors.ErrInvalidArgument, caller.Tag())
	}
	ep, ok := e.entryPoints.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntryPoint, name)
	}
	hash := caller.Addr()
	return e.invoke(ctx, name, ep, args, &hash)
}

// Invoke runs an entry point that is not in the registry, such as a WASM
// export, through the registry's middleware chain.
func (e *Executor) Invoke(ctx context.Context, name string, ep EntryPoint, args *entities.RuntimeArgs) (*entities.CLValue, error) {
	return e.invoke(ctx, name, e.entryPoints.Wrap(ep), args, nil)
}

func (e *Executor) invoke(ctx context.Context, name string, ep EntryPoint, args *entities.RuntimeArgs, caller *[entities.AddrLength]byte) (result *entities.CLValue, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != nil {
		previous := e.host.Caller().Addr()
		e.host.SetCaller(*caller)
		defer e.host.SetCaller(previous)
	}

	e.host.BindArgs(args)
	if err := e.host.Begin(); err != nil {
		return nil, err
	}

	defer func() {
		r := recover()
		switch sig := r.(type) {
		case nil:
			e.host.Complete()
		case *hostfuncs.ReturnSignal:
			v := sig.Value
			result = &v
			e.host.Complete()
		case *errors.RevertError:
			e.host.MarkReverted()
			err = sig
		default:
			e.host.MarkReverted()
			attrs := []any{"entry_point", name, "panic", r}
			if perr, ok := r.(error); ok {
				attrs = append(attrs, "detail", errors.ToErrorDetail(perr))
			}
			e.logger.ErrorContext(ctx, "fatal error in contract execution", attrs...)
			panic(r)
		}
	}()

	ep(NewCallContext(ctx, name), e.host)
	return nil, nil
}

// Reset clears all state held by the host, including the global value store.
func (e *Executor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.host.Reset()
}
