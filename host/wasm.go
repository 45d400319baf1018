package host

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
	"github.com/casper-native/erc20-host/hostfuncs"
	adapter "github.com/casper-native/erc20-host/infrastructure/wazero"
)

// Contract is an instantiated WASM contract whose casper_* imports are served
// by the executor's host.
type Contract struct {
	name   string
	module api.Module
}

// runtime returns the executor's wazero runtime, creating it and the host
// module on first use.
func (e *Executor) runtime(ctx context.Context) (wazero.Runtime, error) {
	e.wasmMu.Lock()
	defer e.wasmMu.Unlock()
	if e.wasm != nil {
		return e.wasm, nil
	}

	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	if err := adapter.RegisterWithRuntime(ctx, rt, e.host, e.adapterOpts...); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}
	e.wasm = rt
	return rt, nil
}

// LoadContract instantiates a WASM contract under name.
func (e *Executor) LoadContract(ctx context.Context, name string, wasmBytes []byte) (*Contract, error) {
	rt, err := e.runtime(ctx)
	if err != nil {
		return nil, err
	}
	mod, err := rt.InstantiateWithConfig(ctx, wasmBytes, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate contract %q: %w", name, err)
	}
	return &Contract{name: name, module: mod}, nil
}

// CallContract runs the export entryPoint of c with args.
func (e *Executor) CallContract(ctx context.Context, c *Contract, entryPoint string, args *entities.RuntimeArgs) (*entities.CLValue, error) {
	return e.Invoke(ctx, entryPoint, c.EntryPoint(entryPoint), args)
}

// Close releases the wazero runtime, if one was created.
func (e *Executor) Close(ctx context.Context) error {
	e.wasmMu.Lock()
	defer e.wasmMu.Unlock()
	if e.wasm == nil {
		return nil
	}
	err := e.wasm.Close(ctx)
	e.wasm = nil
	return err
}

// Name returns the name the contract was loaded under.
func (c *Contract) Name() string {
	return c.name
}

// EntryPoints returns the exports callable as entry points: functions with
// no parameters and no results.
func (c *Contract) EntryPoints() []string {
	var names []string
	for name, def := range c.module.ExportedFunctionDefinitions() {
		if len(def.ParamTypes()) == 0 && len(def.ResultTypes()) == 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Bundle exposes every entry point of c for registration.
func (c *Contract) Bundle() Bundle {
	eps := make(map[string]EntryPoint)
	for _, name := range c.EntryPoints() {
		eps[name] = c.EntryPoint(name)
	}
	return BundleOf(eps)
}

// EntryPoint adapts the export to an EntryPoint. The api argument is unused:
// the guest reaches the host through its imports.
func (c *Contract) EntryPoint(export string) EntryPoint {
	return func(ctx context.Context, _ ports.HostABI) {
		f := c.module.ExportedFunction(export)
		if f == nil {
			errors.Fatal(export, fmt.Errorf("contract %q has no export %q", c.name, export))
		}
		if _, err := f.Call(adapter.WithContractName(ctx, c.name)); err != nil {
			rethrow(export, err)
		}
	}
}

// rethrow restores the control-flow panic that wazero turned into an error
// while unwinding the guest. Traps become FatalErrors.
func rethrow(op string, err error) {
	var ret *hostfuncs.ReturnSignal
	var rev *errors.RevertError
	var fatal *errors.FatalError
	switch {
	case stdErrors.As(err, &ret):
		panic(ret)
	case stdErrors.As(err, &rev):
		panic(rev)
	case stdErrors.As(err, &fatal):
		panic(fatal)
	default:
		panic(&errors.FatalError{Op: op, Err: err})
	}
}
