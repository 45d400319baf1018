// Package wazero serves the emulated host functions to WebAssembly contracts
// running in the wazero runtime.
//
// Contracts import their host functions from the "env" module using the
// casper_* names and pointer+length signatures of the host ABI. This package
// builds that module on top of a Host, copying arguments out of guest memory
// and results back into it. Status-returning functions report ApiError codes;
// ret, revert and fatal errors unwind the guest as Go panics that wazero
// surfaces as the error of the exported function call.
//
// # Basic Usage
//
//	h := hostfuncs.NewHost(memstore.New())
//	runtime := wazero.NewRuntime(ctx)
//	err := adapter.RegisterWithRuntime(ctx, runtime, h,
//	    adapter.WithMaxRequestSize(64*1024),
//	)
//
// # Custom Handlers
//
// Additional imports can be exported from the same module with WithCustomHandler.
package wazero
