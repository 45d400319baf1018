// Package hostfuncs implements the emulated host in pure Go.
//
// A Host owns the global value store, the named-key directory, the runtime
// argument slot and the host buffer. Its methods are the host functions a
// contract calls; they have no WASM runtime dependency and are bound to guest
// memory separately by infrastructure/wazero.
//
// Recoverable failures are returned as errors that translate to ApiError
// status codes. Contract misuse the real host would trap on halts the run
// with an *errors.FatalError panic, and Ret and Revert end the invocation by
// panicking with *ReturnSignal and *errors.RevertError.
package hostfuncs
