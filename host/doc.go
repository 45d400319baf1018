// Package host runs contract entry points against an emulated host.
//
// An Executor owns a hostfuncs.Host and an immutable EntryPointRegistry. Each
// Call binds runtime arguments, runs one entry point through the registry's
// middleware chain and translates the way the contract ended (ret, revert or
// falling off the end) into a result. Entry points are either native Go
// functions written against ports.HostABI or exports of a WASM contract
// instantiated with wazero, whose casper_* imports are served by the same Host.
package host
