// Package ports defines the interfaces between contract code, the host and
// its storage. Contracts depend on HostABI; the host depends on GlobalStore.
package ports
