package ports

import "github.com/casper-native/erc20-host/domain/entities"

// GlobalStore is the key/value table standing in for durable chain state.
// Implementations address URef keys by their normalized form so the rights
// carried by a reference never split one value into several entries.
type GlobalStore interface {
	// Read returns the value stored under key, or errors.ErrValueNotFound.
	Read(key entities.Key) (entities.CLValue, error)

	// Write replaces the value under key, creating the entry if absent.
	Write(key entities.Key, value entities.CLValue)

	// Add merges value into the stored one using CLValue.Add. On failure the
	// stored value is unchanged.
	Add(key entities.Key, value entities.CLValue) error

	// Contains reports whether key has an entry.
	Contains(key entities.Key) bool

	// Keys returns every stored key in canonical order.
	Keys() []entities.Key

	// Len returns the number of entries.
	Len() int

	// Reset drops every entry.
	Reset()
}
