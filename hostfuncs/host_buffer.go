package hostfuncs

import (
	"bytes"

	"github.com/casper-native/erc20-host/domain/errors"
)

// DefaultMaxHostBufferSize is the default limit for a single pending result (1MB).
// Prevents a runaway contract from parking arbitrarily large values on the host.
const DefaultMaxHostBufferSize = 1 * 1024 * 1024

// HostBuffer is the single-slot, consume-once channel for results that do not
// fit a fixed-size output parameter.
type HostBuffer struct {
	data  []byte
	full  bool
	limit int
}

// NewHostBuffer creates an empty HostBuffer holding at most limit bytes.
func NewHostBuffer(limit int) *HostBuffer {
	return &HostBuffer{limit: limit}
}

// Write replaces the slot contents with a copy of p.
// Returns a MemoryError, leaving the slot untouched, if p exceeds the limit.
func (b *HostBuffer) Write(p []byte) error {
	if len(p) > b.limit {
		return &errors.MemoryError{Requested: len(p), Limit: b.limit}
	}
	b.data = bytes.Clone(p)
	b.full = true
	return nil
}

// Len returns the size of the pending value, or zero when empty.
func (b *HostBuffer) Len() int {
	return len(b.data)
}

// Full reports whether a value is pending.
func (b *HostBuffer) Full() bool {
	return b.full
}

// Read copies the pending value into dest and clears the slot.
// An empty slot copies nothing and reports zero bytes. A destination shorter
// than the pending value fails with ErrBufferTooSmall and keeps the value.
func (b *HostBuffer) Read(dest []byte) (int, error) {
	if !b.full {
		return 0, nil
	}
	if len(dest) < len(b.data) {
		return 0, errors.ErrBufferTooSmall
	}
	n := copy(dest, b.data)
	b.Reset()
	return n, nil
}

// Reset empties the slot.
func (b *HostBuffer) Reset() {
	b.data = nil
	b.full = false
}
