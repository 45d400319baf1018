package wazero

import (
	"fmt"

	"github.com/casper-native/erc20-host/domain/errors"
)

// GuestMemory is the part of api.Memory the imports need. Method names and
// signatures follow api.Memory, so WriteByte is not io.ByteWriter.
type GuestMemory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
	WriteByte(offset uint32, v byte) bool //nolint:stdmethods // mirrors api.Memory
	WriteUint32Le(offset, v uint32) bool
	WriteUint64Le(offset uint32, v uint64) bool
}

// errOutOfBounds reports a guest pointer outside linear memory.
var errOutOfBounds = fmt.Errorf("guest memory access out of bounds")

// guest wraps GuestMemory with the request limit. Every failure is a contract
// defect and halts the run.
type guest struct {
	mem            GuestMemory
	op             string
	maxRequestSize uint32
}

// checkSize halts when a guest-supplied size exceeds the request limit.
func (g guest) checkSize(size uint32) {
	if size > g.maxRequestSize {
		errors.Fatal(g.op, &errors.MemoryError{Requested: int(size), Limit: int(g.maxRequestSize)})
	}
}

// read copies size bytes at ptr out of guest memory.
func (g guest) read(ptr, size uint32) []byte {
	g.checkSize(size)
	if size == 0 {
		return []byte{}
	}
	view, ok := g.mem.Read(ptr, size)
	if !ok {
		errors.Fatal(g.op, fmt.Errorf("%w: read %d bytes at %#x", errOutOfBounds, size, ptr))
	}
	out := make([]byte, size)
	copy(out, view)
	return out
}

func (g guest) write(ptr uint32, p []byte) {
	if len(p) == 0 {
		return
	}
	if !g.mem.Write(ptr, p) {
		errors.Fatal(g.op, fmt.Errorf("%w: write %d bytes at %#x", errOutOfBounds, len(p), ptr))
	}
}

func (g guest) writeU8(ptr uint32, v uint8) {
	if !g.mem.WriteByte(ptr, v) {
		errors.Fatal(g.op, fmt.Errorf("%w: write u8 at %#x", errOutOfBounds, ptr))
	}
}

// writeSize stores a usize, which is 32 bits wide on wasm32.
func (g guest) writeSize(ptr uint32, v int) {
	if !g.mem.WriteUint32Le(ptr, uint32(v)) { //nolint:gosec // G115: sizes are bounded by the host buffer limit
		errors.Fatal(g.op, fmt.Errorf("%w: write usize at %#x", errOutOfBounds, ptr))
	}
}

func (g guest) writeU64(ptr uint32, v uint64) {
	if !g.mem.WriteUint64Le(ptr, v) {
		errors.Fatal(g.op, fmt.Errorf("%w: write u64 at %#x", errOutOfBounds, ptr))
	}
}
