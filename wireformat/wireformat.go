// Package wireformat implements the canonical byte encoding used for every value
// crossing the host/contract boundary: runtime arguments, stored values, keys and
// references. The encoding is stable and must round-trip exactly, since contracts
// compiled against the host ABI decode these bytes themselves.
//
// Integers are little-endian and fixed width. Strings and byte slices carry a u32
// length prefix. Big unsigned integers (U128, U256, U512) are encoded as a single
// length byte followed by the minimal little-endian magnitude.
package wireformat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

// Decoding failures. They map one-to-one onto host ABI status codes.
var (
	ErrEarlyEndOfStream = errors.New("wireformat: early end of stream")
	ErrFormatting       = errors.New("wireformat: formatting error")
	ErrLeftOverBytes    = errors.New("wireformat: left over bytes")
	ErrOutOfMemory      = errors.New("wireformat: value too large")
)

// Encoder appends canonical encodings to an internal buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder creates an Encoder with the given initial capacity.
func NewEncoder(capacity int) *Encoder {
	return &Encoder{buf: make([]byte, 0, capacity)}
}

// Bytes returns the encoded bytes. The slice aliases the encoder buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes encoded so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) Bool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
		return
	}
	e.buf = append(e.buf, 0)
}

func (e *Encoder) U8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) U32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) U64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *Encoder) I32(v int32) {
	e.U32(uint32(v)) //nolint:gosec // G115: two's complement reinterpretation is the encoding
}

func (e *Encoder) I64(v int64) {
	e.U64(uint64(v)) //nolint:gosec // G115: two's complement reinterpretation is the encoding
}

// Raw appends bytes without a length prefix.
func (e *Encoder) Raw(p []byte) {
	e.buf = append(e.buf, p...)
}

// LengthPrefixed appends a u32 length prefix followed by p.
// Panics with ErrOutOfMemory if p cannot be addressed by the length prefix.
func (e *Encoder) LengthPrefixed(p []byte) {
	if uint64(len(p)) > math.MaxUint32 {
		panic(ErrOutOfMemory)
	}
	e.U32(uint32(len(p)))
	e.Raw(p)
}

func (e *Encoder) String(s string) {
	e.LengthPrefixed([]byte(s))
}

// U256 appends the length-byte + minimal little-endian magnitude of v.
func (e *Encoder) U256(v *uint256.Int) {
	be := v.Bytes() // big-endian, no leading zeros
	e.magnitude(be)
}

// U128 encodes like U256; callers guarantee v fits in 128 bits.
func (e *Encoder) U128(v *uint256.Int) {
	e.U256(v)
}

// U512 appends v using the same length-prefixed magnitude scheme.
func (e *Encoder) U512(v *big.Int) {
	e.magnitude(v.Bytes())
}

func (e *Encoder) magnitude(be []byte) {
	e.U8(uint8(len(be))) //nolint:gosec // G115: at most 64 bytes for U512
	for i := len(be) - 1; i >= 0; i-- {
		e.buf = append(e.buf, be[i])
	}
}

// Decoder consumes canonical encodings from a byte slice.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder creates a Decoder over p. The decoder never modifies p.
func NewDecoder(p []byte) *Decoder {
	return &Decoder{buf: p}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

// Finish returns ErrLeftOverBytes if any input is unread.
func (d *Decoder) Finish() error {
	if d.Remaining() != 0 {
		return fmt.Errorf("%w: %d", ErrLeftOverBytes, d.Remaining())
	}
	return nil
}

// Raw consumes exactly n bytes and returns a copy of them.
func (d *Decoder) Raw(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, ErrEarlyEndOfStream
	}
	out := make([]byte, n)
	copy(out, d.buf[d.off:d.off+n])
	d.off += n
	return out, nil
}

func (d *Decoder) Bool() (bool, error) {
	b, err := d.U8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid bool byte %d", ErrFormatting, b)
	}
}

func (d *Decoder) U8() (uint8, error) {
	if d.Remaining() < 1 {
		return 0, ErrEarlyEndOfStream
	}
	v := d.buf[d.off]
	d.off++
	return v, nil
}

func (d *Decoder) U32() (uint32, error) {
	if d.Remaining() < 4 {
		return 0, ErrEarlyEndOfStream
	}
	v := binary.LittleEndian.Uint32(d.buf[d.off:])
	d.off += 4
	return v, nil
}

func (d *Decoder) U64() (uint64, error) {
	if d.Remaining() < 8 {
		return 0, ErrEarlyEndOfStream
	}
	v := binary.LittleEndian.Uint64(d.buf[d.off:])
	d.off += 8
	return v, nil
}

func (d *Decoder) I32() (int32, error) {
	v, err := d.U32()
	return int32(v), err //nolint:gosec // G115: two's complement reinterpretation
}

func (d *Decoder) I64() (int64, error) {
	v, err := d.U64()
	return int64(v), err //nolint:gosec // G115: two's complement reinterpretation
}

// LengthPrefixed consumes a u32 length and that many bytes.
func (d *Decoder) LengthPrefixed() ([]byte, error) {
	n, err := d.U32()
	if err != nil {
		return nil, err
	}
	return d.Raw(int(n))
}

// String consumes a length-prefixed UTF-8 string.
func (d *Decoder) String() (string, error) {
	p, err := d.LengthPrefixed()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", fmt.Errorf("%w: invalid utf-8", ErrFormatting)
	}
	return string(p), nil
}

// U256 consumes a magnitude of at most 32 bytes.
func (d *Decoder) U256() (*uint256.Int, error) {
	be, err := d.magnitude(32)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(be), nil
}

// U128 consumes a magnitude of at most 16 bytes.
func (d *Decoder) U128() (*uint256.Int, error) {
	be, err := d.magnitude(16)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(be), nil
}

// U512 consumes a magnitude of at most 64 bytes.
func (d *Decoder) U512() (*big.Int, error) {
	be, err := d.magnitude(64)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(be), nil
}

// magnitude reads a length byte and little-endian digits, returning big-endian bytes.
func (d *Decoder) magnitude(limit int) ([]byte, error) {
	n, err := d.U8()
	if err != nil {
		return nil, err
	}
	if int(n) > limit {
		return nil, fmt.Errorf("%w: %d byte magnitude exceeds %d", ErrFormatting, n, limit)
	}
	le, err := d.Raw(int(n))
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(le)-1; i < j; i, j = i+1, j-1 {
		le[i], le[j] = le[j], le[i]
	}
	return le, nil
}
