package entities

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/casper-native/erc20-host/wireformat"
)

var (
	// ErrTypeMismatch is returned when a CLValue is read or merged as the wrong type.
	ErrTypeMismatch = errors.New("cl type mismatch")

	// ErrUnsupportedType is returned for Go values with no CLType mapping.
	ErrUnsupportedType = errors.New("unsupported go type for cl value")
)

// CLValue is a self-describing value: its canonical inner bytes plus the CLType
// needed to interpret them. It is the unit stored in global state and passed as
// a named argument.
type CLValue struct {
	typ   CLType
	inner []byte
}

// NewCLValue builds a CLValue from pre-encoded inner bytes. The bytes are copied.
func NewCLValue(typ CLType, inner []byte) CLValue {
	return CLValue{typ: typ, inner: bytes.Clone(inner)}
}

// Unit is the value of type Unit.
var Unit = CLValue{typ: Simple(CLTypeUnit), inner: []byte{}}

// Type returns the CLType of v.
func (v CLValue) Type() CLType {
	return v.typ
}

// InnerBytes returns a copy of the serialized value without its type.
func (v CLValue) InnerBytes() []byte {
	return bytes.Clone(v.inner)
}

// InnerLen returns the length of the serialized value without its type.
func (v CLValue) InnerLen() int {
	return len(v.inner)
}

// Equal reports whether both type and bytes are identical.
func (v CLValue) Equal(other CLValue) bool {
	return v.typ.Equal(other.typ) && bytes.Equal(v.inner, other.inner)
}

// Encode appends the full encoding: length-prefixed inner bytes then the type.
func (v CLValue) Encode(enc *wireformat.Encoder) {
	enc.LengthPrefixed(v.inner)
	v.typ.Encode(enc)
}

// Bytes returns the full canonical encoding of v.
func (v CLValue) Bytes() []byte {
	enc := wireformat.NewEncoder(len(v.inner) + 8)
	v.Encode(enc)
	return enc.Bytes()
}

// DecodeCLValue consumes a CLValue from dec.
func DecodeCLValue(dec *wireformat.Decoder) (CLValue, error) {
	inner, err := dec.LengthPrefixed()
	if err != nil {
		return CLValue{}, err
	}
	typ, err := DecodeCLType(dec)
	if err != nil {
		return CLValue{}, err
	}
	return CLValue{typ: typ, inner: inner}, nil
}

// CLValueFromBytes decodes a CLValue that must occupy all of p.
func CLValueFromBytes(p []byte) (CLValue, error) {
	dec := wireformat.NewDecoder(p)
	v, err := DecodeCLValue(dec)
	if err != nil {
		return CLValue{}, err
	}
	return v, dec.Finish()
}

// CLValueU128 wraps a 128-bit unsigned integer. Values wider than 128 bits are rejected.
func CLValueU128(x *uint256.Int) (CLValue, error) {
	if x.BitLen() > 128 {
		return CLValue{}, fmt.Errorf("%w: value exceeds 128 bits", ErrUnsupportedType)
	}
	enc := wireformat.NewEncoder(17)
	enc.U128(x)
	return CLValue{typ: Simple(CLTypeU128), inner: enc.Bytes()}, nil
}

// CLValueFrom converts a Go value into a CLValue.
//
// Supported types: bool, int32, int64, uint8, uint32, uint64, string,
// *uint256.Int (U256), *big.Int (U512, non-negative), Key, URef, struct{} (Unit),
// []byte (List<U8>) and []string (List<String>).
func CLValueFrom(x any) (CLValue, error) {
	enc := wireformat.NewEncoder(16)
	var typ CLType
	switch t := x.(type) {
	case CLValue:
		return t, nil
	case bool:
		typ = Simple(CLTypeBool)
		enc.Bool(t)
	case int32:
		typ = Simple(CLTypeI32)
		enc.I32(t)
	case int64:
		typ = Simple(CLTypeI64)
		enc.I64(t)
	case uint8:
		typ = Simple(CLTypeU8)
		enc.U8(t)
	case uint32:
		typ = Simple(CLTypeU32)
		enc.U32(t)
	case uint64:
		typ = Simple(CLTypeU64)
		enc.U64(t)
	case string:
		typ = Simple(CLTypeString)
		enc.String(t)
	case *uint256.Int:
		if t == nil {
			return CLValue{}, fmt.Errorf("%w: nil *uint256.Int", ErrUnsupportedType)
		}
		typ = Simple(CLTypeU256)
		enc.U256(t)
	case *big.Int:
		if t == nil || t.Sign() < 0 || t.BitLen() > 512 {
			return CLValue{}, fmt.Errorf("%w: U512 must be non-negative and fit 512 bits", ErrUnsupportedType)
		}
		typ = Simple(CLTypeU512)
		enc.U512(t)
	case Key:
		typ = Simple(CLTypeKey)
		t.Encode(enc)
	case URef:
		typ = Simple(CLTypeURef)
		t.Encode(enc)
	case struct{}:
		return Unit, nil
	case []byte:
		typ = ListOf(Simple(CLTypeU8))
		enc.LengthPrefixed(t)
	case []string:
		typ = ListOf(Simple(CLTypeString))
		enc.U32(uint32(len(t))) //nolint:gosec // G115: slice length bounded by memory
		for _, s := range t {
			enc.String(s)
		}
	default:
		return CLValue{}, fmt.Errorf("%w: %T", ErrUnsupportedType, x)
	}
	return CLValue{typ: typ, inner: enc.Bytes()}, nil
}

// MustCLValue is like CLValueFrom but panics on unsupported types.
// It is meant for literals in tests and argument construction.
func MustCLValue(x any) CLValue {
	v, err := CLValueFrom(x)
	if err != nil {
		panic(err)
	}
	return v
}

// Into decodes v into the value pointed to by target. The pointee type must
// match the CLType of v exactly, otherwise ErrTypeMismatch is returned.
func (v CLValue) Into(target any) error {
	dec := wireformat.NewDecoder(v.inner)
	var want CLType
	var err error
	switch t := target.(type) {
	case *bool:
		want = Simple(CLTypeBool)
		if v.typ.Equal(want) {
			*t, err = dec.Bool()
		}
	case *int32:
		want = Simple(CLTypeI32)
		if v.typ.Equal(want) {
			*t, err = dec.I32()
		}
	case *int64:
		want = Simple(CLTypeI64)
		if v.typ.Equal(want) {
			*t, err = dec.I64()
		}
	case *uint8:
		want = Simple(CLTypeU8)
		if v.typ.Equal(want) {
			*t, err = dec.U8()
		}
	case *uint32:
		want = Simple(CLTypeU32)
		if v.typ.Equal(want) {
			*t, err = dec.U32()
		}
	case *uint64:
		want = Simple(CLTypeU64)
		if v.typ.Equal(want) {
			*t, err = dec.U64()
		}
	case *string:
		want = Simple(CLTypeString)
		if v.typ.Equal(want) {
			*t, err = dec.String()
		}
	case **uint256.Int:
		want = Simple(CLTypeU256)
		if v.typ.Tag == CLTypeU128 {
			want = v.typ
			*t, err = dec.U128()
		} else if v.typ.Equal(want) {
			*t, err = dec.U256()
		}
	case **big.Int:
		want = Simple(CLTypeU512)
		if v.typ.Equal(want) {
			*t, err = dec.U512()
		}
	case *Key:
		want = Simple(CLTypeKey)
		if v.typ.Equal(want) {
			*t, err = DecodeKey(dec)
		}
	case *URef:
		want = Simple(CLTypeURef)
		if v.typ.Equal(want) {
			*t, err = DecodeURef(dec)
		}
	case *struct{}:
		want = Simple(CLTypeUnit)
	case *[]byte:
		want = ListOf(Simple(CLTypeU8))
		if v.typ.Tag == CLTypeByteArray {
			want = v.typ
			*t, err = dec.Raw(int(v.typ.Size))
		} else if v.typ.Equal(want) {
			*t, err = dec.LengthPrefixed()
		}
	case *[]string:
		want = ListOf(Simple(CLTypeString))
		if v.typ.Equal(want) {
			*t, err = decodeStrings(dec)
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, target)
	}
	if !v.typ.Equal(want) {
		return fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, v.typ, want)
	}
	if err != nil {
		return err
	}
	return dec.Finish()
}

func decodeStrings(dec *wireformat.Decoder) ([]string, error) {
	n, err := dec.U32()
	if err != nil {
		return nil, err
	}
	if int(n) > dec.Remaining()/4 {
		return nil, wireformat.ErrEarlyEndOfStream
	}
	out := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		s, err := dec.String()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (v CLValue) String() string {
	return fmt.Sprintf("CLValue(%s, %x)", v.typ, v.inner)
}
