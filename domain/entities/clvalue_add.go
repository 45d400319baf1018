package entities

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/casper-native/erc20-host/wireformat"
)

var (
	mod128 = new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	mod512 = new(big.Int).Lsh(big.NewInt(1), 512)
)

// Add merges delta into v and returns the result. Both values must share the
// same numeric CLType; integers wrap on overflow. Non-numeric or differing
// types fail with ErrTypeMismatch and v is left untouched.
func (v CLValue) Add(delta CLValue) (CLValue, error) {
	if !v.typ.Equal(delta.typ) {
		return CLValue{}, fmt.Errorf("%w: cannot add %s to %s", ErrTypeMismatch, delta.typ, v.typ)
	}
	a := wireformat.NewDecoder(v.inner)
	b := wireformat.NewDecoder(delta.inner)
	enc := wireformat.NewEncoder(len(v.inner))

	switch v.typ.Tag {
	case CLTypeI32:
		x, y, err := decodePair(a, b, (*wireformat.Decoder).I32)
		if err != nil {
			return CLValue{}, err
		}
		enc.I32(x + y)
	case CLTypeI64:
		x, y, err := decodePair(a, b, (*wireformat.Decoder).I64)
		if err != nil {
			return CLValue{}, err
		}
		enc.I64(x + y)
	case CLTypeU8:
		x, y, err := decodePair(a, b, (*wireformat.Decoder).U8)
		if err != nil {
			return CLValue{}, err
		}
		enc.U8(x + y)
	case CLTypeU32:
		x, y, err := decodePair(a, b, (*wireformat.Decoder).U32)
		if err != nil {
			return CLValue{}, err
		}
		enc.U32(x + y)
	case CLTypeU64:
		x, y, err := decodePair(a, b, (*wireformat.Decoder).U64)
		if err != nil {
			return CLValue{}, err
		}
		enc.U64(x + y)
	case CLTypeU128:
		x, y, err := decodePair(a, b, (*wireformat.Decoder).U128)
		if err != nil {
			return CLValue{}, err
		}
		sum := new(uint256.Int).Add(x, y)
		enc.U128(sum.Mod(sum, mod128))
	case CLTypeU256:
		x, y, err := decodePair(a, b, (*wireformat.Decoder).U256)
		if err != nil {
			return CLValue{}, err
		}
		enc.U256(new(uint256.Int).Add(x, y))
	case CLTypeU512:
		x, y, err := decodePair(a, b, (*wireformat.Decoder).U512)
		if err != nil {
			return CLValue{}, err
		}
		sum := new(big.Int).Add(x, y)
		enc.U512(sum.Mod(sum, mod512))
	default:
		return CLValue{}, fmt.Errorf("%w: %s does not support add", ErrTypeMismatch, v.typ)
	}
	return CLValue{typ: v.typ, inner: enc.Bytes()}, nil
}

func decodePair[T any](a, b *wireformat.Decoder, read func(*wireformat.Decoder) (T, error)) (T, T, error) {
	var zero T
	x, err := read(a)
	if err != nil {
		return zero, zero, err
	}
	if err := a.Finish(); err != nil {
		return zero, zero, err
	}
	y, err := read(b)
	if err != nil {
		return zero, zero, err
	}
	if err := b.Finish(); err != nil {
		return zero, zero, err
	}
	return x, y, nil
}
