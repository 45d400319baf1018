package entities

import (
	"fmt"
	"strings"

	"github.com/casper-native/erc20-host/wireformat"
)

// CLTypeTag is the leading byte of an encoded CLType.
type CLTypeTag uint8

const (
	CLTypeBool      CLTypeTag = 0
	CLTypeI32       CLTypeTag = 1
	CLTypeI64       CLTypeTag = 2
	CLTypeU8        CLTypeTag = 3
	CLTypeU32       CLTypeTag = 4
	CLTypeU64       CLTypeTag = 5
	CLTypeU128      CLTypeTag = 6
	CLTypeU256      CLTypeTag = 7
	CLTypeU512      CLTypeTag = 8
	CLTypeUnit      CLTypeTag = 9
	CLTypeString    CLTypeTag = 10
	CLTypeKey       CLTypeTag = 11
	CLTypeURef      CLTypeTag = 12
	CLTypeOption    CLTypeTag = 13
	CLTypeList      CLTypeTag = 14
	CLTypeByteArray CLTypeTag = 15
	CLTypeResult    CLTypeTag = 16
	CLTypeMap       CLTypeTag = 17
	CLTypeTuple1    CLTypeTag = 18
	CLTypeTuple2    CLTypeTag = 19
	CLTypeTuple3    CLTypeTag = 20
	CLTypeAny       CLTypeTag = 21
	CLTypePublicKey CLTypeTag = 22
)

var clTypeNames = map[CLTypeTag]string{
	CLTypeBool:      "Bool",
	CLTypeI32:       "I32",
	CLTypeI64:       "I64",
	CLTypeU8:        "U8",
	CLTypeU32:       "U32",
	CLTypeU64:       "U64",
	CLTypeU128:      "U128",
	CLTypeU256:      "U256",
	CLTypeU512:      "U512",
	CLTypeUnit:      "Unit",
	CLTypeString:    "String",
	CLTypeKey:       "Key",
	CLTypeURef:      "URef",
	CLTypeOption:    "Option",
	CLTypeList:      "List",
	CLTypeByteArray: "ByteArray",
	CLTypeResult:    "Result",
	CLTypeMap:       "Map",
	CLTypeTuple1:    "Tuple1",
	CLTypeTuple2:    "Tuple2",
	CLTypeTuple3:    "Tuple3",
	CLTypeAny:       "Any",
	CLTypePublicKey: "PublicKey",
}

// maxCLTypeDepth bounds nesting while decoding untrusted type descriptors.
const maxCLTypeDepth = 50

// CLType describes how to interpret the inner bytes of a CLValue.
// Composite types carry their element types in Elems: one for Option and
// List, two for Result (ok, err) and Map (key, value), one to three for tuples.
type CLType struct {
	Tag   CLTypeTag
	Elems []CLType
	Size  uint32 // ByteArray length
}

// Simple returns a CLType without type parameters.
func Simple(tag CLTypeTag) CLType {
	return CLType{Tag: tag}
}

// OptionOf returns Option<inner>.
func OptionOf(inner CLType) CLType {
	return CLType{Tag: CLTypeOption, Elems: []CLType{inner}}
}

// ListOf returns List<inner>.
func ListOf(inner CLType) CLType {
	return CLType{Tag: CLTypeList, Elems: []CLType{inner}}
}

// ByteArrayOf returns a fixed-length byte array type.
func ByteArrayOf(size uint32) CLType {
	return CLType{Tag: CLTypeByteArray, Size: size}
}

// MapOf returns Map<key, value>.
func MapOf(key, value CLType) CLType {
	return CLType{Tag: CLTypeMap, Elems: []CLType{key, value}}
}

// Equal reports structural equality.
func (t CLType) Equal(other CLType) bool {
	if t.Tag != other.Tag || t.Size != other.Size || len(t.Elems) != len(other.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equal(other.Elems[i]) {
			return false
		}
	}
	return true
}

// Encode appends the canonical encoding of t.
func (t CLType) Encode(enc *wireformat.Encoder) {
	enc.U8(uint8(t.Tag))
	switch t.Tag {
	case CLTypeByteArray:
		enc.U32(t.Size)
	case CLTypeOption, CLTypeList, CLTypeResult, CLTypeMap, CLTypeTuple1, CLTypeTuple2, CLTypeTuple3:
		for _, e := range t.Elems {
			e.Encode(enc)
		}
	}
}

// Bytes returns the canonical encoding of t.
func (t CLType) Bytes() []byte {
	enc := wireformat.NewEncoder(4)
	t.Encode(enc)
	return enc.Bytes()
}

// DecodeCLType consumes a CLType from dec.
func DecodeCLType(dec *wireformat.Decoder) (CLType, error) {
	return decodeCLType(dec, 0)
}

func decodeCLType(dec *wireformat.Decoder, depth int) (CLType, error) {
	if depth > maxCLTypeDepth {
		return CLType{}, fmt.Errorf("%w: type nesting exceeds %d", wireformat.ErrFormatting, maxCLTypeDepth)
	}
	tag, err := dec.U8()
	if err != nil {
		return CLType{}, err
	}
	t := CLType{Tag: CLTypeTag(tag)}
	arity := 0
	switch t.Tag {
	case CLTypeByteArray:
		t.Size, err = dec.U32()
		return t, err
	case CLTypeOption, CLTypeList, CLTypeTuple1:
		arity = 1
	case CLTypeResult, CLTypeMap, CLTypeTuple2:
		arity = 2
	case CLTypeTuple3:
		arity = 3
	default:
		if _, ok := clTypeNames[t.Tag]; !ok {
			return CLType{}, fmt.Errorf("%w: unknown cl type tag %d", wireformat.ErrFormatting, tag)
		}
		return t, nil
	}
	t.Elems = make([]CLType, arity)
	for i := range t.Elems {
		if t.Elems[i], err = decodeCLType(dec, depth+1); err != nil {
			return CLType{}, err
		}
	}
	return t, nil
}

func (t CLType) String() string {
	name := clTypeNames[t.Tag]
	switch {
	case t.Tag == CLTypeByteArray:
		return fmt.Sprintf("ByteArray(%d)", t.Size)
	case len(t.Elems) > 0:
		inner := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			inner[i] = e.String()
		}
		return name + "<" + strings.Join(inner, ", ") + ">"
	case name == "":
		return fmt.Sprintf("CLType(%d)", uint8(t.Tag))
	default:
		return name
	}
}
