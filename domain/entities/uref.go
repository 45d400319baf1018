package entities

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/casper-native/erc20-host/wireformat"
)

// AddrLength is the width of every address held by a Key or URef.
const AddrLength = 32

// URefSerializedLength is the encoded size of a URef: address plus rights byte.
const URefSerializedLength = AddrLength + 1

// AccessRights is the capability mask carried by a URef.
type AccessRights uint8

const (
	AccessNone  AccessRights = 0
	AccessRead  AccessRights = 1
	AccessWrite AccessRights = 2
	AccessAdd   AccessRights = 4

	AccessReadWrite    = AccessRead | AccessWrite
	AccessReadAdd      = AccessRead | AccessAdd
	AccessAddWrite     = AccessAdd | AccessWrite
	AccessReadAddWrite = AccessRead | AccessAdd | AccessWrite
)

// Has reports whether every right in want is present in r.
func (r AccessRights) Has(want AccessRights) bool {
	return r&want == want
}

// Valid reports whether r uses only the defined bits.
func (r AccessRights) Valid() bool {
	return r&^AccessReadAddWrite == 0
}

func (r AccessRights) String() string {
	if r == AccessNone {
		return "NONE"
	}
	var parts []string
	if r.Has(AccessRead) {
		parts = append(parts, "READ")
	}
	if r.Has(AccessAdd) {
		parts = append(parts, "ADD")
	}
	if r.Has(AccessWrite) {
		parts = append(parts, "WRITE")
	}
	return strings.Join(parts, "_")
}

// URef is an unforgeable address paired with the rights its holder has over
// the addressed value. URef is a value type: changing rights yields a new URef.
type URef struct {
	addr   [AddrLength]byte
	rights AccessRights
}

// NewURef creates a URef from an address and rights mask.
func NewURef(addr [AddrLength]byte, rights AccessRights) URef {
	return URef{addr: addr, rights: rights}
}

// Addr returns the address.
func (u URef) Addr() [AddrLength]byte {
	return u.addr
}

// Rights returns the access-rights mask.
func (u URef) Rights() AccessRights {
	return u.rights
}

// WithRights returns a copy of u carrying the given rights.
func (u URef) WithRights(rights AccessRights) URef {
	return URef{addr: u.addr, rights: rights}
}

// Key wraps u in a Key.
func (u URef) Key() Key {
	return Key{tag: KeyTagURef, addr: u.addr, rights: u.rights}
}

// Bytes returns the canonical encoding of u.
func (u URef) Bytes() []byte {
	enc := wireformat.NewEncoder(URefSerializedLength)
	u.Encode(enc)
	return enc.Bytes()
}

// Encode appends the canonical encoding of u.
func (u URef) Encode(enc *wireformat.Encoder) {
	enc.Raw(u.addr[:])
	enc.U8(uint8(u.rights))
}

// DecodeURef consumes a URef from dec.
func DecodeURef(dec *wireformat.Decoder) (URef, error) {
	raw, err := dec.Raw(AddrLength)
	if err != nil {
		return URef{}, err
	}
	rights, err := dec.U8()
	if err != nil {
		return URef{}, err
	}
	if !AccessRights(rights).Valid() {
		return URef{}, fmt.Errorf("%w: invalid access rights %#x", wireformat.ErrFormatting, rights)
	}
	var u URef
	copy(u.addr[:], raw)
	u.rights = AccessRights(rights)
	return u, nil
}

// URefFromBytes decodes a URef that must occupy all of p.
func URefFromBytes(p []byte) (URef, error) {
	dec := wireformat.NewDecoder(p)
	u, err := DecodeURef(dec)
	if err != nil {
		return URef{}, err
	}
	return u, dec.Finish()
}

// String formats u as uref-<hex address>-<octal rights>.
func (u URef) String() string {
	return fmt.Sprintf("uref-%s-%03o", hex.EncodeToString(u.addr[:]), uint8(u.rights))
}
