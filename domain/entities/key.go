package entities

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/casper-native/erc20-host/wireformat"
)

// KeyTag identifies the variant of a Key. Values match the host ABI encoding.
type KeyTag uint8

const (
	KeyTagAccount    KeyTag = 0
	KeyTagHash       KeyTag = 1
	KeyTagURef       KeyTag = 2
	KeyTagDictionary KeyTag = 9
)

func (t KeyTag) String() string {
	switch t {
	case KeyTagAccount:
		return "account"
	case KeyTagHash:
		return "hash"
	case KeyTagURef:
		return "uref"
	case KeyTagDictionary:
		return "dictionary"
	default:
		return fmt.Sprintf("key-tag(%d)", uint8(t))
	}
}

// Key identifies an addressable location in global state.
// The zero Key is an account key with an all-zero hash.
type Key struct {
	tag    KeyTag
	addr   [AddrLength]byte
	rights AccessRights // only meaningful for KeyTagURef
}

// AccountKey returns the key of an account identified by its account hash.
func AccountKey(hash [AddrLength]byte) Key {
	return Key{tag: KeyTagAccount, addr: hash}
}

// HashKey returns a contract (or contract package) hash key.
func HashKey(hash [AddrLength]byte) Key {
	return Key{tag: KeyTagHash, addr: hash}
}

// DictionaryKey returns the key of a dictionary item address.
func DictionaryKey(addr [AddrLength]byte) Key {
	return Key{tag: KeyTagDictionary, addr: addr}
}

// Tag returns the key variant.
func (k Key) Tag() KeyTag {
	return k.tag
}

// Addr returns the 32-byte address carried by every variant.
func (k Key) Addr() [AddrLength]byte {
	return k.addr
}

// URef returns the reference wrapped by a URef key.
func (k Key) URef() (URef, bool) {
	if k.tag != KeyTagURef {
		return URef{}, false
	}
	return URef{addr: k.addr, rights: k.rights}, true
}

// Normalize strips access rights from URef keys so that every reference to the
// same address resolves to the same store entry.
func (k Key) Normalize() Key {
	if k.tag == KeyTagURef {
		k.rights = AccessNone
	}
	return k
}

// Encode appends the canonical encoding of k.
func (k Key) Encode(enc *wireformat.Encoder) {
	enc.U8(uint8(k.tag))
	enc.Raw(k.addr[:])
	if k.tag == KeyTagURef {
		enc.U8(uint8(k.rights))
	}
}

// Bytes returns the canonical encoding of k.
func (k Key) Bytes() []byte {
	enc := wireformat.NewEncoder(1 + URefSerializedLength)
	k.Encode(enc)
	return enc.Bytes()
}

// Compare orders keys by their canonical encoding.
func (k Key) Compare(other Key) int {
	return bytes.Compare(k.Bytes(), other.Bytes())
}

// DecodeKey consumes a Key from dec.
func DecodeKey(dec *wireformat.Decoder) (Key, error) {
	tag, err := dec.U8()
	if err != nil {
		return Key{}, err
	}
	switch KeyTag(tag) {
	case KeyTagURef:
		u, err := DecodeURef(dec)
		if err != nil {
			return Key{}, err
		}
		return u.Key(), nil
	case KeyTagAccount, KeyTagHash, KeyTagDictionary:
		raw, err := dec.Raw(AddrLength)
		if err != nil {
			return Key{}, err
		}
		k := Key{tag: KeyTag(tag)}
		copy(k.addr[:], raw)
		return k, nil
	default:
		return Key{}, fmt.Errorf("%w: unknown key tag %d", wireformat.ErrFormatting, tag)
	}
}

// KeyFromBytes decodes a Key that must occupy all of p.
func KeyFromBytes(p []byte) (Key, error) {
	dec := wireformat.NewDecoder(p)
	k, err := DecodeKey(dec)
	if err != nil {
		return Key{}, err
	}
	return k, dec.Finish()
}

func (k Key) String() string {
	switch k.tag {
	case KeyTagAccount:
		return "account-hash-" + hex.EncodeToString(k.addr[:])
	case KeyTagHash:
		return "hash-" + hex.EncodeToString(k.addr[:])
	case KeyTagURef:
		u, _ := k.URef()
		return u.String()
	case KeyTagDictionary:
		return "dictionary-" + hex.EncodeToString(k.addr[:])
	default:
		return k.tag.String()
	}
}
