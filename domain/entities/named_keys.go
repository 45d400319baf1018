package entities

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/casper-native/erc20-host/wireformat"
)

// NamedKeys maps human-readable names to keys for one contract instance.
// Iteration and encoding follow insertion order.
type NamedKeys struct {
	keys *orderedmap.OrderedMap[string, Key]
}

// NewNamedKeys creates an empty directory.
func NewNamedKeys() *NamedKeys {
	return &NamedKeys{keys: orderedmap.New[string, Key]()}
}

// Has reports whether name is bound.
func (n *NamedKeys) Has(name string) bool {
	_, ok := n.keys.Get(name)
	return ok
}

// Put binds name to key, replacing any previous binding.
func (n *NamedKeys) Put(name string, key Key) {
	n.keys.Set(name, key)
}

// Get returns the key bound to name.
func (n *NamedKeys) Get(name string) (Key, bool) {
	return n.keys.Get(name)
}

// Remove deletes the binding for name. Removing an absent name does nothing.
func (n *NamedKeys) Remove(name string) {
	n.keys.Delete(name)
}

// Len returns the number of bindings.
func (n *NamedKeys) Len() int {
	return n.keys.Len()
}

// Names returns the bound names in insertion order.
func (n *NamedKeys) Names() []string {
	names := make([]string, 0, n.keys.Len())
	for pair := n.keys.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Bytes encodes the directory as a u32 count followed by (name, key) pairs.
func (n *NamedKeys) Bytes() []byte {
	enc := wireformat.NewEncoder(8 + n.keys.Len()*48)
	enc.U32(uint32(n.keys.Len())) //nolint:gosec // G115: bounded by memory
	for pair := n.keys.Oldest(); pair != nil; pair = pair.Next() {
		enc.String(pair.Key)
		pair.Value.Encode(enc)
	}
	return enc.Bytes()
}

// NamedKeysFromBytes decodes the encoding produced by Bytes.
func NamedKeysFromBytes(p []byte) (*NamedKeys, error) {
	dec := wireformat.NewDecoder(p)
	count, err := dec.U32()
	if err != nil {
		return nil, err
	}
	nk := NewNamedKeys()
	for i := uint32(0); i < count; i++ {
		name, err := dec.String()
		if err != nil {
			return nil, err
		}
		key, err := DecodeKey(dec)
		if err != nil {
			return nil, err
		}
		nk.Put(name, key)
	}
	return nk, dec.Finish()
}
