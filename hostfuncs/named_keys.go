package hostfuncs

import (
	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
)

// HasKey reports whether name is bound in the named-key directory.
func (h *Host) HasKey(name string) bool {
	requireName("has_key", name)
	return h.directory().Has(name)
}

// PutKey binds name to key, silently replacing an existing binding.
func (h *Host) PutKey(name string, key entities.Key) {
	requireName("put_key", name)
	h.directory().Put(name, key)
}

// GetKey returns the key bound to name, or ErrMissingKey.
func (h *Host) GetKey(name string) (entities.Key, error) {
	requireName("get_key", name)
	key, ok := h.directory().Get(name)
	if !ok {
		return entities.Key{}, errors.ErrMissingKey
	}
	return key, nil
}

// RemoveKey deletes the binding for name. The store entry it pointed to is kept.
func (h *Host) RemoveKey(name string) {
	requireName("remove_key", name)
	h.directory().Remove(name)
}

// LoadNamedKeys parks the serialized directory in the host buffer and returns
// the number of keys and the serialized size. An empty directory parks nothing.
func (h *Host) LoadNamedKeys() (count int, size int, err error) {
	dir := h.directory()
	if dir.Len() == 0 {
		return 0, 0, nil
	}
	size, err = h.writeHostBuffer(dir.Bytes())
	if err != nil {
		return 0, 0, err
	}
	return dir.Len(), size, nil
}
