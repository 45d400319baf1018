package hostfuncs

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
)

// DictionaryItemKeyMaxLength is the longest accepted dictionary item key in bytes.
const DictionaryItemKeyMaxLength = 64

// ReadValue parks the serialized value stored under key in the host buffer and
// returns its size.
func (h *Host) ReadValue(key entities.Key) (int, error) {
	if err := checkRights(key, entities.AccessRead); err != nil {
		return 0, err
	}
	v, err := h.store.Read(key)
	if err != nil {
		return 0, err
	}
	return h.writeHostBuffer(v.Bytes())
}

// Write stores value under key, replacing any existing value.
func (h *Host) Write(key entities.Key, value entities.CLValue) error {
	if err := checkRights(key, entities.AccessWrite); err != nil {
		return err
	}
	h.store.Write(key, value)
	return nil
}

// Add merges value into the value stored under key.
func (h *Host) Add(key entities.Key, value entities.CLValue) error {
	if err := checkRights(key, entities.AccessAdd); err != nil {
		return err
	}
	return h.store.Add(key, value)
}

// NewDictionary allocates a dictionary seed reference and parks its encoding in
// the host buffer. The seed's own store entry holds Unit.
func (h *Host) NewDictionary() (int, error) {
	seed := h.NewURef(entities.Unit)
	return h.writeHostBuffer(seed.Bytes())
}

// DictionaryGet parks the value stored under itemKey of the dictionary seeded
// by seed in the host buffer and returns its size.
func (h *Host) DictionaryGet(seed entities.URef, itemKey string) (int, error) {
	key, err := dictionaryItemKey("dictionary_get", seed, itemKey, entities.AccessRead)
	if err != nil {
		return 0, err
	}
	v, err := h.store.Read(key)
	if err != nil {
		return 0, err
	}
	return h.writeHostBuffer(v.Bytes())
}

// DictionaryPut stores value under itemKey of the dictionary seeded by seed.
func (h *Host) DictionaryPut(seed entities.URef, itemKey string, value entities.CLValue) error {
	key, err := dictionaryItemKey("dictionary_put", seed, itemKey, entities.AccessWrite)
	if err != nil {
		return err
	}
	h.store.Write(key, value)
	return nil
}

// DictionaryAddress derives the store address of a dictionary item:
// blake2b-256 over the seed address followed by the item key bytes.
func DictionaryAddress(seed entities.URef, itemKey string) [entities.AddrLength]byte {
	addr := seed.Addr()
	buf := make([]byte, 0, entities.AddrLength+len(itemKey))
	buf = append(buf, addr[:]...)
	buf = append(buf, itemKey...)
	return blake2b.Sum256(buf)
}

func dictionaryItemKey(op string, seed entities.URef, itemKey string, want entities.AccessRights) (entities.Key, error) {
	requireName(op, itemKey)
	if len(itemKey) > DictionaryItemKeyMaxLength {
		return entities.Key{}, errors.ErrDictionaryItemKeyExceedsLength
	}
	if !seed.Rights().Has(want) {
		return entities.Key{}, errors.ErrNoAccessRights
	}
	return entities.DictionaryKey(DictionaryAddress(seed, itemKey)), nil
}

// checkRights enforces the rights mask of URef keys. Other key variants carry
// no mask and always pass.
func checkRights(key entities.Key, want entities.AccessRights) error {
	uref, ok := key.URef()
	if !ok {
		return nil
	}
	if !uref.Rights().Has(want) {
		return fmt.Errorf("%s on %s: %w", want, uref, errors.ErrNoAccessRights)
	}
	return nil
}
