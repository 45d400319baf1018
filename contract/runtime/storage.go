package runtime

import (
	"encoding/base64"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
)

// NewURef stores value under a fresh reference.
func NewURef(api ports.HostABI, value any) entities.URef {
	return api.NewURef(toCLValue(api, value))
}

// Read returns the value stored under key decoded as T. The boolean is false
// when nothing is stored there.
func Read[T any](api ports.HostABI, key entities.Key) (T, bool, error) {
	var out T
	size, err := api.ReadValue(key)
	if errors.AsApiError(err) == errors.ErrValueNotFound {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	v, err := entities.CLValueFromBytes(readHostBuffer(api, size))
	if err != nil {
		return out, false, err
	}
	if err := v.Into(&out); err != nil {
		return out, false, err
	}
	return out, true, nil
}

// ReadOrRevert is Read for values that must exist. A missing value reverts
// with ValueNotFound.
func ReadOrRevert[T any](api ports.HostABI, key entities.Key) T {
	v, ok, err := Read[T](api, key)
	if err != nil {
		api.Revert(errors.AsApiError(err))
	}
	return UnwrapOrRevertWith(api, v, ok, errors.ErrValueNotFound)
}

// Write replaces the value stored under uref.
func Write(api ports.HostABI, uref entities.URef, value any) {
	v := toCLValue(api, value)
	if err := api.Write(uref.Key(), v); err != nil {
		api.Revert(errors.AsApiError(err))
	}
}

// Add merges value into the numeric value stored under uref.
func Add(api ports.HostABI, uref entities.URef, value any) {
	v := toCLValue(api, value)
	if err := api.Add(uref.Key(), v); err != nil {
		api.Revert(errors.AsApiError(err))
	}
}

// NewDictionary creates a dictionary and binds its seed reference to name.
// A name that is empty or already bound fails with InvalidArgument.
func NewDictionary(api ports.HostABI, name string) (entities.URef, error) {
	if name == "" || api.HasKey(name) {
		return entities.URef{}, errors.ErrInvalidArgument
	}
	size, err := api.NewDictionary()
	if err != nil {
		return entities.URef{}, err
	}
	seed, err := entities.URefFromBytes(readHostBuffer(api, size))
	if err != nil {
		return entities.URef{}, err
	}
	api.PutKey(name, seed.Key())
	return seed, nil
}

// DictionaryGet returns the item stored under itemKey decoded as T. The
// boolean is false when the item is absent.
func DictionaryGet[T any](api ports.HostABI, seed entities.URef, itemKey string) (T, bool, error) {
	var out T
	size, err := api.DictionaryGet(seed, itemKey)
	if errors.AsApiError(err) == errors.ErrValueNotFound {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	v, err := entities.CLValueFromBytes(readHostBuffer(api, size))
	if err != nil {
		return out, false, err
	}
	if err := v.Into(&out); err != nil {
		return out, false, err
	}
	return out, true, nil
}

// DictionaryPut stores value under itemKey.
func DictionaryPut(api ports.HostABI, seed entities.URef, itemKey string, value any) {
	v := toCLValue(api, value)
	if err := api.DictionaryPut(seed, itemKey, v); err != nil {
		api.Revert(errors.AsApiError(err))
	}
}

// URefFromKey resolves a named key that must hold a URef.
func URefFromKey(api ports.HostABI, name string) entities.URef {
	key, ok := GetKey(api, name)
	if !ok {
		api.Revert(errors.ErrMissingKey)
	}
	uref, ok := key.URef()
	return UnwrapOrRevertWith(api, uref, ok, errors.ErrUnexpectedKeyVariant)
}

// ItemKeyFromBytes encodes arbitrary bytes as a dictionary item key.
func ItemKeyFromBytes(p []byte) string {
	return base64.StdEncoding.EncodeToString(p)
}
