// Package runtime is the contract-side API over the host ABI. It hides the
// size-then-copy protocol and the host buffer behind typed helpers.
//
// Helpers that cannot fail in a well-formed contract revert the invocation on
// error, the way contract code conventionally unwraps host results.
package runtime

import (
	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
)

// GetNamedArg returns the argument bound to name decoded as T. A missing
// argument reverts with MissingArgument; bytes that do not decode as T revert
// with InvalidArgument.
func GetNamedArg[T any](api ports.HostABI, name string) T {
	size, err := api.GetNamedArgSize(name)
	if err != nil {
		api.Revert(errors.AsApiError(err))
	}
	buf := make([]byte, size)
	if err := api.GetNamedArg(name, buf); err != nil {
		api.Revert(errors.AsApiError(err))
	}
	var out T
	if err := decodeInner(buf, &out); err != nil {
		api.Revert(errors.ErrInvalidArgument)
	}
	return out
}

// Ret ends the invocation returning value. It never returns.
func Ret(api ports.HostABI, value any) {
	api.Ret(toCLValue(api, value))
}

// Revert aborts the invocation with code. It never returns.
func Revert(api ports.HostABI, code errors.ApiError) {
	api.Revert(code)
}

// UnwrapOrRevert returns v, or reverts with the status code of err.
func UnwrapOrRevert[T any](api ports.HostABI, v T, err error) T {
	if err != nil {
		api.Revert(errors.AsApiError(err))
	}
	return v
}

// UnwrapOrRevertWith returns v, or reverts with code when ok is false.
func UnwrapOrRevertWith[T any](api ports.HostABI, v T, ok bool, code errors.ApiError) T {
	if !ok {
		api.Revert(code)
	}
	return v
}

// GetKey returns the key bound to name in the named-key directory.
func GetKey(api ports.HostABI, name string) (entities.Key, bool) {
	key, err := api.GetKey(name)
	if err != nil {
		return entities.Key{}, false
	}
	return key, true
}

// PutKey binds name to key in the named-key directory.
func PutKey(api ports.HostABI, name string, key entities.Key) {
	api.PutKey(name, key)
}

// HasKey reports whether name is bound in the named-key directory.
func HasKey(api ports.HostABI, name string) bool {
	return api.HasKey(name)
}

// RemoveKey unbinds name.
func RemoveKey(api ports.HostABI, name string) {
	api.RemoveKey(name)
}

// ListNamedKeys returns a snapshot of the named-key directory.
func ListNamedKeys(api ports.HostABI) *entities.NamedKeys {
	count, size, err := api.LoadNamedKeys()
	if err != nil {
		api.Revert(errors.AsApiError(err))
	}
	if count == 0 {
		return entities.NewNamedKeys()
	}
	keys, err := entities.NamedKeysFromBytes(readHostBuffer(api, size))
	return UnwrapOrRevert(api, keys, err)
}

// GetCaller returns the account that initiated the invocation.
func GetCaller(api ports.HostABI) entities.Key {
	size, err := api.GetCaller()
	if err != nil {
		api.Revert(errors.AsApiError(err))
	}
	v, err := entities.CLValueFromBytes(readHostBuffer(api, size))
	if err != nil {
		api.Revert(errors.AsApiError(err))
	}
	var hash []byte
	if err := v.Into(&hash); err != nil || len(hash) != entities.AddrLength {
		api.Revert(errors.ErrDeserialize)
	}
	return entities.AccountKey([entities.AddrLength]byte(hash))
}

// Print writes text to the host's debug output.
func Print(api ports.HostABI, text string) {
	api.Print(text)
}

// toCLValue converts a Go value, reverting with CLTypeMismatch when it has
// no CLType.
func toCLValue(api ports.HostABI, value any) entities.CLValue {
	v, err := entities.CLValueFrom(value)
	if err != nil {
		api.Revert(errors.ErrCLTypeMismatch)
	}
	return v
}

// readHostBuffer fetches a result of size bytes parked by the previous call.
func readHostBuffer(api ports.HostABI, size int) []byte {
	buf := make([]byte, size)
	n, err := api.ReadHostBuffer(buf)
	if err != nil {
		api.Revert(errors.AsApiError(err))
	}
	if n != size {
		api.Revert(errors.ErrHostBufferEmpty)
	}
	return buf
}
