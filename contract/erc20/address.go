package erc20

import (
	"encoding/hex"

	"github.com/casper-native/erc20-host/contract/runtime"
	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
)

// Address is a token holder: an account or a contract, never any other key variant.
type Address struct {
	key entities.Key
}

// AccountAddress returns the address of an account.
func AccountAddress(hash [entities.AddrLength]byte) Address {
	return Address{key: entities.AccountKey(hash)}
}

// ContractAddress returns the address of a contract package.
func ContractAddress(hash [entities.AddrLength]byte) Address {
	return Address{key: entities.HashKey(hash)}
}

// AddressFromKey converts key, accepting only account and hash keys.
func AddressFromKey(key entities.Key) (Address, bool) {
	switch key.Tag() {
	case entities.KeyTagAccount, entities.KeyTagHash:
		return Address{key: key}, true
	default:
		return Address{}, false
	}
}

// Key returns the address as a Key.
func (a Address) Key() entities.Key {
	return a.key
}

// Bytes returns the canonical encoding of the address.
func (a Address) Bytes() []byte {
	return a.key.Bytes()
}

func (a Address) String() string {
	return a.key.String()
}

// balanceItemKey is the dictionary item key of owner's balance.
func balanceItemKey(owner Address) string {
	return runtime.ItemKeyFromBytes(owner.Bytes())
}

// allowanceItemKey is the dictionary item key of the allowance owner grants spender.
func allowanceItemKey(api ports.HostABI, owner, spender Address) string {
	preimage := append(owner.Bytes(), spender.Bytes()...)
	digest := api.Blake2b(preimage)
	return hex.EncodeToString(digest[:])
}

// addressArg reads a named argument that must be an address.
func addressArg(api ports.HostABI, name string) Address {
	key := runtime.GetNamedArg[entities.Key](api, name)
	addr, ok := AddressFromKey(key)
	return runtime.UnwrapOrRevertWith(api, addr, ok, errors.ErrInvalidArgument)
}
