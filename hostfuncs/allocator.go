package hostfuncs

import (
	"fmt"
	"io"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
)

// maxAddressAttempts bounds regeneration after an address collision. Reaching it
// means the random source is broken, not that the address space is exhausted.
const maxAddressAttempts = 8

// NewURef allocates a fresh reference with read, add and write rights and stores
// value under it.
func (h *Host) NewURef(value entities.CLValue) entities.URef {
	uref := entities.NewURef(h.freshAddr("new_uref"), entities.AccessReadAddWrite)
	h.store.Write(uref.Key(), value)
	h.grant(uref)
	return uref
}

// IsValidURef reports whether uref was issued to this host with at least the
// rights it claims.
func (h *Host) IsValidURef(uref entities.URef) bool {
	granted, ok := h.granted[uref.Addr()]
	return ok && granted.Has(uref.Rights())
}

func (h *Host) grant(uref entities.URef) {
	h.granted[uref.Addr()] |= uref.Rights()
}

func (h *Host) freshAddr(op string) [entities.AddrLength]byte {
	for i := 0; i < maxAddressAttempts; i++ {
		var addr [entities.AddrLength]byte
		if _, err := io.ReadFull(h.cfg.random, addr[:]); err != nil {
			errors.Fatal(op, fmt.Errorf("random source: %w", err))
		}
		if _, taken := h.granted[addr]; taken {
			continue
		}
		if h.store.Contains(entities.NewURef(addr, entities.AccessNone).Key()) {
			continue
		}
		return addr
	}
	errors.Fatal(op, fmt.Errorf("random source produced %d colliding addresses", maxAddressAttempts))
	panic("unreachable")
}
