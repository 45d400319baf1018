package hostfuncs

import (
	"golang.org/x/crypto/blake2b"

	"github.com/casper-native/erc20-host/domain/entities"
)

// GetCaller parks the caller's account hash, a ByteArray(32) value, in the host
// buffer and returns its size.
func (h *Host) GetCaller() (int, error) {
	caller := entities.NewCLValue(entities.ByteArrayOf(entities.AddrLength), h.cfg.caller[:])
	return h.writeHostBuffer(caller.Bytes())
}

// Caller returns the configured caller as an account key.
func (h *Host) Caller() entities.Key {
	return entities.AccountKey(h.cfg.caller)
}

// SetCaller changes the account reported by get_caller for later invocations.
func (h *Host) SetCaller(accountHash [entities.AddrLength]byte) {
	h.cfg.caller = accountHash
}

// GetBlocktime returns the configured block time in milliseconds since the epoch.
func (h *Host) GetBlocktime() uint64 {
	return h.cfg.blocktime
}

// GetPhase returns the configured execution phase.
func (h *Host) GetPhase() entities.Phase {
	return h.cfg.phase
}

// Blake2b returns the 32-byte blake2b digest of data.
func (h *Host) Blake2b(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Print emits contract debug output through the host logger.
func (h *Host) Print(text string) {
	h.logger.Info(text, "source", "contract")
}
