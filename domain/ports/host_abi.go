package ports

import (
	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
)

// HostABI is the host-function surface a contract calls. Variable-length
// results travel through the host buffer: a call reports the result size and
// the contract fetches the bytes with ReadHostBuffer.
type HostABI interface {
	GetNamedArgSize(name string) (int, error)
	GetNamedArg(name string, dest []byte) error

	HasKey(name string) bool
	PutKey(name string, key entities.Key)
	GetKey(name string) (entities.Key, error)
	RemoveKey(name string)
	LoadNamedKeys() (count int, size int, err error)

	NewURef(value entities.CLValue) entities.URef
	ReadValue(key entities.Key) (int, error)
	Write(key entities.Key, value entities.CLValue) error
	Add(key entities.Key, value entities.CLValue) error
	IsValidURef(uref entities.URef) bool

	NewDictionary() (int, error)
	DictionaryGet(seed entities.URef, itemKey string) (int, error)
	DictionaryPut(seed entities.URef, itemKey string, value entities.CLValue) error

	HostBufferSize() int
	ReadHostBuffer(dest []byte) (int, error)

	GetCaller() (int, error)
	GetBlocktime() uint64
	GetPhase() entities.Phase
	Blake2b(data []byte) [32]byte
	Print(text string)

	// Ret and Revert never return to the caller.
	Ret(value entities.CLValue)
	Revert(code errors.ApiError)
}
