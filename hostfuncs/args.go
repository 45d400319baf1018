package hostfuncs

import (
	"math"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
)

// GetNamedArgSize returns the serialized length of the argument bound to name
// without copying it. It is the first half of the size-then-copy protocol.
func (h *Host) GetNamedArgSize(name string) (int, error) {
	v, err := h.lookupArg("get_named_arg_size", name)
	if err != nil {
		return 0, err
	}
	return v.InnerLen(), nil
}

// GetNamedArg copies the serialized argument bound to name into dest, whose
// length must equal the size reported by GetNamedArgSize. Nothing is copied on
// error.
func (h *Host) GetNamedArg(name string, dest []byte) error {
	v, err := h.lookupArg("get_named_arg", name)
	if err != nil {
		return err
	}
	switch size := v.InnerLen(); {
	case len(dest) < size:
		return errors.ErrBufferTooSmall
	case len(dest) > size:
		return errors.ErrInvalidArgument
	}
	copy(dest, v.InnerBytes())
	return nil
}

func (h *Host) lookupArg(op, name string) (entities.CLValue, error) {
	requireName(op, name)
	if h.args == nil {
		errors.Fatal(op, errors.ErrArgsNotEstablished)
	}
	v, ok := h.args.Get(name)
	if !ok {
		return entities.CLValue{}, errors.ErrMissingArgument
	}
	if uint64(v.InnerLen()) > math.MaxUint32 {
		errors.Fatal(op, errors.ErrValueTooLarge)
	}
	return v, nil
}
