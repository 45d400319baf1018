package hostfuncs

import (
	"fmt"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
)

// ReturnSignal carries the value of a successful ret out of contract code.
// It travels as a panic value and is recovered by the executor.
type ReturnSignal struct {
	Value entities.CLValue
}

func (r *ReturnSignal) Error() string {
	return fmt.Sprintf("contract returned %s", r.Value)
}

// Ret ends the invocation successfully with value. It never returns.
func (h *Host) Ret(value entities.CLValue) {
	h.logger.Debug("contract returned", "type", value.Type().String(), "size", value.InnerLen())
	panic(&ReturnSignal{Value: value})
}

// Revert aborts the invocation with code. It never returns.
func (h *Host) Revert(code errors.ApiError) {
	h.logger.Debug("contract reverted", "code", uint32(code), "error", code.Error())
	panic(&errors.RevertError{Code: code})
}
