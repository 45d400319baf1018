package erc20

import (
	"github.com/casper-native/erc20-host/domain/errors"
)

// Error is a token failure reported to the host as a user error.
type Error uint16

// Codes count down from the top of the user range.
const (
	ErrInvalidContext        Error = 0xFFFF
	ErrInsufficientBalance   Error = 0xFFFE
	ErrInsufficientAllowance Error = 0xFFFD
	ErrOverflow              Error = 0xFFFC
)

var errorNames = map[Error]string{
	ErrInvalidContext:        "invalid context",
	ErrInsufficientBalance:   "insufficient balance",
	ErrInsufficientAllowance: "insufficient allowance",
	ErrOverflow:              "overflow",
}

func (e Error) Error() string {
	if name, ok := errorNames[e]; ok {
		return "erc20: " + name
	}
	return "erc20: unknown error"
}

// ApiError returns the status code the host sees for e.
func (e Error) ApiError() errors.ApiError {
	return errors.User(uint16(e))
}

// Unwrap lets errors.AsApiError translate token errors.
func (e Error) Unwrap() error {
	return e.ApiError()
}
