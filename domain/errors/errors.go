// Package errors provides domain-specific error types for the host emulation layer.
// All error types support error unwrapping via errors.As() and errors.Is().
//
// Three classes of failure exist:
//   - ApiError: recoverable protocol errors reported to contract code as status codes.
//   - RevertError: a contract-initiated abort of the current invocation.
//   - FatalError: a contract or harness defect that must halt the run.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/casper-native/erc20-host/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by error types that can convert themselves to a
// structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// Sentinel causes wrapped by FatalError.
var (
	ErrArgsNotEstablished = stdErrors.New("runtime arguments not established")
	ErrInvalidName        = stdErrors.New("name must be non-empty valid utf-8")
	ErrNotEmulated        = stdErrors.New("host function is not emulated")
	ErrValueTooLarge      = stdErrors.New("value too large to address")
)

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// RevertError reports that contract code aborted the invocation via revert.
type RevertError struct {
	Code ApiError
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("contract reverted: %v", e.Code)
}

func (e *RevertError) Unwrap() error {
	return e.Code
}

// ToErrorDetail implements DetailedError.
func (e *RevertError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "revert", Code: fmt.Sprintf("%d", uint32(e.Code))}
}

// FatalError marks a programming or environment defect in a host function call.
// It is raised with panic and is never converted to a status code.
type FatalError struct {
	Err error
	Op  string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal in %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *FatalError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "panic", Code: e.Op, Wrapped: ToErrorDetail(e.Err)}
}

// Fatal panics with a FatalError for op.
func Fatal(op string, err error) {
	panic(&FatalError{Op: op, Err: err})
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// SchemaError represents a schema generation error.
type SchemaError struct {
	Err  error
	Type string
}

func (e *SchemaError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("schema error for type %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("schema error: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *SchemaError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: "schema"}
}

// MemoryError represents a value that exceeds a configured size limit.
type MemoryError struct {
	Requested int
	Limit     int
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory limit exceeded: requested %d bytes, limit %d bytes", e.Requested, e.Limit)
}

// Unwrap reports MemoryError as an out-of-memory status.
func (e *MemoryError) Unwrap() error {
	return ErrOutOfMemory
}

// ToErrorDetail implements DetailedError.
func (e *MemoryError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: "memory_limit"}
}

// WireFormatError represents a canonical encoding/decoding error.
type WireFormatError struct {
	Err       error
	Operation string
	Type      string
}

func (e *WireFormatError) Error() string {
	return fmt.Sprintf("wire format %s failed for %s: %v", e.Operation, e.Type, e.Err)
}

func (e *WireFormatError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *WireFormatError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: "wire_format"}
}
