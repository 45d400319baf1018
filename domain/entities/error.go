package entities

import "fmt"

// ErrorDetail is the structured form of a host error, used when failures are
// logged or printed.
// Types: "api", "revert", "panic", "config", "validation", "internal".
type ErrorDetail struct {
	// Wrapped is the detail of the underlying cause, if any.
	Wrapped *ErrorDetail `json:"wrapped,omitempty"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Code is a machine-readable error code.
	Code string `json:"code"`

	// IsNotFound indicates a missing argument, named key or stored value.
	IsNotFound bool `json:"is_not_found,omitempty"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped.Error())
	}
	return msg
}
