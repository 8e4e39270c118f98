package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies structured errors into the categories recognized by
// the dispatcher's error policy.
type ErrorKind string

// Recognized error kinds.
const (
	ErrConfiguration ErrorKind = "configuration"
	ErrValidation    ErrorKind = "validation"
	ErrCommunication ErrorKind = "communication"
	ErrStream        ErrorKind = "stream"
	ErrAPI           ErrorKind = "api"
	ErrBuffer        ErrorKind = "buffer"
)

// Error is a structured error carrying a machine-readable code and optional
// context. Recognized errors are logged with their structured detail and
// re-raised; callers can match them with errors.As.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Context map[string]any
	wrapped error
}

// NewError constructs a structured error of the given kind.
func NewError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// NewConfigurationError constructs a configuration error.
func NewConfigurationError(code, message string) *Error {
	return NewError(ErrConfiguration, code, message)
}

// NewValidationError constructs a validation error.
func NewValidationError(code, message string) *Error {
	return NewError(ErrValidation, code, message)
}

// NewStreamError constructs a streaming error.
func NewStreamError(code, message string) *Error {
	return NewError(ErrStream, code, message)
}

// NewAPIError constructs an upstream API error.
func NewAPIError(code, message string) *Error {
	return NewError(ErrAPI, code, message)
}

// WithContext attaches a key/value pair to the error's context (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// Wrap records an underlying cause (chainable).
func (e *Error) Wrap(err error) *Error {
	e.wrapped = err
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Kind, e.Code, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.wrapped }

// Detail returns the structured payload logged alongside recognized errors.
func (e *Error) Detail() map[string]any {
	d := map[string]any{
		"kind":    string(e.Kind),
		"code":    e.Code,
		"message": e.Message,
	}
	if len(e.Context) > 0 {
		d["context"] = e.Context
	}
	if e.wrapped != nil {
		d["cause"] = e.wrapped.Error()
	}
	return d
}

// AsError extracts a structured *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
