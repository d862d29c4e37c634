// Package errors defines the error types shared across seqflow packages.
package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the seqflow library

var (
	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrPanic indicates that a caller-supplied function panicked
	ErrPanic = errors.New("function panicked")

	// ErrShutdown indicates that work was submitted to a component that has stopped
	ErrShutdown = errors.New("component has been shut down")
)

// ValidationError describes a rejected argument or configuration value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint sets a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// OperationError wraps a failure raised while running a named operation.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError for module.operation.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches free-form detail and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// PanicError carries a value recovered from a panic together with the
// goroutine stack at the point of recovery.
type PanicError struct {
	Value interface{}
	Stack []byte
}

// NewPanicError wraps a recovered value. If the value is already an error
// it remains reachable through errors.Is and errors.As.
func NewPanicError(value interface{}, stack []byte) *PanicError {
	return &PanicError{Value: value, Stack: stack}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("function panicked: %v", e.Value)
}

// Unwrap exposes ErrPanic and, when the panic value was an error, that error.
func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrPanic, err}
	}
	return []error{ErrPanic}
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsOperationError reports whether err is or wraps an OperationError.
func IsOperationError(err error) bool {
	var operr *OperationError
	return errors.As(err, &operr)
}

// IsPanic reports whether err originates from a recovered panic.
func IsPanic(err error) bool {
	return errors.Is(err, ErrPanic)
}
