package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the query engine.
var (
	// ErrBinding indicates the arguments do not fit the predicate's placeholders.
	ErrBinding = errors.New("activerecord: parameter binding failed")

	// ErrNoResult indicates a single-result query matched no row.
	ErrNoResult = errors.New("activerecord: no result")

	// ErrNonUniqueResult indicates a single-result query matched more than one row.
	ErrNonUniqueResult = errors.New("activerecord: non-unique result")

	// ErrStore indicates the store driver failed.
	ErrStore = errors.New("activerecord: store error")

	// ErrPrecondition indicates a cursor was used in a state that does not allow the call.
	ErrPrecondition = errors.New("activerecord: precondition violated")

	// ErrInvalidQuery indicates a descriptor that cannot be compiled.
	ErrInvalidQuery = errors.New("activerecord: invalid query")

	// ErrStreamConsumed indicates a second iteration over a single-pass stream.
	ErrStreamConsumed = errors.New("activerecord: stream already consumed")

	// ErrTransient indicates an operation that needs an identifier was given
	// an entity that was never saved.
	ErrTransient = errors.New("activerecord: entity is not persistent")
)

// BindingError describes why the arguments could not be bound to a predicate.
type BindingError struct {
	Predicate string
	Reason    string
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	return fmt.Sprintf("binding %q: %s", e.Predicate, e.Reason)
}

// Is reports whether target is ErrBinding.
func (e *BindingError) Is(target error) bool {
	return target == ErrBinding
}

// Kind names the error class for metrics.
func (e *BindingError) Kind() string { return "binding" }

// NewBindingError creates a BindingError with a formatted reason.
func NewBindingError(predicate, format string, args ...interface{}) *BindingError {
	return &BindingError{Predicate: predicate, Reason: fmt.Sprintf(format, args...)}
}

// StoreError wraps a driver failure with the statement that caused it.
type StoreError struct {
	Operation string
	Model     string
	Statement string
	Cause     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s on %s: %v", e.Operation, e.Model, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

// Unwrap returns the driver error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrStore.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// Kind names the error class for metrics.
func (e *StoreError) Kind() string { return "store" }

// NewStoreError creates a StoreError.
func NewStoreError(op, model, statement string, cause error) *StoreError {
	return &StoreError{Operation: op, Model: model, Statement: statement, Cause: cause}
}

// PreconditionError is the panic value raised when a cursor is misused.
type PreconditionError struct {
	Reason string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return "precondition violated: " + e.Reason
}

// Is reports whether target is ErrPrecondition.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}
