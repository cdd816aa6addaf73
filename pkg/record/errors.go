package record

import (
	"errors"

	"github.com/satishbabariya/activerecord/internal/core/query/domain"
)

// Sentinel errors. Match them with errors.Is.
var (
	ErrBinding         = domain.ErrBinding
	ErrNoResult        = domain.ErrNoResult
	ErrNonUniqueResult = domain.ErrNonUniqueResult
	ErrStore           = domain.ErrStore
	ErrPrecondition    = domain.ErrPrecondition
	ErrInvalidQuery    = domain.ErrInvalidQuery
	ErrStreamConsumed  = domain.ErrStreamConsumed
	ErrTransient       = domain.ErrTransient
)

// BindingError describes arguments that do not fit a predicate.
type BindingError = domain.BindingError

// StoreError wraps a driver failure.
type StoreError = domain.StoreError

// PreconditionError is the panic value of a misused cursor.
type PreconditionError = domain.PreconditionError

// IsNoResult checks if an error is a no result error.
func IsNoResult(err error) bool {
	return errors.Is(err, ErrNoResult)
}

// IsNonUniqueResult checks if an error is a non-unique result error.
func IsNonUniqueResult(err error) bool {
	return errors.Is(err, ErrNonUniqueResult)
}

// IsBindingError checks if an error is a binding error.
func IsBindingError(err error) bool {
	return errors.Is(err, ErrBinding)
}

// IsStoreError checks if an error came from the store driver.
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStore)
}
