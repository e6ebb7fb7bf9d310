/*
errors.go - Centralized error types for the tracking engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify failures with errors.Is / errors.As; the API layer
  maps these onto HTTP status codes.

ERROR CATEGORIES:
  1. Validation errors - Rejected before any mutation or persistence write
  2. Lookup errors - Referenced limit does not exist
  3. Storage errors - Repository-level failures, reported upward as-is

The progress and streak queries themselves never fail: they are pure
arithmetic over already-validated data. A non-positive quota is a
precondition violation caught at create/edit time, never special-cased
at query time.
*/
package tracking

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is the root of every validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyName is returned when a limit is created or renamed with an
	// empty name.
	ErrEmptyName = fmt.Errorf("%w: limit name is empty", ErrInvalidInput)

	// ErrDuplicateName is returned when another limit in the collection
	// already has the same name under case-insensitive comparison.
	ErrDuplicateName = fmt.Errorf("%w: limit name already in use", ErrInvalidInput)

	// ErrNonPositiveQuota is returned when a quota amount is zero or
	// negative. Quota positivity is what makes progress division safe.
	ErrNonPositiveQuota = fmt.Errorf("%w: quota must be greater than zero", ErrInvalidInput)

	// ErrFutureCleanDate is returned when a clean date reset points into
	// the future.
	ErrFutureCleanDate = fmt.Errorf("%w: clean date cannot be in the future", ErrInvalidInput)

	// ErrDateOutOfRange is returned when selecting a day outside the
	// navigable window [creation+1day, today].
	ErrDateOutOfRange = fmt.Errorf("%w: date outside navigable range", ErrInvalidInput)

	// ErrLimitNotFound is returned when a referenced limit doesn't exist.
	ErrLimitNotFound = errors.New("limit not found")

	// ErrStorage is returned when the repository fails. The engine does not
	// retry and does not roll back in-memory state.
	ErrStorage = errors.New("storage failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownTagError reports an unrecognized category or timing tag during
// decoding. This is a hard failure rather than a silent default: an
// unknown tag in stored data means the data is corrupt or from a newer
// schema, and defaulting would hide that.
type UnknownTagError struct {
	Field string // "category" or "timing"
	Tag   string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown %s tag %q", e.Field, e.Tag)
}

func (e *UnknownTagError) Unwrap() error { return ErrInvalidInput }

// DuplicateNameError reports which existing limit blocked a create/rename.
type DuplicateNameError struct {
	Name     string // the rejected name
	Existing string // name of the limit already holding it
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("limit name %q conflicts with existing limit %q", e.Name, e.Existing)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is due to invalid caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error indicates a missing limit.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLimitNotFound)
}
