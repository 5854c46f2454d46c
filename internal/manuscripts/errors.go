package manuscripts

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: no manuscript with the requested id.
	ErrNotFound = errors.New("manuscript not found")

	// authorization failures, distinguishable so callers can render
	// a specific message
	ErrRoleNotPermitted = errors.New("role not permitted")
	ErrNotOwner         = errors.New("not the owning author")

	// guard failures
	ErrInvalidCurrentState   = errors.New("current status does not permit this action")
	ErrPublishedNotDeletable = errors.New("published manuscript cannot be deleted")

	// ErrUpdateConflict: a concurrent writer kept winning the
	// compare-and-swap; no mutation was applied. Safe to retry.
	ErrUpdateConflict = errors.New("concurrent update conflict")
)

// ValidationError reports which submission field failed ingestion
// validation and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
