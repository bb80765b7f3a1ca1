// Package apperr defines the error kinds shared by the ledger services.
//
// Callers match kinds with errors.Is; domain packages wrap these sentinels
// with their own context (team.ErrNotFound, expense.ErrNotFound, ...).
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference reports an identifier that is not well-formed.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrNotFound reports a well-formed identifier with no record behind it.
	ErrNotFound = errors.New("not found")
	// ErrValidation reports a field constraint violation.
	ErrValidation = errors.New("validation failed")
	// ErrBudgetExceeded reports a write rejected by the team budget ceiling.
	ErrBudgetExceeded = errors.New("budget exceeded")
	// ErrConflict reports an operation blocked by dependent records.
	ErrConflict = errors.New("conflict")
	// ErrStorage reports a fault in the ledger store.
	ErrStorage = errors.New("storage error")
	// ErrNotification reports a failed alert dispatch. It is never returned
	// to the caller of an expense operation.
	ErrNotification = errors.New("notification error")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid returns a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps a store fault with the operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Storage wraps err as a StorageError. A nil err stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}

	return &StorageError{Op: op, Err: err}
}

// Reference reports a malformed identifier of the named kind.
func Reference(kind, raw string) error {
	return fmt.Errorf("%w: %s id %q", ErrInvalidReference, kind, raw)
}
