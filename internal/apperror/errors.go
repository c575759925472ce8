// Package apperror defines the domain error taxonomy. Services return these
// errors; handlers map them to HTTP status codes and messages. Raw storage
// errors never cross the handler boundary.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both genuinely missing entities and scope
	// violations, so callers cannot probe for other offices' data.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is deliberately generic: it never reveals
	// which part of the re-auth check failed.
	ErrInvalidCredentials = errors.New("invalid password")

	// ErrEmptyRequest: a bulk request must persist at least one valid line.
	ErrEmptyRequest = errors.New("request must contain at least one valid item")
)

// ValidationError carries a user-correctable message, surfaced verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DuplicateError reports a unique-name/username/email conflict.
type DuplicateError struct {
	Resource string
}

func (e *DuplicateError) Error() string {
	return e.Resource + " already exists"
}

func Duplicate(resource string) error {
	return &DuplicateError{Resource: resource}
}

// ReferencedError blocks a delete because other rows point at the target.
// Count is included so the message can say how many.
type ReferencedError struct {
	Resource string
	Count    int64
}

func (e *ReferencedError) Error() string {
	return fmt.Sprintf("cannot delete %s: %d request(s) reference it", e.Resource, e.Count)
}

func Referenced(resource string, count int64) error {
	return &ReferencedError{Resource: resource, Count: count}
}

// StorageError wraps an underlying persistence failure. It is logged in
// full and surfaced to users as a generic message.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func Storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
