package core

import (
	"errors"
	"fmt"
)

// ValidationError is returned for input rejected before any persistence.
// Message is shown to callers verbatim.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// StorageError wraps any failure coming from the ledger store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Op == "" {
		return "Database error: " + e.Err.Error()
	}
	return fmt.Sprintf("Database error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err unless it already is a StorageError.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
