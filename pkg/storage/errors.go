package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/neatjs/neat/pkg/stores"
)

// ErrorClass classifies backend failures swallowed by the facade.
type ErrorClass string

const (
	// ErrorClassUnavailable means the backend cannot be used right now
	// (disabled, not initialized, restricted environment).
	ErrorClassUnavailable ErrorClass = "unavailable"

	// ErrorClassQuota means the backend refused a write because it is full.
	ErrorClassQuota ErrorClass = "quota"

	// ErrorClassIO covers every other read or write failure.
	ErrorClassIO ErrorClass = "io"
)

// Class sentinels for use with errors.Is.
var (
	ErrUnavailable = &StorageError{Class: ErrorClassUnavailable}
	ErrQuota       = &StorageError{Class: ErrorClassQuota}
	ErrIO          = &StorageError{Class: ErrorClassIO}
)

// StorageError is a classified backend failure with operation context.
// nolint:revive // StorageError reads better than Error at call sites
type StorageError struct {
	Class     ErrorClass
	Backend   string
	Operation string
	Key       string
	Err       error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Key != "" {
		return fmt.Sprintf("[%s] %s %s (key=%s): %s", e.Class, e.Backend, e.Operation, e.Key, msg)
	}
	return fmt.Sprintf("[%s] %s %s: %s", e.Class, e.Backend, e.Operation, msg)
}

// Unwrap returns the underlying backend error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a StorageError of the same class.
func (e *StorageError) Is(target error) bool {
	t, ok := target.(*StorageError)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

// Classify maps a backend error onto an ErrorClass.
func Classify(err error) ErrorClass {
	var se *StorageError
	switch {
	case errors.As(err, &se):
		return se.Class
	case errors.Is(err, stores.ErrQuotaExceeded):
		return ErrorClassQuota
	case errors.Is(err, stores.ErrUnavailable),
		errors.Is(err, stores.ErrNotInitialized),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return ErrorClassUnavailable
	default:
		return ErrorClassIO
	}
}

func newStorageError(backend, operation, key string, err error) *StorageError {
	return &StorageError{
		Class:     Classify(err),
		Backend:   backend,
		Operation: operation,
		Key:       key,
		Err:       err,
	}
}
