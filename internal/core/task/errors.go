package task

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation targets a task absent from local state.
	ErrNotFound = errors.New("task not found")
	// ErrStoreUnavailable is returned when Load cannot fetch the owner's tasks.
	ErrStoreUnavailable = errors.New("task store unavailable")
	// ErrPersistence matches any *PersistenceError.
	ErrPersistence = errors.New("task persistence failed")
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("task validation failed")
	// ErrUnauthenticated is returned when no identity is present, or it does
	// not own the loaded list.
	ErrUnauthenticated = errors.New("no authenticated identity")
	// ErrNoPendingDelete is returned by ConfirmDelete for a task whose
	// deletion was never requested.
	ErrNoPendingDelete = errors.New("task has no pending delete")
	// ErrDocumentNotFound is returned by DocumentStore implementations when
	// the addressed document does not exist.
	ErrDocumentNotFound = errors.New("document not found")
)

// ValidationError reports a field that failed validation before any I/O.
// Field is the first failing field; Err holds every field failure.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid task: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PersistenceError reports a failed remote write. Local state is left as it
// was before the operation.
type PersistenceError struct {
	Op  string // create, update, delete
	ID  string // empty for create
	Err error
}

func (e *PersistenceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s task: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s task %s: %v", e.Op, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
