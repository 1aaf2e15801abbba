package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable matches any *StoreUnavailableError.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrConflict matches any *ConflictError.
	ErrConflict = errors.New("conflict")
	// ErrValidation matches malformed request payloads rejected before any store is queried.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError reports an entity, or a cross-store reference, that does not exist.
type NotFoundError struct {
	Kind EntityKind
	ID   int64
}

// NewNotFound returns a NotFoundError for kind and id.
func NewNotFound(kind EntityKind, id int64) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StoreUnavailableError reports that a store could not be queried at all.
// It is never used for a missing row.
type StoreUnavailableError struct {
	Store StoreName
	Err   error
}

// NewStoreUnavailable wraps err as a failure of store.
func NewStoreUnavailable(store StoreName, err error) error {
	return &StoreUnavailableError{Store: store, Err: err}
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store %s unavailable: %v", e.Store, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// ConflictError reports a write rejected by a store constraint (unique value, restricting FK).
type ConflictError struct {
	Kind   EntityKind
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Kind, e.Reason)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
