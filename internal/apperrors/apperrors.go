// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

// Package apperrors defines the error kinds shared across Cinelog services.
//
// Services return typed errors that wrap a small set of sentinels so that
// callers can branch with errors.Is without inspecting messages, and the
// HTTP layer can map each kind to a status code in one place.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("resource already exists")

	// ErrValidation indicates the input failed a domain rule.
	ErrValidation = errors.New("validation failed")

	// ErrStorage indicates the persistence layer failed.
	ErrStorage = errors.New("storage operation failed")

	// ErrConflict indicates a concurrent write conflict; the operation
	// may be retried.
	ErrConflict = errors.New("transaction conflict")

	// ErrUnauthorized indicates a missing or invalid session.
	ErrUnauthorized = errors.New("not authenticated")
)

// NotFoundError reports a missing resource by type and identifier.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
}
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateError reports a uniqueness violation on a specific field.
type DuplicateError struct {
	Resource string
	Field    string
	Value    string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s '%s' already exists", e.Resource, e.Field, e.Value)
}
func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// ValidationError reports a domain rule violation on a specific field.
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
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageError wraps a low-level persistence failure with the operation
// that triggered it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
func (e *StorageError) Unwrap() error        { return e.Err }

// NewValidation builds a ValidationError for the given field.
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewNotFound builds a NotFoundError for the given resource.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewDuplicate builds a DuplicateError for the given resource field.
func NewDuplicate(resource, field, value string) error {
	return &DuplicateError{Resource: resource, Field: field, Value: value}
}

// NewStorage wraps err as a StorageError for the given operation.
func NewStorage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsDuplicate reports whether err is a duplicate error.
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicate) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsConflict reports whether err is a transaction conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
