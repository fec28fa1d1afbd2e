// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", NewNotFound("movie", "m1"), ErrNotFound},
		{"duplicate", NewDuplicate("user", "username", "alice"), ErrDuplicate},
		{"validation", NewValidation("rating", "must be between 1 and 10"), ErrValidation},
		{"storage", NewStorage("get movie:m1", errors.New("disk failure")), ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{NewNotFound("movie", "m1"), "movie 'm1' not found"},
		{NewDuplicate("user", "username", "alice"), "user with username 'alice' already exists"},
		{NewValidation("rating", "must be between 1 and 10"), "rating: must be between 1 and 10"},
		{NewValidation("", "comment is required"), "comment is required"},
		{NewStorage("put movie:m1", errors.New("closed")), "storage: put movie:m1: closed"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("disk failure")
	err := NewStorage("get", inner)

	if !errors.Is(err, inner) {
		t.Error("expected StorageError to unwrap to inner error")
	}
}

func TestWrappedChain(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("add review: %w", NewNotFound("movie", "m1"))

	if !IsNotFound(err) {
		t.Error("expected IsNotFound to see through fmt.Errorf wrapping")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("expected errors.As to extract NotFoundError")
	}
	if nf.Resource != "movie" || nf.ID != "m1" {
		t.Errorf("unexpected fields: %+v", nf)
	}
}

func TestIsHelpers(t *testing.T) {
	t.Parallel()

	if !IsValidation(NewValidation("x", "bad")) {
		t.Error("IsValidation failed")
	}
	if !IsDuplicate(NewDuplicate("movie", "title", "Heat")) {
		t.Error("IsDuplicate failed")
	}
	if !IsConflict(ErrConflict) {
		t.Error("IsConflict failed")
	}
	if IsNotFound(errors.New("other")) {
		t.Error("IsNotFound matched unrelated error")
	}
}
