// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

// Package auth provides password hashing and signed session tokens.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/cinelog/cinelog/internal/apperrors"
)

// ErrInvalidCredentials is returned when a password check fails. It
// unwraps to the unauthorized sentinel so handlers map it to 401.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes a plaintext password with bcrypt at the given
// cost. Cost 0 falls back to the bcrypt default.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against its stored hash.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return errors.Join(ErrInvalidCredentials, apperrors.ErrUnauthorized)
	}
	return nil
}
