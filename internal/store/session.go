// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/cinelog/cinelog/internal/apperrors"
)

// SessionUserID returns the id of the signed-in user, or empty string
// when no session exists. Only the id is stored; the user record is
// always re-fetched so a stale profile can never be served.
func (s *Store) SessionUserID(ctx context.Context) (string, error) {
	start := time.Now()
	var userID string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		})
	})

	timed("get", "session", start, err)
	if err != nil {
		return "", apperrors.NewStorage("get session", err)
	}
	return userID, nil
}

// SetSessionUser records userID as the signed-in user.
func (s *Store) SetSessionUser(ctx context.Context, userID string) error {
	start := time.Now()
	err := s.update("set session", func(txn *badger.Txn) error {
		return txn.Set([]byte(sessionKey), []byte(userID))
	})
	timed("save", "session", start, err)
	return err
}

// ClearSession removes the session pointer. Clearing an absent session
// is a no-op.
func (s *Store) ClearSession(ctx context.Context) error {
	start := time.Now()
	err := s.update("clear session", func(txn *badger.Txn) error {
		err := txn.Delete([]byte(sessionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	timed("delete", "session", start, err)
	return err
}
