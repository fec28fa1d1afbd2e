// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/logging"
	"github.com/cinelog/cinelog/internal/metrics"
	"github.com/cinelog/cinelog/internal/models"
)

// ListUsers returns every account. Records that fail to decode are
// logged and skipped.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	start := time.Now()
	var users []models.User

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(userKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())

			var user models.User
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			})
			if err != nil {
				metrics.StoreCorruptRecords.WithLabelValues("user").Inc()
				logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Skipping corrupt user record")
				continue
			}
			users = append(users, user)
		}
		return nil
	})

	timed("list", "user", start, err)
	if err != nil {
		return nil, apperrors.NewStorage("list users", err)
	}
	return users, nil
}

// GetUser returns one account by id.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	start := time.Now()
	var user models.User

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.NewNotFound("user", id)
		}
		if err != nil {
			return apperrors.NewStorage("get user", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})

	timed("get", "user", start, err)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail returns the account with the given email
// (case-insensitive), or nil when no account has it. Absence is an
// answer here, not an error: registration and profile updates probe
// for free addresses.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, nil
}

// SaveUser upserts an account record.
func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	start := time.Now()
	data, err := json.Marshal(user)
	if err != nil {
		return apperrors.NewStorage("marshal user", err)
	}

	err = s.update("save user", func(txn *badger.Txn) error {
		return txn.Set([]byte(userKeyPrefix+user.ID), data)
	})
	timed("save", "user", start, err)
	return err
}

// DeleteUser removes an account and all of its reviews in one
// transaction. It returns the ids of the movies whose reviews were
// removed so callers can recompute their rollups.
func (s *Store) DeleteUser(ctx context.Context, id string) ([]string, error) {
	start := time.Now()
	var affectedMovies []string

	err := s.update("delete user", func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(userKeyPrefix + id)); errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.NewNotFound("user", id)
		} else if err != nil {
			return err
		}

		var reviewKeys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		prefix := []byte(reviewKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var review models.Review
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &review)
			}); err != nil {
				continue
			}
			if review.UserID == id {
				reviewKeys = append(reviewKeys, item.KeyCopy(nil))
				affectedMovies = append(affectedMovies, review.MovieID)
			}
		}
		it.Close()

		for _, key := range reviewKeys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return txn.Delete([]byte(userKeyPrefix + id))
	})

	timed("delete", "user", start, err)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("user_id", id).
		Int("reviews_removed", len(affectedMovies)).
		Msg("User deleted")
	return affectedMovies, nil
}
