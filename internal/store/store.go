// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

// Package store persists Cinelog records in BadgerDB, one JSON value per
// key. Key layout:
//
//	movie:<id>    catalog entries
//	user:<id>     accounts
//	review:<id>   reviews
//	session:current  the signed-in user's id
//	settings      the single instance settings record
//
// All writes run inside badger transactions; a conflicting concurrent
// write surfaces as apperrors.ErrConflict. Reads fail soft: a value that
// no longer decodes is logged, counted and skipped rather than aborting
// the listing.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/logging"
	"github.com/cinelog/cinelog/internal/metrics"
)

// Key prefixes for BadgerDB storage.
const (
	movieKeyPrefix  = "movie:"
	userKeyPrefix   = "user:"
	reviewKeyPrefix = "review:"

	sessionKey  = "session:current"
	settingsKey = "settings"
)

// Store is the BadgerDB-backed record store.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at the configured path.
func Open(cfg config.StorageConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Store opened")

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database accepts reads. Used by readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(settingsKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// RunGC runs one round of value-log garbage collection. It returns
// badger.ErrNoRewrite when nothing was reclaimed.
func (s *Store) RunGC(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	switch {
	case err == nil:
		metrics.RecordGCRun("reclaimed")
	case errors.Is(err, badger.ErrNoRewrite):
		metrics.RecordGCRun("nothing")
	default:
		metrics.RecordGCRun("error")
	}
	return err
}

// update runs fn in a write transaction, mapping badger conflicts to
// apperrors.ErrConflict and other failures to StorageError.
func (s *Store) update(op string, fn func(txn *badger.Txn) error) error {
	err := s.db.Update(fn)
	if err == nil {
		return nil
	}
	// Typed domain errors pass through untouched.
	if apperrors.IsNotFound(err) || apperrors.IsValidation(err) || apperrors.IsDuplicate(err) {
		return err
	}
	if errors.Is(err, badger.ErrConflict) {
		metrics.StoreConflicts.Inc()
		return fmt.Errorf("%s: %w", op, apperrors.ErrConflict)
	}
	return apperrors.NewStorage(op, err)
}

// timed records one store operation's duration and outcome.
func timed(op, kind string, start time.Time, err error) {
	metrics.RecordStoreOp(op, kind, time.Since(start), err)
}
