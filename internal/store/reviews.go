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
	"github.com/goccy/go-json"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/logging"
	"github.com/cinelog/cinelog/internal/metrics"
	"github.com/cinelog/cinelog/internal/models"
)

// ListReviews returns every stored review. Records that fail to decode
// are logged and skipped.
func (s *Store) ListReviews(ctx context.Context) ([]models.Review, error) {
	start := time.Now()
	var reviews []models.Review

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(reviewKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())

			var review models.Review
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &review)
			})
			if err != nil {
				metrics.StoreCorruptRecords.WithLabelValues("review").Inc()
				logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Skipping corrupt review record")
				continue
			}
			reviews = append(reviews, review)
		}
		return nil
	})

	timed("list", "review", start, err)
	if err != nil {
		return nil, apperrors.NewStorage("list reviews", err)
	}
	return reviews, nil
}

// GetReview returns one review by id.
func (s *Store) GetReview(ctx context.Context, id string) (*models.Review, error) {
	start := time.Now()
	var review models.Review

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(reviewKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.NewNotFound("review", id)
		}
		if err != nil {
			return apperrors.NewStorage("get review", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &review)
		})
	})

	timed("get", "review", start, err)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// SaveReview upserts a review record.
func (s *Store) SaveReview(ctx context.Context, review *models.Review) error {
	start := time.Now()
	data, err := json.Marshal(review)
	if err != nil {
		return apperrors.NewStorage("marshal review", err)
	}

	err = s.update("save review", func(txn *badger.Txn) error {
		return txn.Set([]byte(reviewKeyPrefix+review.ID), data)
	})
	timed("save", "review", start, err)
	return err
}

// DeleteReview removes a review by id. Deleting an absent review
// returns NotFoundError.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	start := time.Now()

	err := s.update("delete review", func(txn *badger.Txn) error {
		key := []byte(reviewKeyPrefix + id)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.NewNotFound("review", id)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})

	timed("delete", "review", start, err)
	return err
}
