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

// ListMovies returns every movie in the catalog. Records that fail to
// decode are logged and skipped.
func (s *Store) ListMovies(ctx context.Context) ([]models.Movie, error) {
	start := time.Now()
	var movies []models.Movie

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(movieKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())

			var movie models.Movie
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &movie)
			})
			if err != nil {
				metrics.StoreCorruptRecords.WithLabelValues("movie").Inc()
				logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Skipping corrupt movie record")
				continue
			}
			movies = append(movies, movie)
		}
		return nil
	})

	timed("list", "movie", start, err)
	if err != nil {
		return nil, apperrors.NewStorage("list movies", err)
	}
	return movies, nil
}

// GetMovie returns one movie by id.
func (s *Store) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	start := time.Now()
	var movie models.Movie

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(movieKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.NewNotFound("movie", id)
		}
		if err != nil {
			return apperrors.NewStorage("get movie", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &movie)
		})
	})

	timed("get", "movie", start, err)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// SaveMovie upserts a movie record.
func (s *Store) SaveMovie(ctx context.Context, movie *models.Movie) error {
	start := time.Now()
	data, err := json.Marshal(movie)
	if err != nil {
		return apperrors.NewStorage("marshal movie", err)
	}

	err = s.update("save movie", func(txn *badger.Txn) error {
		return txn.Set([]byte(movieKeyPrefix+movie.ID), data)
	})
	timed("save", "movie", start, err)
	return err
}

// DeleteMovie removes a movie and all of its reviews in one
// transaction. It returns the ids of the users whose reviews were
// removed so callers can recompute their rollups.
func (s *Store) DeleteMovie(ctx context.Context, id string) ([]string, error) {
	start := time.Now()
	var affectedUsers []string

	err := s.update("delete movie", func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(movieKeyPrefix + id)); errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.NewNotFound("movie", id)
		} else if err != nil {
			return err
		}

		// Collect this movie's review keys before mutating.
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
			if review.MovieID == id {
				reviewKeys = append(reviewKeys, item.KeyCopy(nil))
				affectedUsers = append(affectedUsers, review.UserID)
			}
		}
		it.Close()

		for _, key := range reviewKeys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return txn.Delete([]byte(movieKeyPrefix + id))
	})

	timed("delete", "movie", start, err)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("movie_id", id).
		Int("reviews_removed", len(affectedUsers)).
		Msg("Movie deleted")
	return affectedUsers, nil
}
