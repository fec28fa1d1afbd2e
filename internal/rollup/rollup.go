// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

// Package rollup recomputes the denormalized statistics stored on movie
// and user records. Every mutation of reviews or collections goes
// through here so the rollups always equal what a full scan would
// produce.
//
// The scans count every review carrying the target id without checking
// that its MovieID still resolves: movie and user deletes remove the
// dependent reviews in the same badger transaction (store.DeleteMovie,
// store.DeleteUser), so a listed review never references a deleted
// movie.
package rollup

import (
	"context"
	"time"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/store"
)

func touch(t *time.Time) {
	*t = time.Now().UTC()
}

// RecomputeMovie recalculates a movie's AverageRating and ReviewCount
// from its live reviews and persists the record. A missing movie is a
// no-op: the cascade that removed it already took its reviews along.
func RecomputeMovie(ctx context.Context, st *store.Store, movieID string) error {
	movie, err := st.GetMovie(ctx, movieID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	}

	reviews, err := st.ListReviews(ctx)
	if err != nil {
		return err
	}

	var total float64
	count := 0
	for i := range reviews {
		if reviews[i].MovieID == movieID {
			total += reviews[i].Rating
			count++
		}
	}

	if count > 0 {
		movie.AverageRating = total / float64(count)
	} else {
		movie.AverageRating = 0
	}
	movie.ReviewCount = count
	touch(&movie.UpdatedAt)

	return st.SaveMovie(ctx, movie)
}

// RecomputeUser recalculates a user's rollup from their collections and
// reviews and persists the record. A missing user is a no-op.
func RecomputeUser(ctx context.Context, st *store.Store, userID string) error {
	user, err := st.GetUser(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	}

	reviews, err := st.ListReviews(ctx)
	if err != nil {
		return err
	}

	var total float64
	count := 0
	for i := range reviews {
		if reviews[i].UserID == userID {
			total += reviews[i].Rating
			count++
		}
	}

	user.Stats = models.UserRollup{
		MoviesWatched:   len(user.Collections.Watched),
		MoviesPlanned:   len(user.Collections.Planned),
		MoviesFavorited: len(user.Collections.Favorites),
		TotalReviews:    count,
	}
	if count > 0 {
		user.Stats.AverageRating = total / float64(count)
	}
	touch(&user.UpdatedAt)

	return st.SaveUser(ctx, user)
}
