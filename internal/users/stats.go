// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package users

import (
	"context"
	"sort"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/models"
)

// ViewingStats summarizes one user's account: collection sizes, review
// aggregates and genre preferences ranked by how often the user
// reviews each genre.
func (s *Service) ViewingStats(ctx context.Context, userID string) (*models.ViewingStats, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	mine := reviews[:0:0]
	for i := range reviews {
		if reviews[i].UserID == userID {
			mine = append(mine, reviews[i])
		}
	}

	stats := &models.ViewingStats{
		MoviesWatched:    user.Stats.MoviesWatched,
		MoviesPlanned:    user.Stats.MoviesPlanned,
		MoviesFavorited:  user.Stats.MoviesFavorited,
		TotalReviews:     user.Stats.TotalReviews,
		AverageRating:    user.Stats.AverageRating,
		GenrePreferences: []models.GenrePreference{},
		JoinDate:         user.CreatedAt,
	}
	if len(mine) == 0 {
		return stats, nil
	}

	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Movie, len(movies))
	for i := range movies {
		byID[movies[i].ID] = &movies[i]
	}

	genreTotals := make(map[string]float64)
	genreCounts := make(map[string]int)
	for i := range mine {
		movie, ok := byID[mine[i].MovieID]
		if !ok {
			continue
		}
		for _, g := range movie.Genres {
			genreTotals[g] += mine[i].Rating
			genreCounts[g]++
		}
	}

	for g := range genreCounts {
		stats.GenrePreferences = append(stats.GenrePreferences, models.GenrePreference{
			Genre:         g,
			Count:         genreCounts[g],
			AverageRating: genreTotals[g] / float64(genreCounts[g]),
			Percentage:    float64(genreCounts[g]) / float64(len(mine)) * 100,
		})
	}
	sort.Slice(stats.GenrePreferences, func(i, j int) bool {
		a, b := &stats.GenrePreferences[i], &stats.GenrePreferences[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Genre < b.Genre
	})
	return stats, nil
}

// RecentActivity returns up to limit entries of the user's activity
// feed, newest first. Each review becomes one entry joined with its
// movie when it still exists.
func (s *Service) RecentActivity(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	mine := reviews[:0:0]
	for i := range reviews {
		if reviews[i].UserID == userID {
			mine = append(mine, reviews[i])
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})
	if limit > 0 && len(mine) > limit {
		mine = mine[:limit]
	}

	out := make([]models.Activity, 0, len(mine))
	for i := range mine {
		entry := models.Activity{
			Type:   "review",
			Date:   mine[i].CreatedAt,
			Review: &mine[i],
		}
		movie, err := s.store.GetMovie(ctx, mine[i].MovieID)
		if err == nil {
			entry.Movie = movie
		} else if !apperrors.IsNotFound(err) {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// MostActive ranks up to limit users by review count.
func (s *Service) MostActive(ctx context.Context, limit int) ([]models.ActiveUser, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Stats.TotalReviews > users[j].Stats.TotalReviews
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}

	out := make([]models.ActiveUser, 0, len(users))
	for i := range users {
		out = append(out, models.ActiveUser{
			ID:            users[i].ID,
			Username:      users[i].Username,
			ReviewCount:   users[i].Stats.TotalReviews,
			AverageRating: users[i].Stats.AverageRating,
		})
	}
	return out, nil
}

// PlatformStats aggregates all accounts: totals, the five most active
// reviewers and a signup growth series sorted by month.
func (s *Service) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}

	mostActive, err := s.MostActive(ctx, 5)
	if err != nil {
		return nil, err
	}

	stats := &models.PlatformStats{
		TotalUsers:      len(users),
		TotalReviews:    len(reviews),
		MostActiveUsers: mostActive,
		UserGrowth:      []models.MonthCount{},
	}
	if len(users) > 0 {
		stats.AverageReviewsPerUser = float64(len(reviews)) / float64(len(users))
	}

	months := make(map[string]int)
	for i := range users {
		months[users[i].CreatedAt.Format("2006-01")]++
	}
	for month, count := range months {
		stats.UserGrowth = append(stats.UserGrowth, models.MonthCount{Month: month, Count: count})
	}
	sort.Slice(stats.UserGrowth, func(i, j int) bool {
		return stats.UserGrowth[i].Month < stats.UserGrowth[j].Month
	})
	return stats, nil
}
