// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package reviews

import (
	"context"
	"math"
	"sort"

	"github.com/cinelog/cinelog/internal/models"
)

// MovieStats aggregates the reviews of one movie: mean rating to two
// decimals, a floor(rating) histogram over 1..10 and a sentiment
// breakdown. Reviews of deleted movies cannot appear here: the delete
// cascade removes them in the same store transaction as the movie.
func (s *Service) MovieStats(ctx context.Context, movieID string) (*models.MovieReviewStats, error) {
	reviews, err := s.ForMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	stats := &models.MovieReviewStats{
		TotalReviews: len(reviews),
		Histogram:    emptyHistogram(),
	}
	if len(reviews) == 0 {
		return stats, nil
	}

	var total float64
	for i := range reviews {
		total += reviews[i].Rating
		stats.Histogram[int(math.Floor(reviews[i].Rating))]++
		countSentiment(&stats.Sentiment, &reviews[i])
	}
	stats.AverageRating = round2(total / float64(len(reviews)))
	return stats, nil
}

// UserStats aggregates the reviews of one user: mean rating, histogram
// and genre preferences ranked by the user's mean rating per genre.
func (s *Service) UserStats(ctx context.Context, userID string) (*models.UserReviewStats, error) {
	reviews, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.UserReviewStats{
		TotalReviews:     len(reviews),
		Histogram:        emptyHistogram(),
		GenrePreferences: []models.GenrePreference{},
	}
	if len(reviews) == 0 {
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

	var total float64
	genreTotals := make(map[string]float64)
	genreCounts := make(map[string]int)
	for i := range reviews {
		total += reviews[i].Rating
		stats.Histogram[int(math.Floor(reviews[i].Rating))]++

		movie, ok := byID[reviews[i].MovieID]
		if !ok {
			continue
		}
		for _, g := range movie.Genres {
			genreTotals[g] += reviews[i].Rating
			genreCounts[g]++
		}
	}
	stats.AverageRating = round2(total / float64(len(reviews)))

	for g := range genreCounts {
		stats.GenrePreferences = append(stats.GenrePreferences, models.GenrePreference{
			Genre:         g,
			Count:         genreCounts[g],
			AverageRating: genreTotals[g] / float64(genreCounts[g]),
			Percentage:    float64(genreCounts[g]) / float64(len(reviews)) * 100,
		})
	}
	sort.Slice(stats.GenrePreferences, func(i, j int) bool {
		a, b := &stats.GenrePreferences[i], &stats.GenrePreferences[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		return a.Genre < b.Genre
	})
	return stats, nil
}

// OverallStats aggregates every review on the site: totals, sentiment
// and quality breakdowns and a monthly growth series sorted by month.
func (s *Service) OverallStats(ctx context.Context) (*models.OverallReviewStats, error) {
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.OverallReviewStats{
		TotalReviews:  len(reviews),
		MonthlyGrowth: []models.MonthCount{},
	}
	if len(reviews) == 0 {
		return stats, nil
	}

	var total float64
	months := make(map[string]int)
	for i := range reviews {
		r := &reviews[i]
		total += r.Rating
		if r.IsPublic {
			stats.PublicReviews++
		}
		countSentiment(&stats.Sentiment, r)
		switch r.Quality() {
		case "excellent":
			stats.Quality.Excellent++
		case "good":
			stats.Quality.Good++
		default:
			stats.Quality.Basic++
		}
		months[r.CreatedAt.Format("2006-01")]++
	}
	stats.AverageRating = round2(total / float64(len(reviews)))

	for month, count := range months {
		stats.MonthlyGrowth = append(stats.MonthlyGrowth, models.MonthCount{Month: month, Count: count})
	}
	sort.Slice(stats.MonthlyGrowth, func(i, j int) bool {
		return stats.MonthlyGrowth[i].Month < stats.MonthlyGrowth[j].Month
	})
	return stats, nil
}

func countSentiment(b *models.SentimentBreakdown, r *models.Review) {
	switch r.Sentiment() {
	case "positive":
		b.Positive++
	case "neutral":
		b.Neutral++
	default:
		b.Negative++
	}
}

func emptyHistogram() map[int]int {
	hist := make(map[int]int, int(models.MaxRating))
	for i := int(models.MinRating); i <= int(models.MaxRating); i++ {
		hist[i] = 0
	}
	return hist
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
