// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package catalog

import (
	"context"
	"math"
	"sort"

	"github.com/cinelog/cinelog/internal/models"
)

// Featured returns the movie with the highest featured score, where
// score = averageRating * ln(reviewCount+1). Only movies with at least
// one review compete; when none qualify the first catalog movie is
// returned, and an empty catalog yields nil.
func (s *Service) Featured(ctx context.Context) (*models.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, nil
	}

	best := -1
	bestScore := math.Inf(-1)
	for i := range movies {
		if movies[i].AverageRating <= 0 || movies[i].ReviewCount <= 0 {
			continue
		}
		score := movies[i].AverageRating * math.Log(float64(movies[i].ReviewCount)+1)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		best = 0
	}
	return &movies[best], nil
}

// CatalogStats aggregates the whole catalog: totals, genre and decade
// distributions, top genres by mean rating and a rating histogram.
func (s *Service) CatalogStats(ctx context.Context) (*models.CatalogStats, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.CatalogStats{
		TotalMovies:     len(movies),
		TotalReviews:    len(reviews),
		GenreCounts:     genreCounts(movies),
		DecadeCounts:    decadeCounts(movies),
		TopGenres:       topGenres(movies, 5),
		RatingHistogram: ratingHistogram(movies),
	}

	if len(movies) > 0 {
		var total float64
		for i := range movies {
			total += movies[i].AverageRating
		}
		stats.AverageRating = total / float64(len(movies))
	}

	return stats, nil
}

func genreCounts(movies []models.Movie) []models.GenreCount {
	counts := make(map[string]int)
	for i := range movies {
		for _, g := range movies[i].Genres {
			counts[g]++
		}
	}

	out := make([]models.GenreCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, models.GenreCount{Genre: g, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

func decadeCounts(movies []models.Movie) []models.DecadeCount {
	counts := make(map[int]int)
	for i := range movies {
		counts[movies[i].Year/10*10]++
	}

	out := make([]models.DecadeCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, models.DecadeCount{Decade: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Decade > out[j].Decade
	})
	return out
}

func topGenres(movies []models.Movie, limit int) []models.GenreRating {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for i := range movies {
		if movies[i].AverageRating <= 0 {
			continue
		}
		for _, g := range movies[i].Genres {
			totals[g] += movies[i].AverageRating
			counts[g]++
		}
	}

	out := make([]models.GenreRating, 0, len(totals))
	for g := range totals {
		out = append(out, models.GenreRating{
			Genre:         g,
			AverageRating: totals[g] / float64(counts[g]),
			Count:         counts[g],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].Genre < out[j].Genre
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ratingHistogram buckets rated movies into "1-2" .. "9-10" bands.
func ratingHistogram(movies []models.Movie) map[string]int {
	hist := map[string]int{
		"1-2": 0, "2-3": 0, "3-4": 0, "4-5": 0, "5-6": 0,
		"6-7": 0, "7-8": 0, "8-9": 0, "9-10": 0,
	}

	bands := []struct {
		upper float64
		key   string
	}{
		{2, "1-2"}, {3, "2-3"}, {4, "3-4"}, {5, "4-5"}, {6, "5-6"},
		{7, "6-7"}, {8, "7-8"}, {9, "8-9"},
	}

	for i := range movies {
		r := movies[i].AverageRating
		if r <= 0 {
			continue
		}
		key := "9-10"
		for _, b := range bands {
			if r < b.upper {
				key = b.key
				break
			}
		}
		hist[key]++
	}
	return hist
}
