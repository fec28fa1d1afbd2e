// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package reviews

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cinelog/cinelog/internal/models"
)

func TestMovieStats(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	seedReview(t, st, models.Review{ID: "r1", UserID: "u1", MovieID: "m1", Rating: 8.5})
	seedReview(t, st, models.Review{ID: "r2", UserID: "u2", MovieID: "m1", Rating: 6})
	seedReview(t, st, models.Review{ID: "r3", UserID: "u1", MovieID: "m2", Rating: 3})

	stats, err := svc.MovieStats(ctx, "m1")
	if err != nil {
		t.Fatalf("MovieStats: %v", err)
	}
	if stats.TotalReviews != 2 {
		t.Errorf("TotalReviews = %d, want 2", stats.TotalReviews)
	}
	if stats.AverageRating != 7.25 {
		t.Errorf("AverageRating = %v, want 7.25", stats.AverageRating)
	}
	if stats.Histogram[8] != 1 || stats.Histogram[6] != 1 || stats.Histogram[3] != 0 {
		t.Errorf("Histogram = %v", stats.Histogram)
	}
	if stats.Sentiment.Positive != 1 || stats.Sentiment.Neutral != 1 || stats.Sentiment.Negative != 0 {
		t.Errorf("Sentiment = %+v", stats.Sentiment)
	}
}

func TestMovieStatsEmpty(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)

	stats, err := svc.MovieStats(context.Background(), "m1")
	if err != nil {
		t.Fatalf("MovieStats: %v", err)
	}
	if stats.TotalReviews != 0 || stats.AverageRating != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
	// Histogram keys exist even with no reviews.
	if len(stats.Histogram) != 10 {
		t.Errorf("Histogram = %v", stats.Histogram)
	}
}

func TestUserStatsGenrePreferences(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	// m1 is Crime+Drama, m2 is Action.
	seedReview(t, st, models.Review{ID: "r1", UserID: "u1", MovieID: "m1", Rating: 9})
	seedReview(t, st, models.Review{ID: "r2", UserID: "u1", MovieID: "m2", Rating: 5})
	seedReview(t, st, models.Review{ID: "r3", UserID: "u2", MovieID: "m2", Rating: 10})

	stats, err := svc.UserStats(ctx, "u1")
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.TotalReviews != 2 || stats.AverageRating != 7 {
		t.Errorf("stats = %+v", stats)
	}

	// Crime and Drama tie at 9.0 and sort alphabetically; Action at
	// 5.0 comes last.
	if len(stats.GenrePreferences) != 3 {
		t.Fatalf("GenrePreferences = %+v", stats.GenrePreferences)
	}
	wantOrder := []string{"Crime", "Drama", "Action"}
	for i, want := range wantOrder {
		if stats.GenrePreferences[i].Genre != want {
			t.Errorf("GenrePreferences[%d] = %s, want %s", i, stats.GenrePreferences[i].Genre, want)
		}
	}
	if stats.GenrePreferences[0].Percentage != 50 {
		t.Errorf("Crime percentage = %v, want 50", stats.GenrePreferences[0].Percentage)
	}
}

func TestOverallStats(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	long := strings.Repeat("x", 301)

	seedReview(t, st, models.Review{ID: "r1", UserID: "u1", MovieID: "m1", Rating: 9, IsPublic: true, Comment: long, Likes: 6, Tags: []string{"classic"}, CreatedAt: jan})
	seedReview(t, st, models.Review{ID: "r2", UserID: "u2", MovieID: "m1", Rating: 6.5, IsPublic: false, Comment: strings.Repeat("y", 150), CreatedAt: mar})
	seedReview(t, st, models.Review{ID: "r3", UserID: "u1", MovieID: "m2", Rating: 4, IsPublic: true, Comment: "nope", CreatedAt: mar})

	stats, err := svc.OverallStats(ctx)
	if err != nil {
		t.Fatalf("OverallStats: %v", err)
	}
	if stats.TotalReviews != 3 || stats.PublicReviews != 2 {
		t.Errorf("totals = %d/%d, want 3/2", stats.TotalReviews, stats.PublicReviews)
	}
	if stats.AverageRating != 6.5 {
		t.Errorf("AverageRating = %v, want 6.5", stats.AverageRating)
	}
	if stats.Sentiment.Positive != 1 || stats.Sentiment.Neutral != 1 || stats.Sentiment.Negative != 1 {
		t.Errorf("Sentiment = %+v", stats.Sentiment)
	}
	// r1 scores 5 signals (long comment x2, likes x2, tags), r2 scores
	// 1 (comment > 100), r3 scores 0.
	if stats.Quality.Excellent != 1 || stats.Quality.Good != 0 || stats.Quality.Basic != 2 {
		t.Errorf("Quality = %+v", stats.Quality)
	}
	if len(stats.MonthlyGrowth) != 2 {
		t.Fatalf("MonthlyGrowth = %+v", stats.MonthlyGrowth)
	}
	if stats.MonthlyGrowth[0].Month != "2026-01" || stats.MonthlyGrowth[0].Count != 1 {
		t.Errorf("MonthlyGrowth[0] = %+v", stats.MonthlyGrowth[0])
	}
	if stats.MonthlyGrowth[1].Month != "2026-03" || stats.MonthlyGrowth[1].Count != 2 {
		t.Errorf("MonthlyGrowth[1] = %+v", stats.MonthlyGrowth[1])
	}
}

func TestOverallStatsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.OverallStats(context.Background())
	if err != nil {
		t.Fatalf("OverallStats: %v", err)
	}
	if stats.TotalReviews != 0 || stats.AverageRating != 0 || len(stats.MonthlyGrowth) != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
