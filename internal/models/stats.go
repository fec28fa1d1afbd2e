// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package models

import "time"

// SentimentBreakdown counts reviews per sentiment bucket.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// QualityBreakdown counts reviews per quality grade.
type QualityBreakdown struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Basic     int `json:"basic"`
}

// MovieReviewStats is the per-movie review aggregate. Histogram buckets
// integer ratings 1 through 10 by floor(rating).
type MovieReviewStats struct {
	AverageRating float64            `json:"average_rating"`
	TotalReviews  int                `json:"total_reviews"`
	Histogram     map[int]int        `json:"rating_distribution"`
	Sentiment     SentimentBreakdown `json:"sentiment_distribution"`
}

// GenrePreference describes one genre in a user's review history.
type GenrePreference struct {
	Genre         string  `json:"genre"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
	Percentage    float64 `json:"percentage"`
}

// UserReviewStats is the per-user review aggregate. GenrePreferences is
// sorted by mean rating descending.
type UserReviewStats struct {
	AverageRating    float64           `json:"average_rating"`
	TotalReviews     int               `json:"total_reviews"`
	Histogram        map[int]int       `json:"rating_distribution"`
	GenrePreferences []GenrePreference `json:"genre_preferences"`
}

// MonthCount is one month's tally in a growth series, keyed "YYYY-MM".
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// OverallReviewStats is the site-wide review aggregate.
type OverallReviewStats struct {
	TotalReviews  int                `json:"total_reviews"`
	AverageRating float64            `json:"average_rating"`
	PublicReviews int                `json:"public_reviews"`
	Sentiment     SentimentBreakdown `json:"sentiment_distribution"`
	Quality       QualityBreakdown   `json:"quality_distribution"`
	MonthlyGrowth []MonthCount       `json:"monthly_growth"`
}

// GenreCount is one genre's movie tally.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// DecadeCount is one decade's movie tally.
type DecadeCount struct {
	Decade int `json:"decade"`
	Count  int `json:"count"`
}

// GenreRating is a genre ranked by mean catalog rating.
type GenreRating struct {
	Genre         string  `json:"genre"`
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}

// CatalogStats is the catalog-wide aggregate. RatingHistogram buckets
// movie average ratings into bands "1-2" through "9-10"; unrated movies
// are excluded.
type CatalogStats struct {
	TotalMovies     int            `json:"total_movies"`
	TotalReviews    int            `json:"total_reviews"`
	AverageRating   float64        `json:"average_rating"`
	GenreCounts     []GenreCount   `json:"genre_distribution"`
	DecadeCounts    []DecadeCount  `json:"year_distribution"`
	TopGenres       []GenreRating  `json:"top_genres"`
	RatingHistogram map[string]int `json:"rating_distribution"`
}

// ViewingStats summarizes one user's account: collection sizes, review
// aggregates and genre preferences sorted by review count descending.
type ViewingStats struct {
	MoviesWatched    int               `json:"movies_watched"`
	MoviesPlanned    int               `json:"movies_planned"`
	MoviesFavorited  int               `json:"movies_favorited"`
	TotalReviews     int               `json:"total_reviews"`
	AverageRating    float64           `json:"average_rating"`
	GenrePreferences []GenrePreference `json:"genre_preferences"`
	JoinDate         time.Time         `json:"join_date"`
}

// ActiveUser is one row of the most-active ranking.
type ActiveUser struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// PlatformStats is the site-wide account aggregate.
type PlatformStats struct {
	TotalUsers            int          `json:"total_users"`
	TotalReviews          int          `json:"total_reviews"`
	AverageReviewsPerUser float64      `json:"average_reviews_per_user"`
	MostActiveUsers       []ActiveUser `json:"most_active_users"`
	UserGrowth            []MonthCount `json:"user_growth"`
}

// Activity is one entry of a user's recent activity feed.
type Activity struct {
	Type   string    `json:"type"`
	Date   time.Time `json:"date"`
	Movie  *Movie    `json:"movie,omitempty"`
	Review *Review   `json:"review,omitempty"`
}

// ExportedReview is one row of a user's review export.
type ExportedReview struct {
	MovieTitle string    `json:"movie_title"`
	MovieYear  int       `json:"movie_year,omitempty"`
	Rating     float64   `json:"rating"`
	Comment    string    `json:"comment"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
}
