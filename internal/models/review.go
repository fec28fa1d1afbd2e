// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package models

import "time"

// Rating bounds for reviews.
const (
	MinRating = 1.0
	MaxRating = 10.0

	// MaxCommentLength caps review comments.
	MaxCommentLength = 2000
)

// Review is a user's rating and comment for one movie. At most one
// review exists per (user, movie) pair.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	IsPublic  bool      `json:"is_public"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sentiment buckets a rating: 8 and above is positive, 6 and above is
// neutral, anything lower is negative.
func (r *Review) Sentiment() string {
	switch {
	case r.Rating >= 8:
		return "positive"
	case r.Rating >= 6:
		return "neutral"
	default:
		return "negative"
	}
}

// QualityScore totals the signals used to grade a review: comment depth
// (>100 and >300 chars), reception (any likes, more than 5 likes) and
// tagging.
func (r *Review) QualityScore() int {
	score := 0
	if len(r.Comment) > 100 {
		score++
	}
	if len(r.Comment) > 300 {
		score++
	}
	if r.Likes > 0 {
		score++
	}
	if r.Likes > 5 {
		score++
	}
	if len(r.Tags) > 0 {
		score++
	}
	return score
}

// Quality grades a review from its score: 4+ is excellent, 2+ is good,
// the rest basic.
func (r *Review) Quality() string {
	switch score := r.QualityScore(); {
	case score >= 4:
		return "excellent"
	case score >= 2:
		return "good"
	default:
		return "basic"
	}
}

// HasTag reports whether the review carries the given tag.
func (r *Review) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ReviewWithMovie joins a review with its movie for list endpoints.
type ReviewWithMovie struct {
	Review
	MovieTitle string `json:"movie_title"`
	MovieYear  int    `json:"movie_year"`
}
