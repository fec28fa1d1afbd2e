// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

// Package reviews implements review lifecycle and engagement: CRUD
// with the one-review-per-user-per-movie rule, likes, tags, search and
// rating aggregates.
package reviews

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/logging"
	"github.com/cinelog/cinelog/internal/metrics"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/rollup"
	"github.com/cinelog/cinelog/internal/store"
	"github.com/cinelog/cinelog/internal/validation"
)

// trendingWindow bounds how old a review may be and still trend.
const trendingWindow = 7 * 24 * time.Hour

// Service provides review operations on top of the record store.
type Service struct {
	store *store.Store
}

// New creates a review service.
func New(st *store.Store) *Service {
	return &Service{store: st}
}

// ReviewInput carries the fields for creating a review.
type ReviewInput struct {
	UserID   string   `validate:"required"`
	MovieID  string   `validate:"required"`
	Rating   float64  `validate:"required,min=1,max=10"`
	Comment  string   `validate:"required,max=2000"`
	Tags     []string `validate:"max=20"`
	IsPublic *bool
}

// ReviewPatch carries optional field updates. Nil fields are untouched.
type ReviewPatch struct {
	Rating   *float64  `validate:"omitempty,min=1,max=10"`
	Comment  *string   `validate:"omitempty,max=2000"`
	Tags     *[]string `validate:"omitempty,max=20"`
	IsPublic *bool
}

// List returns all reviews, unsorted.
func (s *Service) List(ctx context.Context) ([]models.Review, error) {
	return s.store.ListReviews(ctx)
}

// Get returns one review by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Review, error) {
	return s.store.GetReview(ctx, id)
}

// ForMovie returns all reviews of one movie.
func (s *Service) ForMovie(ctx context.Context, movieID string) ([]models.Review, error) {
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	return filterReviews(reviews, func(r *models.Review) bool {
		return r.MovieID == movieID
	}), nil
}

// ForUser returns all reviews written by one user.
func (s *Service) ForUser(ctx context.Context, userID string) ([]models.Review, error) {
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	return filterReviews(reviews, func(r *models.Review) bool {
		return r.UserID == userID
	}), nil
}

// UserMovieReview returns the user's review of a movie, or nil when
// they have not reviewed it.
func (s *Service) UserMovieReview(ctx context.Context, userID, movieID string) (*models.Review, error) {
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].UserID == userID && reviews[i].MovieID == movieID {
			return &reviews[i], nil
		}
	}
	return nil, nil
}

// HasReviewed reports whether the user already reviewed the movie.
func (s *Service) HasReviewed(ctx context.Context, userID, movieID string) (bool, error) {
	review, err := s.UserMovieReview(ctx, userID, movieID)
	if err != nil {
		return false, err
	}
	return review != nil, nil
}

// Add validates and stores a new review, then recomputes the movie and
// user rollups. The movie and user must exist, and each user gets one
// review per movie.
func (s *Service) Add(ctx context.Context, input ReviewInput) (*models.Review, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, apperrors.NewValidation("", err.Error())
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, apperrors.NewValidation("comment", "comment must not be blank")
	}

	if _, err := s.store.GetMovie(ctx, input.MovieID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	existing, err := s.UserMovieReview(ctx, input.UserID, input.MovieID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewDuplicate("review", "movie_id", input.MovieID)
	}

	now := time.Now().UTC()
	review := &models.Review{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		MovieID:   input.MovieID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		IsPublic:  true,
		Tags:      input.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.IsPublic != nil {
		review.IsPublic = *input.IsPublic
	}
	if review.Tags == nil {
		review.Tags = []string{}
	}

	if err := s.store.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	if err := s.recomputeRelated(ctx, review.MovieID, review.UserID); err != nil {
		return nil, err
	}

	metrics.ReviewsCreated.Inc()
	logging.Ctx(ctx).Info().
		Str("review_id", review.ID).
		Str("movie_id", review.MovieID).
		Str("user_id", review.UserID).
		Float64("rating", review.Rating).
		Msg("Review added")
	return review, nil
}

// Update applies a patch to an existing review and recomputes the
// affected rollups.
func (s *Service) Update(ctx context.Context, id string, patch ReviewPatch) (*models.Review, error) {
	if err := validation.ValidateStruct(&patch); err != nil {
		return nil, apperrors.NewValidation("", err.Error())
	}
	if patch.Comment != nil && strings.TrimSpace(*patch.Comment) == "" {
		return nil, apperrors.NewValidation("comment", "comment must not be blank")
	}

	review, err := s.store.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Rating != nil {
		review.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		review.Comment = *patch.Comment
	}
	if patch.Tags != nil {
		review.Tags = *patch.Tags
	}
	if patch.IsPublic != nil {
		review.IsPublic = *patch.IsPublic
	}
	review.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	if err := s.recomputeRelated(ctx, review.MovieID, review.UserID); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review and recomputes the affected rollups.
func (s *Service) Delete(ctx context.Context, id string) error {
	review, err := s.store.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteReview(ctx, id); err != nil {
		return err
	}
	if err := s.recomputeRelated(ctx, review.MovieID, review.UserID); err != nil {
		return err
	}
	metrics.ReviewsDeleted.Inc()
	return nil
}

// Like bumps a review's like counter.
func (s *Service) Like(ctx context.Context, id string) (*models.Review, error) {
	return s.mutate(ctx, id, func(r *models.Review) {
		r.Likes++
	})
}

// Dislike bumps a review's dislike counter.
func (s *Service) Dislike(ctx context.Context, id string) (*models.Review, error) {
	return s.mutate(ctx, id, func(r *models.Review) {
		r.Dislikes++
	})
}

// AddTag appends a tag to a review. Adding an existing tag is a no-op.
func (s *Service) AddTag(ctx context.Context, id, tag string) (*models.Review, error) {
	return s.mutate(ctx, id, func(r *models.Review) {
		if !r.HasTag(tag) {
			r.Tags = append(r.Tags, tag)
		}
	})
}

// RemoveTag drops a tag from a review. Removing an absent tag is a
// no-op.
func (s *Service) RemoveTag(ctx context.Context, id, tag string) (*models.Review, error) {
	return s.mutate(ctx, id, func(r *models.Review) {
		for i, t := range r.Tags {
			if t == tag {
				r.Tags = append(r.Tags[:i], r.Tags[i+1:]...)
				return
			}
		}
	})
}

// Recent returns up to limit reviews, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.Review, error) {
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return truncateReviews(reviews, limit), nil
}

// Top returns up to limit public reviews, most liked first.
func (s *Service) Top(ctx context.Context, limit int) ([]models.Review, error) {
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	public := filterReviews(reviews, func(r *models.Review) bool {
		return r.IsPublic
	})
	sort.SliceStable(public, func(i, j int) bool {
		return public[i].Likes > public[j].Likes
	})
	return truncateReviews(public, limit), nil
}

// ByRatingRange returns reviews with minRating <= rating <= maxRating.
func (s *Service) ByRatingRange(ctx context.Context, minRating, maxRating float64) ([]models.Review, error) {
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	return filterReviews(reviews, func(r *models.Review) bool {
		return r.Rating >= minRating && r.Rating <= maxRating
	}), nil
}

// Search returns public reviews whose comment or tags contain the
// query, case-insensitively. Queries shorter than two characters yield
// no results.
func (s *Service) Search(ctx context.Context, query string) ([]models.Review, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 {
		return []models.Review{}, nil
	}

	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	return filterReviews(reviews, func(r *models.Review) bool {
		if !r.IsPublic {
			return false
		}
		if strings.Contains(strings.ToLower(r.Comment), q) {
			return true
		}
		for _, tag := range r.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	}), nil
}

// Trending returns up to limit public reviews from the last week,
// ordered by engagement: (likes+1) / sqrt(daysOld+1).
func (s *Service) Trending(ctx context.Context, limit int) ([]models.Review, error) {
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cutoff := now.Add(-trendingWindow)
	recent := filterReviews(reviews, func(r *models.Review) bool {
		return r.IsPublic && r.CreatedAt.After(cutoff)
	})

	score := func(r *models.Review) float64 {
		days := now.Sub(r.CreatedAt).Hours() / 24
		return float64(r.Likes+1) / math.Sqrt(days+1)
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return score(&recent[i]) > score(&recent[j])
	})
	return truncateReviews(recent, limit), nil
}

// WithMovies joins reviews with their movie's title and year. Reviews
// whose movie no longer exists are dropped.
func (s *Service) WithMovies(ctx context.Context) ([]models.ReviewWithMovie, error) {
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Movie, len(movies))
	for i := range movies {
		byID[movies[i].ID] = &movies[i]
	}

	out := make([]models.ReviewWithMovie, 0, len(reviews))
	for i := range reviews {
		movie, ok := byID[reviews[i].MovieID]
		if !ok {
			continue
		}
		out = append(out, models.ReviewWithMovie{
			Review:     reviews[i],
			MovieTitle: movie.Title,
			MovieYear:  movie.Year,
		})
	}
	return out, nil
}

// ExportForUser returns a user's reviews joined with movie titles, for
// download. Reviews of deleted movies keep their data under an unknown
// title.
func (s *Service) ExportForUser(ctx context.Context, userID string) ([]models.ExportedReview, error) {
	reviews, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Movie, len(movies))
	for i := range movies {
		byID[movies[i].ID] = &movies[i]
	}

	out := make([]models.ExportedReview, 0, len(reviews))
	for i := range reviews {
		exported := models.ExportedReview{
			MovieTitle: "Unknown Movie",
			Rating:     reviews[i].Rating,
			Comment:    reviews[i].Comment,
			Tags:       reviews[i].Tags,
			CreatedAt:  reviews[i].CreatedAt,
		}
		if movie, ok := byID[reviews[i].MovieID]; ok {
			exported.MovieTitle = movie.Title
			exported.MovieYear = movie.Year
		}
		out = append(out, exported)
	}
	return out, nil
}

// mutate loads a review, applies fn and saves it.
func (s *Service) mutate(ctx context.Context, id string, fn func(*models.Review)) (*models.Review, error) {
	review, err := s.store.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(review)
	review.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Service) recomputeRelated(ctx context.Context, movieID, userID string) error {
	if err := rollup.RecomputeMovie(ctx, s.store, movieID); err != nil {
		return err
	}
	return rollup.RecomputeUser(ctx, s.store, userID)
}

func filterReviews(reviews []models.Review, keep func(*models.Review) bool) []models.Review {
	out := reviews[:0:0]
	for i := range reviews {
		if keep(&reviews[i]) {
			out = append(out, reviews[i])
		}
	}
	return out
}

func truncateReviews(reviews []models.Review, limit int) []models.Review {
	if limit > 0 && len(reviews) > limit {
		return reviews[:limit]
	}
	return reviews
}
