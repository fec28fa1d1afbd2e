// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

// Package users implements account management: registration, login
// sessions, profiles, collections, recommendations and account-level
// statistics.
package users

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/logging"
	"github.com/cinelog/cinelog/internal/metrics"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/rollup"
	"github.com/cinelog/cinelog/internal/store"
	"github.com/cinelog/cinelog/internal/validation"
)

// Service provides account operations on top of the record store.
type Service struct {
	store      *store.Store
	bcryptCost int
}

// New creates a user service. bcryptCost 0 uses the bcrypt default.
func New(st *store.Store, bcryptCost int) *Service {
	return &Service{store: st, bcryptCost: bcryptCost}
}

// RegisterInput carries the fields for creating an account.
type RegisterInput struct {
	Username       string `validate:"required,min=3,max=30"`
	Email          string `validate:"required,email"`
	Password       string `validate:"required,min=8,max=72"`
	Bio            string `validate:"max=500"`
	FavoriteGenres []string
}

// ProfilePatch carries optional profile updates. Nil fields are
// untouched.
type ProfilePatch struct {
	Username       *string `validate:"omitempty,min=3,max=30"`
	Email          *string `validate:"omitempty,email"`
	Bio            *string `validate:"omitempty,max=500"`
	FavoriteGenres *[]string
	Avatar         *string `validate:"omitempty,url"`
}

// PreferencesPatch carries optional preference updates.
type PreferencesPatch struct {
	Notifications *bool
	PublicProfile *bool
	Theme         *string `validate:"omitempty,oneof=light dark"`
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// Get returns one user by id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// Register validates and stores a new account. Emails are unique,
// compared case-insensitively.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, apperrors.NewValidation("", err.Error())
	}

	if existing, err := s.store.FindUserByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.NewDuplicate("user", "email", input.Email)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:             uuid.New().String(),
		Username:       input.Username,
		Email:          input.Email,
		PasswordHash:   hash,
		Bio:            input.Bio,
		FavoriteGenres: input.FavoriteGenres,
		Collections: models.Collections{
			Watched:   []string{},
			Planned:   []string{},
			Favorites: []string{},
		},
		Preferences: models.DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if user.FavoriteGenres == nil {
		user.FavoriteGenres = []string{}
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	metrics.UsersRegistered.Inc()
	logging.Ctx(ctx).Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// Login checks credentials and opens a session for the user.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		metrics.RecordLogin(false)
		return nil, auth.ErrInvalidCredentials
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		metrics.RecordLogin(false)
		return nil, err
	}

	if err := s.store.SetSessionUser(ctx, user.ID); err != nil {
		return nil, err
	}

	metrics.RecordLogin(true)
	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("User logged in")
	return user, nil
}

// Logout closes the current session. A missing session is a no-op.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.ClearSession(ctx)
}

// CurrentUser returns the logged-in user, or nil when no session is
// open. A session pointing at a deleted account is cleared.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	userID, err := s.store.SessionUserID(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			if clearErr := s.store.ClearSession(ctx); clearErr != nil {
				return nil, clearErr
			}
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a patch to a user's profile fields. Changing
// the email to one held by another account fails with a duplicate
// error.
func (s *Service) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*models.User, error) {
	if err := validation.ValidateStruct(&patch); err != nil {
		return nil, apperrors.NewValidation("", err.Error())
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && !strings.EqualFold(*patch.Email, user.Email) {
		if existing, err := s.store.FindUserByEmail(ctx, *patch.Email); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, apperrors.NewDuplicate("user", "email", *patch.Email)
		}
		user.Email = *patch.Email
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.FavoriteGenres != nil {
		user.FavoriteGenres = *patch.FavoriteGenres
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePreferences merges a patch into a user's preferences.
func (s *Service) UpdatePreferences(ctx context.Context, id string, patch PreferencesPatch) (*models.User, error) {
	if err := validation.ValidateStruct(&patch); err != nil {
		return nil, apperrors.NewValidation("", err.Error())
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Notifications != nil {
		user.Preferences.Notifications = *patch.Notifications
	}
	if patch.PublicProfile != nil {
		user.Preferences.PublicProfile = *patch.PublicProfile
	}
	if patch.Theme != nil {
		user.Preferences.Theme = *patch.Theme
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AddToCollection puts a movie into one of the user's buckets and
// recomputes the rollup. Re-adding is a no-op.
func (s *Service) AddToCollection(ctx context.Context, userID, movieID, bucket string) error {
	if !models.ValidCollection(bucket) {
		return apperrors.NewValidation("collection", "unknown collection "+bucket)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.store.GetMovie(ctx, movieID); err != nil {
		return err
	}
	if user.Collections.Contains(bucket, movieID) {
		return nil
	}

	user.Collections.SetBucket(bucket, append(user.Collections.Bucket(bucket), movieID))
	user.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveUser(ctx, user); err != nil {
		return err
	}
	return rollup.RecomputeUser(ctx, s.store, userID)
}

// RemoveFromCollection drops a movie from one of the user's buckets
// and recomputes the rollup. Removing an absent movie is a no-op.
func (s *Service) RemoveFromCollection(ctx context.Context, userID, movieID, bucket string) error {
	if !models.ValidCollection(bucket) {
		return apperrors.NewValidation("collection", "unknown collection "+bucket)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.Collections.Contains(bucket, movieID) {
		return nil
	}

	ids := user.Collections.Bucket(bucket)
	kept := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	user.Collections.SetBucket(bucket, kept)
	user.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveUser(ctx, user); err != nil {
		return err
	}
	return rollup.RecomputeUser(ctx, s.store, userID)
}

// IsInCollection reports whether the movie sits in the user's bucket.
// Unknown users and buckets report false.
func (s *Service) IsInCollection(ctx context.Context, userID, movieID, bucket string) (bool, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return user.Collections.Contains(bucket, movieID), nil
}

// Collection returns the movies in one of the user's buckets, in
// insertion order. Ids of deleted movies are skipped.
func (s *Service) Collection(ctx context.Context, userID, bucket string) ([]models.Movie, error) {
	if !models.ValidCollection(bucket) {
		return nil, apperrors.NewValidation("collection", "unknown collection "+bucket)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := []models.Movie{}
	for _, movieID := range user.Collections.Bucket(bucket) {
		movie, err := s.store.GetMovie(ctx, movieID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, *movie)
	}
	return out, nil
}

// Delete removes an account, cascades its reviews, recomputes the
// rollups of affected movies and closes the account's session if it
// was the current one.
func (s *Service) Delete(ctx context.Context, userID string) error {
	sessionUserID, err := s.store.SessionUserID(ctx)
	if err != nil {
		return err
	}

	affectedMovies, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(affectedMovies))
	for _, movieID := range affectedMovies {
		if seen[movieID] {
			continue
		}
		seen[movieID] = true
		if err := rollup.RecomputeMovie(ctx, s.store, movieID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("movie_id", movieID).Msg("Movie rollup recompute failed after user delete")
		}
	}

	if sessionUserID == userID {
		if err := s.store.ClearSession(ctx); err != nil {
			return err
		}
	}

	logging.Ctx(ctx).Info().Str("user_id", userID).Msg("User deleted")
	return nil
}

// SearchUsers returns users whose username or email contains the
// query, case-insensitively. Queries shorter than two characters yield
// no results.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 {
		return []models.User{}, nil
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := users[:0:0]
	for i := range users {
		if strings.Contains(strings.ToLower(users[i].Username), q) ||
			strings.Contains(strings.ToLower(users[i].Email), q) {
			out = append(out, users[i])
		}
	}
	return out, nil
}

// Recommendations suggests up to limit movies the user has not
// reviewed. Movies sharing the user's favorite genres rank first by
// overlap, then by rating; without favorite genres it is rating alone.
// An unknown user gets the top rated catalog movies.
func (s *Service) Recommendations(ctx context.Context, userID string, limit int) ([]models.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			return nil, err
		}
		rated := movies[:0:0]
		for i := range movies {
			if movies[i].AverageRating > 0 {
				rated = append(rated, movies[i])
			}
		}
		sort.SliceStable(rated, func(i, j int) bool {
			return rated[i].AverageRating > rated[j].AverageRating
		})
		return truncateMovies(rated, limit), nil
	}

	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	reviewed := make(map[string]bool)
	for i := range reviews {
		if reviews[i].UserID == userID {
			reviewed[reviews[i].MovieID] = true
		}
	}

	candidates := movies[:0:0]
	for i := range movies {
		if !reviewed[movies[i].ID] {
			candidates = append(candidates, movies[i])
		}
	}

	favorites := make(map[string]bool, len(user.FavoriteGenres))
	for _, g := range user.FavoriteGenres {
		favorites[g] = true
	}
	overlap := func(m *models.Movie) int {
		n := 0
		for _, g := range m.Genres {
			if favorites[g] {
				n++
			}
		}
		return n
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if len(favorites) > 0 {
			oi, oj := overlap(&candidates[i]), overlap(&candidates[j])
			if oi != oj {
				return oi > oj
			}
		}
		return candidates[i].AverageRating > candidates[j].AverageRating
	})
	return truncateMovies(candidates, limit), nil
}

// RecomputeStats recalculates a user's rollup from their collections
// and reviews.
func (s *Service) RecomputeStats(ctx context.Context, userID string) error {
	return rollup.RecomputeUser(ctx, s.store, userID)
}

func truncateMovies(movies []models.Movie, limit int) []models.Movie {
	if limit > 0 && len(movies) > limit {
		return movies[:limit]
	}
	return movies
}
