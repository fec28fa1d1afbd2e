// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

// Package catalog implements movie catalog operations: CRUD, search,
// sorting, facets and catalog-wide statistics.
package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/logging"
	"github.com/cinelog/cinelog/internal/metrics"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/rollup"
	"github.com/cinelog/cinelog/internal/store"
	"github.com/cinelog/cinelog/internal/validation"
)

// Sort keys accepted by SortMovies. Anything else falls back to rating.
const (
	SortTitle   = "title"
	SortYear    = "year"
	SortRating  = "rating"
	SortReviews = "reviews"
	SortViews   = "views"
	SortNewest  = "newest"
)

// Service provides catalog operations on top of the record store.
type Service struct {
	store *store.Store
}

// New creates a catalog service.
func New(st *store.Store) *Service {
	return &Service{store: st}
}

// Filters narrows a catalog search. Zero values mean "no filter";
// Genre "all" is treated the same as empty.
type Filters struct {
	Genre     string
	Year      int
	MinRating float64
	SortBy    string
}

// MovieInput carries the fields for creating a movie.
type MovieInput struct {
	Title       string   `validate:"required,max=200"`
	Year        int      `validate:"required,min=1888,max=2100"`
	Genres      []string `validate:"max=10"`
	Description string   `validate:"max=5000"`
	PosterURL   string   `validate:"omitempty,url"`
}

// MoviePatch carries optional field updates. Nil fields are untouched.
type MoviePatch struct {
	Title       *string   `validate:"omitempty,max=200"`
	Year        *int      `validate:"omitempty,min=1888,max=2100"`
	Genres      *[]string `validate:"omitempty,max=10"`
	Description *string   `validate:"omitempty,max=5000"`
	PosterURL   *string   `validate:"omitempty,url"`
}

// List returns all movies, unsorted.
func (s *Service) List(ctx context.Context) ([]models.Movie, error) {
	return s.store.ListMovies(ctx)
}

// Get returns one movie by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Movie, error) {
	return s.store.GetMovie(ctx, id)
}

// Add validates and stores a new movie.
func (s *Service) Add(ctx context.Context, input MovieInput) (*models.Movie, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, apperrors.NewValidation("", err.Error())
	}

	now := time.Now().UTC()
	movie := &models.Movie{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Year:        input.Year,
		Genres:      input.Genres,
		Description: input.Description,
		PosterURL:   input.PosterURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if movie.Genres == nil {
		movie.Genres = []string{}
	}

	if err := s.store.SaveMovie(ctx, movie); err != nil {
		return nil, err
	}

	s.trackCatalogSize(ctx)
	logging.Ctx(ctx).Info().Str("movie_id", movie.ID).Str("title", movie.Title).Msg("Movie added")
	return movie, nil
}

// Update applies a patch to an existing movie.
func (s *Service) Update(ctx context.Context, id string, patch MoviePatch) (*models.Movie, error) {
	if err := validation.ValidateStruct(&patch); err != nil {
		return nil, apperrors.NewValidation("", err.Error())
	}

	movie, err := s.store.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		movie.Title = *patch.Title
	}
	if patch.Year != nil {
		movie.Year = *patch.Year
	}
	if patch.Genres != nil {
		movie.Genres = *patch.Genres
	}
	if patch.Description != nil {
		movie.Description = *patch.Description
	}
	if patch.PosterURL != nil {
		movie.PosterURL = *patch.PosterURL
	}
	movie.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveMovie(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// Delete removes a movie and its reviews, then recomputes the rollups
// of every user whose review was cascaded away.
func (s *Service) Delete(ctx context.Context, id string) error {
	affectedUsers, err := s.store.DeleteMovie(ctx, id)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(affectedUsers))
	for _, userID := range affectedUsers {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		if err := rollup.RecomputeUser(ctx, s.store, userID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("User rollup recompute failed after movie delete")
		}
	}

	s.trackCatalogSize(ctx)
	return nil
}

// IncrementViewCount bumps a movie's view counter.
func (s *Service) IncrementViewCount(ctx context.Context, id string) error {
	movie, err := s.store.GetMovie(ctx, id)
	if err != nil {
		return err
	}
	movie.ViewCount++
	movie.UpdatedAt = time.Now().UTC()
	return s.store.SaveMovie(ctx, movie)
}

// Search filters the catalog by query text and filters, then sorts.
// The query matches title, description or genre, case-insensitively.
// Filters apply in order: query, genre, year, minimum rating.
func (s *Service) Search(ctx context.Context, query string, filters Filters) ([]models.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		movies = filterMovies(movies, func(m *models.Movie) bool {
			return matchesSearch(m, q)
		})
	}
	if filters.Genre != "" && filters.Genre != "all" {
		movies = filterMovies(movies, func(m *models.Movie) bool {
			return m.HasGenre(filters.Genre)
		})
	}
	if filters.Year != 0 {
		movies = filterMovies(movies, func(m *models.Movie) bool {
			return m.Year == filters.Year
		})
	}
	if filters.MinRating > 0 {
		movies = filterMovies(movies, func(m *models.Movie) bool {
			return m.AverageRating >= filters.MinRating
		})
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = SortRating
	}
	return SortMovies(movies, sortBy), nil
}

// SortMovies returns movies ordered by the given key. Title sorts
// ascending with locale-aware collation; every other key sorts
// descending. The sort is stable, so equal keys keep their order.
func SortMovies(movies []models.Movie, sortBy string) []models.Movie {
	sorted := make([]models.Movie, len(movies))
	copy(sorted, movies)

	switch sortBy {
	case SortTitle:
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	case SortYear:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Year > sorted[j].Year
		})
	case SortReviews:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].ReviewCount > sorted[j].ReviewCount
		})
	case SortViews:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].ViewCount > sorted[j].ViewCount
		})
	case SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	default: // SortRating and unknown keys
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].AverageRating > sorted[j].AverageRating
		})
	}

	return sorted
}

// ByGenre returns movies listing the given genre.
func (s *Service) ByGenre(ctx context.Context, genre string) ([]models.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}
	return filterMovies(movies, func(m *models.Movie) bool {
		return m.HasGenre(genre)
	}), nil
}

// ByYearRange returns movies with startYear <= year <= endYear.
func (s *Service) ByYearRange(ctx context.Context, startYear, endYear int) ([]models.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}
	return filterMovies(movies, func(m *models.Movie) bool {
		return m.Year >= startYear && m.Year <= endYear
	}), nil
}

// TopRated returns up to limit movies with a rating, best first.
func (s *Service) TopRated(ctx context.Context, limit int) ([]models.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}
	rated := filterMovies(movies, func(m *models.Movie) bool {
		return m.AverageRating > 0
	})
	return truncate(SortMovies(rated, SortRating), limit), nil
}

// MostReviewed returns up to limit movies with reviews, most first.
func (s *Service) MostReviewed(ctx context.Context, limit int) ([]models.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}
	reviewed := filterMovies(movies, func(m *models.Movie) bool {
		return m.ReviewCount > 0
	})
	return truncate(SortMovies(reviewed, SortReviews), limit), nil
}

// Newest returns up to limit movies, most recently added first.
func (s *Service) Newest(ctx context.Context, limit int) ([]models.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}
	return truncate(SortMovies(movies, SortNewest), limit), nil
}

// Genres returns the distinct genres across the catalog, ascending.
func (s *Service) Genres(ctx context.Context) ([]string, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	for i := range movies {
		for _, g := range movies[i].Genres {
			set[g] = true
		}
	}

	genres := make([]string, 0, len(set))
	for g := range set {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres, nil
}

// Years returns the distinct release years across the catalog,
// descending.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[int]bool)
	for i := range movies {
		if movies[i].Year != 0 {
			set[movies[i].Year] = true
		}
	}

	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// RecomputeStats recalculates a movie's rating rollup from its reviews.
func (s *Service) RecomputeStats(ctx context.Context, movieID string) error {
	return rollup.RecomputeMovie(ctx, s.store, movieID)
}

// matchesSearch reports whether the movie matches a lowercased query.
func matchesSearch(m *models.Movie, query string) bool {
	if strings.Contains(strings.ToLower(m.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Description), query) {
		return true
	}
	for _, g := range m.Genres {
		if strings.Contains(strings.ToLower(g), query) {
			return true
		}
	}
	return false
}

func filterMovies(movies []models.Movie, keep func(*models.Movie) bool) []models.Movie {
	out := movies[:0:0]
	for i := range movies {
		if keep(&movies[i]) {
			out = append(out, movies[i])
		}
	}
	return out
}

func truncate(movies []models.Movie, limit int) []models.Movie {
	if limit > 0 && len(movies) > limit {
		return movies[:limit]
	}
	return movies
}

func (s *Service) trackCatalogSize(ctx context.Context) {
	if movies, err := s.store.ListMovies(ctx); err == nil {
		metrics.MoviesTotal.Set(float64(len(movies)))
	}
}
