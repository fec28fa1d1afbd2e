// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinelog/cinelog/internal/catalog"
)

type movieRequest struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	PosterURL   string   `json:"poster_url"`
}

type moviePatchRequest struct {
	Title       *string   `json:"title"`
	Year        *int      `json:"year"`
	Genres      *[]string `json:"genres"`
	Description *string   `json:"description"`
	PosterURL   *string   `json:"poster_url"`
}

// Movies lists or searches the catalog. Query parameters: q, genre,
// year, min_rating, sort, limit.
//
// Method: GET
// Path: /api/v1/movies
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	movies, err := h.catalog.Search(r.Context(), q.Get("q"), catalog.Filters{
		Genre:     q.Get("genre"),
		Year:      getIntParam(r, "year", 0),
		MinRating: getFloatParam(r, "min_rating", 0),
		SortBy:    q.Get("sort"),
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	if limit := h.limitParam(r); len(movies) > limit {
		movies = movies[:limit]
	}
	respondSuccess(w, http.StatusOK, movies, start)
}

// Movie returns one movie.
//
// Method: GET
// Path: /api/v1/movies/{id}
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movie, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, movie, start)
}

// CreateMovie adds a movie to the catalog.
//
// Method: POST
// Path: /api/v1/movies
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req movieRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	movie, err := h.catalog.Add(r.Context(), catalog.MovieInput{
		Title:       req.Title,
		Year:        req.Year,
		Genres:      req.Genres,
		Description: req.Description,
		PosterURL:   req.PosterURL,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, movie, start)
}

// UpdateMovie patches a movie.
//
// Method: PUT
// Path: /api/v1/movies/{id}
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req moviePatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	movie, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), catalog.MoviePatch{
		Title:       req.Title,
		Year:        req.Year,
		Genres:      req.Genres,
		Description: req.Description,
		PosterURL:   req.PosterURL,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, movie, start)
}

// DeleteMovie removes a movie and its reviews.
//
// Method: DELETE
// Path: /api/v1/movies/{id}
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"}, start)
}

// ViewMovie bumps a movie's view counter.
//
// Method: POST
// Path: /api/v1/movies/{id}/view
func (h *Handler) ViewMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.catalog.IncrementViewCount(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "counted"}, start)
}

// MovieStats returns a movie's review aggregate.
//
// Method: GET
// Path: /api/v1/movies/{id}/stats
func (h *Handler) MovieStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if _, err := h.catalog.Get(r.Context(), id); err != nil {
		respondAppError(w, err)
		return
	}
	stats, err := h.reviews.MovieStats(r.Context(), id)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, stats, start)
}

// MovieReviews returns a movie's reviews.
//
// Method: GET
// Path: /api/v1/movies/{id}/reviews
func (h *Handler) MovieReviews(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if _, err := h.catalog.Get(r.Context(), id); err != nil {
		respondAppError(w, err)
		return
	}
	list, err := h.reviews.ForMovie(r.Context(), id)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, list, start)
}

// FeaturedMovie returns the featured pick, or null for an empty
// catalog.
//
// Method: GET
// Path: /api/v1/movies/featured
func (h *Handler) FeaturedMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movie, err := h.catalog.Featured(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, movie, start)
}

// TopRatedMovies returns the best rated movies.
//
// Method: GET
// Path: /api/v1/movies/top-rated
func (h *Handler) TopRatedMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movies, err := h.catalog.TopRated(r.Context(), h.limitParam(r))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, movies, start)
}

// Genres returns the catalog's distinct genres.
//
// Method: GET
// Path: /api/v1/movies/genres
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	genres, err := h.catalog.Genres(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, genres, start)
}

// Years returns the catalog's distinct release years.
//
// Method: GET
// Path: /api/v1/movies/years
func (h *Handler) Years(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	years, err := h.catalog.Years(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, years, start)
}

// CatalogStats returns the catalog-wide aggregate.
//
// Method: GET
// Path: /api/v1/movies/stats
func (h *Handler) CatalogStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats, err := h.catalog.CatalogStats(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, stats, start)
}
