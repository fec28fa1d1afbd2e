// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinelog/cinelog/internal/reviews"
)

type reviewRequest struct {
	MovieID  string   `json:"movie_id"`
	Rating   float64  `json:"rating"`
	Comment  string   `json:"comment"`
	Tags     []string `json:"tags"`
	IsPublic *bool    `json:"is_public"`
}

type reviewPatchRequest struct {
	Rating   *float64  `json:"rating"`
	Comment  *string   `json:"comment"`
	Tags     *[]string `json:"tags"`
	IsPublic *bool     `json:"is_public"`
}

type tagRequest struct {
	Tag string `json:"tag"`
}

// CreateReview adds the authenticated user's review of a movie.
//
// Method: POST
// Path: /api/v1/reviews
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	review, err := h.reviews.Add(r.Context(), reviews.ReviewInput{
		UserID:   UserIDFromContext(r.Context()),
		MovieID:  req.MovieID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		Tags:     req.Tags,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, review, start)
}

// UpdateReview patches a review.
//
// Method: PUT
// Path: /api/v1/reviews/{id}
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req reviewPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	review, err := h.reviews.Update(r.Context(), chi.URLParam(r, "id"), reviews.ReviewPatch{
		Rating:   req.Rating,
		Comment:  req.Comment,
		Tags:     req.Tags,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, review, start)
}

// DeleteReview removes a review.
//
// Method: DELETE
// Path: /api/v1/reviews/{id}
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.reviews.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"}, start)
}

// RecentReviews returns the newest reviews.
//
// Method: GET
// Path: /api/v1/reviews/recent
func (h *Handler) RecentReviews(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := h.reviews.Recent(r.Context(), h.limitParam(r))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, list, start)
}

// TrendingReviews returns public reviews ranked by recent engagement.
//
// Method: GET
// Path: /api/v1/reviews/trending
func (h *Handler) TrendingReviews(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := h.reviews.Trending(r.Context(), h.limitParam(r))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, list, start)
}

// SearchReviews searches public review comments and tags.
//
// Method: GET
// Path: /api/v1/reviews/search
func (h *Handler) SearchReviews(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := h.reviews.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, list, start)
}

// ReviewStats returns the site-wide review aggregate.
//
// Method: GET
// Path: /api/v1/reviews/stats
func (h *Handler) ReviewStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats, err := h.reviews.OverallStats(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, stats, start)
}

// LikeReview bumps a review's like counter.
//
// Method: POST
// Path: /api/v1/reviews/{id}/like
func (h *Handler) LikeReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	review, err := h.reviews.Like(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, review, start)
}

// DislikeReview bumps a review's dislike counter.
//
// Method: POST
// Path: /api/v1/reviews/{id}/dislike
func (h *Handler) DislikeReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	review, err := h.reviews.Dislike(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, review, start)
}

// TagReview appends a tag to a review.
//
// Method: POST
// Path: /api/v1/reviews/{id}/tags
func (h *Handler) TagReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}
	if req.Tag == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "tag must not be empty")
		return
	}

	review, err := h.reviews.AddTag(r.Context(), chi.URLParam(r, "id"), req.Tag)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, review, start)
}
