// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinelog/cinelog/internal/users"
)

type profilePatchRequest struct {
	Username       *string   `json:"username"`
	Email          *string   `json:"email"`
	Bio            *string   `json:"bio"`
	FavoriteGenres *[]string `json:"favorite_genres"`
	Avatar         *string   `json:"avatar"`
}

type preferencesPatchRequest struct {
	Notifications *bool   `json:"notifications"`
	PublicProfile *bool   `json:"public_profile"`
	Theme         *string `json:"theme"`
}

type collectionRequest struct {
	MovieID string `json:"movie_id"`
}

// User returns one account's public view.
//
// Method: GET
// Path: /api/v1/users/{id}
func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, user.Public(), start)
}

// SearchUsers finds accounts by username or email fragment.
//
// Method: GET
// Path: /api/v1/users/search
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	found, err := h.users.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondAppError(w, err)
		return
	}

	public := make([]interface{}, 0, len(found))
	for i := range found {
		public = append(public, found[i].Public())
	}
	respondSuccess(w, http.StatusOK, public, start)
}

// UpdateProfile patches the authenticated user's profile.
//
// Method: PUT
// Path: /api/v1/users/me/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req profilePatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), UserIDFromContext(r.Context()), users.ProfilePatch{
		Username:       req.Username,
		Email:          req.Email,
		Bio:            req.Bio,
		FavoriteGenres: req.FavoriteGenres,
		Avatar:         req.Avatar,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, user.Public(), start)
}

// UpdatePreferences patches the authenticated user's preferences.
//
// Method: PUT
// Path: /api/v1/users/me/preferences
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req preferencesPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	user, err := h.users.UpdatePreferences(r.Context(), UserIDFromContext(r.Context()), users.PreferencesPatch{
		Notifications: req.Notifications,
		PublicProfile: req.PublicProfile,
		Theme:         req.Theme,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, user.Public(), start)
}

// Collection returns the movies in one of the user's buckets.
//
// Method: GET
// Path: /api/v1/users/{id}/collections/{bucket}
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movies, err := h.users.Collection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "bucket"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, movies, start)
}

// AddToCollection puts a movie in one of the authenticated user's
// buckets.
//
// Method: POST
// Path: /api/v1/users/me/collections/{bucket}
func (h *Handler) AddToCollection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	userID := UserIDFromContext(r.Context())
	bucket := chi.URLParam(r, "bucket")
	if err := h.users.AddToCollection(r.Context(), userID, req.MovieID, bucket); err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "added"}, start)
}

// RemoveFromCollection drops a movie from one of the authenticated
// user's buckets.
//
// Method: DELETE
// Path: /api/v1/users/me/collections/{bucket}/{movieID}
func (h *Handler) RemoveFromCollection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := UserIDFromContext(r.Context())
	bucket := chi.URLParam(r, "bucket")
	movieID := chi.URLParam(r, "movieID")
	if err := h.users.RemoveFromCollection(r.Context(), userID, movieID, bucket); err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "removed"}, start)
}

// UserStats returns one account's viewing statistics.
//
// Method: GET
// Path: /api/v1/users/{id}/stats
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats, err := h.users.ViewingStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, stats, start)
}

// UserActivity returns one account's recent activity feed.
//
// Method: GET
// Path: /api/v1/users/{id}/activity
func (h *Handler) UserActivity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	feed, err := h.users.RecentActivity(r.Context(), chi.URLParam(r, "id"), h.limitParam(r))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, feed, start)
}

// Recommendations suggests movies for one account.
//
// Method: GET
// Path: /api/v1/users/{id}/recommendations
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movies, err := h.users.Recommendations(r.Context(), chi.URLParam(r, "id"), h.limitParam(r))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, movies, start)
}

// ExportReviews returns the authenticated user's reviews for download.
//
// Method: GET
// Path: /api/v1/users/me/export
func (h *Handler) ExportReviews(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rows, err := h.reviews.ExportForUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, rows, start)
}

// DeleteAccount removes the authenticated user's account and cascades
// its reviews.
//
// Method: DELETE
// Path: /api/v1/users/me
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.users.Delete(r.Context(), UserIDFromContext(r.Context())); err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"}, start)
}

// PlatformStats returns the site-wide account aggregate.
//
// Method: GET
// Path: /api/v1/users/stats
func (h *Handler) PlatformStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats, err := h.users.PlatformStats(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, stats, start)
}
