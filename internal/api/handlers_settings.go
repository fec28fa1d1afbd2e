// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package api

import (
	"net/http"
	"time"
)

type settingsRequest struct {
	Theme              *string `json:"theme"`
	Language           *string `json:"language"`
	MoviesPerPage      *int    `json:"movies_per_page"`
	DefaultGenreFilter *string `json:"default_genre_filter"`
	DefaultSortBy      *string `json:"default_sort_by"`
	ShowRatings        *bool   `json:"show_ratings"`
	ShowDescriptions   *bool   `json:"show_descriptions"`
	Autoplay           *bool   `json:"autoplay"`
}

// Settings returns the instance-wide settings record.
//
// Method: GET
// Path: /api/v1/settings
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, settings, start)
}

// UpdateSettings merges a patch into the settings record.
//
// Method: PUT
// Path: /api/v1/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	if req.Theme != nil {
		if *req.Theme != "light" && *req.Theme != "dark" {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "theme must be light or dark")
			return
		}
		settings.Theme = *req.Theme
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}
	if req.MoviesPerPage != nil {
		if *req.MoviesPerPage < 1 || *req.MoviesPerPage > 100 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "movies_per_page must be 1-100")
			return
		}
		settings.MoviesPerPage = *req.MoviesPerPage
	}
	if req.DefaultGenreFilter != nil {
		settings.DefaultGenreFilter = *req.DefaultGenreFilter
	}
	if req.DefaultSortBy != nil {
		settings.DefaultSortBy = *req.DefaultSortBy
	}
	if req.ShowRatings != nil {
		settings.ShowRatings = *req.ShowRatings
	}
	if req.ShowDescriptions != nil {
		settings.ShowDescriptions = *req.ShowDescriptions
	}
	if req.Autoplay != nil {
		settings.Autoplay = *req.Autoplay
	}

	if err := h.store.SaveSettings(r.Context(), settings); err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, settings, start)
}
