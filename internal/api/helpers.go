// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/logging"
	"github.com/cinelog/cinelog/internal/models"
)

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in the success envelope, recording the
// handler's elapsed time in metadata.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}

// respondAppError maps a domain error onto the HTTP surface:
// validation 400, not found 404, duplicate and conflict 409,
// unauthorized 401, everything else 500.
func respondAppError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case apperrors.IsNotFound(err):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case apperrors.IsDuplicate(err):
		respondError(w, http.StatusConflict, "DUPLICATE", err.Error())
	case apperrors.IsConflict(err):
		respondError(w, http.StatusConflict, "CONFLICT", "The record was modified concurrently, retry the request")
	case errors.Is(err, apperrors.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid credentials")
	default:
		logging.Error().Err(err).Msg("API Error")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// decodeJSON reads a request body into dst. Unknown fields are
// rejected so typos surface as 400s instead of silent drops.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidation("body", "malformed JSON request body")
	}
	return nil
}

// getIntParam reads an integer query parameter with a fallback.
func getIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// getFloatParam reads a float query parameter with a fallback.
func getFloatParam(r *http.Request, name string, fallback float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
