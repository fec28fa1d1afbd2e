// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package api

import (
	"net/http"
	"time"

	"github.com/cinelog/cinelog/internal/users"
)

type registerRequest struct {
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Bio            string   `json:"bio"`
	FavoriteGenres []string `json:"favorite_genres"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      interface{} `json:"user"`
}

// Register creates an account.
//
// Method: POST
// Path: /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	user, err := h.users.Register(r.Context(), users.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Bio:            req.Bio,
		FavoriteGenres: req.FavoriteGenres,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, user.Public(), start)
}

// Login checks credentials, opens the session and issues a token.
//
// Method: POST
// Path: /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAppError(w, err)
		return
	}

	token, err := h.jwt.Issue(user.ID, user.Username)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(h.jwt.Lifetime()),
		User:      user.Public(),
	}, start)
}

// Logout closes the current session.
//
// Method: POST
// Path: /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.users.Logout(r.Context()); err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "logged_out"}, start)
}

// Me returns the authenticated account.
//
// Method: GET
// Path: /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, err := h.users.Get(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, user.Public(), start)
}
