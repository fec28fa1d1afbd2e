// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

// Package api provides the HTTP surface: chi routing, middleware and
// handlers wrapping the catalog, review and user services.
package api

import (
	"net/http"
	"time"

	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/catalog"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/reviews"
	"github.com/cinelog/cinelog/internal/store"
	"github.com/cinelog/cinelog/internal/users"
)

// Handler bundles the services behind the HTTP endpoints.
type Handler struct {
	store   *store.Store
	catalog *catalog.Service
	reviews *reviews.Service
	users   *users.Service
	jwt     *auth.JWTManager
	cfg     *config.Config
}

// NewHandler creates the handler set.
func NewHandler(st *store.Store, cat *catalog.Service, rev *reviews.Service, usr *users.Service, jwtManager *auth.JWTManager, cfg *config.Config) *Handler {
	return &Handler{
		store:   st,
		catalog: cat,
		reviews: rev,
		users:   usr,
		jwt:     jwtManager,
		cfg:     cfg,
	}
}

// limitParam reads the limit query parameter, clamped to the
// configured page sizes.
func (h *Handler) limitParam(r *http.Request) int {
	limit := getIntParam(r, "limit", h.cfg.API.DefaultPageSize)
	if limit <= 0 {
		limit = h.cfg.API.DefaultPageSize
	}
	if limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.MaxPageSize
	}
	return limit
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady reports readiness including a store round trip.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Record store not available")
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"}, start)
}
