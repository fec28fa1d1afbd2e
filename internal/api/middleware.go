// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/metrics"
)

type contextKey string

// userIDKey carries the authenticated user id set by Authenticate.
const userIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user id, or "" when the
// request carried no valid token.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// ChiMiddleware provides chi-compatible middleware factories built
// from the security configuration.
type ChiMiddleware struct {
	cfg  config.SecurityConfig
	cors func(http.Handler) http.Handler
	jwt  *auth.JWTManager
}

// NewChiMiddleware creates the middleware factory set.
func NewChiMiddleware(cfg config.SecurityConfig, jwtManager *auth.JWTManager) *ChiMiddleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	return &ChiMiddleware{cfg: cfg, cors: corsHandler, jwt: jwtManager}
}

// CORS returns the CORS middleware built from the configured origins.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits general API traffic per client IP.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.cfg.RateLimitReqs, m.cfg.RateLimitWindow)
}

// RateLimitLogin is the strict limiter for credential checks: five
// attempts per five minutes per IP.
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	return m.limit(5, 5*time.Minute)
}

// RateLimitHealth is permissive so monitoring can poll freely.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.limit(1000, time.Minute)
}

func (m *ChiMiddleware) limit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests, slow down")
		}),
	)
}

// Authenticate requires a valid Bearer token and places the token's
// user id on the request context.
func (m *ChiMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Missing bearer token")
			return
		}

		claims, err := m.jwt.Verify(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
