// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinelog/cinelog/internal/middleware"
)

// Router wires handlers and middleware into the chi route tree.
type Router struct {
	handler *Handler
	mw      *ChiMiddleware
}

// NewRouter creates a router around the handler set.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	return &Router{handler: handler, mw: mw}
}

// chiMiddleware adapts http.HandlerFunc middleware to chi's
// func(http.Handler) http.Handler shape.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup builds the full route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.mw.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/register", router.handler.Register)
		r.With(router.mw.RateLimitLogin()).Post("/login", router.handler.Login)
		r.Post("/logout", router.handler.Logout)
		r.With(router.mw.Authenticate).Get("/me", router.handler.Me)
	})

	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.Movies)
		r.Get("/featured", router.handler.FeaturedMovie)
		r.Get("/top-rated", router.handler.TopRatedMovies)
		r.Get("/genres", router.handler.Genres)
		r.Get("/years", router.handler.Years)
		r.Get("/stats", router.handler.CatalogStats)
		r.Get("/{id}", router.handler.Movie)
		r.Get("/{id}/stats", router.handler.MovieStats)
		r.Get("/{id}/reviews", router.handler.MovieReviews)

		r.Group(func(r chi.Router) {
			r.Use(router.mw.Authenticate)
			r.Post("/", router.handler.CreateMovie)
			r.Put("/{id}", router.handler.UpdateMovie)
			r.Delete("/{id}", router.handler.DeleteMovie)
			r.Post("/{id}/view", router.handler.ViewMovie)
		})
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/recent", router.handler.RecentReviews)
		r.Get("/trending", router.handler.TrendingReviews)
		r.Get("/search", router.handler.SearchReviews)
		r.Get("/stats", router.handler.ReviewStats)

		r.Group(func(r chi.Router) {
			r.Use(router.mw.Authenticate)
			r.Post("/", router.handler.CreateReview)
			r.Put("/{id}", router.handler.UpdateReview)
			r.Delete("/{id}", router.handler.DeleteReview)
			r.Post("/{id}/like", router.handler.LikeReview)
			r.Post("/{id}/dislike", router.handler.DislikeReview)
			r.Post("/{id}/tags", router.handler.TagReview)
		})
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/search", router.handler.SearchUsers)
		r.Get("/stats", router.handler.PlatformStats)
		r.Get("/{id}", router.handler.User)
		r.Get("/{id}/stats", router.handler.UserStats)
		r.Get("/{id}/activity", router.handler.UserActivity)
		r.Get("/{id}/recommendations", router.handler.Recommendations)
		r.Get("/{id}/collections/{bucket}", router.handler.Collection)

		r.Group(func(r chi.Router) {
			r.Use(router.mw.Authenticate)
			r.Put("/me/profile", router.handler.UpdateProfile)
			r.Put("/me/preferences", router.handler.UpdatePreferences)
			r.Post("/me/collections/{bucket}", router.handler.AddToCollection)
			r.Delete("/me/collections/{bucket}/{movieID}", router.handler.RemoveFromCollection)
			r.Get("/me/export", router.handler.ExportReviews)
			r.Delete("/me", router.handler.DeleteAccount)
		})
	})

	r.Route("/api/v1/settings", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.Settings)
		r.With(router.mw.Authenticate).Put("/", router.handler.UpdateSettings)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
