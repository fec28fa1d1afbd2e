// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - BadgerDB record operations
// - API endpoint latency and throughput
// - Review and catalog activity
// - Value-log garbage collection

var (
	// Store Metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "badger_op_duration_seconds",
			Help:    "Duration of BadgerDB operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "kind"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badger_op_errors_total",
			Help: "Total number of BadgerDB operation errors",
		},
		[]string{"operation", "kind"},
	)

	StoreConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badger_txn_conflicts_total",
			Help: "Total number of BadgerDB transaction conflicts",
		},
	)

	StoreCorruptRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badger_corrupt_records_total",
			Help: "Total number of records skipped because they failed to decode",
		},
		[]string{"kind"},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badger_gc_runs_total",
			Help: "Total number of value-log GC attempts",
		},
		[]string{"outcome"}, // "reclaimed", "nothing", "error"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Domain Metrics
	ReviewsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_created_total",
			Help: "Total number of reviews created",
		},
	)

	ReviewsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_deleted_total",
			Help: "Total number of reviews deleted",
		},
	)

	MoviesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_movies",
			Help: "Current number of movies in the catalog",
		},
	)

	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of accounts registered",
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"}, // "success", "failure"
	)
)

// RecordStoreOp records one BadgerDB operation.
func RecordStoreOp(operation, kind string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(operation, kind).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(operation, kind).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordGCRun records one value-log GC attempt.
func RecordGCRun(outcome string) {
	StoreGCRuns.WithLabelValues(outcome).Inc()
}

// RecordLogin records a login attempt.
func RecordLogin(success bool) {
	if success {
		LoginAttempts.WithLabelValues("success").Inc()
	} else {
		LoginAttempts.WithLabelValues("failure").Inc()
	}
}
