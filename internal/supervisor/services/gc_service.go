// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package services

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/cinelog/cinelog/internal/logging"
)

// GCRunner matches the store's value-log garbage collection entry
// point, so tests can substitute a mock.
type GCRunner interface {
	RunGC(discardRatio float64) error
}

// GCService periodically runs Badger value-log garbage collection on
// the record store.
//
// Badger only reclaims value-log space when RunValueLogGC is called
// explicitly, so a long-running server needs this loop to keep the
// store from growing without bound. Each tick runs GC rounds until
// Badger reports nothing further to rewrite.
type GCService struct {
	store        GCRunner
	interval     time.Duration
	discardRatio float64
	name         string
}

// NewGCService creates a garbage collection loop over the store.
func NewGCService(store GCRunner, interval time.Duration, discardRatio float64) *GCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	return &GCService{
		store:        store,
		interval:     interval,
		discardRatio: discardRatio,
		name:         "badger-gc",
	}
}

// Serve implements suture.Service. It ticks until the context is
// canceled; GC failures are logged rather than returned so a transient
// Badger error does not trip the supervisor's restart backoff.
func (g *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			g.runOnce(ctx)
		}
	}
}

// runOnce drains one GC cycle. A successful RunGC call means a value
// log file was rewritten and another round may find more garbage, so
// it loops until ErrNoRewrite.
func (g *GCService) runOnce(ctx context.Context) {
	start := time.Now()
	rounds := 0
	for {
		if ctx.Err() != nil {
			return
		}
		err := g.store.RunGC(g.discardRatio)
		if err == nil {
			rounds++
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) {
			logging.Error().Err(err).Msg("Value-log GC failed")
		}
		break
	}
	if rounds > 0 {
		logging.Info().
			Int("rounds", rounds).
			Dur("elapsed", time.Since(start)).
			Msg("Value-log GC reclaimed space")
	}
}

// String implements fmt.Stringer; suture uses it to identify the
// service in log messages.
func (g *GCService) String() string {
	return g.name
}
