// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cinelog/cinelog/internal/logging"
)

// blockingService runs until its context is canceled.
type blockingService struct {
	started atomic.Int32
	name    string
}

func (s *blockingService) Serve(ctx context.Context) error {
	s.started.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return s.name }

func newTestTree(t *testing.T) *Tree {
	t.Helper()
	logger := slog.New(logging.NewSlogHandler())
	tree, err := NewTree(logger, DefaultTreeConfig())
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	return tree
}

func TestNewTreeAppliesDefaults(t *testing.T) {
	logger := slog.New(logging.NewSlogHandler())
	tree, err := NewTree(logger, TreeConfig{})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	if tree.config.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want 5", tree.config.FailureThreshold)
	}
	if tree.config.FailureDecay != 30.0 {
		t.Errorf("FailureDecay = %v, want 30", tree.config.FailureDecay)
	}
	if tree.config.FailureBackoff != 15*time.Second {
		t.Errorf("FailureBackoff = %v, want 15s", tree.config.FailureBackoff)
	}
	if tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", tree.config.ShutdownTimeout)
	}
	if tree.Root() == nil {
		t.Error("Root() returned nil")
	}
}

func TestTreeServesAndStopsServices(t *testing.T) {
	tree := newTestTree(t)

	storageSvc := &blockingService{name: "storage-probe"}
	apiSvc := &blockingService{name: "api-probe"}
	tree.AddStorageService(storageSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for storageSvc.started.Load() == 0 || apiSvc.started.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("services did not start")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree stopped with %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop after cancellation")
	}

	unstopped, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport: %v", err)
	}
	if len(unstopped) != 0 {
		t.Errorf("unstopped services: %v", unstopped)
	}
}

func TestTreeRemoveService(t *testing.T) {
	tree := newTestTree(t)

	svc := &blockingService{name: "removable"}
	token := tree.AddAPIService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for svc.started.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("service did not start")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if err := tree.RemoveAPIService(token); err != nil {
		t.Errorf("RemoveAPIService: %v", err)
	}

	cancel()
	<-errCh
}
