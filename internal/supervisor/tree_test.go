// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/groundcrew/internal/config"
)

// mockService is a suture.Service that can fail a fixed number of times
// before running until cancelled.
type mockService struct {
	name     string
	failures int32
	started  atomic.Int32
	stopped  atomic.Int32
}

func newMockService(name string, failures int32) *mockService {
	return &mockService{name: name, failures: failures}
}

func (m *mockService) Serve(ctx context.Context) error {
	n := m.started.Add(1)
	defer m.stopped.Add(1)
	if n <= m.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string { return m.name }

// hangingService ignores cancellation for longer than the shutdown timeout.
type hangingService struct{ release chan struct{} }

func (h *hangingService) Serve(ctx context.Context) error {
	<-ctx.Done()
	<-h.release
	return nil
}

func (h *hangingService) String() string { return "hanging" }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor should not be nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
	}
}

func TestTreeConfigFrom(t *testing.T) {
	got := TreeConfigFrom(config.SupervisorConfig{
		FailureThreshold: 3,
		FailureDecay:     10,
		FailureBackoff:   time.Second,
		ShutdownTimeout:  5 * time.Second,
	})
	want := TreeConfig{FailureThreshold: 3, FailureDecay: 10, FailureBackoff: time.Second, ShutdownTimeout: 5 * time.Second}
	if got != want {
		t.Errorf("TreeConfigFrom() = %+v, want %+v", got, want)
	}

	partial := TreeConfig{FailureThreshold: 2}.withDefaults()
	if partial.FailureThreshold != 2 || partial.FailureBackoff != 15*time.Second {
		t.Errorf("withDefaults() = %+v", partial)
	}
}

func TestSupervisorTree_AllLayersStartAndStop(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureBackoff:  50 * time.Millisecond,
		ShutdownTimeout: 500 * time.Millisecond,
	})

	store := newMockService("store", 0)
	hub := newMockService("websocket-hub", 0)
	feed := newMockService("atc24-feed", 0)
	http := newMockService("http-server", 0)
	tree.AddDataService(store)
	tree.AddMessagingService(hub)
	tree.AddMessagingService(feed)
	tree.AddAPIService(http)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	all := []*mockService{store, hub, feed, http}
	waitFor(t, func() bool {
		for _, s := range all {
			if s.started.Load() < 1 {
				return false
			}
		}
		return true
	}, "not every layer started")

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree stopped with %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}

	for _, s := range all {
		if s.stopped.Load() != s.started.Load() {
			t.Errorf("%s: started %d, stopped %d", s.name, s.started.Load(), s.stopped.Load())
		}
	}
	report, err := tree.UnstoppedServiceReport()
	if err != nil || len(report) != 0 {
		t.Errorf("UnstoppedServiceReport() = %v, %v", report, err)
	}
}

func TestSupervisorTree_RestartsFailingServiceInIsolation(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	flaky := newMockService("atc24-feed", 2)
	stable := newMockService("http-server", 0)
	tree.AddMessagingService(flaky)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool { return flaky.started.Load() >= 3 }, "flaky service was not restarted")
	if stable.started.Load() != 1 {
		t.Errorf("stable service started %d times, want 1", stable.started.Load())
	}

	cancel()
	<-errCh
}

func TestSupervisorTree_RemoveMessagingService(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	svc := newMockService("feed-bridge", 0)
	token := tree.AddMessagingService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool { return svc.started.Load() == 1 }, "service did not start")
	if err := tree.RemoveMessagingService(token); err != nil {
		t.Fatalf("RemoveMessagingService() error = %v", err)
	}
	waitFor(t, func() bool { return svc.stopped.Load() == 1 }, "service did not stop after removal")

	cancel()
	<-errCh
}

func TestSupervisorTree_UnstoppedServiceReport(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: 50 * time.Millisecond})

	hang := &hangingService{release: make(chan struct{})}
	defer close(hang.release)
	tree.AddAPIService(hang)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-errCh

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(report) == 0 {
		t.Error("expected the hanging service in the unstopped report")
	}
}

var _ suture.Service = (*mockService)(nil)
