// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/groundcrew/internal/feed"
	"github.com/tomtom215/groundcrew/internal/websocket"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*WebSocketHubService)(nil)
	_ suture.Service = (*FeedService)(nil)
	_ suture.Service = (*CloserService)(nil)
)

// mockHTTPServer is a test double for HTTPServer.
type mockHTTPServer struct {
	listenErr   error
	shutdownErr error
	started     chan struct{}
	stopCh      chan struct{}
	shutdowns   atomic.Int32
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{started: make(chan struct{}, 1), stopCh: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	select {
	case m.started <- struct{}{}:
	default:
	}
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdowns.Add(1)
	close(m.stopCh)
	return m.shutdownErr
}

// serveAsync runs svc.Serve and returns its result channel.
func serveAsync(ctx context.Context, svc suture.Service) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	return errCh
}

func waitErr(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
		return nil
	}
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		if svc := NewHTTPServerService(newMockHTTPServer(), timeout); svc.shutdownTimeout != 10*time.Second {
			t.Errorf("timeout %v: got %v, want 10s", timeout, svc.shutdownTimeout)
		}
	}
	if svc := NewHTTPServerService(newMockHTTPServer(), time.Second); svc.String() != "http-server" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("graceful shutdown on cancel", func(t *testing.T) {
		server := newMockHTTPServer()
		ctx, cancel := context.WithCancel(context.Background())
		errCh := serveAsync(ctx, NewHTTPServerService(server, time.Second))

		<-server.started
		cancel()

		if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
		if server.shutdowns.Load() != 1 {
			t.Errorf("Shutdown calls = %d, want 1", server.shutdowns.Load())
		}
	})

	t.Run("startup failure", func(t *testing.T) {
		bindErr := errors.New("bind: address already in use")
		server := newMockHTTPServer()
		server.listenErr = bindErr

		err := NewHTTPServerService(server, time.Second).Serve(context.Background())
		if !errors.Is(err, bindErr) {
			t.Errorf("Serve() = %v, want %v", err, bindErr)
		}
	})

	t.Run("shutdown failure", func(t *testing.T) {
		shutdownErr := errors.New("shutdown timeout")
		server := newMockHTTPServer()
		server.shutdownErr = shutdownErr
		ctx, cancel := context.WithCancel(context.Background())
		errCh := serveAsync(ctx, NewHTTPServerService(server, time.Second))

		<-server.started
		cancel()

		if err := waitErr(t, errCh); !errors.Is(err, shutdownErr) {
			t.Errorf("Serve() = %v, want %v", err, shutdownErr)
		}
	})

	t.Run("real server", func(t *testing.T) {
		server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
		ctx, cancel := context.WithCancel(context.Background())
		errCh := serveAsync(ctx, NewHTTPServerService(server, time.Second))

		time.Sleep(50 * time.Millisecond)
		cancel()

		if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	})
}

func TestWebSocketHubService_RunsHub(t *testing.T) {
	hub := websocket.NewHub()
	svc := NewWebSocketHubService(hub)
	if svc.String() != "websocket-hub" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(ctx, svc)

	// The hub only drains broadcasts while it runs.
	for i := 0; i < 300; i++ {
		hub.BroadcastAll(websocket.Message{Type: websocket.MessageTypeFeedStatus})
	}
	cancel()

	if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

// fakeFeed returns a scripted result from Run.
type fakeFeed struct {
	err  error
	runs atomic.Int32
}

func (f *fakeFeed) Run(ctx context.Context) error {
	f.runs.Add(1)
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestFeedService_Serve(t *testing.T) {
	tests := []struct {
		name          string
		runErr        error
		wantErr       error
		wantNoRestart bool
	}{
		{"budget exhausted", feed.ErrFeedUnavailable, feed.ErrFeedUnavailable, true},
		{"already running", feed.ErrAlreadyRunning, feed.ErrAlreadyRunning, false},
		{"cancelled", nil, context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFeedService(&fakeFeed{err: tt.runErr})
			ctx, cancel := context.WithCancel(context.Background())
			if tt.runErr == nil {
				cancel()
			}
			defer cancel()

			err := svc.Serve(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Serve() = %v, want %v", err, tt.wantErr)
			}
			if got := errors.Is(err, suture.ErrDoNotRestart); got != tt.wantNoRestart {
				t.Errorf("ErrDoNotRestart = %v, want %v", got, tt.wantNoRestart)
			}
		})
	}
}

func TestFeedService_NotRestartedAfterBudget(t *testing.T) {
	runner := &fakeFeed{err: feed.ErrFeedUnavailable}
	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewFeedService(runner))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	<-sup.ServeBackground(ctx)

	if runs := runner.runs.Load(); runs != 1 {
		t.Errorf("feed runs = %d, want 1", runs)
	}
}

// countingCloser records Close calls.
type countingCloser struct {
	closes atomic.Int32
	err    error
}

func (c *countingCloser) Close() error {
	c.closes.Add(1)
	return c.err
}

func TestCloserService(t *testing.T) {
	t.Run("closes on cancel", func(t *testing.T) {
		res := &countingCloser{}
		svc := NewCloserService("store", res)
		ctx, cancel := context.WithCancel(context.Background())
		errCh := serveAsync(ctx, svc)

		time.Sleep(10 * time.Millisecond)
		if res.closes.Load() != 0 {
			t.Fatal("closed before cancellation")
		}
		cancel()

		if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
		if res.closes.Load() != 1 {
			t.Errorf("Close calls = %d, want 1", res.closes.Load())
		}
		if svc.String() != "store" {
			t.Errorf("String() = %q", svc.String())
		}
	})

	t.Run("reports close error", func(t *testing.T) {
		closeErr := errors.New("flush failed")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewCloserService("event-bus", &countingCloser{err: closeErr}).Serve(ctx)
		if !errors.Is(err, closeErr) {
			t.Errorf("Serve() = %v, want %v", err, closeErr)
		}
	})
}
