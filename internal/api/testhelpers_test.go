// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/groundcrew/internal/config"
	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/models"
	"github.com/tomtom215/groundcrew/internal/store"
	ws "github.com/tomtom215/groundcrew/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// envelope mirrors models.APIResponse with the payload left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{CORSOrigins: []string{"*"}},
	}
}

// newTestStore returns a seeded in-memory store.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(store.NewMemoryBackend())
	if err := st.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// newTestRouter serves h with rate limiting off.
func newTestRouter(h *Handler) http.Handler {
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitDisabled:  true,
	})
	return NewRouter(h, mw).SetupChi()
}

// setupTestAPI builds a router over a seeded store. The hub is not running;
// tests that need it start their own.
func setupTestAPI(t *testing.T, opts ...HandlerOption) (http.Handler, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	hub := ws.NewHub()
	h := NewHandler(st, hub, ws.NewRelay(hub, st), testConfig(), opts...)
	return newTestRouter(h), st
}

// doRequest sends one request through router and decodes the envelope.
func doRequest(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode envelope %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

// decodeData unmarshals the envelope payload into T.
func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

// expectError asserts an error envelope with the given status and code.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}

// seededFlight returns the PTFS001 flight created by Seed.
func seededFlight(t *testing.T, st *store.Store) models.Flight {
	t.Helper()
	flights, err := st.ListFlights(context.Background())
	if err != nil || len(flights) != 1 {
		t.Fatalf("ListFlights() = %v, %v; want the seeded flight", flights, err)
	}
	return flights[0]
}
