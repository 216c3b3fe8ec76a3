// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/groundcrew/internal/config"
	"github.com/tomtom215/groundcrew/internal/feed"
	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/models"
	"github.com/tomtom215/groundcrew/internal/store"
	ws "github.com/tomtom215/groundcrew/internal/websocket"
)

// FeedStatus reports the state of the upstream feed connection.
// *feed.Client satisfies it.
type FeedStatus interface {
	Health() models.FeedHealth
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade (this file)
//   - handlers_helpers.go: response and request helpers
//   - handlers_health.go: liveness and readiness probes
//   - handlers_atc24.go: cached upstream feed data
//   - handlers_fleet.go: aircraft, flights, airports
//   - handlers_groundops.go: services, communications, seating, checklists
type Handler struct {
	store     *store.Store
	hub       *ws.Hub
	relay     ws.FrameHandler
	config    *config.Config
	feedState FeedStatus
	feedCache *feed.Cache
	fallback  *feed.Fallback
	busName   string
	startTime time.Time
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithFeed attaches the live feed. rest may be nil, in which case a cold
// cache is answered with an empty value instead of a REST fetch.
func WithFeed(status FeedStatus, cache *feed.Cache, rest *feed.RESTClient) HandlerOption {
	return func(h *Handler) {
		h.feedState = status
		h.feedCache = cache
		h.fallback = feed.NewFallback(cache, rest)
	}
}

// WithBusBackend names the event bus backend in readiness output.
func WithBusBackend(name string) HandlerOption {
	return func(h *Handler) { h.busName = name }
}

// NewHandler creates a new API handler.
//
// relay handles inbound WebSocket frames for /ws; hub is used for client
// counts in readiness output. Without WithFeed the ATC24 endpoints serve an
// empty cache and the feed is reported as disabled.
func NewHandler(st *store.Store, hub *ws.Hub, relay ws.FrameHandler, cfg *config.Config, opts ...HandlerOption) *Handler {
	h := &Handler{
		store:     st,
		hub:       hub,
		relay:     relay,
		config:    cfg,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.feedCache == nil {
		h.feedCache = feed.NewCache()
		h.fallback = feed.NewFallback(h.feedCache, nil)
	}
	return h
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins against the
// CORS allow list.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin; accepting an empty one would bypass CORS.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the request and hands the connection to the relay.
// The client lives on after this handler returns.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	var wsCfg config.WebSocketConfig
	if h.config != nil {
		wsCfg = h.config.WebSocket
	}

	client := ws.NewClient(h.hub, conn, h.relay, wsCfg)
	if err := client.Start(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket client not started")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	logging.Ctx(r.Context()).Debug().
		Uint64("client_id", client.ID()).
		Str("remote_addr", sanitizeLogValue(r.RemoteAddr)).
		Msg("WebSocket client connected")
}
