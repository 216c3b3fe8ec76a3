// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package websocket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/groundcrew/internal/config"
	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // 64 KB
)

var (
	// ErrScopeImmutable is returned when a scoped connection asks to join a
	// different flight.
	ErrScopeImmutable = errors.New("connection already joined a different flight")

	// ErrHubStopped is returned by Start once the hub has shut down.
	ErrHubStopped = errors.New("websocket hub stopped")
)

// FrameHandler processes one inbound text frame. Frames from one client are
// delivered sequentially in arrival order.
type FrameHandler interface {
	HandleFrame(ctx context.Context, c *Client, frame []byte) error
}

// clientIDCounter gives clients monotonically increasing IDs so broadcasts
// visit them in a stable order.
var clientIDCounter atomic.Uint64

// Client is one downstream connection. It starts unscoped and is bound to a
// single flight by its first join_flight frame.
type Client struct {
	id      uint64
	hub     *Hub
	conn    *websocket.Conn
	send    chan Message
	handler FrameHandler
	limiter *rate.Limiter

	scopeMu sync.RWMutex
	scope   string
}

// NewClient creates a Client. handler may be nil, in which case inbound
// frames are read and discarded.
func NewClient(hub *Hub, conn *websocket.Conn, handler FrameHandler, cfg config.WebSocketConfig) *Client {
	buffer := cfg.SendBuffer
	if buffer <= 0 {
		buffer = 256
	}
	limit := rate.Limit(cfg.InboundRate)
	if cfg.InboundRate <= 0 {
		limit = rate.Inf
	}
	burst := cfg.InboundBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		id:      clientIDCounter.Add(1),
		hub:     hub,
		conn:    conn,
		send:    make(chan Message, buffer),
		handler: handler,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// Scope returns the flight this client joined, or "" if it has not joined.
func (c *Client) Scope() string {
	c.scopeMu.RLock()
	defer c.scopeMu.RUnlock()
	return c.scope
}

// Join binds the client to flightID. Joining the same flight again is a
// no-op; joining a different one returns ErrScopeImmutable.
func (c *Client) Join(flightID string) error {
	c.scopeMu.Lock()
	defer c.scopeMu.Unlock()

	switch c.scope {
	case "":
		c.scope = flightID
		return nil
	case flightID:
		return nil
	default:
		return ErrScopeImmutable
	}
}

// Start registers the client and starts its pumps. ctx supplies values
// (request ID) for frame handling; its cancellation is ignored because the
// connection outlives the HTTP handler that upgraded it.
func (c *Client) Start(ctx context.Context) error {
	select {
	case c.hub.Register <- c:
	case <-c.hub.done:
		return ErrHubStopped
	}

	go c.writePump()
	go c.readPump(context.WithoutCancel(ctx))
	return nil
}

// readPump reads frames until the connection fails and hands each one to
// the handler.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("unexpected_close").Inc()
				logging.Error().Err(err).Uint64("client_id", c.id).Msg("unexpected websocket close error")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()

		if messageType != websocket.TextMessage {
			metrics.RecordRelayFrame("binary", "invalid")
			logging.Warn().Uint64("client_id", c.id).Msg("ignoring non-text WebSocket frame")
			continue
		}
		if !c.limiter.Allow() {
			metrics.RecordRelayFrame("unknown", "rate_limited")
			logging.Warn().Uint64("client_id", c.id).Str("flight_id", c.Scope()).Msg("WebSocket frame dropped: rate limit exceeded")
			continue
		}
		if c.handler != nil {
			_ = c.handler.HandleFrame(ctx, c, frame) // handler logs its own failures
		}
	}
}

// writePump drains the send channel onto the connection and keeps it alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel.
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logging.Debug().Err(err).Msg("failed to write close message")
				}
				return
			}

			payload, err := MarshalMessage(message)
			if err != nil {
				metrics.WSErrors.WithLabelValues("marshal").Inc()
				logging.Error().Err(err).Str("message_type", message.Type).Msg("failed to marshal WebSocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				logging.Error().Err(err).Uint64("client_id", c.id).Msg("failed to write WebSocket message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
