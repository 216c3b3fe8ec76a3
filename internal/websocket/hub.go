// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/metrics"
	"github.com/tomtom215/groundcrew/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path (SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Outbound message types.
const (
	MessageTypeNewMessage     = "new_message"
	MessageTypeServiceUpdated = "service_updated"
	MessageTypeFeedStatus     = "feed_status"
)

// Message is an outbound frame: {"type": ..., "data": ...}.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// flightEnqueueTimeout bounds how long a flight-scoped broadcast waits for
// queue space before it is dropped.
const flightEnqueueTimeout = 2 * time.Second

// broadcast is a queued fan-out. An empty flightID reaches every client.
type broadcast struct {
	flightID string
	message  Message
}

// Hub tracks connected clients and fans messages out to them, either to
// every client or to those scoped to one flight.
//
// Only the RunWithContext goroutine mutates the clients map. mu lets the
// count accessors read it from other goroutines.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan broadcast
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	// done is closed when the hub stops so that exiting clients do not block
	// on Unregister.
	done     chan struct{}
	doneOnce sync.Once

	// flightWait is the flight-scoped enqueue bound; see flightEnqueueTimeout.
	flightWait time.Duration
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan broadcast, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		flightWait: flightEnqueueTimeout,
	}
}

// RunWithContext runs the hub until ctx is done, then closes every client.
//
// Selection is prioritised so that behaviour under load is predictable:
//   - Priority 1: context cancellation
//   - Priority 2: client lifecycle (Register/Unregister)
//   - Priority 3: broadcasts
//
// Lifecycle first means a client registered before a broadcast was queued
// always receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case b := <-h.broadcast:
			h.broadcastToClients(b)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(count))
	logging.Debug().Uint64("client_id", client.id).Int("clients", count).Msg("WebSocket client registered")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(count))
	logging.Debug().Uint64("client_id", client.id).Str("flight_id", client.Scope()).Int("clients", count).Msg("WebSocket client unregistered")
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	h.mu.RLock()
	clientCount := len(h.clients)
	h.mu.RUnlock()

	logging.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients", clientCount).
		Msg("WebSocket hub shutting down")

	h.doneOnce.Do(func() { close(h.done) })
	h.closeAllClients()
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// broadcastToClients delivers b to a snapshot of matching clients in ID
// order. A client whose send buffer is full is dropped; that never fails the
// broadcast for anyone else.
func (h *Hub) broadcastToClients(b broadcast) {
	h.mu.Lock()
	defer h.mu.Unlock()

	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if b.flightID != "" && client.Scope() != b.flightID {
			continue
		}
		targets = append(targets, client)
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].id < targets[j].id
	})

	delivered := 0
	for _, client := range targets {
		select {
		case client.send <- b.message:
			delivered++
		default:
			close(client.send)
			delete(h.clients, client)
			metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
			logging.Warn().
				Uint64("client_id", client.id).
				Str("message_type", b.message.Type).
				Msg("WebSocket client send buffer full, dropping client")
		}
	}

	metrics.WSConnections.Set(float64(len(h.clients)))
	metrics.WSMessagesSent.Add(float64(delivered))
	if b.flightID != "" {
		metrics.RelayBroadcastRecipients.Observe(float64(delivered))
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// enqueue never blocks. It serves feed status, where a newer status
// supersedes a dropped one.
func (h *Hub) enqueue(b broadcast) {
	select {
	case h.broadcast <- b:
	default:
		h.dropBroadcast(b)
	}
}

// enqueueWait blocks up to wait for queue space. Relay messages are already
// persisted when they get here, so the sender's read loop is held back rather
// than losing the fan-out. It gives up when the hub stops.
func (h *Hub) enqueueWait(b broadcast, wait time.Duration) {
	select {
	case h.broadcast <- b:
		return
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case h.broadcast <- b:
	case <-h.done:
		h.dropBroadcast(b)
	case <-timer.C:
		h.dropBroadcast(b)
	}
}

func (h *Hub) dropBroadcast(b broadcast) {
	metrics.WSErrors.WithLabelValues("broadcast_queue_full").Inc()
	logging.Warn().
		Str("message_type", b.message.Type).
		Str("flight_id", b.flightID).
		Msg("broadcast channel full, dropping message")
}

// BroadcastToFlight queues message for every client scoped to flightID,
// waiting briefly for queue space when the hub is backed up.
func (h *Hub) BroadcastToFlight(flightID string, message Message) {
	if flightID == "" {
		return
	}
	h.enqueueWait(broadcast{flightID: flightID, message: message}, h.flightWait)
}

// BroadcastAll queues message for every connected client regardless of scope.
func (h *Hub) BroadcastAll(message Message) {
	h.enqueue(broadcast{message: message})
}

// BroadcastFeedStatus tells every client about an upstream feed transition.
func (h *Hub) BroadcastFeedStatus(status models.FeedHealth) {
	h.BroadcastAll(Message{Type: MessageTypeFeedStatus, Data: status})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FlightClientCount returns the number of clients scoped to flightID.
func (h *Hub) FlightClientCount(flightID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for client := range h.clients {
		if client.Scope() == flightID {
			n++
		}
	}
	return n
}

// MarshalMessage encodes msg the way clients receive it.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
