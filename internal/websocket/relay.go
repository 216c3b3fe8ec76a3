// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package websocket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/groundcrew/internal/breaker"
	"github.com/tomtom215/groundcrew/internal/eventbus"
	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/metrics"
	"github.com/tomtom215/groundcrew/internal/models"
	"github.com/tomtom215/groundcrew/internal/store"
	"github.com/tomtom215/groundcrew/internal/validation"
)

// Inbound frame types.
const (
	FrameJoinFlight    = "join_flight"
	FrameSendMessage   = "send_message"
	FrameServiceUpdate = "service_update"
)

// defaultWriteTimeout bounds a single store write made on behalf of a frame.
const defaultWriteTimeout = 5 * time.Second

var (
	// ErrInvalidFrame wraps every parse and validation failure.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrUnknownFrame is returned for a well-formed frame with an unknown type.
	ErrUnknownFrame = errors.New("unknown frame type")
)

// Store is the persistence the relay writes through.
type Store interface {
	CreateCommunication(ctx context.Context, in models.CommunicationInput) (*models.Communication, error)
	UpdateServiceRequest(ctx context.Context, id string, patch models.ServiceRequestPatch) (*models.ServiceRequest, error)
}

type frameHeader struct {
	Type string `json:"type"`
}

type joinFlightFrame struct {
	FlightID string `json:"flightId" validate:"required,max=64"`
}

type serviceUpdateFrame struct {
	FlightID  string `json:"flightId" validate:"required,max=64"`
	ServiceID string `json:"serviceId" validate:"required,max=64"`
	Status    string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

// Relay turns inbound frames into store writes and scoped broadcasts.
// Each mutating frame causes exactly one store write; the broadcast happens
// only when that write succeeds.
type Relay struct {
	hub          *Hub
	store        Store
	writes       *breaker.Breaker
	publisher    eventbus.Publisher
	writeTimeout time.Duration
}

// RelayOption configures a Relay.
type RelayOption func(*Relay)

// WithPublisher mirrors every relay broadcast onto the event bus.
func WithPublisher(p eventbus.Publisher) RelayOption {
	return func(r *Relay) { r.publisher = p }
}

// WithWriteBreaker replaces the default store-writes breaker.
func WithWriteBreaker(b *breaker.Breaker) RelayOption {
	return func(r *Relay) { r.writes = b }
}

// WithWriteTimeout bounds each store write.
func WithWriteTimeout(d time.Duration) RelayOption {
	return func(r *Relay) { r.writeTimeout = d }
}

// NewRelay creates a Relay broadcasting through hub.
func NewRelay(hub *Hub, st Store, opts ...RelayOption) *Relay {
	r := &Relay{
		hub:          hub,
		store:        st,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.writes == nil {
		r.writes = NewWriteBreaker()
	}
	return r
}

// NewWriteBreaker returns the breaker used in front of relay store writes.
// Missing records do not count as failures.
func NewWriteBreaker() *breaker.Breaker {
	s := breaker.DefaultSettings("store-writes")
	s.IsSuccessful = store.IsExpected
	return breaker.New(s)
}

// HandleFrame implements FrameHandler. Every failure is logged here and
// leaves the connection open.
func (r *Relay) HandleFrame(ctx context.Context, c *Client, frame []byte) error {
	frameType, err := r.dispatch(ctx, c, frame)
	result := frameResult(err)
	metrics.RecordRelayFrame(frameType, result)

	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Uint64("client_id", c.ID()).
			Str("flight_id", c.Scope()).
			Str("frame_type", frameType).
			Str("result", result).
			Msg("WebSocket frame not applied")
	}
	return err
}

func (r *Relay) dispatch(ctx context.Context, c *Client, frame []byte) (string, error) {
	var header frameHeader
	if err := json.Unmarshal(frame, &header); err != nil {
		return "unknown", fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}

	switch header.Type {
	case FrameJoinFlight:
		return header.Type, r.joinFlight(c, frame)
	case FrameSendMessage:
		return header.Type, r.sendMessage(ctx, frame)
	case FrameServiceUpdate:
		return header.Type, r.serviceUpdate(ctx, frame)
	default:
		return "unknown", fmt.Errorf("%w: %q", ErrUnknownFrame, header.Type)
	}
}

func (r *Relay) joinFlight(c *Client, frame []byte) error {
	var f joinFlightFrame
	if err := decodeFrame(frame, &f); err != nil {
		return err
	}

	previous := c.Scope()
	if err := c.Join(f.FlightID); err != nil {
		return fmt.Errorf("join %s while scoped to %s: %w", f.FlightID, previous, err)
	}
	if previous == "" {
		logging.Info().Uint64("client_id", c.ID()).Str("flight_id", f.FlightID).Msg("client joined flight")
	}
	return nil
}

func (r *Relay) sendMessage(ctx context.Context, frame []byte) error {
	var in models.CommunicationInput
	if err := decodeFrame(frame, &in); err != nil {
		return err
	}

	comm, err := breaker.Do(r.writes, func() (*models.Communication, error) {
		wctx, cancel := context.WithTimeout(ctx, r.writeTimeout)
		defer cancel()
		return r.store.CreateCommunication(wctx, in)
	})
	if err != nil {
		return fmt.Errorf("create communication: %w", err)
	}

	r.hub.BroadcastToFlight(comm.FlightID, Message{Type: MessageTypeNewMessage, Data: comm})
	r.publish(eventbus.TopicRelayNewMessage, comm)
	return nil
}

func (r *Relay) serviceUpdate(ctx context.Context, frame []byte) error {
	var f serviceUpdateFrame
	if err := decodeFrame(frame, &f); err != nil {
		return err
	}

	status := f.Status
	svc, err := breaker.Do(r.writes, func() (*models.ServiceRequest, error) {
		wctx, cancel := context.WithTimeout(ctx, r.writeTimeout)
		defer cancel()
		return r.store.UpdateServiceRequest(wctx, f.ServiceID, models.ServiceRequestPatch{Status: &status})
	})
	if err != nil {
		return fmt.Errorf("update service request %s: %w", f.ServiceID, err)
	}

	// Scope follows the frame; the record's own flight is not consulted.
	r.hub.BroadcastToFlight(f.FlightID, Message{Type: MessageTypeServiceUpdated, Data: svc})
	r.publish(eventbus.TopicRelayServiceUpdated, svc)
	return nil
}

func (r *Relay) publish(topic string, payload interface{}) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(topic, payload); err != nil {
		logging.Warn().Err(err).Str("topic", topic).Msg("failed to publish relay event")
	}
}

func decodeFrame(frame []byte, dst interface{}) error {
	if err := json.Unmarshal(frame, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFrame, verr.Error())
	}
	return nil
}

func frameResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidFrame), errors.Is(err, ErrUnknownFrame):
		return "invalid"
	case errors.Is(err, ErrScopeImmutable), breaker.IsRejected(err):
		return "rejected"
	case store.IsNotFound(err):
		return "not_found"
	default:
		return "store_error"
	}
}
