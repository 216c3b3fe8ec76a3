// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package eventbus

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/groundcrew/internal/feed"
	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/models"
)

// Publisher is the publishing half of the bus.
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// FeedSource is the part of the feed client the bridge needs.
type FeedSource interface {
	Subscribe(fn feed.Listener) (unsubscribe func())
	Health() models.FeedHealth
}

// FeedBridge republishes feed events on the bus. Data events go to their
// feed.* topic; connection lifecycle events publish the client's health on
// feed.status.
type FeedBridge struct {
	source FeedSource
	bus    Publisher
}

// NewFeedBridge creates a bridge. Nothing is forwarded until Serve runs.
func NewFeedBridge(source FeedSource, bus Publisher) *FeedBridge {
	return &FeedBridge{source: source, bus: bus}
}

// Serve forwards events until ctx is cancelled.
func (b *FeedBridge) Serve(ctx context.Context) error {
	unsubscribe := b.source.Subscribe(b.forward)
	defer unsubscribe()

	// Publish the current state so late subscribers are not left guessing.
	b.publish(TopicFeedStatus, b.source.Health())

	<-ctx.Done()
	return ctx.Err()
}

func (b *FeedBridge) String() string { return "feed-bridge" }

func (b *FeedBridge) forward(ev feed.Event) {
	switch e := ev.(type) {
	case feed.AircraftDataEvent:
		b.publish(TopicFeedAircraft, e.Aircraft)
	case feed.EventAircraftDataEvent:
		b.publish(TopicFeedEventAircraft, e.Aircraft)
	case feed.FlightPlanEvent:
		b.publish(TopicFeedFlightPlan, e.Plan)
	case feed.EventFlightPlanEvent:
		b.publish(TopicFeedEventFlightPlan, e.Plan)
	case feed.ControllersEvent:
		b.publish(TopicFeedControllers, e.Controllers)
	case feed.AtisEvent:
		b.publish(TopicFeedAtis, e.Atis)
	case feed.ConnectedEvent, feed.ErrorEvent, feed.UnavailableEvent:
		b.publish(TopicFeedStatus, b.source.Health())
	}
}

func (b *FeedBridge) publish(topic string, payload interface{}) {
	if err := b.bus.Publish(topic, payload); err != nil && !errors.Is(err, ErrClosed) {
		logging.Warn().Err(err).Str("topic", topic).Msg("Failed to publish feed event")
	}
}

// StatusForwarder delivers feed.status messages to a sink, typically the
// WebSocket hub's broadcast-to-all.
type StatusForwarder struct {
	bus  *Bus
	sink func(models.FeedHealth)
}

// NewStatusForwarder creates a forwarder.
func NewStatusForwarder(bus *Bus, sink func(models.FeedHealth)) *StatusForwarder {
	return &StatusForwarder{bus: bus, sink: sink}
}

// Serve consumes feed.status until ctx is cancelled.
func (f *StatusForwarder) Serve(ctx context.Context) error {
	return f.bus.Handle(ctx, TopicFeedStatus, func(_ context.Context, msg *message.Message) error {
		health, err := Decode[models.FeedHealth](msg)
		if err != nil {
			// Redelivery would fail the same way.
			logging.Warn().Err(err).Msg("Dropping undecodable feed status")
			return nil
		}
		f.sink(health)
		return nil
	})
}

func (f *StatusForwarder) String() string { return "feed-status-forwarder" }
