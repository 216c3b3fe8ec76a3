// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/groundcrew/internal/config"
	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/metrics"
)

// Topics carried on the bus.
const (
	TopicFeedAircraft        = "feed.aircraft"
	TopicFeedEventAircraft   = "feed.event_aircraft"
	TopicFeedFlightPlan      = "feed.flight_plan"
	TopicFeedEventFlightPlan = "feed.event_flight_plan"
	TopicFeedControllers     = "feed.controllers"
	TopicFeedAtis            = "feed.atis"
	TopicFeedStatus          = "feed.status"

	TopicRelayNewMessage     = "relay.new_message"
	TopicRelayServiceUpdated = "relay.service_updated"
)

// Backend names accepted by New.
const (
	BackendChannel = "channel"
	BackendNATS    = "nats"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event bus closed")

// Bus is a topic-based publish/subscribe bus backed by Watermill.
//
// The channel backend delivers in-process only. The nats backend uses core
// NATS subjects (JetStream disabled), optionally served by an embedded
// server, so external consumers can observe feed and relay traffic.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	backend    string
	embedded   *EmbeddedServer
	logger     watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// New builds the bus selected by cfg.
func New(cfg config.BusConfig) (*Bus, error) {
	switch cfg.Backend {
	case BackendChannel, "":
		return NewChannelBus(), nil
	case BackendNATS:
		return newNATSBus(cfg)
	default:
		return nil, fmt.Errorf("unknown bus backend %q", cfg.Backend)
	}
}

// NewChannelBus creates an in-process bus.
func NewChannelBus() *Bus {
	logger := logging.NewWatermillAdapter("eventbus")
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, logger)
	return &Bus{
		publisher:  pubSub,
		subscriber: pubSub,
		backend:    BackendChannel,
		logger:     logger,
	}
}

func newNATSBus(cfg config.BusConfig) (*Bus, error) {
	logger := logging.NewWatermillAdapter("eventbus")

	url := cfg.NATSURL
	var embedded *EmbeddedServer
	if cfg.EmbeddedNATS {
		srv, err := NewEmbeddedServer(cfg.NATSHost, cfg.NATSPort)
		if err != nil {
			return nil, err
		}
		embedded = srv
		url = srv.ClientURL()
	}

	b, err := NewNATSBus(url, logger)
	if err != nil {
		if embedded != nil {
			embedded.Shutdown()
		}
		return nil, err
	}
	b.embedded = embedded
	return b, nil
}

// NewNATSBus connects a bus to the NATS server at url.
func NewNATSBus(url string, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = logging.NewWatermillAdapter("eventbus")
	}

	natsOpts := []natsgo.Option{
		natsgo.Name("groundcrew"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     5 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	logging.Info().Str("url", url).Msg("Event bus connected to NATS")
	return &Bus{
		publisher:  pub,
		subscriber: sub,
		backend:    BackendNATS,
		logger:     logger,
	}, nil
}

// Backend reports which backend is in use.
func (b *Bus) Backend() string { return b.backend }

// Publish marshals payload as JSON and publishes it on topic.
func (b *Bus) Publish(topic string, payload interface{}) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		metrics.RecordBusPublish(topic, err)
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)

	err = b.publisher.Publish(topic, msg)
	metrics.RecordBusPublish(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe returns the raw message channel for topic. Callers must Ack or
// Nack every message.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

// Handle consumes topic until ctx is cancelled or the bus closes. Messages
// are acked when fn returns nil and nacked otherwise.
func (b *Bus) Handle(ctx context.Context, topic string, fn func(ctx context.Context, msg *message.Message) error) error {
	messages, err := b.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			metrics.BusMessagesConsumed.WithLabelValues(topic).Inc()
			if err := fn(ctx, msg); err != nil {
				b.logger.Error("Message processing failed", err, watermill.LogFields{
					"message_uuid": msg.UUID,
					"topic":        topic,
				})
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}
}

// Close shuts down the publisher, the subscriber and any embedded server.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	// gochannel shares one value for both sides.
	if any(b.subscriber) != any(b.publisher) {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.embedded != nil {
		b.embedded.Shutdown()
	}
	return errors.Join(errs...)
}

// Decode unmarshals a message payload.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("decode message %s: %w", msg.UUID, err)
	}
	return v, nil
}
