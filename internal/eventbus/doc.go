// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package eventbus carries feed and relay events between components over
Watermill.

Backends:

  - channel: Watermill gochannel, in-process only (default)
  - nats: core NATS subjects through watermill-nats, against an external
    server or an embedded nats-server

FeedBridge republishes feed.Client events on the feed.* topics and the
client's health on feed.status. StatusForwarder consumes feed.status and
hands each update to a sink; the server wires that sink to the WebSocket
hub so every client receives feed_status frames. The relay publishes
relay.new_message and relay.service_updated after each successful
broadcast for external consumers.
*/
package eventbus
