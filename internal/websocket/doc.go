// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package websocket implements the downstream, flight-scoped WebSocket relay.

Browsers connect to /ws, join a flight, and then exchange chat messages and
service status changes with everyone else on that flight. Every change is
written to the store before it is broadcast, so a client that reloads and
reads the REST API sees the same state the relay announced.

Key Components:

  - Hub: owns the set of connected clients and fans messages out, either to
    the clients of one flight or to everyone
  - Client: one connection with a read goroutine, a write goroutine, a send
    buffer and a per-connection token bucket
  - Relay: parses inbound frames, writes through the store behind the
    "store-writes" circuit breaker, then broadcasts

Wire protocol (JSON text frames):

	-> {"type":"join_flight","flightId":"..."}
	-> {"type":"send_message","flightId":"...","sender":"...","senderRole":"...","message":"..."}
	-> {"type":"service_update","flightId":"...","serviceId":"...","status":"..."}

	<- {"type":"new_message","data":{Communication}}
	<- {"type":"service_updated","data":{ServiceRequest}}
	<- {"type":"feed_status","data":{"status":"...","connected":false,"attempts":5,"at":"..."}}

A connection's flight is fixed by its first join_flight. Joining the same
flight again is ignored and joining another one is rejected. send_message
does not require a join; the sender only sees its own message if it is
scoped to that flight.

Frames that fail to parse or validate, frames over the rate limit, and
frames whose store write fails are logged and dropped. None of them close
the connection and none of them produce a broadcast.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	relay := websocket.NewRelay(hub, st, websocket.WithPublisher(bus))

	conn, _ := upgrader.Upgrade(w, r, nil)
	client := websocket.NewClient(hub, conn, relay, cfg.WebSocket)
	if err := client.Start(r.Context()); err != nil {
		conn.Close()
	}

Thread Safety:

Hub methods are safe for concurrent use. The clients map is mutated only by
the RunWithContext goroutine. A client's frames are handled one at a time
on its read goroutine, so frames from one connection apply in arrival order.
*/
package websocket
