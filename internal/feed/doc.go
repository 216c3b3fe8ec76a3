// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package feed consumes the ATC24 live data WebSocket (wss://24data.ptfs.app/wss).

Every upstream frame is an envelope {"t": type, "d": payload}. The Client
decodes recognised types (ACFT_DATA, EVENT_ACFT_DATA, FLIGHT_PLAN,
EVENT_FLIGHT_PLAN, CONTROLLERS, ATIS) into typed Events, stores the payload in
a Cache and then calls every subscribed Listener on the reading goroutine.
Frames that fail to parse, carry an unknown type, or fail shape validation
are logged and dropped without closing the socket.

Reconnection:

	attempt   delay
	   0       1s
	   1       2s
	   2       4s
	   3       8s
	   4      16s
	   5      give up: UnavailableEvent, Run returns ErrFeedUnavailable

The attempt counter resets each time a socket opens. Start (or Run) resets
the terminal state.

Fallback wraps the Cache for the polling API: while no ACFT_DATA or
CONTROLLERS message has arrived yet, it fetches the equivalent REST endpoint
through a circuit breaker and seeds the cache with the result.
*/
package feed
