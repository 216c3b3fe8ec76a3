// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package main is the entry point for the Groundcrew server.

Groundcrew backs a flight ground-operations dashboard: fleet, flights and
airports, per-flight service requests, crew communications, seating and
preflight checklists. It mirrors the public ATC24 live feed (aircraft,
controllers, ATIS and flight plans) and relays chat and service updates to
every browser watching the same flight.

# Application Architecture

All long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("groundcrew")
	├── DataSupervisor ("data-layer")
	│   ├── store (closed on shutdown)
	│   └── event-bus (closed on shutdown)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket-hub
	│   ├── atc24-feed (when ATC24_ENABLED=true)
	│   ├── feed-bridge
	│   └── feed-status-forwarder
	└── APISupervisor ("api-layer")
	    └── http-server

Startup order:

 1. Configuration: Koanf v2 with defaults, an optional config.yaml and environment variables
 2. Logging: zerolog with JSON or console output
 3. Store: in-memory or BadgerDB, optionally seeded with demo data
 4. Event bus: Watermill over Go channels or NATS (external or embedded)
 5. Supervisor tree, WebSocket hub, relay and ATC24 feed client
 6. HTTP server: Chi router with CORS, rate limiting and Prometheus metrics

# Configuration

Common environment variables:

	HTTP_PORT=5000              listen port
	STORE_BACKEND=badger        memory (default) or badger
	STORE_PATH=/data/groundcrew badger directory
	STORE_SEED=false            skip demo data
	BUS_BACKEND=nats            channel (default) or nats
	NATS_EMBEDDED=true          run an in-process NATS server
	ATC24_ENABLED=false         do not connect to the upstream feed
	CORS_ORIGINS=https://ops.example.com
	LOG_LEVEL=debug

When a config file is in use, edits to its logging section are applied
without a restart.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for up to SERVER_SHUTDOWN_TIMEOUT, the hub sends a going-away close
frame to every client, and the store and bus are closed. Services still
running after the supervisor's shutdown timeout are logged by name.
*/
package main
