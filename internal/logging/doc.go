// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

// Package logging provides centralized zerolog-based structured logging for Groundcrew.
//
// JSON output is the default; console output is meant for development.
// Every other package logs through this one, including the libraries that
// bring their own logger interface: suture via the slog adapter and
// Watermill via the Watermill adapter.
//
// # Quick Start
//
//	import "github.com/tomtom215/groundcrew/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("flight_id", id).Msg("client joined flight")
//	logging.Error().Err(err).Str("topic", topic).Msg("publish failed")
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// Init may be called again at runtime; cmd/server does so when the config
// file's logging section changes.
//
// # Component Loggers
//
//	feedLog := logging.WithComponent("atc24-feed")
//	feedLog.Info().Int("attempt", n).Msg("reconnecting")
//
// # Context-Aware Logging
//
// The request ID middleware stores the ID in the request context. Ctx returns
// a logger carrying it (and a correlation ID, when present):
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("store write failed")
//
// # Adapters
//
//	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg)
//	pubSub := gochannel.NewGoChannel(cfg, logging.NewWatermillAdapter("eventbus"))
//
// # Output Formats
//
// JSON:
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","message":"HTTP server configured","addr":"0.0.0.0:5000"}
//
// Console:
//
//	10:30:00 INF HTTP server configured addr=0.0.0.0:5000
//
// # Testing
//
//	var buf bytes.Buffer
//	logging.SetLogger(logging.NewTestLogger(&buf))
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger is
// guarded by a sync.RWMutex.
package logging
