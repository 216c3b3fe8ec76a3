// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

// Package config loads Groundcrew configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH, config.yaml, /etc/groundcrew/config.yaml)
//  3. Environment Variables: mapped explicitly by envTransformFunc
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("failed to load config")
//	}
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Feed       FeedConfig       `koanf:"feed"`
	WebSocket  WebSocketConfig  `koanf:"websocket"`
	Store      StoreConfig      `koanf:"store"`
	Bus        BusConfig        `koanf:"bus"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// FeedConfig holds the ATC24 upstream feed settings.
//
// Environment Variables:
//   - ATC24_ENABLED: connect to the upstream feed at startup (default: true)
//   - ATC24_WS_URL: upstream WebSocket endpoint (default: wss://24data.ptfs.app/wss)
//   - ATC24_REST_URL: upstream REST base used when the cache is cold (default: https://24data.ptfs.app)
//   - ATC24_MAX_RECONNECT_ATTEMPTS: retry budget before the feed is marked unavailable (default: 5)
//   - ATC24_RECONNECT_BASE_DELAY / ATC24_RECONNECT_MAX_DELAY: backoff bounds (default: 1s / 30s)
type FeedConfig struct {
	Enabled              bool          `koanf:"enabled"`
	URL                  string        `koanf:"url"`
	RESTURL              string        `koanf:"rest_url"`
	MaxReconnectAttempts int           `koanf:"max_reconnect_attempts"`
	ReconnectBaseDelay   time.Duration `koanf:"reconnect_base_delay"`
	ReconnectMaxDelay    time.Duration `koanf:"reconnect_max_delay"`
	HandshakeTimeout     time.Duration `koanf:"handshake_timeout"`
	// ReadTimeout of zero disables the per-read deadline.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	RESTTimeout  time.Duration `koanf:"rest_timeout"`
	RESTFallback bool          `koanf:"rest_fallback"`
}

// WebSocketConfig holds downstream relay settings.
type WebSocketConfig struct {
	// InboundRate is the sustained number of frames per second accepted from one connection.
	InboundRate  float64 `koanf:"inbound_rate"`
	InboundBurst int     `koanf:"inbound_burst"`
	SendBuffer   int     `koanf:"send_buffer"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `koanf:"backend"` // memory or badger
	Path    string `koanf:"path"`    // required for badger
	Seed    bool   `koanf:"seed"`
}

// BusConfig selects the internal event bus backend.
type BusConfig struct {
	Backend      string `koanf:"backend"` // channel or nats
	NATSURL      string `koanf:"nats_url"`
	EmbeddedNATS bool   `koanf:"embedded_nats"`
	NATSHost     string `koanf:"nats_host"`
	NATSPort     int    `koanf:"nats_port"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SupervisorConfig mirrors supervisor.TreeConfig.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load reads configuration from defaults, an optional config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
