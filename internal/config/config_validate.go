// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateFeed,
		c.validateWebSocket,
		c.validateStore,
		c.validateBus,
		c.validateSecurity,
		c.validateLogging,
		c.validateSupervisor,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging, or production, got %q", c.Server.Environment)
	}
}

// validateFeed validates ATC24 feed configuration (only if enabled)
func (c *Config) validateFeed() error {
	if !c.Feed.Enabled {
		return nil
	}

	if err := validateWebSocketURL(c.Feed.URL, "ATC24_WS_URL"); err != nil {
		return fmt.Errorf("ATC24_WS_URL is invalid: %w", err)
	}
	if c.Feed.RESTFallback {
		if err := validateHTTPURL(c.Feed.RESTURL, "ATC24_REST_URL"); err != nil {
			return fmt.Errorf("ATC24_REST_URL is invalid: %w", err)
		}
	}
	if c.Feed.MaxReconnectAttempts < 0 {
		return fmt.Errorf("ATC24_MAX_RECONNECT_ATTEMPTS must not be negative")
	}
	if c.Feed.ReconnectBaseDelay <= 0 || c.Feed.ReconnectMaxDelay < c.Feed.ReconnectBaseDelay {
		return fmt.Errorf("ATC24 reconnect delays must satisfy 0 < base (%v) <= max (%v)",
			c.Feed.ReconnectBaseDelay, c.Feed.ReconnectMaxDelay)
	}
	if c.Feed.HandshakeTimeout <= 0 {
		return fmt.Errorf("ATC24_HANDSHAKE_TIMEOUT must be positive")
	}
	if c.Feed.ReadTimeout < 0 {
		return fmt.Errorf("ATC24_READ_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) validateWebSocket() error {
	if c.WebSocket.InboundRate <= 0 {
		return fmt.Errorf("WS_INBOUND_RATE must be positive")
	}
	if c.WebSocket.InboundBurst < 1 {
		return fmt.Errorf("WS_INBOUND_BURST must be at least 1")
	}
	if c.WebSocket.SendBuffer < 1 {
		return fmt.Errorf("WS_SEND_BUFFER must be at least 1")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "memory":
		return nil
	case "badger":
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("STORE_PATH is required when STORE_BACKEND=badger")
		}
		return nil
	default:
		return fmt.Errorf("STORE_BACKEND must be memory or badger, got %q", c.Store.Backend)
	}
}

func (c *Config) validateBus() error {
	switch c.Bus.Backend {
	case "channel":
		return nil
	case "nats":
		if c.Bus.EmbeddedNATS {
			if c.Bus.NATSPort < 1 || c.Bus.NATSPort > 65535 {
				return fmt.Errorf("NATS_PORT must be between 1 and 65535, got %d", c.Bus.NATSPort)
			}
			return nil
		}
		if err := validateNATSURL(c.Bus.NATSURL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("BUS_BACKEND must be channel or nats, got %q", c.Bus.Backend)
	}
}

// validateSecurity validates CORS and rate limit settings
func (c *Config) validateSecurity() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			if c.Server.Environment == "production" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return err
		}
	}

	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be at least 1")
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be json or console; got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateSupervisor() error {
	if c.Supervisor.FailureThreshold <= 0 {
		return fmt.Errorf("SUPERVISOR_FAILURE_THRESHOLD must be positive")
	}
	if c.Supervisor.FailureDecay <= 0 {
		return fmt.Errorf("SUPERVISOR_FAILURE_DECAY must be positive")
	}
	if c.Supervisor.FailureBackoff <= 0 || c.Supervisor.ShutdownTimeout <= 0 {
		return fmt.Errorf("supervisor backoff and shutdown timeout must be positive")
	}
	return nil
}
