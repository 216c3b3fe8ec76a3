// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package config loads and validates Groundcrew configuration.

# Configuration Sources

Configuration is layered with Koanf v2; later sources win:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: $CONFIG_PATH, or the first of config.yaml, config.yml,
    /etc/groundcrew/config.yaml, /etc/groundcrew/config.yml
 3. Environment variables listed in envMappings

Environment variables without a mapping are ignored, so unrelated process
environment never leaks into the config tree. CORS_ORIGINS is split on
commas.

# Sections

  - Server: listen address, request and shutdown timeouts
  - Feed: ATC24 upstream WebSocket URL, REST fallback, reconnect budget
  - WebSocket: per-connection inbound rate and send buffer for the relay
  - Store: memory or badger backend, demo seeding
  - Bus: channel or nats event bus, embedded NATS server
  - Security: CORS origins and API rate limits
  - Logging: level, format, caller
  - Supervisor: suture failure threshold, decay, backoff and shutdown timeout

# Example

	server:
	  port: 5000
	feed:
	  url: wss://24data.ptfs.app/wss
	  max_reconnect_attempts: 5
	store:
	  backend: badger
	  path: /var/lib/groundcrew
	bus:
	  backend: nats
	  embedded_nats: true

# Validation

Load returns an error when any section is invalid: a non-ws(s) feed URL, a
badger store without a path, a nats bus with neither a URL nor the embedded
server, CORS origins that are not bare http(s) origins, and so on. Errors
name the environment variable to fix.
*/
package config
