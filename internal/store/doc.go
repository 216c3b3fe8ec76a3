// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package store persists aircraft, flights, service requests, checklists,
checklist progress, communications, seating and airports.

Entities are JSON documents in a key-value Backend. Two backends exist:

  - MemoryBackend: map-based, the default; contents are lost on restart
  - BadgerBackend: BadgerDB directory for durable storage

Keys are namespaced by entity ("flight:<id>", "comm:<flightId>:<id>", ...).
Flight-scoped entities embed the flight ID in the key so per-flight reads
are a single prefix scan.

Every operation records its duration and error category in the
store_operation_* Prometheus metrics. Missing entities surface as
ErrNotFound; callers use IsNotFound or errors.Is to detect them.

Seed loads five PTFS airports, the N737PT Boeing 737-800, flight PTFS001
and the Cockpit Preparation checklist. A marker key keeps durable backends
from being seeded twice.
*/
package store
