// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package feed

import (
	"sync"
	"time"

	"github.com/mohae/deepcopy"
)

// Snapshot is a cached value and the time it was received.
type Snapshot[T any] struct {
	Value      T         `json:"value"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Cache holds the most recent value of every upstream message type.
// Values are copied on the way in and on the way out, so neither listeners
// nor readers can mutate cached state.
type Cache struct {
	mu sync.RWMutex

	aircraft      *Snapshot[AircraftSnapshot]
	eventAircraft *Snapshot[AircraftSnapshot]
	controllers   *Snapshot[Controllers]

	atis             map[string]Snapshot[Atis]       // by airport
	flightPlans      map[string]Snapshot[FlightPlan] // by callsign
	eventFlightPlans map[string]Snapshot[FlightPlan] // by callsign
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		atis:             make(map[string]Snapshot[Atis]),
		flightPlans:      make(map[string]Snapshot[FlightPlan]),
		eventFlightPlans: make(map[string]Snapshot[FlightPlan]),
	}
}

func copyOf[T any](v T) T {
	return deepcopy.Copy(v).(T)
}

// Apply records the payload of a data event. Lifecycle events are ignored.
func (c *Cache) Apply(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := ev.(type) {
	case AircraftDataEvent:
		c.aircraft = &Snapshot[AircraftSnapshot]{Value: copyOf(e.Aircraft), ReceivedAt: e.At}
	case EventAircraftDataEvent:
		c.eventAircraft = &Snapshot[AircraftSnapshot]{Value: copyOf(e.Aircraft), ReceivedAt: e.At}
	case ControllersEvent:
		c.controllers = &Snapshot[Controllers]{Value: copyOf(e.Controllers), ReceivedAt: e.At}
	case AtisEvent:
		c.atis[e.Atis.Airport] = Snapshot[Atis]{Value: copyOf(e.Atis), ReceivedAt: e.At}
	case FlightPlanEvent:
		c.flightPlans[e.Plan.Callsign] = Snapshot[FlightPlan]{Value: e.Plan, ReceivedAt: e.At}
	case EventFlightPlanEvent:
		c.eventFlightPlans[e.Plan.Callsign] = Snapshot[FlightPlan]{Value: e.Plan, ReceivedAt: e.At}
	}
}

// Aircraft returns the latest live snapshot.
func (c *Cache) Aircraft() (Snapshot[AircraftSnapshot], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.aircraft == nil {
		return Snapshot[AircraftSnapshot]{}, false
	}
	return Snapshot[AircraftSnapshot]{Value: copyOf(c.aircraft.Value), ReceivedAt: c.aircraft.ReceivedAt}, true
}

// EventAircraft returns the latest event-server snapshot.
func (c *Cache) EventAircraft() (Snapshot[AircraftSnapshot], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.eventAircraft == nil {
		return Snapshot[AircraftSnapshot]{}, false
	}
	return Snapshot[AircraftSnapshot]{Value: copyOf(c.eventAircraft.Value), ReceivedAt: c.eventAircraft.ReceivedAt}, true
}

// Controllers returns the latest controller list.
func (c *Cache) Controllers() (Snapshot[Controllers], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.controllers == nil {
		return Snapshot[Controllers]{}, false
	}
	return Snapshot[Controllers]{Value: copyOf(c.controllers.Value), ReceivedAt: c.controllers.ReceivedAt}, true
}

// Atis returns the latest ATIS of every airport.
func (c *Cache) Atis() map[string]Snapshot[Atis] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyOf(c.atis)
}

// AtisFor returns the latest ATIS of one airport.
func (c *Cache) AtisFor(airport string) (Snapshot[Atis], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.atis[airport]
	if !ok {
		return Snapshot[Atis]{}, false
	}
	return Snapshot[Atis]{Value: copyOf(s.Value), ReceivedAt: s.ReceivedAt}, true
}

// FlightPlans returns the latest live flight plan of every callsign.
func (c *Cache) FlightPlans() map[string]Snapshot[FlightPlan] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyOf(c.flightPlans)
}

// EventFlightPlans returns the latest event-server flight plan of every callsign.
func (c *Cache) EventFlightPlans() map[string]Snapshot[FlightPlan] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyOf(c.eventFlightPlans)
}
