// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package feed

import "time"

// EventKind names an Event variant.
type EventKind string

const (
	KindConnected         EventKind = "connected"
	KindAircraftData      EventKind = "aircraft_data"
	KindEventAircraftData EventKind = "event_aircraft_data"
	KindFlightPlan        EventKind = "flight_plan"
	KindEventFlightPlan   EventKind = "event_flight_plan"
	KindControllers       EventKind = "controllers"
	KindAtis              EventKind = "atis"
	KindError             EventKind = "error"
	KindUnavailable       EventKind = "feed_unavailable"
)

// Event is emitted to listeners. The set of implementations is closed.
type Event interface {
	Kind() EventKind
	isEvent()
}

// Listener receives events synchronously on the reading goroutine.
// It must not block.
type Listener func(Event)

// ConnectedEvent is emitted each time the socket opens.
type ConnectedEvent struct {
	At time.Time
}

// AircraftDataEvent carries a live aircraft snapshot.
type AircraftDataEvent struct {
	Aircraft AircraftSnapshot
	At       time.Time
}

// EventAircraftDataEvent carries an event-server aircraft snapshot.
type EventAircraftDataEvent struct {
	Aircraft AircraftSnapshot
	At       time.Time
}

// FlightPlanEvent carries one filed flight plan.
type FlightPlanEvent struct {
	Plan FlightPlan
	At   time.Time
}

// EventFlightPlanEvent carries one flight plan filed on the event server.
type EventFlightPlanEvent struct {
	Plan FlightPlan
	At   time.Time
}

// ControllersEvent carries the full controller list.
type ControllersEvent struct {
	Controllers Controllers
	At          time.Time
}

// AtisEvent carries one airport's ATIS.
type AtisEvent struct {
	Atis Atis
	At   time.Time
}

// ErrorEvent reports a dial or read failure. A reconnect follows unless
// the retry budget is spent.
type ErrorEvent struct {
	Err error
	At  time.Time
}

// UnavailableEvent is emitted once when the retry budget is exhausted.
// No further attempts are made until Start is called again.
type UnavailableEvent struct {
	Attempts int
	At       time.Time
}

func (ConnectedEvent) Kind() EventKind         { return KindConnected }
func (AircraftDataEvent) Kind() EventKind      { return KindAircraftData }
func (EventAircraftDataEvent) Kind() EventKind { return KindEventAircraftData }
func (FlightPlanEvent) Kind() EventKind        { return KindFlightPlan }
func (EventFlightPlanEvent) Kind() EventKind   { return KindEventFlightPlan }
func (ControllersEvent) Kind() EventKind       { return KindControllers }
func (AtisEvent) Kind() EventKind              { return KindAtis }
func (ErrorEvent) Kind() EventKind             { return KindError }
func (UnavailableEvent) Kind() EventKind       { return KindUnavailable }

func (ConnectedEvent) isEvent()         {}
func (AircraftDataEvent) isEvent()      {}
func (EventAircraftDataEvent) isEvent() {}
func (FlightPlanEvent) isEvent()        {}
func (EventFlightPlanEvent) isEvent()   {}
func (ControllersEvent) isEvent()       {}
func (AtisEvent) isEvent()              {}
func (ErrorEvent) isEvent()             {}
func (UnavailableEvent) isEvent()       {}
