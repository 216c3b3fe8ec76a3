// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package feed

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/metrics"
	"github.com/tomtom215/groundcrew/internal/validation"
)

var (
	errUnknownType = errors.New("unknown message type")
	errNullPayload = errors.New("missing payload")
)

// decodeEvent turns one envelope into its typed event. It returns
// errUnknownType for unrecognised "t" values and a descriptive error for
// payloads that do not match the expected shape.
func decodeEvent(env envelope, at time.Time) (Event, error) {
	switch env.T {
	case TypeAircraftData, TypeEventAircraftData:
		snapshot, err := decodeAircraft(env.D)
		if err != nil {
			return nil, err
		}
		if env.T == TypeAircraftData {
			return AircraftDataEvent{Aircraft: snapshot, At: at}, nil
		}
		return EventAircraftDataEvent{Aircraft: snapshot, At: at}, nil

	case TypeFlightPlan, TypeEventFlightPlan:
		var plan FlightPlan
		if err := decodeValid(env.D, &plan, &plan); err != nil {
			return nil, err
		}
		if env.T == TypeFlightPlan {
			return FlightPlanEvent{Plan: plan, At: at}, nil
		}
		return EventFlightPlanEvent{Plan: plan, At: at}, nil

	case TypeControllers:
		controllers, err := decodeControllers(env.D)
		if err != nil {
			return nil, err
		}
		return ControllersEvent{Controllers: controllers, At: at}, nil

	case TypeAtis:
		var atis Atis
		if err := decodeValid(env.D, &atis, &atis); err != nil {
			return nil, err
		}
		return AtisEvent{Atis: atis, At: at}, nil

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownType, env.T)
	}
}

// decodeAircraft keeps every well-formed entry of a snapshot. An entry that
// fails validation is logged and skipped so one bad aircraft does not
// blank the whole map.
func decodeAircraft(raw json.RawMessage) (AircraftSnapshot, error) {
	var snapshot AircraftSnapshot
	if err := decodeShape(raw, &snapshot); err != nil {
		return nil, err
	}
	for callsign, a := range snapshot {
		if verr := validation.ValidateStruct(&a); verr != nil {
			logging.Warn().
				Str("component", "atc24").
				Str("callsign", callsign).
				Err(verr).
				Msg("Skipping invalid aircraft entry")
			metrics.RecordFeedDropped("invalid_entry")
			delete(snapshot, callsign)
		}
	}
	return snapshot, nil
}

// decodeControllers keeps the order of the upstream list minus entries that
// fail validation.
func decodeControllers(raw json.RawMessage) (Controllers, error) {
	var list Controllers
	if err := decodeShape(raw, &list); err != nil {
		return nil, err
	}
	out := make(Controllers, 0, len(list))
	for i := range list {
		if verr := validation.ValidateStruct(&list[i]); verr != nil {
			logging.Warn().
				Str("component", "atc24").
				Int("index", i).
				Err(verr).
				Msg("Skipping invalid controller entry")
			metrics.RecordFeedDropped("invalid_entry")
			continue
		}
		out = append(out, list[i])
	}
	return out, nil
}

// decodeValid unmarshals raw into dst and validates the struct v.
func decodeValid(raw json.RawMessage, dst, v interface{}) error {
	if err := decodeShape(raw, dst); err != nil {
		return err
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		return fmt.Errorf("invalid payload: %w", verr)
	}
	return nil
}

// decodeShape rejects absent or null payloads and unmarshals the rest.
func decodeShape(raw json.RawMessage, dst interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errNullPayload
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
