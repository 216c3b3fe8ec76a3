// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package validation wraps go-playground/validator v10 for request, relay frame
and upstream payload validation.

# Usage

	if err := validation.ValidateStruct(&frame); err != nil {
	    logging.Warn().Err(err).Msg("dropping invalid frame")
	    return
	}

# Supported Tags

Built-in tags used across Groundcrew:
  - required, omitempty
  - min=n, max=n, len=n, gte=n, lte=n
  - oneof=a b c (entity enumerations such as service status)
  - dive (slices of nested structs, e.g. checklist items)

Custom tags:
  - icao: four upper-case letters or digits (KLAX, KJFK)

# Field Names

Errors report the JSON name of a field ("senderRole"), not the Go name, so
VALIDATION_ERROR details line up with what the client sent.

# Thread Safety

The validator is created once via sync.Once and is safe for concurrent use.
*/
package validation
