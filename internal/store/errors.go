// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package store

import "errors"

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotFound reports whether err means the requested entity does not exist.
func IsNotFound(err error) bool {
	return isNotFound(err)
}

// IsExpected reports whether err is a caller-side outcome rather than a
// backend fault. Circuit breakers use it to avoid tripping on lookups of
// missing entities.
func IsExpected(err error) bool {
	return err == nil || isNotFound(err)
}
