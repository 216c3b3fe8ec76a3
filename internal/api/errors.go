// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/groundcrew/internal/breaker"
	"github.com/tomtom215/groundcrew/internal/store"
)

// Error codes used in APIError.Code.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

var (
	// ErrBodyTooLarge is returned when a request body exceeds maxBodyBytes.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrEmptyBody is returned when a JSON body is required but missing.
	ErrEmptyBody = errors.New("request body is empty")

	errStoreNotConfigured = errors.New("store not configured")
)

// respondStoreError maps a store error onto the envelope. what names the
// entity for the not-found message ("flight", "seat").
func respondStoreError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case store.IsNotFound(err):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, what+" not found", nil)
	case breaker.IsRejected(err):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "storage temporarily unavailable", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "failed to access "+what, err)
	}
}
