// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package store

import (
	"context"
	"errors"
)

// Sentinel errors returned by backends and the Store.
var (
	// ErrNotFound is returned when a key or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store closed")
)

// Backend is the key-value contract the Store is built on.
//
// Values are opaque JSON documents. Implementations must be safe for
// concurrent use, and Update must be atomic with respect to other writers
// of the same key.
type Backend interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value at key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Update reads the value at key, passes it to fn and stores the result.
	// Returns ErrNotFound if the key does not exist. An error from fn aborts
	// the update and is returned unchanged.
	Update(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error

	// Scan calls fn for every key with the given prefix in ascending key order.
	Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error

	// Name identifies the backend in logs and the health endpoint.
	Name() string

	Close() error
}
