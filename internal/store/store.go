// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/groundcrew/internal/config"
	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/metrics"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Key prefixes. Flight-scoped entities embed the flight ID so that
// per-flight listings are a single prefix scan.
const (
	aircraftPrefix  = "aircraft:"
	flightPrefix    = "flight:"
	servicePrefix   = "service:"
	checklistPrefix = "checklist:"
	progressPrefix  = "progress:"
	commPrefix      = "comm:"
	seatPrefix      = "seat:"
	airportPrefix   = "airport:"
)

// Store persists ground-operation entities on top of a Backend.
type Store struct {
	backend Backend
	now     func() time.Time
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for server-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the server-assigned ID source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open builds the backend named in cfg and seeds it when requested.
func Open(ctx context.Context, cfg config.StoreConfig, opts ...Option) (*Store, error) {
	var backend Backend
	switch cfg.Backend {
	case BackendMemory, "":
		backend = NewMemoryBackend()
	case BackendBadger:
		b, err := OpenBadger(cfg.Path)
		if err != nil {
			return nil, err
		}
		backend = b
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	s := New(backend, opts...)
	if cfg.Seed {
		if err := s.Seed(ctx); err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}

	logging.Info().
		Str("backend", backend.Name()).
		Str("path", cfg.Path).
		Bool("seed", cfg.Seed).
		Msg("Store opened")
	return s, nil
}

// BackendName reports the underlying backend.
func (s *Store) BackendName() string { return s.backend.Name() }

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

// observe records duration and error category for one store call.
func observe(op, entity string, start time.Time, err error) {
	errorType := ""
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		errorType = "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		errorType = "context"
	case errors.Is(err, ErrClosed):
		errorType = "closed"
	default:
		errorType = "backend"
	}
	metrics.RecordStoreOperation(op, entity, time.Since(start), errorType, err)
}

func getJSON[T any](ctx context.Context, b Backend, key string) (*T, error) {
	raw, err := b.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}

func putJSON(ctx context.Context, b Backend, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.Put(ctx, key, raw)
}

// updateJSON applies mutate to the decoded value at key and returns the
// stored result.
func updateJSON[T any](ctx context.Context, b Backend, key string, mutate func(*T)) (*T, error) {
	var out T
	err := b.Update(ctx, key, func(old []byte) ([]byte, error) {
		var v T
		if err := json.Unmarshal(old, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		mutate(&v)
		out = v
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// scanJSON decodes every value under prefix, keeping those accepted by keep
// (nil keeps all).
func scanJSON[T any](ctx context.Context, b Backend, prefix string, keep func(*T) bool) ([]T, error) {
	out := make([]T, 0)
	err := b.Scan(ctx, prefix, func(key string, raw []byte) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		if keep == nil || keep(&v) {
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
