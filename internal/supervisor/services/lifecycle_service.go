// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/groundcrew/internal/logging"
)

// Closer is a resource that is opened before the tree starts and released
// when it stops: the store and the event bus.
type Closer interface {
	Close() error
}

// CloserService ties a Closer's lifetime to the supervisor tree. It idles
// until ctx is cancelled and then closes the resource once.
type CloserService struct {
	resource Closer
	name     string
}

// NewCloserService wraps resource under name ("store", "event-bus").
func NewCloserService(name string, resource Closer) *CloserService {
	return &CloserService{resource: resource, name: name}
}

// Serve implements suture.Service.
func (c *CloserService) Serve(ctx context.Context) error {
	<-ctx.Done()

	if err := c.resource.Close(); err != nil {
		logging.Error().Err(err).Str("service", c.name).Msg("failed to close resource")
		return fmt.Errorf("close %s: %w", c.name, err)
	}
	logging.Info().Str("service", c.name).Msg("resource closed")
	return ctx.Err()
}

func (c *CloserService) String() string {
	return c.name
}
