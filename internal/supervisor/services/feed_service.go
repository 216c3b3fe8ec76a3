// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/groundcrew/internal/feed"
	"github.com/tomtom215/groundcrew/internal/logging"
)

// FeedRunner is satisfied by *feed.Client.
type FeedRunner interface {
	Run(ctx context.Context) error
}

// FeedService supervises the upstream ATC24 client.
//
// The client owns its reconnect schedule. Once that schedule gives up the
// service returns suture.ErrDoNotRestart: restarting would silently reset the
// retry budget, and the feed is expected to stay down until an operator
// restarts it.
type FeedService struct {
	client FeedRunner
	name   string
}

// NewFeedService wraps client.
func NewFeedService(client FeedRunner) *FeedService {
	return &FeedService{client: client, name: "atc24-feed"}
}

// Serve implements suture.Service.
func (f *FeedService) Serve(ctx context.Context) error {
	err := f.client.Run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, feed.ErrFeedUnavailable):
		logging.Error().Err(err).Str("service", f.name).Msg("upstream feed unavailable, not restarting")
		return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, err)
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("atc24 feed: %w", err)
	}
}

func (f *FeedService) String() string {
	return f.name
}
