// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package services provides suture.Service wrappers for Groundcrew components.

Each wrapper translates a component's own lifecycle (ListenAndServe, Run,
Close) into suture's context-aware Serve and names the service for the
supervisor's logs:

  - HTTPServerService: *http.Server with bounded graceful shutdown
  - WebSocketHubService: the relay hub
  - FeedService: the upstream ATC24 client; stops for good with
    suture.ErrDoNotRestart once the reconnect budget is spent
  - CloserService: releases the store and the event bus when the tree stops

The feed bridge and the feed-status forwarder in package eventbus already
implement Serve and String and are added to the tree directly.

Placement in the tree:

	data layer:      store, event-bus
	messaging layer: websocket-hub, atc24-feed, feed-bridge, feed-status-forwarder
	api layer:       http-server
*/
package services
