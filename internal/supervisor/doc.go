// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package supervisor runs Groundcrew's long-lived services under a suture v4
supervisor tree.

# Overview

Services are grouped into three layers so that a failure in one does not
restart the others:

	RootSupervisor ("groundcrew")
	├── DataSupervisor ("data-layer")
	│   ├── store            (closes the backend on shutdown)
	│   └── event-bus        (closes the publisher on shutdown)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket-hub
	│   ├── atc24-feed
	│   ├── feed-bridge
	│   └── feed-status-forwarder
	└── APISupervisor ("api-layer")
	    └── http-server

Crashed services restart with suture's backoff. The ATC24 feed is the one
exception: once its reconnect budget is spent it returns
suture.ErrDoNotRestart and stays down, leaving the REST fallback in charge.

# Usage

	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewCloserService("store", st))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(services.NewFeedService(feedClient))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

	if report, _ := tree.UnstoppedServiceReport(); len(report) > 0 {
	    // log services that ignored cancellation
	}

# Logging

Supervisor events (service start, panic, backoff, restart) are written
through sutureslog onto the slog bridge from the logging package, so they
land in the same zerolog stream as everything else.

See also internal/supervisor/services for the service adapters.
*/
package supervisor
