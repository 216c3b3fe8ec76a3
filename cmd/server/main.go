// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/groundcrew/internal/api"
	"github.com/tomtom215/groundcrew/internal/config"
	"github.com/tomtom215/groundcrew/internal/eventbus"
	"github.com/tomtom215/groundcrew/internal/feed"
	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/metrics"
	"github.com/tomtom215/groundcrew/internal/store"
	"github.com/tomtom215/groundcrew/internal/supervisor"
	"github.com/tomtom215/groundcrew/internal/supervisor/services"
	ws "github.com/tomtom215/groundcrew/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(loggingConfig(cfg))
	watchLogLevel()

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Groundcrew with supervisor tree")
	metrics.AppInfo.WithLabelValues(api.Version, runtime.Version()).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize store")
	}

	bus, err := eventbus.New(cfg.Bus)
	if err != nil {
		_ = st.Close()
		logging.Fatal().Err(err).Str("backend", cfg.Bus.Backend).Msg("Failed to initialize event bus")
	}
	logging.Info().Str("backend", bus.Backend()).Msg("Event bus initialized")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
		_ = bus.Close()
		_ = st.Close()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewCloserService("store", st))
	tree.AddDataService(services.NewCloserService("event-bus", bus))

	hub := ws.NewHub()
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	relay := ws.NewRelay(hub, st, ws.WithPublisher(bus))

	handlerOpts := []api.HandlerOption{api.WithBusBackend(bus.Backend())}
	if cfg.Feed.Enabled {
		feedClient := feed.NewClient(feed.ConfigFrom(cfg.Feed))

		var rest *feed.RESTClient
		if cfg.Feed.RESTFallback {
			rest = feed.NewRESTClient(cfg.Feed.RESTURL, cfg.Feed.RESTTimeout)
		}
		handlerOpts = append(handlerOpts, api.WithFeed(feedClient, feedClient.Cache(), rest))

		tree.AddMessagingService(services.NewFeedService(feedClient))
		tree.AddMessagingService(eventbus.NewFeedBridge(feedClient, bus))
		tree.AddMessagingService(eventbus.NewStatusForwarder(bus, hub.BroadcastFeedStatus))
		logging.Info().
			Str("url", cfg.Feed.URL).
			Bool("rest_fallback", cfg.Feed.RESTFallback).
			Msg("ATC24 feed enabled")
	} else {
		logging.Info().Msg("ATC24 feed disabled (ATC24_ENABLED=false)")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS is configured with wildcard origin (CORS_ORIGINS=*); set explicit origins in production")
			break
		}
	}

	handler := api.NewHandler(st, hub, relay, cfg, handlerOpts...)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server configured")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// watchLogLevel re-reads the config file on change and applies its logging
// section. Other settings need a restart.
func watchLogLevel() {
	path := config.FindConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config file change")
			return
		}
		logging.Init(loggingConfig(cfg))
		logging.Info().Str("path", path).Str("level", cfg.Logging.Level).Msg("Logging configuration reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch not started")
	}
}

func loggingConfig(cfg *config.Config) logging.Config {
	return logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}
