// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

// Package main is the entry point for the HRMS backend server.
//
// The server initializes components in the following order:
//
//  1. Configuration: struct defaults, optional config.yaml, HRMS_* env vars
//  2. Logging: zerolog, configured from HRMS_LOGGING_*
//  3. Store: Badger key-value store with the user, room, message,
//     notification and OTP stores on top, plus the seeded admin account
//  4. Realtime: the websocket hub, gateway and notifier, and the optional
//     NATS fan-out bridge for multi-instance deployments
//  5. HTTP: chi router with the REST API, /metrics, and the /ws endpoints
//  6. Supervision: a suture tree runs the hub, bridge, OTP sweeper and
//     HTTP server, restarting crashed services with backoff
//
// # Configuration
//
// Required environment:
//   - HRMS_SECURITY_JWT_SECRET: 32+ character token signing secret
//   - HRMS_SECURITY_ADMIN_PASSWORD: initial admin account password
//
// Optional highlights:
//   - HRMS_DATABASE_PATH: Badger data directory (default /data/hrms)
//   - HRMS_NATS_ENABLED=true + HRMS_NATS_URL: cross-instance broadcast
//   - HRMS_REALTIME_AUTH_TIMEOUT: websocket handshake check bound
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger a graceful stop: the HTTP server drains
// in-flight requests, the hub closes every websocket connection, and the
// store is closed last so nothing persists after a broadcast was cut off.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/api"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/auth"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/config"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/events"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/store"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/supervisor"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/supervisor/services"
	ws "github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting HRMS backend")

	// === STORE ===

	kv, err := store.Open(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open store")
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logging.Error().Err(err).Msg("Store close failed")
		}
	}()

	users := store.NewUserStore(kv)
	rooms := store.NewRoomStore(kv)
	messages := store.NewMessageStore(kv, users, rooms)
	notifications := store.NewNotificationStore(kv)
	otps := store.NewOTPStore(kv, cfg.OTP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	admin, err := store.SeedAdmin(ctx, users, &cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to seed admin account")
	}
	logging.Info().Int64("user_id", admin.ID).Str("username", admin.Username).Msg("Admin account ready")

	// === AUTH ===

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	authenticator := auth.NewTokenAuthenticator(jwtManager, users)

	// === REALTIME ===

	hub := ws.NewHub()
	notifier := ws.NewNotifier(hub, notifications)
	gateway := ws.NewGateway(hub, authenticator, rooms, messages, notifications,
		cfg.Realtime, cfg.Security.CORSOrigins)

	var bridge *events.Bridge
	if cfg.NATS.Enabled {
		bridge = events.NewBridge(cfg.NATS, hub)
		hub.SetRelay(bridge)
		logging.Info().Str("url", cfg.NATS.URL).Msg("NATS fan-out bridge enabled")
	}

	// === HTTP ===

	handlers := api.NewHandlers(cfg, kv, users, rooms, messages, notifications, otps,
		jwtManager, hub, notifier)
	middleware := api.NewChiMiddleware(&cfg.Security, authenticator)
	router := api.SetupChi(handlers, gateway, middleware)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// === SUPERVISOR TREE ===

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeConfig)

	tree.AddRealtimeService(services.NewHubService(hub))
	if bridge != nil {
		tree.AddRealtimeService(services.NewBridgeService(bridge))
	}
	tree.AddMaintenanceService(services.NewOTPSweeperService(otps, cfg.OTP.SweepInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}
