// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tastebud/internal/api"
	"github.com/tomtom215/tastebud/internal/config"
	"github.com/tomtom215/tastebud/internal/database"
	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/orders"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/algorithms"
	"github.com/tomtom215/tastebud/internal/supervisor"
	"github.com/tomtom215/tastebud/internal/supervisor/services"
	"github.com/tomtom215/tastebud/internal/users"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	checkpointInterval = 5 * time.Minute
	badgerGCInterval   = 10 * time.Minute
)

//nolint:gocyclo // Main initialization function with sequential setup steps
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
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("preferences_backend", cfg.Preferences.Backend).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Tastebud with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedSampleData {
		if err := db.SeedSampleData(context.Background()); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			logging.Fatal().Err(err).Msg("Failed to seed sample data")
		}
	}

	prefs, err := initPreferences(cfg, db, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize preference store")
	}
	defer func() {
		if err := prefs.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing preference store")
		}
	}()

	engine, err := initRecommend(cfg, algorithms.Sources{
		Preferences: prefs.Store,
		Orders:      db,
		Reviews:     db,
		Catalog:     db,
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	updater := recommend.NewUpdater(prefs.Store, db, db, db, engine.Config(), logger)

	userSvc := users.NewService(db, prefs.Store, updater, users.Config{
		BcryptCost: cfg.Security.BcryptCost,
		TxCreator:  prefs.TxCreator,
	}, logger)

	natsComponents, err := InitNATS(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize order events")
	}
	defer natsComponents.Close(context.Background())

	var orderOpts []orders.Option
	if prefs.TxMerger != nil {
		orderOpts = append(orderOpts, orders.WithTxMerger(prefs.TxMerger))
	}
	handlerDeps := api.HandlerDeps{
		Catalog:     db,
		Users:       userSvc,
		Recommender: engine,
		Version:     version,
	}
	if natsComponents != nil {
		orderOpts = append(orderOpts, orders.WithPublisher(natsComponents))
		handlerDeps.Events = natsComponents
	}
	handlerDeps.Orders = orders.NewService(db, updater, logger, orderOpts...)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	handler := api.NewHandler(handlerDeps)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer
	tree.AddDataService(services.NewMaintenanceService("duckdb-checkpoint", checkpointInterval, checkpointTask(db), logger))
	if prefs.GC != nil {
		tree.AddDataService(services.NewMaintenanceService("badger-gc", badgerGCInterval, prefs.GC, logger))
	}

	// Messaging layer
	AddNATSToSupervisor(tree, natsComponents, cfg.Server.ShutdownTimeout)

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
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
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}
