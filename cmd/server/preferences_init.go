// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package main

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tastebud/internal/config"
	"github.com/tomtom215/tastebud/internal/database"
	"github.com/tomtom215/tastebud/internal/orders"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/storage"
	"github.com/tomtom215/tastebud/internal/supervisor/services"
	"github.com/tomtom215/tastebud/internal/users"
)

// PreferenceComponents is the selected preference backend plus the hooks
// the services need from it.
type PreferenceComponents struct {
	Backend string
	Store   recommend.PreferenceStore

	// TxMerger and TxCreator are set for the duckdb backend, whose profile
	// writes join the order and user transactions.
	TxMerger  orders.TxMerger
	TxCreator users.TxCreator

	// GC is set for the badger backend.
	GC services.MaintenanceTask

	badgerDB *badger.DB
}

// initPreferences opens the backend named by cfg.Preferences.Backend.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initPreferences(cfg *config.Config, db *database.DB, logger zerolog.Logger) (*PreferenceComponents, error) {
	pc := &PreferenceComponents{Backend: cfg.Preferences.Backend}

	switch cfg.Preferences.Backend {
	case config.PreferencesBackendDuckDB, "":
		store := db.Preferences()
		pc.Backend = config.PreferencesBackendDuckDB
		pc.Store = store
		pc.TxMerger = store
		pc.TxCreator = store

	case config.PreferencesBackendBadger:
		bdb, err := storage.OpenBadger(storage.BadgerConfig{
			Path:       cfg.Preferences.BadgerPath,
			SyncWrites: cfg.Preferences.BadgerSyncWrites,
		})
		if err != nil {
			return nil, err
		}
		store := storage.NewBadgerStore(bdb, logger)
		pc.Store = store
		pc.GC = store.RunGC
		pc.badgerDB = bdb

	case config.PreferencesBackendMemory:
		pc.Store = storage.NewMemoryStore()
		if cfg.IsProduction() {
			logger.Warn().Msg("memory preference backend selected in production; profiles are lost on restart")
		}

	default:
		return nil, fmt.Errorf("unknown preference backend %q", cfg.Preferences.Backend)
	}

	logger.Info().Str("backend", pc.Backend).Msg("preference store initialized")
	return pc, nil
}

// Close releases the backend's own resources. The duckdb backend shares
// the database handle, which the caller closes.
func (pc *PreferenceComponents) Close() error {
	if pc == nil || pc.badgerDB == nil {
		return nil
	}
	if err := pc.badgerDB.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

// checkpointTask flushes the DuckDB WAL.
func checkpointTask(db *database.DB) services.MaintenanceTask {
	return func(ctx context.Context) error {
		return db.Checkpoint(ctx)
	}
}
