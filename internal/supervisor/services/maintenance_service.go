// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// MaintenanceTask is one periodic store maintenance run.
type MaintenanceTask func(ctx context.Context) error

// MaintenanceService runs a task every interval until its context ends.
// Task failures are logged and the next tick runs normally; a single bad
// run is not worth a restart.
type MaintenanceService struct {
	name     string
	interval time.Duration
	task     MaintenanceTask
	logger   zerolog.Logger
}

// NewMaintenanceService creates a periodic task runner. Zero or negative
// interval means one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMaintenanceService(name string, interval time.Duration, task MaintenanceTask, logger zerolog.Logger) *MaintenanceService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &MaintenanceService{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger.With().Str("component", "maintenance").Str("task", name).Logger(),
	}
}

// Serve implements suture.Service.
func (m *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := m.task(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				m.logger.Warn().Err(err).Msg("maintenance task failed")
				continue
			}
			m.logger.Debug().Dur("took", time.Since(start)).Msg("maintenance task completed")
		}
	}
}

// String names the service in supervisor logs.
func (m *MaintenanceService) String() string {
	return m.name
}
