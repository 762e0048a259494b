// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

//go:build !nats

package main

import (
	"context"

	"github.com/tomtom215/tastebud/internal/config"
	"github.com/tomtom215/tastebud/internal/eventprocessor"
	"github.com/tomtom215/tastebud/internal/logging"
)

// NATSComponents is a stub for non-NATS builds.
type NATSComponents struct{}

// InitNATS is a no-op stub for non-NATS builds.
func InitNATS(cfg *config.Config) (*NATSComponents, error) {
	if cfg.NATS.Enabled {
		logging.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
	}
	return nil, nil
}

// Start is a no-op stub for non-NATS builds.
func (c *NATSComponents) Start(_ context.Context) error {
	return nil
}

// Shutdown is a no-op stub for non-NATS builds.
func (c *NATSComponents) Shutdown(_ context.Context) {}

// IsRunning returns false for non-NATS builds.
func (c *NATSComponents) IsRunning() bool {
	return false
}

// IsHealthy returns false for non-NATS builds.
func (c *NATSComponents) IsHealthy(_ context.Context) bool {
	return false
}

// PublishOrderPlaced returns ErrNATSNotEnabled.
func (c *NATSComponents) PublishOrderPlaced(_ context.Context, _ *eventprocessor.OrderPlacedEvent) error {
	return eventprocessor.ErrNATSNotEnabled
}

// Close is a no-op stub for non-NATS builds.
func (c *NATSComponents) Close(_ context.Context) {}
