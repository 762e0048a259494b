// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package services

import (
	"context"
	"fmt"
	"time"
)

// EventComponentsRunner matches the order event components lifecycle.
//
// Satisfied by *NATSComponents from cmd/server/nats_init.go:
//   - Start(ctx context.Context) error - connects the publisher
//   - Shutdown(ctx context.Context) - closes the publisher and server
//   - IsRunning() bool - reports the running state
type EventComponentsRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventsService wraps the order event components as a supervised service.
//
// It adapts the Start/Shutdown lifecycle to suture's Serve:
//
//  1. Calls Start(ctx) to bring up the publisher
//  2. Waits for context cancellation
//  3. Calls Shutdown with the configured timeout
//
// Example usage:
//
//	natsComponents, _ := InitNATS(cfg)
//	svc := services.NewEventsService(natsComponents, 10*time.Second)
//	tree.AddMessagingService(svc)
type EventsService struct {
	components      EventComponentsRunner
	shutdownTimeout time.Duration
	name            string
}

// NewEventsService wraps components. Zero or negative shutdownTimeout means 10s.
func NewEventsService(components EventComponentsRunner, shutdownTimeout time.Duration) *EventsService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventsService{
		components:      components,
		shutdownTimeout: shutdownTimeout,
		name:            "order-events",
	}
}

// Serve implements suture.Service.
//
// If Start fails the error is returned immediately, and suture restarts the
// service according to its backoff policy.
func (s *EventsService) Serve(ctx context.Context) error {
	if err := s.components.Start(ctx); err != nil {
		return fmt.Errorf("event components start failed: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.components.Shutdown(shutdownCtx)

	return ctx.Err()
}

// String names the service in supervisor logs.
func (s *EventsService) String() string {
	return s.name
}
