// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

//go:build nats

package main

import (
	"context"
	"fmt"
	"sync"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/tastebud/internal/config"
	"github.com/tomtom215/tastebud/internal/eventprocessor"
	"github.com/tomtom215/tastebud/internal/logging"
)

// NATSComponents owns the order event publishing path: an optional
// embedded server, the JetStream stream and the Watermill publisher.
type NATSComponents struct {
	server            *eventprocessor.EmbeddedServer
	natsConn          *natsgo.Conn
	streamInitializer *eventprocessor.StreamInitializer
	publisher         *eventprocessor.Publisher

	mu      sync.Mutex
	running bool
}

// InitNATS builds the event components when NATS_ENABLED=true. It returns
// nil, nil when publishing is disabled.
func InitNATS(cfg *config.Config) (*NATSComponents, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("Order event publishing disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	components := &NATSComponents{}
	natsURL := cfg.NATS.URL

	if cfg.NATS.EmbeddedServer {
		serverCfg := eventprocessor.DefaultServerConfig()
		serverCfg.StoreDir = cfg.NATS.StoreDir
		serverCfg.JetStreamMaxMem = cfg.NATS.MaxMemory
		serverCfg.JetStreamMaxStore = cfg.NATS.MaxStore

		server, err := eventprocessor.NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, err
		}
		components.server = server
		natsURL = server.ClientURL()
		logging.Info().Str("url", natsURL).Msg("Embedded NATS server started")
	} else {
		logging.Info().Str("url", natsURL).Msg("Using external NATS server")
	}

	nc, err := natsgo.Connect(natsURL,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.NATS.MaxReconnects),
		natsgo.ReconnectWait(cfg.NATS.ReconnectWait),
	)
	if err != nil {
		components.Close(context.Background())
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	components.natsConn = nc

	js, err := jetstream.New(nc)
	if err != nil {
		components.Close(context.Background())
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	streamCfg := eventprocessor.DefaultStreamConfig()
	streamInitializer, err := eventprocessor.NewStreamInitializer(js, &streamCfg)
	if err != nil {
		components.Close(context.Background())
		return nil, fmt.Errorf("create stream initializer: %w", err)
	}
	components.streamInitializer = streamInitializer

	publisherCfg := eventprocessor.DefaultPublisherConfig(natsURL)
	publisherCfg.MaxReconnects = cfg.NATS.MaxReconnects
	publisherCfg.ReconnectWait = cfg.NATS.ReconnectWait
	publisher, err := eventprocessor.NewPublisher(publisherCfg)
	if err != nil {
		components.Close(context.Background())
		return nil, err
	}
	publisher.SetCircuitBreaker(eventprocessor.NewCircuitBreaker(
		eventprocessor.DefaultCircuitBreakerConfig("order-events")))
	components.publisher = publisher

	logging.Info().Str("stream", streamCfg.Name).Msg("Order event publisher created")
	return components, nil
}

// Start ensures the stream exists. It runs under the supervisor, so a
// failure here is retried with backoff.
func (c *NATSComponents) Start(ctx context.Context) error {
	if c == nil || c.streamInitializer == nil {
		return nil
	}

	stream, err := c.streamInitializer.EnsureStream(ctx)
	if err != nil {
		return fmt.Errorf("ensure order stream: %w", err)
	}
	info := stream.CachedInfo()
	logging.Info().
		Str("name", info.Config.Name).
		Strs("subjects", info.Config.Subjects).
		Dur("max_age", info.Config.MaxAge).
		Msg("JetStream stream ready")

	c.mu.Lock()
	c.running = true
	c.mu.Unlock()
	return nil
}

// Shutdown marks the components stopped. Connections stay open so the
// supervisor can restart them; Close releases them.
func (c *NATSComponents) Shutdown(_ context.Context) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

// IsRunning reports whether Start succeeded and Shutdown has not run.
func (c *NATSComponents) IsRunning() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// IsHealthy reports whether the stream is reachable.
func (c *NATSComponents) IsHealthy(ctx context.Context) bool {
	if !c.IsRunning() || c.streamInitializer == nil {
		return false
	}
	return c.streamInitializer.IsHealthy(ctx)
}

// PublishOrderPlaced implements orders.EventPublisher.
func (c *NATSComponents) PublishOrderPlaced(ctx context.Context, event *eventprocessor.OrderPlacedEvent) error {
	if c == nil || c.publisher == nil {
		return eventprocessor.ErrPublisherClosed
	}
	return c.publisher.PublishOrderPlaced(ctx, event)
}

// Close releases the publisher, connection and embedded server, in that
// order.
func (c *NATSComponents) Close(ctx context.Context) {
	if c == nil {
		return
	}
	c.Shutdown(ctx)

	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing order event publisher")
		}
		c.publisher = nil
	}
	if c.natsConn != nil {
		c.natsConn.Close()
		c.natsConn = nil
	}
	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("Error shutting down embedded NATS server")
		}
		c.server = nil
	}
}
