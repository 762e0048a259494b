// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package eventprocessor

import (
	"fmt"
	"time"
)

// ServerConfig holds embedded NATS server settings.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns defaults for the embedded server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   256 << 20,
		JetStreamMaxStore: 1 << 30,
	}
}

// PublisherConfig holds publisher connection settings.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool //nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns defaults for a publisher connecting to url.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 << 20,
		EnableTrackMsgID: true,
	}
}

// Validate checks the publisher settings.
func (c *PublisherConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: publisher URL is required", ErrInvalidConfig)
	}
	if c.ReconnectWait < 0 {
		return fmt.Errorf("%w: reconnect wait must not be negative", ErrInvalidConfig)
	}
	return nil
}

// StreamConfig defines the order event stream.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns the ORDERS stream settings.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:            "ORDERS",
		Subjects:        []string{"orders.>"},
		MaxAge:          7 * 24 * time.Hour,
		MaxBytes:        1 << 30,
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // allowed while half-open
	Interval         time.Duration // closed-state count reset
	Timeout          time.Duration // open duration
	FailureThreshold uint32        // consecutive failures before opening
}

// DefaultCircuitBreakerConfig returns defaults for the named breaker.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}
