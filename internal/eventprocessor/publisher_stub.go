// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

//go:build !nats

package eventprocessor

import (
	"context"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Publisher is the stand-in used by builds without the nats tag.
type Publisher struct {
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
}

// NewPublisher returns ErrNATSNotEnabled.
func NewPublisher(_ PublisherConfig) (*Publisher, error) {
	return nil, ErrNATSNotEnabled
}

// SetCircuitBreaker stores cb.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.circuitBreaker = cb
}

// PublishOrderPlaced returns ErrNATSNotEnabled.
func (p *Publisher) PublishOrderPlaced(_ context.Context, _ *OrderPlacedEvent) error {
	return ErrNATSNotEnabled
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}

// natsEnabled reports whether the nats build tag is set.
const natsEnabled = false
