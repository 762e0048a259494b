// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package eventprocessor publishes order events to NATS JetStream through
Watermill.

When an order is placed the orders service publishes an OrderPlacedEvent on
the "orders.placed" subject. Publishing is best effort: the order and its
preference merge are already committed, so a failed publish is logged and
counted but never fails the request.

Components:

  - OrderPlacedEvent: the wire format, JSON encoded with goccy/go-json
  - Publisher: Watermill NATS publisher guarded by a gobreaker circuit breaker
  - EmbeddedServer: optional in-process NATS server with JetStream
  - StreamInitializer: creates or updates the ORDERS stream

The NATS-backed implementations are compiled only with the "nats" build
tag. Without it, NewPublisher and NewEmbeddedServer return
ErrNATSNotEnabled and the service runs without events.

	go build -tags nats ./cmd/server
*/
package eventprocessor
