// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package eventprocessor

import "errors"

var (
	// ErrNATSNotEnabled is returned by constructors in builds without the nats tag.
	ErrNATSNotEnabled = errors.New("NATS event publishing not enabled (build with -tags nats)")

	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("publisher is closed")

	// ErrInvalidEvent is returned for events missing required fields.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidConfig is returned by config validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)
