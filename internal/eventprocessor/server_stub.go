// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

//go:build !nats

package eventprocessor

import "context"

// EmbeddedServer is the stand-in used by builds without the nats tag.
type EmbeddedServer struct{}

// NewEmbeddedServer returns ErrNATSNotEnabled.
func NewEmbeddedServer(_ *ServerConfig) (*EmbeddedServer, error) {
	return nil, ErrNATSNotEnabled
}

// ClientURL returns "".
func (s *EmbeddedServer) ClientURL() string {
	return ""
}

// Shutdown is a no-op.
func (s *EmbeddedServer) Shutdown(_ context.Context) error {
	return nil
}

// IsRunning returns false.
func (s *EmbeddedServer) IsRunning() bool {
	return false
}
