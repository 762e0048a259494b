// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package main

import (
	"time"

	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/supervisor"
	"github.com/tomtom215/tastebud/internal/supervisor/services"
)

// AddNATSToSupervisor adds the order event components to the messaging
// layer. It is a no-op when natsComponents is nil (publishing disabled).
func AddNATSToSupervisor(tree *supervisor.SupervisorTree, natsComponents *NATSComponents, shutdownTimeout time.Duration) {
	if natsComponents == nil {
		return
	}
	tree.AddMessagingService(services.NewEventsService(natsComponents, shutdownTimeout))
	logging.Info().Msg("Order event components added to supervisor tree (messaging layer)")
}
