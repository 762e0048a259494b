// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package services adapts Tastebud components to suture.Service.

  - HTTPServerService: runs an *http.Server and shuts it down gracefully
    when its context ends.
  - MaintenanceService: runs a task on a fixed interval, for example DuckDB
    checkpoints or Badger value log garbage collection.
  - EventsService: starts and stops the order event components (embedded
    NATS server, JetStream stream, publisher).

Each service returns ctx.Err() after a clean shutdown and a wrapped error
when it fails, so the supervisor restarts it with backoff.
*/
package services
