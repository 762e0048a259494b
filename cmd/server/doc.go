// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package main is the entry point for the Tastebud server.

Tastebud is a food ordering backend: a menu catalog with reviews, user
registration, order placement, and a per-user preference model that feeds
personalized recommendations. Every placed order folds its ingredients,
dish types and categories into the user's profile, weighted by the user's
latest rating of each item.

# Application Architecture

Services run under a Suture v4 supervisor tree:

	RootSupervisor ("tastebud")
	├── DataSupervisor ("data-layer")
	│   ├── duckdb-checkpoint (periodic WAL checkpoint)
	│   └── badger-gc (value log GC, badger preference backend only)
	├── MessagingSupervisor ("messaging-layer")
	│   └── order-events (NATS JetStream publisher, optional, -tags nats)
	└── APISupervisor ("api-layer")
	    └── http-server (chi router)

Initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file and environment
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB catalog, users, orders and reviews
 4. Preference store: duckdb (default), badger or memory
 5. Recommendation engine: one strategy per mode
 6. Order events: Watermill publisher on NATS JetStream (optional)
 7. Supervisor tree and HTTP server

# Configuration

Common environment variables:

	HTTP_PORT=5000
	DUCKDB_PATH=/data/tastebud.duckdb
	SEED_SAMPLE_DATA=true
	PREFERENCES_BACKEND=duckdb|badger|memory
	PREFERENCES_BADGER_PATH=/data/preferences
	NATS_ENABLED=true
	LOG_LEVEL=debug
	LOG_FORMAT=console

The memory backend loses every profile on restart. Use it for development
only; the server logs a warning when it is selected in production.

# Build Tags

	go build ./cmd/server               # events logged and dropped
	go build -tags nats ./cmd/server    # publish order events to JetStream

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
server (draining in-flight requests), the event components and the
maintenance loops, then the preference store and database are closed.
*/
package main
