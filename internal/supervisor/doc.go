// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package supervisor runs Tastebud's long-lived services under a suture v4
supervisor tree.

	tastebud
	├── data-layer        store maintenance (DuckDB checkpoints, Badger value log GC)
	├── messaging-layer   order event publishing (build tag: nats)
	└── api-layer         HTTP server

Each layer is its own supervisor, so a crashing event publisher is
restarted without touching the HTTP server. Supervisor events are logged
through sutureslog into the zerolog logger (see logging.NewSlogLogger).

Services live in the services subpackage. Any type with
Serve(ctx context.Context) error can be added to a layer.
*/
package supervisor
