// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are registered on the default registry through promauto and exposed
by the API router at /metrics.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - DuckDB query latency and errors
  - Recommendation requests by strategy, with result sizes
  - Atomic preference merges by backend, including duplicates and retries
  - Order placements
  - Domain event publishing and circuit breaker state

# Usage

	start := time.Now()
	resp, err := engine.Recommend(ctx, req)
	metrics.RecordRecommendation("ingredient_affinity", time.Since(start), len(resp.Items), err)

Record* helpers choose the outcome label so that call sites stay uniform.
*/
package metrics
