// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package config provides centralized configuration management for Tastebud.

Configuration is loaded with Koanf v2 from three layers, later layers
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, else the first of DefaultConfigPaths
 3. Environment variables with an explicit name mapping (envTransformFunc)

The merged result is validated before it is returned.

# Sections

  - server: HTTP listener (HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT)
  - database: DuckDB (DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS, SEED_SAMPLE_DATA)
  - preferences: preference store backend (PREFERENCES_BACKEND, PREFERENCES_BADGER_PATH)
  - recommend: scoring weights and limits (RECOMMEND_*)
  - nats: order event publishing (NATS_ENABLED, NATS_URL, NATS_EMBEDDED)
  - security: CORS and rate limiting (CORS_ORIGINS, RATE_LIMIT_REQUESTS, BCRYPT_COST)
  - logging: zerolog output (LOG_LEVEL, LOG_FORMAT, LOG_CALLER)

Environment variables that are not in the mapping are ignored.

# Thread Safety

Config is immutable after Load and safe for concurrent reads.
*/
package config
