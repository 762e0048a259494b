// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package config

import "time"

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(&cfg.Database)
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Preferences PreferencesConfig `koanf:"preferences"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	NATS        NATSConfig        `koanf:"nats"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging" or "production"
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedSampleData         bool   `koanf:"seed_sample_data"`         // Seed a demo menu on an empty catalog
}

// Preference store backends.
const (
	PreferencesBackendDuckDB = "duckdb"
	PreferencesBackendBadger = "badger"
	PreferencesBackendMemory = "memory"
)

// PreferencesConfig selects where user preference profiles are stored.
//
// With the duckdb backend the order insert and the preference merge share
// one SQL transaction. The badger and memory backends merge after the
// order insert and rely on the per-order applied marker for retries.
type PreferencesConfig struct {
	// Backend is one of duckdb, badger or memory. Default: duckdb
	Backend string `koanf:"backend"`

	// BadgerPath is the data directory for the badger backend.
	BadgerPath string `koanf:"badger_path"`

	// BadgerSyncWrites fsyncs every badger commit.
	BadgerSyncWrites bool `koanf:"badger_sync_writes"`
}

// RecommendConfig holds recommendation scoring settings.
//
// Environment Variables:
//   - RECOMMEND_CATEGORY_WEIGHT: per-rank weight of the category term (default: 7)
//   - RECOMMEND_TYPE_WEIGHT: per-rank weight of the type term (default: 4)
//   - RECOMMEND_DEFAULT_K: items returned when a request does not say (default: 4)
//   - RECOMMEND_MAX_K: upper bound on requested items (default: 50)
//   - RECOMMEND_TIMEOUT: per-request deadline (default: 10s)
//   - RECOMMEND_FAVORABLE_RATING: lowest favorable review rating (default: 3)
//   - RECOMMEND_DEFAULT_WEIGHT: implied rating of unreviewed items (default: 5)
//   - RECOMMEND_SEED: sampling seed, 0 for the built-in default
type RecommendConfig struct {
	CategoryWeight  float64       `koanf:"category_weight"`
	TypeWeight      float64       `koanf:"type_weight"`
	DefaultK        int           `koanf:"default_k"`
	MaxK            int           `koanf:"max_k"`
	Timeout         time.Duration `koanf:"timeout"`
	FavorableRating int           `koanf:"favorable_rating"`
	DefaultWeight   float64       `koanf:"default_weight"`
	Seed            int64         `koanf:"seed"`
}

// NATSConfig holds settings for publishing order events through
// Watermill on NATS JetStream. Publishing requires a build with the
// "nats" tag; other builds log and drop events.
type NATSConfig struct {
	// Enabled controls whether order events are published.
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server at startup.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory for the embedded server.
	StoreDir string `koanf:"store_dir"`

	// MaxMemory is the maximum memory for JetStream in bytes.
	MaxMemory int64 `koanf:"max_memory"`

	// MaxStore is the maximum disk storage for JetStream in bytes.
	MaxStore int64 `koanf:"max_store"`

	// MaxReconnects is the client reconnect limit (-1 = unlimited).
	MaxReconnects int `koanf:"max_reconnects"`

	// ReconnectWait is the delay between reconnect attempts.
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// SecurityConfig holds CORS, rate limiting and password hashing settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	BcryptCost        int           `koanf:"bcrypt_cost"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the
// environment. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
