// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/tastebud/internal/recommend/preference"
)

// Config contains all configuration for the recommendation core.
type Config struct {
	// Weights are the rank weights of the informational type and category terms.
	Weights Weights `json:"weights"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// FavorableRating is the lowest review rating treated as favorable by the
	// rating strategy.
	FavorableRating int `json:"favorable_rating"`

	// DefaultWeight is the implied satisfaction of an ordered item the user
	// never reviewed.
	DefaultWeight float64 `json:"default_weight"`

	// Seed is the random seed for the sampling strategies.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// Weights configures the rank-weighted type and category terms.
type Weights struct {
	// Category is the per-rank weight for the category term.
	Category float64 `json:"category"`

	// Type is the per-rank weight for the type term.
	Type float64 `json:"type"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of items returned when a request does not say.
	DefaultK int `json:"default_k"`

	// MaxK caps the number of items a request may ask for.
	MaxK int `json:"max_k"`

	// Timeout bounds a single recommendation request.
	Timeout time.Duration `json:"timeout"`
}

// DefaultSeed is used when Config.Seed is zero.
const DefaultSeed int64 = 42

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Category: 7,
			Type:     4,
		},
		Limits: LimitsConfig{
			DefaultK: 4,
			MaxK:     50,
			Timeout:  10 * time.Second,
		},
		FavorableRating: 3,
		DefaultWeight:   preference.DefaultWeight,
		Seed:            DefaultSeed,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.Category < 0 {
		return fmt.Errorf("weights.category must be non-negative, got %f", c.Weights.Category)
	}
	if c.Weights.Type < 0 {
		return fmt.Errorf("weights.type must be non-negative, got %f", c.Weights.Type)
	}
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k (%d) must be >= limits.default_k (%d)", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.Timeout <= 0 {
		return fmt.Errorf("limits.timeout must be positive, got %v", c.Limits.Timeout)
	}
	if c.FavorableRating < 1 || c.FavorableRating > 5 {
		return fmt.Errorf("favorable_rating must be in [1, 5], got %d", c.FavorableRating)
	}
	if c.DefaultWeight <= 0 {
		return fmt.Errorf("default_weight must be positive, got %f", c.DefaultWeight)
	}
	return nil
}

// EffectiveSeed returns Seed, or DefaultSeed when Seed is zero.
func (c *Config) EffectiveSeed() int64 {
	if c.Seed == 0 {
		return DefaultSeed
	}
	return c.Seed
}
