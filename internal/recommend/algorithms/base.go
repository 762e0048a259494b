// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package algorithms

import (
	"context"

	"github.com/tomtom215/tastebud/internal/recommend"
)

// BaseStrategy provides the name and mode shared by all strategies.
type BaseStrategy struct {
	name string
	mode recommend.Mode
}

// NewBaseStrategy creates a base strategy with the given name and mode.
func NewBaseStrategy(name string, mode recommend.Mode) BaseStrategy {
	return BaseStrategy{name: name, mode: mode}
}

// Name returns the strategy identifier.
func (b *BaseStrategy) Name() string {
	return b.name
}

// Mode returns the mode the strategy serves.
func (b *BaseStrategy) Mode() recommend.Mode {
	return b.mode
}

// ContextCancelled checks if the context has been cancelled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// unscored wraps items with a score taken from score, preserving order.
func unscored(items []recommend.Item, reason string, score func(*recommend.Item) float64) []recommend.ScoredItem {
	out := make([]recommend.ScoredItem, len(items))
	for i := range items {
		out[i] = recommend.ScoredItem{
			Item:   items[i],
			Reason: reason,
		}
		if score != nil {
			out[i].Score = score(&items[i])
		}
	}
	return out
}

// truncate returns at most k items.
func truncate(items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	if k >= 0 && len(items) > k {
		return items[:k]
	}
	return items
}
