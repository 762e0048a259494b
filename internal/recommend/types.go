// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Item is the read-only projection of a catalog item used for ranking.
type Item struct {
	// ID is the catalog identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Type is the dish type label (e.g. "Pizza").
	Type string `json:"-"`

	// Category is the category label (e.g. "Veg").
	Category string `json:"-"`

	// Ingredients lists ingredient names as entered in the catalog.
	Ingredients []string `json:"-"`

	// Price is the unit price.
	Price float64 `json:"price"`

	// Image is the image URL or path.
	Image string `json:"image"`

	// Rating is the running average review rating.
	Rating float64 `json:"rating"`

	// NumReviews is the number of reviews behind Rating.
	NumReviews int `json:"numReviews"`
}

// ScoredItem is an item with the score it was ranked by.
type ScoredItem struct {
	Item

	// Score is the value used for ranking. Higher is better.
	Score float64 `json:"score"`

	// Scores holds per-component values for observability. Components other
	// than the one named by the strategy are informational only.
	Scores map[string]float64 `json:"scores,omitempty"`

	// Reason is a short explanation of why the item was picked.
	Reason string `json:"reason,omitempty"`
}

// Mode selects the recommendation strategy.
type Mode int

const (
	// ModePersonalized ranks items by the user's ingredient affinity.
	ModePersonalized Mode = iota

	// ModeRating samples items based on the user's latest review.
	ModeRating

	// ModePopular returns the top-rated items.
	ModePopular

	// ModeSimilar returns top-rated items sharing the category of CurrentItemID.
	ModeSimilar
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModePersonalized:
		return "personalized"
	case ModeRating:
		return "rating"
	case ModePopular:
		return "popular"
	case ModeSimilar:
		return "similar"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as produced by Mode.String. The empty string
// selects ModePersonalized.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "personalized", "score":
		return ModePersonalized, nil
	case "rating":
		return ModeRating, nil
	case "popular", "top-rated", "top_rated":
		return ModePopular, nil
	case "similar":
		return ModeSimilar, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, s)
	}
}

// Request contains parameters for a recommendation request.
type Request struct {
	// UserID is the user to recommend for. Required for ModePersonalized and ModeRating.
	UserID string

	// K is the number of items to return. Zero selects the configured default.
	K int

	// Mode selects the strategy.
	Mode Mode

	// CurrentItemID is the anchor item for ModeSimilar.
	CurrentItemID string

	// RequestID is used for log correlation.
	RequestID string
}

// Result is what a Strategy produces.
type Result struct {
	// Items are the ranked items, at most K.
	Items []ScoredItem

	// TotalCandidates is the size of the set the items were chosen from.
	TotalCandidates int

	// EmptyHistory is set when the user had no history to personalize on.
	EmptyHistory bool
}

// Response contains recommendation results.
type Response struct {
	// Items are the recommended items in rank order.
	Items []ScoredItem `json:"items"`

	// Metadata describes how the response was produced.
	Metadata Metadata `json:"metadata"`
}

// Metadata contains information about a recommendation response.
type Metadata struct {
	// Strategy names the strategy that produced the items.
	Strategy string `json:"strategy"`

	// TotalCandidates is the number of items considered.
	TotalCandidates int `json:"total_candidates"`

	// EmptyHistory is true when the user had nothing to personalize on.
	EmptyHistory bool `json:"empty_history"`

	// GeneratedAt is when the response was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// LatencyMS is the wall-clock time spent in the strategy.
	LatencyMS int64 `json:"latency_ms"`

	// RequestID echoes Request.RequestID.
	RequestID string `json:"request_id,omitempty"`
}

// Strategy produces recommendations for one Mode.
//
// Implementations must be safe for concurrent use and must not mutate
// preference state.
type Strategy interface {
	// Name returns a stable identifier used in metrics and logs.
	Name() string

	// Mode returns the mode this strategy serves.
	Mode() Mode

	// Recommend returns at most req.K items. req.K is always positive.
	Recommend(ctx context.Context, req Request) (*Result, error)
}
