// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

// Package algorithms implements the recommendation strategies served by the
// recommend.Engine.
//
// # Strategies
//
//   - IngredientAffinity: ranks candidates by the user's accumulated
//     ingredient scores, excluding the items of the user's last order
//   - RatingSimilarity: samples items of the same or a different type
//     depending on the user's latest review
//   - TopRated: catalog items by average rating
//   - Similar: top-rated items sharing the category of an anchor item
//
// # Scoring
//
// Scorer computes the ingredient score that ranks items. It also reports
// rank-weighted type and category terms in ScoredItem.Scores; those terms
// are informational and are not added to the ranking score.
//
// # Thread Safety
//
// Strategies hold no per-request state and are safe for concurrent use.
// The Sampler serializes access to its random source.
package algorithms
