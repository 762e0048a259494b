// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package models defines data structures for the Tastebud application.

It contains the persisted domain records, the API request bodies and the
standard response envelope. Recommendation-specific projections live in
internal/recommend.

Key Components:

  - Item: a menu item with its ingredients, allergens and rating summary
  - Review: a user's 1-5 rating of an item
  - Order: a placed order with delivery address, lines and status
  - User: a registered customer
  - APIResponse: standard response wrapper with Metadata and APIError

Requests carry validate tags consumed by internal/validation.
*/
package models
