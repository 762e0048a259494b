// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package preference

// DefaultWeight is the implied satisfaction of an ordered item the user has
// never reviewed. It equals the highest review rating.
const DefaultWeight = 5.0

// Line is one ordered item, already resolved against the catalog and the
// user's review history.
type Line struct {
	ItemID      string
	Type        string
	Category    string
	Ingredients []string

	// Weight is the implied satisfaction applied to every ingredient.
	Weight float64
}

// Apply folds the order lines into p and returns p.
//
// Each line independently:
//  1. increments the count of its type by one
//  2. increments the count of its category by one
//  3. raises the score of each listed ingredient by the line weight
//
// Lines are order-insensitive with respect to each other. Negative weights
// are treated as zero so that no value ever decreases.
func Apply(p *Preferences, lines []Line) *Preferences {
	for _, line := range lines {
		p.Types.Add(line.Type, 1)
		p.Categories.Add(line.Category, 1)

		w := line.Weight
		if w < 0 {
			w = 0
		}
		for _, ingredient := range line.Ingredients {
			p.Ingredients.Add(ingredient, w)
		}
	}
	return p
}

// Delta returns the change a single order makes to userID's profile.
func Delta(userID string, lines []Line) *Preferences {
	return Apply(New(userID), lines)
}
