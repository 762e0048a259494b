// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/models"
)

// sampleItems is a small demo menu covering every type and category the
// recommenders distinguish.
var sampleItems = []models.Item{
	{Name: "Margherita", Type: "Pizza", Category: "Veg", Price: 8.50, CountInStock: 40,
		Ingredients: []string{"Tomato", "Mozzarella", "Basil"}, Allergens: []string{"Gluten", "Milk"},
		Feel: "Classic"},
	{Name: "Pepperoni", Type: "Pizza", Category: "Non-Veg", Price: 10.00, CountInStock: 40,
		Ingredients: []string{"Tomato", "Mozzarella", "Pepperoni"}, Allergens: []string{"Gluten", "Milk"},
		Feel: "Spicy"},
	{Name: "Garden Veggie", Type: "Pizza", Category: "Veg", Price: 9.50, CountInStock: 30,
		Ingredients: []string{"Tomato", "Mozzarella", "Peppers", "Mushroom", "Olives"},
		Allergens: []string{"Gluten", "Milk"}, Feel: "Fresh"},
	{Name: "Cheeseburger", Type: "Burger", Category: "Non-Veg", Price: 7.00, CountInStock: 50,
		Ingredients: []string{"Beef", "Cheddar", "Onion", "Pickles"}, Allergens: []string{"Gluten", "Milk"},
		Feel: "Hearty"},
	{Name: "Bean Burger", Type: "Burger", Category: "Veg", Price: 6.50, CountInStock: 35,
		Ingredients: []string{"Black Beans", "Onion", "Tomato", "Lettuce"}, Allergens: []string{"Gluten"},
		Feel: "Hearty"},
	{Name: "Caesar Salad", Type: "Salad", Category: "Non-Veg", Price: 6.00, CountInStock: 25,
		Ingredients: []string{"Chicken", "Lettuce", "Parmesan", "Croutons"},
		Allergens: []string{"Gluten", "Milk", "Egg", "Fish"}, Feel: "Light"},
	{Name: "Greek Salad", Type: "Salad", Category: "Veg", Price: 5.50, CountInStock: 25,
		Ingredients: []string{"Tomato", "Cucumber", "Feta", "Olives", "Onion"}, Allergens: []string{"Milk"},
		Feel: "Light"},
	{Name: "Pesto Pasta", Type: "Pasta", Category: "Veg", Price: 8.00, CountInStock: 30,
		Ingredients: []string{"Basil", "Parmesan", "Pine Nuts", "Garlic"},
		Allergens: []string{"Gluten", "Milk", "Nuts"}, Feel: "Comforting"},
	{Name: "Chicken Alfredo", Type: "Pasta", Category: "Non-Veg", Price: 9.00, CountInStock: 30,
		Ingredients: []string{"Chicken", "Cream", "Parmesan", "Garlic"}, Allergens: []string{"Gluten", "Milk"},
		Feel: "Comforting"},
	{Name: "Tiramisu", Type: "Dessert", Category: "Veg", Price: 4.50, CountInStock: 20,
		Ingredients: []string{"Mascarpone", "Coffee", "Cocoa", "Egg"},
		Allergens: []string{"Gluten", "Milk", "Egg"}, Feel: "Sweet"},
}

// SeedSampleData fills an empty catalog with a demo menu. It does nothing
// when the catalog already has items.
func (db *DB) SeedSampleData(ctx context.Context) error {
	n, err := db.CountItems(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logging.Debug().Int("items", n).Msg("Catalog not empty, skipping sample data")
		return nil
	}

	logging.Info().Int("items", len(sampleItems)).Msg("Seeding catalog with sample data...")

	// Stagger creation times so the default catalog order follows the list.
	base := db.now().Add(-time.Duration(len(sampleItems)) * time.Minute)
	for i := range sampleItems {
		item := sampleItems[i]
		item.Ingredients = append([]string(nil), item.Ingredients...)
		item.Allergens = append([]string(nil), item.Allergens...)
		item.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := db.CreateItem(ctx, &item); err != nil {
			return fmt.Errorf("seed item %q: %w", item.Name, err)
		}
	}

	logging.Info().Msg("Sample data seeded")
	return nil
}
