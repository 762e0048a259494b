// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package models

import "time"

// Item is a menu item.
//
// Type is the dish kind ("Pizza", "Burger") and Category the dietary class
// ("Veg", "Non-Veg"); both are matched exactly by the recommender.
// Ingredient names are matched case-insensitively.
//
// Rating is the running average of all reviews, NumReviews their count.
type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	Type         string    `json:"type"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"countInStock"`
	Ingredients  []string  `json:"ingredients"`
	Allergens    []string  `json:"allergens"`
	Details      string    `json:"details,omitempty"`
	Feel         string    `json:"feel,omitempty"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateItemRequest is the body of POST /api/v1/items.
type CreateItemRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Image        string   `json:"image" validate:"omitempty,max=2048"`
	Type         string   `json:"type" validate:"required,max=100"`
	Category     string   `json:"category" validate:"required,max=100"`
	Price        float64  `json:"price" validate:"gte=0"`
	CountInStock int      `json:"countInStock" validate:"gte=0"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1,dive,required,max=100"`
	Allergens    []string `json:"allergens" validate:"omitempty,dive,required,max=100"`
	Details      string   `json:"details" validate:"max=4000"`
	Feel         string   `json:"feel" validate:"max=200"`
}

// Review is a user's rating of an item.
type Review struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReviewRequest is the body of POST /api/v1/items/{id}/reviews.
type CreateReviewRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}
