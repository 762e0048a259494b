// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package models

import "time"

// OrderStatus is the delivery state of an order.
type OrderStatus string

// Order statuses.
const (
	OrderStatusNotDelivered OrderStatus = "Not delivered"
	OrderStatusDelivered    OrderStatus = "Delivered"
	OrderStatusCancelled    OrderStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNotDelivered, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Address is a delivery address.
type Address struct {
	Line1    string `json:"line1" validate:"required,max=200"`
	Town     string `json:"town" validate:"required,max=100"`
	Postcode string `json:"postcode" validate:"required,max=20"`
}

// OrderLine is one ordered item. Name and Price are captured at order time.
type OrderLine struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is a placed order.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Address   Address     `json:"address"`
	Lines     []OrderLine `json:"items"`
	Amount    float64     `json:"amount"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderLineRequest is one line of a CreateOrderRequest.
type OrderLineRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=100"`
}

// CreateOrderRequest is the body of POST /api/v1/orders. The amount is
// computed from catalog prices, never taken from the client.
type CreateOrderRequest struct {
	UserID  string             `json:"user_id" validate:"required"`
	Address Address            `json:"address" validate:"required"`
	Lines   []OrderLineRequest `json:"items" validate:"required,min=1,max=50,dive"`

	// IdempotencyKey comes from the Idempotency-Key header. When set, the
	// order ID is derived from it so a retried request reuses the ID.
	IdempotencyKey string `json:"-"`
}

// UpdateOrderStatusRequest is the body of PUT /api/v1/orders/{id}/status.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof='Not delivered' Delivered Cancelled"`
}
