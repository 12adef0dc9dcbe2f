package entity

import (
	"time"
)

// Order is a table's submitted set of line items. TotalPrice is fixed at
// creation; LineItems are snapshots and never change afterwards.
type Order struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	RestaurantID uint        `gorm:"not null;index:idx_orders_restaurant_status" json:"restaurantId"`
	CustomerID   uint        `gorm:"not null;index" json:"customerId"`
	TableNumber  int         `gorm:"not null" json:"tableNumber"`
	Status       OrderStatus `gorm:"size:16;not null;index:idx_orders_restaurant_status" json:"status"`
	IsPaid       bool        `gorm:"not null" json:"isPaid"`
	TotalPrice   int64       `gorm:"not null" json:"totalPrice"`

	// bumped on every status/payment write; guarded updates compare against it
	Version int64 `gorm:"not null" json:"version"`

	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lineItems"`
}
