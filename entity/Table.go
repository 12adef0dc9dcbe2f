package entity

import (
	"gorm.io/gorm"
)

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
)

// Table is a physical table of a restaurant. CurrentOrderID is set exactly
// while Status is occupied.
type Table struct {
	gorm.Model
	RestaurantID   uint        `gorm:"not null;uniqueIndex:idx_tables_restaurant_number" json:"restaurantId"`
	Number         int         `gorm:"not null;uniqueIndex:idx_tables_restaurant_number" json:"number"`
	Status         TableStatus `gorm:"size:16;not null" json:"status"`
	CurrentOrderID *string     `gorm:"size:36;index" json:"currentOrderId"`
}
