package entity

import (
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	RestaurantID uint   `gorm:"not null;index" json:"restaurantId"`
	Name         string `gorm:"not null" json:"name"`
	Detail       string `json:"detail"`
	Price        int64  `gorm:"not null" json:"price"`
	Available    bool   `gorm:"not null" json:"available"`
}
