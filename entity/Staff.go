package entity

import (
	"gorm.io/gorm"
)

type Staff struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         string `gorm:"not null;default:staff" json:"role"`

	RestaurantID uint       `gorm:"not null;index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`
}
