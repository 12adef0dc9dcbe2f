package entity

import (
	"gorm.io/gorm"
)

// Customer is the durable identity behind a verified phone number.
type Customer struct {
	gorm.Model
	Phone string `gorm:"uniqueIndex;size:10;not null" json:"phone"`
	Name  string `json:"name"`

	Orders []Order `json:"-"`
}
