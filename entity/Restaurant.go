package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name    string `gorm:"not null" json:"name"`
	Address string `json:"address"`

	Tables    []Table    `json:"-"`
	MenuItems []MenuItem `json:"-"`
	Staff     []Staff    `json:"-"`
}
