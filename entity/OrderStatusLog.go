package entity

import "time"

// OrderStatusLog is an append-only row per accepted status change.
type OrderStatusLog struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    string      `gorm:"size:36;not null;index" json:"orderId"`
	FromStatus OrderStatus `gorm:"size:16" json:"from"`
	ToStatus   OrderStatus `gorm:"size:16;not null" json:"to"`
	ChangedBy  string      `gorm:"not null" json:"changedBy"`
	Note       string      `json:"note"`
	ChangedAt  time.Time   `gorm:"not null" json:"changedAt"`
}
