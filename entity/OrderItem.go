package entity

// OrderLineItem is a menu item copied into an order at creation time.
type OrderLineItem struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	OrderID    string `gorm:"size:36;not null;index" json:"-"`
	Position   int    `gorm:"not null" json:"position"`
	MenuItemID uint   `json:"menuItemId"`
	Name       string `gorm:"not null" json:"name"`
	UnitPrice  int64  `gorm:"not null" json:"unitPrice"`
	Quantity   int    `gorm:"not null" json:"quantity"`
	Note       string `json:"note"`
}

func (li OrderLineItem) Subtotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}
