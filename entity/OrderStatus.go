package entity

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderServed    OrderStatus = "served"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderServed, OrderCancelled:
		return true
	}
	return false
}

// Live reports whether an order in this status holds its table.
func (s OrderStatus) Live() bool {
	return s == OrderPending || s == OrderPreparing
}

func (s OrderStatus) Terminal() bool {
	return s == OrderServed || s == OrderCancelled
}
