// repository/order_repository.go
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

// CreateOrder inserts the order together with its line items.
func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

// GetOrder loads an order of a restaurant with its line items in position order.
func (r *OrderRepository) GetOrder(tx *gorm.DB, restID uint, orderID string) (*entity.Order, error) {
	var o entity.Order
	err := tx.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ? AND restaurant_id = ?", orderID, restID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatusGuard moves an order from one status to another only if nobody
// else wrote it since version was read. Zero rows affected means the guard lost.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID string, from, to entity.OrderStatus, version int64, at time.Time) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ? AND version = ?", orderID, from, version).
		Updates(map[string]any{
			"status":     to,
			"version":    version + 1,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

// SetPaidGuard flips the payment flag under the same version guard.
func (r *OrderRepository) SetPaidGuard(tx *gorm.DB, orderID string, isPaid bool, version int64, at time.Time) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND version = ?", orderID, version).
		Updates(map[string]any{
			"is_paid":    isPaid,
			"version":    version + 1,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

// ---------------- Queries for the read side ----------------

type OrderQuery struct {
	RestaurantID uint
	CustomerID   uint
	Status       entity.OrderStatus
	Search       string
	Page         int
	Limit        int
}

func (q *OrderQuery) normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 20
	}
}

// ListOrders returns one page of orders matching q plus the total match count.
// Search matches table number, order id or customer name, case-insensitively.
func (r *OrderRepository) ListOrders(ctx context.Context, q OrderQuery) ([]entity.Order, int64, error) {
	q.normalize()

	base := func() *gorm.DB {
		db := r.DB.WithContext(ctx).Model(&entity.Order{}).
			Joins("LEFT JOIN customers c ON c.id = orders.customer_id")
		if q.RestaurantID != 0 {
			db = db.Where("orders.restaurant_id = ?", q.RestaurantID)
		}
		if q.CustomerID != 0 {
			db = db.Where("orders.customer_id = ?", q.CustomerID)
		}
		if q.Status != "" {
			db = db.Where("orders.status = ?", q.Status)
		}
		if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
			like := "%" + s + "%"
			db = db.Where(
				"(LOWER(c.name) LIKE ? OR LOWER(orders.id) LIKE ? OR CAST(orders.table_number AS TEXT) LIKE ?)",
				like, like, like,
			)
		}
		return db
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []entity.Order
	err := base().
		Select("orders.*").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("orders.created_at DESC, orders.id DESC").
		Limit(q.Limit).Offset((q.Page - 1) * q.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ---------------- Retention ----------------

// ExpiredOrders returns up to limit orders whose retention horizon has passed.
func (r *OrderRepository) ExpiredOrders(tx *gorm.DB, now time.Time, limit int) ([]entity.Order, error) {
	var out []entity.Order
	err := tx.Select("id, restaurant_id, table_number").
		Where("expires_at <= ?", now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteOrders removes orders with their line items and history.
func (r *OrderRepository) DeleteOrders(tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("order_id IN ?", ids).Delete(&entity.OrderLineItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id IN ?", ids).Delete(&entity.OrderStatusLog{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&entity.Order{}).Error
}
