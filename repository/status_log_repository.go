package repository

import (
	"context"

	"github.com/Vishnukant2275/easyorderin/entity"

	"gorm.io/gorm"
)

// StatusLogRepository stores the append-only transition history of orders.
type StatusLogRepository struct {
	DB *gorm.DB
}

func NewStatusLogRepository(db *gorm.DB) *StatusLogRepository {
	return &StatusLogRepository{DB: db}
}

func (r *StatusLogRepository) Append(tx *gorm.DB, row *entity.OrderStatusLog) error {
	return tx.Create(row).Error
}

func (r *StatusLogRepository) ListForOrder(ctx context.Context, orderID string) ([]entity.OrderStatusLog, error) {
	var out []entity.OrderStatusLog
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
