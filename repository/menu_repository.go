// repository/menu_repository.go
package repository

import (
	"context"

	"github.com/Vishnukant2275/easyorderin/entity"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// MenuItemsByRestaurant lists the items a diner can currently order.
func (r *MenuRepository) MenuItemsByRestaurant(ctx context.Context, restID uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.WithContext(ctx).
		Where("restaurant_id = ? AND available = ?", restID, true).
		Order("id ASC").
		Find(&items).Error
	return items, err
}
