// repository/restaurant_repository.go
package repository

import (
	"context"

	"github.com/Vishnukant2275/easyorderin/entity"

	"gorm.io/gorm"
)

type RestaurantRepository struct {
	DB *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

func (r *RestaurantRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&entity.Restaurant{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
