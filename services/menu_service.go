package services

import (
	"context"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/repository"
)

type MenuService struct {
	Repo     *repository.MenuRepository
	RestRepo *repository.RestaurantRepository
}

func NewMenuService(repo *repository.MenuRepository, restRepo *repository.RestaurantRepository) *MenuService {
	return &MenuService{Repo: repo, RestRepo: restRepo}
}

// ListByRestaurant is the QR landing menu: available items only.
func (s *MenuService) ListByRestaurant(ctx context.Context, restID uint) ([]entity.MenuItem, error) {
	ok, err := s.RestRepo.Exists(ctx, restID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRestaurantNotFound
	}
	return s.Repo.MenuItemsByRestaurant(ctx, restID)
}
