package services

import (
	"context"
	"fmt"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/repository"

	"gorm.io/gorm"
)

const maxBulkTables = 500

// TableRegistry tracks which tables are bound to which order. It knows nothing
// about order statuses; OrderService decides when to occupy and release.
type TableRegistry struct {
	DB       *gorm.DB
	Repo     *repository.TableRepository
	RestRepo *repository.RestaurantRepository
}

func NewTableRegistry(db *gorm.DB, repo *repository.TableRepository, restRepo *repository.RestaurantRepository) *TableRegistry {
	return &TableRegistry{DB: db, Repo: repo, RestRepo: restRepo}
}

// Occupy binds the table to orderID inside tx. Re-occupying for the same order is a no-op.
func (r *TableRegistry) Occupy(tx *gorm.DB, restID uint, number int, orderID string) error {
	t, err := r.Repo.FindForUpdate(tx, restID, number)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrTableNotFound
		}
		return err
	}
	if t.Status == entity.TableOccupied && t.CurrentOrderID != nil && *t.CurrentOrderID == orderID {
		return nil
	}
	affected, err := r.Repo.OccupyGuard(tx, restID, number, orderID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyOccupied
	}
	return nil
}

// Release frees the table. Safe on an already available table.
func (r *TableRegistry) Release(tx *gorm.DB, restID uint, number int) error {
	return r.Repo.Release(tx, restID, number)
}

// ReleaseFor frees the table only if orderID still holds it, so closing a
// stale order never evicts the table's current diner.
func (r *TableRegistry) ReleaseFor(tx *gorm.DB, restID uint, number int, orderID string) error {
	_, err := r.Repo.ReleaseHeldBy(tx, restID, number, orderID)
	return err
}

// BulkCreate provisions count sequentially numbered tables after the highest existing number.
func (r *TableRegistry) BulkCreate(ctx context.Context, restID uint, count int) ([]entity.Table, error) {
	if count < 1 || count > maxBulkTables {
		return nil, invalid("count", fmt.Sprintf("must be between 1 and %d", maxBulkTables))
	}
	ok, err := r.RestRepo.Exists(ctx, restID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRestaurantNotFound
	}

	var tables []entity.Table
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		start, err := r.Repo.MaxNumber(tx, restID)
		if err != nil {
			return err
		}
		tables = make([]entity.Table, 0, count)
		for i := 1; i <= count; i++ {
			tables = append(tables, entity.Table{
				RestaurantID: restID,
				Number:       start + i,
				Status:       entity.TableAvailable,
			})
		}
		return r.Repo.CreateBatch(tx, tables)
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return tables, nil
}

func (r *TableRegistry) List(ctx context.Context, restID uint) ([]entity.Table, error) {
	return r.Repo.ListByRestaurant(ctx, restID)
}
