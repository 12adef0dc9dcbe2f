// repository/table_repository.go
package repository

import (
	"context"

	"github.com/Vishnukant2275/easyorderin/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableRepository struct {
	DB *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{DB: db}
}

// FindForUpdate reads a table row, taking a row lock where the dialect supports it.
func (r *TableRepository) FindForUpdate(tx *gorm.DB, restID uint, number int) (*entity.Table, error) {
	var t entity.Table
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("restaurant_id = ? AND number = ?", restID, number).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// OccupyGuard binds the table to orderID if it is free or already bound to
// that same order. Zero rows affected means another order holds it.
func (r *TableRepository) OccupyGuard(tx *gorm.DB, restID uint, number int, orderID string) (int64, error) {
	res := tx.Model(&entity.Table{}).
		Where("restaurant_id = ? AND number = ?", restID, number).
		Where("status = ? OR current_order_id = ?", entity.TableAvailable, orderID).
		Updates(map[string]any{
			"status":           entity.TableOccupied,
			"current_order_id": orderID,
		})
	return res.RowsAffected, res.Error
}

// Release frees the table regardless of who holds it.
func (r *TableRepository) Release(tx *gorm.DB, restID uint, number int) error {
	return tx.Model(&entity.Table{}).
		Where("restaurant_id = ? AND number = ?", restID, number).
		Updates(map[string]any{
			"status":           entity.TableAvailable,
			"current_order_id": nil,
		}).Error
}

// ReleaseHeldBy frees the table only while it still points at orderID.
func (r *TableRepository) ReleaseHeldBy(tx *gorm.DB, restID uint, number int, orderID string) (int64, error) {
	res := tx.Model(&entity.Table{}).
		Where("restaurant_id = ? AND number = ? AND current_order_id = ?", restID, number, orderID).
		Updates(map[string]any{
			"status":           entity.TableAvailable,
			"current_order_id": nil,
		})
	return res.RowsAffected, res.Error
}

// ReleaseOrders frees every table still pointing at one of the given orders.
func (r *TableRepository) ReleaseOrders(tx *gorm.DB, orderIDs []string) (int64, error) {
	if len(orderIDs) == 0 {
		return 0, nil
	}
	res := tx.Model(&entity.Table{}).
		Where("current_order_id IN ?", orderIDs).
		Updates(map[string]any{
			"status":           entity.TableAvailable,
			"current_order_id": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *TableRepository) MaxNumber(tx *gorm.DB, restID uint) (int, error) {
	var max *int
	err := tx.Model(&entity.Table{}).
		Where("restaurant_id = ?", restID).
		Select("MAX(number)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *TableRepository) CreateBatch(tx *gorm.DB, tables []entity.Table) error {
	if len(tables) == 0 {
		return nil
	}
	return tx.CreateInBatches(tables, 100).Error
}

func (r *TableRepository) ListByRestaurant(ctx context.Context, restID uint) ([]entity.Table, error) {
	var out []entity.Table
	err := r.DB.WithContext(ctx).
		Where("restaurant_id = ?", restID).
		Order("number ASC").
		Find(&out).Error
	return out, err
}
