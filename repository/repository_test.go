package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/testutil"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"duplicate key", gorm.ErrDuplicatedKey, true},
		{"wrapped duplicate", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"serialization", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"other pg error", &pgconn.PgError{Code: "23503"}, false},
		{"not found", gorm.ErrRecordNotFound, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConflict(tt.err))
		})
	}
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", gorm.ErrRecordNotFound)))
}

func TestCustomerRepository_FindOrCreateByPhone(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	c, err := repo.FindOrCreateByPhone(ctx, "9123456789", " Ravi ")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", c.Name)

	again, err := repo.FindOrCreateByPhone(ctx, "9123456789", "")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, "Ravi", again.Name)

	renamed, err := repo.FindOrCreateByPhone(ctx, "9123456789", "Ravi K")
	require.NoError(t, err)
	assert.Equal(t, c.ID, renamed.ID)

	stored, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi K", stored.Name)

	byID, err := repo.FindByIDs(ctx, []uint{c.ID, 999})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
}

func TestCustomerRepository_ConcurrentFirstLogin(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCustomerRepository(db)

	const n = 6
	ids := make(chan uint, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := repo.FindOrCreateByPhone(context.Background(), "9000000001", "")
			if assert.NoError(t, err) {
				ids <- c.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	first := <-ids
	for id := range ids {
		assert.Equal(t, first, id)
	}
	var count int64
	require.NoError(t, db.Model(&entity.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOrderRepository_Guards(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db, 2, nil)
	repo := NewOrderRepository(db)
	now := time.Now()

	o := &entity.Order{
		ID:           "ord-1",
		RestaurantID: fx.Restaurant.ID,
		CustomerID:   fx.Customer.ID,
		TableNumber:  1,
		Status:       entity.OrderPending,
		TotalPrice:   100,
		ExpiresAt:    now.Add(time.Hour),
		LineItems: []entity.OrderLineItem{
			{Position: 1, Name: "B", UnitPrice: 40, Quantity: 1},
			{Position: 0, Name: "A", UnitPrice: 60, Quantity: 1},
		},
	}
	require.NoError(t, repo.CreateOrder(db, o))

	got, err := repo.GetOrder(db, fx.Restaurant.ID, "ord-1")
	require.NoError(t, err)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, "A", got.LineItems[0].Name)

	_, err = repo.GetOrder(db, fx.Restaurant.ID+1, "ord-1")
	assert.True(t, IsNotFound(err))

	n, err := repo.UpdateStatusGuard(db, "ord-1", entity.OrderPending, entity.OrderCancelled, 0, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.UpdateStatusGuard(db, "ord-1", entity.OrderPending, entity.OrderPreparing, 0, now)
	require.NoError(t, err)
	assert.Zero(t, n, "stale version and status")

	n, err = repo.SetPaidGuard(db, "ord-1", true, 0, now)
	require.NoError(t, err)
	assert.Zero(t, n, "stale version")

	n, err = repo.SetPaidGuard(db, "ord-1", true, 1, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = repo.GetOrder(db, fx.Restaurant.ID, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, got.Status)
	assert.True(t, got.IsPaid)
	assert.Equal(t, int64(2), got.Version)
}

func TestTableRepository_OccupyGuard(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db, 2, nil)
	repo := NewTableRepository(db)
	rid := fx.Restaurant.ID

	n, err := repo.OccupyGuard(db, rid, 1, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.OccupyGuard(db, rid, 1, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "holder may re-occupy")

	n, err = repo.OccupyGuard(db, rid, 1, "b")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.ReleaseHeldBy(db, rid, 1, "b")
	require.NoError(t, err)
	assert.Zero(t, n, "only the holder releases")

	n, err = repo.ReleaseOrders(db, []string{"a", "zzz"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	tbl := testutil.LoadTable(t, db, rid, 1)
	assert.Equal(t, entity.TableAvailable, tbl.Status)
	assert.Nil(t, tbl.CurrentOrderID)

	top, err := repo.MaxNumber(db, rid)
	require.NoError(t, err)
	assert.Equal(t, 2, top)
}
