package services

import (
	"context"
	"testing"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/repository"
	"github.com/Vishnukant2275/easyorderin/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, tables int) (*TableRegistry, *testutil.Fixture) {
	t.Helper()
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db, tables, nil)
	return NewTableRegistry(db, repository.NewTableRepository(db), repository.NewRestaurantRepository(db)), fx
}

func TestTableRegistry_OccupyAndRelease(t *testing.T) {
	reg, fx := newRegistry(t, 3)
	rid := fx.Restaurant.ID
	db := reg.DB

	require.NoError(t, reg.Occupy(db, rid, 2, "order-a"))
	tbl := testutil.LoadTable(t, db, rid, 2)
	assert.Equal(t, entity.TableOccupied, tbl.Status)
	require.NotNil(t, tbl.CurrentOrderID)
	assert.Equal(t, "order-a", *tbl.CurrentOrderID)

	// same order again is fine
	require.NoError(t, reg.Occupy(db, rid, 2, "order-a"))

	// a different order is refused and leaves the table alone
	assert.ErrorIs(t, reg.Occupy(db, rid, 2, "order-b"), ErrAlreadyOccupied)
	tbl = testutil.LoadTable(t, db, rid, 2)
	assert.Equal(t, "order-a", *tbl.CurrentOrderID)

	require.NoError(t, reg.Release(db, rid, 2))
	require.NoError(t, reg.Release(db, rid, 2), "release is idempotent")
	tbl = testutil.LoadTable(t, db, rid, 2)
	assert.Equal(t, entity.TableAvailable, tbl.Status)
	assert.Nil(t, tbl.CurrentOrderID)

	assert.ErrorIs(t, reg.Occupy(db, rid, 99, "order-c"), ErrTableNotFound)
}

func TestTableRegistry_ReleaseForOnlyFreesHolder(t *testing.T) {
	reg, fx := newRegistry(t, 1)
	rid := fx.Restaurant.ID
	db := reg.DB

	require.NoError(t, reg.Occupy(db, rid, 1, "order-a"))
	require.NoError(t, reg.ReleaseFor(db, rid, 1, "order-stale"))
	assert.Equal(t, entity.TableOccupied, testutil.LoadTable(t, db, rid, 1).Status)

	require.NoError(t, reg.ReleaseFor(db, rid, 1, "order-a"))
	assert.Equal(t, entity.TableAvailable, testutil.LoadTable(t, db, rid, 1).Status)
}

func TestTableRegistry_BulkCreate(t *testing.T) {
	reg, fx := newRegistry(t, 0)
	ctx := context.Background()
	rid := fx.Restaurant.ID

	created, err := reg.BulkCreate(ctx, rid, 4)
	require.NoError(t, err)
	require.Len(t, created, 4)
	for i, tbl := range created {
		assert.Equal(t, i+1, tbl.Number)
		assert.Equal(t, entity.TableAvailable, tbl.Status)
	}

	more, err := reg.BulkCreate(ctx, rid, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, more[0].Number)
	assert.Equal(t, 6, more[1].Number)

	list, err := reg.List(ctx, rid)
	require.NoError(t, err)
	require.Len(t, list, 6)
	for i, tbl := range list {
		assert.Equal(t, i+1, tbl.Number)
	}
}

func TestTableRegistry_BulkCreateValidation(t *testing.T) {
	reg, fx := newRegistry(t, 0)
	ctx := context.Background()

	for _, n := range []int{0, -1, maxBulkTables + 1} {
		_, err := reg.BulkCreate(ctx, fx.Restaurant.ID, n)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "count %d", n)
	}

	_, err := reg.BulkCreate(ctx, fx.Restaurant.ID+100, 2)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}
