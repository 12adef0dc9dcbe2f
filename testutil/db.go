// Package testutil provides an isolated, migrated database and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Vishnukant2275/easyorderin/configs"
	"github.com/Vishnukant2275/easyorderin/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database and migrates it.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := configs.OpenDB("sqlite", dsn, false)
	require.NoError(t, err)
	require.NoError(t, configs.SetupDatabase(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixture is a restaurant with tables, a menu and one customer.
type Fixture struct {
	Restaurant entity.Restaurant
	Customer   entity.Customer
	Menu       map[string]entity.MenuItem
}

// Seed creates a restaurant with tables 1..tables and the given menu (name -> price).
func Seed(t *testing.T, db *gorm.DB, tables int, menu map[string]int64) *Fixture {
	t.Helper()
	f := &Fixture{
		Restaurant: entity.Restaurant{Name: "Test Kitchen"},
		Customer:   entity.Customer{Phone: "9876543210", Name: "Asha"},
		Menu:       make(map[string]entity.MenuItem, len(menu)),
	}
	require.NoError(t, db.Create(&f.Restaurant).Error)
	require.NoError(t, db.Create(&f.Customer).Error)

	for n := 1; n <= tables; n++ {
		require.NoError(t, db.Create(&entity.Table{
			RestaurantID: f.Restaurant.ID,
			Number:       n,
			Status:       entity.TableAvailable,
		}).Error)
	}
	for name, price := range menu {
		item := entity.MenuItem{RestaurantID: f.Restaurant.ID, Name: name, Price: price, Available: true}
		require.NoError(t, db.Create(&item).Error)
		f.Menu[name] = item
	}
	return f
}

// AddCustomer creates another customer.
func AddCustomer(t *testing.T, db *gorm.DB, phone, name string) entity.Customer {
	t.Helper()
	c := entity.Customer{Phone: phone, Name: name}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// LoadTable reads a table row.
func LoadTable(t *testing.T, db *gorm.DB, restID uint, number int) entity.Table {
	t.Helper()
	var tbl entity.Table
	require.NoError(t, db.Where("restaurant_id = ? AND number = ?", restID, number).First(&tbl).Error)
	return tbl
}
