package services

import (
	"context"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderReaper purges orders past their retention horizon. A table still held
// by a purged order is released in the same transaction.
type OrderReaper struct {
	DB     *gorm.DB
	Orders *repository.OrderRepository
	Tables *repository.TableRepository
	Events EventPublisher

	BatchSize int
	Now       func() time.Time
	Log       *zap.Logger
}

func NewOrderReaper(db *gorm.DB, orders *repository.OrderRepository, tables *repository.TableRepository, events EventPublisher, log *zap.Logger) *OrderReaper {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderReaper{
		DB:        db,
		Orders:    orders,
		Tables:    tables,
		Events:    events,
		BatchSize: 200,
		Now:       time.Now,
		Log:       log.Named("reaper"),
	}
}

// Reap deletes expired orders in batches and returns how many were removed.
func (r *OrderReaper) Reap(ctx context.Context) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		var batch []entity.Order
		err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			batch, err = r.Orders.ExpiredOrders(tx, r.Now(), r.BatchSize)
			if err != nil || len(batch) == 0 {
				return err
			}
			ids := make([]string, len(batch))
			for i, o := range batch {
				ids[i] = o.ID
			}
			released, err := r.Tables.ReleaseOrders(tx, ids)
			if err != nil {
				return err
			}
			if released > 0 {
				r.Log.Warn("released tables held by expired orders", zap.Int64("tables", released))
			}
			return r.Orders.DeleteOrders(tx, ids)
		})
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			return total, nil
		}
		total += len(batch)
		ordersReapedTotal.Add(float64(len(batch)))

		if r.Events != nil {
			now := r.Now()
			for i := range batch {
				r.Events.Publish(ctx, OrderEvent{
					Type:         EventOrdersPurged,
					OrderID:      batch[i].ID,
					RestaurantID: batch[i].RestaurantID,
					TableNumber:  batch[i].TableNumber,
					Actor:        "system",
					OccurredAt:   now,
				})
			}
		}
		if len(batch) < r.BatchSize {
			return total, nil
		}
	}
}

// Run reaps once per interval until ctx is cancelled.
func (r *OrderReaper) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := r.Reap(ctx)
			if err != nil && ctx.Err() == nil {
				r.Log.Error("reap expired orders", zap.Error(err))
				continue
			}
			if n > 0 {
				r.Log.Info("reaped expired orders", zap.Int("count", n))
			}
		}
	}
}
