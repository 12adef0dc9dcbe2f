package services

import (
	"context"
	"testing"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrderReaper_PurgesExpiredOrders(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	old := env.create(t, 1)
	_, err := env.setStatus(t, old.ID, entity.OrderCancelled)
	require.NoError(t, err)
	stale := env.create(t, 2) // still pending when it expires

	env.clock.Advance(20 * 24 * time.Hour)
	fresh := env.create(t, 3)

	env.clock.Advance(11 * 24 * time.Hour)

	events := &recordingPublisher{}
	reaper := NewOrderReaper(env.db, env.orders, repository.NewTableRepository(env.db), events, zap.NewNop())
	reaper.Now = env.clock.Now
	reaper.BatchSize = 1

	n, err := reaper.Reap(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var ids []string
	require.NoError(t, env.db.Model(&entity.Order{}).Pluck("id", &ids).Error)
	assert.Equal(t, []string{fresh.ID}, ids)

	var items, logs int64
	require.NoError(t, env.db.Model(&entity.OrderLineItem{}).Where("order_id IN ?", []string{old.ID, stale.ID}).Count(&items).Error)
	require.NoError(t, env.db.Model(&entity.OrderStatusLog{}).Where("order_id IN ?", []string{old.ID, stale.ID}).Count(&logs).Error)
	assert.Zero(t, items)
	assert.Zero(t, logs)

	tbl := env.table(t, 2)
	assert.Equal(t, entity.TableAvailable, tbl.Status, "table held by a purged order is released")
	assert.Nil(t, tbl.CurrentOrderID)
	assert.Equal(t, entity.TableOccupied, env.table(t, 3).Status)

	evs := events.Events()
	require.Len(t, evs, 2)
	for _, ev := range evs {
		assert.Equal(t, EventOrdersPurged, ev.Type)
	}

	n, err = reaper.Reap(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrderReaper_RunStopsOnCancel(t *testing.T) {
	env := newOrderEnv(t)
	env.create(t, 1)
	env.clock.Advance(31 * 24 * time.Hour)

	reaper := NewOrderReaper(env.db, env.orders, repository.NewTableRepository(env.db), nil, zap.NewNop())
	reaper.Now = env.clock.Now

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reaper.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		var count int64
		env.db.Model(&entity.Order{}).Count(&count)
		return count == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}
