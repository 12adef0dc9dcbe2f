package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/repository"
	"github.com/Vishnukant2275/easyorderin/testutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (r *recordingPublisher) Publish(_ context.Context, ev OrderEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recordingPublisher) Events() []OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OrderEvent(nil), r.events...)
}

type orderEnv struct {
	db      *gorm.DB
	fx      *testutil.Fixture
	clock   *fakeClock
	events  *recordingPublisher
	svc     *OrderService
	tables  *TableRegistry
	menu    *repository.MenuRepository
	logs    *repository.StatusLogRepository
	orders  *repository.OrderRepository
	idCount atomic.Int64
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()
	db := testutil.NewDB(t)
	env := &orderEnv{
		db:     db,
		fx:     testutil.Seed(t, db, 10, map[string]int64{"Masala Dosa": 100, "Filter Coffee": 50}),
		clock:  newFakeClock(),
		events: &recordingPublisher{},
		menu:   repository.NewMenuRepository(db),
		logs:   repository.NewStatusLogRepository(db),
		orders: repository.NewOrderRepository(db),
	}
	env.tables = NewTableRegistry(db, repository.NewTableRepository(db), repository.NewRestaurantRepository(db))
	env.svc = NewOrderService(db, env.orders, env.logs, env.tables, env.menu, env.events, OrderConfig{
		Now:   env.clock.Now,
		NewID: func() string { return fmt.Sprintf("ord-%04d", env.idCount.Add(1)) },
	}, zap.NewNop())
	return env
}

func (e *orderEnv) rid() uint { return e.fx.Restaurant.ID }

// scenarioItems is two dosas and one coffee: 100*2 + 50*1.
func (e *orderEnv) scenarioItems() []LineItemInput {
	return []LineItemInput{
		{MenuItemID: e.fx.Menu["Masala Dosa"].ID, Quantity: 2},
		{MenuItemID: e.fx.Menu["Filter Coffee"].ID, Quantity: 1, Note: "less sugar"},
	}
}

func (e *orderEnv) create(t *testing.T, table int) *entity.Order {
	t.Helper()
	o, err := e.svc.CreateOrder(context.Background(), CreateOrderInput{
		RestaurantID: e.rid(),
		TableNumber:  table,
		CustomerID:   e.fx.Customer.ID,
		Items:        e.scenarioItems(),
	})
	require.NoError(t, err)
	return o
}

func (e *orderEnv) setStatus(t *testing.T, id string, to entity.OrderStatus) (*entity.Order, error) {
	t.Helper()
	return e.svc.UpdateStatus(context.Background(), UpdateStatusInput{
		RestaurantID: e.rid(),
		OrderID:      id,
		Status:       to,
		Actor:        "staff:1",
	})
}

func (e *orderEnv) reload(t *testing.T, id string) *entity.Order {
	t.Helper()
	o, err := e.svc.GetOrder(context.Background(), e.rid(), id)
	require.NoError(t, err)
	return o
}

func (e *orderEnv) table(t *testing.T, number int) entity.Table {
	t.Helper()
	return testutil.LoadTable(t, e.db, e.rid(), number)
}

// force puts an order into a state directly, keeping the table consistent with it.
func (e *orderEnv) force(t *testing.T, o *entity.Order, status entity.OrderStatus, paid bool) {
	t.Helper()
	require.NoError(t, e.db.Model(&entity.Order{}).Where("id = ?", o.ID).
		Updates(map[string]any{"status": status, "is_paid": paid}).Error)
	if status.Live() {
		require.NoError(t, e.db.Model(&entity.Table{}).
			Where("restaurant_id = ? AND number = ?", o.RestaurantID, o.TableNumber).
			Updates(map[string]any{"status": entity.TableOccupied, "current_order_id": o.ID}).Error)
	} else {
		require.NoError(t, e.db.Model(&entity.Table{}).
			Where("restaurant_id = ? AND number = ?", o.RestaurantID, o.TableNumber).
			Updates(map[string]any{"status": entity.TableAvailable, "current_order_id": nil}).Error)
	}
}

func (e *orderEnv) historyCount(t *testing.T, id string) int {
	t.Helper()
	rows, err := e.logs.ListForOrder(context.Background(), id)
	require.NoError(t, err)
	return len(rows)
}
