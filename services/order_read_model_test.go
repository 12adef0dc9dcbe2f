package services

import (
	"context"
	"testing"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/pkg/cache"
	"github.com/Vishnukant2275/easyorderin/repository"
	"github.com/Vishnukant2275/easyorderin/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type readEnv struct {
	*orderEnv
	views *OrderReadModel
	ravi  entity.Customer
	meera entity.Customer
	ids   map[int]string // table -> order id
}

func newReadEnv(t *testing.T, c cache.Cache) *readEnv {
	t.Helper()
	oe := newOrderEnv(t)
	env := &readEnv{
		orderEnv: oe,
		views: NewOrderReadModel(oe.orders, repository.NewCustomerRepository(oe.db), oe.logs,
			c, time.Minute, zap.NewNop()),
		ravi:  testutil.AddCustomer(t, oe.db, "9123456780", "Ravi Kumar"),
		meera: testutil.AddCustomer(t, oe.db, "9000000003", "Meera"),
		ids:   map[int]string{},
	}

	place := func(table int, customer uint) {
		o, err := oe.svc.CreateOrder(context.Background(), CreateOrderInput{
			RestaurantID: oe.rid(),
			TableNumber:  table,
			CustomerID:   customer,
			Items:        oe.scenarioItems(),
		})
		require.NoError(t, err)
		env.ids[table] = o.ID
		oe.clock.Advance(time.Minute)
	}
	place(5, oe.fx.Customer.ID)
	place(7, env.ravi.ID)
	place(9, env.meera.ID)
	return env
}

func newMiniCache(t *testing.T) cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCacheWithClient(client, "test")
}

func tablesOf(p *OrderPage) []int {
	out := make([]int, 0, len(p.Items))
	for _, v := range p.Items {
		out = append(out, v.TableNumber)
	}
	return out
}

func TestOrderReadModel_ListOrders(t *testing.T) {
	env := newReadEnv(t, nil)
	ctx := context.Background()
	rid := env.rid()

	_, err := env.svc.SetPaymentStatus(ctx, rid, env.ids[7], true, "staff:1")
	require.NoError(t, err)
	_, err = env.setStatus(t, env.ids[7], entity.OrderPreparing)
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter OrderFilter
		want   []int
	}{
		{name: "all newest first", filter: OrderFilter{RestaurantID: rid}, want: []int{9, 7, 5}},
		{name: "by status", filter: OrderFilter{RestaurantID: rid, Status: entity.OrderPending}, want: []int{9, 5}},
		{name: "customer name any case", filter: OrderFilter{RestaurantID: rid, Search: "RAVI"}, want: []int{7}},
		{name: "table number", filter: OrderFilter{RestaurantID: rid, Search: "9"}, want: []int{9}},
		{name: "order id", filter: OrderFilter{RestaurantID: rid, Search: env.ids[5]}, want: []int{5}},
		{name: "status and search", filter: OrderFilter{RestaurantID: rid, Status: entity.OrderPreparing, Search: "meera"}, want: []int{}},
		{name: "other restaurant", filter: OrderFilter{RestaurantID: rid + 1}, want: []int{}},
		{name: "customer scope", filter: OrderFilter{CustomerID: env.meera.ID}, want: []int{9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.views.ListOrders(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tablesOf(page))
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}
}

func TestOrderReadModel_ListOrdersJoinsCustomerAndPaginates(t *testing.T) {
	env := newReadEnv(t, nil)
	ctx := context.Background()

	page, err := env.views.ListOrders(ctx, OrderFilter{RestaurantID: env.rid(), Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Items, 1)

	v := page.Items[0]
	assert.Equal(t, 5, v.TableNumber)
	assert.Equal(t, "Asha", v.CustomerName)
	assert.Equal(t, "9876543210", v.CustomerPhone)
	assert.Len(t, v.LineItems, 2)

	_, err = env.views.ListOrders(ctx, OrderFilter{RestaurantID: env.rid(), Status: "eaten"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOrderReadModel_GetOrderReadsThroughCache(t *testing.T) {
	env := newReadEnv(t, newMiniCache(t))
	ctx := context.Background()
	id := env.ids[7]

	v, err := env.views.GetOrder(ctx, env.rid(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", v.CustomerName)
	assert.Equal(t, int64(250), v.TotalPrice)

	// change underneath the cache
	require.NoError(t, env.db.Model(&entity.Customer{}).Where("id = ?", env.ravi.ID).Update("name", "Ravi K").Error)

	v, err = env.views.GetOrder(ctx, env.rid(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", v.CustomerName, "served from cache")

	env.views.Publish(ctx, OrderEvent{Type: EventOrderStatusChanged, OrderID: id, RestaurantID: env.rid()})

	v, err = env.views.GetOrder(ctx, env.rid(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ravi K", v.CustomerName)

	_, err = env.views.GetOrder(ctx, env.rid(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderReadModel_CacheFollowsEngineEvents(t *testing.T) {
	oe := newOrderEnv(t)
	views := NewOrderReadModel(oe.orders, repository.NewCustomerRepository(oe.db), oe.logs,
		newMiniCache(t), time.Minute, zap.NewNop())
	oe.svc.Events = EventFanout{oe.events, views}
	ctx := context.Background()

	o := oe.create(t, 3)
	v, err := views.GetOrder(ctx, oe.rid(), o.ID)
	require.NoError(t, err)
	assert.False(t, v.IsPaid)

	_, err = oe.svc.SetPaymentStatus(ctx, oe.rid(), o.ID, true, "staff:1")
	require.NoError(t, err)

	v, err = views.GetOrder(ctx, oe.rid(), o.ID)
	require.NoError(t, err)
	assert.True(t, v.IsPaid)
}

func TestOrderReadModel_History(t *testing.T) {
	env := newReadEnv(t, nil)
	ctx := context.Background()

	_, err := env.setStatus(t, env.ids[5], entity.OrderCancelled)
	require.NoError(t, err)

	rows, err := env.views.History(ctx, env.rid(), env.ids[5])
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, entity.OrderPending, rows[0].ToStatus)
	assert.Equal(t, entity.OrderCancelled, rows[1].ToStatus)
	assert.Equal(t, "staff:1", rows[1].ChangedBy)

	_, err = env.views.History(ctx, env.rid()+1, env.ids[5])
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderReadModel_HistoryOfPurgedOrderWhileCached(t *testing.T) {
	env := newReadEnv(t, newMiniCache(t))
	ctx := context.Background()
	id := env.ids[5]

	_, err := env.views.GetOrder(ctx, env.rid(), id)
	require.NoError(t, err)

	// purge without an event so the cached copy survives
	require.NoError(t, env.orders.DeleteOrders(env.db, []string{id}))

	_, err = env.views.GetOrder(ctx, env.rid(), id)
	require.NoError(t, err, "still cached")

	_, err = env.views.History(ctx, env.rid(), id)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
