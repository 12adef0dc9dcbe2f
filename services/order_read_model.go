package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/pkg/cache"
	"github.com/Vishnukant2275/easyorderin/repository"

	"go.uber.org/zap"
)

// OrderView is an order joined with its customer's current identity.
type OrderView struct {
	entity.Order
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
}

type OrderFilter struct {
	RestaurantID uint
	CustomerID   uint
	Status       entity.OrderStatus
	Search       string
	Page         int
	Limit        int
}

type OrderPage struct {
	Items []OrderView `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// OrderReadModel serves dashboards. It never writes orders and may lag
// behind OrderService by the cache TTL at most.
type OrderReadModel struct {
	Orders    *repository.OrderRepository
	Customers *repository.CustomerRepository
	Logs      *repository.StatusLogRepository

	cache    cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewOrderReadModel(
	orders *repository.OrderRepository,
	customers *repository.CustomerRepository,
	logs *repository.StatusLogRepository,
	c cache.Cache,
	ttl time.Duration,
	log *zap.Logger,
) *OrderReadModel {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderReadModel{
		Orders:    orders,
		Customers: customers,
		Logs:      logs,
		cache:     c,
		cacheTTL:  ttl,
		log:       log.Named("read_model"),
	}
}

// ListOrders returns a page of orders with customer names, newest first.
func (m *OrderReadModel) ListOrders(ctx context.Context, f OrderFilter) (*OrderPage, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("status", "unknown status")
	}
	q := repository.OrderQuery{
		RestaurantID: f.RestaurantID,
		CustomerID:   f.CustomerID,
		Status:       f.Status,
		Search:       f.Search,
		Page:         f.Page,
		Limit:        f.Limit,
	}
	orders, total, err := m.Orders.ListOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	views, err := m.enrich(ctx, orders)
	if err != nil {
		return nil, err
	}

	page := &OrderPage{Items: views, Total: total, Page: f.Page, Limit: f.Limit}
	if page.Page <= 0 {
		page.Page = 1
	}
	if page.Limit <= 0 || page.Limit > 200 {
		page.Limit = 20
	}
	return page, nil
}

// GetOrder reads one order through the cache.
func (m *OrderReadModel) GetOrder(ctx context.Context, restID uint, orderID string) (*OrderView, error) {
	key := m.cacheKey(restID, orderID)
	if v, ok := m.cached(ctx, key); ok {
		return v, nil
	}

	o, err := m.Orders.GetOrder(m.Orders.DB.WithContext(ctx), restID, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	views, err := m.enrich(ctx, []entity.Order{*o})
	if err != nil {
		return nil, err
	}
	v := &views[0]
	m.store(ctx, key, v)
	return v, nil
}

// History lists the recorded status changes of an order, oldest first.
// Existence is checked against the database, never the cache.
func (m *OrderReadModel) History(ctx context.Context, restID uint, orderID string) ([]entity.OrderStatusLog, error) {
	if _, err := m.Orders.GetOrder(m.Orders.DB.WithContext(ctx), restID, orderID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return m.Logs.ListForOrder(ctx, orderID)
}

// Publish drops the cached copy of a changed order.
func (m *OrderReadModel) Publish(ctx context.Context, ev OrderEvent) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Delete(ctx, m.cacheKey(ev.RestaurantID, ev.OrderID)); err != nil {
		m.log.Warn("invalidate cached order", zap.String("order_id", ev.OrderID), zap.Error(err))
	}
}

func (m *OrderReadModel) enrich(ctx context.Context, orders []entity.Order) ([]OrderView, error) {
	ids := make([]uint, 0, len(orders))
	seen := make(map[uint]bool, len(orders))
	for _, o := range orders {
		if !seen[o.CustomerID] {
			seen[o.CustomerID] = true
			ids = append(ids, o.CustomerID)
		}
	}
	customers, err := m.Customers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v := OrderView{Order: o}
		if c, ok := customers[o.CustomerID]; ok {
			v.CustomerName = c.Name
			v.CustomerPhone = c.Phone
		}
		if v.LineItems == nil {
			v.LineItems = []entity.OrderLineItem{}
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *OrderReadModel) cacheKey(restID uint, orderID string) string {
	if m.cache == nil {
		return ""
	}
	return m.cache.GenerateKey("order", fmt.Sprintf("%d:%s", restID, orderID))
}

func (m *OrderReadModel) cached(ctx context.Context, key string) (*OrderView, bool) {
	if m.cache == nil {
		return nil, false
	}
	raw, err := m.cache.Get(ctx, key)
	if err != nil {
		m.log.Warn("read cached order", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if raw == "" {
		return nil, false
	}
	var v OrderView
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	return &v, true
}

func (m *OrderReadModel) store(ctx context.Context, key string, v *OrderView) {
	if m.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := m.cache.Set(ctx, key, string(b), m.cacheTTL); err != nil {
		m.log.Warn("cache order", zap.String("key", key), zap.Error(err))
	}
}
