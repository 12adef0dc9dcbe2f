package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxLineItems   = 50
	maxQuantity    = 99
	maxNoteLength  = 200
	defaultRetains = 30 * 24 * time.Hour
)

// MenuCatalog is the menu lookup used to snapshot line items.
type MenuCatalog interface {
	MenuItemsByRestaurant(ctx context.Context, restID uint) ([]entity.MenuItem, error)
}

type OrderConfig struct {
	Retention time.Duration
	Now       func() time.Time
	NewID     func() string
}

// OrderService is the only writer of order status, payment flag and table
// occupancy. Writes for one order (and its table) are serialized in-process
// and guarded in the database by a version compare-and-swap.
type OrderService struct {
	DB     *gorm.DB
	Repo   *repository.OrderRepository
	Logs   *repository.StatusLogRepository
	Tables *TableRegistry
	Menu   MenuCatalog
	Events EventPublisher

	cfg   OrderConfig
	log   *zap.Logger
	locks *KeyedMutex
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	logs *repository.StatusLogRepository,
	tables *TableRegistry,
	menu MenuCatalog,
	events EventPublisher,
	cfg OrderConfig,
	log *zap.Logger,
) *OrderService {
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetains
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.NewString() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		DB:     db,
		Repo:   repo,
		Logs:   logs,
		Tables: tables,
		Menu:   menu,
		Events: events,
		cfg:    cfg,
		log:    log.Named("orders"),
		locks:  NewKeyedMutex(),
	}
}

// ----- DTOs from Controller -----

type LineItemInput struct {
	MenuItemID uint   `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note"`
}

type CreateOrderInput struct {
	RestaurantID uint
	TableNumber  int
	CustomerID   uint
	Items        []LineItemInput
}

type UpdateStatusInput struct {
	RestaurantID uint
	OrderID      string
	Status       entity.OrderStatus
	Actor        string
	Note         string
}

func orderKey(restID uint, orderID string) string { return fmt.Sprintf("order:%d:%s", restID, orderID) }
func tableKey(restID uint, number int) string     { return fmt.Sprintf("table:%d:%d", restID, number) }

// ----- Create -----

// CreateOrder snapshots the menu, stores the order as pending and unpaid,
// and occupies the table, all in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	menu, err := s.Menu.MenuItemsByRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	byID := make(map[uint]entity.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	now := s.cfg.Now()
	order := &entity.Order{
		ID:           s.cfg.NewID(),
		RestaurantID: in.RestaurantID,
		CustomerID:   in.CustomerID,
		TableNumber:  in.TableNumber,
		Status:       entity.OrderPending,
		ExpiresAt:    now.Add(s.cfg.Retention),
		CreatedAt:    now,
		UpdatedAt:    now,
		LineItems:    make([]entity.OrderLineItem, 0, len(in.Items)),
	}
	for i, it := range in.Items {
		m, ok := byID[it.MenuItemID]
		if !ok {
			return nil, invalid(fmt.Sprintf("items[%d].menuItemId", i), "not on this restaurant's menu")
		}
		li := entity.OrderLineItem{
			Position:   i + 1,
			MenuItemID: m.ID,
			Name:       m.Name,
			UnitPrice:  m.Price,
			Quantity:   it.Quantity,
			Note:       strings.TrimSpace(it.Note),
		}
		order.TotalPrice += li.Subtotal()
		order.LineItems = append(order.LineItems, li)
	}

	unlock := s.locks.Lock(tableKey(in.RestaurantID, in.TableNumber))
	defer unlock()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Tables.Occupy(tx, in.RestaurantID, in.TableNumber, order.ID); err != nil {
			if errors.Is(err, ErrAlreadyOccupied) {
				return ErrTableOccupied
			}
			return err
		}
		if err := s.Repo.CreateOrder(tx, order); err != nil {
			return err
		}
		return s.Logs.Append(tx, &entity.OrderStatusLog{
			OrderID:   order.ID,
			ToStatus:  entity.OrderPending,
			ChangedBy: fmt.Sprintf("customer:%d", in.CustomerID),
			ChangedAt: now,
		})
	})
	if err != nil {
		observeRejection(err)
		if repository.IsConflict(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	ordersCreatedTotal.Inc()
	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.Uint("restaurant_id", order.RestaurantID),
		zap.Int("table", order.TableNumber),
		zap.Int64("total", order.TotalPrice))
	s.publish(ctx, newOrderEvent(EventOrderCreated, order, fmt.Sprintf("customer:%d", in.CustomerID), now))
	return order, nil
}

func validateCreate(in CreateOrderInput) error {
	if in.RestaurantID == 0 {
		return invalid("restaurantId", "is required")
	}
	if in.CustomerID == 0 {
		return invalid("customerId", "is required")
	}
	if in.TableNumber <= 0 {
		return invalid("tableNumber", "must be a positive number")
	}
	if len(in.Items) == 0 {
		return invalid("items", "is required")
	}
	if len(in.Items) > maxLineItems {
		return invalid("items", fmt.Sprintf("at most %d line items", maxLineItems))
	}
	for i, it := range in.Items {
		if it.MenuItemID == 0 {
			return invalid(fmt.Sprintf("items[%d].menuItemId", i), "is required")
		}
		if it.Quantity < 1 || it.Quantity > maxQuantity {
			return invalid(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("must be between 1 and %d", maxQuantity))
		}
		if len(it.Note) > maxNoteLength {
			return invalid(fmt.Sprintf("items[%d].note", i), fmt.Sprintf("at most %d characters", maxNoteLength))
		}
	}
	return nil
}

// ----- Payment -----

// SetPaymentStatus flips the paid flag. It never changes the order status.
func (s *OrderService) SetPaymentStatus(ctx context.Context, restID uint, orderID string, isPaid bool, actor string) (*entity.Order, error) {
	unlock := s.locks.Lock(orderKey(restID, orderID))
	defer unlock()

	var (
		out     *entity.Order
		changed bool
	)
	attempt := func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			o, err := s.loadOrder(tx, restID, orderID)
			if err != nil {
				return err
			}
			out, changed = o, false
			if o.IsPaid == isPaid {
				return nil
			}
			now := s.cfg.Now()
			affected, err := s.Repo.SetPaidGuard(tx, o.ID, isPaid, o.Version, now)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrConflict
			}
			o.IsPaid, o.Version, o.UpdatedAt = isPaid, o.Version+1, now
			changed = true
			return nil
		})
	}

	if err := retryOnConflict(attempt); err != nil {
		observeRejection(err)
		return nil, err
	}
	if changed {
		s.log.Info("payment updated",
			zap.String("order_id", out.ID),
			zap.Bool("is_paid", isPaid),
			zap.String("actor", actor))
		s.publish(ctx, newOrderEvent(EventOrderPaymentSet, out, actor, out.UpdatedAt))
	}
	return out, nil
}

// ----- Status -----

// UpdateStatus moves an order along an allowed edge and adjusts its table in
// the same transaction. Asking for the current status is a no-op success.
func (s *OrderService) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*entity.Order, error) {
	if !in.Status.Valid() {
		return nil, invalid("status", "must be one of pending, preparing, served, cancelled")
	}
	if len(in.Note) > maxNoteLength {
		return nil, invalid("note", fmt.Sprintf("at most %d characters", maxNoteLength))
	}

	// table number is immutable, so reading it before locking is safe
	current, err := s.loadOrder(s.DB.WithContext(ctx), in.RestaurantID, in.OrderID)
	if err != nil {
		return nil, err
	}

	unlockOrder := s.locks.Lock(orderKey(in.RestaurantID, in.OrderID))
	defer unlockOrder()
	unlockTable := s.locks.Lock(tableKey(in.RestaurantID, current.TableNumber))
	defer unlockTable()

	var (
		out  *entity.Order
		from entity.OrderStatus
	)
	attempt := func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			o, err := s.loadOrder(tx, in.RestaurantID, in.OrderID)
			if err != nil {
				return err
			}
			out, from = o, o.Status
			if o.Status == in.Status {
				return nil
			}

			rule, err := lookupTransition(o.Status, in.Status)
			if err != nil {
				return err
			}
			if rule.requiresPayment && !o.IsPaid {
				return ErrPaymentNotConfirmed
			}

			now := s.cfg.Now()
			affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, o.Status, in.Status, o.Version, now)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrConflict
			}

			switch rule.table {
			case tableRelease:
				err = s.Tables.ReleaseFor(tx, o.RestaurantID, o.TableNumber, o.ID)
			case tableOccupy:
				err = s.Tables.Occupy(tx, o.RestaurantID, o.TableNumber, o.ID)
				if errors.Is(err, ErrAlreadyOccupied) {
					err = ErrTableOccupied
				}
			}
			if err != nil {
				return err
			}

			if err := s.Logs.Append(tx, &entity.OrderStatusLog{
				OrderID:    o.ID,
				FromStatus: o.Status,
				ToStatus:   in.Status,
				ChangedBy:  in.Actor,
				Note:       strings.TrimSpace(in.Note),
				ChangedAt:  now,
			}); err != nil {
				return err
			}

			o.Status, o.Version, o.UpdatedAt = in.Status, o.Version+1, now
			return nil
		})
	}

	if err := retryOnConflict(attempt); err != nil {
		observeRejection(err)
		return nil, err
	}
	if from == in.Status {
		return out, nil
	}

	orderTransitionsTotal.WithLabelValues(string(from), string(in.Status)).Inc()
	s.log.Info("order status changed",
		zap.String("order_id", out.ID),
		zap.String("from", string(from)),
		zap.String("to", string(in.Status)),
		zap.String("actor", in.Actor))

	ev := newOrderEvent(EventOrderStatusChanged, out, in.Actor, out.UpdatedAt)
	ev.From = from
	s.publish(ctx, ev)
	return out, nil
}

// GetOrder reads one order of a restaurant.
func (s *OrderService) GetOrder(ctx context.Context, restID uint, orderID string) (*entity.Order, error) {
	return s.loadOrder(s.DB.WithContext(ctx), restID, orderID)
}

func (s *OrderService) loadOrder(db *gorm.DB, restID uint, orderID string) (*entity.Order, error) {
	o, err := s.Repo.GetOrder(db, restID, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s *OrderService) publish(ctx context.Context, ev OrderEvent) {
	if s.Events != nil {
		s.Events.Publish(ctx, ev)
	}
}

// retryOnConflict runs fn again once if it lost a race; a second loss is returned.
func retryOnConflict(fn func() error) error {
	err := normalizeConflict(fn())
	if errors.Is(err, ErrConflict) {
		err = normalizeConflict(fn())
	}
	return err
}

func normalizeConflict(err error) error {
	if err != nil && !errors.Is(err, ErrConflict) && repository.IsConflict(err) {
		return ErrConflict
	}
	return err
}
