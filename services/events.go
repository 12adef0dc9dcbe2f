package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"

	"go.uber.org/zap"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderPaymentSet    = "order.payment_changed"
	EventOrdersPurged       = "order.purged"
)

// OrderEvent describes a committed change to an order.
type OrderEvent struct {
	Type         string             `json:"type"`
	OrderID      string             `json:"orderId"`
	RestaurantID uint               `json:"restaurantId"`
	TableNumber  int                `json:"tableNumber"`
	From         entity.OrderStatus `json:"from,omitempty"`
	To           entity.OrderStatus `json:"to,omitempty"`
	IsPaid       bool               `json:"isPaid"`
	TotalPrice   int64              `json:"totalPrice"`
	Actor        string             `json:"actor,omitempty"`
	OccurredAt   time.Time          `json:"occurredAt"`
}

func newOrderEvent(typ string, o *entity.Order, actor string, at time.Time) OrderEvent {
	return OrderEvent{
		Type:         typ,
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		TableNumber:  o.TableNumber,
		To:           o.Status,
		IsPaid:       o.IsPaid,
		TotalPrice:   o.TotalPrice,
		Actor:        actor,
		OccurredAt:   at,
	}
}

// EventPublisher receives events after the transaction that produced them
// committed. Publishing must not block the caller for long.
type EventPublisher interface {
	Publish(ctx context.Context, ev OrderEvent)
}

// EventFanout forwards every event to each publisher in order.
type EventFanout []EventPublisher

func (f EventFanout) Publish(ctx context.Context, ev OrderEvent) {
	for _, p := range f {
		if p != nil {
			p.Publish(ctx, ev)
		}
	}
}

// MessagePublisher is the broker side used by BrokerPublisher and BrokerCodeSender.
type MessagePublisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

// BrokerPublisher sends order events to a fanout exchange.
type BrokerPublisher struct {
	Broker   MessagePublisher
	Exchange string
	Timeout  time.Duration
	Log      *zap.Logger
}

func (p *BrokerPublisher) Publish(ctx context.Context, ev OrderEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		p.Log.Error("encode order event", zap.Error(err))
		return
	}
	ctx, cancel := detached(ctx, p.Timeout)
	defer cancel()
	if err := p.Broker.Publish(ctx, p.Exchange, ev.Type, body); err != nil {
		p.Log.Warn("publish order event",
			zap.String("type", ev.Type),
			zap.String("order_id", ev.OrderID),
			zap.Error(err))
	}
}

// BrokerCodeSender hands OTP codes to the delivery queue consumed by the SMS gateway.
type BrokerCodeSender struct {
	Broker  MessagePublisher
	Queue   string
	Timeout time.Duration
}

type codeMessage struct {
	Phone string    `json:"phone"`
	Code  string    `json:"code"`
	At    time.Time `json:"at"`
}

func (s *BrokerCodeSender) SendCode(ctx context.Context, phone, code string) error {
	body, err := json.Marshal(codeMessage{Phone: phone, Code: code, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	ctx, cancel := detached(ctx, s.Timeout)
	defer cancel()
	return s.Broker.Publish(ctx, "", s.Queue, body)
}

// detached bounds a broker call by its own deadline, independent of the
// request that triggered it.
func detached(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

// LogCodeSender writes a masked notice instead of delivering; for local runs.
type LogCodeSender struct {
	Log *zap.Logger
}

func (s LogCodeSender) SendCode(_ context.Context, phone, _ string) error {
	s.Log.Info("otp issued", zap.String("phone", maskPhone(phone)))
	return nil
}
