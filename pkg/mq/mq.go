// Package mq is a small RabbitMQ publisher with publisher confirms.
package mq

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrdersExchange = "orders_fanout"
	OrdersQueue    = "orders.dashboard.q"
	OTPQueue       = "otp.delivery"
)

// channel is the publishing side of *amqp.Channel.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	GetNextPublishSeqNo() uint64
}

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	pub  channel

	acks <-chan amqp.Confirmation
	sem  chan struct{} // one in-flight publish so confirms line up
}

func newClient(conn *amqp.Connection, ch *amqp.Channel, pub channel, acks <-chan amqp.Confirmation) *Client {
	return &Client{conn: conn, ch: ch, pub: pub, acks: acks, sem: make(chan struct{}, 1)}
}

// Dial opens a connection and a channel in confirm mode.
func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 4))
	return newClient(conn, ch, ch, acks), nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) Ping() error {
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareTopology creates the order events exchange and the OTP delivery queue.
func (c *Client) DeclareTopology() error {
	if err := c.ch.ExchangeDeclare(OrdersExchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(OrdersQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.QueueBind(OrdersQueue, "", OrdersExchange, false, nil); err != nil {
		return err
	}
	// codes are short-lived; drop undelivered ones after a minute
	_, err := c.ch.QueueDeclare(OTPQueue, true, false, false, false, amqp.Table{
		"x-message-ttl": int32(60_000),
	})
	return err
}

// Publish sends a persistent JSON message and waits for the broker ack.
// Waiting for a previous publish and for the ack both stop when ctx is done.
func (c *Client) Publish(ctx context.Context, exchange, key string, body []byte) error {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-c.sem }()

	seq := c.pub.GetNextPublishSeqNo()
	if err := c.pub.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}); err != nil {
		return err
	}
	return awaitConfirm(ctx, c.acks, seq)
}

// awaitConfirm waits for the confirmation of delivery tag seq. Late confirms
// of earlier publishes that gave up on their ctx are skipped.
func awaitConfirm(ctx context.Context, acks <-chan amqp.Confirmation, seq uint64) error {
	for {
		select {
		case conf, ok := <-acks:
			if !ok {
				return errors.New("rabbitmq channel closed")
			}
			if conf.DeliveryTag < seq {
				continue
			}
			if conf.Ack {
				return nil
			}
			return errors.New("publish NACK from broker")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
