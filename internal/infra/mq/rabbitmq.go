package mq

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/config"
)

var (
	conn *amqp.Connection
	once sync.Once
)

// Init opens the RabbitMQ connection. Returns nil when no URL is configured;
// a nil connection disables event publishing.
func Init(cfg *config.RabbitMQConfig) *amqp.Connection {
	if cfg.URL == "" {
		return nil
	}
	once.Do(func() {
		c, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Fatalf("failed to connect rabbitmq: %v", err)
		}
		conn = c
	})
	return conn
}

// Conn returns the connection created by Init, possibly nil.
func Conn() *amqp.Connection {
	return conn
}

// OrderPlacedEvent is published once a cart transitions to Placed, for a
// kitchen/fulfilment consumer downstream.
type OrderPlacedEvent struct {
	OrderID   int64  `json:"order_id"`
	SessionID string `json:"session_id"`
	Total     string `json:"total"`
	ItemCount int    `json:"item_count"`
}

// Publisher sends order events to a queue. The zero-value (nil connection)
// publisher drops everything silently, so callers never branch on whether
// MQ is configured.
type Publisher struct {
	conn  *amqp.Connection
	queue string
}

// NewPublisher creates a publisher over conn, which may be nil.
func NewPublisher(conn *amqp.Connection, queue string) *Publisher {
	if queue == "" {
		queue = "orders.placed"
	}
	return &Publisher{conn: conn, queue: queue}
}

// PublishOrderPlaced delivers the event fire-and-forget. A fresh channel per
// publish keeps the connection shareable across concurrent requests.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, evt OrderPlacedEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return err
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
