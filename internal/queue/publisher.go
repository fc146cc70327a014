package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultDialTimeout bounds the TCP connect and AMQP handshake of a publish.
const DefaultDialTimeout = 2 * time.Second

// Publisher sends booking events to RabbitMQ.  It dials a fresh
// connection per publish.  Errors are returned to the caller, which owns
// logging them.
type Publisher struct {
	url         string
	dialTimeout time.Duration
}

// NewPublisher returns a Publisher for the broker at url.  A non-positive
// dialTimeout means DefaultDialTimeout.
func NewPublisher(url string, dialTimeout time.Duration) *Publisher {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	return &Publisher{url: url, dialTimeout: dialTimeout}
}

// PublishBooking publishes ev to the queue named after ev.Type.  The queue
// is declared durable and messages are marked persistent.
func (p *Publisher) PublishBooking(ctx context.Context, ev BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		ev.Type, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("queue declare %s: %w", ev.Type, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		ev.Type, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
