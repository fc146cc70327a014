package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer listens to the booking queues and appends one line per event
// to <Dir>/booking.log.
type Consumer struct {
	URL string
	Dir string
	Log *slog.Logger
}

// Run connects to RabbitMQ, declares the booking queues and consumes until
// ctx is cancelled.  Broker failures are retried with exponential backoff
// capped at 30s; a message that cannot be handled is rejected without
// requeue so it cannot loop.
func (c *Consumer) Run(ctx context.Context) error {
	logger := c.Log
	if logger == nil {
		logger = slog.Default()
	}
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			logger.Warn("booking-consumer: failed to dial broker",
				slog.String("error", err.Error()), slog.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("booking-consumer: consume loop ended; reconnecting", slog.String("error", err.Error()))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection, logger *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn("booking-consumer: set QoS failed", slog.String("error", err.Error()))
	}

	created, err := c.subscribe(ch, BookingCreated)
	if err != nil {
		return err
	}
	updated, err := c.subscribe(ch, BookingUpdated)
	if err != nil {
		return err
	}

	for {
		var d amqp.Delivery
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-created:
		case d, ok = <-updated:
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := c.handleMessage(d.Body); err != nil {
			logger.Error("booking-consumer: handle message failed", slog.String("error", err.Error()))
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
}

func (c *Consumer) subscribe(ch *amqp.Channel, queue string) (<-chan amqp.Delivery, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("queue declare %s: %w", queue, err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("queue consume %s: %w", queue, err)
	}
	return msgs, nil
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	dir := c.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLine(ev BookingEvent) string {
	switch ev.Type {
	case BookingUpdated:
		return fmt.Sprintf("[%s] Booking updated | event_id=%s | booking_id=%d | user_id=%d | room_id=%d | previous_room_id=%d\n",
			ev.OccurredAt, ev.EventID, ev.BookingID, ev.UserID, ev.RoomID, ev.PreviousRoomID)
	default:
		return fmt.Sprintf("[%s] Booking created | event_id=%s | booking_id=%d | user_id=%d | room_id=%d\n",
			ev.OccurredAt, ev.EventID, ev.BookingID, ev.UserID, ev.RoomID)
	}
}
