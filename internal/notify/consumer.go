package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
	prefetch       = 50
)

// MessageHandler processes one decoded queue message.
type MessageHandler func(ctx context.Context, msg Message) error

// Consumer drains the booking event queue, reconnecting with exponential
// backoff until its context is cancelled.
type Consumer struct {
	url     string
	queue   string
	handle  MessageHandler
	logger  *slog.Logger
	dial    func(url string) (*amqp.Connection, error)
	sleepFn func(ctx context.Context, d time.Duration) bool
}

func NewConsumer(url, queue string, handle MessageHandler, logger *slog.Logger) *Consumer {
	return &Consumer{
		url:     url,
		queue:   queue,
		handle:  handle,
		logger:  logger,
		dial:    amqp.Dial,
		sleepFn: sleep,
	}
}

// Run blocks until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		conn, err := c.dial(c.url)
		if err != nil {
			c.logger.Warn("failed to dial broker, retrying", "error", err, "backoff", backoff.String())
			if !c.sleepFn(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = initialBackoff

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("consume loop ended, reconnecting", "error", err)
		if !c.sleepFn(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.logger.Warn("failed to set qos", "error", err)
	}
	if _, err := declareQueue(ch, c.queue); err != nil {
		return err
	}

	deliveries, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}
	c.logger.Info("consuming booking events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.deliver(ctx, d)
		}
	}
}

// Acknowledger is the part of amqp.Delivery used to settle a message.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery) {
	c.Process(ctx, d.Body, &d)
}

// Process decodes body, runs the handler and settles the message. Poison
// messages are rejected without requeue.
func (c *Consumer) Process(ctx context.Context, body []byte, ack Acknowledger) {
	msg, err := ParseMessage(body)
	if err != nil {
		c.logger.Error("discarding malformed message", "error", err)
		_ = ack.Nack(false, false)
		return
	}
	if err := c.handle(ctx, msg); err != nil {
		c.logger.Error("failed to handle booking event", "event_type", msg.Type, "event_id", msg.ID, "error", err)
		_ = ack.Nack(false, false)
		return
	}
	_ = ack.Ack(false)
}

// LogHandler writes each message to logger.
func LogHandler(logger *slog.Logger) MessageHandler {
	return func(ctx context.Context, msg Message) error {
		logger.Info("booking notification",
			"event_type", msg.Type,
			"event_id", msg.ID,
			"occurred_at", msg.OccurredAt,
			"data", msg.Data)
		return nil
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
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
