package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frahmantamala/workspace-booking/internal/core/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is the subset of *amqp.Channel the forwarder needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Forwarder copies booking events from the in-process bus onto a durable queue.
type Forwarder struct {
	pub    Publisher
	queue  string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewForwarder(pub Publisher, queue string, logger *slog.Logger) *Forwarder {
	return &Forwarder{pub: pub, queue: queue, logger: logger}
}

// Register subscribes the forwarder to every booking event type.
func (f *Forwarder) Register(bus *events.EventBus) {
	for _, t := range events.BookingEventTypes {
		bus.Subscribe(t, f.Handle)
	}
}

func (f *Forwarder) Handle(ctx context.Context, evt events.Event) error {
	msg := NewMessage(evt)
	body, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msg.Type, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	err = f.pub.PublishWithContext(ctx, "", f.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Type:         msg.Type,
		Timestamp:    msg.OccurredAt,
		Body:         body,
	})
	if err != nil {
		f.logger.Error("failed to forward booking event", "event_type", msg.Type, "event_id", msg.ID, "error", err)
		return err
	}
	f.logger.Debug("booking event forwarded", "event_type", msg.Type, "event_id", msg.ID, "queue", f.queue)
	return nil
}

// Broker holds the connection and channel used by the forwarder.
type Broker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to url and declares queue as durable.
func Dial(url, queue string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := declareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Broker{conn: conn, ch: ch}, nil
}

func (b *Broker) Channel() *amqp.Channel {
	return b.ch
}

func (b *Broker) Close() error {
	if err := b.ch.Close(); err != nil {
		_ = b.conn.Close()
		return err
	}
	return b.conn.Close()
}

func declareQueue(ch *amqp.Channel, queue string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return q, nil
}
