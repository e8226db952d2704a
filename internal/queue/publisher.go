package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/kino/internal/logging"
	"github.com/iliyamo/kino/internal/metrics"
)

// Publisher sends catalog events.  Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishCatalogChanged(ctx context.Context, ev CatalogChangedEvent) error
	Close() error
}

// NoopPublisher drops events.  It is used when the broker is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishCatalogChanged(context.Context, CatalogChangedEvent) error { return nil }
func (NoopPublisher) Close() error                                                     { return nil }

// AMQPPublisher publishes persistent JSON messages to CatalogQueue through
// the default exchange.  The connection is opened lazily and reopened after
// any failure.
type AMQPPublisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{url: url} }

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(CatalogQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

// PublishCatalogChanged sends ev.  Errors are logged and returned; callers
// treat them as non-fatal since the write already committed.
func (p *AMQPPublisher) PublishCatalogChanged(ctx context.Context, ev CatalogChangedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err == nil {
		err = ch.PublishWithContext(ctx, "", CatalogQueue, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	}
	if err != nil {
		p.reset()
		metrics.CatalogEvents.WithLabelValues("failed", ev.Entity).Inc()
		logging.Warn().Err(err).Str("entity", ev.Entity).Uint64("id", ev.ID).Msg("catalog event not published")
		return err
	}
	metrics.CatalogEvents.WithLabelValues("published", ev.Entity).Inc()
	return nil
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
