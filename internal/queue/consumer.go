package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/kino/internal/logging"
	"github.com/iliyamo/kino/internal/metrics"
)

// Handler processes one catalog event.  A returned error rejects the
// message without requeueing it.
type Handler func(ctx context.Context, ev CatalogChangedEvent) error

const maxBackoff = 30 * time.Second

// StartCatalogConsumer connects to RabbitMQ, declares CatalogQueue and
// feeds every delivery to handle.  It reconnects with exponential backoff
// and returns only when ctx is cancelled.
func StartCatalogConsumer(ctx context.Context, url string, handle Handler) {
	log := logging.With("catalog-consumer")
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("dial broker failed")
			if !sleep(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, handle)
		_ = conn.Close()
		if ctx.Err() != nil {
			log.Info().Msg("stopped")
			return
		}
		log.Warn().Err(err).Msg("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logging.Warn().Err(err).Msg("catalog-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(CatalogQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, CatalogQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := dispatch(ctx, d.Body, handle); err != nil {
				logging.Warn().Err(err).Str("message_id", d.MessageId).Msg("catalog-consumer: message rejected")
				_ = d.Nack(false, false) // do not requeue poison messages
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// dispatch decodes body and runs handle on it.
func dispatch(ctx context.Context, body []byte, handle Handler) error {
	ev, err := decodeEvent(body)
	if err != nil {
		metrics.CatalogEvents.WithLabelValues("failed", "unknown").Inc()
		return err
	}
	if err := handle(ctx, ev); err != nil {
		metrics.CatalogEvents.WithLabelValues("failed", ev.Entity).Inc()
		return err
	}
	metrics.CatalogEvents.WithLabelValues("consumed", ev.Entity).Inc()
	return nil
}

// sleep waits d or until ctx ends, reporting whether the full wait elapsed.
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
