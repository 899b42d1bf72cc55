package bus

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"swapRouter/internal/metrics"
	"swapRouter/internal/model"
)

// exchange is the durable topic exchange for transaction-service
// events. Routing keys are the event types.
const exchange = "tx.events"

// AmqpBus publishes domain events to an AMQP broker.
type AmqpBus struct {
	conn   *amqp.Connection
	logger *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAmqpBus connects to the broker and declares the event exchange.
func NewAmqpBus(uri string, logger *zap.Logger) (*AmqpBus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer channel.Close()

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	logger.Info("connected to message broker", zap.String("exchange", exchange))
	return &AmqpBus{conn: conn, logger: logger}, nil
}

// Publish sends one event as JSON, routed by its event type.
func (b *AmqpBus) Publish(event model.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	channel, err := b.channel()
	if err != nil {
		return err
	}

	eventType := event.EventType()
	err = channel.Publish(exchange, eventType, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		b.logger.Error("event publish failed", zap.String("event_type", eventType), zap.Error(err))
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	metrics.EventsPublished.WithLabelValues(eventType).Inc()
	return nil
}

// Close shuts down the channel and connection.
func (b *AmqpBus) Close() error {
	b.mu.Lock()
	if b.ch != nil {
		if err := b.ch.Close(); err != nil {
			b.logger.Warn("close channel", zap.Error(err))
		}
		b.ch = nil
	}
	b.mu.Unlock()
	return b.conn.Close()
}

func (b *AmqpBus) channel() (*amqp.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch != nil {
		return b.ch, nil
	}
	channel, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	b.ch = channel
	return channel, nil
}
