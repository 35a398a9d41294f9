// Package events publishes domain events to RabbitMQ. Each event type has
// its own durable queue named after the routing key.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event is the envelope written to the queue.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// Publisher dials per publish. Events are rare (one per saved image or
// purchase), so no connection is held open. An empty URL disables it.
type Publisher struct {
	url    string
	logger *slog.Logger
	now    func() time.Time
}

func NewPublisher(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{url: url, logger: logger, now: time.Now}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.url != ""
}

func (p *Publisher) encode(routingKey string, payload any) (amqp.Publishing, error) {
	body, err := json.Marshal(Event{Type: routingKey, OccurredAt: p.now().UTC(), Data: payload})
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s event: %w", routingKey, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Type:         routingKey,
		Body:         body,
	}, nil
}

// Publish sends payload to the queue named routingKey.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if !p.Enabled() {
		return nil
	}
	msg, err := p.encode(routingKey, payload)
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(routingKey, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq declare %s: %w", routingKey, err)
	}
	if err := ch.PublishWithContext(ctx, "", routingKey, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", routingKey, err)
	}
	p.logger.Debug("event published", slog.String("event", routingKey))
	return nil
}
