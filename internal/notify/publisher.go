package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notifier is what the services call after a state change commits.
type Notifier interface {
	BookingCreated(ctx context.Context, event BookingEvent)
	BookingConfirmed(ctx context.Context, event BookingEvent)
	BookingCancelled(ctx context.Context, event BookingEvent)
}

// Publisher dials the broker per publish. Booking traffic is low enough
// that a pooled channel is not worth the reconnect handling.
type Publisher struct {
	url string
	log *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{
		url: url,
		log: log.With(zap.String("component", "notify")),
	}
}

func (p *Publisher) BookingCreated(ctx context.Context, event BookingEvent) {
	p.publish(ctx, QueueBookingCreated, event)
}

func (p *Publisher) BookingConfirmed(ctx context.Context, event BookingEvent) {
	p.publish(ctx, QueueBookingConfirmed, event)
}

func (p *Publisher) BookingCancelled(ctx context.Context, event BookingEvent) {
	p.publish(ctx, QueueBookingCancelled, event)
}

func (p *Publisher) publish(ctx context.Context, queue string, event BookingEvent) {
	if err := p.send(ctx, queue, event); err != nil {
		p.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("queue", queue),
			zap.String("booking_id", event.BookingID),
		)
	}
}

func (p *Publisher) send(ctx context.Context, queue string, event BookingEvent) error {
	if p.url == "" {
		return fmt.Errorf("broker url not configured")
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable queue so events survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}

	return nil
}
