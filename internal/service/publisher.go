package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/gold-cinema/internal/queue"
)

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

// PublishBookingCreated does nothing.
func (NopPublisher) PublishBookingCreated(context.Context, queue.BookingCreatedEvent) error {
	return nil
}

// AMQPPublisher publishes booking events to RabbitMQ. A connection is
// opened per publish; booking volume is low and this keeps the server
// independent of broker restarts.
type AMQPPublisher struct {
	url     string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewAMQPPublisher returns a publisher for url.
func NewAMQPPublisher(url string, logger zerolog.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, timeout: 3 * time.Second, logger: logger}
}

// PublishBookingCreated sends ev as a persistent JSON message to the durable
// booking.created queue.
func (p *AMQPPublisher) PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.timeout)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := queue.DeclareBookingQueue(ch); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = ch.PublishWithContext(ctx, "", queue.BookingCreatedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.BookingID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.logger.Debug().Str("booking_id", ev.BookingID).Msg("booking.created published")
	return nil
}
