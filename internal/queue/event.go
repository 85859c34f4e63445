// Package queue defines the booking event exchanged over RabbitMQ and the
// consumer that records it.
package queue

import (
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/gold-cinema/internal/model"
)

// BookingCreatedQueue is the durable queue booking events are routed to.
const BookingCreatedQueue = "booking.created"

// BookingCreatedEvent is published after a booking is stored. It carries
// enough to log or notify without querying the database.
type BookingCreatedEvent struct {
	BookingID      string   `json:"booking_id"`
	UserID         string   `json:"user_id"`
	Username       string   `json:"username"`
	ScreeningID    string   `json:"screening_id"`
	ScreeningTitle string   `json:"screening_title"`
	Seats          []string `json:"seats"`
	CreatedAt      string   `json:"created_at"`
}

// NewBookingCreatedEvent builds the event for a stored booking.
func NewBookingCreatedEvent(b model.Booking, username, screeningTitle string) BookingCreatedEvent {
	return BookingCreatedEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		Username:       username,
		ScreeningID:    b.ScreeningID,
		ScreeningTitle: screeningTitle,
		Seats:          append([]string(nil), b.Seats...),
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// LogLine renders the event as one line of logs/booking.log.
func (ev BookingCreatedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Booking created | booking_id=%s | user_id=%s | username=%q | screening_id=%s | movie=%q | seats=[%s]\n",
		ev.CreatedAt, ev.BookingID, ev.UserID, ev.Username, ev.ScreeningID, ev.ScreeningTitle, strings.Join(ev.Seats, ","))
}

// DeclareBookingQueue declares the durable booking queue. It is idempotent.
func DeclareBookingQueue(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(BookingCreatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}
