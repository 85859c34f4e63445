package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/gold-cinema/internal/model"
	"github.com/iliyamo/gold-cinema/internal/queue"
	"github.com/iliyamo/gold-cinema/internal/repository"
)

// BookingStore persists bookings.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	ListByUser(ctx context.Context, userID string) ([]model.BookingView, error)
	GetByIDForUser(ctx context.Context, bookingID, userID string) (model.BookingView, error)
	ListAll(ctx context.Context) ([]model.AdminBookingView, error)
}

// ScreeningLookup resolves screenings from the catalog.
type ScreeningLookup interface {
	GetByID(ctx context.Context, id string) (model.Screening, error)
}

// EventPublisher emits booking events to downstream consumers.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// BookingService is the append-only booking ledger. Seats are not checked
// against other bookings.
type BookingService struct {
	bookings   BookingStore
	screenings ScreeningLookup
	publisher  EventPublisher
	logger     zerolog.Logger
	now        func() time.Time
}

// BookingOption customizes a BookingService.
type BookingOption func(*BookingService)

// WithPublisher sets the event publisher. Without it events are dropped.
func WithPublisher(p EventPublisher) BookingOption {
	return func(s *BookingService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l zerolog.Logger) BookingOption {
	return func(s *BookingService) { s.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

// NewBookingService wires the booking ledger.
func NewBookingService(bookings BookingStore, screenings ScreeningLookup, opts ...BookingOption) *BookingService {
	s := &BookingService{
		bookings:   bookings,
		screenings: screenings,
		publisher:  NopPublisher{},
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a booking of seats for screeningID owned by the user.
// The seat order is preserved. username only enriches the published event.
func (s *BookingService) Create(ctx context.Context, userID, username, screeningID string, seats []string) (model.Booking, error) {
	if strings.TrimSpace(screeningID) == "" {
		return model.Booking{}, invalid("screening_id", "is required")
	}
	if len(seats) == 0 {
		return model.Booking{}, invalid("seats", "must not be empty")
	}
	for _, seat := range seats {
		if strings.TrimSpace(seat) == "" {
			return model.Booking{}, invalid("seats", "must not contain blank labels")
		}
	}

	screening, err := s.screenings.GetByID(ctx, screeningID)
	if err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return model.Booking{}, invalid("screening_id", "unknown screening")
		}
		return model.Booking{}, err
	}

	b := model.Booking{
		ID:          uuid.NewString(),
		UserID:      userID,
		ScreeningID: screening.ID,
		Seats:       append(model.SeatList(nil), seats...),
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return model.Booking{}, invalid("screening_id", "unknown screening")
		}
		return model.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	ev := queue.NewBookingCreatedEvent(b, username, screening.Title)
	if err := s.publisher.PublishBookingCreated(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", b.ID).Msg("publish booking.created failed")
	}
	return b, nil
}

// ListByOwner returns the user's bookings, newest first.
func (s *BookingService) ListByOwner(ctx context.Context, userID string) ([]model.BookingView, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// GetForOwner returns one of the user's bookings. Bookings of other users
// are reported as repository.ErrBookingNotFound.
func (s *BookingService) GetForOwner(ctx context.Context, bookingID, userID string) (model.BookingView, error) {
	return s.bookings.GetByIDForUser(ctx, bookingID, userID)
}

// ListAll returns every booking with owner and screening resolved.
func (s *BookingService) ListAll(ctx context.Context) ([]model.AdminBookingView, error) {
	return s.bookings.ListAll(ctx)
}
