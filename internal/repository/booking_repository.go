package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/gold-cinema/internal/model"
)

// BookingRepo is the append-only booking ledger. There is no update or
// delete.
type BookingRepo struct{ db *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts b. A reference to an unknown screening is reported as
// ErrScreeningNotFound.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO bookings (id, user_id, screening_id, seats, created_at)
		 VALUES (:id, :user_id, :screening_id, :seats, :created_at)`, b)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrScreeningNotFound
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

const bookingViewSelect = `SELECT b.id, b.screening_id, COALESCE(s.title, '') AS screening_title, b.seats, b.created_at
	FROM bookings b
	LEFT JOIN screenings s ON s.id = b.screening_id`

// ListByUser returns the user's bookings, newest first, each with its
// screening title.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.BookingView, error) {
	out := make([]model.BookingView, 0)
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(bookingViewSelect+`
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC, b.id`), userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}
	return out, nil
}

// GetByIDForUser fetches one booking owned by userID. Bookings of other
// users are indistinguishable from missing ones.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID string) (model.BookingView, error) {
	var v model.BookingView
	err := r.db.GetContext(ctx, &v, r.db.Rebind(bookingViewSelect+`
		WHERE b.id = ? AND b.user_id = ?
		LIMIT 1`), bookingID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BookingView{}, ErrBookingNotFound
	}
	if err != nil {
		return model.BookingView{}, fmt.Errorf("get booking: %w", err)
	}
	return v, nil
}

// ListAll returns every booking, newest first, with owner identity and
// screening title resolved.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.AdminBookingView, error) {
	out := make([]model.AdminBookingView, 0)
	err := r.db.SelectContext(ctx, &out, `
		SELECT b.id, b.user_id,
		       COALESCE(u.username, '') AS username, COALESCE(u.email, '') AS email,
		       b.screening_id, COALESCE(s.title, '') AS screening_title,
		       b.seats, b.created_at
		FROM bookings b
		LEFT JOIN users u ON u.id = b.user_id
		LEFT JOIN screenings s ON s.id = b.screening_id
		ORDER BY b.created_at DESC, b.id`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}
