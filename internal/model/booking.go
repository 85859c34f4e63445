package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SeatList is the ordered list of seat labels of a booking. It is stored
// as a JSON array in a text column.
type SeatList []string

// Value implements driver.Valuer.
func (s SeatList) Value() (driver.Value, error) {
	if s == nil {
		s = SeatList{}
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *SeatList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = SeatList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("seat list: unsupported column type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("seat list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*s = out
	return nil
}

// Booking mirrors a row of the `bookings` table. Bookings are immutable.
type Booking struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	ScreeningID string    `db:"screening_id" json:"screening_id"`
	Seats       SeatList  `db:"seats" json:"seats"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// BookingView is a booking joined with its screening title, as shown to
// the owner.
type BookingView struct {
	ID             string    `db:"id" json:"id"`
	ScreeningID    string    `db:"screening_id" json:"screening_id"`
	ScreeningTitle string    `db:"screening_title" json:"screening_title"`
	Seats          SeatList  `db:"seats" json:"seats"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// AdminBookingView additionally resolves the owner's identity.
type AdminBookingView struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	ScreeningID    string    `db:"screening_id" json:"screening_id"`
	ScreeningTitle string    `db:"screening_title" json:"screening_title"`
	Seats          SeatList  `db:"seats" json:"seats"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
