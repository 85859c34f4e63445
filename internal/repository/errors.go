// Package repository contains data access logic for users, screenings and
// bookings. Errors that higher layers must tell apart are defined here as
// sentinel values or typed errors; everything else is wrapped storage
// failure.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicateIdentity matches any *ConstraintViolation raised by a user
// insert. Handlers translate it into a 400 response.
var ErrDuplicateIdentity = errors.New("duplicate identity")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrScreeningNotFound is returned when a screening id is unknown.
var ErrScreeningNotFound = errors.New("screening not found")

// ErrBookingNotFound is returned when a booking does not exist or belongs
// to another user.
var ErrBookingNotFound = errors.New("booking not found")

// ConstraintViolation reports which uniqueness constraint rejected a write.
// Field is "email", "username", or empty when it could not be resolved.
type ConstraintViolation struct {
	Field string
	err   error
}

func (e *ConstraintViolation) Error() string {
	if e.Field == "" {
		return "email or username already exists"
	}
	return e.Field + " already exists"
}

// Is makes errors.Is(err, ErrDuplicateIdentity) hold.
func (e *ConstraintViolation) Is(target error) bool { return target == ErrDuplicateIdentity }

// Unwrap exposes the driver error for logging.
func (e *ConstraintViolation) Unwrap() error { return e.err }

// isUniqueViolation inspects the driver's typed error: MySQL 1062,
// Postgres SQLSTATE 23505, SQLite SQLITE_CONSTRAINT_UNIQUE/PRIMARYKEY.
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT:
			return true
		}
	}
	return false
}

// isForeignKeyViolation is the foreign-key counterpart: MySQL 1452,
// Postgres 23503, SQLite SQLITE_CONSTRAINT_FOREIGNKEY.
func isForeignKeyViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1452
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}
