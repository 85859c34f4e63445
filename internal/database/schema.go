package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	name string
	up   func(d dialect) []string
}

// dialect carries the few DDL fragments that differ between drivers.
type dialect struct {
	timestamp string // column type for instants
	binary    string // collation suffix making identity columns case-sensitive
}

func dialectFor(driverName string) dialect {
	switch driverName {
	case "mysql":
		return dialect{timestamp: "DATETIME(6)", binary: " COLLATE utf8mb4_bin"}
	case "pgx", "postgres":
		return dialect{timestamp: "TIMESTAMPTZ"}
	default:
		return dialect{timestamp: "DATETIME"}
	}
}

var migrations = []migration{
	{
		name: "001_create_users",
		up: func(d dialect) []string {
			return []string{fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS users (
					id VARCHAR(36) NOT NULL PRIMARY KEY,
					email VARCHAR(255)%[2]s NOT NULL,
					username VARCHAR(191)%[2]s NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					role VARCHAR(16) NOT NULL DEFAULT 'user',
					created_at %[1]s NOT NULL,
					CONSTRAINT uq_users_email UNIQUE (email),
					CONSTRAINT uq_users_username UNIQUE (username)
				)`, d.timestamp, d.binary)}
		},
	},
	{
		name: "002_create_screenings",
		up: func(d dialect) []string {
			return []string{`
				CREATE TABLE IF NOT EXISTS screenings (
					id VARCHAR(36) NOT NULL PRIMARY KEY,
					title VARCHAR(255) NOT NULL,
					category VARCHAR(64) NOT NULL,
					description TEXT NOT NULL,
					poster TEXT NOT NULL,
					duration_min INTEGER NOT NULL,
					CONSTRAINT uq_screenings_title UNIQUE (title)
				)`}
		},
	},
	{
		name: "003_create_bookings",
		up: func(d dialect) []string {
			return []string{
				fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS bookings (
					id VARCHAR(36) NOT NULL PRIMARY KEY,
					user_id VARCHAR(36) NOT NULL,
					screening_id VARCHAR(36) NOT NULL,
					seats TEXT NOT NULL,
					created_at %s NOT NULL,
					CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
					CONSTRAINT fk_bookings_screening FOREIGN KEY (screening_id) REFERENCES screenings(id)
				)`, d.timestamp),
				`CREATE INDEX idx_bookings_user_created ON bookings (user_id, created_at)`,
				`CREATE INDEX idx_bookings_created ON bookings (created_at)`,
			}
		},
	},
}

// Migrate creates the schema. Each migration runs once and is recorded in
// schema_migrations.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	d := dialectFor(db.DriverName())
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(191) NOT NULL PRIMARY KEY,
			applied_at %s NOT NULL
		)`, d.timestamp)); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	for _, m := range migrations {
		if err := runMigration(ctx, db, d, m); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}
	return nil
}

func runMigration(ctx context.Context, db *sqlx.DB, d dialect, m migration) error {
	var count int
	if err := db.GetContext(ctx, &count, db.Rebind(`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`), m.name); err != nil {
		return err
	}
	if count > 0 {
		return nil // already applied
	}
	for _, stmt := range m.up(d) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	_, err := db.ExecContext(ctx, db.Rebind(`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`),
		m.name, time.Now().UTC())
	return err
}
