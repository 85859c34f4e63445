package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/gold-cinema/internal/model"
)

// ScreeningRepo is the read side of the catalog. Upsert exists only for
// the seed command.
type ScreeningRepo struct{ db *sqlx.DB }

func NewScreeningRepo(db *sqlx.DB) *ScreeningRepo { return &ScreeningRepo{db: db} }

const screeningColumns = `id, title, category, description, poster, duration_min`

// List returns the whole catalog ordered by title.
func (r *ScreeningRepo) List(ctx context.Context) ([]model.Screening, error) {
	out := make([]model.Screening, 0)
	if err := r.db.SelectContext(ctx, &out, `SELECT `+screeningColumns+` FROM screenings ORDER BY title`); err != nil {
		return nil, fmt.Errorf("list screenings: %w", err)
	}
	return out, nil
}

// GetByID fetches one screening.
func (r *ScreeningRepo) GetByID(ctx context.Context, id string) (model.Screening, error) {
	var s model.Screening
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`SELECT `+screeningColumns+` FROM screenings WHERE id = ? LIMIT 1`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Screening{}, ErrScreeningNotFound
	}
	if err != nil {
		return model.Screening{}, fmt.Errorf("get screening: %w", err)
	}
	return s, nil
}

// Upsert inserts s unless a screening with the same title exists, and
// returns the id of the stored row. Titles are unique, so a concurrent
// insert of the same title resolves to the existing row.
func (r *ScreeningRepo) Upsert(ctx context.Context, s model.Screening) (string, error) {
	if id, err := r.idByTitle(ctx, s.Title); err == nil {
		return id, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("lookup screening: %w", err)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO screenings (`+screeningColumns+`)
		 VALUES (:id, :title, :category, :description, :poster, :duration_min)`, s)
	if err != nil {
		if isUniqueViolation(err) {
			return r.idByTitle(ctx, s.Title)
		}
		return "", fmt.Errorf("insert screening: %w", err)
	}
	return s.ID, nil
}

func (r *ScreeningRepo) idByTitle(ctx context.Context, title string) (string, error) {
	var id string
	err := r.db.GetContext(ctx, &id, r.db.Rebind(`SELECT id FROM screenings WHERE title = ? LIMIT 1`), title)
	return id, err
}
