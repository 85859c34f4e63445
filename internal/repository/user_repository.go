package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/gold-cinema/internal/model"
)

// UserRepo is the credential store. Uniqueness of email and username is
// enforced by the table's UNIQUE constraints, never by a prior read.
type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts u. A uniqueness violation is returned as
// *ConstraintViolation naming the conflicting field.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO users (id, email, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return r.duplicate(ctx, u, err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// duplicate wraps a uniqueness violation. Field stays empty when the
// lookup cannot tell which identity clashed.
func (r *UserRepo) duplicate(ctx context.Context, u *model.User, err error) *ConstraintViolation {
	field, _ := r.conflictingField(ctx, u)
	return &ConstraintViolation{Field: field, err: err}
}

// conflictingField resolves which identity already exists after the store
// rejected an insert. The conflicting row is committed, so it is visible.
func (r *UserRepo) conflictingField(ctx context.Context, u *model.User) (string, error) {
	var counts struct {
		Email    int `db:"email_count"`
		Username int `db:"username_count"`
	}
	err := r.db.GetContext(ctx, &counts, r.db.Rebind(
		`SELECT (SELECT COUNT(*) FROM users WHERE email = ?) AS email_count,
		        (SELECT COUNT(*) FROM users WHERE username = ?) AS username_count`),
		u.Email, u.Username)
	if err != nil {
		return "", err
	}
	switch {
	case counts.Email > 0:
		return "email", nil
	case counts.Username > 0:
		return "username", nil
	}
	return "", nil
}

const userColumns = `id, email, username, password_hash, role, created_at`

// FindByIdentity fetches the user whose username or email equals
// identity exactly. A username match wins over an email match.
func (r *UserRepo) FindByIdentity(ctx context.Context, identity string) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, r.db.Rebind(
		`SELECT `+userColumns+` FROM users
		 WHERE username = ? OR email = ?
		 ORDER BY CASE WHEN username = ? THEN 0 ELSE 1 END
		 LIMIT 1`),
		identity, identity, identity)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// ExistsByUsername is used by the seed command to keep admin creation
// idempotent.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM users WHERE username = ?`), username); err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// ListAll returns every user, newest first. Password hashes are not read.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0)
	err := r.db.SelectContext(ctx, &users,
		`SELECT id, email, username, role, created_at FROM users ORDER BY created_at DESC, username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
