// Package service holds the application's use cases: account registration
// and login, and the booking ledger. Handlers translate its errors into
// HTTP responses.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/gold-cinema/internal/model"
	"github.com/iliyamo/gold-cinema/internal/repository"
	"github.com/iliyamo/gold-cinema/internal/utils"
)

// UserStore is the credential store used by AuthService.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByIdentity(ctx context.Context, identity string) (model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
}

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// Issuer signs access tokens.
type Issuer interface {
	Issue(userID, username, role string) (utils.AccessToken, error)
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      model.User
}

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	users  UserStore
	hasher Hasher
	issuer Issuer
	now    func() time.Time

	// dummyHash keeps the cost of a failed lookup close to that of a wrong
	// password.
	dummyHash string
}

// NewAuthService wires the auth use cases.
func NewAuthService(users UserStore, hasher Hasher, issuer Issuer) *AuthService {
	dummy, _ := hasher.Hash("gold-cinema-placeholder")
	return &AuthService{users: users, hasher: hasher, issuer: issuer, now: time.Now, dummyHash: dummy}
}

// Register creates a user with role "user" and returns its id. Every field
// is required; whitespace is only trimmed for the emptiness check and the
// values are stored exactly as given.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (string, error) {
	switch {
	case strings.TrimSpace(email) == "":
		return "", invalid("email", "is required")
	case strings.TrimSpace(username) == "":
		return "", invalid("username", "is required")
	case password == "":
		return "", invalid("password", "is required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return "", invalid("password", "must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}
	return u.ID, nil
}

// Login verifies the password of the account whose username or email
// equals identity and issues a token carrying its id, username and role.
func (s *AuthService) Login(ctx context.Context, identity, password string) (LoginResult, error) {
	if identity == "" {
		return LoginResult{}, invalid("usernameOrEmail", "is required")
	}
	if password == "" {
		return LoginResult{}, invalid("password", "is required")
	}

	u, err := s.users.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(s.dummyHash, password)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	tok, err := s.issuer.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	u.PasswordHash = ""
	return LoginResult{Token: tok.Token, ExpiresAt: tok.Exp, User: u}, nil
}

// ListUsers returns every account, newest first, without password hashes.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListAll(ctx)
}
