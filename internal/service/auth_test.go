package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gold-cinema/internal/model"
	"github.com/iliyamo/gold-cinema/internal/repository"
	"github.com/iliyamo/gold-cinema/internal/service"
)

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.auth.Register(ctx, "alice@x.com", "alice", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	for _, identity := range []string{"alice", "alice@x.com"} {
		res, err := f.auth.Login(ctx, identity, "pw123")
		require.NoError(t, err, identity)
		assert.Equal(t, id, res.User.ID)
		assert.Equal(t, "alice", res.User.Username)
		assert.Equal(t, model.RoleUser, res.User.Role)
		assert.Empty(t, res.User.PasswordHash)

		claims, err := f.issuer.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, id, claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, model.RoleUser, claims.Role)
		assert.True(t, res.ExpiresAt.Equal(claims.ExpiresAt.Time))
	}
}

func TestRegister_StoresHashNotPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, "alice@x.com", "alice", "pw123")
	require.NoError(t, err)

	u, err := f.users.FindByIdentity(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", u.PasswordHash)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		email, username, password, field string
	}{
		{"", "alice", "pw", "email"},
		{"   ", "alice", "pw", "email"},
		{"a@x.com", "", "pw", "username"},
		{"a@x.com", "\t", "pw", "username"},
		{"a@x.com", "alice", "", "password"},
	}
	for _, tc := range cases {
		_, err := f.auth.Register(ctx, tc.email, tc.username, tc.password)
		requireValidation(t, err, tc.field)
	}

	all, err := f.users.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRegister_Duplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	firstID, err := f.auth.Register(ctx, "alice@x.com", "alice", "pw123")
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, "alice@x.com", "alice2", "other")
	require.ErrorIs(t, err, repository.ErrDuplicateIdentity)
	_, err = f.auth.Register(ctx, "alice2@x.com", "alice", "other")
	require.ErrorIs(t, err, repository.ErrDuplicateIdentity)

	res, err := f.auth.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, firstID, res.User.ID)
	_, err = f.auth.Login(ctx, "alice", "other")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegister_ConcurrentSameIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 6
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			_, err := f.auth.Register(ctx, fmt.Sprintf("dave%d@x.com", i), "dave", "pw")
			errs <- err
		}(i)
	}
	var ok int
	for i := 0; i < n; i++ {
		err := <-errs
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, repository.ErrDuplicateIdentity)
	}
	assert.Equal(t, 1, ok)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, "alice@x.com", "alice", "pw123")
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "nobody", "pw123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "ALICE", "pw123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "", "pw123")
	requireValidation(t, err, "usernameOrEmail")
	_, err = f.auth.Login(ctx, "alice", "")
	requireValidation(t, err, "password")
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, "alice@x.com", "alice", "pw123")
	require.NoError(t, err)

	users, err := f.auth.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.Empty(t, users[0].PasswordHash)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), "alice@x.com", "alice", strings.Repeat("p", 73))
	requireValidation(t, err, "password")

	_, err = f.users.FindByIdentity(context.Background(), "alice")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

type brokenHasher struct{}

func (brokenHasher) Hash(string) (string, error) { return "", errors.New("entropy source unavailable") }
func (brokenHasher) Verify(string, string) bool  { return false }

func TestRegister_HashFailureIsNotValidation(t *testing.T) {
	f := newFixture(t)
	auth := service.NewAuthService(f.users, brokenHasher{}, f.issuer)

	_, err := auth.Register(context.Background(), "alice@x.com", "alice", "pw123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrValidation)
	assert.Contains(t, err.Error(), "entropy source unavailable")
}
