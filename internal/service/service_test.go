package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/gold-cinema/internal/database"
	"github.com/iliyamo/gold-cinema/internal/model"
	"github.com/iliyamo/gold-cinema/internal/queue"
	"github.com/iliyamo/gold-cinema/internal/repository"
	"github.com/iliyamo/gold-cinema/internal/service"
	"github.com/iliyamo/gold-cinema/internal/utils"
)

type fixture struct {
	db         *sqlx.DB
	users      *repository.UserRepo
	screenings *repository.ScreeningRepo
	issuer     *utils.TokenIssuer
	auth       *service.AuthService
	bookings   *service.BookingService
	events     *recordingPublisher
	clock      *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingCreatedEvent
	err    error
}

func (p *recordingPublisher) PublishBookingCreated(_ context.Context, ev queue.BookingCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	issuer, err := utils.NewTokenIssuer(utils.TokenConfig{Secret: "service-test-secret", TTL: 8 * time.Hour})
	require.NoError(t, err)

	f := &fixture{
		db:         db,
		users:      repository.NewUserRepo(db),
		screenings: repository.NewScreeningRepo(db),
		issuer:     issuer,
		events:     &recordingPublisher{},
		clock:      &fakeClock{now: time.Date(2026, 6, 1, 19, 30, 0, 0, time.UTC)},
	}
	f.auth = service.NewAuthService(f.users, utils.NewPasswordHasher(bcrypt.MinCost), issuer)
	f.bookings = service.NewBookingService(repository.NewBookingRepo(db), f.screenings,
		service.WithPublisher(f.events),
		service.WithClock(f.clock.Now),
	)
	return f
}

func (f *fixture) screening(t *testing.T, title string) string {
	t.Helper()
	id, err := f.screenings.Upsert(context.Background(), model.Screening{Title: title, Category: "Movie", DurationMin: 120})
	require.NoError(t, err)
	return id
}

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	require.ErrorIs(t, err, service.ErrValidation)
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, field, verr.Field)
}
