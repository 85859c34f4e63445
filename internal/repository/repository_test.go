package repository_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gold-cinema/internal/database"
	"github.com/iliyamo/gold-cinema/internal/model"
	"github.com/iliyamo/gold-cinema/internal/repository"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func newUser(email, username string) *model.User {
	return &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$04$placeholderplaceholderplaceholderplaceholderpla",
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestUserRepo_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepo(newTestDB(t))

	alice := newUser("alice@x.com", "alice")
	require.NoError(t, users.Create(ctx, alice))

	byName, err := users.FindByIdentity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)
	assert.Equal(t, alice.PasswordHash, byName.PasswordHash)
	assert.Equal(t, model.RoleUser, byName.Role)

	byEmail, err := users.FindByIdentity(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	assert.Equal(t, "alice@x.com", byEmail.Email)
}

func TestUserRepo_FindIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepo(newTestDB(t))
	require.NoError(t, users.Create(ctx, newUser("Alice@X.com", "Alice")))

	for _, identity := range []string{"alice", "ALICE", "alice@x.com", " Alice"} {
		_, err := users.FindByIdentity(ctx, identity)
		assert.ErrorIs(t, err, repository.ErrUserNotFound, identity)
	}
}

func TestUserRepo_UsernameMatchWins(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepo(newTestDB(t))

	// One account uses the other's username as its email address.
	first := newUser("bob", "robert")
	second := newUser("bob@x.com", "bob")
	require.NoError(t, users.Create(ctx, first))
	require.NoError(t, users.Create(ctx, second))

	got, err := users.FindByIdentity(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepo(newTestDB(t))

	first := newUser("alice@x.com", "alice")
	require.NoError(t, users.Create(ctx, first))

	err := users.Create(ctx, newUser("alice@x.com", "alice2"))
	require.ErrorIs(t, err, repository.ErrDuplicateIdentity)
	var cv *repository.ConstraintViolation
	require.True(t, errors.As(err, &cv))
	assert.Equal(t, "email", cv.Field)

	got, err := users.FindByIdentity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	_, err = users.FindByIdentity(ctx, "alice2")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepo(newTestDB(t))

	require.NoError(t, users.Create(ctx, newUser("alice@x.com", "alice")))
	err := users.Create(ctx, newUser("other@x.com", "alice"))

	var cv *repository.ConstraintViolation
	require.True(t, errors.As(err, &cv))
	assert.Equal(t, "username", cv.Field)
	assert.Equal(t, "username already exists", cv.Error())
}

func TestUserRepo_ConcurrentDuplicateRegistrations(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepo(newTestDB(t))

	const n = 8
	var (
		wg   sync.WaitGroup
		errs = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = users.Create(ctx, newUser(fmt.Sprintf("carol%d@x.com", i), "carol"))
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrDuplicateIdentity):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestUserRepo_ListAllOmitsHashes(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepo(newTestDB(t))

	older := newUser("a@x.com", "a")
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := newUser("b@x.com", "b")
	newer.CreatedAt = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, users.Create(ctx, older))
	require.NoError(t, users.Create(ctx, newer))

	all, err := users.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, older.ID, all[1].ID)
	for _, u := range all {
		assert.Empty(t, u.PasswordHash)
	}

	exists, err := users.ExistsByUsername(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = users.ExistsByUsername(ctx, "A")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestScreeningRepo_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	screenings := repository.NewScreeningRepo(newTestDB(t))

	s := model.Screening{Title: "Parasite", Category: "Movie", Description: "d", Poster: "p", DurationMin: 132}
	id1, err := screenings.Upsert(ctx, s)
	require.NoError(t, err)
	id2, err := screenings.Upsert(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	_, err = screenings.Upsert(ctx, model.Screening{Title: "Oppenheimer", Category: "Movie", DurationMin: 180})
	require.NoError(t, err)

	list, err := screenings.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Oppenheimer", list[0].Title)
	assert.Equal(t, "Parasite", list[1].Title)

	got, err := screenings.GetByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, 132, got.DurationMin)

	_, err = screenings.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrScreeningNotFound)
}

func TestBookingRepo_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := repository.NewUserRepo(db)
	screenings := repository.NewScreeningRepo(db)
	bookings := repository.NewBookingRepo(db)

	alice := newUser("alice@x.com", "alice")
	bob := newUser("bob@x.com", "bob")
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))
	sid, err := screenings.Upsert(ctx, model.Screening{Title: "Spirited Away", Category: "Anime", DurationMin: 125})
	require.NoError(t, err)

	base := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	first := &model.Booking{ID: uuid.NewString(), UserID: alice.ID, ScreeningID: sid, Seats: model.SeatList{"A1", "A2"}, CreatedAt: base}
	second := &model.Booking{ID: uuid.NewString(), UserID: alice.ID, ScreeningID: sid, Seats: model.SeatList{"C3"}, CreatedAt: base.Add(time.Minute)}
	other := &model.Booking{ID: uuid.NewString(), UserID: bob.ID, ScreeningID: sid, Seats: model.SeatList{"A1"}, CreatedAt: base.Add(2 * time.Minute)}
	for _, b := range []*model.Booking{first, second, other} {
		require.NoError(t, bookings.Create(ctx, b))
	}

	mine, err := bookings.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Equal(t, model.SeatList{"A1", "A2"}, mine[1].Seats)
	assert.Equal(t, "Spirited Away", mine[0].ScreeningTitle)
	assert.True(t, mine[1].CreatedAt.Equal(base))

	all, err := bookings.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID)
	assert.Equal(t, "bob", all[0].Username)
	assert.Equal(t, "bob@x.com", all[0].Email)
	assert.Equal(t, "Spirited Away", all[0].ScreeningTitle)

	got, err := bookings.GetByIDForUser(ctx, first.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeatList{"A1", "A2"}, got.Seats)

	_, err = bookings.GetByIDForUser(ctx, first.ID, bob.ID)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestBookingRepo_UnknownScreening(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := repository.NewUserRepo(db)
	alice := newUser("alice@x.com", "alice")
	require.NoError(t, users.Create(ctx, alice))

	err := repository.NewBookingRepo(db).Create(ctx, &model.Booking{
		ID: uuid.NewString(), UserID: alice.ID, ScreeningID: "nope", Seats: model.SeatList{"A1"}, CreatedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, repository.ErrScreeningNotFound)
}

func TestBookingRepo_EmptyList(t *testing.T) {
	got, err := repository.NewBookingRepo(newTestDB(t)).ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScreeningRepo_Search(t *testing.T) {
	ctx := context.Background()
	screenings := repository.NewScreeningRepo(newTestDB(t))
	for _, s := range []model.Screening{
		{Title: "Spirited Away", Category: "Anime", DurationMin: 125},
		{Title: "Spider-Man: Across the Spider-Verse", Category: "Movie", DurationMin: 140},
		{Title: "Parasite", Category: "Movie", DurationMin: 132},
		{Title: "Demon Slayer", Category: "Anime", DurationMin: 24},
	} {
		_, err := screenings.Upsert(ctx, s)
		require.NoError(t, err)
	}

	items, total, err := screenings.Search(ctx, repository.ScreeningSearchQuery{Title: "SPI", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Spider-Man: Across the Spider-Verse", items[0].Title)

	items, total, err = screenings.Search(ctx, repository.ScreeningSearchQuery{Category: "anime", Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Spirited Away", items[0].Title)

	items, total, err = screenings.Search(ctx, repository.ScreeningSearchQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, items, 4)
}

func TestScreeningRepo_SearchMatchesWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	screenings := repository.NewScreeningRepo(newTestDB(t))
	for _, title := range []string{"100% Wolf", "Parasite", "Up_Side!Down"} {
		_, err := screenings.Upsert(ctx, model.Screening{Title: title, Category: "Movie", DurationMin: 90})
		require.NoError(t, err)
	}

	cases := map[string][]string{
		"%":      {"100% Wolf"},
		"0%":     {"100% Wolf"},
		"_":      {"Up_Side!Down"},
		"p_s":    {"Up_Side!Down"},
		"e!d":    {"Up_Side!Down"},
		"a%e":    {},
		"paras_": {},
	}
	for title, want := range cases {
		items, total, err := screenings.Search(ctx, repository.ScreeningSearchQuery{Title: title})
		require.NoError(t, err, title)
		assert.EqualValues(t, len(want), total, title)
		got := make([]string, 0, len(items))
		for _, s := range items {
			got = append(got, s.Title)
		}
		assert.Equal(t, want, got, title)
	}
}

func TestScreeningRepo_SearchClampsPage(t *testing.T) {
	ctx := context.Background()
	screenings := repository.NewScreeningRepo(newTestDB(t))
	_, err := screenings.Upsert(ctx, model.Screening{Title: "Parasite", Category: "Movie", DurationMin: 132})
	require.NoError(t, err)

	items, total, err := screenings.Search(ctx, repository.ScreeningSearchQuery{Page: math.MaxInt, PageSize: math.MaxInt})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Empty(t, items)
}
