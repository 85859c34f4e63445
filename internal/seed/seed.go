// Package seed loads the starter catalog and the administrator account.
// Running it repeatedly leaves the database unchanged after the first run.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/gold-cinema/internal/config"
	"github.com/iliyamo/gold-cinema/internal/model"
	"github.com/iliyamo/gold-cinema/internal/repository"
)

// ScreeningUpserter stores catalog entries keyed by title.
type ScreeningUpserter interface {
	Upsert(ctx context.Context, s model.Screening) (string, error)
}

// AdminStore creates the administrator.
type AdminStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u *model.User) error
}

// Hasher hashes the administrator password.
type Hasher interface {
	Hash(plain string) (string, error)
}

// Catalog is the starter list of movies and anime.
func Catalog() []model.Screening {
	return []model.Screening{
		{Title: "Oppenheimer", Category: "Movie", Description: "A historical drama about J. Robert Oppenheimer and the atomic bomb.", Poster: "https://m.media-amazon.com/images/M/MV5B...Oppenheimer.jpg", DurationMin: 180},
		{Title: "The Batman", Category: "Movie", Description: "Dark and gritty detective story set in Gotham.", Poster: "https://m.media-amazon.com/images/M/MV5B...TheBatman.jpg", DurationMin: 155},
		{Title: "Attack on Titan", Category: "Anime", Description: "Humanity fights titans in this dark fantasy anime.", Poster: "https://m.media-amazon.com/images/M/MV5B...AOT.jpg", DurationMin: 25},
		{Title: "Demon Slayer", Category: "Anime", Description: "A boy battles demons to save his sister and humanity.", Poster: "https://m.media-amazon.com/images/M/MV5B...DemonSlayer.jpg", DurationMin: 24},
		{Title: "Spider-Man: Across the Spider-Verse", Category: "Movie", Description: "Miles Morales returns for a visually stunning multiverse adventure.", Poster: "https://m.media-amazon.com/images/M/SpiderVerse.jpg", DurationMin: 140},
		{Title: "Avatar: The Way of Water", Category: "Movie", Description: "Continuing the epic saga of Pandora with breathtaking underwater visuals.", Poster: "https://m.media-amazon.com/images/M/AvatarWayOfWater.jpg", DurationMin: 192},
		{Title: "Everything Everywhere All at Once", Category: "Movie", Description: "A wildly inventive film about family, identity, and multiverse chaos.", Poster: "https://m.media-amazon.com/images/M/EverythingEverywhere.jpg", DurationMin: 140},
		{Title: "Spirited Away", Category: "Anime", Description: "A young girl's journey through a mysterious spirit world (Studio Ghibli classic).", Poster: "https://m.media-amazon.com/images/M/SpiritedAway.jpg", DurationMin: 125},
		{Title: "My Neighbor Totoro", Category: "Anime", Description: "A gentle, magical tale of two sisters and forest spirits.", Poster: "https://m.media-amazon.com/images/M/Totoro.jpg", DurationMin: 86},
		{Title: "Jujutsu Kaisen 0", Category: "Anime", Description: "A prequel movie exploring the origins and dark battles of the Jujutsu world.", Poster: "https://m.media-amazon.com/images/M/JujutsuKaisen0.jpg", DurationMin: 105},
		{Title: "Parasite", Category: "Movie", Description: "A darkly comic thriller about class divisions that spirals into chaos.", Poster: "https://m.media-amazon.com/images/M/Parasite.jpg", DurationMin: 132},
	}
}

// Screenings upserts the catalog and returns how many entries it holds.
func Screenings(ctx context.Context, repo ScreeningUpserter, logger zerolog.Logger) (int, error) {
	items := Catalog()
	for _, s := range items {
		if _, err := repo.Upsert(ctx, s); err != nil {
			return 0, fmt.Errorf("seed %q: %w", s.Title, err)
		}
	}
	logger.Info().Int("count", len(items)).Msg("catalog seeded")
	return len(items), nil
}

// Admin creates the administrator unless a user with its username exists.
// It reports whether an account was created.
func Admin(ctx context.Context, users AdminStore, hasher Hasher, admin config.AdminConfig, logger zerolog.Logger) (bool, error) {
	if admin.Username == "" || admin.Email == "" || admin.Password == "" {
		return false, errors.New("seed: admin username, email and password are required")
	}
	exists, err := users.ExistsByUsername(ctx, admin.Username)
	if err != nil {
		return false, err
	}
	if exists {
		logger.Info().Str("username", admin.Username).Msg("admin already present")
		return false, nil
	}
	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	err = users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Email:        admin.Email,
		Username:     admin.Username,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicateIdentity) {
		logger.Warn().Err(err).Msg("admin identity already taken")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	logger.Info().Str("username", admin.Username).Msg("admin created")
	return true, nil
}
