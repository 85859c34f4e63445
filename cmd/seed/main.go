package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/gold-cinema/internal/config"
	"github.com/iliyamo/gold-cinema/internal/database"
	"github.com/iliyamo/gold-cinema/internal/logger"
	"github.com/iliyamo/gold-cinema/internal/repository"
	"github.com/iliyamo/gold-cinema/internal/seed"
	"github.com/iliyamo/gold-cinema/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	lg := logger.New(logger.Config{Development: cfg.IsDevelopment(), Level: cfg.LogLevel})

	db, err := database.Open(cfg.DB)
	if err != nil {
		lg.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		lg.Fatal().Err(err).Msg("migrate")
	}
	if _, err := seed.Screenings(ctx, repository.NewScreeningRepo(db), lg); err != nil {
		lg.Fatal().Err(err).Msg("seed catalog")
	}
	hasher := utils.NewPasswordHasher(cfg.BcryptCost)
	if _, err := seed.Admin(ctx, repository.NewUserRepo(db), hasher, cfg.Admin, lg); err != nil {
		lg.Fatal().Err(err).Msg("seed admin")
	}
	lg.Info().Msg("seed complete")
}
