package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/gold-cinema/internal/config"
	"github.com/iliyamo/gold-cinema/internal/database"
	"github.com/iliyamo/gold-cinema/internal/handler"
	"github.com/iliyamo/gold-cinema/internal/logger"
	"github.com/iliyamo/gold-cinema/internal/middleware"
	"github.com/iliyamo/gold-cinema/internal/repository"
	"github.com/iliyamo/gold-cinema/internal/router"
	"github.com/iliyamo/gold-cinema/internal/service"
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

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		lg.Fatal().Err(err).Msg("migrate")
	}

	issuer, err := utils.NewTokenIssuer(utils.TokenConfig{Secret: cfg.JWTSecret, TTL: cfg.AccessTTL, Issuer: cfg.JWTIssuer})
	if err != nil {
		lg.Fatal().Err(err).Msg("token issuer")
	}
	if cfg.UsesDevSecret() {
		lg.Warn().Msg("JWT_SECRET is not set, signing tokens with the built-in development secret")
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		lg.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unavailable, rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.RabbitURL != "" {
		publisher = service.NewAMQPPublisher(cfg.RabbitURL, lg)
	}

	users := repository.NewUserRepo(db)
	screenings := repository.NewScreeningRepo(db)
	auth := service.NewAuthService(users, utils.NewPasswordHasher(cfg.BcryptCost), issuer)
	bookings := service.NewBookingService(repository.NewBookingRepo(db), screenings,
		service.WithPublisher(publisher),
		service.WithLogger(lg),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(lg))

	router.RegisterRoutes(e, router.Deps{
		Verifier:  issuer,
		Auth:      handler.NewAuthHandler(auth, lg),
		Bookings:  handler.NewBookingHandler(bookings, lg),
		Admin:     handler.NewAdminHandler(auth, bookings, lg),
		Catalog:   handler.NewCatalogHandler(screenings, lg),
		RateLimit: middleware.NewTokenBucket(cfg.RateLimit, rdb, lg),
		Cache:     middleware.NewRedisCache(cfg.Cache, rdb, lg),
	})

	go func() {
		addr := ":" + cfg.Port
		lg.Info().Str("addr", addr).Str("env", cfg.Env).Str("db", cfg.DB.Driver).Dur("access_ttl", issuer.TTL()).Msg("Gold Cinema API listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("shutdown")
	}
}
