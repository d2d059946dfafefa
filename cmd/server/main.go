package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/artifact"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/config"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/database"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/handler"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/middleware"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/policy"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/quote"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/repository"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	pol, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load pricing policy")
	}

	loader := artifact.NewLoader(cfg.BundlePath)
	// The service starts even if the bundle is broken; /health reports it
	// and quotes return 503 until an admin reload succeeds.
	if _, err := loader.Bundle(); err != nil {
		log.Error().Err(err).Msg("model bundle unavailable at startup")
	}

	var (
		pool  *pgxpool.Pool
		store service.QuoteStore
		db    handler.Pinger
	)
	if cfg.DBEnabled {
		pool = openDatabase(cfg)
		defer pool.Close()
		store = repository.NewQuoteRepository(pool)
		db = pool
	} else {
		log.Info().Msg("database disabled, quotes will not be persisted")
	}

	quotes := service.NewQuoteService(loader, quote.NewCalculator(pol), store, cfg.QuoteCacheTTL)
	reports := service.NewReportService(quotes)

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	handler.Routes{
		Quotes:  handler.NewQuoteHandler(quotes, reports),
		Catalog: handler.NewCatalogHandler(),
		Health:  handler.NewHealthHandler(loader, db),
		Admin:   handler.NewAdminHandler(loader),
	}.Register(router, middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
	handler.SetupSwagger(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("bundle", cfg.BundlePath).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func openDatabase(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedCatalog(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed catalog")
		}
	} else if version, err := database.CheckSchema(cfg.DatabaseURL()); err != nil {
		log.Warn().Err(err).Uint("version", version).Msg("database schema not current")
	}
	return pool
}
