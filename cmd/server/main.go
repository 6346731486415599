// Command server runs the tutor admin HTTP API.
//
// @title        Tutor Admin API
// @version      1.0
// @description  Administrative API for teachers and their courses.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/tbourn/tutor-admin-backend/docs"
	"github.com/tbourn/tutor-admin-backend/internal/config"
	httpapi "github.com/tbourn/tutor-admin-backend/internal/http"
	"github.com/tbourn/tutor-admin-backend/internal/observability"
	"github.com/tbourn/tutor-admin-backend/internal/repo"
	"github.com/tbourn/tutor-admin-backend/internal/scheduler"
	"github.com/tbourn/tutor-admin-backend/internal/state"
	"github.com/tbourn/tutor-admin-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.ConfigureLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Setup(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}

	db, err := repo.Open(cfg.DB, cfg.OTEL.Enabled)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	var purger *scheduler.IdempotencyPurger
	if cfg.IdempotencyPurgeSpec != "" {
		purger = scheduler.NewIdempotencyPurger(db, cfg.IdempotencyPurgeSpec)
		if err := purger.Start(); err != nil {
			log.Fatal().Err(err).Str("spec", cfg.IdempotencyPurgeSpec).Msg("schedule idempotency purge")
		}
	}

	st := state.New(db, cfg.HealthMessage)
	r := gin.New()
	httpapi.RegisterRoutes(r, st, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if purger != nil {
		if err := purger.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown")
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("bye")
}
