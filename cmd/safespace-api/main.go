// Command safespace-api runs the SafeSpace HTTP API: anonymous sessions,
// LLM-backed companion chat, and structured incident-report drafting.
//
// Startup order:
//  1. Load .env (optional) and typed configuration
//  2. Configure zerolog (level, pretty console in dev)
//  3. Initialize OpenTelemetry tracing (no-op unless enabled)
//  4. Open the database with bounded retry, then migrate
//  5. Build the Gemini client (fail-soft to a disabled generator)
//  6. Serve with graceful shutdown on SIGINT/SIGTERM
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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/safespace-id/safespace-backend/internal/config"
	httpapi "github.com/safespace-id/safespace-backend/internal/http"
	"github.com/safespace-id/safespace-backend/internal/llm"
	"github.com/safespace-id/safespace-backend/internal/observability"
	"github.com/safespace-id/safespace-backend/internal/repo"
	"github.com/safespace-id/safespace-backend/internal/sysutil"

	_ "github.com/safespace-id/safespace-backend/docs" // swagger registration
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// @title        SafeSpace API
// @version      1.0
// @description  Anonymous-session backend for companion chat and incident-report drafting.
// @BasePath     /api/v1
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging.
	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// Tracing (no-op when disabled).
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	// Database.
	db, err := openDB(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Warn().Err(err).Msg("gorm tracing plugin failed, continuing without it")
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// Language model. A missing key disables generation but keeps the API up:
	// sessions, history, and report submission all still work.
	var gen llm.Generator
	if cfg.LLM.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, generation disabled")
		gen = llm.Disabled{}
	} else {
		gemini, err := llm.NewGemini(ctx, cfg.LLM.APIKey, cfg.LLM.ChatModel)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client init failed")
		}
		gen = gemini
	}
	gen = llm.NewBreaker(gen, cfg.LLM.BreakerThreshold, cfg.LLM.BreakerCooldown)

	// Router.
	httpapi.Version = version
	r := gin.New()
	httpapi.RegisterRoutes(r, db, gen, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("version", version).
			Str("port", cfg.Port).
			Str("driver", cfg.DBDriver).
			Str("base_path", cfg.APIBasePath).
			Msg("safespace-api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("bye")
}

// openDB opens the configured database with bounded retry. Containerized
// Postgres often accepts connections a few seconds after the app starts, so
// each attempt backs off a little longer than the previous one.
func openDB(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	const attempts = 5

	open := func() (*gorm.DB, error) {
		if cfg.DBDriver == "postgres" {
			return repo.OpenPostgres(cfg.DBDSN)
		}
		return repo.OpenSQLite(cfg.DBPath)
	}

	var db *gorm.DB
	var err error
	for i := 1; i <= attempts; i++ {
		db, err = open()
		if err == nil {
			if err = repo.Ping(ctx, db); err == nil {
				return db, nil
			}
		}
		if i < attempts {
			wait := time.Duration(i) * time.Second
			log.Warn().Err(err).Int("attempt", i).Dur("retry_in", wait).Msg("database not ready")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, err
}
