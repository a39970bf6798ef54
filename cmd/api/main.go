package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/natours/tour-booking-api/internal/api"
	"github.com/natours/tour-booking-api/internal/infrastructure/config"
	mongodb "github.com/natours/tour-booking-api/internal/infrastructure/db/mongo"
	redisdb "github.com/natours/tour-booking-api/internal/infrastructure/db/redis"
	"github.com/natours/tour-booking-api/internal/infrastructure/mail"
	"github.com/natours/tour-booking-api/internal/infrastructure/queue"
	"github.com/natours/tour-booking-api/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: os.Getenv("ENV") != "production"})
	cfg := config.Load(log)
	log = logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Development()})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("MongoDB disconnect error")
		}
	}()

	for name, idx := range map[string]interface{ EnsureIndexes(context.Context) error }{
		"tours":   mongodb.NewTourRepository(db),
		"users":   mongodb.NewUserRepository(db),
		"reviews": mongodb.NewReviewRepository(db),
	} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("Failed to create indexes")
		}
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("Redis close error")
		}
	}()

	// --- Mail: welcome mail leaves the request path via the dispatcher ---
	mailer := mail.NewMailer(cfg.Mail.APIKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
	dispatcher := queue.NewMailDispatcher(0, mailer, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, cfg, log, dispatcher)

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown error")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server error")
	}
}
