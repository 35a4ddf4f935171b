package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	config, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}

	pool, err := setupDatabase(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer pool.Close()

	services, err := setupServices(pool, config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up services")
	}
	defer func() {
		if err := services.Publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close publisher")
		}
	}()

	go services.ConnectionManager.Start(ctx)

	if services.EventConsumer != nil {
		go func() {
			if err := services.EventConsumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("event consumer stopped with error")
			}
		}()
		defer func() {
			if err := services.EventConsumer.Stop(); err != nil {
				log.Error().Err(err).Msg("failed to stop event consumer")
			}
		}()
	}

	// Expand occurrence windows for all active leagues on startup, then
	// daily.
	go runExpansionLoop(ctx, services)

	server := setupServer(services)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func runExpansionLoop(ctx context.Context, services *Services) {
	if err := services.Schedule.ExpandAllLeagues(ctx); err != nil {
		log.Error().Err(err).Msg("startup expansion failed")
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := services.Schedule.ExpandAllLeagues(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled expansion failed")
			}
		}
	}
}
