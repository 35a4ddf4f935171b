package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/courtday/courtday/internal/api"
	"github.com/courtday/courtday/internal/eligibility"
	"github.com/courtday/courtday/internal/gateway"
	"github.com/courtday/courtday/internal/leagues"
	"github.com/courtday/courtday/internal/matches"
	"github.com/courtday/courtday/internal/memberships"
	"github.com/courtday/courtday/internal/notify"
	"github.com/courtday/courtday/internal/participation"
	"github.com/courtday/courtday/internal/rotation"
	"github.com/courtday/courtday/internal/schedule"
)

// Services holds the wired app layer plus the shared infrastructure handles
// the server needs.
type Services struct {
	Handler           *api.Handler
	ConnectionManager *gateway.ConnectionManager
	EventConsumer     *gateway.EventConsumer
	Publisher         notify.Publisher
	Schedule          *schedule.App
}

func setupServices(pool *pgxpool.Pool, config *Config) (*Services, error) {
	clock := clockwork.NewRealClock()

	catalogue, err := rotation.LoadCatalogue(config.Rotations.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rotation catalogue: %w", err)
	}
	log.Info().Int("patterns", catalogue.Size()).Str("path", config.Rotations.Path).Msg("loaded rotation catalogue")

	publisher, err := setupPublisher(config)
	if err != nil {
		return nil, err
	}

	// Repository layer → app layer, bottom-up.
	leaguesRepo := leagues.NewRepository(pool)
	scheduleRepo := schedule.NewRepository(pool)
	participationRepo := participation.NewRepository(pool)
	matchesRepo := matches.NewRepository(pool)
	membershipsRepo := memberships.NewRepository(pool)

	leaguesApp := leagues.NewApp(leaguesRepo, clock)
	scheduleApp := schedule.NewApp(scheduleRepo, leaguesRepo, pool, clock, publisher)
	matchesApp := matches.NewApp(matchesRepo, scheduleRepo, catalogue, pool, clock)
	participationApp := participation.NewApp(participationRepo, scheduleRepo, matchesApp, pool, clock)
	eligibilityApp := eligibility.NewApp(leaguesRepo, scheduleRepo, membershipsRepo, participationRepo, participationApp, clock)

	handler := api.NewHandler(leaguesApp, scheduleApp, eligibilityApp, participationApp, matchesApp)

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())

	var consumer *gateway.EventConsumer
	if config.NATS.Enabled {
		consumerCfg := gateway.DefaultConsumerConfig()
		consumerCfg.URL = config.NATS.URL
		consumer, err = gateway.NewEventConsumer(cm, consumerCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create event consumer: %w", err)
		}
	}

	return &Services{
		Handler:           handler,
		ConnectionManager: cm,
		EventConsumer:     consumer,
		Publisher:         publisher,
		Schedule:          scheduleApp,
	}, nil
}

func setupPublisher(config *Config) (notify.Publisher, error) {
	if !config.NATS.Enabled {
		log.Info().Msg("NATS disabled, logging notifications instead")
		return notify.NewLogPublisher(), nil
	}

	cfg := notify.DefaultJetStreamConfig()
	cfg.URL = config.NATS.URL
	publisher, err := notify.NewJetStreamPublisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream publisher: %w", err)
	}
	return publisher, nil
}
