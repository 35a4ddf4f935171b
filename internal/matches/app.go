package matches

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/courtday/courtday/internal/models"
	"github.com/courtday/courtday/internal/rotation"
	"github.com/courtday/courtday/internal/sqlutil"
)

// SessionStore defines what the matches app needs from the schedule layer.
type SessionStore interface {
	GetSession(ctx context.Context, id uuid.UUID) (*models.LeagueSession, error)
}

// App generates round-robin matches from curated rotation patterns and
// regenerates them when the roster changes. It never invents a rotation: a
// missing pattern aborts generation.
type App struct {
	repo      *Repository
	sessions  SessionStore
	catalogue *rotation.Catalogue
	pool      *pgxpool.Pool
	clock     clockwork.Clock
}

// NewApp creates a new matches App.
func NewApp(repo *Repository, sessions SessionStore, catalogue *rotation.Catalogue, pool *pgxpool.Pool, clock clockwork.Clock) *App {
	return &App{
		repo:      repo,
		sessions:  sessions,
		catalogue: catalogue,
		pool:      pool,
		clock:     clock,
	}
}

// Generate builds the full round/court matrix for an occurrence from the
// ordered attendee roster, replacing any still-pending round-robin matches.
// Existing matches in any other format or state abort the generation.
func (a *App) Generate(ctx context.Context, occ *models.SessionOccurrence, roster []models.LeagueAttendance) ([]GeneratedMatch, error) {
	generated, err := a.plan(ctx, occ, roster, 1)
	if err != nil {
		return nil, err
	}

	err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		txRepo := a.repo.WithTx(tx)
		existing, err := txRepo.ListMatchesByOccurrence(ctx, occ.ID)
		if err != nil {
			return err
		}
		if len(existing) > 0 && !Regenerable(existing) {
			return fmt.Errorf("occurrence %s has matches that are not pending round-robin output", occ.ID)
		}
		if err := txRepo.DeletePendingRoundRobin(ctx, occ.ID); err != nil {
			return err
		}
		return txRepo.InsertGenerated(ctx, generated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate matches: %w", err)
	}

	log.Info().
		Str("occurrence_id", occ.ID.String()).
		Int("matches", len(generated)).
		Int("players", len(roster)).
		Msg("generated round-robin matches")
	return generated, nil
}

// ListByOccurrence retrieves the matches for an occurrence ordered by round
// and court.
func (a *App) ListByOccurrence(ctx context.Context, occurrenceID uuid.UUID) ([]models.Match, error) {
	list, err := a.repo.ListMatchesByOccurrence(ctx, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return list, nil
}

// RegenerateForOccurrence rebuilds the whole matrix from a changed roster
// inside the caller's transaction. A set containing anything other than
// pending round-robin matches is left completely untouched; an occurrence
// with no matches yet stays empty.
func (a *App) RegenerateForOccurrence(ctx context.Context, tx pgx.Tx, occ *models.SessionOccurrence, roster []models.LeagueAttendance) error {
	txRepo := a.repo.WithTx(tx)
	existing, err := txRepo.ListMatchesByOccurrence(ctx, occ.ID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}
	if !Regenerable(existing) {
		log.Debug().
			Str("occurrence_id", occ.ID.String()).
			Msg("skipping regeneration: matches are not pending round-robin output")
		return nil
	}

	generated, err := a.plan(ctx, occ, roster, 1)
	if err != nil {
		return err
	}
	if err := txRepo.DeletePendingRoundRobin(ctx, occ.ID); err != nil {
		return err
	}
	if err := txRepo.InsertGenerated(ctx, generated); err != nil {
		return err
	}

	log.Info().
		Str("occurrence_id", occ.ID.String()).
		Int("matches", len(generated)).
		Msg("regenerated matches for reduced roster")
	return nil
}

// RegenerateFromRound rebuilds only rounds >= fromRound inside the caller's
// transaction, preserving completed and in-progress rounds. Non-round-robin
// match sets are never touched.
func (a *App) RegenerateFromRound(ctx context.Context, tx pgx.Tx, occ *models.SessionOccurrence, roster []models.LeagueAttendance, fromRound int) error {
	txRepo := a.repo.WithTx(tx)
	existing, err := txRepo.ListMatchesByOccurrence(ctx, occ.ID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}
	if !RoundRobinOnly(existing) {
		log.Debug().
			Str("occurrence_id", occ.ID.String()).
			Msg("skipping round regeneration: occurrence has non round-robin matches")
		return nil
	}

	generated, err := a.plan(ctx, occ, roster, fromRound)
	if err != nil {
		return err
	}
	if err := txRepo.DeletePendingRoundRobinFromRound(ctx, occ.ID, fromRound); err != nil {
		return err
	}
	if err := txRepo.InsertGenerated(ctx, generated); err != nil {
		return err
	}

	log.Info().
		Str("occurrence_id", occ.ID.String()).
		Int("from_round", fromRound).
		Int("matches", len(generated)).
		Msg("regenerated matches from round")
	return nil
}

// plan looks up the rotation pattern for the session's court count and the
// roster size, and builds the match set. A missing pattern is surfaced as-is:
// it is curated data the operator must supply, not something to work around.
func (a *App) plan(ctx context.Context, occ *models.SessionOccurrence, roster []models.LeagueAttendance, fromRound int) ([]GeneratedMatch, error) {
	session, err := a.sessions.GetSession(ctx, occ.SessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	pattern, err := a.catalogue.Lookup(session.CourtCount, len(roster))
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, len(roster))
	for i, att := range roster {
		userIDs[i] = att.UserID
	}
	return Build(pattern, occ.ID, userIDs, fromRound, a.clock.Now())
}
