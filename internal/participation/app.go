package participation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/courtday/courtday/internal/models"
	"github.com/courtday/courtday/internal/sqlutil"
)

// ErrInvalidRound flags a mid-session adjustment that contradicts the stored
// markers, e.g. arriving at or before the round the player already left.
// Caller bug, not user input.
var ErrInvalidRound = errors.New("invalid round for mid-session adjustment")

// ErrValidation wraps request validation failures.
var ErrValidation = errors.New("validation failed")

// OccurrenceStore defines what the participation app needs from the schedule
// layer.
type OccurrenceStore interface {
	GetOccurrence(ctx context.Context, id uuid.UUID) (*models.SessionOccurrence, error)
	ListFutureOccurrencesByLeague(ctx context.Context, leagueID uuid.UUID, from time.Time) ([]models.SessionOccurrence, error)
}

// MatchService regenerates an occurrence's matches inside the caller's
// transaction. Implementations must leave non-round-robin and already-played
// matches untouched.
type MatchService interface {
	RegenerateForOccurrence(ctx context.Context, tx pgx.Tx, occ *models.SessionOccurrence, roster []models.LeagueAttendance) error
	RegenerateFromRound(ctx context.Context, tx pgx.Tx, occ *models.SessionOccurrence, roster []models.LeagueAttendance, fromRound int) error
}

// App owns participation status transitions and the attendance cascades they
// trigger. Every multi-row cascade runs in a single transaction.
type App struct {
	repo        *Repository
	occurrences OccurrenceStore
	matches     MatchService
	pool        *pgxpool.Pool
	clock       clockwork.Clock
}

// NewApp creates a new participation App.
func NewApp(repo *Repository, occurrences OccurrenceStore, matches MatchService, pool *pgxpool.Pool, clock clockwork.Clock) *App {
	return &App{
		repo:        repo,
		occurrences: occurrences,
		matches:     matches,
		pool:        pool,
		clock:       clock,
	}
}

// Join enrolls a user in a league with the status the eligibility engine
// decided. An ACTIVE join materializes attendance rows for every future
// occurrence in the same transaction. A user who already holds a row for
// the league, a cancelled one included, gets that row transitioned instead
// of a second insert; the schema backs this with a unique (user, league)
// index.
func (a *App) Join(ctx context.Context, leagueID, userID uuid.UUID, status models.ParticipationStatus) (*models.LeagueParticipation, error) {
	existing, err := a.repo.GetParticipationByUserAndLeague(ctx, userID, leagueID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := a.clock.Now()
	cascade, reuse, err := ReuseEnrollment(existing, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if reuse {
		err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
			return a.applyTransition(ctx, a.repo.WithTx(tx), existing, status, cascade, now)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to rejoin league: %w", err)
		}

		log.Info().
			Str("participation_id", existing.ID.String()).
			Str("league_id", leagueID.String()).
			Str("from", string(existing.Status)).
			Str("status", string(status)).
			Msg("rejoined league")
		existing.Status = status
		existing.CancelledAt = nil
		existing.UpdatedAt = now
		return existing, nil
	}

	p := &models.LeagueParticipation{
		ID:        uuid.New(),
		LeagueID:  leagueID,
		UserID:    userID,
		Status:    status,
		JoinedAt:  now,
		UpdatedAt: now,
	}

	var rows []models.LeagueAttendance
	if status == models.ParticipationActive {
		occs, err := a.occurrences.ListFutureOccurrencesByLeague(ctx, leagueID, today(now))
		if err != nil {
			return nil, err
		}
		rows = FutureAttendancePlan(p, occs, nil, now)
	}

	err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		txRepo := a.repo.WithTx(tx)
		if err := txRepo.CreateParticipation(ctx, p); err != nil {
			return err
		}
		return txRepo.InsertAttendances(ctx, rows)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join league: %w", err)
	}

	log.Info().
		Str("participation_id", p.ID.String()).
		Str("league_id", leagueID.String()).
		Str("status", string(status)).
		Int("attendance_rows", len(rows)).
		Msg("joined league")
	return p, nil
}

// JoinOccurrence registers a user for one event occurrence with the status
// the eligibility engine decided. The season-level participation row is
// created PENDING when missing; for events it is bookkeeping only and must
// not cascade attendance to sibling occurrences.
func (a *App) JoinOccurrence(ctx context.Context, occurrenceID, userID uuid.UUID, status models.AttendanceStatus) (*models.LeagueAttendance, error) {
	occ, err := a.occurrences.GetOccurrence(ctx, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("occurrence not found: %w", err)
	}

	now := a.clock.Now()
	att := &models.LeagueAttendance{
		ID:           uuid.New(),
		OccurrenceID: occ.ID,
		UserID:       userID,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		txRepo := a.repo.WithTx(tx)

		p, err := txRepo.GetParticipationByUserAndLeague(ctx, userID, occ.LeagueID)
		if errors.Is(err, ErrNotFound) {
			p = &models.LeagueParticipation{
				ID:        uuid.New(),
				LeagueID:  occ.LeagueID,
				UserID:    userID,
				Status:    models.ParticipationPending,
				JoinedAt:  now,
				UpdatedAt: now,
			}
			if err := txRepo.CreateParticipation(ctx, p); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// A cancelled spot still occupies the (participation, occurrence)
		// key, so re-registration revives that row instead of inserting.
		existing, err := txRepo.GetAttendanceByUserAndOccurrence(ctx, userID, occ.ID)
		if err == nil {
			ReviveAttendance(existing, status, now)
			if err := txRepo.UpdateAttendanceRevived(ctx, existing.ID, status, now); err != nil {
				return err
			}
			att = existing
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		att.ParticipationID = p.ID
		return txRepo.CreateAttendance(ctx, att)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join occurrence: %w", err)
	}

	log.Info().
		Str("attendance_id", att.ID.String()).
		Str("occurrence_id", occ.ID.String()).
		Str("status", string(status)).
		Msg("joined occurrence")
	return att, nil
}

// SetStatus transitions a participation to a new status and applies the
// attendance cascade the transition calls for, all in one transaction.
func (a *App) SetStatus(ctx context.Context, participationID uuid.UUID, newStatus models.ParticipationStatus) (*models.LeagueParticipation, error) {
	p, err := a.repo.GetParticipation(ctx, participationID)
	if err != nil {
		return nil, fmt.Errorf("participation not found: %w", err)
	}

	cascade, err := ClassifyTransition(p.Status, newStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := a.clock.Now()
	err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		return a.applyTransition(ctx, a.repo.WithTx(tx), p, newStatus, cascade, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to change participation status: %w", err)
	}

	log.Info().
		Str("participation_id", participationID.String()).
		Str("from", string(p.Status)).
		Str("to", string(newStatus)).
		Msg("participation status changed")

	p.Status = newStatus
	if newStatus == models.ParticipationCancelled {
		p.CancelledAt = &now
	} else {
		p.CancelledAt = nil
	}
	p.UpdatedAt = now
	return p, nil
}

// applyTransition persists a status change and runs its attendance cascade
// inside the caller's transaction. p carries the pre-transition status.
func (a *App) applyTransition(ctx context.Context, txRepo *Repository, p *models.LeagueParticipation, newStatus models.ParticipationStatus, cascade Cascade, now time.Time) error {
	var cancelledAt *time.Time
	if newStatus == models.ParticipationCancelled {
		cancelledAt = &now
	}
	if err := txRepo.UpdateParticipationStatus(ctx, p.ID, newStatus, cancelledAt, now); err != nil {
		return err
	}

	switch cascade {
	case CascadeCreateFuture:
		occs, err := a.occurrences.ListFutureOccurrencesByLeague(ctx, p.LeagueID, today(now))
		if err != nil {
			return err
		}
		existing, err := txRepo.ListAttendanceByParticipation(ctx, p.ID)
		if err != nil {
			return err
		}
		return txRepo.InsertAttendances(ctx, FutureAttendancePlan(p, occs, existing, now))

	case CascadeDeleteAll:
		return txRepo.DeleteAttendanceByParticipation(ctx, p.ID)

	case CascadeRemapFuture:
		target, ok := AttendanceFor(newStatus)
		if !ok {
			return nil
		}
		attendances, err := txRepo.ListAttendanceByParticipation(ctx, p.ID)
		if err != nil {
			return err
		}
		dates, err := txRepo.OccurrenceDatesFor(ctx, p.ID)
		if err != nil {
			return err
		}
		return txRepo.BulkUpdateAttendanceStatus(ctx, RemapPlan(attendances, dates, now), target, now)
	}
	return nil
}

// CancelAttendance cancels one attendance row and, when the occurrence's
// matches are still pending round-robin output, regenerates them from the
// reduced roster in the same transaction.
func (a *App) CancelAttendance(ctx context.Context, attendanceID uuid.UUID, reason string) error {
	att, err := a.repo.GetAttendance(ctx, attendanceID)
	if err != nil {
		return fmt.Errorf("attendance not found: %w", err)
	}
	occ, err := a.occurrences.GetOccurrence(ctx, att.OccurrenceID)
	if err != nil {
		return fmt.Errorf("occurrence not found: %w", err)
	}

	now := a.clock.Now()
	err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		txRepo := a.repo.WithTx(tx)
		if err := txRepo.UpdateAttendanceCancelled(ctx, attendanceID, now); err != nil {
			return err
		}
		roster, err := txRepo.ListAttendanceByOccurrence(ctx, occ.ID)
		if err != nil {
			return err
		}
		return a.matches.RegenerateForOccurrence(ctx, tx, occ, attendingOnly(roster))
	})
	if err != nil {
		return fmt.Errorf("failed to cancel attendance: %w", err)
	}

	log.Info().
		Str("attendance_id", attendanceID.String()).
		Str("occurrence_id", occ.ID.String()).
		Str("reason", reason).
		Msg("attendance cancelled")
	return nil
}

// CheckIn marks a player present on the day.
func (a *App) CheckIn(ctx context.Context, attendanceID uuid.UUID) error {
	if err := a.repo.SetCheckedIn(ctx, attendanceID, a.clock.Now()); err != nil {
		return err
	}
	log.Info().Str("attendance_id", attendanceID.String()).Msg("checked in")
	return nil
}

// LeaveEarly records that a player left after completing the given round and
// regenerates the remaining rounds for the players still on court. Rounds up
// to and including the leave round stay untouched.
func (a *App) LeaveEarly(ctx context.Context, attendanceID uuid.UUID, round int) error {
	if round < 1 {
		return fmt.Errorf("%w: leave round %d", ErrInvalidRound, round)
	}
	att, err := a.repo.GetAttendance(ctx, attendanceID)
	if err != nil {
		return fmt.Errorf("attendance not found: %w", err)
	}
	occ, err := a.occurrences.GetOccurrence(ctx, att.OccurrenceID)
	if err != nil {
		return fmt.Errorf("occurrence not found: %w", err)
	}

	now := a.clock.Now()
	err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		txRepo := a.repo.WithTx(tx)
		if err := txRepo.SetLeftAfterRound(ctx, attendanceID, round, now); err != nil {
			return err
		}
		return a.regenerateFromRound(ctx, tx, txRepo, occ, round+1)
	})
	if err != nil {
		return fmt.Errorf("failed to record early leave: %w", err)
	}

	log.Info().
		Str("attendance_id", attendanceID.String()).
		Int("after_round", round).
		Msg("player left early")
	return nil
}

// ArriveLate records the first round a late player joins, checks them in, and
// regenerates rounds from that point. Arriving at or before a stored leave
// round is rejected.
func (a *App) ArriveLate(ctx context.Context, attendanceID uuid.UUID, round int) error {
	att, err := a.repo.GetAttendance(ctx, attendanceID)
	if err != nil {
		return fmt.Errorf("attendance not found: %w", err)
	}
	if err := ValidateArrivalRound(att, round); err != nil {
		return err
	}
	occ, err := a.occurrences.GetOccurrence(ctx, att.OccurrenceID)
	if err != nil {
		return fmt.Errorf("occurrence not found: %w", err)
	}

	now := a.clock.Now()
	err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		txRepo := a.repo.WithTx(tx)
		if err := txRepo.SetArrivedAtRound(ctx, attendanceID, round, now); err != nil {
			return err
		}
		return a.regenerateFromRound(ctx, tx, txRepo, occ, round)
	})
	if err != nil {
		return fmt.Errorf("failed to record late arrival: %w", err)
	}

	log.Info().
		Str("attendance_id", attendanceID.String()).
		Int("from_round", round).
		Msg("player arrived late")
	return nil
}

// regenerateFromRound rebuilds rounds >= fromRound from the players who are
// checked in and have not yet left.
func (a *App) regenerateFromRound(ctx context.Context, tx pgx.Tx, txRepo *Repository, occ *models.SessionOccurrence, fromRound int) error {
	roster, err := txRepo.ListAttendanceByOccurrence(ctx, occ.ID)
	if err != nil {
		return err
	}
	return a.matches.RegenerateFromRound(ctx, tx, occ, onCourt(roster), fromRound)
}

// attendingOnly keeps the ATTENDING rows, preserving roster order.
func attendingOnly(roster []models.LeagueAttendance) []models.LeagueAttendance {
	var out []models.LeagueAttendance
	for _, a := range roster {
		if a.Status == models.AttendanceAttending {
			out = append(out, a)
		}
	}
	return out
}

// onCourt keeps the players available for regenerated rounds: attending,
// checked in, and not yet left.
func onCourt(roster []models.LeagueAttendance) []models.LeagueAttendance {
	var out []models.LeagueAttendance
	for _, a := range roster {
		if a.Status == models.AttendanceAttending && a.CheckedIn && a.LeftAfterRound == nil {
			out = append(out, a)
		}
	}
	return out
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
