package schedule

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
	"github.com/courtday/courtday/internal/notify"
	"github.com/courtday/courtday/internal/sqlutil"
)

// ErrValidation wraps request validation failures.
var ErrValidation = errors.New("validation failed")

// LeagueStore defines what the schedule app needs from the leagues layer.
type LeagueStore interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	ListLeagueIDs(ctx context.Context) ([]uuid.UUID, error)
}

// App owns session templates, their expansion into occurrences, and the
// cancellation hierarchy.
type App struct {
	repo    *Repository
	leagues LeagueStore
	pool    *pgxpool.Pool
	clock   clockwork.Clock
	notes   notify.Publisher
}

// NewApp creates a new schedule App.
func NewApp(repo *Repository, leagues LeagueStore, pool *pgxpool.Pool, clock clockwork.Clock, notes notify.Publisher) *App {
	return &App{
		repo:    repo,
		leagues: leagues,
		pool:    pool,
		clock:   clock,
		notes:   notes,
	}
}

// CreateSession creates a session template and expands its occurrences in one
// transaction.
func (a *App) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.LeagueSession, error) {
	if err := validateSchedule(req.DayOfWeek, req.StartTime, req.EndTime, req.CourtCount, req.Recurrence, req.Interval); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	league, err := a.leagues.GetLeague(ctx, req.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}

	now := a.clock.Now()
	session := &models.LeagueSession{
		ID:          uuid.New(),
		LeagueID:    league.ID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CourtCount:  req.CourtCount,
		Recurrence:  req.Recurrence,
		Interval:    req.Interval,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	occs := BuildOccurrences(session, league, now)
	err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		txRepo := a.repo.WithTx(tx)
		if err := txRepo.CreateSession(ctx, session); err != nil {
			return err
		}
		return txRepo.InsertOccurrences(ctx, occs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Str("league_id", league.ID.String()).
		Int("occurrences", len(occs)).
		Msg("created session template")
	return session, nil
}

// UpdateSession saves a template edit and re-expands all of its occurrences
// (delete and regenerate) in one transaction.
func (a *App) UpdateSession(ctx context.Context, id uuid.UUID, req UpdateSessionRequest) (*models.LeagueSession, error) {
	if err := validateSchedule(req.DayOfWeek, req.StartTime, req.EndTime, req.CourtCount, req.Recurrence, req.Interval); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	session, err := a.repo.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	league, err := a.leagues.GetLeague(ctx, session.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}

	now := a.clock.Now()
	session.DayOfWeek = req.DayOfWeek
	session.StartTime = req.StartTime
	session.EndTime = req.EndTime
	session.CourtCount = req.CourtCount
	session.Recurrence = req.Recurrence
	session.Interval = req.Interval
	session.ActiveFrom = req.ActiveFrom
	session.ActiveUntil = req.ActiveUntil
	session.Active = req.Active
	session.UpdatedAt = now

	occs := BuildOccurrences(session, league, now)
	err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		txRepo := a.repo.WithTx(tx)
		if err := txRepo.UpdateSession(ctx, session); err != nil {
			return err
		}
		if err := txRepo.DeleteOccurrencesBySession(ctx, session.ID); err != nil {
			return err
		}
		return txRepo.InsertOccurrences(ctx, occs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Int("occurrences", len(occs)).
		Msg("updated session template and re-expanded occurrences")
	return session, nil
}

// ExpandSession deletes and regenerates all occurrences for one template.
// Idempotent: unchanged inputs reproduce the same occurrence set.
func (a *App) ExpandSession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	session, err := a.repo.GetSession(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("session not found: %w", err)
	}
	league, err := a.leagues.GetLeague(ctx, session.LeagueID)
	if err != nil {
		return 0, fmt.Errorf("league not found: %w", err)
	}

	occs := BuildOccurrences(session, league, a.clock.Now())
	err = sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		txRepo := a.repo.WithTx(tx)
		if err := txRepo.DeleteOccurrencesBySession(ctx, sessionID); err != nil {
			return err
		}
		return txRepo.InsertOccurrences(ctx, occs)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to expand session: %w", err)
	}
	return len(occs), nil
}

// ExpandAllLeagues re-expands every template of every league, one transaction
// per league so a failure in one league does not abort the others.
func (a *App) ExpandAllLeagues(ctx context.Context) error {
	leagueIDs, err := a.leagues.ListLeagueIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list leagues: %w", err)
	}

	var failed int
	for _, leagueID := range leagueIDs {
		if err := a.expandLeague(ctx, leagueID); err != nil {
			failed++
			log.Error().Err(err).
				Str("league_id", leagueID.String()).
				Msg("failed to expand league, continuing")
		}
	}
	if failed > 0 {
		return fmt.Errorf("expansion failed for %d of %d leagues", failed, len(leagueIDs))
	}
	return nil
}

func (a *App) expandLeague(ctx context.Context, leagueID uuid.UUID) error {
	league, err := a.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("league not found: %w", err)
	}
	sessions, err := a.repo.ListSessionsByLeague(ctx, leagueID)
	if err != nil {
		return err
	}

	now := a.clock.Now()
	return sqlutil.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		txRepo := a.repo.WithTx(tx)
		for i := range sessions {
			session := &sessions[i]
			if err := txRepo.DeleteOccurrencesBySession(ctx, session.ID); err != nil {
				return err
			}
			if err := txRepo.InsertOccurrences(ctx, BuildOccurrences(session, league, now)); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddCancellation records a date-range cancellation on a template. The range
// must be well-ordered and intersect the template's active window.
func (a *App) AddCancellation(ctx context.Context, req AddCancellationRequest) (*models.SessionCancellation, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: range end before range start", ErrValidation)
	}
	session, err := a.repo.GetSession(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	league, err := a.leagues.GetLeague(ctx, session.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}

	from, until := session.Window(league)
	if req.EndDate.Before(from) || req.StartDate.After(until) {
		return nil, fmt.Errorf("%w: range does not intersect the session's active window", ErrValidation)
	}

	c := &models.SessionCancellation{
		ID:        uuid.New(),
		SessionID: session.ID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		CreatedAt: a.clock.Now(),
	}
	if err := a.repo.CreateCancellation(ctx, c); err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Time("start", c.StartDate).
		Time("end", c.EndDate).
		Msg("added cancellation range")
	return c, nil
}

// ShouldRun evaluates the cancellation hierarchy for one occurrence.
func (a *App) ShouldRun(ctx context.Context, occurrenceID uuid.UUID) (RunDecision, error) {
	occ, err := a.repo.GetOccurrence(ctx, occurrenceID)
	if err != nil {
		return RunDecision{}, fmt.Errorf("occurrence not found: %w", err)
	}
	session, err := a.repo.GetSession(ctx, occ.SessionID)
	if err != nil {
		return RunDecision{}, fmt.Errorf("session not found: %w", err)
	}
	league, err := a.leagues.GetLeague(ctx, occ.LeagueID)
	if err != nil {
		return RunDecision{}, fmt.Errorf("league not found: %w", err)
	}
	ranges, err := a.repo.ListCancellations(ctx, session.ID)
	if err != nil {
		return RunDecision{}, err
	}

	runs, reason := ShouldRun(league, session, occ, ranges)
	return RunDecision{Runs: runs, Reason: reason}, nil
}

// CancelOccurrence cancels one specific occurrence, leaving sibling
// occurrences of the same template untouched. Notification fan-out to
// ATTENDING users is fire-and-forget: a delivery failure never rolls back
// the cancellation.
func (a *App) CancelOccurrence(ctx context.Context, occurrenceID uuid.UUID, reason string, notifyAttendees bool) error {
	occ, err := a.repo.GetOccurrence(ctx, occurrenceID)
	if err != nil {
		return fmt.Errorf("occurrence not found: %w", err)
	}

	if err := a.repo.MarkOccurrenceCancelled(ctx, occurrenceID, reason); err != nil {
		return err
	}
	log.Info().
		Str("occurrence_id", occurrenceID.String()).
		Str("reason", reason).
		Msg("cancelled occurrence")

	if !notifyAttendees {
		return nil
	}

	league, err := a.leagues.GetLeague(ctx, occ.LeagueID)
	if err != nil {
		log.Error().Err(err).Str("occurrence_id", occurrenceID.String()).Msg("skipping cancellation notifications: league lookup failed")
		return nil
	}
	userIDs, err := a.repo.ListAttendingUserIDs(ctx, occurrenceID)
	if err != nil {
		log.Error().Err(err).Str("occurrence_id", occurrenceID.String()).Msg("skipping cancellation notifications: attendee lookup failed")
		return nil
	}

	notes := buildCancellationNotices(league, occ, reason, userIDs)
	go func() {
		if err := a.notes.PublishNotifications(context.Background(), notes); err != nil {
			log.Error().Err(err).
				Str("occurrence_id", occurrenceID.String()).
				Int("recipients", len(notes)).
				Msg("failed to publish cancellation notifications")
		}
	}()
	return nil
}

func buildCancellationNotices(league *models.League, occ *models.SessionOccurrence, reason string, userIDs []uuid.UUID) []models.Notification {
	if reason == "" {
		reason = ReasonSessionCancelled
	}
	notes := make([]models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notes = append(notes, models.Notification{
			RecipientID: userID,
			Type:        models.NotificationSessionCancelled,
			Title:       fmt.Sprintf("%s session cancelled", league.Name),
			Message: fmt.Sprintf("The %s session on %s has been cancelled: %s",
				league.Name, occ.SessionDate.Format("Monday, Jan 2"), reason),
			LeagueID: league.ID,
			Metadata: map[string]string{
				"occurrence_id": occ.ID.String(),
				"session_date":  occ.SessionDate.Format("2006-01-02"),
			},
		})
	}
	return notes
}

func validateSchedule(day time.Weekday, start, end models.TimeOfDay, courts int, kind models.RecurrenceKind, interval int) error {
	if day < time.Sunday || day > time.Saturday {
		return fmt.Errorf("invalid day of week: %d", day)
	}
	switch kind {
	case models.RecurrenceOnce, models.RecurrenceWeekly, models.RecurrenceBiWeekly, models.RecurrenceMonthly:
	default:
		return fmt.Errorf("invalid recurrence kind: %s", kind)
	}
	if interval < 1 {
		return fmt.Errorf("interval must be >= 1")
	}
	if courts < 1 {
		return fmt.Errorf("court count must be >= 1")
	}
	endAfterStart := end.Hour > start.Hour || (end.Hour == start.Hour && end.Minute > start.Minute)
	if !endAfterStart {
		return fmt.Errorf("end time must be after start time")
	}
	return nil
}
