package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/courtday/courtday/internal/models"
	"github.com/courtday/courtday/internal/sqlutil"
)

// ErrNotFound is returned when a session or occurrence does not exist.
var ErrNotFound = errors.New("not found")

// Repository implements schedule data access against Postgres.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new schedule repository.
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to an open transaction.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

const sessionColumns = `id, league_id, day_of_week, start_time, end_time, court_count,
	recurrence, recurrence_interval, active_from, active_until, active, created_at, updated_at`

// CreateSession inserts a new session template.
func (r *Repository) CreateSession(ctx context.Context, s *models.LeagueSession) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO league_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.LeagueID, int(s.DayOfWeek), s.StartTime.String(), s.EndTime.String(),
		s.CourtCount, s.Recurrence, s.Interval, s.ActiveFrom, s.ActiveUntil,
		s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// UpdateSession saves the editable fields of a session template.
func (r *Repository) UpdateSession(ctx context.Context, s *models.LeagueSession) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE league_sessions
		SET day_of_week = $2, start_time = $3, end_time = $4, court_count = $5,
		    recurrence = $6, recurrence_interval = $7, active_from = $8,
		    active_until = $9, active = $10, updated_at = $11
		WHERE id = $1`,
		s.ID, int(s.DayOfWeek), s.StartTime.String(), s.EndTime.String(), s.CourtCount,
		s.Recurrence, s.Interval, s.ActiveFrom, s.ActiveUntil, s.Active, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

// GetSession retrieves a session template by ID.
func (r *Repository) GetSession(ctx context.Context, id uuid.UUID) (*models.LeagueSession, error) {
	row := r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM league_sessions WHERE id = $1`, id)
	return scanSession(row)
}

// ListSessionsByLeague retrieves all session templates for a league.
func (r *Repository) ListSessionsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.LeagueSession, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+sessionColumns+` FROM league_sessions
		WHERE league_id = $1 ORDER BY day_of_week, start_time`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.LeagueSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*models.LeagueSession, error) {
	var s models.LeagueSession
	var day int
	var start, end string
	err := row.Scan(&s.ID, &s.LeagueID, &day, &start, &end, &s.CourtCount,
		&s.Recurrence, &s.Interval, &s.ActiveFrom, &s.ActiveUntil, &s.Active,
		&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	s.DayOfWeek = time.Weekday(day)
	if s.StartTime, err = models.ParseTimeOfDay(start); err != nil {
		return nil, err
	}
	if s.EndTime, err = models.ParseTimeOfDay(end); err != nil {
		return nil, err
	}
	return &s, nil
}

const occurrenceColumns = `id, session_id, league_id, session_date, starts_at, ends_at,
	registration_opens_at, registration_closes_at, is_cancelled, cancellation_reason, created_at`

// DeleteOccurrencesBySession removes every occurrence of a template, ahead of
// a fresh expansion.
func (r *Repository) DeleteOccurrencesBySession(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM session_occurrences WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete occurrences: %w", err)
	}
	return nil
}

// InsertOccurrences bulk-inserts freshly expanded occurrences.
func (r *Repository) InsertOccurrences(ctx context.Context, occs []models.SessionOccurrence) error {
	batch := &pgx.Batch{}
	for _, o := range occs {
		batch.Queue(`
			INSERT INTO session_occurrences (`+occurrenceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			o.ID, o.SessionID, o.LeagueID, o.SessionDate, o.StartsAt, o.EndsAt,
			o.RegistrationOpensAt, o.RegistrationClosesAt, o.IsCancelled,
			nullableString(o.CancellationReason), o.CreatedAt)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert occurrences: %w", err)
	}
	return nil
}

// GetOccurrence retrieves one occurrence by ID.
func (r *Repository) GetOccurrence(ctx context.Context, id uuid.UUID) (*models.SessionOccurrence, error) {
	row := r.db.QueryRow(ctx, `SELECT `+occurrenceColumns+` FROM session_occurrences WHERE id = $1`, id)
	return scanOccurrence(row)
}

// ListOccurrencesBySession retrieves a template's occurrences ordered by date.
func (r *Repository) ListOccurrencesBySession(ctx context.Context, sessionID uuid.UUID) ([]models.SessionOccurrence, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+occurrenceColumns+` FROM session_occurrences
		WHERE session_id = $1 ORDER BY session_date`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrences: %w", err)
	}
	defer rows.Close()
	return collectOccurrences(rows)
}

// ListFutureOccurrencesByLeague retrieves every occurrence of a league on or
// after the given date, across all its templates.
func (r *Repository) ListFutureOccurrencesByLeague(ctx context.Context, leagueID uuid.UUID, from time.Time) ([]models.SessionOccurrence, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+occurrenceColumns+` FROM session_occurrences
		WHERE league_id = $1 AND session_date >= $2 ORDER BY session_date`, leagueID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list future occurrences: %w", err)
	}
	defer rows.Close()
	return collectOccurrences(rows)
}

func collectOccurrences(rows pgx.Rows) ([]models.SessionOccurrence, error) {
	var occs []models.SessionOccurrence
	for rows.Next() {
		o, err := scanOccurrence(rows)
		if err != nil {
			return nil, err
		}
		occs = append(occs, *o)
	}
	return occs, rows.Err()
}

func scanOccurrence(row pgx.Row) (*models.SessionOccurrence, error) {
	var o models.SessionOccurrence
	var reason *string
	err := row.Scan(&o.ID, &o.SessionID, &o.LeagueID, &o.SessionDate, &o.StartsAt, &o.EndsAt,
		&o.RegistrationOpensAt, &o.RegistrationClosesAt, &o.IsCancelled, &reason, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan occurrence: %w", err)
	}
	if reason != nil {
		o.CancellationReason = *reason
	}
	return &o, nil
}

// MarkOccurrenceCancelled flags one occurrence as cancelled with a reason.
func (r *Repository) MarkOccurrenceCancelled(ctx context.Context, id uuid.UUID, reason string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE session_occurrences
		SET is_cancelled = TRUE, cancellation_reason = $2
		WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("failed to cancel occurrence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("occurrence %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateCancellation inserts a date-range cancellation for a template.
func (r *Repository) CreateCancellation(ctx context.Context, c *models.SessionCancellation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO session_cancellations (id, session_id, start_date, end_date, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.SessionID, c.StartDate, c.EndDate, c.Reason, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cancellation range: %w", err)
	}
	return nil
}

// ListCancellations retrieves all cancellation ranges for a template.
func (r *Repository) ListCancellations(ctx context.Context, sessionID uuid.UUID) ([]models.SessionCancellation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, start_date, end_date, reason, created_at
		FROM session_cancellations WHERE session_id = $1 ORDER BY start_date`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cancellation ranges: %w", err)
	}
	defer rows.Close()

	var ranges []models.SessionCancellation
	for rows.Next() {
		var c models.SessionCancellation
		if err := rows.Scan(&c.ID, &c.SessionID, &c.StartDate, &c.EndDate, &c.Reason, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cancellation range: %w", err)
		}
		ranges = append(ranges, c)
	}
	return ranges, rows.Err()
}

// ListAttendingUserIDs returns the users holding an ATTENDING record for an
// occurrence, for notification fan-out.
func (r *Repository) ListAttendingUserIDs(ctx context.Context, occurrenceID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id FROM league_attendance
		WHERE occurrence_id = $1 AND status = $2`, occurrenceID, models.AttendanceAttending)
	if err != nil {
		return nil, fmt.Errorf("failed to list attending users: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
