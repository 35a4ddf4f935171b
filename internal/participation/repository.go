package participation

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

// ErrNotFound is returned when a participation or attendance does not exist.
var ErrNotFound = errors.New("not found")

// bulkUpdateChunkSize bounds one batched UPDATE statement.
const bulkUpdateChunkSize = 100

// Repository implements participation and attendance data access.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new participation repository.
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to an open transaction.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

const participationColumns = `id, league_id, user_id, status, joined_at, cancelled_at, updated_at`

// CreateParticipation inserts a new enrollment row.
func (r *Repository) CreateParticipation(ctx context.Context, p *models.LeagueParticipation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO league_participations (`+participationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.LeagueID, p.UserID, p.Status, p.JoinedAt, p.CancelledAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert participation: %w", err)
	}
	return nil
}

// GetParticipation retrieves a participation by ID.
func (r *Repository) GetParticipation(ctx context.Context, id uuid.UUID) (*models.LeagueParticipation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+participationColumns+` FROM league_participations WHERE id = $1`, id)
	return scanParticipation(row)
}

// GetParticipationByUserAndLeague retrieves the enrollment row for one
// (user, league), or ErrNotFound.
func (r *Repository) GetParticipationByUserAndLeague(ctx context.Context, userID, leagueID uuid.UUID) (*models.LeagueParticipation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+participationColumns+` FROM league_participations
		WHERE user_id = $1 AND league_id = $2`, userID, leagueID)
	return scanParticipation(row)
}

// UpdateParticipationStatus saves a status change.
func (r *Repository) UpdateParticipationStatus(ctx context.Context, id uuid.UUID, status models.ParticipationStatus, cancelledAt *time.Time, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE league_participations
		SET status = $2, cancelled_at = $3, updated_at = $4
		WHERE id = $1`, id, status, cancelledAt, now)
	if err != nil {
		return fmt.Errorf("failed to update participation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participation %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountActiveByLeague counts season-wide ACTIVE participations.
func (r *Repository) CountActiveByLeague(ctx context.Context, leagueID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM league_participations
		WHERE league_id = $1 AND status = $2`, leagueID, models.ParticipationActive).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count active participations: %w", err)
	}
	return n, nil
}

func scanParticipation(row pgx.Row) (*models.LeagueParticipation, error) {
	var p models.LeagueParticipation
	err := row.Scan(&p.ID, &p.LeagueID, &p.UserID, &p.Status, &p.JoinedAt, &p.CancelledAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan participation: %w", err)
	}
	return &p, nil
}

const attendanceColumns = `id, participation_id, occurrence_id, user_id, status, checked_in,
	left_after_round, arrived_at_round, cancelled_at, created_at, updated_at`

// GetAttendance retrieves an attendance row by ID.
func (r *Repository) GetAttendance(ctx context.Context, id uuid.UUID) (*models.LeagueAttendance, error) {
	row := r.db.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM league_attendance WHERE id = $1`, id)
	return scanAttendance(row)
}

// GetAttendanceByUserAndOccurrence retrieves the attendance row for one
// (user, occurrence), or ErrNotFound.
func (r *Repository) GetAttendanceByUserAndOccurrence(ctx context.Context, userID, occurrenceID uuid.UUID) (*models.LeagueAttendance, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+attendanceColumns+` FROM league_attendance
		WHERE user_id = $1 AND occurrence_id = $2`, userID, occurrenceID)
	return scanAttendance(row)
}

// CreateAttendance inserts one attendance row.
func (r *Repository) CreateAttendance(ctx context.Context, a *models.LeagueAttendance) error {
	return r.InsertAttendances(ctx, []models.LeagueAttendance{*a})
}

// InsertAttendances bulk-inserts attendance rows.
func (r *Repository) InsertAttendances(ctx context.Context, rows []models.LeagueAttendance) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range rows {
		batch.Queue(`
			INSERT INTO league_attendance (`+attendanceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			a.ID, a.ParticipationID, a.OccurrenceID, a.UserID, a.Status, a.CheckedIn,
			a.LeftAfterRound, a.ArrivedAtRound, a.CancelledAt, a.CreatedAt, a.UpdatedAt)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert attendance rows: %w", err)
	}
	return nil
}

// DeleteAttendanceByParticipation removes every attendance row for a
// participation, past rows included.
func (r *Repository) DeleteAttendanceByParticipation(ctx context.Context, participationID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM league_attendance WHERE participation_id = $1`, participationID); err != nil {
		return fmt.Errorf("failed to delete attendance rows: %w", err)
	}
	return nil
}

// BulkUpdateAttendanceStatus updates the status of the given rows, chunked to
// bound statement size. Observably equivalent to one-at-a-time updates.
func (r *Repository) BulkUpdateAttendanceStatus(ctx context.Context, ids []uuid.UUID, status models.AttendanceStatus, now time.Time) error {
	for _, chunk := range sqlutil.Chunk(ids, bulkUpdateChunkSize) {
		_, err := r.db.Exec(ctx, `
			UPDATE league_attendance
			SET status = $2, updated_at = $3
			WHERE id = ANY($1)`, chunk, status, now)
		if err != nil {
			return fmt.Errorf("failed to bulk-update attendance status: %w", err)
		}
	}
	return nil
}

// ListAttendanceByParticipation retrieves all attendance rows for a
// participation.
func (r *Repository) ListAttendanceByParticipation(ctx context.Context, participationID uuid.UUID) ([]models.LeagueAttendance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+attendanceColumns+` FROM league_attendance
		WHERE participation_id = $1 ORDER BY created_at, id`, participationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance rows: %w", err)
	}
	defer rows.Close()
	return collectAttendances(rows)
}

// ListAttendanceByOccurrence retrieves an occurrence's attendance rows in
// stable roster order (insertion order).
func (r *Repository) ListAttendanceByOccurrence(ctx context.Context, occurrenceID uuid.UUID) ([]models.LeagueAttendance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+attendanceColumns+` FROM league_attendance
		WHERE occurrence_id = $1 ORDER BY created_at, id`, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance rows: %w", err)
	}
	defer rows.Close()
	return collectAttendances(rows)
}

// CountAttendingByOccurrence counts ATTENDING rows for one occurrence.
func (r *Repository) CountAttendingByOccurrence(ctx context.Context, occurrenceID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM league_attendance
		WHERE occurrence_id = $1 AND status = $2`, occurrenceID, models.AttendanceAttending).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count attending rows: %w", err)
	}
	return n, nil
}

// HasActiveEnrollment reports whether the user already holds an ACTIVE or
// RESERVE participation in the league.
func (r *Repository) HasActiveEnrollment(ctx context.Context, userID, leagueID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM league_participations
			WHERE user_id = $1 AND league_id = $2 AND status = ANY($3)
		)`, userID, leagueID, []models.ParticipationStatus{models.ParticipationActive, models.ParticipationReserve}).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment existence: %w", err)
	}
	return exists, nil
}

// HasActiveAttendance reports whether the user already holds an ATTENDING or
// WAITLIST row for the occurrence.
func (r *Repository) HasActiveAttendance(ctx context.Context, userID, occurrenceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM league_attendance
			WHERE user_id = $1 AND occurrence_id = $2 AND status = ANY($3)
		)`, userID, occurrenceID, []models.AttendanceStatus{models.AttendanceAttending, models.AttendanceWaitlist}).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check attendance existence: %w", err)
	}
	return exists, nil
}

// UpdateAttendanceCancelled marks one attendance row cancelled.
func (r *Repository) UpdateAttendanceCancelled(ctx context.Context, id uuid.UUID, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE league_attendance
		SET status = $2, cancelled_at = $3, updated_at = $3
		WHERE id = $1`, id, models.AttendanceCancelled, now)
	if err != nil {
		return fmt.Errorf("failed to cancel attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendance %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateAttendanceRevived restores a previously cancelled attendance row to
// the given status, clearing the cancellation and day-of markers.
func (r *Repository) UpdateAttendanceRevived(ctx context.Context, id uuid.UUID, status models.AttendanceStatus, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE league_attendance
		SET status = $2, cancelled_at = NULL, checked_in = FALSE,
		    left_after_round = NULL, arrived_at_round = NULL, updated_at = $3
		WHERE id = $1`, id, status, now)
	if err != nil {
		return fmt.Errorf("failed to revive attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendance %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetCheckedIn marks a player as checked in for the occurrence.
func (r *Repository) SetCheckedIn(ctx context.Context, id uuid.UUID, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE league_attendance SET checked_in = TRUE, updated_at = $2 WHERE id = $1`, id, now)
	if err != nil {
		return fmt.Errorf("failed to check in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendance %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetLeftAfterRound stores the last round a player completed before leaving.
func (r *Repository) SetLeftAfterRound(ctx context.Context, id uuid.UUID, round int, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE league_attendance SET left_after_round = $2, updated_at = $3 WHERE id = $1`, id, round, now)
	if err != nil {
		return fmt.Errorf("failed to record early leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendance %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetArrivedAtRound stores the first round a late arrival joins and checks
// the player in.
func (r *Repository) SetArrivedAtRound(ctx context.Context, id uuid.UUID, round int, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE league_attendance
		SET arrived_at_round = $2, checked_in = TRUE, updated_at = $3
		WHERE id = $1`, id, round, now)
	if err != nil {
		return fmt.Errorf("failed to record late arrival: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendance %s: %w", id, ErrNotFound)
	}
	return nil
}

// OccurrenceDatesFor maps attendance occurrence IDs to their session dates.
func (r *Repository) OccurrenceDatesFor(ctx context.Context, participationID uuid.UUID) (map[uuid.UUID]time.Time, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.session_date
		FROM session_occurrences o
		JOIN league_attendance a ON a.occurrence_id = o.id
		WHERE a.participation_id = $1`, participationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load occurrence dates: %w", err)
	}
	defer rows.Close()

	dates := make(map[uuid.UUID]time.Time)
	for rows.Next() {
		var id uuid.UUID
		var date time.Time
		if err := rows.Scan(&id, &date); err != nil {
			return nil, fmt.Errorf("failed to scan occurrence date: %w", err)
		}
		dates[id] = date
	}
	return dates, rows.Err()
}

func collectAttendances(rows pgx.Rows) ([]models.LeagueAttendance, error) {
	var out []models.LeagueAttendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAttendance(row pgx.Row) (*models.LeagueAttendance, error) {
	var a models.LeagueAttendance
	err := row.Scan(&a.ID, &a.ParticipationID, &a.OccurrenceID, &a.UserID, &a.Status, &a.CheckedIn,
		&a.LeftAfterRound, &a.ArrivedAtRound, &a.CancelledAt, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	return &a, nil
}
