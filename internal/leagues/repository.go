package leagues

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

// ErrNotFound is returned when a league does not exist.
var ErrNotFound = errors.New("league not found")

// Repository implements league data access operations.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new leagues repository.
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

const leagueColumns = `id, club_id, name, status, is_event, start_date, end_date,
	registration_start, registration_end, registration_opens_hours_before,
	registration_closes_hours_before, max_participants, allow_reserves,
	minimum_skill_level, created_at, updated_at`

// CreateLeague inserts a new league.
func (r *Repository) CreateLeague(ctx context.Context, l *models.League) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO leagues (`+leagueColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		l.ID, l.ClubID, l.Name, l.Status, l.IsEvent, l.StartDate, l.EndDate,
		l.RegistrationStart, l.RegistrationEnd, l.RegistrationOpensHoursBefore,
		l.RegistrationClosesHoursBefore, l.MaxParticipants, l.AllowReserves,
		l.MinimumSkillLevel, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert league: %w", err)
	}
	return nil
}

// GetLeague retrieves a league by ID.
func (r *Repository) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	row := r.db.QueryRow(ctx, `SELECT `+leagueColumns+` FROM leagues WHERE id = $1`, id)
	return scanLeague(row)
}

// ListLeagueIDs retrieves every league ID, for batch expansion.
func (r *Repository) ListLeagueIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM leagues ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list league ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan league id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListLeaguesByClub retrieves all leagues for a club.
func (r *Repository) ListLeaguesByClub(ctx context.Context, clubID uuid.UUID) ([]models.League, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+leagueColumns+` FROM leagues WHERE club_id = $1 ORDER BY start_date`, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	var out []models.League
	for rows.Next() {
		l, err := scanLeague(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// UpdateLeague saves the editable fields of a league.
func (r *Repository) UpdateLeague(ctx context.Context, l *models.League) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE leagues
		SET name = $2, status = $3, start_date = $4, end_date = $5,
		    registration_start = $6, registration_end = $7,
		    registration_opens_hours_before = $8, registration_closes_hours_before = $9,
		    max_participants = $10, allow_reserves = $11, minimum_skill_level = $12,
		    updated_at = $13
		WHERE id = $1`,
		l.ID, l.Name, l.Status, l.StartDate, l.EndDate,
		l.RegistrationStart, l.RegistrationEnd,
		l.RegistrationOpensHoursBefore, l.RegistrationClosesHoursBefore,
		l.MaxParticipants, l.AllowReserves, l.MinimumSkillLevel, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update league: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("league %s: %w", l.ID, ErrNotFound)
	}
	return nil
}

// UpdateLeagueStatus updates only the status of a league.
func (r *Repository) UpdateLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE leagues SET status = $2, updated_at = $3 WHERE id = $1`, id, status, now)
	if err != nil {
		return fmt.Errorf("failed to update league status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("league %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteLeague deletes a league by ID.
func (r *Repository) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM leagues WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete league: %w", err)
	}
	return nil
}

func scanLeague(row pgx.Row) (*models.League, error) {
	var l models.League
	err := row.Scan(&l.ID, &l.ClubID, &l.Name, &l.Status, &l.IsEvent, &l.StartDate, &l.EndDate,
		&l.RegistrationStart, &l.RegistrationEnd, &l.RegistrationOpensHoursBefore,
		&l.RegistrationClosesHoursBefore, &l.MaxParticipants, &l.AllowReserves,
		&l.MinimumSkillLevel, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan league: %w", err)
	}
	return &l, nil
}
