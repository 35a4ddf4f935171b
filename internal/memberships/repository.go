package memberships

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/courtday/courtday/internal/models"
	"github.com/courtday/courtday/internal/sqlutil"
)

// ErrNotFound is returned when no membership exists for (user, club).
var ErrNotFound = errors.New("membership not found")

// Repository reads club memberships and their assigned skill levels. The
// membership system itself lives elsewhere; this is the lookup boundary the
// eligibility engine needs.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new memberships repository.
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// GetMembership retrieves the membership for (user, club) with its skill
// levels.
func (r *Repository) GetMembership(ctx context.Context, userID, clubID uuid.UUID) (*models.ClubMembership, error) {
	var m models.ClubMembership
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, club_id, status
		FROM club_memberships
		WHERE user_id = $1 AND club_id = $2`, userID, clubID).
		Scan(&m.ID, &m.UserID, &m.ClubID, &m.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT level FROM membership_skill_levels
		WHERE membership_id = $1 ORDER BY level`, m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill levels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var level models.SkillLevel
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("failed to scan skill level: %w", err)
		}
		m.SkillLevels = append(m.SkillLevels, level)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}
