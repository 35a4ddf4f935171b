package matches

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/courtday/courtday/internal/models"
	"github.com/courtday/courtday/internal/sqlutil"
)

// Repository implements match data access.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new matches repository.
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to an open transaction.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

// ListMatchesByOccurrence retrieves all matches for an occurrence, ordered by
// round then court.
func (r *Repository) ListMatchesByOccurrence(ctx context.Context, occurrenceID uuid.UUID) ([]models.Match, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, occurrence_id, round_number, court_number, format, status, created_at
		FROM matches WHERE occurrence_id = $1
		ORDER BY round_number, court_number`, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var out []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.OccurrenceID, &m.RoundNumber, &m.CourtNumber, &m.Format, &m.Status, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeletePendingRoundRobin removes every still-pending round-robin match for
// an occurrence, teams and players cascading with them.
func (r *Repository) DeletePendingRoundRobin(ctx context.Context, occurrenceID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM matches
		WHERE occurrence_id = $1 AND format = $2 AND status = $3`,
		occurrenceID, models.FormatRoundRobin, models.MatchStatusPending)
	if err != nil {
		return fmt.Errorf("failed to delete pending matches: %w", err)
	}
	return nil
}

// DeletePendingRoundRobinFromRound removes pending round-robin matches with
// round_number >= fromRound, preserving earlier and non-pending rounds.
func (r *Repository) DeletePendingRoundRobinFromRound(ctx context.Context, occurrenceID uuid.UUID, fromRound int) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM matches
		WHERE occurrence_id = $1 AND format = $2 AND status = $3 AND round_number >= $4`,
		occurrenceID, models.FormatRoundRobin, models.MatchStatusPending, fromRound)
	if err != nil {
		return fmt.Errorf("failed to delete pending matches from round %d: %w", fromRound, err)
	}
	return nil
}

// InsertGenerated bulk-inserts generated matches with their teams and
// players.
func (r *Repository) InsertGenerated(ctx context.Context, generated []GeneratedMatch) error {
	if len(generated) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, gm := range generated {
		m := gm.Match
		batch.Queue(`
			INSERT INTO matches (id, occurrence_id, round_number, court_number, format, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			m.ID, m.OccurrenceID, m.RoundNumber, m.CourtNumber, m.Format, m.Status, m.CreatedAt)
		for _, gt := range gm.Teams {
			batch.Queue(`
				INSERT INTO teams (id, match_id, number)
				VALUES ($1, $2, $3)`, gt.Team.ID, gt.Team.MatchID, gt.Team.Number)
			for _, tp := range gt.Players {
				batch.Queue(`
					INSERT INTO team_players (id, team_id, user_id, position)
					VALUES ($1, $2, $3, $4)`, tp.ID, tp.TeamID, tp.UserID, tp.Position)
			}
		}
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert generated matches: %w", err)
	}
	return nil
}
