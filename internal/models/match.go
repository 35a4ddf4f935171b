package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationFormat records which generator produced a match. Regeneration
// paths only ever touch ROUND_ROBIN matches.
type GenerationFormat string

const (
	FormatRoundRobin  GenerationFormat = "ROUND_ROBIN"
	FormatKingOfCourt GenerationFormat = "KING_OF_COURT"
	FormatManual      GenerationFormat = "MANUAL"
	FormatMLP         GenerationFormat = "MLP"
)

// MatchStatus represents the play state of a match
type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "PENDING"
	MatchStatusInProgress MatchStatus = "IN_PROGRESS"
	MatchStatusCompleted  MatchStatus = "COMPLETED"
	MatchStatusCancelled  MatchStatus = "CANCELLED"
)

// Match is one round/court pairing within an occurrence.
type Match struct {
	ID           uuid.UUID `json:"id"`
	OccurrenceID uuid.UUID `json:"occurrence_id"`

	RoundNumber int `json:"round_number"`
	CourtNumber int `json:"court_number"`

	Format GenerationFormat `json:"format"`
	Status MatchStatus      `json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

// Team is one side of a match.
type Team struct {
	ID      uuid.UUID `json:"id"`
	MatchID uuid.UUID `json:"match_id"`
	Number  int       `json:"number"`
}

// TeamPlayer attaches a player to a team at a roster position.
type TeamPlayer struct {
	ID       uuid.UUID `json:"id"`
	TeamID   uuid.UUID `json:"team_id"`
	UserID   uuid.UUID `json:"user_id"`
	Position int       `json:"position"`
}
