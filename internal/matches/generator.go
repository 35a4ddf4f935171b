package matches

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/models"
)

// GeneratedTeam is one side of a generated match with its players attached.
type GeneratedTeam struct {
	Team    models.Team
	Players []models.TeamPlayer
}

// GeneratedMatch is one match with both teams, ready to persist.
type GeneratedMatch struct {
	Match models.Match
	Teams [2]GeneratedTeam
}

// Build maps an ordered attendee roster onto a rotation pattern, producing
// one match per round and used court. Positions in the pattern are 1-indexed
// into roster. Rounds numbered below fromRound are skipped; pass 1 for a full
// build.
func Build(pattern models.RotationPattern, occurrenceID uuid.UUID, roster []uuid.UUID, fromRound int, now time.Time) ([]GeneratedMatch, error) {
	if len(roster) != pattern.PlayerCount {
		return nil, fmt.Errorf("roster size %d does not match pattern player count %d", len(roster), pattern.PlayerCount)
	}
	if fromRound < 1 {
		fromRound = 1
	}

	var out []GeneratedMatch
	for ri, round := range pattern.Rounds {
		roundNumber := ri + 1
		if roundNumber < fromRound {
			continue
		}
		for _, ct := range round.Courts {
			m := models.Match{
				ID:           uuid.New(),
				OccurrenceID: occurrenceID,
				RoundNumber:  roundNumber,
				CourtNumber:  ct.Court,
				Format:       models.FormatRoundRobin,
				Status:       models.MatchStatusPending,
				CreatedAt:    now,
			}
			gm := GeneratedMatch{Match: m}
			for side, positions := range [2][]int{ct.TeamA, ct.TeamB} {
				team := models.Team{ID: uuid.New(), MatchID: m.ID, Number: side + 1}
				gt := GeneratedTeam{Team: team}
				for _, pos := range positions {
					gt.Players = append(gt.Players, models.TeamPlayer{
						ID:       uuid.New(),
						TeamID:   team.ID,
						UserID:   roster[pos-1],
						Position: pos,
					})
				}
				gm.Teams[side] = gt
			}
			out = append(out, gm)
		}
	}
	return out, nil
}

// Regenerable reports whether an existing match set is safe to delete and
// rebuild: every match still pending and produced by the round-robin
// generator. Any other format or state freezes the set.
func Regenerable(existing []models.Match) bool {
	for _, m := range existing {
		if m.Format != models.FormatRoundRobin || m.Status != models.MatchStatusPending {
			return false
		}
	}
	return true
}

// RoundRobinOnly reports whether every existing match was produced by the
// round-robin generator, regardless of play state.
func RoundRobinOnly(existing []models.Match) bool {
	for _, m := range existing {
		if m.Format != models.FormatRoundRobin {
			return false
		}
	}
	return true
}
