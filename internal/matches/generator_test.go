package matches

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/models"
)

// Single-court pattern for four players, three rounds, each pairing cycling
// through the partnerships.
func fourPlayerPattern() models.RotationPattern {
	return models.RotationPattern{
		CourtCount:  1,
		PlayerCount: 4,
		Rounds: []models.RotationRound{
			{Courts: []models.CourtAssignment{{Court: 1, TeamA: []int{1, 2}, TeamB: []int{3, 4}}}},
			{Courts: []models.CourtAssignment{{Court: 1, TeamA: []int{1, 3}, TeamB: []int{2, 4}}}},
			{Courts: []models.CourtAssignment{{Court: 1, TeamA: []int{1, 4}, TeamB: []int{2, 3}}}},
		},
	}
}

func newRoster(n int) []uuid.UUID {
	roster := make([]uuid.UUID, n)
	for i := range roster {
		roster[i] = uuid.New()
	}
	return roster
}

var genNow = time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)

func TestBuildFullMatrix(t *testing.T) {
	occID := uuid.New()
	roster := newRoster(4)

	out, err := Build(fourPlayerPattern(), occID, roster, 1, genNow)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(out))
	}

	for i, gm := range out {
		if gm.Match.RoundNumber != i+1 {
			t.Errorf("match %d round = %d, want %d", i, gm.Match.RoundNumber, i+1)
		}
		if gm.Match.CourtNumber != 1 {
			t.Errorf("match %d court = %d, want 1", i, gm.Match.CourtNumber)
		}
		if gm.Match.OccurrenceID != occID {
			t.Errorf("match %d not bound to the occurrence", i)
		}
		if gm.Match.Format != models.FormatRoundRobin || gm.Match.Status != models.MatchStatusPending {
			t.Errorf("match %d = %s/%s, want pending round-robin", i, gm.Match.Format, gm.Match.Status)
		}
	}

	// Round 1 pairs positions 1,2 against 3,4.
	first := out[0]
	if got := first.Teams[0].Players[0].UserID; got != roster[0] {
		t.Errorf("team A player 1 = %v, want roster[0]", got)
	}
	if got := first.Teams[0].Players[1].UserID; got != roster[1] {
		t.Errorf("team A player 2 = %v, want roster[1]", got)
	}
	if got := first.Teams[1].Players[0].UserID; got != roster[2] {
		t.Errorf("team B player 1 = %v, want roster[2]", got)
	}
	for side, team := range first.Teams {
		if team.Team.Number != side+1 {
			t.Errorf("team number = %d, want %d", team.Team.Number, side+1)
		}
		if team.Team.MatchID != first.Match.ID {
			t.Error("team not bound to its match")
		}
		for _, p := range team.Players {
			if p.TeamID != team.Team.ID {
				t.Error("player not bound to its team")
			}
		}
	}
}

func TestBuildFromRound(t *testing.T) {
	out, err := Build(fourPlayerPattern(), uuid.New(), newRoster(4), 2, genNow)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 matches from round 2, got %d", len(out))
	}
	if out[0].Match.RoundNumber != 2 || out[1].Match.RoundNumber != 3 {
		t.Errorf("rounds = %d, %d, want 2, 3", out[0].Match.RoundNumber, out[1].Match.RoundNumber)
	}
}

func TestBuildRosterSizeMismatch(t *testing.T) {
	if _, err := Build(fourPlayerPattern(), uuid.New(), newRoster(3), 1, genNow); err == nil {
		t.Error("expected error for roster smaller than the pattern")
	}
	if _, err := Build(fourPlayerPattern(), uuid.New(), newRoster(5), 1, genNow); err == nil {
		t.Error("expected error for roster larger than the pattern")
	}
}

func TestRegenerable(t *testing.T) {
	pending := models.Match{Format: models.FormatRoundRobin, Status: models.MatchStatusPending}
	completed := models.Match{Format: models.FormatRoundRobin, Status: models.MatchStatusCompleted}
	manual := models.Match{Format: models.FormatManual, Status: models.MatchStatusPending}

	if !Regenerable(nil) {
		t.Error("empty set should be regenerable")
	}
	if !Regenerable([]models.Match{pending, pending}) {
		t.Error("all-pending round-robin set should be regenerable")
	}
	if Regenerable([]models.Match{pending, completed}) {
		t.Error("a completed match should freeze the set")
	}
	if Regenerable([]models.Match{pending, manual}) {
		t.Error("a manual match should freeze the set")
	}
}

func TestRoundRobinOnly(t *testing.T) {
	completed := models.Match{Format: models.FormatRoundRobin, Status: models.MatchStatusCompleted}
	manual := models.Match{Format: models.FormatManual, Status: models.MatchStatusPending}

	if !RoundRobinOnly([]models.Match{completed}) {
		t.Error("completed round-robin matches still count as round-robin")
	}
	if RoundRobinOnly([]models.Match{completed, manual}) {
		t.Error("a manual match should exclude the set")
	}
}
