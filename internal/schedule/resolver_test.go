package schedule

import (
	"testing"
	"time"

	"github.com/courtday/courtday/internal/models"
)

func TestShouldRunHierarchy(t *testing.T) {
	ranges := []models.SessionCancellation{{
		StartDate: date(2026, time.February, 1),
		EndDate:   date(2026, time.February, 14),
		Reason:    "holiday break",
	}}

	tests := []struct {
		name         string
		leagueStatus models.LeagueStatus
		sessionOn    bool
		occCancelled bool
		occReason    string
		sessionDate  time.Time
		wantRuns     bool
		wantReason   string
	}{
		{
			name:         "league cancelled wins over everything",
			leagueStatus: models.LeagueStatusCancelled,
			sessionOn:    false,
			occCancelled: true,
			occReason:    "rain",
			sessionDate:  date(2026, time.February, 4),
			wantRuns:     false,
			wantReason:   ReasonLeagueCancelled,
		},
		{
			name:         "pending league blocks occurrences",
			leagueStatus: models.LeagueStatusPending,
			sessionOn:    true,
			sessionDate:  date(2026, time.January, 7),
			wantRuns:     false,
			wantReason:   ReasonLeagueCancelled,
		},
		{
			name:         "suspended template wins over occurrence state",
			leagueStatus: models.LeagueStatusActive,
			sessionOn:    false,
			occCancelled: true,
			occReason:    "rain",
			sessionDate:  date(2026, time.February, 4),
			wantRuns:     false,
			wantReason:   ReasonSessionSuspended,
		},
		{
			name:         "cancelled occurrence reports its stored reason",
			leagueStatus: models.LeagueStatusActive,
			sessionOn:    true,
			occCancelled: true,
			occReason:    "rain",
			sessionDate:  date(2026, time.January, 7),
			wantRuns:     false,
			wantReason:   "rain",
		},
		{
			name:         "cancelled occurrence without a reason",
			leagueStatus: models.LeagueStatusActive,
			sessionOn:    true,
			occCancelled: true,
			sessionDate:  date(2026, time.January, 7),
			wantRuns:     false,
			wantReason:   ReasonSessionCancelled,
		},
		{
			name:         "date on range start is blocked",
			leagueStatus: models.LeagueStatusActive,
			sessionOn:    true,
			sessionDate:  date(2026, time.February, 1),
			wantRuns:     false,
			wantReason:   "cancelled 2026-02-01 to 2026-02-14: holiday break",
		},
		{
			name:         "date on range end is blocked",
			leagueStatus: models.LeagueStatusActive,
			sessionOn:    true,
			sessionDate:  date(2026, time.February, 14),
			wantRuns:     false,
			wantReason:   "cancelled 2026-02-01 to 2026-02-14: holiday break",
		},
		{
			name:         "day after range end runs",
			leagueStatus: models.LeagueStatusActive,
			sessionOn:    true,
			sessionDate:  date(2026, time.February, 15),
			wantRuns:     true,
			wantReason:   ReasonSessionActive,
		},
		{
			name:         "clear occurrence runs",
			leagueStatus: models.LeagueStatusActive,
			sessionOn:    true,
			sessionDate:  date(2026, time.January, 7),
			wantRuns:     true,
			wantReason:   ReasonSessionActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			league := testLeague()
			league.Status = tt.leagueStatus
			session := testSession(models.RecurrenceWeekly, 1)
			session.Active = tt.sessionOn
			occ := &models.SessionOccurrence{
				SessionDate:        tt.sessionDate,
				IsCancelled:        tt.occCancelled,
				CancellationReason: tt.occReason,
			}

			runs, reason := ShouldRun(league, session, occ, ranges)
			if runs != tt.wantRuns {
				t.Errorf("runs = %v, want %v", runs, tt.wantRuns)
			}
			if reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}
