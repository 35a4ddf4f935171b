package eligibility

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/models"
)

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func activeMember(levels ...models.SkillLevel) *models.ClubMembership {
	return &models.ClubMembership{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		ClubID:      uuid.New(),
		Status:      models.MembershipStatusActive,
		SkillLevels: levels,
	}
}

func openLeague() *models.League {
	return &models.League{
		ID:                uuid.New(),
		Status:            models.LeagueStatusActive,
		MinimumSkillLevel: models.SkillLevelOpen,
	}
}

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestEvaluateLeagueJoin(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*LeagueJoinSnapshot)
		wantAllowed bool
		wantStatus  models.ParticipationStatus
		wantReason  string
	}{
		{
			name:        "open league admits as active",
			mutate:      func(s *LeagueJoinSnapshot) {},
			wantAllowed: true,
			wantStatus:  models.ParticipationActive,
			wantReason:  ReasonOK,
		},
		{
			name: "inactive membership checked before everything else",
			mutate: func(s *LeagueJoinSnapshot) {
				s.Membership.Status = models.MembershipStatusInactive
				s.League.RegistrationEnd = timePtr(testNow.Add(-24 * time.Hour))
				s.AlreadyJoined = true
			},
			wantReason: ReasonMembershipInactive,
		},
		{
			// The league window is day-granular, so the boundary sits a full
			// day away rather than an hour.
			name: "closed registration window",
			mutate: func(s *LeagueJoinSnapshot) {
				s.League.RegistrationEnd = timePtr(testNow.Add(-24 * time.Hour))
			},
			wantReason: ReasonRegistrationClosed,
		},
		{
			name: "registration not yet open",
			mutate: func(s *LeagueJoinSnapshot) {
				s.League.RegistrationStart = timePtr(testNow.Add(24 * time.Hour))
			},
			wantReason: ReasonRegistrationClosed,
		},
		{
			// An end stored as midnight keeps the whole end day open.
			name: "end day itself stays open",
			mutate: func(s *LeagueJoinSnapshot) {
				s.League.RegistrationEnd = timePtr(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
			},
			wantAllowed: true,
			wantStatus:  models.ParticipationActive,
			wantReason:  ReasonOK,
		},
		{
			name: "duplicate join",
			mutate: func(s *LeagueJoinSnapshot) {
				s.AlreadyJoined = true
			},
			wantReason: ReasonAlreadyJoined,
		},
		{
			name: "holding a different level does not satisfy the requirement",
			mutate: func(s *LeagueJoinSnapshot) {
				s.League.MinimumSkillLevel = "3.5"
				s.Membership.SkillLevels = []models.SkillLevel{"4.0"}
			},
			wantReason: "requires skill level 3.5",
		},
		{
			name: "exact level satisfies the requirement",
			mutate: func(s *LeagueJoinSnapshot) {
				s.League.MinimumSkillLevel = "3.5"
				s.Membership.SkillLevels = []models.SkillLevel{"3.0", "3.5"}
			},
			wantAllowed: true,
			wantStatus:  models.ParticipationActive,
			wantReason:  ReasonOK,
		},
		{
			name: "open league admits members with no levels",
			mutate: func(s *LeagueJoinSnapshot) {
				s.Membership.SkillLevels = nil
			},
			wantAllowed: true,
			wantStatus:  models.ParticipationActive,
			wantReason:  ReasonOK,
		},
		{
			name: "full without reserves rejects",
			mutate: func(s *LeagueJoinSnapshot) {
				s.League.MaxParticipants = intPtr(8)
				s.ActiveCount = 8
			},
			wantReason: ReasonFull,
		},
		{
			name: "full with reserves admits as reserve",
			mutate: func(s *LeagueJoinSnapshot) {
				s.League.MaxParticipants = intPtr(8)
				s.League.AllowReserves = true
				s.ActiveCount = 8
			},
			wantAllowed: true,
			wantStatus:  models.ParticipationReserve,
			wantReason:  "league is full (8/8), joining as reserve",
		},
		{
			name: "below capacity admits as active",
			mutate: func(s *LeagueJoinSnapshot) {
				s.League.MaxParticipants = intPtr(8)
				s.ActiveCount = 7
			},
			wantAllowed: true,
			wantStatus:  models.ParticipationActive,
			wantReason:  ReasonOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := LeagueJoinSnapshot{
				League:     openLeague(),
				Membership: activeMember("3.5"),
				Now:        testNow,
			}
			tt.mutate(&snapshot)

			d := EvaluateLeagueJoin(snapshot)
			if d.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", d.Allowed, tt.wantAllowed)
			}
			if d.ParticipationStatus != tt.wantStatus {
				t.Errorf("ParticipationStatus = %q, want %q", d.ParticipationStatus, tt.wantStatus)
			}
			if d.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", d.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateEventJoin(t *testing.T) {
	occurrence := func() *models.SessionOccurrence {
		return &models.SessionOccurrence{
			ID:                   uuid.New(),
			SessionDate:          testNow.Add(24 * time.Hour),
			StartsAt:             testNow.Add(30 * time.Hour),
			RegistrationOpensAt:  timePtr(testNow.Add(-18 * time.Hour)),
			RegistrationClosesAt: timePtr(testNow.Add(28 * time.Hour)),
		}
	}

	base := func() EventJoinSnapshot {
		league := openLeague()
		league.IsEvent = true
		return EventJoinSnapshot{
			League:     league,
			Membership: activeMember(),
			Occurrence: occurrence(),
			Now:        testNow,
		}
	}

	t.Run("open window admits as attending", func(t *testing.T) {
		d := EvaluateEventJoin(base())
		if !d.Allowed || d.AttendanceStatus != models.AttendanceAttending || d.Reason != ReasonOK {
			t.Errorf("got %+v, want attending/ok", d)
		}
	})

	t.Run("window not yet open", func(t *testing.T) {
		s := base()
		s.Occurrence.RegistrationOpensAt = timePtr(testNow.Add(time.Hour))
		d := EvaluateEventJoin(s)
		if d.Allowed || d.Reason != ReasonRegistrationClosed {
			t.Errorf("got %+v, want registration closed", d)
		}
	})

	t.Run("window already closed", func(t *testing.T) {
		s := base()
		s.Occurrence.RegistrationClosesAt = timePtr(testNow.Add(-time.Hour))
		d := EvaluateEventJoin(s)
		if d.Allowed || d.Reason != ReasonRegistrationClosed {
			t.Errorf("got %+v, want registration closed", d)
		}
	})

	t.Run("duplicate registration", func(t *testing.T) {
		s := base()
		s.AlreadyJoined = true
		d := EvaluateEventJoin(s)
		if d.Allowed || d.Reason != ReasonAlreadyJoined {
			t.Errorf("got %+v, want already joined", d)
		}
	})

	t.Run("full event with waitlist", func(t *testing.T) {
		s := base()
		s.League.MaxParticipants = intPtr(8)
		s.League.AllowReserves = true
		s.AttendingCount = 8
		d := EvaluateEventJoin(s)
		if !d.Allowed || d.AttendanceStatus != models.AttendanceWaitlist {
			t.Fatalf("got %+v, want waitlist admission", d)
		}
		if !strings.Contains(d.Reason, "8/8") {
			t.Errorf("Reason = %q, want the capacity count in it", d.Reason)
		}
	})

	t.Run("full event without waitlist", func(t *testing.T) {
		s := base()
		s.League.MaxParticipants = intPtr(8)
		s.AttendingCount = 8
		d := EvaluateEventJoin(s)
		if d.Allowed || d.Reason != ReasonFull {
			t.Errorf("got %+v, want full rejection", d)
		}
	})
}
