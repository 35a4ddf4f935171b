package participation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/models"
)

func TestClassifyTransition(t *testing.T) {
	tests := []struct {
		from, to models.ParticipationStatus
		want     Cascade
	}{
		{models.ParticipationPending, models.ParticipationActive, CascadeCreateFuture},
		{models.ParticipationCancelled, models.ParticipationActive, CascadeCreateFuture},
		{models.ParticipationActive, models.ParticipationCancelled, CascadeDeleteAll},
		{models.ParticipationActive, models.ParticipationPending, CascadeDeleteAll},
		{models.ParticipationActive, models.ParticipationInjured, CascadeRemapFuture},
		{models.ParticipationActive, models.ParticipationHoliday, CascadeRemapFuture},
		{models.ParticipationActive, models.ParticipationReserve, CascadeRemapFuture},
		{models.ParticipationReserve, models.ParticipationActive, CascadeRemapFuture},
		{models.ParticipationInjured, models.ParticipationHoliday, CascadeRemapFuture},
		{models.ParticipationReserve, models.ParticipationCancelled, CascadeNone},
		{models.ParticipationPending, models.ParticipationPending, CascadeNone},
	}

	for _, tt := range tests {
		got, err := ClassifyTransition(tt.from, tt.to)
		if err != nil {
			t.Errorf("ClassifyTransition(%s, %s) returned error: %v", tt.from, tt.to, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ClassifyTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestClassifyTransitionRejectsUnknownStatus(t *testing.T) {
	if _, err := ClassifyTransition("BOGUS", models.ParticipationActive); err == nil {
		t.Error("expected error for unknown from status")
	}
	if _, err := ClassifyTransition(models.ParticipationActive, "BOGUS"); err == nil {
		t.Error("expected error for unknown to status")
	}
}

func TestReuseEnrollment(t *testing.T) {
	existing := func(s models.ParticipationStatus) *models.LeagueParticipation {
		return &models.LeagueParticipation{ID: uuid.New(), Status: s}
	}

	tests := []struct {
		name     string
		existing *models.LeagueParticipation
		decided  models.ParticipationStatus
		cascade  Cascade
		reuse    bool
	}{
		{"first join inserts", nil, models.ParticipationActive, CascadeNone, false},
		// A cancelled row is still the user's row; rejoin reactivates it
		// rather than inserting a second enrollment for the same league.
		{"rejoin after cancel", existing(models.ParticipationCancelled), models.ParticipationActive, CascadeCreateFuture, true},
		{"rejoin pending row", existing(models.ParticipationPending), models.ParticipationActive, CascadeCreateFuture, true},
		{"rejoin as reserve", existing(models.ParticipationCancelled), models.ParticipationReserve, CascadeRemapFuture, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cascade, reuse, err := ReuseEnrollment(tt.existing, tt.decided)
			if err != nil {
				t.Fatalf("ReuseEnrollment returned error: %v", err)
			}
			if reuse != tt.reuse || cascade != tt.cascade {
				t.Errorf("ReuseEnrollment = (%v, %v), want (%v, %v)", cascade, reuse, tt.cascade, tt.reuse)
			}
		})
	}

	if _, reuse, err := ReuseEnrollment(existing("BOGUS"), models.ParticipationActive); err == nil || !reuse {
		t.Error("expected reuse with error for an existing row in an unknown status")
	}
}

func TestReviveAttendance(t *testing.T) {
	left := 3
	arrived := 2
	cancelled := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)

	a := &models.LeagueAttendance{
		ID:              uuid.New(),
		ParticipationID: uuid.New(),
		OccurrenceID:    uuid.New(),
		Status:          models.AttendanceCancelled,
		CheckedIn:       true,
		LeftAfterRound:  &left,
		ArrivedAtRound:  &arrived,
		CancelledAt:     &cancelled,
	}
	id, participationID := a.ID, a.ParticipationID

	ReviveAttendance(a, models.AttendanceAttending, now)

	if a.ID != id || a.ParticipationID != participationID {
		t.Error("revive must keep the row's identity")
	}
	if a.Status != models.AttendanceAttending {
		t.Errorf("status = %s, want ATTENDING", a.Status)
	}
	if a.CancelledAt != nil || a.CheckedIn || a.LeftAfterRound != nil || a.ArrivedAtRound != nil {
		t.Error("revive must clear the cancellation and day-of markers")
	}
	if !a.UpdatedAt.Equal(now) {
		t.Errorf("updated_at = %v, want %v", a.UpdatedAt, now)
	}
}

func TestValidateArrivalRound(t *testing.T) {
	leftAfter := func(r int) *models.LeagueAttendance {
		return &models.LeagueAttendance{LeftAfterRound: &r}
	}

	tests := []struct {
		name  string
		att   *models.LeagueAttendance
		round int
		ok    bool
	}{
		{"round zero", &models.LeagueAttendance{}, 0, false},
		{"no leave marker", &models.LeagueAttendance{}, 2, true},
		// Leaving after round 3 and then arriving at round 2 contradicts
		// the stored markers.
		{"arrive before leave", leftAfter(3), 2, false},
		{"arrive at leave round", leftAfter(3), 3, false},
		{"arrive after leave", leftAfter(3), 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArrivalRound(tt.att, tt.round)
			if tt.ok && err != nil {
				t.Errorf("ValidateArrivalRound(%d) = %v, want nil", tt.round, err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatalf("ValidateArrivalRound(%d) = nil, want error", tt.round)
				}
				if !errors.Is(err, ErrInvalidRound) {
					t.Errorf("ValidateArrivalRound(%d) = %v, want ErrInvalidRound", tt.round, err)
				}
			}
		})
	}
}

func TestAttendanceFor(t *testing.T) {
	tests := []struct {
		status models.ParticipationStatus
		want   models.AttendanceStatus
		ok     bool
	}{
		{models.ParticipationActive, models.AttendanceAttending, true},
		{models.ParticipationReserve, models.AttendanceWaitlist, true},
		{models.ParticipationInjured, models.AttendanceAbsent, true},
		{models.ParticipationHoliday, models.AttendanceAbsent, true},
		{models.ParticipationPending, "", false},
		{models.ParticipationCancelled, "", false},
	}

	for _, tt := range tests {
		got, ok := AttendanceFor(tt.status)
		if got != tt.want || ok != tt.ok {
			t.Errorf("AttendanceFor(%s) = (%q, %v), want (%q, %v)", tt.status, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFutureAttendancePlan(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
	}

	p := &models.LeagueParticipation{
		ID:       uuid.New(),
		LeagueID: uuid.New(),
		UserID:   uuid.New(),
		Status:   models.ParticipationActive,
	}

	past := models.SessionOccurrence{ID: uuid.New(), SessionDate: day(3)}
	today := models.SessionOccurrence{ID: uuid.New(), SessionDate: day(10)}
	future := models.SessionOccurrence{ID: uuid.New(), SessionDate: day(17)}
	covered := models.SessionOccurrence{ID: uuid.New(), SessionDate: day(24)}

	existing := []models.LeagueAttendance{{
		ID:           uuid.New(),
		OccurrenceID: covered.ID,
	}}

	rows := FutureAttendancePlan(p, []models.SessionOccurrence{past, today, future, covered}, existing, now)
	if len(rows) != 2 {
		t.Fatalf("expected 2 planned rows, got %d", len(rows))
	}
	if rows[0].OccurrenceID != today.ID {
		t.Errorf("first planned row is for %v, want today's occurrence", rows[0].OccurrenceID)
	}
	if rows[1].OccurrenceID != future.ID {
		t.Errorf("second planned row is for %v, want the future occurrence", rows[1].OccurrenceID)
	}
	for _, row := range rows {
		if row.Status != models.AttendanceAttending {
			t.Errorf("planned status = %s, want ATTENDING", row.Status)
		}
		if row.ParticipationID != p.ID || row.UserID != p.UserID {
			t.Error("planned row not bound to the participation")
		}
	}
}

func TestRemapPlanFutureOnly(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	pastOcc := uuid.New()
	futureOcc := uuid.New()
	orphanOcc := uuid.New()

	attendances := []models.LeagueAttendance{
		{ID: uuid.New(), OccurrenceID: pastOcc},
		{ID: uuid.New(), OccurrenceID: futureOcc},
		{ID: uuid.New(), OccurrenceID: orphanOcc},
	}
	dates := map[uuid.UUID]time.Time{
		pastOcc:   time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
		futureOcc: time.Date(2026, time.March, 17, 0, 0, 0, 0, time.UTC),
	}

	ids := RemapPlan(attendances, dates, now)
	if len(ids) != 1 {
		t.Fatalf("expected 1 remapped row, got %d", len(ids))
	}
	if ids[0] != attendances[1].ID {
		t.Errorf("remapped row = %v, want the future attendance", ids[0])
	}
}
