package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testLeague() *models.League {
	return &models.League{
		ID:        uuid.New(),
		Status:    models.LeagueStatusActive,
		StartDate: date(2026, time.January, 5),
		EndDate:   date(2026, time.March, 1),
	}
}

func testSession(recurrence models.RecurrenceKind, interval int) *models.LeagueSession {
	return &models.LeagueSession{
		ID:         uuid.New(),
		DayOfWeek:  time.Wednesday,
		StartTime:  models.TimeOfDay{Hour: 18, Minute: 0},
		EndTime:    models.TimeOfDay{Hour: 20, Minute: 0},
		CourtCount: 2,
		Recurrence: recurrence,
		Interval:   interval,
		Active:     true,
	}
}

func TestExpandDatesWeekly(t *testing.T) {
	league := testLeague()
	session := testSession(models.RecurrenceWeekly, 1)

	dates := ExpandDates(session, league)
	if len(dates) != 8 {
		t.Fatalf("expected 8 weekly dates, got %d: %v", len(dates), dates)
	}
	if !dates[0].Equal(date(2026, time.January, 7)) {
		t.Errorf("first date = %v, want 2026-01-07", dates[0])
	}
	if !dates[7].Equal(date(2026, time.February, 25)) {
		t.Errorf("last date = %v, want 2026-02-25", dates[7])
	}
	for _, d := range dates {
		if d.Weekday() != time.Wednesday {
			t.Errorf("date %v is not a Wednesday", d)
		}
		if d.Before(league.StartDate) || d.After(league.EndDate) {
			t.Errorf("date %v falls outside the league season", d)
		}
	}
}

func TestExpandDatesBiWeekly(t *testing.T) {
	league := testLeague()
	session := testSession(models.RecurrenceBiWeekly, 1)

	dates := ExpandDates(session, league)
	if len(dates) != 4 {
		t.Fatalf("expected 4 bi-weekly dates, got %d: %v", len(dates), dates)
	}
	for i := 1; i < len(dates); i++ {
		if gap := dates[i].Sub(dates[i-1]); gap != 14*24*time.Hour {
			t.Errorf("gap between %v and %v = %v, want 14 days", dates[i-1], dates[i], gap)
		}
	}
}

func TestExpandDatesWeeklyInterval(t *testing.T) {
	league := testLeague()
	weekly2 := testSession(models.RecurrenceWeekly, 2)
	biweekly := testSession(models.RecurrenceBiWeekly, 1)

	a := ExpandDates(weekly2, league)
	b := ExpandDates(biweekly, league)
	if len(a) != len(b) {
		t.Fatalf("weekly interval 2 produced %d dates, bi-weekly interval 1 produced %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Errorf("date %d: weekly interval 2 = %v, bi-weekly = %v", i, a[i], b[i])
		}
	}
}

func TestExpandDatesOnce(t *testing.T) {
	league := testLeague()
	session := testSession(models.RecurrenceOnce, 1)

	// A one-off anchors at the league start regardless of its own window.
	from := date(2026, time.February, 1)
	session.ActiveFrom = &from

	dates := ExpandDates(session, league)
	if len(dates) != 1 {
		t.Fatalf("expected 1 date for a one-off, got %d", len(dates))
	}
	if !dates[0].Equal(date(2026, time.January, 5)) {
		t.Errorf("one-off date = %v, want the league start date", dates[0])
	}
}

func TestExpandDatesMonthly(t *testing.T) {
	league := testLeague()
	league.EndDate = date(2026, time.April, 30)
	session := testSession(models.RecurrenceMonthly, 1)

	dates := ExpandDates(session, league)
	if len(dates) != 5 {
		t.Fatalf("expected 5 monthly dates, got %d: %v", len(dates), dates)
	}
	for i, d := range dates {
		if d.Weekday() != time.Wednesday {
			t.Errorf("date %v is not a Wednesday", d)
		}
		if i > 0 {
			if gap := d.Sub(dates[i-1]); gap < 28*24*time.Hour {
				t.Errorf("gap between %v and %v = %v, want at least 28 days", dates[i-1], d, gap)
			}
		}
	}
}

func TestExpandDatesSessionWindow(t *testing.T) {
	league := testLeague()
	league.EndDate = date(2026, time.June, 30)
	session := testSession(models.RecurrenceWeekly, 1)
	from := date(2026, time.February, 1)
	until := date(2026, time.February, 28)
	session.ActiveFrom = &from
	session.ActiveUntil = &until

	dates := ExpandDates(session, league)
	if len(dates) == 0 {
		t.Fatal("expected dates inside the session window")
	}
	for _, d := range dates {
		if d.Before(from) || d.After(until) {
			t.Errorf("date %v falls outside the session window", d)
		}
	}
}

func TestExpandDatesDeterministic(t *testing.T) {
	league := testLeague()
	session := testSession(models.RecurrenceWeekly, 1)

	a := ExpandDates(session, league)
	b := ExpandDates(session, league)
	if len(a) != len(b) {
		t.Fatalf("expansion is not deterministic: %d vs %d dates", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Errorf("date %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBuildOccurrencesTimes(t *testing.T) {
	league := testLeague()
	session := testSession(models.RecurrenceWeekly, 1)
	now := date(2026, time.January, 1)

	occs := BuildOccurrences(session, league, now)
	if len(occs) != 8 {
		t.Fatalf("expected 8 occurrences, got %d", len(occs))
	}

	first := occs[0]
	wantStart := time.Date(2026, time.January, 7, 18, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, time.January, 7, 20, 0, 0, 0, time.UTC)
	if !first.StartsAt.Equal(wantStart) {
		t.Errorf("StartsAt = %v, want %v", first.StartsAt, wantStart)
	}
	if !first.EndsAt.Equal(wantEnd) {
		t.Errorf("EndsAt = %v, want %v", first.EndsAt, wantEnd)
	}
	if first.RegistrationOpensAt != nil || first.RegistrationClosesAt != nil {
		t.Error("league occurrence should not carry a per-occurrence registration window")
	}
}

func TestBuildOccurrencesEventWindows(t *testing.T) {
	league := testLeague()
	league.IsEvent = true
	league.RegistrationOpensHoursBefore = 48
	league.RegistrationClosesHoursBefore = 2
	session := testSession(models.RecurrenceWeekly, 1)
	now := date(2026, time.January, 1)

	occs := BuildOccurrences(session, league, now)
	for _, occ := range occs {
		if occ.RegistrationOpensAt == nil || occ.RegistrationClosesAt == nil {
			t.Fatal("event occurrence missing registration window")
		}
		if want := occ.StartsAt.Add(-48 * time.Hour); !occ.RegistrationOpensAt.Equal(want) {
			t.Errorf("RegistrationOpensAt = %v, want %v", occ.RegistrationOpensAt, want)
		}
		if want := occ.StartsAt.Add(-2 * time.Hour); !occ.RegistrationClosesAt.Equal(want) {
			t.Errorf("RegistrationClosesAt = %v, want %v", occ.RegistrationClosesAt, want)
		}
	}
}
