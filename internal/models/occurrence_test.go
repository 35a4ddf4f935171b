package models

import (
	"testing"
	"time"
)

func TestCancellationContains(t *testing.T) {
	c := &SessionCancellation{
		StartDate: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC), true},
		// Time-of-day must not push the last day out of the range.
		{time.Date(2026, time.February, 14, 23, 30, 0, 0, time.UTC), true},
		{time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		if got := c.Contains(tt.date); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestOccurrenceRegistrationOpenAt(t *testing.T) {
	opens := time.Date(2026, time.March, 8, 18, 0, 0, 0, time.UTC)
	closes := time.Date(2026, time.March, 10, 16, 0, 0, 0, time.UTC)
	occ := &SessionOccurrence{RegistrationOpensAt: &opens, RegistrationClosesAt: &closes}

	if occ.RegistrationOpenAt(opens.Add(-time.Minute)) {
		t.Error("open before the window opens")
	}
	if !occ.RegistrationOpenAt(opens) {
		t.Error("closed at the opening instant")
	}
	if !occ.RegistrationOpenAt(closes) {
		t.Error("closed at the closing instant")
	}
	if occ.RegistrationOpenAt(closes.Add(time.Minute)) {
		t.Error("open after the window closes")
	}

	// League occurrences carry no window and are always open at this level.
	bare := &SessionOccurrence{}
	if !bare.RegistrationOpenAt(time.Now()) {
		t.Error("occurrence without a window should be open")
	}
}
