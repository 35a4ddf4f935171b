package models

import (
	"testing"
	"time"
)

func TestLeagueRegistrationOpen(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		league League
		now    time.Time
		want   bool
	}{
		{
			name:   "no bounds is always open",
			league: League{},
			now:    time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC),
			want:   true,
		},
		{
			name:   "day before start",
			league: League{RegistrationStart: &start, RegistrationEnd: &end},
			now:    time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC),
			want:   false,
		},
		{
			name:   "start day",
			league: League{RegistrationStart: &start, RegistrationEnd: &end},
			now:    time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC),
			want:   true,
		},
		{
			// An end stored as a date (midnight) keeps the whole end day open.
			name:   "noon on the end day",
			league: League{RegistrationStart: &start, RegistrationEnd: &end},
			now:    time.Date(2026, time.January, 31, 12, 0, 0, 0, time.UTC),
			want:   true,
		},
		{
			name:   "last minute of the end day",
			league: League{RegistrationStart: &start, RegistrationEnd: &end},
			now:    time.Date(2026, time.January, 31, 23, 59, 0, 0, time.UTC),
			want:   true,
		},
		{
			name:   "day after end",
			league: League{RegistrationStart: &start, RegistrationEnd: &end},
			now:    time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			want:   false,
		},
		{
			name:   "open-ended past the start",
			league: League{RegistrationStart: &start},
			now:    time.Date(2026, time.July, 4, 10, 0, 0, 0, time.UTC),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.league.RegistrationOpen(tt.now); got != tt.want {
				t.Errorf("RegistrationOpen(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
