package models

import "testing"

func TestAttendanceInRound(t *testing.T) {
	two, three := 2, 3

	tests := []struct {
		name  string
		att   LeagueAttendance
		round int
		want  bool
	}{
		{"not checked in", LeagueAttendance{CheckedIn: false}, 1, false},
		{"checked in plays", LeagueAttendance{CheckedIn: true}, 1, true},
		{"before late arrival", LeagueAttendance{CheckedIn: true, ArrivedAtRound: &three}, 2, false},
		{"from arrival round", LeagueAttendance{CheckedIn: true, ArrivedAtRound: &three}, 3, true},
		{"through leave round", LeagueAttendance{CheckedIn: true, LeftAfterRound: &two}, 2, true},
		{"after leaving", LeagueAttendance{CheckedIn: true, LeftAfterRound: &two}, 3, false},
		{"window both sides", LeagueAttendance{CheckedIn: true, ArrivedAtRound: &two, LeftAfterRound: &three}, 2, true},
		{"outside window", LeagueAttendance{CheckedIn: true, ArrivedAtRound: &two, LeftAfterRound: &three}, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.att.InRound(tt.round); got != tt.want {
				t.Errorf("InRound(%d) = %v, want %v", tt.round, got, tt.want)
			}
		})
	}
}
