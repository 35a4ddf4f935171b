package models

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "18:30", want: TimeOfDay{Hour: 18, Minute: 30}},
		{in: "00:00", want: TimeOfDay{}},
		{in: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{in: "24:00", wantErr: true},
		{in: "6pm", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if got.String() != tt.in {
			t.Errorf("round-trip %q -> %q", tt.in, got.String())
		}
	}
}

func TestTimeOfDayOn(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	date := time.Date(2026, time.January, 7, 0, 0, 0, 0, loc)

	got := TimeOfDay{Hour: 18, Minute: 30}.On(date)
	want := time.Date(2026, time.January, 7, 18, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("On = %v, want %v", got, want)
	}
}

func TestSessionWindow(t *testing.T) {
	league := &League{
		StartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
	}

	s := &LeagueSession{}
	from, until := s.Window(league)
	if !from.Equal(league.StartDate) || !until.Equal(league.EndDate) {
		t.Errorf("default window = %v..%v, want the league season", from, until)
	}

	customFrom := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	s.ActiveFrom = &customFrom
	from, until = s.Window(league)
	if !from.Equal(customFrom) {
		t.Errorf("from = %v, want the template override", from)
	}
	if !until.Equal(league.EndDate) {
		t.Errorf("until = %v, want the league season end", until)
	}
}
