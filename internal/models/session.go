package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecurrenceKind represents how a session template repeats
type RecurrenceKind string

const (
	RecurrenceOnce     RecurrenceKind = "ONCE"
	RecurrenceWeekly   RecurrenceKind = "WEEKLY"
	RecurrenceBiWeekly RecurrenceKind = "BI_WEEKLY"
	RecurrenceMonthly  RecurrenceKind = "MONTHLY"
)

// TimeOfDay is a wall-clock time without a date, stored as "HH:MM".
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay parses "HH:MM" in 24-hour form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String returns the "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On anchors the time of day to the given date, keeping the date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// LeagueSession is the recurring schedule template a league plays under:
// which weekday, what time, how many courts, and how it repeats. Occurrences
// are always expanded from a template, never created ad hoc.
type LeagueSession struct {
	ID       uuid.UUID `json:"id"`
	LeagueID uuid.UUID `json:"league_id"`

	DayOfWeek  time.Weekday `json:"day_of_week"`
	StartTime  TimeOfDay    `json:"start_time"`
	EndTime    TimeOfDay    `json:"end_time"`
	CourtCount int          `json:"court_count"`

	Recurrence RecurrenceKind `json:"recurrence"`
	Interval   int            `json:"interval"`

	// Active sub-window within the league season. Nil means the league's
	// own season boundary applies.
	ActiveFrom  *time.Time `json:"active_from,omitempty"`
	ActiveUntil *time.Time `json:"active_until,omitempty"`

	Active bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Window resolves the template's active date window, falling back to the
// league season for any missing boundary.
func (s *LeagueSession) Window(league *League) (time.Time, time.Time) {
	from, until := league.StartDate, league.EndDate
	if s.ActiveFrom != nil {
		from = *s.ActiveFrom
	}
	if s.ActiveUntil != nil {
		until = *s.ActiveUntil
	}
	return from, until
}
