package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionOccurrence is one concrete dated instance of a LeagueSession.
// Unique per (session, date). LeagueID is denormalized from the template for
// direct lookup.
type SessionOccurrence struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	LeagueID  uuid.UUID `json:"league_id"`

	SessionDate time.Time `json:"session_date"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`

	// Per-occurrence registration window, computed for events only.
	RegistrationOpensAt  *time.Time `json:"registration_opens_at,omitempty"`
	RegistrationClosesAt *time.Time `json:"registration_closes_at,omitempty"`

	IsCancelled        bool   `json:"is_cancelled"`
	CancellationReason string `json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// RegistrationOpenAt reports whether this occurrence's registration window is
// open at now. Occurrences without a computed window (league sessions) are
// always open at this level; the league-level window applies instead.
func (o *SessionOccurrence) RegistrationOpenAt(now time.Time) bool {
	if o.RegistrationOpensAt != nil && now.Before(*o.RegistrationOpensAt) {
		return false
	}
	if o.RegistrationClosesAt != nil && now.After(*o.RegistrationClosesAt) {
		return false
	}
	return true
}

// SessionCancellation is a date-range override on a template: every
// occurrence dated inside [StartDate, EndDate] (inclusive) is blocked.
// Independent of per-occurrence cancellation flags.
type SessionCancellation struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

// Contains reports whether date falls inside the cancellation range,
// inclusive at both ends. Comparison is by calendar day.
func (c *SessionCancellation) Contains(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(truncateToDay(c.StartDate)) && !d.After(truncateToDay(c.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
