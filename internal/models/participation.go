package models

import (
	"time"

	"github.com/google/uuid"
)

// ParticipationStatus represents a user's season-level enrollment status
type ParticipationStatus string

const (
	ParticipationPending   ParticipationStatus = "PENDING"
	ParticipationActive    ParticipationStatus = "ACTIVE"
	ParticipationReserve   ParticipationStatus = "RESERVE"
	ParticipationCancelled ParticipationStatus = "CANCELLED"
	ParticipationInjured   ParticipationStatus = "INJURED"
	ParticipationHoliday   ParticipationStatus = "HOLIDAY"
)

// AttendanceStatus represents a user's status for one specific occurrence
type AttendanceStatus string

const (
	AttendanceAttending AttendanceStatus = "ATTENDING"
	AttendanceWaitlist  AttendanceStatus = "WAITLIST"
	AttendanceCancelled AttendanceStatus = "CANCELLED"
	AttendanceAbsent    AttendanceStatus = "ABSENT"
)

// LeagueParticipation is one user's enrollment in one league. One row per
// (user, league); per-occurrence state lives in LeagueAttendance.
type LeagueParticipation struct {
	ID       uuid.UUID `json:"id"`
	LeagueID uuid.UUID `json:"league_id"`
	UserID   uuid.UUID `json:"user_id"`

	Status ParticipationStatus `json:"status"`

	JoinedAt    time.Time  `json:"joined_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LeagueAttendance is one user's record for one occurrence. One row per
// (participation, occurrence); created and mutated only by the participation
// cascade or the per-occurrence join flow.
type LeagueAttendance struct {
	ID              uuid.UUID `json:"id"`
	ParticipationID uuid.UUID `json:"participation_id"`
	OccurrenceID    uuid.UUID `json:"occurrence_id"`
	UserID          uuid.UUID `json:"user_id"`

	Status    AttendanceStatus `json:"status"`
	CheckedIn bool             `json:"checked_in"`

	// Mid-session roster markers: the last round played before leaving, and
	// the first round joined when arriving late.
	LeftAfterRound *int `json:"left_after_round,omitempty"`
	ArrivedAtRound *int `json:"arrived_at_round,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// InRound reports whether this player is on court for the given round:
// checked in, already arrived, and not yet left.
func (a *LeagueAttendance) InRound(round int) bool {
	if !a.CheckedIn {
		return false
	}
	if a.ArrivedAtRound != nil && round < *a.ArrivedAtRound {
		return false
	}
	if a.LeftAfterRound != nil && round > *a.LeftAfterRound {
		return false
	}
	return true
}
