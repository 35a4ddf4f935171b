package models

import (
	"time"

	"github.com/google/uuid"
)

// LeagueStatus represents the lifecycle status of a league
type LeagueStatus string

const (
	LeagueStatusPending   LeagueStatus = "PENDING"
	LeagueStatusActive    LeagueStatus = "ACTIVE"
	LeagueStatusCompleted LeagueStatus = "COMPLETED"
	LeagueStatusCancelled LeagueStatus = "CANCELLED"
)

// League is either a season-long league (fixed enrollment) or a recurring
// drop-in event (per-session registration), distinguished by IsEvent.
type League struct {
	ID     uuid.UUID    `json:"id"`
	ClubID uuid.UUID    `json:"club_id"`
	Name   string       `json:"name"`
	Status LeagueStatus `json:"status"`

	// IsEvent flips the meaning of MaxParticipants and AllowReserves:
	// per-occurrence waitlist for events, season-wide reserve list for leagues.
	IsEvent bool `json:"is_event"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// Season-level registration window. Only consulted for leagues;
	// events derive per-occurrence windows from the hours-before settings.
	RegistrationStart *time.Time `json:"registration_start,omitempty"`
	RegistrationEnd   *time.Time `json:"registration_end,omitempty"`

	RegistrationOpensHoursBefore  int `json:"registration_opens_hours_before"`
	RegistrationClosesHoursBefore int `json:"registration_closes_hours_before"`

	MaxParticipants   *int       `json:"max_participants,omitempty"`
	AllowReserves     bool       `json:"allow_reserves"`
	MinimumSkillLevel SkillLevel `json:"minimum_skill_level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the league is currently running.
func (l *League) IsActive() bool {
	return l.Status == LeagueStatusActive
}

// RegistrationOpen reports whether season-level registration is open at now.
// The window is inclusive at calendar-day granularity on both ends, so a
// registration_end stored as a date keeps the whole end day open. A missing
// boundary is treated as unbounded on that side.
func (l *League) RegistrationOpen(now time.Time) bool {
	day := truncateToDay(now)
	if l.RegistrationStart != nil && day.Before(truncateToDay(*l.RegistrationStart)) {
		return false
	}
	if l.RegistrationEnd != nil && day.After(truncateToDay(*l.RegistrationEnd)) {
		return false
	}
	return true
}
