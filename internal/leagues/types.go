package leagues

import (
	"time"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/models"
)

// CreateLeagueRequest represents the data needed to create a new league
type CreateLeagueRequest struct {
	ClubID                        uuid.UUID         `json:"club_id"`
	Name                          string            `json:"name"`
	IsEvent                       bool              `json:"is_event"`
	StartDate                     time.Time         `json:"start_date"`
	EndDate                       time.Time         `json:"end_date"`
	RegistrationStart             *time.Time        `json:"registration_start,omitempty"`
	RegistrationEnd               *time.Time        `json:"registration_end,omitempty"`
	RegistrationOpensHoursBefore  int               `json:"registration_opens_hours_before"`
	RegistrationClosesHoursBefore int               `json:"registration_closes_hours_before"`
	MaxParticipants               *int              `json:"max_participants,omitempty"`
	AllowReserves                 bool              `json:"allow_reserves"`
	MinimumSkillLevel             models.SkillLevel `json:"minimum_skill_level"`
}

// UpdateLeagueRequest represents the data that can be updated for a league
type UpdateLeagueRequest struct {
	Name                          string            `json:"name"`
	StartDate                     time.Time         `json:"start_date"`
	EndDate                       time.Time         `json:"end_date"`
	RegistrationStart             *time.Time        `json:"registration_start,omitempty"`
	RegistrationEnd               *time.Time        `json:"registration_end,omitempty"`
	RegistrationOpensHoursBefore  int               `json:"registration_opens_hours_before"`
	RegistrationClosesHoursBefore int               `json:"registration_closes_hours_before"`
	MaxParticipants               *int              `json:"max_participants,omitempty"`
	AllowReserves                 bool              `json:"allow_reserves"`
	MinimumSkillLevel             models.SkillLevel `json:"minimum_skill_level"`
	Status                        models.LeagueStatus `json:"status"`
}
