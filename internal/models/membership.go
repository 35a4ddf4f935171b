package models

import (
	"github.com/google/uuid"
)

// SkillLevel is a discrete level code from the club's catalogue (e.g. "3.5").
// Levels are not ordered: a requirement is satisfied only by holding the exact
// level, never by holding a "higher" one.
type SkillLevel string

// SkillLevelOpen is the sentinel meaning a league has no skill requirement.
const SkillLevelOpen SkillLevel = "OPEN"

// MembershipStatus represents the status of a club membership
type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "ACTIVE"
	MembershipStatusInactive MembershipStatus = "INACTIVE"
)

// ClubMembership is the slice of the external membership provider the engine
// needs: active/inactive status plus the member's assigned skill levels.
type ClubMembership struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	ClubID      uuid.UUID        `json:"club_id"`
	Status      MembershipStatus `json:"status"`
	SkillLevels []SkillLevel     `json:"skill_levels"`
}

// IsActive reports whether the membership is active.
func (m *ClubMembership) IsActive() bool {
	return m.Status == MembershipStatusActive
}

// HasLevel reports whether the member holds the given skill level.
func (m *ClubMembership) HasLevel(level SkillLevel) bool {
	for _, l := range m.SkillLevels {
		if l == level {
			return true
		}
	}
	return false
}
