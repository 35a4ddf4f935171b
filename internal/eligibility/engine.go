package eligibility

import (
	"fmt"
	"time"

	"github.com/courtday/courtday/internal/models"
)

// Decision is the structured outcome of an eligibility check. Not-eligible is
// a decision, not an error: callers render Reason to the user.
type Decision struct {
	Allowed bool `json:"allowed"`

	// ParticipationStatus is set for league joins, AttendanceStatus for
	// event occurrence joins. The overflow variants (RESERVE, WAITLIST)
	// are the same mechanism under the two labels.
	ParticipationStatus models.ParticipationStatus `json:"participation_status,omitempty"`
	AttendanceStatus    models.AttendanceStatus    `json:"attendance_status,omitempty"`

	Reason string `json:"reason"`
}

// Reasons for rejected or qualified decisions.
const (
	ReasonRegistrationClosed = "registration is closed"
	ReasonMembershipInactive = "membership is not active"
	ReasonAlreadyJoined      = "already joined"
	ReasonFull               = "full"
	ReasonOK                 = "ok"
)

// LeagueJoinSnapshot carries everything needed to decide a season-level join,
// gathered by the app layer so the decision itself is pure.
type LeagueJoinSnapshot struct {
	League     *models.League
	Membership *models.ClubMembership

	// AlreadyJoined: an ACTIVE or RESERVE participation exists for this
	// (user, league).
	AlreadyJoined bool

	// ActiveCount is the season-wide count of ACTIVE participations.
	ActiveCount int

	Now time.Time
}

// EventJoinSnapshot carries everything needed to decide a per-occurrence join.
type EventJoinSnapshot struct {
	League     *models.League
	Membership *models.ClubMembership
	Occurrence *models.SessionOccurrence

	// AlreadyJoined: an ATTENDING or WAITLIST attendance exists for this
	// (user, occurrence).
	AlreadyJoined bool

	// AttendingCount is this occurrence's ATTENDING count.
	AttendingCount int

	Now time.Time
}

// EvaluateLeagueJoin decides whether the member may enroll in a season-long
// league, and as what status. Checks run in fixed order: membership, window,
// duplicate, skill, capacity.
func EvaluateLeagueJoin(s LeagueJoinSnapshot) Decision {
	if !s.Membership.IsActive() {
		return Decision{Reason: ReasonMembershipInactive}
	}
	if !s.League.RegistrationOpen(s.Now) {
		return Decision{Reason: ReasonRegistrationClosed}
	}
	if s.AlreadyJoined {
		return Decision{Reason: ReasonAlreadyJoined}
	}
	if reason, ok := checkSkill(s.League, s.Membership); !ok {
		return Decision{Reason: reason}
	}
	if s.League.MaxParticipants != nil && s.ActiveCount >= *s.League.MaxParticipants {
		if !s.League.AllowReserves {
			return Decision{Reason: ReasonFull}
		}
		return Decision{
			Allowed:             true,
			ParticipationStatus: models.ParticipationReserve,
			Reason: fmt.Sprintf("league is full (%d/%d), joining as reserve",
				s.ActiveCount, *s.League.MaxParticipants),
		}
	}
	return Decision{
		Allowed:             true,
		ParticipationStatus: models.ParticipationActive,
		Reason:              ReasonOK,
	}
}

// EvaluateEventJoin decides whether the member may register for one event
// occurrence, and as what status. Same check order as league joins, with the
// occurrence's own registration window and per-occurrence capacity.
func EvaluateEventJoin(s EventJoinSnapshot) Decision {
	if !s.Membership.IsActive() {
		return Decision{Reason: ReasonMembershipInactive}
	}
	if !s.Occurrence.RegistrationOpenAt(s.Now) {
		return Decision{Reason: ReasonRegistrationClosed}
	}
	if s.AlreadyJoined {
		return Decision{Reason: ReasonAlreadyJoined}
	}
	if reason, ok := checkSkill(s.League, s.Membership); !ok {
		return Decision{Reason: reason}
	}
	if s.League.MaxParticipants != nil && s.AttendingCount >= *s.League.MaxParticipants {
		if !s.League.AllowReserves {
			return Decision{Reason: ReasonFull}
		}
		return Decision{
			Allowed:          true,
			AttendanceStatus: models.AttendanceWaitlist,
			Reason: fmt.Sprintf("event is full (%d/%d), joining the waitlist",
				s.AttendingCount, *s.League.MaxParticipants),
		}
	}
	return Decision{
		Allowed:          true,
		AttendanceStatus: models.AttendanceAttending,
		Reason:           ReasonOK,
	}
}

// checkSkill applies the discrete skill requirement. Levels are a catalogue,
// not an ordered scale: only the exact level satisfies the requirement. The
// OPEN sentinel admits anyone, including members holding no levels at all.
func checkSkill(league *models.League, m *models.ClubMembership) (string, bool) {
	if league.MinimumSkillLevel == "" || league.MinimumSkillLevel == models.SkillLevelOpen {
		return "", true
	}
	if !m.HasLevel(league.MinimumSkillLevel) {
		return fmt.Sprintf("requires skill level %s", league.MinimumSkillLevel), false
	}
	return "", true
}
