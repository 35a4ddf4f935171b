package participation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/models"
)

// Cascade is the attendance side effect a participation status change
// triggers.
type Cascade int

const (
	// CascadeNone leaves attendance rows untouched.
	CascadeNone Cascade = iota
	// CascadeCreateFuture creates an ATTENDING row per future occurrence.
	CascadeCreateFuture
	// CascadeDeleteAll removes every attendance row for the participation,
	// past rows included. See the retained-history open question in
	// DESIGN.md before changing this.
	CascadeDeleteAll
	// CascadeRemapFuture bulk-updates the status of future attendance rows.
	CascadeRemapFuture
)

// ClassifyTransition maps a participation status change to its attendance
// cascade:
//
//   - into ACTIVE from PENDING or CANCELLED: create future rows
//   - out of ACTIVE into PENDING or CANCELLED: delete all rows
//   - anything else: remap future rows via AttendanceFor, or no-op when the
//     new status has no attendance mapping
func ClassifyTransition(from, to models.ParticipationStatus) (Cascade, error) {
	if !validStatus(from) {
		return CascadeNone, fmt.Errorf("invalid participation status: %s", from)
	}
	if !validStatus(to) {
		return CascadeNone, fmt.Errorf("invalid participation status: %s", to)
	}

	if to == models.ParticipationActive && (from == models.ParticipationPending || from == models.ParticipationCancelled) {
		return CascadeCreateFuture, nil
	}
	if from == models.ParticipationActive && (to == models.ParticipationPending || to == models.ParticipationCancelled) {
		return CascadeDeleteAll, nil
	}
	if _, ok := AttendanceFor(to); ok {
		return CascadeRemapFuture, nil
	}
	return CascadeNone, nil
}

// ReuseEnrollment reports whether an admitted join must transition the
// user's existing enrollment row instead of inserting a fresh one, and
// returns the cascade for that transition. A league holds at most one
// participation row per user, so a row in any status, CANCELLED included,
// is reused on rejoin.
func ReuseEnrollment(existing *models.LeagueParticipation, decided models.ParticipationStatus) (Cascade, bool, error) {
	if existing == nil {
		return CascadeNone, false, nil
	}
	cascade, err := ClassifyTransition(existing.Status, decided)
	if err != nil {
		return CascadeNone, true, err
	}
	return cascade, true, nil
}

// ReviveAttendance flips a previously cancelled attendance row back to the
// decided status in place, clearing the day-of markers from its earlier
// life. The row keeps its identity so (participation, occurrence) stays
// one row.
func ReviveAttendance(a *models.LeagueAttendance, status models.AttendanceStatus, now time.Time) {
	a.Status = status
	a.CancelledAt = nil
	a.CheckedIn = false
	a.LeftAfterRound = nil
	a.ArrivedAtRound = nil
	a.UpdatedAt = now
}

// ValidateArrivalRound checks a late-arrival round against the row's stored
// markers. Arriving at or before a recorded leave round is contradictory.
func ValidateArrivalRound(a *models.LeagueAttendance, round int) error {
	if round < 1 {
		return fmt.Errorf("%w: arrival round %d", ErrInvalidRound, round)
	}
	if a.LeftAfterRound != nil && round <= *a.LeftAfterRound {
		return fmt.Errorf("%w: arrival round %d not after leave round %d", ErrInvalidRound, round, *a.LeftAfterRound)
	}
	return nil
}

// AttendanceFor returns the attendance status that mirrors a participation
// status in the remap cascade. PENDING and CANCELLED have no mapping: those
// statuses reach attendance only through the create/delete cascades.
func AttendanceFor(p models.ParticipationStatus) (models.AttendanceStatus, bool) {
	switch p {
	case models.ParticipationActive:
		return models.AttendanceAttending, true
	case models.ParticipationReserve:
		return models.AttendanceWaitlist, true
	case models.ParticipationInjured:
		return models.AttendanceAbsent, true
	case models.ParticipationHoliday:
		return models.AttendanceAbsent, true
	default:
		return "", false
	}
}

func validStatus(s models.ParticipationStatus) bool {
	switch s {
	case models.ParticipationPending, models.ParticipationActive, models.ParticipationReserve,
		models.ParticipationCancelled, models.ParticipationInjured, models.ParticipationHoliday:
		return true
	default:
		return false
	}
}

// FutureAttendancePlan computes the ATTENDING rows to insert when a
// participation activates: one per future occurrence (session date on or
// after today), skipping occurrences that already have a row. The existence
// check replaces insert-ignore so the plan is explicit and testable.
func FutureAttendancePlan(p *models.LeagueParticipation, occurrences []models.SessionOccurrence, existing []models.LeagueAttendance, now time.Time) []models.LeagueAttendance {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	have := make(map[uuid.UUID]bool, len(existing))
	for _, a := range existing {
		have[a.OccurrenceID] = true
	}

	var rows []models.LeagueAttendance
	for _, occ := range occurrences {
		if occ.SessionDate.Before(today) || have[occ.ID] {
			continue
		}
		rows = append(rows, models.LeagueAttendance{
			ID:              uuid.New(),
			ParticipationID: p.ID,
			OccurrenceID:    occ.ID,
			UserID:          p.UserID,
			Status:          models.AttendanceAttending,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return rows
}

// RemapPlan selects the attendance rows whose status changes in a remap
// cascade: future rows only, past rows stay untouched.
func RemapPlan(attendances []models.LeagueAttendance, occurrenceDates map[uuid.UUID]time.Time, now time.Time) []uuid.UUID {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var ids []uuid.UUID
	for _, a := range attendances {
		date, ok := occurrenceDates[a.OccurrenceID]
		if !ok || date.Before(today) {
			continue
		}
		ids = append(ids, a.ID)
	}
	return ids
}
