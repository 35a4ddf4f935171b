package schedule

import (
	"fmt"

	"github.com/courtday/courtday/internal/models"
)

// Reasons returned by ShouldRun, from least to most granular.
const (
	ReasonLeagueCancelled  = "league cancelled"
	ReasonSessionSuspended = "session permanently suspended"
	ReasonSessionCancelled = "session cancelled"
	ReasonSessionActive    = "session active"
)

// ShouldRun decides whether one occurrence goes ahead, checking the
// cancellation hierarchy in strict order and short-circuiting at the first
// blocking level:
//
//  1. league inactive
//  2. template suspended
//  3. this occurrence cancelled
//  4. a cancellation range containing the session date
func ShouldRun(league *models.League, session *models.LeagueSession, occ *models.SessionOccurrence, ranges []models.SessionCancellation) (bool, string) {
	if !league.IsActive() {
		return false, ReasonLeagueCancelled
	}
	if !session.Active {
		return false, ReasonSessionSuspended
	}
	if occ.IsCancelled {
		if occ.CancellationReason != "" {
			return false, occ.CancellationReason
		}
		return false, ReasonSessionCancelled
	}
	for _, r := range ranges {
		if r.Contains(occ.SessionDate) {
			return false, fmt.Sprintf("cancelled %s to %s: %s",
				r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"), r.Reason)
		}
	}
	return true, ReasonSessionActive
}
