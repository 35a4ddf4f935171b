package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/models"
)

// CreateSessionRequest represents the data needed to create a session template
type CreateSessionRequest struct {
	LeagueID    uuid.UUID             `json:"league_id"`
	DayOfWeek   time.Weekday          `json:"day_of_week"`
	StartTime   models.TimeOfDay      `json:"start_time"`
	EndTime     models.TimeOfDay      `json:"end_time"`
	CourtCount  int                   `json:"court_count"`
	Recurrence  models.RecurrenceKind `json:"recurrence"`
	Interval    int                   `json:"interval"`
	ActiveFrom  *time.Time            `json:"active_from,omitempty"`
	ActiveUntil *time.Time            `json:"active_until,omitempty"`
}

// UpdateSessionRequest represents the editable fields of a session template.
// Saving it triggers a full re-expansion of the template's occurrences.
type UpdateSessionRequest struct {
	DayOfWeek   time.Weekday          `json:"day_of_week"`
	StartTime   models.TimeOfDay      `json:"start_time"`
	EndTime     models.TimeOfDay      `json:"end_time"`
	CourtCount  int                   `json:"court_count"`
	Recurrence  models.RecurrenceKind `json:"recurrence"`
	Interval    int                   `json:"interval"`
	ActiveFrom  *time.Time            `json:"active_from,omitempty"`
	ActiveUntil *time.Time            `json:"active_until,omitempty"`
	Active      bool                  `json:"active"`
}

// AddCancellationRequest represents a date-range cancellation on a template
type AddCancellationRequest struct {
	SessionID uuid.UUID `json:"session_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

// RunDecision is the outcome of the cancellation hierarchy for one occurrence
type RunDecision struct {
	Runs   bool   `json:"runs"`
	Reason string `json:"reason"`
}
