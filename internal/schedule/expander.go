package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/models"
)

// ExpandDates computes the occurrence dates for a session template within its
// active window. Deterministic: the same template and league always yield the
// same dates.
func ExpandDates(session *models.LeagueSession, league *models.League) []time.Time {
	switch session.Recurrence {
	case models.RecurrenceOnce:
		// A one-off session is anchored at the league start date, not the
		// template's own window.
		return []time.Time{dateOnly(league.StartDate)}
	case models.RecurrenceWeekly:
		return stepWeeks(session, league, session.Interval)
	case models.RecurrenceBiWeekly:
		return stepWeeks(session, league, session.Interval*2)
	case models.RecurrenceMonthly:
		return stepMonthly(session, league)
	default:
		return nil
	}
}

// stepWeeks scans forward from the window start to the first matching weekday,
// then steps by whole weeks until the window end.
func stepWeeks(session *models.LeagueSession, league *models.League, weeks int) []time.Time {
	from, until := session.Window(league)
	from, until = dateOnly(from), dateOnly(until)

	cur := nextWeekday(from, session.DayOfWeek)
	var dates []time.Time
	for !cur.After(until) {
		dates = append(dates, cur)
		cur = cur.AddDate(0, 0, weeks*7)
	}
	return dates
}

// stepMonthly steps interval*4 weeks from the previous date, then snaps
// forward to the next matching weekday. This is a calendar approximation,
// not true month arithmetic; see the open question in DESIGN.md before
// changing it.
func stepMonthly(session *models.LeagueSession, league *models.League) []time.Time {
	from, until := session.Window(league)
	from, until = dateOnly(from), dateOnly(until)

	cur := nextWeekday(from, session.DayOfWeek)
	var dates []time.Time
	for !cur.After(until) {
		dates = append(dates, cur)
		cur = nextWeekday(cur.AddDate(0, 0, session.Interval*28), session.DayOfWeek)
	}
	return dates
}

// BuildOccurrences expands a template into concrete occurrence rows, computing
// per-occurrence registration windows for events. The returned rows carry new
// IDs; persisting them replaces any prior expansion wholesale.
func BuildOccurrences(session *models.LeagueSession, league *models.League, now time.Time) []models.SessionOccurrence {
	dates := ExpandDates(session, league)
	occs := make([]models.SessionOccurrence, 0, len(dates))
	for _, date := range dates {
		occ := models.SessionOccurrence{
			ID:          uuid.New(),
			SessionID:   session.ID,
			LeagueID:    league.ID,
			SessionDate: date,
			StartsAt:    session.StartTime.On(date),
			EndsAt:      session.EndTime.On(date),
			CreatedAt:   now,
		}
		if league.IsEvent {
			opens := occ.StartsAt.Add(-time.Duration(league.RegistrationOpensHoursBefore) * time.Hour)
			closes := occ.StartsAt.Add(-time.Duration(league.RegistrationClosesHoursBefore) * time.Hour)
			occ.RegistrationOpensAt = &opens
			occ.RegistrationClosesAt = &closes
		}
		occs = append(occs, occ)
	}
	return occs
}

// nextWeekday returns the first date on or after t falling on the given
// weekday.
func nextWeekday(t time.Time, day time.Weekday) time.Time {
	offset := (int(day) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
