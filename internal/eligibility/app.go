package eligibility

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/courtday/courtday/internal/models"
)

// LeagueStore defines what the eligibility app needs from the leagues layer.
type LeagueStore interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
}

// OccurrenceStore defines what the eligibility app needs from the schedule
// layer.
type OccurrenceStore interface {
	GetOccurrence(ctx context.Context, id uuid.UUID) (*models.SessionOccurrence, error)
}

// MembershipProvider is the external membership system boundary: status plus
// assigned skill levels, nothing more.
type MembershipProvider interface {
	GetMembership(ctx context.Context, userID, clubID uuid.UUID) (*models.ClubMembership, error)
}

// EnrollmentStore supplies the duplicate and capacity lookups the engine
// needs.
type EnrollmentStore interface {
	HasActiveEnrollment(ctx context.Context, userID, leagueID uuid.UUID) (bool, error)
	CountActiveByLeague(ctx context.Context, leagueID uuid.UUID) (int, error)
	HasActiveAttendance(ctx context.Context, userID, occurrenceID uuid.UUID) (bool, error)
	CountAttendingByOccurrence(ctx context.Context, occurrenceID uuid.UUID) (int, error)
}

// Enroller materializes an admitted join; implemented by the participation
// app so every admission flows through the state machine.
type Enroller interface {
	Join(ctx context.Context, leagueID, userID uuid.UUID, status models.ParticipationStatus) (*models.LeagueParticipation, error)
	JoinOccurrence(ctx context.Context, occurrenceID, userID uuid.UUID, status models.AttendanceStatus) (*models.LeagueAttendance, error)
}

// App gathers the data a join decision needs and evaluates it. The decision
// itself is pure; a rejected join is a decision outcome, never an error.
type App struct {
	leagues     LeagueStore
	occurrences OccurrenceStore
	memberships MembershipProvider
	enrollments EnrollmentStore
	enroller    Enroller
	clock       clockwork.Clock
}

// NewApp creates a new eligibility App.
func NewApp(leagues LeagueStore, occurrences OccurrenceStore, memberships MembershipProvider, enrollments EnrollmentStore, enroller Enroller, clock clockwork.Clock) *App {
	return &App{
		leagues:     leagues,
		occurrences: occurrences,
		memberships: memberships,
		enrollments: enrollments,
		enroller:    enroller,
		clock:       clock,
	}
}

// CanJoinLeague decides whether the user may enroll in a season-long league.
func (a *App) CanJoinLeague(ctx context.Context, leagueID, userID uuid.UUID) (Decision, error) {
	snapshot, err := a.leagueSnapshot(ctx, leagueID, userID)
	if err != nil {
		return Decision{}, err
	}
	return EvaluateLeagueJoin(snapshot), nil
}

// CanJoinOccurrence decides whether the user may register for one event
// occurrence.
func (a *App) CanJoinOccurrence(ctx context.Context, occurrenceID, userID uuid.UUID) (Decision, error) {
	snapshot, err := a.eventSnapshot(ctx, occurrenceID, userID)
	if err != nil {
		return Decision{}, err
	}
	return EvaluateEventJoin(snapshot), nil
}

// JoinLeague evaluates and, when admitted, enrolls the user with the decided
// status.
func (a *App) JoinLeague(ctx context.Context, leagueID, userID uuid.UUID) (Decision, *models.LeagueParticipation, error) {
	decision, err := a.CanJoinLeague(ctx, leagueID, userID)
	if err != nil {
		return Decision{}, nil, err
	}
	if !decision.Allowed {
		log.Info().
			Str("league_id", leagueID.String()).
			Str("user_id", userID.String()).
			Str("reason", decision.Reason).
			Msg("league join rejected")
		return decision, nil, nil
	}

	p, err := a.enroller.Join(ctx, leagueID, userID, decision.ParticipationStatus)
	if err != nil {
		return Decision{}, nil, fmt.Errorf("failed to enroll: %w", err)
	}
	return decision, p, nil
}

// JoinOccurrence evaluates and, when admitted, registers the user for the
// occurrence with the decided status.
func (a *App) JoinOccurrence(ctx context.Context, occurrenceID, userID uuid.UUID) (Decision, *models.LeagueAttendance, error) {
	decision, err := a.CanJoinOccurrence(ctx, occurrenceID, userID)
	if err != nil {
		return Decision{}, nil, err
	}
	if !decision.Allowed {
		log.Info().
			Str("occurrence_id", occurrenceID.String()).
			Str("user_id", userID.String()).
			Str("reason", decision.Reason).
			Msg("occurrence join rejected")
		return decision, nil, nil
	}

	att, err := a.enroller.JoinOccurrence(ctx, occurrenceID, userID, decision.AttendanceStatus)
	if err != nil {
		return Decision{}, nil, fmt.Errorf("failed to register: %w", err)
	}
	return decision, att, nil
}

func (a *App) leagueSnapshot(ctx context.Context, leagueID, userID uuid.UUID) (LeagueJoinSnapshot, error) {
	league, err := a.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return LeagueJoinSnapshot{}, fmt.Errorf("league not found: %w", err)
	}
	membership, err := a.memberships.GetMembership(ctx, userID, league.ClubID)
	if err != nil {
		return LeagueJoinSnapshot{}, fmt.Errorf("membership lookup failed: %w", err)
	}
	joined, err := a.enrollments.HasActiveEnrollment(ctx, userID, leagueID)
	if err != nil {
		return LeagueJoinSnapshot{}, err
	}
	count, err := a.enrollments.CountActiveByLeague(ctx, leagueID)
	if err != nil {
		return LeagueJoinSnapshot{}, err
	}
	return LeagueJoinSnapshot{
		League:        league,
		Membership:    membership,
		AlreadyJoined: joined,
		ActiveCount:   count,
		Now:           a.clock.Now(),
	}, nil
}

func (a *App) eventSnapshot(ctx context.Context, occurrenceID, userID uuid.UUID) (EventJoinSnapshot, error) {
	occ, err := a.occurrences.GetOccurrence(ctx, occurrenceID)
	if err != nil {
		return EventJoinSnapshot{}, fmt.Errorf("occurrence not found: %w", err)
	}
	league, err := a.leagues.GetLeague(ctx, occ.LeagueID)
	if err != nil {
		return EventJoinSnapshot{}, fmt.Errorf("league not found: %w", err)
	}
	if !league.IsEvent {
		return EventJoinSnapshot{}, fmt.Errorf("league %s is not an event; join at the season level", league.ID)
	}
	membership, err := a.memberships.GetMembership(ctx, userID, league.ClubID)
	if err != nil {
		return EventJoinSnapshot{}, fmt.Errorf("membership lookup failed: %w", err)
	}
	joined, err := a.enrollments.HasActiveAttendance(ctx, userID, occurrenceID)
	if err != nil {
		return EventJoinSnapshot{}, err
	}
	count, err := a.enrollments.CountAttendingByOccurrence(ctx, occurrenceID)
	if err != nil {
		return EventJoinSnapshot{}, err
	}
	return EventJoinSnapshot{
		League:         league,
		Membership:     membership,
		Occurrence:     occ,
		AlreadyJoined:  joined,
		AttendingCount: count,
		Now:            a.clock.Now(),
	}, nil
}
