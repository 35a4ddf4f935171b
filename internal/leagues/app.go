package leagues

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/courtday/courtday/internal/models"
)

// ErrValidation wraps request validation failures.
var ErrValidation = errors.New("validation failed")

// LeaguesRepository defines what the app layer needs from the repository
type LeaguesRepository interface {
	CreateLeague(ctx context.Context, l *models.League) error
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	ListLeaguesByClub(ctx context.Context, clubID uuid.UUID) ([]models.League, error)
	UpdateLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus, now time.Time) error
	UpdateLeague(ctx context.Context, l *models.League) error
	DeleteLeague(ctx context.Context, id uuid.UUID) error
}

// App handles league business logic
type App struct {
	repo  LeaguesRepository
	clock clockwork.Clock
}

// NewApp creates a new leagues App
func NewApp(repo LeaguesRepository, clock clockwork.Clock) *App {
	return &App{repo: repo, clock: clock}
}

// CreateLeague creates a new league with validation
func (a *App) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error) {
	if err := a.validateCreateLeagueRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := a.clock.Now()
	league := &models.League{
		ID:                            uuid.New(),
		ClubID:                        req.ClubID,
		Name:                          req.Name,
		Status:                        models.LeagueStatusPending,
		IsEvent:                       req.IsEvent,
		StartDate:                     req.StartDate,
		EndDate:                       req.EndDate,
		RegistrationStart:             req.RegistrationStart,
		RegistrationEnd:               req.RegistrationEnd,
		RegistrationOpensHoursBefore:  req.RegistrationOpensHoursBefore,
		RegistrationClosesHoursBefore: req.RegistrationClosesHoursBefore,
		MaxParticipants:               req.MaxParticipants,
		AllowReserves:                 req.AllowReserves,
		MinimumSkillLevel:             req.MinimumSkillLevel,
		CreatedAt:                     now,
		UpdatedAt:                     now,
	}
	if league.MinimumSkillLevel == "" {
		league.MinimumSkillLevel = models.SkillLevelOpen
	}

	if err := a.repo.CreateLeague(ctx, league); err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	log.Info().
		Str("league_id", league.ID.String()).
		Str("name", league.Name).
		Bool("is_event", league.IsEvent).
		Msg("created league")
	return league, nil
}

// GetLeague retrieves a league by ID
func (a *App) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	league, err := a.repo.GetLeague(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return league, nil
}

// ListLeaguesByClub retrieves all leagues for a club
func (a *App) ListLeaguesByClub(ctx context.Context, clubID uuid.UUID) ([]models.League, error) {
	out, err := a.repo.ListLeaguesByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	return out, nil
}

// UpdateLeague updates an existing league with validation
func (a *App) UpdateLeague(ctx context.Context, id uuid.UUID, req UpdateLeagueRequest) (*models.League, error) {
	if err := a.validateUpdateLeagueRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	league, err := a.repo.GetLeague(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}

	league.Name = req.Name
	league.Status = req.Status
	league.StartDate = req.StartDate
	league.EndDate = req.EndDate
	league.RegistrationStart = req.RegistrationStart
	league.RegistrationEnd = req.RegistrationEnd
	league.RegistrationOpensHoursBefore = req.RegistrationOpensHoursBefore
	league.RegistrationClosesHoursBefore = req.RegistrationClosesHoursBefore
	league.MaxParticipants = req.MaxParticipants
	league.AllowReserves = req.AllowReserves
	league.MinimumSkillLevel = req.MinimumSkillLevel
	league.UpdatedAt = a.clock.Now()

	if err := a.repo.UpdateLeague(ctx, league); err != nil {
		return nil, fmt.Errorf("failed to update league: %w", err)
	}

	log.Info().Str("league_id", league.ID.String()).Msg("updated league")
	return league, nil
}

// SetLeagueStatus moves a league through its lifecycle.
func (a *App) SetLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus) error {
	switch status {
	case models.LeagueStatusPending, models.LeagueStatusActive, models.LeagueStatusCompleted, models.LeagueStatusCancelled:
	default:
		return fmt.Errorf("%w: invalid league status: %s", ErrValidation, status)
	}

	if err := a.repo.UpdateLeagueStatus(ctx, id, status, a.clock.Now()); err != nil {
		return err
	}
	log.Info().Str("league_id", id.String()).Str("status", string(status)).Msg("league status changed")
	return nil
}

// DeleteLeaguedeletes a league by ID
func (a *App) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	league, err := a.repo.GetLeague(ctx, id)
	if err != nil {
		return fmt.Errorf("league not found: %w", err)
	}

	if err := a.repo.DeleteLeague(ctx, id); err != nil {
		return fmt.Errorf("failed to delete league: %w", err)
	}

	log.Info().Str("league_id", league.ID.String()).Str("name", league.Name).Msg("deleted league")
	return nil
}

func (a *App) validateCreateLeagueRequest(req CreateLeagueRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if req.ClubID == uuid.Nil {
		return fmt.Errorf("club_id is required")
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("end date before start date")
	}
	if req.MaxParticipants != nil && *req.MaxParticipants < 1 {
		return fmt.Errorf("max_participants must be >= 1")
	}
	if req.RegistrationOpensHoursBefore < 0 || req.RegistrationClosesHoursBefore < 0 {
		return fmt.Errorf("registration window hours cannot be negative")
	}
	return nil
}

func (a *App) validateUpdateLeagueRequest(req UpdateLeagueRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("end date before start date")
	}
	if req.MaxParticipants != nil && *req.MaxParticipants < 1 {
		return fmt.Errorf("max_participants must be >= 1")
	}
	switch req.Status {
	case models.LeagueStatusPending, models.LeagueStatusActive, models.LeagueStatusCompleted, models.LeagueStatusCancelled:
	default:
		return fmt.Errorf("invalid league status: %s", req.Status)
	}
	return nil
}
