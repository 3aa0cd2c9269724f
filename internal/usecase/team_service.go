package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/matchpulse/api/internal/domain/match"
	"github.com/matchpulse/api/internal/domain/team"
)

type TeamService struct {
	teamRepo  team.Repository
	matchRepo match.Repository
}

func NewTeamService(teamRepo team.Repository, matchRepo match.Repository) *TeamService {
	return &TeamService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
	}
}

func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return items, nil
}

func (s *TeamService) Get(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return item, nil
}

// RecentResults returns a team's latest finished matches, newest first.
func (s *TeamService) RecentResults(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RecentResults")
	defer span.End()

	if _, err := s.Get(ctx, teamID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		return nil, fmt.Errorf("%w: limit must be <= 50", ErrInvalidInput)
	}

	items, err := s.matchRepo.RecentFinishedByTeam(ctx, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent results: %w", err)
	}

	return items, nil
}

// UpcomingFixtures returns a team's next scheduled matches, soonest first.
func (s *TeamService) UpcomingFixtures(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UpcomingFixtures")
	defer span.End()

	if _, err := s.Get(ctx, teamID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		return nil, fmt.Errorf("%w: limit must be <= 50", ErrInvalidInput)
	}

	items, err := s.matchRepo.UpcomingByTeam(ctx, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming fixtures: %w", err)
	}

	return items, nil
}
