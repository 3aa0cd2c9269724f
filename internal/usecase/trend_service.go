package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/matchpulse/api/internal/domain/analytics"
	"github.com/matchpulse/api/internal/domain/match"
	"github.com/matchpulse/api/internal/domain/team"
)

const (
	defaultTrendMatches = 20
	minTrendMatches     = 5
	maxTrendMatches     = 50
	defaultTrendWindow  = 5
	minTrendWindow      = 2
	maxTrendWindow      = 10
)

// TrendService produces rolling-window time series over a team's chronology.
type TrendService struct {
	teamRepo  team.Repository
	matchRepo match.Repository
}

func NewTrendService(teamRepo team.Repository, matchRepo match.Repository) *TrendService {
	return &TrendService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
	}
}

// Compute slides a window of the given size over the team's last
// matchesCount finished matches. Zero values select defaults; out-of-range
// values and window > matchesCount are rejected.
func (s *TrendService) Compute(ctx context.Context, teamID string, matchesCount, window int) (analytics.TrendSeries, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrendService.Compute")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return analytics.TrendSeries{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if matchesCount == 0 {
		matchesCount = defaultTrendMatches
	}
	if window == 0 {
		window = defaultTrendWindow
	}
	if matchesCount < minTrendMatches || matchesCount > maxTrendMatches {
		return analytics.TrendSeries{}, fmt.Errorf("%w: matches must be between %d and %d", ErrInvalidInput, minTrendMatches, maxTrendMatches)
	}
	if window < minTrendWindow || window > maxTrendWindow {
		return analytics.TrendSeries{}, fmt.Errorf("%w: window must be between %d and %d", ErrInvalidInput, minTrendWindow, maxTrendWindow)
	}
	if window > matchesCount {
		return analytics.TrendSeries{}, fmt.Errorf("%w: window must not exceed matches", ErrInvalidInput)
	}

	_, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return analytics.TrendSeries{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return analytics.TrendSeries{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	matches, err := s.matchRepo.RecentFinishedByTeam(ctx, teamID, matchesCount)
	if err != nil {
		return analytics.TrendSeries{}, fmt.Errorf("list finished matches: %w", err)
	}

	return analytics.Trends(matches, teamID, window), nil
}
