package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/matchpulse/api/internal/domain/analytics"
	"github.com/matchpulse/api/internal/domain/match"
	"github.com/matchpulse/api/internal/domain/team"
)

// DifficultyService estimates how hard a team's upcoming fixtures are by
// scoring each opponent's baseline and recent points-per-game.
type DifficultyService struct {
	teamRepo  team.Repository
	matchRepo match.Repository
}

func NewDifficultyService(teamRepo team.Repository, matchRepo match.Repository) *DifficultyService {
	return &DifficultyService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
	}
}

type opponentPpg struct {
	baseline float64
	recent   float64
}

// Compute scores the team's next fixtures with the (clamped) params. An
// opponent appearing more than once is measured a single time per call: the
// memo lives only for this computation, since opponent PPG drifts with every
// finished match.
func (s *DifficultyService) Compute(ctx context.Context, teamID string, params analytics.DifficultyParams) (analytics.DifficultyRun, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DifficultyService.Compute")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return analytics.DifficultyRun{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	params = params.Clamped()

	_, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return analytics.DifficultyRun{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return analytics.DifficultyRun{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	fixtures, err := s.matchRepo.UpcomingByTeam(ctx, teamID, params.FixtureCount)
	if err != nil {
		return analytics.DifficultyRun{}, fmt.Errorf("list upcoming fixtures: %w", err)
	}

	memo := make(map[string]opponentPpg, len(fixtures))
	items := make([]analytics.DifficultyItem, 0, len(fixtures))
	for _, fixture := range fixtures {
		opponentID := fixture.OpponentOf(teamID)

		ppg, ok := memo[opponentID]
		if !ok {
			ppg, err = s.opponentPpg(ctx, opponentID, params)
			if err != nil {
				return analytics.DifficultyRun{}, err
			}
			memo[opponentID] = ppg
		}

		items = append(items, analytics.ScoreFixture(fixture, teamID, ppg.baseline, ppg.recent, params))
	}

	return analytics.AggregateDifficulty(items), nil
}

func (s *DifficultyService) opponentPpg(ctx context.Context, opponentID string, params analytics.DifficultyParams) (opponentPpg, error) {
	baselineMatches, err := s.matchRepo.RecentFinishedByTeam(ctx, opponentID, params.BaselineMatches)
	if err != nil {
		return opponentPpg{}, fmt.Errorf("list opponent baseline matches: %w", err)
	}

	recentMatches, err := s.matchRepo.RecentFinishedByTeam(ctx, opponentID, params.RecentMatches)
	if err != nil {
		return opponentPpg{}, fmt.Errorf("list opponent recent matches: %w", err)
	}

	return opponentPpg{
		baseline: analytics.PointsPerGame(baselineMatches, opponentID),
		recent:   analytics.PointsPerGame(recentMatches, opponentID),
	}, nil
}
