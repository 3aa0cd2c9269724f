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
	defaultFormMatches = 10
	maxFormMatches     = 50
)

// FormService reduces a team's recent finished matches into a form snapshot.
// The snapshot is recomputed on every call; nothing is cached or persisted.
type FormService struct {
	teamRepo  team.Repository
	matchRepo match.Repository
}

func NewFormService(teamRepo team.Repository, matchRepo match.Repository) *FormService {
	return &FormService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
	}
}

// Compute builds the form snapshot over the team's last matchesCount
// finished matches. matchesCount 0 selects the default window; out-of-range
// values are rejected, not clamped.
func (s *FormService) Compute(ctx context.Context, teamID string, matchesCount int) (analytics.FormSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.Compute")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return analytics.FormSnapshot{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if matchesCount == 0 {
		matchesCount = defaultFormMatches
	}
	if matchesCount < 1 || matchesCount > maxFormMatches {
		return analytics.FormSnapshot{}, fmt.Errorf("%w: matches must be between 1 and %d", ErrInvalidInput, maxFormMatches)
	}

	_, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return analytics.FormSnapshot{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return analytics.FormSnapshot{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	matches, err := s.matchRepo.RecentFinishedByTeam(ctx, teamID, matchesCount)
	if err != nil {
		return analytics.FormSnapshot{}, fmt.Errorf("list finished matches: %w", err)
	}

	return analytics.Form(matches, teamID), nil
}
