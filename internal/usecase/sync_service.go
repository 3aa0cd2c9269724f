package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matchpulse/api/internal/domain/match"
	"github.com/matchpulse/api/internal/domain/team"
	"github.com/matchpulse/api/internal/platform/logging"
)

const defaultSyncWorkers = 4

// SportsFeed is the upstream source of teams and matches. The sync is a
// plain fetch-and-upsert; all derived numbers are recomputed from the stored
// rows on read.
type SportsFeed interface {
	FetchTeams(ctx context.Context) ([]team.Team, error)
	FetchMatchesByTeam(ctx context.Context, teamID string) ([]match.Match, error)
}

type SyncResult struct {
	TeamsUpserted   int
	MatchesUpserted int
	TeamsFailed     int
	FailedTeamIDs   []string
	Duration        time.Duration
}

// SyncService pulls the competition's teams and schedules into the local
// store, fanning the per-team schedule fetches out over a worker pool.
type SyncService struct {
	feed      SportsFeed
	teamRepo  team.Repository
	matchRepo match.Repository
	workers   int
	logger    *logging.Logger
	submit    func(pool *ants.Pool, task func()) error
}

func NewSyncService(feed SportsFeed, teamRepo team.Repository, matchRepo match.Repository, workers int, logger *logging.Logger) *SyncService {
	if workers < 1 {
		workers = defaultSyncWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		feed:      feed,
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		workers:   workers,
		logger:    logger,
		submit: func(pool *ants.Pool, task func()) error {
			return pool.Submit(task)
		},
	}
}

func (s *SyncService) Run(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	if s.feed == nil {
		return SyncResult{}, fmt.Errorf("%w: sports feed is not configured", ErrDependencyUnavailable)
	}

	started := time.Now()

	teams, err := s.feed.FetchTeams(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch teams: %w", err)
	}

	result := SyncResult{}
	for _, item := range teams {
		if err := item.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping invalid feed team", "team_id", item.ID, "error", err)
			continue
		}
		if err := s.teamRepo.Upsert(ctx, item); err != nil {
			return SyncResult{}, fmt.Errorf("upsert team %s: %w", item.ID, err)
		}
		result.TeamsUpserted++
	}

	var matchesUpserted atomic.Int64
	var failedMu sync.Mutex
	var failedTeamIDs []string

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return SyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, item := range teams {
		teamID := item.ID
		workers.Add(1)
		if err := s.submit(pool, func() {
			defer workers.Done()

			count, syncErr := s.syncTeamSchedule(ctx, teamID)
			if syncErr != nil {
				s.logger.WarnContext(ctx, "team schedule sync failed", "team_id", teamID, "error", syncErr)
				failedMu.Lock()
				failedTeamIDs = append(failedTeamIDs, teamID)
				failedMu.Unlock()
				return
			}
			matchesUpserted.Add(int64(count))
		}); err != nil {
			workers.Done()
			// Tasks submitted before the failure are still writing to the
			// shared counters; let them drain before returning.
			workers.Wait()
			return SyncResult{}, fmt.Errorf("submit sync task: %w", err)
		}
	}
	workers.Wait()

	sort.Strings(failedTeamIDs)
	result.MatchesUpserted = int(matchesUpserted.Load())
	result.TeamsFailed = len(failedTeamIDs)
	result.FailedTeamIDs = failedTeamIDs
	result.Duration = time.Since(started)

	s.logger.InfoContext(ctx, "sports feed sync finished",
		"teams_upserted", result.TeamsUpserted,
		"matches_upserted", result.MatchesUpserted,
		"teams_failed", result.TeamsFailed,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

func (s *SyncService) syncTeamSchedule(ctx context.Context, teamID string) (int, error) {
	matches, err := s.feed.FetchMatchesByTeam(ctx, teamID)
	if err != nil {
		return 0, fmt.Errorf("fetch matches: %w", err)
	}

	upserted := 0
	for _, item := range matches {
		if item.ID == "" || item.HomeTeamID == "" || item.AwayTeamID == "" {
			continue
		}
		if err := s.matchRepo.Upsert(ctx, item); err != nil {
			return upserted, fmt.Errorf("upsert match %s: %w", item.ID, err)
		}
		upserted++
	}

	return upserted, nil
}
