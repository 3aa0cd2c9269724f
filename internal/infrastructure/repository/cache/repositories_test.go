package cache

import (
	"context"
	"testing"
	"time"

	"github.com/matchpulse/api/internal/domain/match"
	"github.com/matchpulse/api/internal/domain/team"
	"github.com/matchpulse/api/internal/infrastructure/repository/memory"
	basecache "github.com/matchpulse/api/internal/platform/cache"
)

type countingTeamRepository struct {
	next  team.Repository
	lists int
	gets  int
}

func (r *countingTeamRepository) List(ctx context.Context) ([]team.Team, error) {
	r.lists++
	return r.next.List(ctx)
}

func (r *countingTeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	r.gets++
	return r.next.GetByID(ctx, teamID)
}

func (r *countingTeamRepository) Upsert(ctx context.Context, item team.Team) error {
	return r.next.Upsert(ctx, item)
}

type countingMatchRepository struct {
	next     match.Repository
	finished int
	upcoming int
}

func (r *countingMatchRepository) RecentFinishedByTeam(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	r.finished++
	return r.next.RecentFinishedByTeam(ctx, teamID, limit)
}

func (r *countingMatchRepository) UpcomingByTeam(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	r.upcoming++
	return r.next.UpcomingByTeam(ctx, teamID, limit)
}

func (r *countingMatchRepository) Upsert(ctx context.Context, item match.Match) error {
	return r.next.Upsert(ctx, item)
}

func TestTeamRepositoryCachesReads(t *testing.T) {
	t.Parallel()

	next := &countingTeamRepository{next: memory.NewTeamRepository(memory.SeedTeams())}
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		items, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 6 {
			t.Fatalf("expected 6 teams, got %d", len(items))
		}
	}
	if next.lists != 1 {
		t.Fatalf("expected 1 underlying list, got %d", next.lists)
	}

	for i := 0; i < 3; i++ {
		if _, _, err := repo.GetByID(ctx, "eng-ars"); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if next.gets != 1 {
		t.Fatalf("expected 1 underlying get, got %d", next.gets)
	}
}

func TestTeamRepositoryCachesMisses(t *testing.T) {
	t.Parallel()

	next := &countingTeamRepository{next: memory.NewTeamRepository(nil)}
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, exists, err := repo.GetByID(ctx, "eng-ghost")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if exists {
			t.Fatal("expected a miss")
		}
	}
	if next.gets != 1 {
		t.Fatalf("expected the miss to be cached, got %d underlying gets", next.gets)
	}
}

func TestTeamRepositoryUpsertInvalidates(t *testing.T) {
	t.Parallel()

	next := &countingTeamRepository{next: memory.NewTeamRepository(memory.SeedTeams())}
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, _, err := repo.GetByID(ctx, "eng-ars"); err != nil {
		t.Fatalf("get: %v", err)
	}

	if err := repo.Upsert(ctx, team.Team{ID: "eng-ars", Name: "Arsenal FC", Short: "ARS"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	item, exists, err := repo.GetByID(ctx, "eng-ars")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !exists || item.Name != "Arsenal FC" {
		t.Fatalf("expected the updated team, got %+v (exists=%v)", item, exists)
	}
	if next.gets != 2 {
		t.Fatalf("expected the upsert to invalidate the entry, got %d underlying gets", next.gets)
	}

	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if next.lists != 2 {
		t.Fatalf("expected the upsert to invalidate the list, got %d underlying lists", next.lists)
	}
}

func TestMatchRepositoryCachesPerTeamAndLimit(t *testing.T) {
	t.Parallel()

	next := &countingMatchRepository{next: memory.NewMatchRepository(memory.SeedMatches())}
	repo := NewMatchRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.RecentFinishedByTeam(ctx, "eng-ars", 5); err != nil {
			t.Fatalf("recent finished: %v", err)
		}
	}
	if next.finished != 1 {
		t.Fatalf("expected 1 underlying fetch, got %d", next.finished)
	}

	// A different limit is a different window.
	if _, err := repo.RecentFinishedByTeam(ctx, "eng-ars", 10); err != nil {
		t.Fatalf("recent finished: %v", err)
	}
	if next.finished != 2 {
		t.Fatalf("expected a separate fetch per limit, got %d", next.finished)
	}
}

func TestMatchRepositoryUpsertSweepsWindows(t *testing.T) {
	t.Parallel()

	next := &countingMatchRepository{next: memory.NewMatchRepository(memory.SeedMatches())}
	repo := NewMatchRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	if _, err := repo.RecentFinishedByTeam(ctx, "eng-ars", 5); err != nil {
		t.Fatalf("recent finished: %v", err)
	}
	if _, err := repo.UpcomingByTeam(ctx, "eng-liv", 3); err != nil {
		t.Fatalf("upcoming: %v", err)
	}

	home, away := 1, 0
	err := repo.Upsert(ctx, match.Match{
		ID:         "m-new",
		HomeTeamID: "eng-ars",
		AwayTeamID: "eng-liv",
		HomeScore:  &home,
		AwayScore:  &away,
		Winner:     match.WinnerHome,
		Status:     match.StatusFinished,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := repo.RecentFinishedByTeam(ctx, "eng-ars", 5); err != nil {
		t.Fatalf("recent finished: %v", err)
	}
	if _, err := repo.UpcomingByTeam(ctx, "eng-liv", 3); err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if next.finished != 2 || next.upcoming != 2 {
		t.Fatalf("expected every window to reload after upsert, got finished=%d upcoming=%d", next.finished, next.upcoming)
	}
}

func TestMatchRepositoryReturnsCopies(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(memory.NewMatchRepository(memory.SeedMatches()), basecache.NewStore(time.Minute))
	ctx := context.Background()

	first, err := repo.RecentFinishedByTeam(ctx, "eng-ars", 5)
	if err != nil {
		t.Fatalf("recent finished: %v", err)
	}
	first[0].ID = "mutated"

	second, err := repo.RecentFinishedByTeam(ctx, "eng-ars", 5)
	if err != nil {
		t.Fatalf("recent finished: %v", err)
	}
	if second[0].ID == "mutated" {
		t.Fatal("callers must not share the cached slice")
	}
}
