package cache

import (
	"context"
	"strconv"

	"github.com/matchpulse/api/internal/domain/match"
	"github.com/matchpulse/api/internal/domain/team"
	basecache "github.com/matchpulse/api/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	key := "team:id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}

	r.cache.Delete(ctx, "team:list")
	r.cache.Delete(ctx, "team:id:"+item.ID)
	return nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) RecentFinishedByTeam(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	key := "match:finished:" + teamID + ":" + strconv.Itoa(limit)
	return r.loadMatches(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.RecentFinishedByTeam(ctx, teamID, limit)
	})
}

func (r *MatchRepository) UpcomingByTeam(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	key := "match:upcoming:" + teamID + ":" + strconv.Itoa(limit)
	return r.loadMatches(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.UpcomingByTeam(ctx, teamID, limit)
	})
}

// Upsert drops every cached match window; windows are keyed per team and
// limit, so a single write can touch many keys.
func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}

	r.cache.DeletePrefix(ctx, "match:")
	return nil
}

func (r *MatchRepository) loadMatches(ctx context.Context, key string, load func(ctx context.Context) ([]match.Match, error)) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}
