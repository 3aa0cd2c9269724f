package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchpulse/api/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = m
	}

	return &MatchRepository{items: items}
}

func (r *MatchRepository) RecentFinishedByTeam(_ context.Context, teamID string, limit int) ([]match.Match, error) {
	if limit <= 0 {
		limit = 10
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, limit)
	for _, m := range r.items {
		if !involvesTeam(m, teamID) || !m.Finished() {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.After(out[j].KickoffAt)
		}
		return out[i].ID > out[j].ID
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *MatchRepository) UpcomingByTeam(_ context.Context, teamID string, limit int) ([]match.Match, error) {
	if limit <= 0 {
		limit = 10
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, limit)
	for _, m := range r.items {
		if !involvesTeam(m, teamID) {
			continue
		}
		if m.Finished() || match.IsCancelledLikeStatus(m.Status) {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.Status = match.NormalizeStatus(item.Status)
	item.Winner = match.NormalizeWinner(string(item.Winner))
	r.items[item.ID] = item

	return nil
}

func involvesTeam(m match.Match, teamID string) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}
