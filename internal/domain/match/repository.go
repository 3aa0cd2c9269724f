package match

import "context"

// Repository exposes the match windows the analytics calculators consume.
type Repository interface {
	// RecentFinishedByTeam returns up to limit finished matches involving
	// teamID, newest first.
	RecentFinishedByTeam(ctx context.Context, teamID string, limit int) ([]Match, error)
	// UpcomingByTeam returns up to limit not-yet-finished, not-cancelled
	// matches involving teamID, soonest first.
	UpcomingByTeam(ctx context.Context, teamID string, limit int) ([]Match, error)
	Upsert(ctx context.Context, item Match) error
}
