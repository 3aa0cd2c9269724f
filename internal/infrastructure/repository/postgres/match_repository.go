package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchpulse/api/internal/domain/match"
	qb "github.com/matchpulse/api/internal/platform/querybuilder"
)

var matchColumns = []string{
	"id",
	"competition_id",
	"home_team_id",
	"away_team_id",
	"kickoff_at",
	"home_score",
	"away_score",
	"winner",
	"status",
	"created_at",
	"updated_at",
}

var finishedStatuses = []any{match.StatusFinished, "FT", "AET", "PEN"}
var cancelledStatuses = []any{match.StatusCancelled, match.StatusPostponed, "ABANDONED"}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) RecentFinishedByTeam(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	if limit <= 0 {
		limit = 10
	}

	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(
			qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID),
			qb.In("status", finishedStatuses),
		).
		OrderBy("kickoff_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select finished matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select finished matches: %w", err)
	}

	return rowsToMatches(rows), nil
}

func (r *MatchRepository) UpcomingByTeam(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	if limit <= 0 {
		limit = 10
	}

	notWanted := append(append([]any{}, finishedStatuses...), cancelledStatuses...)
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(
			qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID),
			qb.Expr("status NOT IN (?, ?, ?, ?, ?, ?, ?)", notWanted...),
		).
		OrderBy("kickoff_at ASC", "id ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select upcoming matches: %w", err)
	}

	return rowsToMatches(rows), nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertInto("matches").
		Columns("id", "competition_id", "home_team_id", "away_team_id", "kickoff_at", "home_score", "away_score", "winner", "status").
		Values(
			item.ID,
			item.CompetitionID,
			item.HomeTeamID,
			item.AwayTeamID,
			item.KickoffAt,
			intPtrToNullInt64(item.HomeScore),
			intPtrToNullInt64(item.AwayScore),
			string(item.Winner),
			match.NormalizeStatus(item.Status),
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET kickoff_at = EXCLUDED.kickoff_at, home_score = EXCLUDED.home_score, away_score = EXCLUDED.away_score, winner = EXCLUDED.winner, status = EXCLUDED.status, updated_at = NOW()").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}

	return nil
}

func rowsToMatches(rows []matchTableModel) []match.Match {
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
