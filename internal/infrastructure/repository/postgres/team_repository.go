package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchpulse/api/internal/domain/team"
	qb "github.com/matchpulse/api/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("id", "name", "short_name", "created_at", "updated_at").
		From("teams").
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:    row.ID,
			Name:  row.Name,
			Short: row.Short,
		})
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("id", "name", "short_name", "created_at", "updated_at").
		From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return team.Team{
		ID:    row.ID,
		Name:  row.Name,
		Short: row.Short,
	}, true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	query, args, err := qb.InsertInto("teams").
		Columns("id", "name", "short_name").
		Values(item.ID, item.Name, item.Short).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, short_name = EXCLUDED.short_name, updated_at = NOW()").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}

	return nil
}
