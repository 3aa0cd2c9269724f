package postgres

import (
	"database/sql"
	"time"

	"github.com/matchpulse/api/internal/domain/match"
)

type matchTableModel struct {
	ID            string        `db:"id"`
	CompetitionID string        `db:"competition_id"`
	HomeTeamID    string        `db:"home_team_id"`
	AwayTeamID    string        `db:"away_team_id"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Winner        string        `db:"winner"`
	Status        string        `db:"status"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:            m.ID,
		CompetitionID: m.CompetitionID,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		KickoffAt:     m.KickoffAt,
		HomeScore:     nullInt64ToIntPtr(m.HomeScore),
		AwayScore:     nullInt64ToIntPtr(m.AwayScore),
		Winner:        match.NormalizeWinner(m.Winner),
		Status:        match.NormalizeStatus(m.Status),
	}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
