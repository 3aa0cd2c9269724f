package postgres

import (
	"database/sql"
	"time"

	"github.com/matchpulse/api/internal/domain/session"
)

type sessionTableModel struct {
	ID        string       `db:"id"`
	UserID    string       `db:"user_id"`
	TokenHash string       `db:"token_hash"`
	ExpiresAt time.Time    `db:"expires_at"`
	RevokedAt sql.NullTime `db:"revoked_at"`
	CreatedAt time.Time    `db:"created_at"`
}

func (m sessionTableModel) toDomain() session.Session {
	out := session.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
	if m.RevokedAt.Valid {
		revokedAt := m.RevokedAt.Time
		out.RevokedAt = &revokedAt
	}
	return out
}
