package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchpulse/api/internal/domain/session"
	qb "github.com/matchpulse/api/internal/platform/querybuilder"
)

var sessionColumns = []string{"id", "user_id", "token_hash", "expires_at", "revoked_at", "created_at"}

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, item session.Session) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate session: %w", err)
	}

	query, args, err := qb.InsertInto("refresh_sessions").
		Columns("id", "user_id", "token_hash", "expires_at", "created_at").
		Values(item.ID, item.UserID, item.TokenHash, item.ExpiresAt, item.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert session query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (r *SessionRepository) FindActiveByHash(ctx context.Context, tokenHash string, now time.Time) (session.Session, bool, error) {
	query, args, err := qb.Select(sessionColumns...).
		From("refresh_sessions").
		Where(
			qb.Eq("token_hash", tokenHash),
			qb.IsNull("revoked_at"),
			qb.Gt("expires_at", now),
		).
		ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build select session query: %w", err)
	}

	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("select active session: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SessionRepository) RevokeByHash(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	query, args, err := qb.Update("refresh_sessions").
		Set("revoked_at", now).
		Where(
			qb.Eq("token_hash", tokenHash),
			qb.IsNull("revoked_at"),
			qb.Gt("expires_at", now),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build revoke session query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("revoke session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("revoke session rows affected: %w", err)
	}

	return affected > 0, nil
}

// Rotate runs inside one transaction and locks the old row with FOR UPDATE,
// so a second rotation of the same token blocks until the first commits and
// then finds no active row.
func (r *SessionRepository) Rotate(ctx context.Context, oldHash string, next session.Session, now time.Time) (session.Session, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return session.Session{}, false, fmt.Errorf("begin rotate session tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	selectQuery, selectArgs, err := qb.Select(sessionColumns...).
		From("refresh_sessions").
		Where(
			qb.Eq("token_hash", oldHash),
			qb.IsNull("revoked_at"),
			qb.Gt("expires_at", now),
		).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build lock session query: %w", err)
	}

	var row sessionTableModel
	if err := tx.GetContext(ctx, &row, selectQuery, selectArgs...); err != nil {
		if isNotFound(err) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("lock active session: %w", err)
	}

	revokeQuery, revokeArgs, err := qb.Update("refresh_sessions").
		Set("revoked_at", now).
		Where(qb.Eq("id", row.ID)).
		ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build revoke rotated session query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, revokeQuery, revokeArgs...); err != nil {
		return session.Session{}, false, fmt.Errorf("revoke rotated session: %w", err)
	}

	next.UserID = row.UserID
	if err := next.Validate(); err != nil {
		return session.Session{}, false, fmt.Errorf("validate replacement session: %w", err)
	}

	insertQuery, insertArgs, err := qb.InsertInto("refresh_sessions").
		Columns("id", "user_id", "token_hash", "expires_at", "created_at").
		Values(next.ID, next.UserID, next.TokenHash, next.ExpiresAt, next.CreatedAt).
		ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build insert replacement session query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return session.Session{}, false, fmt.Errorf("insert replacement session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return session.Session{}, false, fmt.Errorf("commit rotate session tx: %w", err)
	}

	return next, true, nil
}
