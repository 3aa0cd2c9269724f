package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchpulse/api/internal/domain/user"
	qb "github.com/matchpulse/api/internal/platform/querybuilder"
)

var userColumns = []string{"id", "email", "name", "password_hash", "created_at", "updated_at"}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns...).
		From("users").
		Where(qb.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("select user by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns...).
		From("users").
		Where(qb.Eq("email", user.NormalizeEmail(email))).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("select user by email: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) Create(ctx context.Context, item user.User) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate user: %w", err)
	}

	query, args, err := qb.InsertInto("users").
		Columns("id", "email", "name", "password_hash", "created_at").
		Values(item.ID, user.NormalizeEmail(item.Email), item.Name, item.PasswordHash, item.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert user query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}
