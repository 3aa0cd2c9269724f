package user

import "context"

// Repository describes user persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	Create(ctx context.Context, item User) error
}
