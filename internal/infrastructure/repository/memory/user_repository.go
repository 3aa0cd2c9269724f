package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matchpulse/api/internal/domain/user"
)

type UserRepository struct {
	mu      sync.RWMutex
	items   map[string]user.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		items:   make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	if !ok {
		return user.User{}, false, nil
	}

	return u, true, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[user.NormalizeEmail(email)]
	if !ok {
		return user.User{}, false, nil
	}

	return r.items[id], true, nil
}

func (r *UserRepository) Create(_ context.Context, item user.User) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate user: %w", err)
	}

	email := user.NormalizeEmail(item.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return fmt.Errorf("user email %q already exists", email)
	}

	item.Email = email
	r.items[item.ID] = item
	r.byEmail[email] = item.ID

	return nil
}
