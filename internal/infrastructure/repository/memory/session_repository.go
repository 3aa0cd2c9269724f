package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matchpulse/api/internal/domain/session"
)

type SessionRepository struct {
	mu     sync.Mutex
	items  map[string]session.Session
	byHash map[string]string
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		items:  make(map[string]session.Session),
		byHash: make(map[string]string),
	}
}

func (r *SessionRepository) Create(_ context.Context, item session.Session) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate session: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	r.byHash[item.TokenHash] = item.ID

	return nil
}

func (r *SessionRepository) FindActiveByHash(_ context.Context, tokenHash string, now time.Time) (session.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.activeByHashLocked(tokenHash, now)
	if !ok {
		return session.Session{}, false, nil
	}

	return s, true, nil
}

func (r *SessionRepository) RevokeByHash(_ context.Context, tokenHash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.activeByHashLocked(tokenHash, now)
	if !ok {
		return false, nil
	}

	revokedAt := now
	s.RevokedAt = &revokedAt
	r.items[s.ID] = s

	return true, nil
}

// Rotate holds the repository mutex for the whole revoke-and-insert, which
// gives the same single-winner guarantee the SQL implementation gets from
// its row lock.
func (r *SessionRepository) Rotate(_ context.Context, oldHash string, next session.Session, now time.Time) (session.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.activeByHashLocked(oldHash, now)
	if !ok {
		return session.Session{}, false, nil
	}

	revokedAt := now
	old.RevokedAt = &revokedAt
	r.items[old.ID] = old

	next.UserID = old.UserID
	if err := next.Validate(); err != nil {
		return session.Session{}, false, fmt.Errorf("validate replacement session: %w", err)
	}

	r.items[next.ID] = next
	r.byHash[next.TokenHash] = next.ID

	return next, true, nil
}

func (r *SessionRepository) activeByHashLocked(tokenHash string, now time.Time) (session.Session, bool) {
	id, ok := r.byHash[tokenHash]
	if !ok {
		return session.Session{}, false
	}

	s, ok := r.items[id]
	if !ok || !s.ActiveAt(now) {
		return session.Session{}, false
	}

	return s, true
}
