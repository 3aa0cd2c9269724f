package session

import (
	"context"
	"time"
)

// Repository owns refresh-session rows. Rotate must be atomic: either the
// old row is revoked and the replacement inserted, or nothing changes.
type Repository interface {
	Create(ctx context.Context, item Session) error
	// FindActiveByHash returns the session for tokenHash when it is active
	// at now; ok is false for absent, revoked, or expired rows alike.
	FindActiveByHash(ctx context.Context, tokenHash string, now time.Time) (Session, bool, error)
	// RevokeByHash marks an active session revoked. ok is false when no
	// active row matched, which callers treat as a no-op.
	RevokeByHash(ctx context.Context, tokenHash string, now time.Time) (bool, error)
	// Rotate revokes the active session matching oldHash and inserts next
	// for the same user in one transaction, locking the old row so
	// concurrent rotations of the same token cannot both succeed. next is
	// taken without a user id; the implementation fills it from the locked
	// row and returns the stored session. ok is false when no active row
	// matched.
	Rotate(ctx context.Context, oldHash string, next Session, now time.Time) (Session, bool, error)
}
