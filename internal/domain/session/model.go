package session

import (
	"fmt"
	"time"
)

// Session is a persisted refresh credential. Only the one-way hash of the
// client-held token is stored. Rows are revoked, never deleted, so a rotated
// or logged-out session stays visible for audit.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// ActiveAt reports whether the session can still be validated or rotated:
// not revoked and not past its expiry.
func (s Session) ActiveAt(now time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	return s.ExpiresAt.After(now)
}

func (s Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("session user id is required")
	}
	if s.TokenHash == "" {
		return fmt.Errorf("session token hash is required")
	}
	if s.ExpiresAt.IsZero() {
		return fmt.Errorf("session expiry is required")
	}

	return nil
}
