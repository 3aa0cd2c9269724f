package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/matchpulse/api/internal/domain/session"
	idgen "github.com/matchpulse/api/internal/platform/id"
)

// DefaultRefreshTokenTTL is the fixed lifetime of an issued refresh session.
const DefaultRefreshTokenTTL = 7 * 24 * time.Hour

// SessionService implements the refresh-token rotation protocol: opaque
// tokens, hashed at rest, single-use once rotated. Every failure a client
// can observe is ErrRefreshInvalid; the distinction between absent, expired
// and revoked rows is deliberately not exposed.
type SessionService struct {
	sessions session.Repository
	ids      idgen.Generator
	tokens   idgen.TokenGenerator
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionService(sessions session.Repository, ids idgen.Generator, tokens idgen.TokenGenerator, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultRefreshTokenTTL
	}
	return &SessionService{
		sessions: sessions,
		ids:      ids,
		tokens:   tokens,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates a fresh session for userID and returns the raw token. The
// raw value is never stored; only its hash reaches the repository.
func (s *SessionService) Issue(ctx context.Context, userID string) (string, session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Issue")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", session.Session{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	rawToken, item, err := s.mint(userID)
	if err != nil {
		return "", session.Session{}, err
	}

	if err := s.sessions.Create(ctx, item); err != nil {
		return "", session.Session{}, fmt.Errorf("create session: %w", err)
	}

	return rawToken, item, nil
}

// Rotate exchanges an active refresh token for a new one in a single
// transaction. The old session is revoked and the replacement inserted
// atomically, so a second rotation of the same raw token always fails with
// ErrRefreshInvalid, even under concurrent duplicate requests.
func (s *SessionService) Rotate(ctx context.Context, rawToken string) (string, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Rotate")
	defer span.End()

	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return "", "", fmt.Errorf("%w: refresh token is required", ErrRefreshInvalid)
	}

	newRaw, next, err := s.mint("")
	if err != nil {
		return "", "", err
	}

	rotated, ok, err := s.sessions.Rotate(ctx, HashToken(rawToken), next, s.now())
	if err != nil {
		return "", "", fmt.Errorf("rotate session: %w", err)
	}
	if !ok {
		return "", "", fmt.Errorf("%w: no active session for token", ErrRefreshInvalid)
	}

	return rotated.UserID, newRaw, nil
}

// Revoke marks the session for rawToken revoked. Revoking a token that is
// already revoked, expired, or unknown is a no-op, not an error.
func (s *SessionService) Revoke(ctx context.Context, rawToken string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Revoke")
	defer span.End()

	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil
	}

	if _, err := s.sessions.RevokeByHash(ctx, HashToken(rawToken), s.now()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// Validate is the read-only check used when no rotation is wanted. It
// returns the owning user id for an active session and ErrRefreshInvalid
// otherwise.
func (s *SessionService) Validate(ctx context.Context, rawToken string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Validate")
	defer span.End()

	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return "", fmt.Errorf("%w: refresh token is required", ErrRefreshInvalid)
	}

	item, ok, err := s.sessions.FindActiveByHash(ctx, HashToken(rawToken), s.now())
	if err != nil {
		return "", fmt.Errorf("find session: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: no active session for token", ErrRefreshInvalid)
	}

	return item.UserID, nil
}

func (s *SessionService) mint(userID string) (string, session.Session, error) {
	rawToken, err := s.tokens.NewToken()
	if err != nil {
		return "", session.Session{}, fmt.Errorf("generate token: %w", err)
	}
	sessionID, err := s.ids.NewID()
	if err != nil {
		return "", session.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now().UTC()
	return rawToken, session.Session{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: HashToken(rawToken),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}, nil
}

// HashToken is the one-way mapping from raw refresh token to stored hash.
func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
