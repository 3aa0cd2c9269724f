package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matchpulse/api/internal/domain/user"
	idgen "github.com/matchpulse/api/internal/platform/id"
)

// PasswordHasher abstracts the credential hashing scheme away from the
// authentication flow.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// AuthService handles registration, login, and the session-backed identity
// checks the HTTP layer runs on protected routes.
type AuthService struct {
	users    user.Repository
	sessions *SessionService
	hasher   PasswordHasher
	ids      idgen.Generator
}

func NewAuthService(users user.Repository, sessions *SessionService, hasher PasswordHasher, ids idgen.Generator) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		ids:      ids,
	}
}

// Register creates an account and immediately issues a refresh session.
func (s *AuthService) Register(ctx context.Context, email, name, plainPassword string) (user.User, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Register")
	defer span.End()

	email = user.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" {
		return user.User{}, "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if len(plainPassword) < 8 {
		return user.User{}, "", fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	_, exists, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, "", fmt.Errorf("get user by email: %w", err)
	}
	if exists {
		return user.User{}, "", fmt.Errorf("%w: email already registered", ErrInvalidInput)
	}

	passwordHash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return user.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	userID, err := s.ids.NewID()
	if err != nil {
		return user.User{}, "", fmt.Errorf("generate user id: %w", err)
	}

	item := user.User{
		ID:           userID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}
	if err := s.users.Create(ctx, item); err != nil {
		return user.User{}, "", fmt.Errorf("create user: %w", err)
	}

	rawToken, _, err := s.sessions.Issue(ctx, item.ID)
	if err != nil {
		return user.User{}, "", err
	}

	return item, rawToken, nil
}

// Login checks credentials and issues a refresh session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (user.User, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	email = user.NormalizeEmail(email)
	if email == "" || plainPassword == "" {
		return user.User{}, "", fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	item, exists, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, "", fmt.Errorf("get user by email: %w", err)
	}
	if !exists {
		return user.User{}, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err := s.hasher.Compare(item.PasswordHash, plainPassword); err != nil {
		return user.User{}, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	rawToken, _, err := s.sessions.Issue(ctx, item.ID)
	if err != nil {
		return user.User{}, "", err
	}

	return item, rawToken, nil
}

// Refresh rotates the presented token. On ErrRefreshInvalid the client must
// drop its stored token and re-authenticate; retrying cannot succeed.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (user.User, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Refresh")
	defer span.End()

	userID, newRaw, err := s.sessions.Rotate(ctx, rawToken)
	if err != nil {
		return user.User{}, "", err
	}

	item, exists, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, "", fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, "", fmt.Errorf("%w: user no longer exists", ErrRefreshInvalid)
	}

	return item, newRaw, nil
}

// Logout revokes the presented token; idempotent.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Logout")
	defer span.End()

	return s.sessions.Revoke(ctx, rawToken)
}

// VerifyToken resolves a bearer token to a principal via the read-only
// session check. Used by the HTTP auth middleware.
func (s *AuthService) VerifyToken(ctx context.Context, rawToken string) (user.Principal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.VerifyToken")
	defer span.End()

	userID, err := s.sessions.Validate(ctx, rawToken)
	if err != nil {
		if errors.Is(err, ErrRefreshInvalid) {
			return user.Principal{}, fmt.Errorf("%w: invalid session token", ErrUnauthorized)
		}
		return user.Principal{}, err
	}

	item, exists, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.Principal{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.Principal{}, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}

	return user.Principal{
		UserID: item.ID,
		Email:  item.Email,
		Name:   item.Name,
	}, nil
}
