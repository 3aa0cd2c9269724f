package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matchpulse/api/internal/infrastructure/repository/memory"
)

type stubIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *stubIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n), nil
}

type stubTokenGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *stubTokenGenerator) NewToken() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("token-%d", g.n), nil
}

func newSessionServiceForTest(ttl time.Duration) *SessionService {
	return NewSessionService(
		memory.NewSessionRepository(),
		&stubIDGenerator{prefix: "sess"},
		&stubTokenGenerator{},
		ttl,
	)
}

func TestSessionServiceIssueAndValidate(t *testing.T) {
	t.Parallel()

	svc := newSessionServiceForTest(time.Hour)
	ctx := context.Background()

	rawToken, item, err := svc.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if rawToken == "" {
		t.Fatal("expected a raw token")
	}
	if item.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", item.UserID)
	}
	if item.TokenHash == rawToken {
		t.Fatal("raw token must not be stored as its own hash")
	}
	if item.TokenHash != HashToken(rawToken) {
		t.Fatal("stored hash does not match the raw token")
	}

	userID, err := svc.Validate(ctx, rawToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestSessionServiceIssueRequiresUser(t *testing.T) {
	t.Parallel()

	svc := newSessionServiceForTest(time.Hour)

	_, _, err := svc.Issue(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSessionServiceRotate(t *testing.T) {
	t.Parallel()

	svc := newSessionServiceForTest(time.Hour)
	ctx := context.Background()

	rawToken, _, err := svc.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, newRaw, err := svc.Rotate(ctx, rawToken)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
	if newRaw == rawToken {
		t.Fatal("rotation must mint a different token")
	}

	t.Run("old token no longer validates", func(t *testing.T) {
		if _, err := svc.Validate(ctx, rawToken); !errors.Is(err, ErrRefreshInvalid) {
			t.Fatalf("expected ErrRefreshInvalid, got %v", err)
		}
	})

	t.Run("old token cannot rotate again", func(t *testing.T) {
		if _, _, err := svc.Rotate(ctx, rawToken); !errors.Is(err, ErrRefreshInvalid) {
			t.Fatalf("expected ErrRefreshInvalid, got %v", err)
		}
	})

	t.Run("replacement token is live", func(t *testing.T) {
		userID, err := svc.Validate(ctx, newRaw)
		if err != nil {
			t.Fatalf("validate replacement: %v", err)
		}
		if userID != "user-1" {
			t.Fatalf("expected user-1, got %q", userID)
		}
	})
}

func TestSessionServiceConcurrentRotationSingleWinner(t *testing.T) {
	t.Parallel()

	svc := newSessionServiceForTest(time.Hour)
	ctx := context.Background()

	rawToken, _, err := svc.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	const attempts = 16

	start := make(chan struct{})
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			<-start

			userID, newRaw, err := svc.Rotate(ctx, rawToken)
			if err != nil {
				if !errors.Is(err, ErrRefreshInvalid) {
					t.Errorf("losing rotation must fail with ErrRefreshInvalid, got %v", err)
				}
				return
			}
			if userID != "user-1" {
				t.Errorf("expected user-1, got %q", userID)
			}

			mu.Lock()
			winners = append(winners, newRaw)
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	if len(winners) != 1 {
		t.Fatalf("expected exactly one successful rotation, got %d", len(winners))
	}

	if _, err := svc.Validate(ctx, winners[0]); err != nil {
		t.Fatalf("winning replacement must be live: %v", err)
	}
	if _, err := svc.Validate(ctx, rawToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("original token must be dead after rotation, got %v", err)
	}
}

func TestSessionServiceRotateEmptyToken(t *testing.T) {
	t.Parallel()

	svc := newSessionServiceForTest(time.Hour)

	if _, _, err := svc.Rotate(context.Background(), ""); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("expected ErrRefreshInvalid, got %v", err)
	}
}

func TestSessionServiceRevoke(t *testing.T) {
	t.Parallel()

	svc := newSessionServiceForTest(time.Hour)
	ctx := context.Background()

	rawToken, _, err := svc.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.Revoke(ctx, rawToken); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	t.Run("revoked token no longer validates", func(t *testing.T) {
		if _, err := svc.Validate(ctx, rawToken); !errors.Is(err, ErrRefreshInvalid) {
			t.Fatalf("expected ErrRefreshInvalid, got %v", err)
		}
	})

	t.Run("rotation of a revoked token fails", func(t *testing.T) {
		if _, _, err := svc.Rotate(ctx, rawToken); !errors.Is(err, ErrRefreshInvalid) {
			t.Fatalf("expected ErrRefreshInvalid, got %v", err)
		}
	})

	t.Run("revoking again is a no-op", func(t *testing.T) {
		if err := svc.Revoke(ctx, rawToken); err != nil {
			t.Fatalf("second revoke: %v", err)
		}
	})

	t.Run("revoking an unknown token is a no-op", func(t *testing.T) {
		if err := svc.Revoke(ctx, "never-issued"); err != nil {
			t.Fatalf("revoke unknown: %v", err)
		}
	})

	t.Run("revoking an empty token is a no-op", func(t *testing.T) {
		if err := svc.Revoke(ctx, ""); err != nil {
			t.Fatalf("revoke empty: %v", err)
		}
	})
}

func TestSessionServiceExpiry(t *testing.T) {
	t.Parallel()

	svc := newSessionServiceForTest(time.Hour)
	ctx := context.Background()

	rawToken, _, err := svc.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time {
		return time.Now().Add(2 * time.Hour)
	}

	if _, err := svc.Validate(ctx, rawToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("expected ErrRefreshInvalid for expired session, got %v", err)
	}
	if _, _, err := svc.Rotate(ctx, rawToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("expected ErrRefreshInvalid rotating an expired session, got %v", err)
	}
}

func TestHashToken(t *testing.T) {
	t.Parallel()

	if HashToken("a") == HashToken("b") {
		t.Fatal("different tokens must not collide")
	}
	if HashToken("a") != HashToken("a") {
		t.Fatal("hashing must be deterministic")
	}
	if len(HashToken("a")) != 64 {
		t.Fatalf("expected a 64-char hex digest, got %d chars", len(HashToken("a")))
	}
}
