package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"golang.org/x/crypto/bcrypt"

	"github.com/matchpulse/api/internal/infrastructure/password"
	"github.com/matchpulse/api/internal/infrastructure/repository/memory"
	idgen "github.com/matchpulse/api/internal/platform/id"
	"github.com/matchpulse/api/internal/platform/logging"
	"github.com/matchpulse/api/internal/usecase"
)

const testSyncToken = "test-sync-token"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	userRepo := memory.NewUserRepository()
	sessionRepo := memory.NewSessionRepository()
	ids := idgen.NewRandomGenerator()
	logger := logging.NewNop()

	sessionService := usecase.NewSessionService(sessionRepo, ids, ids, time.Hour)
	authService := usecase.NewAuthService(userRepo, sessionService, password.NewBcryptHasher(bcrypt.MinCost), ids)
	syncService := usecase.NewSyncService(nil, teamRepo, matchRepo, 2, logger)

	handler := NewHandler(
		usecase.NewTeamService(teamRepo, matchRepo),
		usecase.NewFormService(teamRepo, matchRepo),
		usecase.NewTrendService(teamRepo, matchRepo),
		usecase.NewDifficultyService(teamRepo, matchRepo),
		authService,
		syncService,
		logger,
	)

	server := httptest.NewServer(NewRouter(handler, authService, logger, []string{"*"}, testSyncToken))
	t.Cleanup(server.Close)

	return server
}

func getJSONBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	_ = resp.Body.Close()

	if err := sonic.Unmarshal(body, target); err != nil {
		t.Fatalf("unmarshal %q: %v", body, err)
	}
}

func TestRouterHealthz(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	getJSONBody(t, resp, &envelope)
	if envelope.Data["status"] != "ok" {
		t.Fatalf("unexpected body: %v", envelope.Data)
	}
}

func TestRouterListTeams(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/teams")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var envelope struct {
		Data []struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Short string `json:"short_name"`
		} `json:"data"`
	}
	getJSONBody(t, resp, &envelope)
	if len(envelope.Data) != 6 {
		t.Fatalf("expected 6 seeded teams, got %d", len(envelope.Data))
	}
	if envelope.Data[0].ID != "eng-ars" || envelope.Data[0].Short != "ARS" {
		t.Fatalf("unexpected first team: %+v", envelope.Data[0])
	}
}

func TestRouterGetTeam(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	t.Run("known team", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(server.URL + "/v1/teams/eng-ars")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		_ = resp.Body.Close()
	})

	t.Run("unknown team", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(server.URL + "/v1/teams/eng-nope")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
		}

		var envelope struct {
			Error *googleErrorBody `json:"error"`
		}
		getJSONBody(t, resp, &envelope)
		if envelope.Error == nil || envelope.Error.Status != "NOT_FOUND" {
			t.Fatalf("unexpected error body: %+v", envelope.Error)
		}
	})
}

func TestRouterTeamForm(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/teams/eng-ars/form?matches=5")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var envelope struct {
		Data struct {
			TeamID      string   `json:"team_id"`
			MatchesUsed int      `json:"matches_used"`
			Sequence    []string `json:"sequence"`
			Rating      *struct {
				Label string `json:"label"`
			} `json:"rating"`
		} `json:"data"`
	}
	getJSONBody(t, resp, &envelope)
	if envelope.Data.TeamID != "eng-ars" {
		t.Fatalf("team_id = %q", envelope.Data.TeamID)
	}
	if envelope.Data.MatchesUsed == 0 || len(envelope.Data.Sequence) != envelope.Data.MatchesUsed {
		t.Fatalf("unexpected snapshot: %+v", envelope.Data)
	}
	if envelope.Data.Rating == nil || envelope.Data.Rating.Label == "" {
		t.Fatal("expected a rating with a label")
	}
}

func TestRouterTeamFormInvalidQuery(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/teams/eng-ars/form?matches=lots")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var envelope struct {
		Error *googleErrorBody `json:"error"`
	}
	getJSONBody(t, resp, &envelope)
	if envelope.Error == nil || envelope.Error.Status != "INVALID_ARGUMENT" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
}

func TestRouterTeamTrends(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/teams/eng-liv/trends?matches=6&window=5")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var envelope struct {
		Data struct {
			Window int       `json:"window"`
			Ppg    []float64 `json:"ppg"`
		} `json:"data"`
	}
	getJSONBody(t, resp, &envelope)
	if envelope.Data.Window != 5 {
		t.Fatalf("window = %d, want 5", envelope.Data.Window)
	}
}

func TestRouterFixtureDifficulty(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/teams/eng-ars/fixture-difficulty?fixtures=2&venue_adjust=false&alpha=0")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var envelope struct {
		Data struct {
			TeamID string `json:"team_id"`
			Items  []struct {
				OpponentID          string  `json:"opponent_id"`
				OpponentBaselinePpg float64 `json:"opponent_baseline_ppg"`
				Score               float64 `json:"score"`
				Label               string  `json:"label"`
			} `json:"items"`
			RunLabel string `json:"run_label"`
		} `json:"data"`
	}
	getJSONBody(t, resp, &envelope)
	if envelope.Data.TeamID != "eng-ars" {
		t.Fatalf("team_id = %q", envelope.Data.TeamID)
	}
	if len(envelope.Data.Items) == 0 || envelope.Data.RunLabel == "" {
		t.Fatalf("unexpected difficulty run: %+v", envelope.Data)
	}
	// alpha=0 without venue adjustment reduces each score to the rounded
	// opponent baseline ppg, which is exactly what the DTO carries.
	for _, item := range envelope.Data.Items {
		if item.Score != item.OpponentBaselinePpg {
			t.Fatalf("opponent %s: score %v, want %v", item.OpponentID, item.Score, item.OpponentBaselinePpg)
		}
	}
}

func TestRouterFixtureDifficultyVenueFactors(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	// The next seeded fixture for eng-ars is at home, so home_factor is the
	// factor applied when venue adjustment is on.
	fetchScore := func(query string) float64 {
		t.Helper()
		resp, err := http.Get(server.URL + "/v1/teams/eng-ars/fixture-difficulty?fixtures=1&alpha=0&" + query)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var envelope struct {
			Data struct {
				Items []struct {
					Venue string  `json:"venue"`
					Score float64 `json:"score"`
				} `json:"items"`
			} `json:"data"`
		}
		getJSONBody(t, resp, &envelope)
		if len(envelope.Data.Items) != 1 {
			t.Fatalf("expected one fixture, got %d", len(envelope.Data.Items))
		}
		if envelope.Data.Items[0].Venue != "HOME" {
			t.Fatalf("venue = %q, want HOME", envelope.Data.Items[0].Venue)
		}
		return envelope.Data.Items[0].Score
	}

	unadjusted := fetchScore("venue_adjust=false")

	if got := fetchScore("venue_adjust=true&home_factor=1.0"); got != unadjusted {
		t.Fatalf("home_factor=1.0 score = %v, want unadjusted %v", got, unadjusted)
	}
	if got := fetchScore("venue_adjust=true&home_factor=0.8"); got >= unadjusted {
		t.Fatalf("home_factor=0.8 score = %v, want below %v", got, unadjusted)
	}

	ceiling := fetchScore("venue_adjust=true&home_factor=1.2")
	if got := fetchScore("venue_adjust=true&home_factor=2.5"); got != ceiling {
		t.Fatalf("home_factor=2.5 score = %v, want clamped to %v", got, ceiling)
	}
}

func TestRouterAuthFlow(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := server.Client()

	postJSON := func(path, body string) *http.Response {
		t.Helper()
		resp, err := client.Post(server.URL+path, "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("post %s: %v", path, err)
		}
		return resp
	}

	// Register.
	resp := postJSON("/v1/auth/register", `{"email":"dana@example.com","name":"Dana","password":"s3cret-pass"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var registered struct {
		Data struct {
			User struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	getJSONBody(t, resp, &registered)
	if registered.Data.User.Email != "dana@example.com" || registered.Data.RefreshToken == "" {
		t.Fatalf("unexpected register response: %+v", registered.Data)
	}

	// The refresh token doubles as the bearer credential.
	req, err := http.NewRequest(http.MethodGet, server.URL+"/v1/auth/me", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+registered.Data.RefreshToken)
	meResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d, want %d", meResp.StatusCode, http.StatusOK)
	}
	var me struct {
		Data map[string]string `json:"data"`
	}
	getJSONBody(t, meResp, &me)
	if me.Data["user_id"] != registered.Data.User.ID {
		t.Fatalf("unexpected me response: %v", me.Data)
	}

	// Login issues a second session.
	resp = postJSON("/v1/auth/login", `{"email":"dana@example.com","password":"s3cret-pass"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var loggedIn struct {
		Data struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	getJSONBody(t, resp, &loggedIn)

	// Rotate the login token.
	resp = postJSON("/v1/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, loggedIn.Data.RefreshToken))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var refreshed struct {
		Data struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	getJSONBody(t, resp, &refreshed)
	if refreshed.Data.RefreshToken == loggedIn.Data.RefreshToken {
		t.Fatal("refresh must rotate the token")
	}

	// The spent token is single-use.
	resp = postJSON("/v1/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, loggedIn.Data.RefreshToken))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("replayed refresh status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	var replayErr struct {
		Error *googleErrorBody `json:"error"`
	}
	getJSONBody(t, resp, &replayErr)
	if replayErr.Error == nil || len(replayErr.Error.Errors) == 0 || replayErr.Error.Errors[0].Reason != "refreshInvalid" {
		t.Fatalf("unexpected error body: %+v", replayErr.Error)
	}

	// Logout revokes the current token.
	resp = postJSON("/v1/auth/logout", fmt.Sprintf(`{"refresh_token":%q}`, refreshed.Data.RefreshToken))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	_ = resp.Body.Close()

	resp = postJSON("/v1/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, refreshed.Data.RefreshToken))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("refresh after logout status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	_ = resp.Body.Close()
}

func TestRouterRegisterValidation(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"invalid email", `{"email":"not-an-email","password":"s3cret-pass"}`},
		{"short password", `{"email":"dana@example.com","password":"short"}`},
		{"unknown field", `{"email":"dana@example.com","password":"s3cret-pass","admin":true}`},
		{"malformed json", `{"email":`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp, err := http.Post(server.URL+"/v1/auth/register", "application/json", bytes.NewBufferString(tc.body))
			if err != nil {
				t.Fatalf("post: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
			_ = resp.Body.Close()
		})
	}
}

func TestRouterInternalSync(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := server.Client()

	t.Run("without token", func(t *testing.T) {
		t.Parallel()

		resp, err := client.Post(server.URL+"/v1/internal/sync", "application/json", nil)
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
		_ = resp.Body.Close()
	})

	t.Run("with token but no configured feed", func(t *testing.T) {
		t.Parallel()

		req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/internal/sync", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("X-Internal-Sync-Token", testSyncToken)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
		}
		_ = resp.Body.Close()
	})
}
