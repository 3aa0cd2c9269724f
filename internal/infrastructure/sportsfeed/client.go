package sportsfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/matchpulse/api/internal/domain/match"
	"github.com/matchpulse/api/internal/domain/team"
	"github.com/matchpulse/api/internal/platform/logging"
	"github.com/matchpulse/api/internal/platform/resilience"
	"github.com/matchpulse/api/internal/usecase"
)

const maxResponseBytes = 4 << 20

// Client pulls teams and schedules from the upstream feed API. Responses are
// read through a bytebufferpool buffer and decoded with sonic; repeated
// transport failures open a circuit breaker so a dead feed fails fast.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *resilience.Breaker
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, baseURL, apiKey string, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		breaker: resilience.NewBreaker(resilience.BreakerConfig{
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
			HalfOpenProbes:   2,
		}),
		logger:     logger,
	}
}

func (c *Client) FetchTeams(ctx context.Context) ([]team.Team, error) {
	var decoded teamsResponse
	if err := c.getJSON(ctx, "/v1/teams", &decoded); err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(decoded.Teams))
	for _, item := range decoded.Teams {
		out = append(out, team.Team{
			ID:    strings.TrimSpace(item.ID),
			Name:  strings.TrimSpace(item.Name),
			Short: strings.TrimSpace(item.Short),
		})
	}

	return out, nil
}

func (c *Client) FetchMatchesByTeam(ctx context.Context, teamID string) ([]match.Match, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, errors.New("team id is required")
	}

	var decoded matchesResponse
	if err := c.getJSON(ctx, "/v1/teams/"+teamID+"/matches", &decoded); err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(decoded.Matches))
	for _, item := range decoded.Matches {
		out = append(out, item.toDomain())
	}

	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	if err := c.breaker.Admit(); err != nil {
		return fmt.Errorf("%w: sports feed circuit open", usecase.ErrDependencyUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		c.breaker.Observe(true)
		return errors.Wrap(err, "create feed request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.Observe(true)
		return errors.Wrap(err, "request sports feed")
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		c.breaker.Observe(true)
		return errors.Wrap(err, "read feed response")
	}

	if resp.StatusCode != http.StatusOK {
		// Only server-side failures count against the breaker. A 4xx means
		// the feed is up and answering.
		c.breaker.Observe(resp.StatusCode >= http.StatusInternalServerError)
		c.logger.WarnContext(ctx, "sports feed non-200",
			"path", path,
			"status_code", resp.StatusCode,
		)
		return errors.Newf("sports feed returned status %d for %s", resp.StatusCode, path)
	}

	if err := sonic.Unmarshal(buf.Bytes(), target); err != nil {
		c.breaker.Observe(true)
		return errors.Wrap(err, "decode feed response")
	}

	c.breaker.Observe(false)
	return nil
}

type teamsResponse struct {
	Teams []feedTeam `json:"teams"`
}

type feedTeam struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short_name"`
}

type matchesResponse struct {
	Matches []feedMatch `json:"matches"`
}

type feedMatch struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competition_id"`
	HomeTeamID    string    `json:"home_team_id"`
	AwayTeamID    string    `json:"away_team_id"`
	KickoffAt     time.Time `json:"kickoff_at"`
	HomeScore     feedScore `json:"home_score"`
	AwayScore     feedScore `json:"away_score"`
	Winner        string    `json:"winner"`
	Status        string    `json:"status"`
}

func (m feedMatch) toDomain() match.Match {
	out := match.Match{
		ID:            strings.TrimSpace(m.ID),
		CompetitionID: strings.TrimSpace(m.CompetitionID),
		HomeTeamID:    strings.TrimSpace(m.HomeTeamID),
		AwayTeamID:    strings.TrimSpace(m.AwayTeamID),
		KickoffAt:     m.KickoffAt,
		HomeScore:     m.HomeScore.value,
		AwayScore:     m.AwayScore.value,
		Winner:        match.NormalizeWinner(m.Winner),
		Status:        match.NormalizeStatus(m.Status),
	}

	if out.Winner == match.WinnerUnknown && out.Finished() {
		out.Winner = match.WinnerFromScores(out.HomeScore, out.AwayScore)
	}

	return out
}

// feedScore tolerates the three shapes the feed has shipped for scores:
// null, a number, and a quoted number. Anything else decodes as absent.
type feedScore struct {
	value *int
}

func (s *feedScore) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "" || text == "null" {
		s.value = nil
		return nil
	}

	text = strings.Trim(text, `"`)
	parsed, err := strconv.Atoi(text)
	if err != nil {
		s.value = nil
		return nil
	}

	s.value = &parsed
	return nil
}
