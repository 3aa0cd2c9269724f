package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	sonic "github.com/bytedance/sonic"

	"github.com/matchpulse/api/internal/domain/match"
	"github.com/matchpulse/api/internal/domain/team"
	"github.com/matchpulse/api/internal/platform/logging"
	"github.com/matchpulse/api/internal/usecase"
)

type Handler struct {
	teamService       *usecase.TeamService
	formService       *usecase.FormService
	trendService      *usecase.TrendService
	difficultyService *usecase.DifficultyService
	authService       *usecase.AuthService
	syncService       *usecase.SyncService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	teamService *usecase.TeamService,
	formService *usecase.FormService,
	trendService *usecase.TrendService,
	difficultyService *usecase.DifficultyService,
	authService *usecase.AuthService,
	syncService *usecase.SyncService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		teamService:       teamService,
		formService:       formService,
		trendService:      trendService,
		difficultyService: difficultyService,
		authService:       authService,
		syncService:       syncService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeRequest(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// intQueryParam returns fallback when the parameter is absent and an
// ErrInvalidInput-wrapped error when it is present but not an integer.
func intQueryParam(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %q must be an integer", usecase.ErrInvalidInput, name)
	}

	return value, nil
}

func floatQueryParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %q must be a number", usecase.ErrInvalidInput, name)
	}

	return value, nil
}

func boolQueryParam(r *http.Request, name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: query parameter %q must be a boolean", usecase.ErrInvalidInput, name)
	}

	return value, nil
}

type teamDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short_name"`
}

func teamToDTO(item team.Team) teamDTO {
	return teamDTO{ID: item.ID, Name: item.Name, Short: item.Short}
}

type matchDTO struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competition_id"`
	HomeTeamID    string    `json:"home_team_id"`
	AwayTeamID    string    `json:"away_team_id"`
	KickoffAt     time.Time `json:"kickoff_at"`
	HomeScore     *int      `json:"home_score,omitempty"`
	AwayScore     *int      `json:"away_score,omitempty"`
	Winner        string    `json:"winner"`
	Status        string    `json:"status"`
}

func matchToDTO(item match.Match) matchDTO {
	return matchDTO{
		ID:            item.ID,
		CompetitionID: item.CompetitionID,
		HomeTeamID:    item.HomeTeamID,
		AwayTeamID:    item.AwayTeamID,
		KickoffAt:     item.KickoffAt,
		HomeScore:     item.HomeScore,
		AwayScore:     item.AwayScore,
		Winner:        string(item.Winner),
		Status:        item.Status,
	}
}
