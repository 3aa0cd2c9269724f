package httpapi

import (
	"net/http"
	"time"

	"github.com/matchpulse/api/internal/domain/analytics"
)

func (h *Handler) GetTeamForm(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamForm")
	defer span.End()

	teamID := r.PathValue("teamID")
	matchesCount, err := intQueryParam(r, "matches", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.formService.Compute(ctx, teamID, matchesCount)
	if err != nil {
		h.logger.WarnContext(ctx, "compute team form failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, formSnapshotToDTO(teamID, snapshot))
}

func (h *Handler) GetTeamTrends(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamTrends")
	defer span.End()

	teamID := r.PathValue("teamID")
	matchesCount, err := intQueryParam(r, "matches", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	window, err := intQueryParam(r, "window", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	series, err := h.trendService.Compute(ctx, teamID, matchesCount, window)
	if err != nil {
		h.logger.WarnContext(ctx, "compute team trends failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, trendSeriesToDTO(teamID, series))
}

func (h *Handler) GetFixtureDifficulty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixtureDifficulty")
	defer span.End()

	teamID := r.PathValue("teamID")
	params, err := difficultyParamsFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	run, err := h.difficultyService.Compute(ctx, teamID, params)
	if err != nil {
		h.logger.WarnContext(ctx, "compute fixture difficulty failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, difficultyRunToDTO(teamID, run))
}

func difficultyParamsFromQuery(r *http.Request) (analytics.DifficultyParams, error) {
	defaults := analytics.DefaultDifficultyParams()

	count, err := intQueryParam(r, "fixtures", defaults.FixtureCount)
	if err != nil {
		return analytics.DifficultyParams{}, err
	}
	baseline, err := intQueryParam(r, "baseline", defaults.BaselineMatches)
	if err != nil {
		return analytics.DifficultyParams{}, err
	}
	recent, err := intQueryParam(r, "recent", defaults.RecentMatches)
	if err != nil {
		return analytics.DifficultyParams{}, err
	}
	alpha, err := floatQueryParam(r, "alpha", defaults.Alpha)
	if err != nil {
		return analytics.DifficultyParams{}, err
	}
	venueAdjust, err := boolQueryParam(r, "venue_adjust", defaults.VenueAdjust)
	if err != nil {
		return analytics.DifficultyParams{}, err
	}
	homeFactor, err := floatQueryParam(r, "home_factor", defaults.HomeFactor)
	if err != nil {
		return analytics.DifficultyParams{}, err
	}
	awayFactor, err := floatQueryParam(r, "away_factor", defaults.AwayFactor)
	if err != nil {
		return analytics.DifficultyParams{}, err
	}

	return analytics.DifficultyParams{
		FixtureCount:    count,
		BaselineMatches: baseline,
		RecentMatches:   recent,
		Alpha:           alpha,
		VenueAdjust:     venueAdjust,
		HomeFactor:      homeFactor,
		AwayFactor:      awayFactor,
	}, nil
}

type formRatingDTO struct {
	RecentPpg       float64 `json:"recent_ppg"`
	BaselinePpg     float64 `json:"baseline_ppg"`
	DeltaPpg        float64 `json:"delta_ppg"`
	Label           string  `json:"label"`
	Volatility      float64 `json:"volatility"`
	VolatilityLabel string  `json:"volatility_label"`
	Confirmation    string  `json:"confirmation"`
}

type formSnapshotDTO struct {
	TeamID          string         `json:"team_id"`
	MatchesUsed     int            `json:"matches_used"`
	Sequence        []string       `json:"sequence"`
	TotalPoints     int            `json:"total_points"`
	Ppg             float64        `json:"ppg"`
	GoalsFor        int            `json:"goals_for"`
	GoalsAgainst    int            `json:"goals_against"`
	GoalsDiff       int            `json:"goals_diff"`
	CleanSheets     int            `json:"clean_sheets"`
	AvgGoalsFor     float64        `json:"avg_goals_for"`
	AvgGoalsAgainst float64        `json:"avg_goals_against"`
	Rating          *formRatingDTO `json:"rating,omitempty"`
}

func formSnapshotToDTO(teamID string, snapshot analytics.FormSnapshot) formSnapshotDTO {
	sequence := make([]string, 0, len(snapshot.Sequence))
	for _, result := range snapshot.Sequence {
		sequence = append(sequence, string(result))
	}

	out := formSnapshotDTO{
		TeamID:          teamID,
		MatchesUsed:     snapshot.MatchesUsed,
		Sequence:        sequence,
		TotalPoints:     snapshot.TotalPoints,
		Ppg:             analytics.Round2(snapshot.Ppg),
		GoalsFor:        snapshot.GoalsFor,
		GoalsAgainst:    snapshot.GoalsAgainst,
		GoalsDiff:       snapshot.GoalsDiff,
		CleanSheets:     snapshot.CleanSheets,
		AvgGoalsFor:     analytics.Round2(snapshot.AvgGoalsFor),
		AvgGoalsAgainst: analytics.Round2(snapshot.AvgGoalsAgainst),
	}

	if snapshot.Rating != nil {
		out.Rating = &formRatingDTO{
			RecentPpg:       analytics.Round2(snapshot.Rating.RecentPpg),
			BaselinePpg:     analytics.Round2(snapshot.Rating.BaselinePpg),
			DeltaPpg:        analytics.Round2(snapshot.Rating.DeltaPpg),
			Label:           snapshot.Rating.Label,
			Volatility:      analytics.Round2(snapshot.Rating.Volatility),
			VolatilityLabel: snapshot.Rating.VolatilityLabel,
			Confirmation:    snapshot.Rating.Confirmation,
		}
	}

	return out
}

type trendSeriesDTO struct {
	TeamID               string      `json:"team_id"`
	Window               int         `json:"window"`
	Labels               []time.Time `json:"labels"`
	Ppg                  []float64   `json:"ppg"`
	GoalsDiffPerMatch    []float64   `json:"goals_diff_per_match"`
	GoalsForPerMatch     []float64   `json:"goals_for_per_match"`
	GoalsAgainstPerMatch []float64   `json:"goals_against_per_match"`
}

func trendSeriesToDTO(teamID string, series analytics.TrendSeries) trendSeriesDTO {
	return trendSeriesDTO{
		TeamID:               teamID,
		Window:               series.Window,
		Labels:               series.Labels,
		Ppg:                  roundSeries(series.Ppg),
		GoalsDiffPerMatch:    roundSeries(series.GoalsDiffPerMatch),
		GoalsForPerMatch:     roundSeries(series.GoalsForPerMatch),
		GoalsAgainstPerMatch: roundSeries(series.GoalsAgainstPerMatch),
	}
}

func roundSeries(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		out = append(out, analytics.Round2(v))
	}
	return out
}

type difficultyItemDTO struct {
	FixtureID           string    `json:"fixture_id"`
	KickoffAt           time.Time `json:"kickoff_at"`
	Venue               string    `json:"venue"`
	OpponentID          string    `json:"opponent_id"`
	OpponentBaselinePpg float64   `json:"opponent_baseline_ppg"`
	OpponentRecentPpg   float64   `json:"opponent_recent_ppg"`
	DeltaPpg            float64   `json:"delta_ppg"`
	OpponentStrength    float64   `json:"opponent_strength"`
	Score               float64   `json:"score"`
	Label               string    `json:"label"`
}

type difficultyRunDTO struct {
	TeamID   string              `json:"team_id"`
	Items    []difficultyItemDTO `json:"items"`
	RunScore float64             `json:"run_score"`
	RunLabel string              `json:"run_label"`
}

func difficultyRunToDTO(teamID string, run analytics.DifficultyRun) difficultyRunDTO {
	items := make([]difficultyItemDTO, 0, len(run.Items))
	for _, item := range run.Items {
		items = append(items, difficultyItemDTO{
			FixtureID:           item.FixtureID,
			KickoffAt:           item.KickoffAt,
			Venue:               string(item.Venue),
			OpponentID:          item.OpponentID,
			OpponentBaselinePpg: analytics.Round2(item.OpponentBaselinePpg),
			OpponentRecentPpg:   analytics.Round2(item.OpponentRecentPpg),
			DeltaPpg:            analytics.Round2(item.DeltaPpg),
			OpponentStrength:    analytics.Round2(item.OpponentStrength),
			Score:               item.Score,
			Label:               item.Label,
		})
	}

	return difficultyRunDTO{
		TeamID:   teamID,
		Items:    items,
		RunScore: analytics.Round2(run.RunScore),
		RunLabel: run.RunLabel,
	}
}
