package httpapi

import "net/http"

type syncResultDTO struct {
	TeamsUpserted   int      `json:"teams_upserted"`
	MatchesUpserted int      `json:"matches_upserted"`
	TeamsFailed     int      `json:"teams_failed"`
	FailedTeamIDs   []string `json:"failed_team_ids,omitempty"`
	DurationMs      int64    `json:"duration_ms"`
}

func (h *Handler) RunFeedSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunFeedSync")
	defer span.End()

	result, err := h.syncService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "feed sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{
		TeamsUpserted:   result.TeamsUpserted,
		MatchesUpserted: result.MatchesUpserted,
		TeamsFailed:     result.TeamsFailed,
		FailedTeamIDs:   result.FailedTeamIDs,
		DurationMs:      result.Duration.Milliseconds(),
	})
}
