package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/results", handler.ListTeamResults)
	mux.HandleFunc("GET /v1/teams/{teamID}/fixtures", handler.ListTeamFixtures)
	mux.HandleFunc("GET /v1/teams/{teamID}/form", handler.GetTeamForm)
	mux.HandleFunc("GET /v1/teams/{teamID}/trends", handler.GetTeamTrends)
	mux.HandleFunc("GET /v1/teams/{teamID}/fixture-difficulty", handler.GetFixtureDifficulty)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("POST /v1/auth/refresh", handler.Refresh)
	mux.HandleFunc("POST /v1/auth/logout", handler.Logout)
	mux.Handle("GET /v1/auth/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalSyncToken string) {
	mux.Handle("POST /v1/internal/sync", RequireInternalSyncToken(internalSyncToken, http.HandlerFunc(handler.RunFeedSync)))
}
