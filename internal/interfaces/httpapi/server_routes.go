package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("POST /v1/teams", handler.CreateTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("PUT /v1/teams/{teamID}", handler.UpdateTeam)
	mux.HandleFunc("DELETE /v1/teams/{teamID}", handler.DeleteTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/stats", handler.GetTeamStats)
	mux.HandleFunc("GET /v1/teams/{teamID}/default-lineup", handler.GetTeamDefaultLineup)
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/matches/live", handler.StartMatch)
	mux.HandleFunc("GET /v1/matches/live", handler.GetLiveMatch)
	mux.HandleFunc("DELETE /v1/matches/live", handler.AbandonMatch)
	mux.HandleFunc("POST /v1/matches/live/events", handler.RecordEvent)
	mux.HandleFunc("POST /v1/matches/live/clock/{action}", handler.ControlClock)
	mux.HandleFunc("POST /v1/matches/live/end", handler.EndMatch)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/admin/reset", RequireAdminToken(adminToken, http.HandlerFunc(handler.ResetData)))
	mux.Handle("POST /v1/admin/stats/reapply", RequireAdminToken(adminToken, http.HandlerFunc(handler.ReapplyStats)))
}
