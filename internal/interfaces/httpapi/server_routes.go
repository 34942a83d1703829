package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/divisions", handler.ListDivisions)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/divisions/{division}/teams", handler.ListTeamsByDivision)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/fields", handler.ListFields)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/slots", handler.QuerySlots)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/divisions/{division}/slots/{slotID}", handler.GetSlot)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedSlotRoutes(mux, handler, verifier)
	registerAuthorizedGenerationRoutes(mux, handler, verifier)
	registerAuthorizedScheduleRoutes(mux, handler, verifier)
}

func registerAuthorizedSlotRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PUT /v1/leagues/{leagueID}/divisions/{division}/slots/{slotID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateSlot)))
	mux.Handle("POST /v1/leagues/{leagueID}/divisions/{division}/slots/{slotID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelSlot)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/divisions/{division}/slots/{slotID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteSlot)))
}

func registerAuthorizedGenerationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues/{leagueID}/slots/generate/preview", RequireAuth(verifier, http.HandlerFunc(handler.PreviewGeneration)))
	mux.Handle("POST /v1/leagues/{leagueID}/slots/generate/apply", RequireAuth(verifier, http.HandlerFunc(handler.ApplyGeneration)))
}

func registerAuthorizedScheduleRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues/{leagueID}/divisions/{division}/schedule/feasibility", RequireAuth(verifier, http.HandlerFunc(handler.ScheduleFeasibility)))
	mux.Handle("POST /v1/leagues/{leagueID}/divisions/{division}/schedule/preview", RequireAuth(verifier, http.HandlerFunc(handler.SchedulePreview)))
	mux.Handle("POST /v1/leagues/{leagueID}/divisions/{division}/schedule/apply", RequireAuth(verifier, http.HandlerFunc(handler.ScheduleApply)))
	mux.Handle("GET /v1/leagues/{leagueID}/divisions/{division}/schedule/runs", RequireAuth(verifier, http.HandlerFunc(handler.ListScheduleRuns)))
	mux.Handle("GET /v1/leagues/{leagueID}/divisions/{division}/schedule/runs/{runID}", RequireAuth(verifier, http.HandlerFunc(handler.GetScheduleRun)))
}

func registerImportRoutes(mux *http.ServeMux, handler *Handler, importToken string) {
	// Bulk allocation imports come from the parks department feed, not from
	// interactive users, so they carry a shared import token instead of a
	// bearer token.
	mux.Handle("POST /v1/leagues/{leagueID}/allocations/import", RequireImportToken(importToken, http.HandlerFunc(handler.ImportAllocations)))
}
