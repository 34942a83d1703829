package httpapi

import (
	"net/http"

	"github.com/fieldwise/league-scheduler/internal/domain/field"
	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/domain/team"
)

type blackoutDTO struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Label     string `json:"label,omitempty"`
}

type seasonConfigDTO struct {
	SpringStart       string        `json:"springStart,omitempty"`
	SpringEnd         string        `json:"springEnd,omitempty"`
	FallStart         string        `json:"fallStart,omitempty"`
	FallEnd           string        `json:"fallEnd,omitempty"`
	GameLengthMinutes int           `json:"gameLengthMinutes"`
	Blackouts         []blackoutDTO `json:"blackouts,omitempty"`
}

type leagueDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Timezone string          `json:"timezone"`
	Status   string          `json:"status"`
	Contact  string          `json:"contact,omitempty"`
	Season   seasonConfigDTO `json:"season"`
}

type divisionDTO struct {
	Code              string        `json:"code"`
	Name              string        `json:"name"`
	IsActive          bool          `json:"isActive"`
	GameLengthMinutes int           `json:"gameLengthMinutes,omitempty"`
	Blackouts         []blackoutDTO `json:"blackouts,omitempty"`
}

type teamDTO struct {
	ID                 string   `json:"id"`
	Division           string   `json:"division"`
	Name               string   `json:"name"`
	PrimaryContact     string   `json:"primaryContact,omitempty"`
	AssistantCoaches   []string `json:"assistantCoaches,omitempty"`
	OnboardingComplete bool     `json:"onboardingComplete"`
}

type fieldDTO struct {
	Key         string        `json:"key"`
	ParkName    string        `json:"parkName"`
	FieldName   string        `json:"fieldName"`
	DisplayName string        `json:"displayName"`
	IsActive    bool          `json:"isActive"`
	Blackouts   []blackoutDTO `json:"blackouts,omitempty"`
	Address     string        `json:"address,omitempty"`
	City        string        `json:"city,omitempty"`
	State       string        `json:"state,omitempty"`
	PostalCode  string        `json:"postalCode,omitempty"`
}

func blackoutsToDTO(items []league.BlackoutRange) []blackoutDTO {
	if len(items) == 0 {
		return nil
	}
	out := make([]blackoutDTO, 0, len(items))
	for _, b := range items {
		out = append(out, blackoutDTO{StartDate: b.StartDate, EndDate: b.EndDate, Label: b.Label})
	}
	return out
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{
		ID:       l.ID,
		Name:     l.Name,
		Timezone: l.Timezone,
		Status:   string(l.Status),
		Contact:  l.Contact,
		Season: seasonConfigDTO{
			SpringStart:       l.Season.SpringStart,
			SpringEnd:         l.Season.SpringEnd,
			FallStart:         l.Season.FallStart,
			FallEnd:           l.Season.FallEnd,
			GameLengthMinutes: l.Season.GameLengthMinutes,
			Blackouts:         blackoutsToDTO(l.Season.Blackouts),
		},
	}
}

func divisionToDTO(d league.Division) divisionDTO {
	return divisionDTO{
		Code:              d.Code,
		Name:              d.Name,
		IsActive:          d.IsActive,
		GameLengthMinutes: d.GameLengthMinutes,
		Blackouts:         blackoutsToDTO(d.Blackouts),
	}
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:                 t.ID,
		Division:           t.Division,
		Name:               t.Name,
		PrimaryContact:     t.PrimaryContact,
		AssistantCoaches:   t.AssistantCoaches,
		OnboardingComplete: t.OnboardingComplete,
	}
}

func fieldToDTO(f field.Field) fieldDTO {
	return fieldDTO{
		Key:         f.Key(),
		ParkName:    f.ParkName,
		FieldName:   f.FieldName,
		DisplayName: f.DisplayName,
		IsActive:    f.IsActive,
		Blackouts:   blackoutsToDTO(f.Blackouts),
		Address:     f.Address,
		City:        f.City,
		State:       f.State,
		PostalCode:  f.PostalCode,
	}
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	item, err := h.leagueService.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDivisions")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	divisions, err := h.leagueService.ListDivisions(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list divisions failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]divisionDTO, 0, len(divisions))
	for _, d := range divisions {
		items = append(items, divisionToDTO(d))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeamsByDivision(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsByDivision")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	division := r.PathValue("division")
	teams, err := h.leagueService.ListTeams(ctx, leagueID, division)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "league_id", leagueID, "division", division, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFields(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFields")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	fields, err := h.leagueService.ListFields(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fields failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fieldDTO, 0, len(fields))
	for _, f := range fields {
		items = append(items, fieldToDTO(f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
