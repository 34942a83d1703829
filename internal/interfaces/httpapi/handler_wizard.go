package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	"github.com/fieldwise/league-scheduler/internal/schedule/assign"
	"github.com/fieldwise/league-scheduler/internal/schedule/matchup"
	"github.com/fieldwise/league-scheduler/internal/usecase"
)

type blockedRangeRequest struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Label     string `json:"label"`
}

type slotPlanEntryRequest struct {
	SlotID       string `json:"slotId" validate:"required"`
	SlotType     string `json:"slotType" validate:"omitempty,oneof=practice game both"`
	PriorityRank *int   `json:"priorityRank"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

type guestAnchorRequest struct {
	DayOfWeek string `json:"dayOfWeek" validate:"required"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	FieldKey  string `json:"fieldKey"`
}

type wizardRequest struct {
	SeasonStart               string                 `json:"seasonStart" validate:"required,datetime=2006-01-02"`
	SeasonEnd                 string                 `json:"seasonEnd" validate:"required,datetime=2006-01-02"`
	PoolStart                 string                 `json:"poolStart" validate:"omitempty,datetime=2006-01-02"`
	PoolEnd                   string                 `json:"poolEnd" validate:"omitempty,datetime=2006-01-02"`
	BracketStart              string                 `json:"bracketStart" validate:"omitempty,datetime=2006-01-02"`
	BracketEnd                string                 `json:"bracketEnd" validate:"omitempty,datetime=2006-01-02"`
	BlockedDateRanges         []blockedRangeRequest  `json:"blockedDateRanges" validate:"dive"`
	MinGamesPerTeam           int                    `json:"minGamesPerTeam" validate:"min=0"`
	PoolGamesPerTeam          int                    `json:"poolGamesPerTeam" validate:"min=0"`
	MaxGamesPerWeek           int                    `json:"maxGamesPerWeek" validate:"min=0"`
	ExternalOfferPerWeek      int                    `json:"externalOfferPerWeek" validate:"min=0"`
	NoDoubleHeaders           *bool                  `json:"noDoubleHeaders"`
	BalanceHomeAway           *bool                  `json:"balanceHomeAway"`
	PreferredWeeknights       []string               `json:"preferredWeeknights" validate:"dive,required"`
	StrictPreferredWeeknights bool                   `json:"strictPreferredWeeknights"`
	SlotPlan                  []slotPlanEntryRequest `json:"slotPlan" validate:"dive"`
	GuestAnchorPrimary        *guestAnchorRequest    `json:"guestAnchorPrimary"`
	GuestAnchorSecondary      *guestAnchorRequest    `json:"guestAnchorSecondary"`
}

type assignmentDTO struct {
	SlotID          string `json:"slotId"`
	GameDate        string `json:"gameDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	FieldKey        string `json:"fieldKey"`
	HomeTeamID      string `json:"homeTeamId"`
	AwayTeamID      string `json:"awayTeamId,omitempty"`
	IsExternalOffer bool   `json:"isExternalOffer"`
	Phase           string `json:"phase"`
}

type matchupDTO struct {
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
}

type wizardOutcomeDTO struct {
	RunID              string                `json:"runId,omitempty"`
	Summary            usecase.WizardSummary `json:"summary"`
	Assignments        []assignmentDTO       `json:"assignments"`
	UnassignedSlots    []string              `json:"unassignedSlots,omitempty"`
	UnassignedMatchups []matchupDTO          `json:"unassignedMatchups,omitempty"`
	Warnings           []string              `json:"warnings,omitempty"`
	Issues             []assign.Issue        `json:"issues,omitempty"`
}

type scheduleRunDTO struct {
	ID          string          `json:"id"`
	Division    string          `json:"division"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	CreatedUTC  string          `json:"createdUtc"`
	DateFrom    string          `json:"dateFrom"`
	DateTo      string          `json:"dateTo"`
	Constraints json.RawMessage `json:"constraints,omitempty"`
	Summary     json.RawMessage `json:"summary,omitempty"`
}

func guestAnchorFromRequest(req *guestAnchorRequest) *assign.GuestAnchor {
	if req == nil {
		return nil
	}
	return &assign.GuestAnchor{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		FieldKey:  req.FieldKey,
	}
}

func (h *Handler) wizardRequest(r *http.Request, req wizardRequest) usecase.WizardRequest {
	out := usecase.WizardRequest{
		LeagueID:                  r.PathValue("leagueID"),
		Division:                  r.PathValue("division"),
		SeasonStart:               req.SeasonStart,
		SeasonEnd:                 req.SeasonEnd,
		PoolStart:                 req.PoolStart,
		PoolEnd:                   req.PoolEnd,
		BracketStart:              req.BracketStart,
		BracketEnd:                req.BracketEnd,
		MinGamesPerTeam:           req.MinGamesPerTeam,
		PoolGamesPerTeam:          req.PoolGamesPerTeam,
		MaxGamesPerWeek:           req.MaxGamesPerWeek,
		ExternalOfferPerWeek:      req.ExternalOfferPerWeek,
		NoDoubleHeaders:           req.NoDoubleHeaders,
		BalanceHomeAway:           req.BalanceHomeAway,
		PreferredWeeknights:       req.PreferredWeeknights,
		StrictPreferredWeeknights: req.StrictPreferredWeeknights,
		GuestAnchorPrimary:        guestAnchorFromRequest(req.GuestAnchorPrimary),
		GuestAnchorSecondary:      guestAnchorFromRequest(req.GuestAnchorSecondary),
	}
	for _, blocked := range req.BlockedDateRanges {
		out.BlockedDateRanges = append(out.BlockedDateRanges, league.BlackoutRange{
			StartDate: blocked.StartDate,
			EndDate:   blocked.EndDate,
			Label:     blocked.Label,
		})
	}
	for _, entry := range req.SlotPlan {
		out.SlotPlan = append(out.SlotPlan, usecase.SlotPlanEntry{
			SlotID:       entry.SlotID,
			SlotType:     availability.SlotType(entry.SlotType),
			PriorityRank: entry.PriorityRank,
			StartTime:    entry.StartTime,
			EndTime:      entry.EndTime,
		})
	}
	if principal, ok := principalFromContext(r.Context()); ok {
		out.CreatedBy = principal.Email
	}
	return out
}

func assignmentsToDTO(items []slot.Assignment) []assignmentDTO {
	out := make([]assignmentDTO, 0, len(items))
	for _, a := range items {
		out = append(out, assignmentDTO{
			SlotID:          a.SlotID,
			GameDate:        a.GameDate,
			StartTime:       a.StartTime,
			EndTime:         a.EndTime,
			FieldKey:        a.FieldKey,
			HomeTeamID:      a.HomeTeamID,
			AwayTeamID:      a.AwayTeamID,
			IsExternalOffer: a.IsExternalOffer,
			Phase:           a.Phase,
		})
	}
	return out
}

func matchupsToDTO(items []matchup.Pair) []matchupDTO {
	if len(items) == 0 {
		return nil
	}
	out := make([]matchupDTO, 0, len(items))
	for _, p := range items {
		out = append(out, matchupDTO{HomeTeamID: p.HomeTeamID, AwayTeamID: p.AwayTeamID})
	}
	return out
}

func wizardOutcomeToDTO(outcome usecase.WizardOutcome) wizardOutcomeDTO {
	return wizardOutcomeDTO{
		RunID:              outcome.RunID,
		Summary:            outcome.Summary,
		Assignments:        assignmentsToDTO(outcome.Assignments),
		UnassignedSlots:    outcome.UnassignedSlots,
		UnassignedMatchups: matchupsToDTO(outcome.UnassignedMatchups),
		Warnings:           outcome.Warnings,
		Issues:             outcome.Issues,
	}
}

func scheduleRunToDTO(run slot.Run) scheduleRunDTO {
	return scheduleRunDTO{
		ID:          run.ID,
		Division:    run.Division,
		CreatedBy:   run.CreatedBy,
		CreatedUTC:  run.CreatedUTC.UTC().Format("2006-01-02T15:04:05Z"),
		DateFrom:    run.DateFrom,
		DateTo:      run.DateTo,
		Constraints: json.RawMessage(run.ConstraintsJSON),
		Summary:     json.RawMessage(run.SummaryJSON),
	}
}

func (h *Handler) ScheduleFeasibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleFeasibility")
	defer span.End()

	var req wizardRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.wizardService.Feasibility(ctx, h.wizardRequest(r, req))
	if err != nil {
		h.logger.WarnContext(ctx, "schedule feasibility failed", "league_id", r.PathValue("leagueID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) SchedulePreview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SchedulePreview")
	defer span.End()

	var req wizardRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := h.wizardService.Preview(ctx, h.wizardRequest(r, req))
	if err != nil {
		h.logger.WarnContext(ctx, "schedule preview failed", "league_id", r.PathValue("leagueID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, wizardOutcomeToDTO(outcome))
}

func (h *Handler) ScheduleApply(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleApply")
	defer span.End()

	var req wizardRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := h.wizardService.Apply(ctx, h.wizardRequest(r, req))
	if err != nil {
		h.logger.ErrorContext(ctx, "schedule apply failed", "league_id", r.PathValue("leagueID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, wizardOutcomeToDTO(outcome))
}

func (h *Handler) ListScheduleRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScheduleRuns")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	division := r.PathValue("division")

	runs, err := h.wizardService.ListRuns(ctx, leagueID, division)
	if err != nil {
		h.logger.WarnContext(ctx, "list schedule runs failed", "league_id", leagueID, "division", division, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]scheduleRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, scheduleRunToDTO(run))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetScheduleRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScheduleRun")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	division := r.PathValue("division")
	runID := r.PathValue("runID")

	run, err := h.wizardService.GetRun(ctx, leagueID, division, runID)
	if err != nil {
		h.logger.WarnContext(ctx, "get schedule run failed", "league_id", leagueID, "run_id", runID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleRunToDTO(run))
}
