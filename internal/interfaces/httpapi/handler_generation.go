package httpapi

import (
	"net/http"

	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	"github.com/fieldwise/league-scheduler/internal/schedule/expand"
	"github.com/fieldwise/league-scheduler/internal/usecase"
)

type fixedWindowRequest struct {
	FieldKey   string   `json:"fieldKey" validate:"required"`
	DaysOfWeek []string `json:"daysOfWeek" validate:"required,min=1,dive,required"`
	StartTime  string   `json:"startTime" validate:"required"`
	EndTime    string   `json:"endTime" validate:"required"`
}

type generateRequest struct {
	Division   string              `json:"division" validate:"required"`
	DateFrom   string              `json:"dateFrom" validate:"required,datetime=2006-01-02"`
	DateTo     string              `json:"dateTo" validate:"required,datetime=2006-01-02"`
	FieldKey   string              `json:"fieldKey"`
	Fixed      *fixedWindowRequest `json:"fixed"`
	Regenerate bool                `json:"regenerate"`
}

type candidateDTO struct {
	GameDate  string `json:"gameDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	FieldKey  string `json:"fieldKey"`
	RuleID    string `json:"ruleId,omitempty"`
}

type generationResultDTO struct {
	Accepted  []candidateDTO `json:"accepted"`
	Conflicts []candidateDTO `json:"conflicts,omitempty"`
	Created   []slotDTO      `json:"created,omitempty"`
	Cleared   int            `json:"cleared"`
	Warnings  []string       `json:"warnings,omitempty"`
}

type allocationImportItem struct {
	ID           string   `json:"id" validate:"required"`
	Scope        string   `json:"scope"`
	FieldKey     string   `json:"fieldKey" validate:"required"`
	StartsOn     string   `json:"startsOn" validate:"required,datetime=2006-01-02"`
	EndsOn       string   `json:"endsOn" validate:"required,datetime=2006-01-02"`
	DaysOfWeek   []string `json:"daysOfWeek" validate:"required,min=1,dive,required"`
	StartTime    string   `json:"startTime" validate:"required"`
	EndTime      string   `json:"endTime" validate:"required"`
	SlotType     string   `json:"slotType" validate:"omitempty,oneof=practice game both"`
	PriorityRank *int     `json:"priorityRank"`
}

type allocationImportRequest struct {
	Allocations []allocationImportItem `json:"allocations" validate:"required,min=1,dive"`
}

func candidatesToDTO(items []expand.Candidate) []candidateDTO {
	out := make([]candidateDTO, 0, len(items))
	for _, c := range items {
		out = append(out, candidateDTO{
			GameDate:  c.GameDate,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			FieldKey:  c.FieldKey,
			RuleID:    c.RuleID,
		})
	}
	return out
}

func generationResultToDTO(res usecase.GenerationResult) generationResultDTO {
	dto := generationResultDTO{
		Accepted:  candidatesToDTO(res.Accepted),
		Conflicts: candidatesToDTO(res.Conflicts),
		Cleared:   res.Cleared,
		Warnings:  res.Warnings,
	}
	if len(res.Created) > 0 {
		dto.Created = make([]slotDTO, 0, len(res.Created))
		for _, s := range res.Created {
			dto.Created = append(dto.Created, slotToDTO(s, ""))
		}
	}
	return dto
}

func (h *Handler) generationRequest(r *http.Request, req generateRequest) usecase.GenerationRequest {
	out := usecase.GenerationRequest{
		LeagueID:   r.PathValue("leagueID"),
		Division:   req.Division,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		FieldKey:   req.FieldKey,
		Regenerate: req.Regenerate,
	}
	if req.Fixed != nil {
		out.Fixed = &usecase.FixedWindow{
			FieldKey:   req.Fixed.FieldKey,
			DaysOfWeek: req.Fixed.DaysOfWeek,
			StartTime:  req.Fixed.StartTime,
			EndTime:    req.Fixed.EndTime,
		}
	}
	if principal, ok := principalFromContext(r.Context()); ok {
		out.CreatedBy = principal.Email
	}
	return out
}

func (h *Handler) PreviewGeneration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewGeneration")
	defer span.End()

	var req generateRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.generationService.PreviewGeneration(ctx, h.generationRequest(r, req))
	if err != nil {
		h.logger.WarnContext(ctx, "generation preview failed", "league_id", r.PathValue("leagueID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, generationResultToDTO(result))
}

func (h *Handler) ApplyGeneration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyGeneration")
	defer span.End()

	var req generateRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.generationService.ApplyGeneration(ctx, h.generationRequest(r, req))
	if err != nil {
		h.logger.ErrorContext(ctx, "generation apply failed", "league_id", r.PathValue("leagueID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, generationResultToDTO(result))
}

func (h *Handler) ImportAllocations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportAllocations")
	defer span.End()

	leagueID := r.PathValue("leagueID")

	var req allocationImportRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	allocations := make([]availability.Allocation, 0, len(req.Allocations))
	for _, item := range req.Allocations {
		slotType := availability.SlotType(item.SlotType)
		if item.SlotType == "" {
			slotType = availability.SlotTypeBoth
		}
		allocations = append(allocations, availability.Allocation{
			ID:           item.ID,
			LeagueID:     leagueID,
			Scope:        item.Scope,
			FieldKey:     item.FieldKey,
			StartsOn:     item.StartsOn,
			EndsOn:       item.EndsOn,
			DaysOfWeek:   item.DaysOfWeek,
			StartTime:    item.StartTime,
			EndTime:      item.EndTime,
			SlotType:     slotType,
			PriorityRank: item.PriorityRank,
			IsActive:     true,
		})
	}

	imported, err := h.generationService.ImportAllocations(ctx, leagueID, allocations)
	if err != nil {
		h.logger.WarnContext(ctx, "allocation import failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"imported": imported})
}
