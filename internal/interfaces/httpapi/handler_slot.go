package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	"github.com/fieldwise/league-scheduler/internal/usecase"
)

type slotDTO struct {
	ID              string `json:"id"`
	Division        string `json:"division"`
	GameDate        string `json:"gameDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	FieldKey        string `json:"fieldKey"`
	ParkName        string `json:"parkName,omitempty"`
	FieldName       string `json:"fieldName,omitempty"`
	DisplayName     string `json:"displayName,omitempty"`
	OfferingTeamID  string `json:"offeringTeamId,omitempty"`
	HomeTeamID      string `json:"homeTeamId,omitempty"`
	AwayTeamID      string `json:"awayTeamId,omitempty"`
	IsAvailability  bool   `json:"isAvailability"`
	IsExternalOffer bool   `json:"isExternalOffer"`
	Status          string `json:"status"`
	ScheduleRunID   string `json:"scheduleRunId,omitempty"`
	GameType        string `json:"gameType,omitempty"`
	Notes           string `json:"notes,omitempty"`
	ConfirmedBy     string `json:"confirmedBy,omitempty"`
	ConfirmedUTC    string `json:"confirmedUtc,omitempty"`
	UpdatedBy       string `json:"updatedBy,omitempty"`
	VersionToken    string `json:"versionToken,omitempty"`
}

type slotPageDTO struct {
	Items      []slotDTO `json:"items"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

type updateSlotRequest struct {
	GameDate     string `json:"gameDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	FieldKey     string `json:"fieldKey"`
	HomeTeamID   string `json:"homeTeamId"`
	AwayTeamID   string `json:"awayTeamId"`
	Status       string `json:"status" validate:"omitempty,oneof=Open Confirmed Cancelled"`
	GameType     string `json:"gameType"`
	Notes        string `json:"notes"`
	VersionToken string `json:"versionToken" validate:"required"`
}

type cancelSlotRequest struct {
	VersionToken string `json:"versionToken" validate:"required"`
}

func slotToDTO(s slot.Slot, versionToken string) slotDTO {
	dto := slotDTO{
		ID:              s.ID,
		Division:        s.Division,
		GameDate:        s.GameDate,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		FieldKey:        s.FieldKey,
		ParkName:        s.ParkName,
		FieldName:       s.FieldName,
		DisplayName:     s.DisplayName,
		OfferingTeamID:  s.OfferingTeamID,
		HomeTeamID:      s.HomeTeamID,
		AwayTeamID:      s.AwayTeamID,
		IsAvailability:  s.IsAvailability,
		IsExternalOffer: s.IsExternalOffer,
		Status:          string(s.Status),
		ScheduleRunID:   s.ScheduleRunID,
		GameType:        s.GameType,
		Notes:           s.Notes,
		ConfirmedBy:     s.ConfirmedBy,
		UpdatedBy:       s.UpdatedBy,
		VersionToken:    versionToken,
	}
	if !s.ConfirmedUTC.IsZero() {
		dto.ConfirmedUTC = s.ConfirmedUTC.UTC().Format("2006-01-02T15:04:05Z")
	}
	return dto
}

func (h *Handler) QuerySlots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.QuerySlots")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	query := r.URL.Query()

	filter := slot.QueryFilter{
		Division: strings.TrimSpace(query.Get("division")),
		Status:   slot.Status(strings.TrimSpace(query.Get("status"))),
		FieldKey: strings.TrimSpace(query.Get("fieldKey")),
		DateFrom: strings.TrimSpace(query.Get("dateFrom")),
		DateTo:   strings.TrimSpace(query.Get("dateTo")),
		Cursor:   strings.TrimSpace(query.Get("cursor")),
	}
	if raw := strings.TrimSpace(query.Get("pageSize")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			writeError(ctx, w, usecase.ErrInvalidInput)
			return
		}
		filter.PageSize = size
	}

	slots, next, err := h.slotService.QuerySlots(ctx, leagueID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "query slots failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]slotDTO, 0, len(slots))
	for _, s := range slots {
		items = append(items, slotToDTO(s, ""))
	}

	writeSuccess(ctx, w, http.StatusOK, slotPageDTO{Items: items, NextCursor: next})
}

func (h *Handler) GetSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSlot")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	division := r.PathValue("division")
	slotID := r.PathValue("slotID")

	item, token, err := h.slotService.GetSlotWithToken(ctx, leagueID, division, slotID)
	if err != nil {
		h.logger.WarnContext(ctx, "get slot failed", "league_id", leagueID, "slot_id", slotID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, slotToDTO(item, token))
}

func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSlot")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	division := r.PathValue("division")
	slotID := r.PathValue("slotID")

	var req updateSlotRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updatedBy := ""
	if principal, ok := principalFromContext(ctx); ok {
		updatedBy = principal.Email
	}

	updated, token, err := h.slotService.UpdateSlot(ctx, usecase.UpdateSlotInput{
		LeagueID:     leagueID,
		Division:     division,
		SlotID:       slotID,
		GameDate:     req.GameDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		FieldKey:     req.FieldKey,
		HomeTeamID:   req.HomeTeamID,
		AwayTeamID:   req.AwayTeamID,
		Status:       slot.Status(req.Status),
		GameType:     req.GameType,
		Notes:        req.Notes,
		UpdatedBy:    updatedBy,
		VersionToken: req.VersionToken,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update slot failed", "league_id", leagueID, "slot_id", slotID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, slotToDTO(updated, token))
}

func (h *Handler) CancelSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelSlot")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	division := r.PathValue("division")
	slotID := r.PathValue("slotID")

	var req cancelSlotRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updatedBy := ""
	if principal, ok := principalFromContext(ctx); ok {
		updatedBy = principal.Email
	}

	cancelled, token, err := h.slotService.CancelSlot(ctx, leagueID, division, slotID, updatedBy, req.VersionToken)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel slot failed", "league_id", leagueID, "slot_id", slotID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, slotToDTO(cancelled, token))
}

func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSlot")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	division := r.PathValue("division")
	slotID := r.PathValue("slotID")

	if err := h.slotService.DeleteSlot(ctx, leagueID, division, slotID); err != nil {
		h.logger.WarnContext(ctx, "delete slot failed", "league_id", leagueID, "slot_id", slotID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": slotID})
}
