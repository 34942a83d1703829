package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	"github.com/fieldwise/league-scheduler/internal/schedule/conflict"
	"github.com/fieldwise/league-scheduler/internal/schedule/timegrid"
)

type SlotService struct {
	leagueRepo league.Repository
	slotRepo   slot.Repository
	now        func() time.Time
}

func NewSlotService(leagueRepo league.Repository, slotRepo slot.Repository) *SlotService {
	return &SlotService{
		leagueRepo: leagueRepo,
		slotRepo:   slotRepo,
		now:        time.Now,
	}
}

func (s *SlotService) QuerySlots(ctx context.Context, leagueID string, filter slot.QueryFilter) ([]slot.Slot, string, error) {
	ctx, span := startUsecaseSpan(ctx, "SlotService.QuerySlots")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, "", fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, "", fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, "", fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	slots, next, err := s.slotRepo.Query(ctx, leagueID, filter)
	if err != nil {
		return nil, "", fmt.Errorf("query slots: %w", err)
	}

	return slots, next, nil
}

func (s *SlotService) GetSlot(ctx context.Context, leagueID, division, slotID string) (slot.Slot, error) {
	ctx, span := startUsecaseSpan(ctx, "SlotService.GetSlot")
	defer span.End()

	if leagueID == "" || division == "" || slotID == "" {
		return slot.Slot{}, fmt.Errorf("%w: league id, division and slot id are required", ErrInvalidInput)
	}

	found, exists, err := s.slotRepo.Get(ctx, leagueID, division, slotID)
	if err != nil {
		return slot.Slot{}, fmt.Errorf("get slot: %w", err)
	}
	if !exists {
		return slot.Slot{}, fmt.Errorf("%w: slot=%s", ErrNotFound, slotID)
	}

	return found, nil
}

// GetSlotWithToken returns a slot together with its current version token so
// an editor can hand the token back on update.
func (s *SlotService) GetSlotWithToken(ctx context.Context, leagueID, division, slotID string) (slot.Slot, string, error) {
	ctx, span := startUsecaseSpan(ctx, "SlotService.GetSlotWithToken")
	defer span.End()

	found, err := s.GetSlot(ctx, leagueID, division, slotID)
	if err != nil {
		return slot.Slot{}, "", err
	}

	token, err := s.slotRepo.VersionToken(ctx, leagueID, division, slotID)
	if err != nil {
		return slot.Slot{}, "", fmt.Errorf("get slot version token: %w", err)
	}

	return found, token, nil
}

// UpdateSlotInput carries an edit to one slot. Empty strings keep the stored
// value for date, times, field key and game type; team fields and status are
// written as given.
type UpdateSlotInput struct {
	LeagueID     string
	Division     string
	SlotID       string
	GameDate     string
	StartTime    string
	EndTime      string
	FieldKey     string
	HomeTeamID   string
	AwayTeamID   string
	Status       slot.Status
	GameType     string
	Notes        string
	UpdatedBy    string
	VersionToken string
}

// UpdateSlot edits one slot under optimistic concurrency. Edits that would
// overlap another non-cancelled slot on the same field and date are rejected
// with the conflicting count; cancelling never needs a conflict check.
func (s *SlotService) UpdateSlot(ctx context.Context, in UpdateSlotInput) (slot.Slot, string, error) {
	ctx, span := startUsecaseSpan(ctx, "SlotService.UpdateSlot")
	defer span.End()

	existing, err := s.GetSlot(ctx, in.LeagueID, in.Division, in.SlotID)
	if err != nil {
		return slot.Slot{}, "", err
	}

	updated := existing
	if in.GameDate != "" {
		if _, err := timegrid.ParseDate(in.GameDate); err != nil {
			return slot.Slot{}, "", fmt.Errorf("%w: gameDate: %v", ErrInvalidInput, err)
		}
		updated.GameDate = in.GameDate
	}
	if in.StartTime != "" {
		updated.StartTime = in.StartTime
	}
	if in.EndTime != "" {
		updated.EndTime = in.EndTime
	}
	startMin, endMin, err := timegrid.ValidRange(updated.StartTime, updated.EndTime)
	if err != nil {
		return slot.Slot{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	updated.StartMin = startMin
	updated.EndMin = endMin

	if in.FieldKey != "" {
		updated.FieldKey = in.FieldKey
	}
	if in.GameType != "" {
		updated.GameType = in.GameType
	}
	if in.Status != "" {
		updated.Status = in.Status
	}
	updated.HomeTeamID = in.HomeTeamID
	updated.AwayTeamID = in.AwayTeamID
	if updated.HomeTeamID != "" || updated.AwayTeamID != "" {
		updated.IsAvailability = false
	}
	updated.Notes = in.Notes
	updated.UpdatedBy = in.UpdatedBy
	updated.UpdatedUTC = s.now().UTC()

	if updated.Status != slot.StatusCancelled {
		ix := conflict.NewIndex()
		err := ix.Load(ctx, s.slotRepo, in.LeagueID, conflict.LoadOptions{
			FieldKey:      updated.FieldKey,
			DateFrom:      updated.GameDate,
			DateTo:        updated.GameDate,
			ExcludeSlotID: updated.ID,
		})
		if err != nil {
			return slot.Slot{}, "", fmt.Errorf("load conflict index: %w", err)
		}
		key := conflict.Key(updated.FieldKey, updated.GameDate)
		if n := ix.OverlapCount(key, updated.StartMin, updated.EndMin); n > 0 {
			return slot.Slot{}, "", fmt.Errorf("%w: %d overlapping slot(s) on %s %s", ErrSlotConflict, n, updated.FieldKey, updated.GameDate)
		}
	}

	if err := updated.Validate(); err != nil {
		return slot.Slot{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, token, err := s.slotRepo.Upsert(ctx, updated, in.VersionToken)
	if err != nil {
		if errors.Is(err, slot.ErrVersionConflict) {
			return slot.Slot{}, "", fmt.Errorf("%w: slot=%s", ErrVersionConflict, in.SlotID)
		}
		return slot.Slot{}, "", fmt.Errorf("upsert slot: %w", err)
	}

	return saved, token, nil
}

// CancelSlot flips a slot to Cancelled, keeping it for history.
func (s *SlotService) CancelSlot(ctx context.Context, leagueID, division, slotID, updatedBy, versionToken string) (slot.Slot, string, error) {
	ctx, span := startUsecaseSpan(ctx, "SlotService.CancelSlot")
	defer span.End()

	existing, err := s.GetSlot(ctx, leagueID, division, slotID)
	if err != nil {
		return slot.Slot{}, "", err
	}

	existing.Status = slot.StatusCancelled
	existing.UpdatedBy = updatedBy
	existing.UpdatedUTC = s.now().UTC()

	saved, token, err := s.slotRepo.Upsert(ctx, existing, versionToken)
	if err != nil {
		if errors.Is(err, slot.ErrVersionConflict) {
			return slot.Slot{}, "", fmt.Errorf("%w: slot=%s", ErrVersionConflict, slotID)
		}
		return slot.Slot{}, "", fmt.Errorf("cancel slot: %w", err)
	}

	return saved, token, nil
}

// DeleteSlot removes a slot outright. Confirmed slots must be cancelled, not
// deleted.
func (s *SlotService) DeleteSlot(ctx context.Context, leagueID, division, slotID string) error {
	ctx, span := startUsecaseSpan(ctx, "SlotService.DeleteSlot")
	defer span.End()

	existing, err := s.GetSlot(ctx, leagueID, division, slotID)
	if err != nil {
		return err
	}
	if existing.Status == slot.StatusConfirmed {
		return fmt.Errorf("%w: confirmed slot %s must be cancelled, not deleted", ErrInvalidInput, slotID)
	}

	if err := s.slotRepo.Delete(ctx, leagueID, division, slotID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}
