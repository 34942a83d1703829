package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	"github.com/fieldwise/league-scheduler/internal/domain/field"
	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	"github.com/fieldwise/league-scheduler/internal/platform/id"
	"github.com/fieldwise/league-scheduler/internal/schedule/conflict"
	"github.com/fieldwise/league-scheduler/internal/schedule/expand"
	"github.com/fieldwise/league-scheduler/internal/schedule/timegrid"
)

// maxAllocationBatch caps one store transaction during allocation import.
const maxAllocationBatch = 100

type SlotGenerationService struct {
	leagueRepo     league.Repository
	fieldRepo      field.Repository
	ruleRepo       availability.RuleRepository
	exceptionRepo  availability.ExceptionRepository
	allocationRepo availability.AllocationRepository
	slotRepo       slot.Repository
	ids            id.Generator
	now            func() time.Time
}

func NewSlotGenerationService(
	leagueRepo league.Repository,
	fieldRepo field.Repository,
	ruleRepo availability.RuleRepository,
	exceptionRepo availability.ExceptionRepository,
	allocationRepo availability.AllocationRepository,
	slotRepo slot.Repository,
	ids id.Generator,
) *SlotGenerationService {
	return &SlotGenerationService{
		leagueRepo:     leagueRepo,
		fieldRepo:      fieldRepo,
		ruleRepo:       ruleRepo,
		exceptionRepo:  exceptionRepo,
		allocationRepo: allocationRepo,
		slotRepo:       slotRepo,
		ids:            ids,
		now:            time.Now,
	}
}

// FixedWindow names the days, times and field for generation without a
// recurring rule.
type FixedWindow struct {
	FieldKey   string
	DaysOfWeek []string
	StartTime  string
	EndTime    string
}

// GenerationRequest drives both preview and apply. Leaving Fixed nil expands
// the league's active availability rules; FieldKey narrows rule-based
// generation to one field. Regenerate clears open availability slots in the
// window that no schedule run has touched before writing new ones.
type GenerationRequest struct {
	LeagueID   string
	Division   string
	DateFrom   string
	DateTo     string
	FieldKey   string
	Fixed      *FixedWindow
	Regenerate bool
	CreatedBy  string
}

// GenerationResult reports what generation produced. Created and Cleared are
// populated by Apply only.
type GenerationResult struct {
	Accepted  []expand.Candidate
	Conflicts []expand.Candidate
	Created   []slot.Slot
	Cleared   int
	Warnings  []string
}

// PreviewGeneration expands candidates and splits them against existing slots
// without writing anything.
func (s *SlotGenerationService) PreviewGeneration(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SlotGenerationService.PreviewGeneration")
	defer span.End()

	return s.generate(ctx, req, false)
}

// ApplyGeneration runs the preview pipeline and persists the accepted
// candidates as open availability slots.
func (s *SlotGenerationService) ApplyGeneration(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SlotGenerationService.ApplyGeneration")
	defer span.End()

	return s.generate(ctx, req, true)
}

func (s *SlotGenerationService) generate(ctx context.Context, req GenerationRequest, persist bool) (GenerationResult, error) {
	var res GenerationResult

	req.LeagueID = strings.TrimSpace(req.LeagueID)
	req.Division = strings.TrimSpace(req.Division)
	if req.LeagueID == "" || req.Division == "" {
		return res, fmt.Errorf("%w: league id and division are required", ErrInvalidInput)
	}
	lg, div, err := resolveDivision(ctx, s.leagueRepo, req.LeagueID, req.Division)
	if err != nil {
		return res, err
	}
	if _, err := timegrid.ParseDate(req.DateFrom); err != nil {
		return res, fmt.Errorf("%w: dateFrom: %v", ErrInvalidInput, err)
	}
	if _, err := timegrid.ParseDate(req.DateTo); err != nil {
		return res, fmt.Errorf("%w: dateTo: %v", ErrInvalidInput, err)
	}
	if req.DateFrom > req.DateTo {
		return res, fmt.Errorf("%w: dateFrom %s is after dateTo %s", ErrInvalidInput, req.DateFrom, req.DateTo)
	}

	gameLength := league.EffectiveGameLength(lg, div)
	blackoutsByField, err := s.fieldBlackouts(ctx, lg, div)
	if err != nil {
		return res, err
	}
	// Fields without a stored record still honor league and division blackouts.
	defaultBlackouts := league.EffectiveBlackouts(lg, div, nil)

	var candidates []expand.Candidate
	if req.Fixed != nil {
		fieldBlackouts, ok := blackoutsByField[strings.ToLower(req.Fixed.FieldKey)]
		if !ok {
			fieldBlackouts = defaultBlackouts
		}
		candidates, err = expand.ExpandFixed(expand.FixedInput{
			FieldKey:          req.Fixed.FieldKey,
			Division:          req.Division,
			DaysOfWeek:        req.Fixed.DaysOfWeek,
			StartTime:         req.Fixed.StartTime,
			EndTime:           req.Fixed.EndTime,
			DateFrom:          req.DateFrom,
			DateTo:            req.DateTo,
			GameLengthMinutes: gameLength,
			Blackouts:         fieldBlackouts,
		})
		if err != nil {
			return res, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	} else {
		candidates, err = s.expandRules(ctx, req, gameLength, blackoutsByField, defaultBlackouts)
		if err != nil {
			return res, err
		}
	}

	clearable, err := s.clearableSlots(ctx, req)
	if err != nil {
		return res, err
	}

	ix, err := s.loadIndex(ctx, req, clearable)
	if err != nil {
		return res, err
	}

	proposals := make([]conflict.Candidate, len(candidates))
	byKey := make(map[conflict.Candidate]expand.Candidate, len(candidates))
	for i, c := range candidates {
		p := conflict.Candidate{
			FieldKey: c.FieldKey,
			GameDate: c.GameDate,
			StartMin: c.StartMin,
			EndMin:   c.EndMin,
		}
		proposals[i] = p
		byKey[p] = c
	}
	accepted, conflicts := ix.SplitByOverlap(proposals)
	for _, p := range accepted {
		res.Accepted = append(res.Accepted, byKey[p])
	}
	for _, p := range conflicts {
		res.Conflicts = append(res.Conflicts, byKey[p])
	}
	if len(res.Conflicts) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d candidate slot(s) overlap existing slots and were skipped", len(res.Conflicts)))
	}

	if !persist {
		return res, nil
	}

	if req.Regenerate {
		for _, stale := range clearable {
			if err := s.slotRepo.Delete(ctx, req.LeagueID, req.Division, stale.ID); err != nil {
				return res, fmt.Errorf("clear slot %s: %w", stale.ID, err)
			}
			res.Cleared++
		}
	}

	fieldsByKey, err := s.fieldsByKey(ctx, req.LeagueID)
	if err != nil {
		return res, err
	}
	nowUTC := s.now().UTC()
	for _, c := range res.Accepted {
		slotID, err := s.ids.NewID()
		if err != nil {
			return res, fmt.Errorf("%w: new slot id: %v", ErrInternal, err)
		}
		created := slot.Slot{
			ID:             slotID,
			LeagueID:       req.LeagueID,
			Division:       req.Division,
			GameDate:       c.GameDate,
			StartTime:      c.StartTime,
			EndTime:        c.EndTime,
			StartMin:       c.StartMin,
			EndMin:         c.EndMin,
			FieldKey:       c.FieldKey,
			OfferingTeamID: slot.OfferingAvailable,
			IsAvailability: true,
			Status:         slot.StatusOpen,
			CreatedUTC:     nowUTC,
			UpdatedUTC:     nowUTC,
			UpdatedBy:      req.CreatedBy,
		}
		if f, ok := fieldsByKey[strings.ToLower(c.FieldKey)]; ok {
			created.ParkName = f.ParkName
			created.FieldName = f.FieldName
			created.DisplayName = f.DisplayName
		}
		saved, _, err := s.slotRepo.Upsert(ctx, created, "")
		if err != nil {
			return res, fmt.Errorf("create slot: %w", err)
		}
		res.Created = append(res.Created, saved)
	}

	return res, nil
}

func (s *SlotGenerationService) expandRules(ctx context.Context, req GenerationRequest, gameLength int, blackoutsByField map[string][]league.BlackoutRange, defaultBlackouts []league.BlackoutRange) ([]expand.Candidate, error) {
	rules, err := s.ruleRepo.ListActive(ctx, req.LeagueID, req.FieldKey, req.DateFrom, req.DateTo)
	if err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}

	exceptionsByRule := make(map[string][]availability.Exception, len(rules))
	for _, r := range rules {
		exceptions, err := s.exceptionRepo.ListByRule(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("list exceptions for rule %s: %w", r.ID, err)
		}
		exceptionsByRule[r.ID] = exceptions
	}

	// Blackouts differ per field, so rules expand field by field.
	rulesByField := make(map[string][]availability.Rule)
	fieldOrder := make([]string, 0)
	for _, r := range rules {
		key := strings.ToLower(r.FieldKey)
		if _, seen := rulesByField[key]; !seen {
			fieldOrder = append(fieldOrder, key)
		}
		rulesByField[key] = append(rulesByField[key], r)
	}

	var out []expand.Candidate
	for _, key := range fieldOrder {
		blackouts, ok := blackoutsByField[key]
		if !ok {
			blackouts = defaultBlackouts
		}
		out = append(out, expand.Expand(expand.Input{
			Rules:             rulesByField[key],
			ExceptionsByRule:  exceptionsByRule,
			Blackouts:         blackouts,
			WindowStart:       req.DateFrom,
			WindowEnd:         req.DateTo,
			GameLengthMinutes: gameLength,
			Division:          req.Division,
		})...)
	}
	return out, nil
}

// clearableSlots lists the open availability slots a regenerate run may
// remove: never slots a schedule run has claimed.
func (s *SlotGenerationService) clearableSlots(ctx context.Context, req GenerationRequest) ([]slot.Slot, error) {
	if !req.Regenerate {
		return nil, nil
	}

	var out []slot.Slot
	filter := slot.QueryFilter{
		Division: req.Division,
		Status:   slot.StatusOpen,
		FieldKey: req.FieldKey,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}
	cursor := ""
	for {
		filter.Cursor = cursor
		slots, next, err := s.slotRepo.Query(ctx, req.LeagueID, filter)
		if err != nil {
			return nil, fmt.Errorf("query clearable slots: %w", err)
		}
		for _, existing := range slots {
			if existing.IsAvailability && existing.ScheduleRunID == "" {
				out = append(out, existing)
			}
		}
		if next == "" {
			return out, nil
		}
		cursor = next
	}
}

// loadIndex builds the occupied-range index from every non-cancelled slot in
// the window, leaving out slots a regenerate run is about to clear.
func (s *SlotGenerationService) loadIndex(ctx context.Context, req GenerationRequest, clearable []slot.Slot) (*conflict.Index, error) {
	skip := make(map[string]bool, len(clearable))
	for _, c := range clearable {
		skip[c.ID] = true
	}

	ix := conflict.NewIndex()
	filter := slot.QueryFilter{
		FieldKey: req.FieldKey,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}
	cursor := ""
	for {
		filter.Cursor = cursor
		slots, next, err := s.slotRepo.Query(ctx, req.LeagueID, filter)
		if err != nil {
			return nil, fmt.Errorf("load slot index: %w", err)
		}
		for _, existing := range slots {
			if existing.Status == slot.StatusCancelled || skip[existing.ID] {
				continue
			}
			ix.Add(conflict.Key(existing.FieldKey, existing.GameDate), existing.StartMin, existing.EndMin)
		}
		if next == "" {
			return ix, nil
		}
		cursor = next
	}
}

// ImportAllocations validates and persists field-availability allocations in
// batches of at most 100 per field. Active allocations on one field must not
// overlap in date range, day of week and time range, against stored rows and
// within the import itself.
func (s *SlotGenerationService) ImportAllocations(ctx context.Context, leagueID string, allocations []availability.Allocation) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "SlotGenerationService.ImportAllocations")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return 0, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return 0, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	byField := make(map[string][]availability.Allocation)
	fieldOrder := make([]string, 0)
	for _, a := range allocations {
		if err := a.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		key := strings.ToLower(a.FieldKey)
		if _, seen := byField[key]; !seen {
			fieldOrder = append(fieldOrder, key)
		}
		byField[key] = append(byField[key], a)
	}

	imported := 0
	for _, key := range fieldOrder {
		batch := byField[key]
		existing, err := s.allocationRepo.ListActiveByField(ctx, leagueID, batch[0].FieldKey)
		if err != nil {
			return imported, fmt.Errorf("list allocations for %s: %w", batch[0].FieldKey, err)
		}

		accepted := existing
		for _, a := range batch {
			if !a.IsActive {
				continue
			}
			for _, other := range accepted {
				if allocationsOverlap(a, other) {
					return imported, fmt.Errorf("%w: allocation %s overlaps allocation %s on field %s", ErrInvalidInput, a.ID, other.ID, a.FieldKey)
				}
			}
			accepted = append(accepted, a)
		}

		for start := 0; start < len(batch); start += maxAllocationBatch {
			end := start + maxAllocationBatch
			if end > len(batch) {
				end = len(batch)
			}
			if err := s.allocationRepo.InsertBatch(ctx, batch[start:end]); err != nil {
				return imported, fmt.Errorf("insert allocation batch for %s: %w", batch[0].FieldKey, err)
			}
			imported += end - start
		}
	}

	return imported, nil
}

func allocationsOverlap(a, b availability.Allocation) bool {
	if !a.IsActive || !b.IsActive {
		return false
	}
	if a.StartsOn > b.EndsOn || b.StartsOn > a.EndsOn {
		return false
	}
	if !sharesDay(a.DaysOfWeek, b.DaysOfWeek) {
		return false
	}
	aStart, aEnd, err := timegrid.ValidRange(a.StartTime, a.EndTime)
	if err != nil {
		return false
	}
	bStart, bEnd, err := timegrid.ValidRange(b.StartTime, b.EndTime)
	if err != nil {
		return false
	}
	return timegrid.Overlaps(aStart, aEnd, bStart, bEnd)
}

func sharesDay(a, b []string) bool {
	days := make(map[int]bool, len(a))
	for _, tok := range a {
		if dow, ok := timegrid.DayIndex(tok); ok {
			days[int(dow)] = true
		}
	}
	for _, tok := range b {
		if dow, ok := timegrid.DayIndex(tok); ok && days[int(dow)] {
			return true
		}
	}
	return false
}

// fieldBlackouts unions league, division and per-field blackouts, keyed by
// lowercase field key.
func (s *SlotGenerationService) fieldBlackouts(ctx context.Context, lg league.League, div league.Division) (map[string][]league.BlackoutRange, error) {
	fields, err := s.fieldRepo.ListByLeague(ctx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}

	out := make(map[string][]league.BlackoutRange, len(fields))
	for _, f := range fields {
		out[strings.ToLower(f.Key())] = league.EffectiveBlackouts(lg, div, f.Blackouts)
	}
	return out, nil
}

func (s *SlotGenerationService) fieldsByKey(ctx context.Context, leagueID string) (map[string]field.Field, error) {
	fields, err := s.fieldRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}

	out := make(map[string]field.Field, len(fields))
	for _, f := range fields {
		out[strings.ToLower(f.Key())] = f
	}
	return out, nil
}
