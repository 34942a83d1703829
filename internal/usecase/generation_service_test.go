package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	"github.com/fieldwise/league-scheduler/internal/domain/field"
	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	"github.com/fieldwise/league-scheduler/internal/infrastructure/repository/memory"
	"github.com/fieldwise/league-scheduler/internal/platform/id"
)

func testFields() []field.Field {
	return []field.Field{{
		LeagueID:    testLeague,
		ParkCode:    "park-a",
		FieldCode:   "field-1",
		ParkName:    "Ashford Park",
		FieldName:   "Field 1",
		DisplayName: "Ashford Park Field 1",
		IsActive:    true,
	}}
}

func mondayRule() availability.Rule {
	return availability.Rule{
		ID:         "rule-mon",
		LeagueID:   testLeague,
		FieldKey:   "park-a/field-1",
		StartsOn:   "2025-04-07",
		EndsOn:     "2025-04-28",
		DaysOfWeek: []string{"Mon"},
		StartTime:  "18:00",
		EndTime:    "21:00",
		Recurrence: availability.RecurrenceWeekly,
		IsActive:   true,
	}
}

type generationFixture struct {
	svc      *SlotGenerationService
	slotRepo *memory.SlotRepository
	allocs   *memory.AllocationRepository
}

func newGenerationFixture(rules []availability.Rule, exceptions []availability.Exception, slots []slot.Slot) generationFixture {
	slotRepo := memory.NewSlotRepository(slots)
	allocs := memory.NewAllocationRepository(nil)
	// 60-minute games via the division override.
	divisions := []league.Division{{LeagueID: testLeague, Code: testDivision, Name: "Majors", IsActive: true, GameLengthMinutes: 60}}
	svc := NewSlotGenerationService(
		memory.NewLeagueRepository(testLeagues(), divisions),
		memory.NewFieldRepository(testFields()),
		memory.NewRuleRepository(rules),
		memory.NewExceptionRepository(exceptions),
		allocs,
		slotRepo,
		id.NewRandomGenerator(),
	)
	return generationFixture{svc: svc, slotRepo: slotRepo, allocs: allocs}
}

func generationRequest() GenerationRequest {
	return GenerationRequest{
		LeagueID:  testLeague,
		Division:  testDivision,
		DateFrom:  "2025-04-07",
		DateTo:    "2025-04-28",
		CreatedBy: "admin@example.test",
	}
}

func TestGenerationPreviewFromRules(t *testing.T) {
	fx := newGenerationFixture([]availability.Rule{mondayRule()}, nil, nil)

	res, err := fx.svc.PreviewGeneration(context.Background(), generationRequest())
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	// 4 Mondays x 3 hourly windows.
	if len(res.Accepted) != 12 {
		t.Fatalf("expected 12 candidates, got %d", len(res.Accepted))
	}
	if len(res.Conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %d", len(res.Conflicts))
	}
	if len(res.Created) != 0 {
		t.Fatal("preview must not create slots")
	}
}

func TestGenerationExceptionSuppressesWeek(t *testing.T) {
	exceptions := []availability.Exception{{
		ID:        "exc-1",
		RuleID:    "rule-mon",
		DateFrom:  "2025-04-14",
		DateTo:    "2025-04-14",
		StartTime: "18:00",
		EndTime:   "21:00",
	}}
	fx := newGenerationFixture([]availability.Rule{mondayRule()}, exceptions, nil)

	res, err := fx.svc.PreviewGeneration(context.Background(), generationRequest())
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(res.Accepted) != 9 {
		t.Fatalf("expected 9 candidates after suppression, got %d", len(res.Accepted))
	}
	for _, c := range res.Accepted {
		if c.GameDate == "2025-04-14" {
			t.Fatalf("suppressed date produced candidate: %+v", c)
		}
	}
}

func TestGenerationApplyCreatesAvailabilitySlots(t *testing.T) {
	fx := newGenerationFixture([]availability.Rule{mondayRule()}, nil, nil)
	ctx := context.Background()

	res, err := fx.svc.ApplyGeneration(ctx, generationRequest())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.Created) != 12 {
		t.Fatalf("expected 12 created slots, got %d", len(res.Created))
	}
	for _, s := range res.Created {
		if !s.IsAvailability || s.Status != slot.StatusOpen || s.OfferingTeamID != slot.OfferingAvailable {
			t.Fatalf("created slot not an open availability slot: %+v", s)
		}
		if s.ParkName != "Ashford Park" {
			t.Fatalf("field names not denormalized: %+v", s)
		}
	}

	// A second apply without regenerate finds everything occupied.
	again, err := fx.svc.ApplyGeneration(ctx, generationRequest())
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if len(again.Created) != 0 || len(again.Conflicts) != 12 {
		t.Fatalf("expected 12 conflicts and nothing created, got %d created %d conflicts", len(again.Created), len(again.Conflicts))
	}
}

func TestGenerationRegenerateClearsOnlyUntouchedSlots(t *testing.T) {
	fx := newGenerationFixture([]availability.Rule{mondayRule()}, nil, nil)
	ctx := context.Background()

	first, err := fx.svc.ApplyGeneration(ctx, generationRequest())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Confirm one slot as a wizard would; it must survive regeneration.
	confirmed := first.Created[0]
	token, err := fx.slotRepo.VersionToken(ctx, testLeague, testDivision, confirmed.ID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	confirmed.Status = slot.StatusConfirmed
	confirmed.IsAvailability = false
	confirmed.HomeTeamID = "t1"
	confirmed.AwayTeamID = "t2"
	confirmed.OfferingTeamID = "t1"
	confirmed.ScheduleRunID = "run-1"
	if _, _, err := fx.slotRepo.Upsert(ctx, confirmed, token); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	req := generationRequest()
	req.Regenerate = true
	res, err := fx.svc.ApplyGeneration(ctx, req)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	if res.Cleared != 11 {
		t.Fatalf("expected 11 cleared, got %d", res.Cleared)
	}
	// The confirmed slot still occupies its window, so its candidate conflicts.
	if len(res.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict with the confirmed slot, got %d", len(res.Conflicts))
	}
	if len(res.Created) != 11 {
		t.Fatalf("expected 11 recreated slots, got %d", len(res.Created))
	}

	stored, exists, err := fx.slotRepo.Get(ctx, testLeague, testDivision, confirmed.ID)
	if err != nil || !exists {
		t.Fatalf("confirmed slot missing after regenerate: exists=%v err=%v", exists, err)
	}
	if stored.Status != slot.StatusConfirmed {
		t.Fatalf("confirmed slot mutated: %+v", stored)
	}
}

func TestGenerationFixedWindow(t *testing.T) {
	fx := newGenerationFixture(nil, nil, nil)

	req := generationRequest()
	req.DateFrom, req.DateTo = "2025-05-01", "2025-05-31"
	req.Fixed = &FixedWindow{
		FieldKey:   "park-a/field-1",
		DaysOfWeek: []string{"Sat"},
		StartTime:  "09:00",
		EndTime:    "12:00",
	}

	res, err := fx.svc.PreviewGeneration(context.Background(), req)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	// 5 May Saturdays x 3 hourly windows.
	if len(res.Accepted) != 15 {
		t.Fatalf("expected 15 candidates, got %d", len(res.Accepted))
	}
}

func TestGenerationBlackoutSkipsDates(t *testing.T) {
	leagues := testLeagues()
	leagues[0].Season.Blackouts = []league.BlackoutRange{{StartDate: "2025-04-21", EndDate: "2025-04-21", Label: "spring break"}}
	slotRepo := memory.NewSlotRepository(nil)
	svc := NewSlotGenerationService(
		memory.NewLeagueRepository(leagues, testDivisions()),
		memory.NewFieldRepository(testFields()),
		memory.NewRuleRepository([]availability.Rule{mondayRule()}),
		memory.NewExceptionRepository(nil),
		memory.NewAllocationRepository(nil),
		slotRepo,
		id.NewRandomGenerator(),
	)

	res, err := svc.PreviewGeneration(context.Background(), generationRequest())
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	for _, c := range res.Accepted {
		if c.GameDate == "2025-04-21" {
			t.Fatalf("blackout date produced candidate: %+v", c)
		}
	}
	if len(res.Accepted) != 9 {
		t.Fatalf("expected 9 candidates over 3 Mondays, got %d", len(res.Accepted))
	}
}

func makeAllocation(idStr, fieldKey, startsOn, endsOn string, days []string, start, end string) availability.Allocation {
	return availability.Allocation{
		ID:         idStr,
		LeagueID:   testLeague,
		Scope:      availability.ScopeLeague,
		FieldKey:   fieldKey,
		StartsOn:   startsOn,
		EndsOn:     endsOn,
		DaysOfWeek: days,
		StartTime:  start,
		EndTime:    end,
		SlotType:   availability.SlotTypeGame,
		IsActive:   true,
	}
}

func TestImportAllocations(t *testing.T) {
	fx := newGenerationFixture(nil, nil, nil)
	ctx := context.Background()

	batch := []availability.Allocation{
		makeAllocation("al-1", "park-a/field-1", "2025-04-01", "2025-06-30", []string{"Mon"}, "18:00", "21:00"),
		makeAllocation("al-2", "park-a/field-1", "2025-04-01", "2025-06-30", []string{"Tue"}, "18:00", "21:00"),
		makeAllocation("al-3", "park-b/field-1", "2025-04-01", "2025-06-30", []string{"Mon"}, "18:00", "21:00"),
	}
	n, err := fx.svc.ImportAllocations(ctx, testLeague, batch)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 imported, got %d", n)
	}

	stored, err := fx.allocs.ListActiveByField(ctx, testLeague, "park-a/field-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored for the field, got %d", len(stored))
	}
}

func TestImportAllocationsRejectsOverlap(t *testing.T) {
	fx := newGenerationFixture(nil, nil, nil)
	ctx := context.Background()

	batch := []availability.Allocation{
		makeAllocation("al-1", "park-a/field-1", "2025-04-01", "2025-06-30", []string{"Mon"}, "18:00", "21:00"),
		makeAllocation("al-2", "park-a/field-1", "2025-05-01", "2025-07-31", []string{"Mon", "Wed"}, "20:00", "22:00"),
	}
	_, err := fx.svc.ImportAllocations(ctx, testLeague, batch)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for overlapping allocations, got %v", err)
	}
}

func TestImportAllocationsRejectsOverlapWithStored(t *testing.T) {
	fx := newGenerationFixture(nil, nil, nil)
	ctx := context.Background()

	if _, err := fx.svc.ImportAllocations(ctx, testLeague, []availability.Allocation{
		makeAllocation("al-1", "park-a/field-1", "2025-04-01", "2025-06-30", []string{"Sat"}, "09:00", "12:00"),
	}); err != nil {
		t.Fatalf("seed import: %v", err)
	}

	_, err := fx.svc.ImportAllocations(ctx, testLeague, []availability.Allocation{
		makeAllocation("al-2", "park-a/field-1", "2025-06-01", "2025-08-31", []string{"Sat"}, "11:00", "14:00"),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input against stored allocation, got %v", err)
	}
}

func TestImportAllocationsDisjointDaysAllowed(t *testing.T) {
	fx := newGenerationFixture(nil, nil, nil)
	ctx := context.Background()

	batch := make([]availability.Allocation, 0, 2)
	batch = append(batch,
		makeAllocation("al-1", "park-a/field-1", "2025-04-01", "2025-06-30", []string{"Mon"}, "18:00", "21:00"),
		makeAllocation("al-2", "park-a/field-1", "2025-04-01", "2025-06-30", []string{"Mon"}, "21:00", "22:00"),
	)
	if _, err := fx.svc.ImportAllocations(ctx, testLeague, batch); err != nil {
		t.Fatalf("touching ranges are half-open and must not overlap: %v", err)
	}
}

func TestImportAllocationsBatches(t *testing.T) {
	fx := newGenerationFixture(nil, nil, nil)
	ctx := context.Background()

	// 120 disjoint Saturday windows on one field crosses the batch cap once.
	batch := make([]availability.Allocation, 0, 120)
	for i := 0; i < 120; i++ {
		start := fmt.Sprintf("%02d:%02d", 6+(i/10), (i%10)*6)
		end := fmt.Sprintf("%02d:%02d", 6+(i/10), (i%10)*6+5)
		batch = append(batch, makeAllocation(fmt.Sprintf("al-%03d", i), "park-a/field-1", "2025-04-01", "2025-06-30", []string{"Sat"}, start, end))
	}
	n, err := fx.svc.ImportAllocations(ctx, testLeague, batch)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 120 {
		t.Fatalf("expected 120 imported, got %d", n)
	}
}
