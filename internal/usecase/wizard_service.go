package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"

	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	"github.com/fieldwise/league-scheduler/internal/domain/team"
	"github.com/fieldwise/league-scheduler/internal/platform/id"
	"github.com/fieldwise/league-scheduler/internal/platform/resilience"
	"github.com/fieldwise/league-scheduler/internal/schedule/assign"
	"github.com/fieldwise/league-scheduler/internal/schedule/feasibility"
	"github.com/fieldwise/league-scheduler/internal/schedule/matchup"
	"github.com/fieldwise/league-scheduler/internal/schedule/timegrid"
)

const (
	storeRetryAttempts = 3
	storeRetryBackoff  = 200 * time.Millisecond

	confirmedByWizard = "Wizard"
)

// maxPreferredWeeknights bounds how many day tokens a request may rank.
const maxPreferredWeeknights = 3

// SlotPlanEntry refines one candidate slot for a wizard run: its intended
// use, an optional priority rank, and optional time overrides.
type SlotPlanEntry struct {
	SlotID       string
	SlotType     availability.SlotType
	PriorityRank *int
	StartTime    string
	EndTime      string
}

// WizardRequest is the full input to Feasibility, Preview and Apply.
// NoDoubleHeaders and BalanceHomeAway default to true when nil.
type WizardRequest struct {
	LeagueID                  string
	Division                  string
	SeasonStart               string
	SeasonEnd                 string
	PoolStart                 string
	PoolEnd                   string
	BracketStart              string
	BracketEnd                string
	BlockedDateRanges         []league.BlackoutRange
	MinGamesPerTeam           int
	PoolGamesPerTeam          int
	MaxGamesPerWeek           int
	ExternalOfferPerWeek      int
	NoDoubleHeaders           *bool
	BalanceHomeAway           *bool
	PreferredWeeknights       []string
	StrictPreferredWeeknights bool
	SlotPlan                  []SlotPlanEntry
	GuestAnchorPrimary        *assign.GuestAnchor
	GuestAnchorSecondary      *assign.GuestAnchor
	CreatedBy                 string
}

// WizardSummary aggregates one run for callers and the persisted ScheduleRun.
type WizardSummary struct {
	TeamCount          int                `json:"teamCount"`
	CandidateSlotCount int                `json:"candidateSlotCount"`
	AssignedCount      int                `json:"assignedCount"`
	ExternalOfferCount int                `json:"externalOfferCount"`
	PhaseCounts        map[string]int     `json:"phaseCounts"`
	GamesPerTeam       map[string]int     `json:"gamesPerTeam"`
	Feasibility        feasibility.Report `json:"feasibility"`
}

// WizardOutcome is what Preview returns and Apply returns-plus-persists.
type WizardOutcome struct {
	RunID              string
	Summary            WizardSummary
	Assignments        []slot.Assignment
	UnassignedSlots    []string
	UnassignedMatchups []matchup.Pair
	Warnings           []string
	Issues             []assign.Issue
}

type WizardService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	slotRepo   slot.Repository
	runRepo    slot.RunRepository
	ids        id.Generator
	now        func() time.Time
}

func NewWizardService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	slotRepo slot.Repository,
	runRepo slot.RunRepository,
	ids id.Generator,
) *WizardService {
	return &WizardService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		slotRepo:   slotRepo,
		runRepo:    runRepo,
		ids:        ids,
		now:        time.Now,
	}
}

// Feasibility sizes the request against available slots without assigning
// anything.
func (s *WizardService) Feasibility(ctx context.Context, req WizardRequest) (feasibility.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "WizardService.Feasibility")
	defer span.End()

	cfg, err := normalizeWizardRequest(req)
	if err != nil {
		return feasibility.Report{}, err
	}

	loaded, err := s.load(ctx, cfg)
	if err != nil {
		return feasibility.Report{}, err
	}

	phases, err := partitionSlots(cfg, loaded.slots)
	if err != nil {
		return feasibility.Report{}, err
	}

	return analyze(cfg, len(loaded.teams), phases), nil
}

// Preview runs the full pipeline and returns the would-be schedule. It never
// writes.
func (s *WizardService) Preview(ctx context.Context, req WizardRequest) (WizardOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "WizardService.Preview")
	defer span.End()

	cfg, err := normalizeWizardRequest(req)
	if err != nil {
		return WizardOutcome{}, err
	}

	return s.buildPlan(ctx, cfg)
}

// Apply runs the same pipeline as Preview and then persists the slot
// mutations and one ScheduleRun record. A version conflict on one slot skips
// that slot with a warning and keeps going.
func (s *WizardService) Apply(ctx context.Context, req WizardRequest) (WizardOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "WizardService.Apply")
	defer span.End()

	cfg, err := normalizeWizardRequest(req)
	if err != nil {
		return WizardOutcome{}, err
	}

	outcome, err := s.buildPlan(ctx, cfg)
	if err != nil {
		return WizardOutcome{}, err
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return WizardOutcome{}, fmt.Errorf("%w: new run id: %v", ErrInternal, err)
	}
	outcome.RunID = runID

	for _, a := range outcome.Assignments {
		if err := s.persistAssignment(ctx, cfg, a, runID); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("slot %s skipped: changed since read", a.SlotID))
				continue
			}
			return outcome, err
		}
	}

	if err := s.persistRun(ctx, cfg, runID, outcome.Summary); err != nil {
		return outcome, err
	}

	return outcome, nil
}

// GetRun returns one persisted schedule run.
func (s *WizardService) GetRun(ctx context.Context, leagueID, division, runID string) (slot.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "WizardService.GetRun")
	defer span.End()

	if leagueID == "" || division == "" || runID == "" {
		return slot.Run{}, fmt.Errorf("%w: league id, division and run id are required", ErrInvalidInput)
	}

	run, exists, err := s.runRepo.Get(ctx, leagueID, division, runID)
	if err != nil {
		return slot.Run{}, fmt.Errorf("get schedule run: %w", err)
	}
	if !exists {
		return slot.Run{}, fmt.Errorf("%w: run=%s", ErrNotFound, runID)
	}

	return run, nil
}

// ListRuns returns the division's schedule runs, newest first.
func (s *WizardService) ListRuns(ctx context.Context, leagueID, division string) ([]slot.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "WizardService.ListRuns")
	defer span.End()

	if leagueID == "" || division == "" {
		return nil, fmt.Errorf("%w: league id and division are required", ErrInvalidInput)
	}

	runs, err := s.runRepo.ListByDivision(ctx, leagueID, division)
	if err != nil {
		return nil, fmt.Errorf("list schedule runs: %w", err)
	}

	return runs, nil
}

// wizardConfig is a validated, default-filled request.
type wizardConfig struct {
	req             WizardRequest
	noDoubleHeaders bool
	balanceHomeAway bool
	windowEnd       string
	constraints     assign.Constraints
}

func normalizeWizardRequest(req WizardRequest) (wizardConfig, error) {
	req.LeagueID = strings.TrimSpace(req.LeagueID)
	req.Division = strings.TrimSpace(req.Division)
	if req.LeagueID == "" || req.Division == "" {
		return wizardConfig{}, fmt.Errorf("%w: league id and division are required", ErrInvalidInput)
	}

	for name, d := range map[string]string{
		"seasonStart": req.SeasonStart,
		"seasonEnd":   req.SeasonEnd,
	} {
		if d == "" {
			return wizardConfig{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
		}
		if _, err := timegrid.ParseDate(d); err != nil {
			return wizardConfig{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
		}
	}
	if req.SeasonStart > req.SeasonEnd {
		return wizardConfig{}, fmt.Errorf("%w: seasonStart %s is after seasonEnd %s", ErrInvalidInput, req.SeasonStart, req.SeasonEnd)
	}

	if err := validateOptionalWindow("pool", req.PoolStart, req.PoolEnd); err != nil {
		return wizardConfig{}, err
	}
	if req.PoolStart != "" {
		if req.PoolStart < req.SeasonStart || req.PoolEnd > req.SeasonEnd {
			return wizardConfig{}, fmt.Errorf("%w: pool window must sit inside the season", ErrInvalidInput)
		}
	}
	if err := validateOptionalWindow("bracket", req.BracketStart, req.BracketEnd); err != nil {
		return wizardConfig{}, err
	}
	if req.BracketStart != "" && req.BracketStart < req.SeasonStart {
		return wizardConfig{}, fmt.Errorf("%w: bracketStart %s is before seasonStart %s", ErrInvalidInput, req.BracketStart, req.SeasonStart)
	}

	for _, b := range req.BlockedDateRanges {
		if _, err := timegrid.ParseDate(b.StartDate); err != nil {
			return wizardConfig{}, fmt.Errorf("%w: blocked range start: %v", ErrInvalidInput, err)
		}
		if _, err := timegrid.ParseDate(b.EndDate); err != nil {
			return wizardConfig{}, fmt.Errorf("%w: blocked range end: %v", ErrInvalidInput, err)
		}
		if b.StartDate > b.EndDate {
			return wizardConfig{}, fmt.Errorf("%w: blocked range %s..%s is inverted", ErrInvalidInput, b.StartDate, b.EndDate)
		}
	}

	if req.MinGamesPerTeam < 0 {
		return wizardConfig{}, fmt.Errorf("%w: minGamesPerTeam must be >= 0", ErrInvalidInput)
	}
	if req.PoolGamesPerTeam != 0 && req.PoolGamesPerTeam < 2 {
		return wizardConfig{}, fmt.Errorf("%w: poolGamesPerTeam must be 0 or >= 2", ErrInvalidInput)
	}
	if req.MaxGamesPerWeek < 0 {
		return wizardConfig{}, fmt.Errorf("%w: maxGamesPerWeek must be >= 0", ErrInvalidInput)
	}
	if req.ExternalOfferPerWeek < 0 {
		return wizardConfig{}, fmt.Errorf("%w: externalOfferPerWeek must be >= 0", ErrInvalidInput)
	}

	distinct := make(map[string]bool, len(req.PreferredWeeknights))
	for _, tok := range req.PreferredWeeknights {
		if _, ok := timegrid.DayIndex(tok); !ok {
			return wizardConfig{}, fmt.Errorf("%w: preferred weeknight %q is not a day token", ErrInvalidInput, tok)
		}
		distinct[strings.ToLower(tok)[:3]] = true
	}
	if len(distinct) > maxPreferredWeeknights {
		return wizardConfig{}, fmt.Errorf("%w: at most %d preferred weeknights", ErrInvalidInput, maxPreferredWeeknights)
	}

	for _, p := range req.SlotPlan {
		switch p.SlotType {
		case "", availability.SlotTypePractice, availability.SlotTypeGame, availability.SlotTypeBoth:
		default:
			return wizardConfig{}, fmt.Errorf("%w: slot plan type %q is not recognized", ErrInvalidInput, p.SlotType)
		}
	}

	cfg := wizardConfig{
		req:             req,
		noDoubleHeaders: req.NoDoubleHeaders == nil || *req.NoDoubleHeaders,
		balanceHomeAway: req.BalanceHomeAway == nil || *req.BalanceHomeAway,
		windowEnd:       req.SeasonEnd,
	}
	if req.BracketEnd > cfg.windowEnd {
		cfg.windowEnd = req.BracketEnd
	}
	cfg.constraints = assign.Constraints{
		MaxGamesPerWeek:           req.MaxGamesPerWeek,
		NoDoubleHeaders:           cfg.noDoubleHeaders,
		BalanceHomeAway:           cfg.balanceHomeAway,
		ExternalOfferPerWeek:      req.ExternalOfferPerWeek,
		PreferredWeeknights:       req.PreferredWeeknights,
		StrictPreferredWeeknights: req.StrictPreferredWeeknights,
	}
	return cfg, nil
}

func validateOptionalWindow(name, start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	if start == "" || end == "" {
		return fmt.Errorf("%w: %sStart and %sEnd are required together", ErrInvalidInput, name, name)
	}
	if _, err := timegrid.ParseDate(start); err != nil {
		return fmt.Errorf("%w: %sStart: %v", ErrInvalidInput, name, err)
	}
	if _, err := timegrid.ParseDate(end); err != nil {
		return fmt.Errorf("%w: %sEnd: %v", ErrInvalidInput, name, err)
	}
	if start > end {
		return fmt.Errorf("%w: %s window %s..%s is inverted", ErrInvalidInput, name, start, end)
	}
	return nil
}

type loadedInputs struct {
	league   league.League
	division league.Division
	teams    []team.Team
	slots    []slot.Slot
}

// load fetches the league, teams and open availability slots in parallel.
func (s *WizardService) load(ctx context.Context, cfg wizardConfig) (loadedInputs, error) {
	var out loadedInputs

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		lg, div, err := resolveDivision(ctx, s.leagueRepo, cfg.req.LeagueID, cfg.req.Division)
		if err != nil {
			return err
		}
		out.league, out.division = lg, div
		return nil
	})
	p.Go(func(ctx context.Context) error {
		teams, err := s.teamRepo.ListByDivision(ctx, cfg.req.LeagueID, cfg.req.Division)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		out.teams = teams
		return nil
	})
	p.Go(func(ctx context.Context) error {
		slots, err := s.openAvailability(ctx, cfg)
		if err != nil {
			return err
		}
		out.slots = slots
		return nil
	})
	if err := p.Wait(); err != nil {
		return loadedInputs{}, err
	}

	if len(out.teams) == 0 {
		return loadedInputs{}, fmt.Errorf("%w: division %s has no teams", ErrInvalidInput, cfg.req.Division)
	}
	return out, nil
}

func (s *WizardService) openAvailability(ctx context.Context, cfg wizardConfig) ([]slot.Slot, error) {
	var out []slot.Slot
	filter := slot.QueryFilter{
		Division: cfg.req.Division,
		Status:   slot.StatusOpen,
		DateFrom: cfg.req.SeasonStart,
		DateTo:   cfg.windowEnd,
	}
	cursor := ""
	for {
		filter.Cursor = cursor
		slots, next, err := s.slotRepo.Query(ctx, cfg.req.LeagueID, filter)
		if err != nil {
			return nil, fmt.Errorf("query availability slots: %w", err)
		}
		for _, candidate := range slots {
			if candidate.IsAvailability {
				out = append(out, candidate)
			}
		}
		if next == "" {
			return out, nil
		}
		cursor = next
	}
}

// phaseSlots is the partition of candidate slots across the three phases.
type phaseSlots struct {
	regular []assign.CandidateSlot
	pool    []assign.CandidateSlot
	bracket []assign.CandidateSlot
}

func partitionSlots(cfg wizardConfig, slots []slot.Slot) (phaseSlots, error) {
	plan := make(map[string]SlotPlanEntry, len(cfg.req.SlotPlan))
	for _, p := range cfg.req.SlotPlan {
		plan[p.SlotID] = p
	}

	var out phaseSlots
	for _, raw := range slots {
		if dateBlocked(raw.GameDate, cfg.req.BlockedDateRanges) {
			continue
		}

		slotType := availability.SlotTypeGame
		var priorityRank *int
		if p, ok := plan[raw.ID]; ok {
			if p.SlotType != "" {
				slotType = p.SlotType
			}
			priorityRank = p.PriorityRank
			if p.StartTime != "" && p.EndTime != "" {
				startMin, endMin, err := timegrid.ValidRange(p.StartTime, p.EndTime)
				if err != nil {
					return phaseSlots{}, fmt.Errorf("%w: slot plan %s: %v", ErrInvalidInput, raw.ID, err)
				}
				raw.StartTime, raw.EndTime = p.StartTime, p.EndTime
				raw.StartMin, raw.EndMin = startMin, endMin
			}
		}

		candidate, err := assign.NewCandidateSlot(raw, slotType, priorityRank)
		if err != nil {
			return phaseSlots{}, fmt.Errorf("%w: slot %s: %v", ErrInvalidInput, raw.ID, err)
		}

		switch {
		case cfg.req.PoolStart != "" && timegrid.InRange(raw.GameDate, cfg.req.PoolStart, cfg.req.PoolEnd):
			out.pool = append(out.pool, candidate)
		case cfg.req.BracketStart != "" && timegrid.InRange(raw.GameDate, cfg.req.BracketStart, cfg.req.BracketEnd):
			out.bracket = append(out.bracket, candidate)
		case timegrid.InRange(raw.GameDate, cfg.req.SeasonStart, cfg.req.SeasonEnd):
			out.regular = append(out.regular, candidate)
		}
	}
	return out, nil
}

func dateBlocked(date string, blocked []league.BlackoutRange) bool {
	for _, b := range blocked {
		if timegrid.InRange(date, b.StartDate, b.EndDate) {
			return true
		}
	}
	return false
}

func analyze(cfg wizardConfig, teamCount int, phases phaseSlots) feasibility.Report {
	weeks := make(map[string]bool)
	for _, s := range phases.regular {
		weeks[s.WeekKey()] = true
	}

	return feasibility.Analyze(feasibility.Input{
		TeamCount:             teamCount,
		AvailableRegularSlots: len(phases.regular),
		AvailablePoolSlots:    len(phases.pool),
		AvailableBracketSlots: len(phases.bracket),
		MinGamesPerTeam:       cfg.req.MinGamesPerTeam,
		PoolGamesPerTeam:      cfg.req.PoolGamesPerTeam,
		MaxGamesPerWeek:       cfg.req.MaxGamesPerWeek,
		NoDoubleHeaders:       cfg.noDoubleHeaders,
		RegularWeeksCount:     len(weeks),
		GuestGamesPerWeek:     cfg.req.ExternalOfferPerWeek,
	})
}

// buildPlan is the shared Preview/Apply pipeline: load, partition, analyze,
// build matchups, assign phase by phase over shared counters.
func (s *WizardService) buildPlan(ctx context.Context, cfg wizardConfig) (WizardOutcome, error) {
	loaded, err := s.load(ctx, cfg)
	if err != nil {
		return WizardOutcome{}, err
	}

	phases, err := partitionSlots(cfg, loaded.slots)
	if err != nil {
		return WizardOutcome{}, err
	}

	teamIDs := make([]string, 0, len(loaded.teams))
	for _, t := range loaded.teams {
		teamIDs = append(teamIDs, t.ID)
	}
	sort.Strings(teamIDs)

	report := analyze(cfg, len(teamIDs), phases)

	var outcome WizardOutcome
	outcome.Summary = WizardSummary{
		TeamCount:          len(teamIDs),
		CandidateSlotCount: len(phases.regular) + len(phases.pool) + len(phases.bracket),
		PhaseCounts:        make(map[string]int),
		GamesPerTeam:       make(map[string]int),
		Feasibility:        report,
	}
	outcome.Warnings = append(outcome.Warnings, report.Warnings...)

	counters := assign.NewCounters()
	var results []assign.Result

	if cfg.req.MinGamesPerTeam > 0 || len(phases.regular) > 0 {
		matchups := matchup.Target(teamIDs, cfg.req.MinGamesPerTeam)
		reserved, remaining := assign.ReserveGuestSlots(phases.regular, cfg.req.GuestAnchorPrimary, cfg.req.GuestAnchorSecondary, cfg.req.ExternalOfferPerWeek)
		ordered := assign.OrderSlots(remaining, cfg.constraints)

		res := assign.AssignPhase(assign.PhaseRegular, ordered, matchups, cfg.constraints, counters)
		leftover := res.UnassignedSlots
		res.UnassignedSlots = nil
		assign.BackfillExternalOffers(&res, reserved, leftover, teamIDs, cfg.constraints, counters)
		results = append(results, res)
	}

	if cfg.req.PoolGamesPerTeam > 0 {
		matchups := matchup.Target(teamIDs, cfg.req.PoolGamesPerTeam)
		ordered := assign.OrderSlots(phases.pool, cfg.constraints)
		results = append(results, assign.AssignPhase(assign.PhasePool, ordered, matchups, cfg.constraints, counters))
	}

	if cfg.req.BracketStart != "" {
		ordered := assign.OrderSlots(phases.bracket, cfg.constraints)
		var matchups []matchup.Pair
		if len(teamIDs) >= 4 {
			matchups = matchup.Bracket()
		} else {
			matchups = []matchup.Pair{{HomeTeamID: matchup.Seed1, AwayTeamID: matchup.Seed2}}
		}
		results = append(results, assign.AssignBracket(ordered, matchups))
	}

	for _, res := range results {
		outcome.Assignments = append(outcome.Assignments, res.Assignments...)
		for _, u := range res.UnassignedSlots {
			outcome.UnassignedSlots = append(outcome.UnassignedSlots, u.SlotID)
		}
		outcome.UnassignedMatchups = append(outcome.UnassignedMatchups, res.UnassignedMatchups...)
		outcome.Warnings = append(outcome.Warnings, res.Warnings...)
		outcome.Issues = append(outcome.Issues, assign.Validate(res, cfg.constraints)...)
		outcome.Summary.PhaseCounts[res.Phase] = len(res.Assignments)
	}

	outcome.Summary.AssignedCount = len(outcome.Assignments)
	for _, a := range outcome.Assignments {
		if a.IsExternalOffer {
			outcome.Summary.ExternalOfferCount++
		}
	}
	for t, n := range counters.Total {
		outcome.Summary.GamesPerTeam[t] = n
	}

	return outcome, nil
}

// persistAssignment applies one assignment to its slot under optimistic
// concurrency, retrying transient store failures.
func (s *WizardService) persistAssignment(ctx context.Context, cfg wizardConfig, a slot.Assignment, runID string) error {
	return resilience.Retry(ctx, storeRetryAttempts, storeRetryBackoff, func() error {
		current, exists, err := s.slotRepo.Get(ctx, cfg.req.LeagueID, cfg.req.Division, a.SlotID)
		if err != nil {
			return fmt.Errorf("get slot %s: %w", a.SlotID, err)
		}
		if !exists {
			return fmt.Errorf("%w: slot=%s", ErrNotFound, a.SlotID)
		}
		token, err := s.slotRepo.VersionToken(ctx, cfg.req.LeagueID, cfg.req.Division, a.SlotID)
		if err != nil {
			return fmt.Errorf("version token for slot %s: %w", a.SlotID, err)
		}

		nowUTC := s.now().UTC()
		current.HomeTeamID = a.HomeTeamID
		current.AwayTeamID = a.AwayTeamID
		current.IsAvailability = false
		current.ScheduleRunID = runID
		current.UpdatedUTC = nowUTC
		current.UpdatedBy = confirmedByWizard
		if a.IsExternalOffer {
			current.Status = slot.StatusOpen
			current.IsExternalOffer = true
			current.OfferingTeamID = a.HomeTeamID
		} else {
			current.Status = slot.StatusConfirmed
			current.ConfirmedBy = confirmedByWizard
			current.ConfirmedUTC = nowUTC
			current.OfferingTeamID = a.HomeTeamID
		}
		current.Notes = appendWizardNote(current.Notes, a.Phase)

		if _, _, err := s.slotRepo.Upsert(ctx, current, token); err != nil {
			if errors.Is(err, slot.ErrVersionConflict) {
				return fmt.Errorf("%w: slot=%s", ErrVersionConflict, a.SlotID)
			}
			return fmt.Errorf("upsert slot %s: %w", a.SlotID, err)
		}
		return nil
	})
}

func appendWizardNote(notes, phase string) string {
	marker := "Wizard: " + phase
	if strings.Contains(notes, marker) {
		return notes
	}
	if notes == "" {
		return marker
	}
	return notes + " | " + marker
}

func (s *WizardService) persistRun(ctx context.Context, cfg wizardConfig, runID string, summary WizardSummary) error {
	constraintsJSON, err := sonic.MarshalString(cfg.req)
	if err != nil {
		return fmt.Errorf("%w: marshal constraints: %v", ErrInternal, err)
	}
	summaryJSON, err := sonic.MarshalString(summary)
	if err != nil {
		return fmt.Errorf("%w: marshal summary: %v", ErrInternal, err)
	}

	run := slot.Run{
		LeagueID:        cfg.req.LeagueID,
		Division:        cfg.req.Division,
		ID:              runID,
		CreatedBy:       cfg.req.CreatedBy,
		CreatedUTC:      s.now().UTC(),
		DateFrom:        cfg.req.SeasonStart,
		DateTo:          cfg.windowEnd,
		ConstraintsJSON: constraintsJSON,
		SummaryJSON:     summaryJSON,
	}
	return resilience.Retry(ctx, storeRetryAttempts, storeRetryBackoff, func() error {
		if err := s.runRepo.Insert(ctx, run); err != nil {
			return fmt.Errorf("insert schedule run: %w", err)
		}
		return nil
	})
}

// resolveDivision loads a league and one of its divisions, rejecting deleted
// leagues.
func resolveDivision(ctx context.Context, repo league.Repository, leagueID, division string) (league.League, league.Division, error) {
	lg, exists, err := repo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, league.Division{}, fmt.Errorf("get league: %w", err)
	}
	if !exists || lg.Status == league.StatusDeleted {
		return league.League{}, league.Division{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	div, exists, err := repo.GetDivision(ctx, leagueID, division)
	if err != nil {
		return league.League{}, league.Division{}, fmt.Errorf("get division: %w", err)
	}
	if !exists {
		return league.League{}, league.Division{}, fmt.Errorf("%w: division=%s", ErrNotFound, division)
	}

	return lg, div, nil
}
