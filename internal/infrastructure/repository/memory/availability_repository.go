package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/fieldwise/league-scheduler/internal/domain/availability"
)

type RuleRepository struct {
	mu    sync.RWMutex
	rules []availability.Rule
}

func NewRuleRepository(rules []availability.Rule) *RuleRepository {
	return &RuleRepository{rules: rules}
}

func (r *RuleRepository) ListActive(_ context.Context, leagueID, fieldKey, dateFrom, dateTo string) ([]availability.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []availability.Rule
	for _, rule := range r.rules {
		if !rule.IsActive || rule.LeagueID != leagueID {
			continue
		}
		if fieldKey != "" && !strings.EqualFold(rule.FieldKey, fieldKey) {
			continue
		}
		if rule.EndsOn < dateFrom || rule.StartsOn > dateTo {
			continue
		}
		out = append(out, rule)
	}

	return out, nil
}

type ExceptionRepository struct {
	mu     sync.RWMutex
	byRule map[string][]availability.Exception
}

func NewExceptionRepository(exceptions []availability.Exception) *ExceptionRepository {
	byRule := make(map[string][]availability.Exception)
	for _, ex := range exceptions {
		byRule[ex.RuleID] = append(byRule[ex.RuleID], ex)
	}

	return &ExceptionRepository{byRule: byRule}
}

func (r *ExceptionRepository) ListByRule(_ context.Context, ruleID string) ([]availability.Exception, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]availability.Exception, len(r.byRule[ruleID]))
	copy(out, r.byRule[ruleID])

	return out, nil
}

type AllocationRepository struct {
	mu    sync.RWMutex
	items []availability.Allocation
}

func NewAllocationRepository(allocations []availability.Allocation) *AllocationRepository {
	return &AllocationRepository{items: allocations}
}

func (r *AllocationRepository) ListActiveByField(_ context.Context, leagueID, fieldKey string) ([]availability.Allocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []availability.Allocation
	for _, a := range r.items {
		if a.IsActive && a.LeagueID == leagueID && strings.EqualFold(a.FieldKey, fieldKey) {
			out = append(out, a)
		}
	}

	return out, nil
}

func (r *AllocationRepository) InsertBatch(_ context.Context, allocations []availability.Allocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, allocations...)

	return nil
}
