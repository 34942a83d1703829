package availability

import "context"

// RuleRepository describes availability-rule persistence needs.
type RuleRepository interface {
	// ListActive returns active rules whose [startsOn, endsOn] intersects
	// [dateFrom, dateTo]. fieldKey narrows to one field when non-empty.
	ListActive(ctx context.Context, leagueID, fieldKey, dateFrom, dateTo string) ([]Rule, error)
}

// ExceptionRepository describes exception persistence needs.
type ExceptionRepository interface {
	ListByRule(ctx context.Context, ruleID string) ([]Exception, error)
}

// AllocationRepository describes field-allocation persistence needs.
type AllocationRepository interface {
	ListActiveByField(ctx context.Context, leagueID, fieldKey string) ([]Allocation, error)
	// InsertBatch persists at most one partition's worth of allocations in a
	// single store transaction.
	InsertBatch(ctx context.Context, allocations []Allocation) error
}
