package slot

import "context"

// Repository describes slot persistence needs from use cases.
type Repository interface {
	// Query returns slots for the league matching filter, ordered by
	// (gameDate, startTime, fieldKey, id), plus a cursor for the next page
	// when PageSize is set and more rows remain.
	Query(ctx context.Context, leagueID string, filter QueryFilter) ([]Slot, string, error)
	Get(ctx context.Context, leagueID, division, slotID string) (Slot, bool, error)
	// Upsert writes the slot if versionToken matches the stored version (or
	// the slot is new and versionToken is empty). The returned slot carries
	// the fresh version token. A stale token yields ErrVersionConflict.
	Upsert(ctx context.Context, s Slot, versionToken string) (Slot, string, error)
	Delete(ctx context.Context, leagueID, division, slotID string) error
	ListByFieldAndDate(ctx context.Context, leagueID, fieldKey, gameDate string) ([]Slot, error)
	// VersionToken returns the stored token for a slot, "" when absent.
	VersionToken(ctx context.Context, leagueID, division, slotID string) (string, error)
}

// RunRepository describes schedule-run persistence needs.
type RunRepository interface {
	Insert(ctx context.Context, run Run) error
	Get(ctx context.Context, leagueID, division, runID string) (Run, bool, error)
	ListByDivision(ctx context.Context, leagueID, division string) ([]Run, error)
}
