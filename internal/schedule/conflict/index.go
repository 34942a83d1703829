// Package conflict maintains a per-request index of occupied time ranges by
// (fieldKey, gameDate), used to reject overlapping slot edits and imports.
package conflict

import (
	"context"
	"strings"

	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	"github.com/fieldwise/league-scheduler/internal/schedule/timegrid"
)

// Candidate is a time range proposed for a field and date.
type Candidate struct {
	SlotID   string
	FieldKey string
	GameDate string
	StartMin int
	EndMin   int
}

// Index buckets half-open minute ranges by lowercase(fieldKey)|gameDate.
// It is request-scoped and not safe for concurrent use.
type Index struct {
	buckets map[string][]span
}

type span struct {
	startMin int
	endMin   int
	slotID   string
}

func NewIndex() *Index {
	return &Index{buckets: make(map[string][]span)}
}

// Key builds the bucket key for a field and date.
func Key(fieldKey, gameDate string) string {
	return strings.ToLower(fieldKey) + "|" + gameDate
}

// LoadOptions narrows which existing slots populate the index.
type LoadOptions struct {
	Division            string
	FieldKey            string
	DateFrom            string
	DateTo              string
	IncludeAvailability bool
	// ExcludeSlotID leaves one slot out of the index, so an edit does not
	// conflict with the slot being edited.
	ExcludeSlotID string
}

// Load scans non-cancelled slots in the window and populates the index.
func (ix *Index) Load(ctx context.Context, repo slot.Repository, leagueID string, opts LoadOptions) error {
	filter := slot.QueryFilter{
		Division: opts.Division,
		FieldKey: opts.FieldKey,
		DateFrom: opts.DateFrom,
		DateTo:   opts.DateTo,
	}
	cursor := ""
	for {
		filter.Cursor = cursor
		slots, next, err := repo.Query(ctx, leagueID, filter)
		if err != nil {
			return err
		}
		for _, s := range slots {
			if s.Status == slot.StatusCancelled {
				continue
			}
			if !opts.IncludeAvailability && s.IsAvailability {
				continue
			}
			if opts.ExcludeSlotID != "" && s.ID == opts.ExcludeSlotID {
				continue
			}
			ix.add(Key(s.FieldKey, s.GameDate), s.StartMin, s.EndMin, s.ID)
		}
		if next == "" {
			return nil
		}
		cursor = next
	}
}

// HasOverlap reports whether [startMin, endMin) intersects any range in the
// bucket. Linear scan: buckets hold one field-day of slots.
func (ix *Index) HasOverlap(key string, startMin, endMin int) bool {
	for _, sp := range ix.buckets[key] {
		if timegrid.Overlaps(sp.startMin, sp.endMin, startMin, endMin) {
			return true
		}
	}
	return false
}

// OverlapCount returns how many existing ranges the candidate intersects.
func (ix *Index) OverlapCount(key string, startMin, endMin int) int {
	n := 0
	for _, sp := range ix.buckets[key] {
		if timegrid.Overlaps(sp.startMin, sp.endMin, startMin, endMin) {
			n++
		}
	}
	return n
}

// Add appends a range to the bucket without checking.
func (ix *Index) Add(key string, startMin, endMin int) {
	ix.add(key, startMin, endMin, "")
}

func (ix *Index) add(key string, startMin, endMin int, slotID string) {
	ix.buckets[key] = append(ix.buckets[key], span{startMin: startMin, endMin: endMin, slotID: slotID})
}

// SplitByOverlap partitions candidates in insertion order. A candidate
// conflicts if it overlaps the preloaded index or any previously accepted
// candidate; accepted candidates join the index so in-batch duplicates also
// conflict. Always |accepted| + |conflicts| = |candidates|.
func (ix *Index) SplitByOverlap(candidates []Candidate) (accepted, conflicts []Candidate) {
	for _, c := range candidates {
		key := Key(c.FieldKey, c.GameDate)
		if ix.HasOverlap(key, c.StartMin, c.EndMin) {
			conflicts = append(conflicts, c)
			continue
		}
		ix.add(key, c.StartMin, c.EndMin, c.SlotID)
		accepted = append(accepted, c)
	}
	return accepted, conflicts
}
