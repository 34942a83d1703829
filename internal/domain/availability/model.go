package availability

import (
	"fmt"
	"slices"

	"github.com/fieldwise/league-scheduler/internal/domain/league"
)

// RecurrenceWeekly is the only recurrence pattern supported today.
const RecurrenceWeekly = "Weekly"

// Rule is a recurring field-availability window expanded into candidate slots.
type Rule struct {
	ID          string
	LeagueID    string
	FieldKey    string
	Division    string
	DivisionIDs []string
	StartsOn    string
	EndsOn      string
	DaysOfWeek  []string
	StartTime   string
	EndTime     string
	Recurrence  string
	Timezone    string
	IsActive    bool
}

// AppliesTo reports whether the rule contributes slots to the given division.
// A rule with no division targeting applies everywhere.
func (r Rule) AppliesTo(division string) bool {
	if r.Division != "" {
		return r.Division == division
	}
	if len(r.DivisionIDs) == 0 {
		return true
	}
	return slices.Contains(r.DivisionIDs, division)
}

func (r Rule) Validate() error {
	if !league.ValidID(r.ID) {
		return fmt.Errorf("rule id %q is not a valid identifier", r.ID)
	}
	if r.StartsOn > r.EndsOn {
		return fmt.Errorf("rule %s: startsOn %s is after endsOn %s", r.ID, r.StartsOn, r.EndsOn)
	}
	if len(r.DaysOfWeek) == 0 {
		return fmt.Errorf("rule %s: daysOfWeek must not be empty", r.ID)
	}
	if r.EndTime <= r.StartTime {
		return fmt.Errorf("rule %s: end time %s must be after start time %s", r.ID, r.EndTime, r.StartTime)
	}
	return nil
}

// Exception suppresses rule occurrences whose date falls in [DateFrom, DateTo]
// and whose time range overlaps the rule's time range.
type Exception struct {
	ID        string
	RuleID    string
	DateFrom  string
	DateTo    string
	StartTime string
	EndTime   string
	Reason    string
}

func (e Exception) Validate() error {
	if e.DateFrom > e.DateTo {
		return fmt.Errorf("exception %s: dateFrom %s is after dateTo %s", e.ID, e.DateFrom, e.DateTo)
	}
	if e.EndTime <= e.StartTime {
		return fmt.Errorf("exception %s: end time %s must be after start time %s", e.ID, e.EndTime, e.StartTime)
	}
	return nil
}

// SlotType tells what a field allocation window may be used for.
type SlotType string

const (
	SlotTypePractice SlotType = "practice"
	SlotTypeGame     SlotType = "game"
	SlotTypeBoth     SlotType = "both"
)

// ScopeLeague marks an allocation that applies league-wide rather than to a
// single division.
const ScopeLeague = "LEAGUE"

// Allocation is an imported field-availability window. Active allocations for
// the same field key must not overlap in (dateRange x dayOfWeek x timeRange).
type Allocation struct {
	ID           string
	LeagueID     string
	Scope        string
	FieldKey     string
	StartsOn     string
	EndsOn       string
	DaysOfWeek   []string
	StartTime    string
	EndTime      string
	SlotType     SlotType
	PriorityRank *int
	IsActive     bool
}

func (a Allocation) Validate() error {
	if !league.ValidID(a.ID) {
		return fmt.Errorf("allocation id %q is not a valid identifier", a.ID)
	}
	if a.StartsOn > a.EndsOn {
		return fmt.Errorf("allocation %s: startsOn %s is after endsOn %s", a.ID, a.StartsOn, a.EndsOn)
	}
	if len(a.DaysOfWeek) == 0 {
		return fmt.Errorf("allocation %s: daysOfWeek must not be empty", a.ID)
	}
	if a.EndTime <= a.StartTime {
		return fmt.Errorf("allocation %s: end time %s must be after start time %s", a.ID, a.EndTime, a.StartTime)
	}
	switch a.SlotType {
	case SlotTypePractice, SlotTypeGame, SlotTypeBoth:
	default:
		return fmt.Errorf("allocation %s: slot type %q is not recognized", a.ID, a.SlotType)
	}
	return nil
}
