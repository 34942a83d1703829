// Package expand materializes concrete candidate slots from recurring
// availability rules and from caller-supplied fixed windows.
package expand

import (
	"fmt"
	"time"

	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/schedule/timegrid"
)

// Candidate is one expandable slot occurrence before persistence.
type Candidate struct {
	GameDate  string
	StartTime string
	EndTime   string
	StartMin  int
	EndMin    int
	FieldKey  string
	Division  string
	RuleID    string
}

// Input bundles everything the expander needs for one window.
type Input struct {
	Rules             []availability.Rule
	ExceptionsByRule  map[string][]availability.Exception
	Blackouts         []league.BlackoutRange
	WindowStart       string
	WindowEnd         string
	GameLengthMinutes int
	Division          string
}

// Expand walks every active rule intersected with the caller's window and
// emits game-length candidates in rule order, then date order, then start
// time. Invalid rules are skipped and invalid exceptions ignored; one bad
// input never fails the batch. Duplicates by (date, start, end, fieldKey)
// keep the first occurrence.
func Expand(in Input) []Candidate {
	if in.GameLengthMinutes < 1 {
		return nil
	}

	type dedupeKey struct {
		date     string
		startMin int
		endMin   int
		fieldKey string
	}
	seen := make(map[dedupeKey]bool)
	var out []Candidate

	for _, rule := range in.Rules {
		if !rule.IsActive || rule.Validate() != nil {
			continue
		}
		if in.Division != "" && !rule.AppliesTo(in.Division) {
			continue
		}

		ruleStartMin, ruleEndMin, err := timegrid.ValidRange(rule.StartTime, rule.EndTime)
		if err != nil {
			continue
		}

		days := make(map[time.Weekday]bool, len(rule.DaysOfWeek))
		for _, tok := range rule.DaysOfWeek {
			if dow, ok := timegrid.DayIndex(tok); ok {
				days[dow] = true
			}
		}
		if len(days) == 0 {
			continue
		}

		from := maxDate(rule.StartsOn, in.WindowStart)
		to := minDate(rule.EndsOn, in.WindowEnd)
		if from > to {
			continue
		}

		start, err := timegrid.ParseDate(from)
		if err != nil {
			continue
		}
		end, err := timegrid.ParseDate(to)
		if err != nil {
			continue
		}

		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !days[d.Weekday()] {
				continue
			}
			date := timegrid.FormatDate(d)
			if dateBlackedOut(date, in.Blackouts) {
				continue
			}
			if suppressed(date, ruleStartMin, ruleEndMin, in.ExceptionsByRule[rule.ID]) {
				continue
			}

			for s := ruleStartMin; s+in.GameLengthMinutes <= ruleEndMin; s += in.GameLengthMinutes {
				e := s + in.GameLengthMinutes
				key := dedupeKey{date, s, e, rule.FieldKey}
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, Candidate{
					GameDate:  date,
					StartTime: timegrid.FormatMinutes(s),
					EndTime:   timegrid.FormatMinutes(e),
					StartMin:  s,
					EndMin:    e,
					FieldKey:  rule.FieldKey,
					Division:  in.Division,
					RuleID:    rule.ID,
				})
			}
		}
	}

	return out
}

// FixedInput drives the same walk without a recurring rule: the caller names
// the days, times and window directly.
type FixedInput struct {
	FieldKey          string
	Division          string
	DaysOfWeek        []string
	StartTime         string
	EndTime           string
	DateFrom          string
	DateTo            string
	GameLengthMinutes int
	Blackouts         []league.BlackoutRange
}

// ExpandFixed emits candidates for a caller-supplied window.
func ExpandFixed(in FixedInput) ([]Candidate, error) {
	if in.GameLengthMinutes < 1 {
		return nil, fmt.Errorf("game length must be at least 1 minute, got %d", in.GameLengthMinutes)
	}
	startMin, endMin, err := timegrid.ValidRange(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	start, err := timegrid.ParseDate(in.DateFrom)
	if err != nil {
		return nil, err
	}
	end, err := timegrid.ParseDate(in.DateTo)
	if err != nil {
		return nil, err
	}

	days := make(map[time.Weekday]bool, len(in.DaysOfWeek))
	for _, tok := range in.DaysOfWeek {
		dow, ok := timegrid.DayIndex(tok)
		if !ok {
			continue
		}
		days[dow] = true
	}

	var out []Candidate
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if len(days) > 0 && !days[d.Weekday()] {
			continue
		}
		date := timegrid.FormatDate(d)
		if dateBlackedOut(date, in.Blackouts) {
			continue
		}
		for s := startMin; s+in.GameLengthMinutes <= endMin; s += in.GameLengthMinutes {
			e := s + in.GameLengthMinutes
			out = append(out, Candidate{
				GameDate:  date,
				StartTime: timegrid.FormatMinutes(s),
				EndTime:   timegrid.FormatMinutes(e),
				StartMin:  s,
				EndMin:    e,
				FieldKey:  in.FieldKey,
				Division:  in.Division,
			})
		}
	}
	return out, nil
}

func dateBlackedOut(date string, blackouts []league.BlackoutRange) bool {
	for _, b := range blackouts {
		if timegrid.InRange(date, b.StartDate, b.EndDate) {
			return true
		}
	}
	return false
}

// suppressed reports whether any valid exception covers the date and overlaps
// the rule's time range.
func suppressed(date string, ruleStartMin, ruleEndMin int, exceptions []availability.Exception) bool {
	for _, ex := range exceptions {
		if ex.Validate() != nil {
			continue
		}
		if !timegrid.InRange(date, ex.DateFrom, ex.DateTo) {
			continue
		}
		exStart, exEnd, err := timegrid.ValidRange(ex.StartTime, ex.EndTime)
		if err != nil {
			continue
		}
		if timegrid.Overlaps(exStart, exEnd, ruleStartMin, ruleEndMin) {
			return true
		}
	}
	return false
}

func maxDate(a, b string) string {
	if a > b {
		return a
	}
	return b
}

func minDate(a, b string) string {
	if a < b {
		return a
	}
	return b
}
