package expand

import (
	"testing"

	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	"github.com/fieldwise/league-scheduler/internal/domain/league"
)

func mondayNightRule() availability.Rule {
	return availability.Rule{
		ID:         "rule-mon",
		LeagueID:   "lg-1",
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

func TestExpandMondayNights(t *testing.T) {
	out := Expand(Input{
		Rules:             []availability.Rule{mondayNightRule()},
		WindowStart:       "2025-04-01",
		WindowEnd:         "2025-04-30",
		GameLengthMinutes: 60,
	})

	// 4 Mondays x 3 hourly candidates.
	if len(out) != 12 {
		t.Fatalf("expected 12 candidates, got %d", len(out))
	}
	if out[0].GameDate != "2025-04-07" || out[0].StartTime != "18:00" || out[0].EndTime != "19:00" {
		t.Fatalf("unexpected first candidate: %+v", out[0])
	}
	last := out[len(out)-1]
	if last.GameDate != "2025-04-28" || last.StartTime != "20:00" {
		t.Fatalf("unexpected last candidate: %+v", last)
	}
	for _, c := range out {
		if c.FieldKey != "park-a/field-1" {
			t.Fatalf("candidate carries wrong field key: %+v", c)
		}
		if c.EndMin-c.StartMin != 60 {
			t.Fatalf("candidate length mismatch: %+v", c)
		}
	}
}

func TestExpandPartialTrailingWindowDropped(t *testing.T) {
	rule := mondayNightRule()
	rule.EndTime = "20:30"

	out := Expand(Input{
		Rules:             []availability.Rule{rule},
		WindowStart:       "2025-04-07",
		WindowEnd:         "2025-04-07",
		GameLengthMinutes: 60,
	})

	// 18:00-20:30 fits two whole hours; the trailing 30 minutes are unusable.
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}
	if out[1].EndTime != "20:00" {
		t.Fatalf("trailing partial candidate leaked: %+v", out[1])
	}
}

func TestExpandExceptionSuppressesDate(t *testing.T) {
	in := Input{
		Rules: []availability.Rule{mondayNightRule()},
		ExceptionsByRule: map[string][]availability.Exception{
			"rule-mon": {{
				ID:        "ex-1",
				RuleID:    "rule-mon",
				DateFrom:  "2025-04-14",
				DateTo:    "2025-04-14",
				StartTime: "18:00",
				EndTime:   "21:00",
			}},
		},
		WindowStart:       "2025-04-01",
		WindowEnd:         "2025-04-30",
		GameLengthMinutes: 60,
	}

	out := Expand(in)
	if len(out) != 9 {
		t.Fatalf("expected 9 candidates after suppression, got %d", len(out))
	}
	for _, c := range out {
		if c.GameDate == "2025-04-14" {
			t.Fatalf("suppressed date leaked: %+v", c)
		}
	}
}

func TestExpandExceptionOutsideTimeRangeDoesNotSuppress(t *testing.T) {
	in := Input{
		Rules: []availability.Rule{mondayNightRule()},
		ExceptionsByRule: map[string][]availability.Exception{
			"rule-mon": {{
				ID:        "ex-1",
				RuleID:    "rule-mon",
				DateFrom:  "2025-04-14",
				DateTo:    "2025-04-14",
				StartTime: "08:00",
				EndTime:   "10:00",
			}},
		},
		WindowStart:       "2025-04-01",
		WindowEnd:         "2025-04-30",
		GameLengthMinutes: 60,
	}

	if out := Expand(in); len(out) != 12 {
		t.Fatalf("non-overlapping exception must not suppress, got %d candidates", len(out))
	}
}

func TestExpandInvalidExceptionIgnored(t *testing.T) {
	in := Input{
		Rules: []availability.Rule{mondayNightRule()},
		ExceptionsByRule: map[string][]availability.Exception{
			"rule-mon": {{
				ID:        "ex-bad",
				RuleID:    "rule-mon",
				DateFrom:  "2025-04-14",
				DateTo:    "2025-04-14",
				StartTime: "21:00",
				EndTime:   "18:00", // inverted
			}},
		},
		WindowStart:       "2025-04-01",
		WindowEnd:         "2025-04-30",
		GameLengthMinutes: 60,
	}

	if out := Expand(in); len(out) != 12 {
		t.Fatalf("invalid exception must be ignored, got %d candidates", len(out))
	}
}

func TestExpandBlackoutRange(t *testing.T) {
	in := Input{
		Rules: []availability.Rule{mondayNightRule()},
		Blackouts: []league.BlackoutRange{
			{StartDate: "2025-04-14", EndDate: "2025-04-20", Label: "Spring Break"},
		},
		WindowStart:       "2025-04-01",
		WindowEnd:         "2025-04-30",
		GameLengthMinutes: 60,
	}

	out := Expand(in)
	for _, c := range out {
		if c.GameDate >= "2025-04-14" && c.GameDate <= "2025-04-20" {
			t.Fatalf("blackout date leaked: %+v", c)
		}
	}
	if len(out) != 9 {
		t.Fatalf("expected 9 candidates outside the blackout, got %d", len(out))
	}
}

func TestExpandSkipsInvalidRuleKeepsRest(t *testing.T) {
	bad := mondayNightRule()
	bad.ID = "rule-bad"
	bad.StartTime = "22:00" // inverted against 21:00 end

	out := Expand(Input{
		Rules:             []availability.Rule{bad, mondayNightRule()},
		WindowStart:       "2025-04-01",
		WindowEnd:         "2025-04-30",
		GameLengthMinutes: 60,
	})
	if len(out) != 12 {
		t.Fatalf("invalid rule must not poison the batch, got %d", len(out))
	}
}

func TestExpandDivisionTargeting(t *testing.T) {
	scoped := mondayNightRule()
	scoped.DivisionIDs = []string{"majors"}

	if out := Expand(Input{
		Rules:             []availability.Rule{scoped},
		WindowStart:       "2025-04-01",
		WindowEnd:         "2025-04-30",
		GameLengthMinutes: 60,
		Division:          "minors",
	}); len(out) != 0 {
		t.Fatalf("rule scoped to another division must not apply, got %d", len(out))
	}

	if out := Expand(Input{
		Rules:             []availability.Rule{scoped},
		WindowStart:       "2025-04-01",
		WindowEnd:         "2025-04-30",
		GameLengthMinutes: 60,
		Division:          "majors",
	}); len(out) != 12 {
		t.Fatalf("rule scoped to this division must apply, got %d", len(out))
	}
}

func TestExpandDeduplicates(t *testing.T) {
	twin := mondayNightRule()
	twin.ID = "rule-mon-2"

	out := Expand(Input{
		Rules:             []availability.Rule{mondayNightRule(), twin},
		WindowStart:       "2025-04-01",
		WindowEnd:         "2025-04-30",
		GameLengthMinutes: 60,
	})
	if len(out) != 12 {
		t.Fatalf("duplicate occurrences must collapse, got %d", len(out))
	}
	// First rule wins.
	if out[0].RuleID != "rule-mon" {
		t.Fatalf("dedupe must keep the first occurrence, got %s", out[0].RuleID)
	}
}

func TestExpandIdempotent(t *testing.T) {
	in := Input{
		Rules:             []availability.Rule{mondayNightRule()},
		WindowStart:       "2025-04-01",
		WindowEnd:         "2025-04-30",
		GameLengthMinutes: 60,
	}
	a := Expand(in)
	b := Expand(in)
	if len(a) != len(b) {
		t.Fatalf("expansion not idempotent: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expansion not idempotent at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestExpandWindowSplitLaw(t *testing.T) {
	base := Input{
		Rules:             []availability.Rule{mondayNightRule()},
		GameLengthMinutes: 60,
	}

	whole := base
	whole.WindowStart, whole.WindowEnd = "2025-04-01", "2025-04-30"

	first := base
	first.WindowStart, first.WindowEnd = "2025-04-01", "2025-04-15"
	second := base
	second.WindowStart, second.WindowEnd = "2025-04-16", "2025-04-30"

	all := Expand(whole)
	split := append(Expand(first), Expand(second)...)
	if len(all) != len(split) {
		t.Fatalf("window split law broken: %d vs %d", len(all), len(split))
	}
	for i := range all {
		if all[i] != split[i] {
			t.Fatalf("window split law broken at %d: %+v vs %+v", i, all[i], split[i])
		}
	}
}

func TestExpandFixedWindow(t *testing.T) {
	out, err := ExpandFixed(FixedInput{
		FieldKey:          "park-b/field-2",
		Division:          "majors",
		DaysOfWeek:        []string{"Sat"},
		StartTime:         "09:00",
		EndTime:           "12:00",
		DateFrom:          "2025-05-01",
		DateTo:            "2025-05-31",
		GameLengthMinutes: 90,
	})
	if err != nil {
		t.Fatalf("fixed expansion failed: %v", err)
	}
	// 5 Saturdays in May 2025, two 90-minute candidates each.
	if len(out) != 10 {
		t.Fatalf("expected 10 candidates, got %d", len(out))
	}
	if out[0].GameDate != "2025-05-03" || out[0].StartTime != "09:00" || out[0].EndTime != "10:30" {
		t.Fatalf("unexpected first candidate: %+v", out[0])
	}

	if _, err := ExpandFixed(FixedInput{
		StartTime: "09:00", EndTime: "08:00",
		DateFrom: "2025-05-01", DateTo: "2025-05-31",
		GameLengthMinutes: 60,
	}); err == nil {
		t.Error("inverted fixed range must be rejected")
	}
	if _, err := ExpandFixed(FixedInput{
		StartTime: "09:00", EndTime: "12:00",
		DateFrom: "2025-05-01", DateTo: "2025-05-31",
	}); err == nil {
		t.Error("zero game length must be rejected")
	}
}
