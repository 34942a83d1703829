package feasibility

import "testing"

func TestAnalyzeFeasibleBaseline(t *testing.T) {
	r := Analyze(Input{
		TeamCount:             4,
		AvailableRegularSlots: 12,
		MinGamesPerTeam:       3,
		MaxGamesPerWeek:       1,
		NoDoubleHeaders:       true,
		RegularWeeksCount:     4,
	})
	if !r.Feasible {
		t.Fatalf("expected feasible, got shortfalls: %+v", r.Shortfalls)
	}
	if r.RequiredRegularSlots != 6 {
		t.Fatalf("4 teams x 3 games / 2 = 6 required, got %d", r.RequiredRegularSlots)
	}
}

func TestAnalyzeOddProductRoundsUp(t *testing.T) {
	r := Analyze(Input{
		TeamCount:             5,
		AvailableRegularSlots: 20,
		MinGamesPerTeam:       3,
		RegularWeeksCount:     5,
	})
	// ceil(5*3/2) = 8.
	if r.RequiredRegularSlots != 8 {
		t.Fatalf("expected 8 required regular slots, got %d", r.RequiredRegularSlots)
	}
}

func TestAnalyzeRegularShortfall(t *testing.T) {
	r := Analyze(Input{
		TeamCount:             4,
		AvailableRegularSlots: 5,
		MinGamesPerTeam:       3,
		RegularWeeksCount:     3,
	})
	if r.Feasible {
		t.Fatal("expected infeasible")
	}
	if len(r.Shortfalls) == 0 {
		t.Fatal("expected a shortfall")
	}
	sf := r.Shortfalls[0]
	if sf.Deficit != 1 || sf.Knob != "minGamesPerTeam" {
		t.Fatalf("unexpected shortfall: %+v", sf)
	}
}

func TestAnalyzeGuestReservationEatsSlots(t *testing.T) {
	r := Analyze(Input{
		TeamCount:             4,
		AvailableRegularSlots: 8,
		MinGamesPerTeam:       3,
		RegularWeeksCount:     4,
		GuestGamesPerWeek:     1,
	})
	// 8 slots minus 4 reserved leaves 4 against a need of 6.
	if r.Feasible {
		t.Fatal("expected infeasible once guest games are reserved")
	}
	if r.GuestReservedSlots != 4 {
		t.Fatalf("expected 4 reserved slots, got %d", r.GuestReservedSlots)
	}
	if r.Shortfalls[0].Deficit != 2 {
		t.Fatalf("expected deficit 2, got %+v", r.Shortfalls[0])
	}
}

func TestAnalyzePoolAndBracketDemand(t *testing.T) {
	r := Analyze(Input{
		TeamCount:             6,
		AvailableRegularSlots: 30,
		AvailablePoolSlots:    5,
		AvailableBracketSlots: 1,
		MinGamesPerTeam:       5,
		PoolGamesPerTeam:      2,
		RegularWeeksCount:     6,
	})
	// Pool: ceil(6*2/2) = 6 > 5. Bracket: 6 teams need 3 slots > 1.
	if r.Feasible {
		t.Fatal("expected infeasible")
	}
	var pool, bracket bool
	for _, sf := range r.Shortfalls {
		switch sf.Phase {
		case "PoolPlay":
			pool = true
			if sf.Deficit != 1 {
				t.Fatalf("pool deficit: %+v", sf)
			}
		case "Bracket":
			bracket = true
			if sf.Need != 3 || sf.Deficit != 2 {
				t.Fatalf("bracket shortfall: %+v", sf)
			}
		}
	}
	if !pool || !bracket {
		t.Fatalf("missing expected shortfalls: %+v", r.Shortfalls)
	}
}

func TestAnalyzeSmallBracket(t *testing.T) {
	r := Analyze(Input{
		TeamCount:             3,
		AvailableRegularSlots: 10,
		AvailablePoolSlots:    3,
		AvailableBracketSlots: 1,
		MinGamesPerTeam:       2,
		PoolGamesPerTeam:      2,
		RegularWeeksCount:     4,
	})
	if r.RequiredBracketSlots != 1 {
		t.Fatalf("3 teams need a single championship slot, got %d", r.RequiredBracketSlots)
	}
}

func TestAnalyzeWeeklyCapBound(t *testing.T) {
	r := Analyze(Input{
		TeamCount:             4,
		AvailableRegularSlots: 20,
		MinGamesPerTeam:       8,
		MaxGamesPerWeek:       1,
		RegularWeeksCount:     4,
	})
	// Cap allows 2 games/week x 4 weeks = 8 < 16 required.
	if r.Feasible {
		t.Fatal("expected infeasible under the weekly cap")
	}
	found := false
	for _, sf := range r.Shortfalls {
		if sf.Knob == "maxGamesPerWeek" {
			found = true
			if sf.Have != 8 {
				t.Fatalf("expected capacity 8, got %+v", sf)
			}
		}
	}
	if !found {
		t.Fatalf("expected a maxGamesPerWeek shortfall: %+v", r.Shortfalls)
	}
}

func TestAnalyzeTooFewTeams(t *testing.T) {
	r := Analyze(Input{TeamCount: 1})
	if r.Feasible {
		t.Fatal("one team can never be scheduled")
	}
	if r.Shortfalls[0].Knob != "teamCount" {
		t.Fatalf("unexpected shortfall: %+v", r.Shortfalls[0])
	}
}

func TestAnalyzeOneTeamGameShortfallScenario(t *testing.T) {
	// Losing one Monday leaves 9 slots for 3 weeks; 6 are still enough
	// slot-wise, but one game per week over 3 weeks caps teams at 3 games
	// only if all weeks survive. With minGames 3 and 3 remaining weeks the
	// analyzer stays feasible; with 2 weeks it reports the week shortfall.
	r := Analyze(Input{
		TeamCount:             4,
		AvailableRegularSlots: 6,
		MinGamesPerTeam:       3,
		MaxGamesPerWeek:       1,
		NoDoubleHeaders:       true,
		RegularWeeksCount:     2,
	})
	if r.Feasible {
		t.Fatal("expected infeasible with 3 games per team in 2 weeks")
	}
	found := false
	for _, sf := range r.Shortfalls {
		if sf.Knob == "regularWeeks" && sf.Deficit == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a regularWeeks shortfall of 1: %+v", r.Shortfalls)
	}
}
