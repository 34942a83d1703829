// Package feasibility sizes a requested schedule against available slots
// before any assignment runs, so callers learn what falls short and which
// knob closes the gap.
package feasibility

import "fmt"

// Input is the phase configuration under evaluation.
type Input struct {
	TeamCount             int
	AvailableRegularSlots int
	AvailablePoolSlots    int
	AvailableBracketSlots int
	MinGamesPerTeam       int
	PoolGamesPerTeam      int
	MaxGamesPerWeek       int
	NoDoubleHeaders       bool
	RegularWeeksCount     int
	GuestGamesPerWeek     int
}

// Shortfall is one gap between demand and supply, with the deficit and the
// knob that would close it.
type Shortfall struct {
	Phase   string `json:"phase"`
	Need    int    `json:"need"`
	Have    int    `json:"have"`
	Deficit int    `json:"deficit"`
	Knob    string `json:"knob"`
	Message string `json:"message"`
}

// Report is the analyzer's structured output. Feasible means no shortfalls;
// warnings flag soft pressure that does not block a run.
type Report struct {
	Feasible   bool        `json:"feasible"`
	Shortfalls []Shortfall `json:"shortfalls,omitempty"`
	Warnings   []string    `json:"warnings,omitempty"`

	RequiredRegularSlots int `json:"requiredRegularSlots"`
	RequiredPoolSlots    int `json:"requiredPoolSlots"`
	RequiredBracketSlots int `json:"requiredBracketSlots"`
	GuestReservedSlots   int `json:"guestReservedSlots"`
}

// Analyze computes slot demand per phase and compares it with supply.
func Analyze(in Input) Report {
	var r Report

	if in.TeamCount < 2 {
		r.Shortfalls = append(r.Shortfalls, Shortfall{
			Phase:   "RegularSeason",
			Need:    2,
			Have:    in.TeamCount,
			Deficit: 2 - in.TeamCount,
			Knob:    "teamCount",
			Message: fmt.Sprintf("scheduling needs at least 2 teams, have %d", in.TeamCount),
		})
		r.Feasible = false
		return r
	}

	r.RequiredRegularSlots = ceilDiv(in.TeamCount*in.MinGamesPerTeam, 2)
	r.RequiredPoolSlots = ceilDiv(in.TeamCount*in.PoolGamesPerTeam, 2)
	if in.PoolGamesPerTeam > 0 || in.AvailableBracketSlots > 0 {
		if in.TeamCount >= 4 {
			r.RequiredBracketSlots = 3
		} else {
			r.RequiredBracketSlots = 1
		}
	}
	r.GuestReservedSlots = in.GuestGamesPerWeek * in.RegularWeeksCount

	// Guest reservations come off the top of the regular pool.
	usableRegular := in.AvailableRegularSlots - r.GuestReservedSlots
	if usableRegular < 0 {
		usableRegular = 0
	}

	if r.RequiredRegularSlots > usableRegular {
		r.Shortfalls = append(r.Shortfalls, Shortfall{
			Phase:   "RegularSeason",
			Need:    r.RequiredRegularSlots,
			Have:    usableRegular,
			Deficit: r.RequiredRegularSlots - usableRegular,
			Knob:    "minGamesPerTeam",
			Message: fmt.Sprintf("regular season needs %d game slots but only %d remain after reserving %d for guest games", r.RequiredRegularSlots, usableRegular, r.GuestReservedSlots),
		})
	}

	if in.PoolGamesPerTeam > 0 && r.RequiredPoolSlots > in.AvailablePoolSlots {
		r.Shortfalls = append(r.Shortfalls, Shortfall{
			Phase:   "PoolPlay",
			Need:    r.RequiredPoolSlots,
			Have:    in.AvailablePoolSlots,
			Deficit: r.RequiredPoolSlots - in.AvailablePoolSlots,
			Knob:    "poolGamesPerTeam",
			Message: fmt.Sprintf("pool play needs %d game slots, have %d", r.RequiredPoolSlots, in.AvailablePoolSlots),
		})
	}

	if r.RequiredBracketSlots > 0 && r.RequiredBracketSlots > in.AvailableBracketSlots {
		r.Shortfalls = append(r.Shortfalls, Shortfall{
			Phase:   "Bracket",
			Need:    r.RequiredBracketSlots,
			Have:    in.AvailableBracketSlots,
			Deficit: r.RequiredBracketSlots - in.AvailableBracketSlots,
			Knob:    "bracketWindow",
			Message: fmt.Sprintf("bracket needs %d slots, have %d", r.RequiredBracketSlots, in.AvailableBracketSlots),
		})
	}

	if in.MaxGamesPerWeek > 0 && in.RegularWeeksCount > 0 {
		// With the cap, the division can absorb at most this many games/week.
		weeklyCapacity := in.TeamCount * in.MaxGamesPerWeek / 2
		weeklyDemand := ceilDiv(in.AvailableRegularSlots, in.RegularWeeksCount)
		capGames := weeklyCapacity * in.RegularWeeksCount
		if r.RequiredRegularSlots > capGames {
			r.Shortfalls = append(r.Shortfalls, Shortfall{
				Phase:   "RegularSeason",
				Need:    r.RequiredRegularSlots,
				Have:    capGames,
				Deficit: r.RequiredRegularSlots - capGames,
				Knob:    "maxGamesPerWeek",
				Message: fmt.Sprintf("the weekly cap of %d limits the division to %d games over %d weeks, fewer than the %d required", in.MaxGamesPerWeek, capGames, in.RegularWeeksCount, r.RequiredRegularSlots),
			})
		} else if weeklyDemand > weeklyCapacity {
			r.Warnings = append(r.Warnings, fmt.Sprintf("about %d slots per week exceed the %d games per week the cap allows; extra slots will go unused", weeklyDemand, weeklyCapacity))
		}
	}

	if in.NoDoubleHeaders && in.MinGamesPerTeam > 0 && in.RegularWeeksCount > 0 && in.MaxGamesPerWeek == 1 && in.MinGamesPerTeam > in.RegularWeeksCount {
		r.Shortfalls = append(r.Shortfalls, Shortfall{
			Phase:   "RegularSeason",
			Need:    in.MinGamesPerTeam,
			Have:    in.RegularWeeksCount,
			Deficit: in.MinGamesPerTeam - in.RegularWeeksCount,
			Knob:    "regularWeeks",
			Message: fmt.Sprintf("one game per week over %d weeks cannot reach %d games per team", in.RegularWeeksCount, in.MinGamesPerTeam),
		})
	}

	r.Feasible = len(r.Shortfalls) == 0
	return r
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
