package assign

import (
	"fmt"
	"sort"

	"github.com/fieldwise/league-scheduler/internal/schedule/timegrid"
)

// Severity levels for validation issues.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Issue is one violated scheduling rule, with enough detail to act on.
type Issue struct {
	RuleID   string         `json:"ruleId"`
	Severity string         `json:"severity"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

// homeAwayGapThreshold is the largest tolerated spread between any two teams'
// home counts before a warning fires.
const homeAwayGapThreshold = 2

// Validate checks one phase's result against the constraints it was built
// under and emits one issue per violated rule.
func Validate(res Result, c Constraints) []Issue {
	var issues []Issue

	if len(res.Assignments) == 0 {
		issues = append(issues, Issue{
			RuleID:   "empty-phase",
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("phase %s produced no assignments", res.Phase),
		})
	}

	if n := len(res.UnassignedMatchups); n > 0 {
		issues = append(issues, Issue{
			RuleID:   "unassigned-matchups",
			Severity: SeverityError,
			Message:  fmt.Sprintf("%d matchup(s) could not be placed in phase %s", n, res.Phase),
			Details:  map[string]any{"count": n},
		})
	}
	if n := len(res.UnassignedSlots); n > 0 {
		issues = append(issues, Issue{
			RuleID:   "unassigned-slots",
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d slot(s) remain unassigned in phase %s", n, res.Phase),
			Details:  map[string]any{"count": n},
		})
	}

	issues = append(issues, checkWeekCaps(res, c)...)
	if c.NoDoubleHeaders {
		issues = append(issues, checkDoubleheaders(res)...)
	}
	issues = append(issues, checkHomeAwayGap(res)...)

	return issues
}

func checkWeekCaps(res Result, c Constraints) []Issue {
	if c.MaxGamesPerWeek <= 0 {
		return nil
	}

	counts := make(map[teamWeek]int)
	for _, a := range res.Assignments {
		wk, err := timegrid.WeekKeyOf(a.GameDate)
		if err != nil {
			continue
		}
		counts[teamWeek{a.HomeTeamID, wk}]++
		if a.AwayTeamID != "" {
			counts[teamWeek{a.AwayTeamID, wk}]++
		}
	}

	var issues []Issue
	for _, tw := range sortedTeamWeeks(counts) {
		if counts[tw] > c.MaxGamesPerWeek {
			issues = append(issues, Issue{
				RuleID:   "games-per-week-exceeded",
				Severity: SeverityError,
				Message:  fmt.Sprintf("team %s has %d games in %s (cap %d)", tw.team, counts[tw], tw.week, c.MaxGamesPerWeek),
				Details:  map[string]any{"teamId": tw.team, "week": tw.week, "count": counts[tw]},
			})
		}
	}
	return issues
}

func checkDoubleheaders(res Result) []Issue {
	counts := make(map[teamDate]int)
	for _, a := range res.Assignments {
		counts[teamDate{a.HomeTeamID, a.GameDate}]++
		if a.AwayTeamID != "" {
			counts[teamDate{a.AwayTeamID, a.GameDate}]++
		}
	}

	keys := make([]teamDate, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].team != keys[j].team {
			return keys[i].team < keys[j].team
		}
		return keys[i].date < keys[j].date
	})

	var issues []Issue
	for _, td := range keys {
		if counts[td] > 1 {
			issues = append(issues, Issue{
				RuleID:   "doubleheader",
				Severity: SeverityError,
				Message:  fmt.Sprintf("team %s plays %d games on %s", td.team, counts[td], td.date),
				Details:  map[string]any{"teamId": td.team, "gameDate": td.date, "count": counts[td]},
			})
		}
	}
	return issues
}

func checkHomeAwayGap(res Result) []Issue {
	home := make(map[string]int)
	teams := make(map[string]bool)
	for _, a := range res.Assignments {
		teams[a.HomeTeamID] = true
		home[a.HomeTeamID]++
		if a.AwayTeamID != "" {
			teams[a.AwayTeamID] = true
		}
	}
	if len(teams) < 2 {
		return nil
	}

	minHome, maxHome := -1, 0
	for t := range teams {
		h := home[t]
		if minHome < 0 || h < minHome {
			minHome = h
		}
		if h > maxHome {
			maxHome = h
		}
	}
	if maxHome-minHome <= homeAwayGapThreshold {
		return nil
	}
	return []Issue{{
		RuleID:   "home-away-imbalance",
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("home game counts spread from %d to %d across teams", minHome, maxHome),
		Details:  map[string]any{"minHome": minHome, "maxHome": maxHome},
	}}
}

func sortedTeamWeeks(counts map[teamWeek]int) []teamWeek {
	keys := make([]teamWeek, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].team != keys[j].team {
			return keys[i].team < keys[j].team
		}
		return keys[i].week < keys[j].week
	})
	return keys
}
