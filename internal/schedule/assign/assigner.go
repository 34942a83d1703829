// Package assign is the scheduling engine: greedy, preference-ordered
// assignment of matchups to slots under per-week caps, doubleheader
// prohibition, home/away balancing, and guest-game reservations.
package assign

import (
	"sort"
	"time"

	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	"github.com/fieldwise/league-scheduler/internal/schedule/matchup"
	"github.com/fieldwise/league-scheduler/internal/schedule/timegrid"
)

// Phase names, each a contiguous date window with its own matchup set.
const (
	PhaseRegular = "RegularSeason"
	PhasePool    = "PoolPlay"
	PhaseBracket = "Bracket"
)

// noPreferredRank sorts slots on non-preferred days after every preferred one.
const noPreferredRank = 1 << 30

// CandidateSlot is a slot offered to the engine, enriched with the plan
// attributes the wizard collected for it.
type CandidateSlot struct {
	SlotID       string
	GameDate     string
	StartTime    string
	EndTime      string
	StartMin     int
	EndMin       int
	FieldKey     string
	SlotType     availability.SlotType
	PriorityRank *int

	weekday time.Weekday
	weekKey string
}

// NewCandidateSlot derives the weekday and ISO week key the engine sorts and
// caps by. An unparsable date is the caller's bug; it surfaces as an error.
func NewCandidateSlot(s slot.Slot, slotType availability.SlotType, priorityRank *int) (CandidateSlot, error) {
	d, err := timegrid.ParseDate(s.GameDate)
	if err != nil {
		return CandidateSlot{}, err
	}
	if slotType == "" {
		slotType = availability.SlotTypeGame
	}
	return CandidateSlot{
		SlotID:       s.ID,
		GameDate:     s.GameDate,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		StartMin:     s.StartMin,
		EndMin:       s.EndMin,
		FieldKey:     s.FieldKey,
		SlotType:     slotType,
		PriorityRank: priorityRank,
		weekday:      d.Weekday(),
		weekKey:      timegrid.WeekKey(d),
	}, nil
}

// WeekKey exposes the precomputed ISO week key.
func (c CandidateSlot) WeekKey() string { return c.weekKey }

// Constraints tunes the greedy loop. Zero MaxGamesPerWeek means unlimited.
type Constraints struct {
	MaxGamesPerWeek           int
	NoDoubleHeaders           bool
	BalanceHomeAway           bool
	ExternalOfferPerWeek      int
	PreferredWeeknights       []string
	StrictPreferredWeeknights bool
}

// GuestAnchor is a preferred (day, time, field) used to pick which slots
// become external offers.
type GuestAnchor struct {
	DayOfWeek string
	StartTime string
	EndTime   string
	FieldKey  string
}

// Counters carries per-team tallies shared across phases of one wizard run,
// so guest-offer reservations and pool play see regular-season load.
type Counters struct {
	Total    map[string]int
	Home     map[string]int
	External map[string]int
	week     map[teamWeek]int
	dates    map[teamDate]bool
}

type teamWeek struct {
	team string
	week string
}

type teamDate struct {
	team string
	date string
}

func NewCounters() *Counters {
	return &Counters{
		Total:    make(map[string]int),
		Home:     make(map[string]int),
		External: make(map[string]int),
		week:     make(map[teamWeek]int),
		dates:    make(map[teamDate]bool),
	}
}

// WeekCount returns how many games the team already has in the ISO week.
func (c *Counters) WeekCount(team, week string) int {
	return c.week[teamWeek{team, week}]
}

func (c *Counters) playedOn(team, date string) bool {
	return c.dates[teamDate{team, date}]
}

func (c *Counters) record(team, date, week string, home bool) {
	c.Total[team]++
	if home {
		c.Home[team]++
	}
	c.week[teamWeek{team, week}]++
	c.dates[teamDate{team, date}] = true
}

// Result is one phase's assignment outcome. The engine never fails on data
// shape; problems surface as warnings and leftover slots/matchups.
type Result struct {
	Phase              string
	Assignments        []slot.Assignment
	UnassignedSlots    []CandidateSlot
	UnassignedMatchups []matchup.Pair
	Warnings           []string
}

// OrderSlots sorts candidates by the engine's deterministic key:
// game/both before practice, ranked before unranked then ascending rank,
// preferred-weeknight rank, then date, start time, field key. When strict
// preferred weeknights are requested, slots on other days are discarded
// before ordering.
func OrderSlots(slots []CandidateSlot, c Constraints) []CandidateSlot {
	prefRank := preferredDayRanks(c.PreferredWeeknights)

	kept := make([]CandidateSlot, 0, len(slots))
	for _, s := range slots {
		if c.StrictPreferredWeeknights && len(prefRank) > 0 {
			if _, ok := prefRank[s.weekday]; !ok {
				continue
			}
		}
		kept = append(kept, s)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if pa, pb := slotTypePriority(a.SlotType), slotTypePriority(b.SlotType); pa != pb {
			return pa < pb
		}
		if ra, rb := rankOrInf(a.PriorityRank), rankOrInf(b.PriorityRank); ra != rb {
			return ra < rb
		}
		if da, db := dayRankOrInf(prefRank, a.weekday), dayRankOrInf(prefRank, b.weekday); da != db {
			return da < db
		}
		if a.GameDate != b.GameDate {
			return a.GameDate < b.GameDate
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.FieldKey < b.FieldKey
	})
	return kept
}

func slotTypePriority(t availability.SlotType) int {
	if t == availability.SlotTypePractice {
		return 1
	}
	return 0
}

func rankOrInf(rank *int) int {
	if rank == nil {
		return noPreferredRank
	}
	return *rank
}

func preferredDayRanks(tokens []string) map[time.Weekday]int {
	out := make(map[time.Weekday]int, len(tokens))
	for i, tok := range tokens {
		if i >= 3 {
			break
		}
		if dow, ok := timegrid.DayIndex(tok); ok {
			if _, dup := out[dow]; !dup {
				out[dow] = i
			}
		}
	}
	return out
}

func dayRankOrInf(ranks map[time.Weekday]int, d time.Weekday) int {
	if r, ok := ranks[d]; ok {
		return r
	}
	return noPreferredRank
}

// ReserveGuestSlots groups slots by ISO week and, per week, reserves the
// best-scoring anchor matches (score < 100) up to perWeek. It returns the
// reserved slots and the remaining pool.
func ReserveGuestSlots(slots []CandidateSlot, primary, secondary *GuestAnchor, perWeek int) (reserved, remaining []CandidateSlot) {
	if perWeek <= 0 || (primary == nil && secondary == nil) {
		return nil, slots
	}

	byWeek := make(map[string][]CandidateSlot)
	weekOrder := make([]string, 0)
	for _, s := range slots {
		if _, seen := byWeek[s.weekKey]; !seen {
			weekOrder = append(weekOrder, s.weekKey)
		}
		byWeek[s.weekKey] = append(byWeek[s.weekKey], s)
	}
	sort.Strings(weekOrder)

	reservedIDs := make(map[string]bool)
	for _, week := range weekOrder {
		weekSlots := byWeek[week]
		scored := make([]struct {
			s     CandidateSlot
			score int
		}, 0, len(weekSlots))
		for _, s := range weekSlots {
			sc := anchorScore(s, primary, secondary)
			if sc < 100 {
				scored = append(scored, struct {
					s     CandidateSlot
					score int
				}{s, sc})
			}
		}
		sort.SliceStable(scored, func(i, j int) bool {
			if scored[i].score != scored[j].score {
				return scored[i].score < scored[j].score
			}
			a, b := scored[i].s, scored[j].s
			if a.GameDate != b.GameDate {
				return a.GameDate < b.GameDate
			}
			if a.StartTime != b.StartTime {
				return a.StartTime < b.StartTime
			}
			return a.FieldKey < b.FieldKey
		})
		for i := 0; i < len(scored) && i < perWeek; i++ {
			reservedIDs[scored[i].s.SlotID] = true
			reserved = append(reserved, scored[i].s)
		}
	}

	for _, s := range slots {
		if !reservedIDs[s.SlotID] {
			remaining = append(remaining, s)
		}
	}
	return reserved, remaining
}

// anchorScore: 0 primary exact (field+day+time), 1 secondary exact, 2 primary
// day/time, 3 secondary day/time, 100 no match.
func anchorScore(s CandidateSlot, primary, secondary *GuestAnchor) int {
	if matchAnchor(s, primary, true) {
		return 0
	}
	if matchAnchor(s, secondary, true) {
		return 1
	}
	if matchAnchor(s, primary, false) {
		return 2
	}
	if matchAnchor(s, secondary, false) {
		return 3
	}
	return 100
}

func matchAnchor(s CandidateSlot, a *GuestAnchor, exactField bool) bool {
	if a == nil {
		return false
	}
	dow, ok := timegrid.DayIndex(a.DayOfWeek)
	if !ok || dow != s.weekday {
		return false
	}
	if a.StartTime != s.StartTime || a.EndTime != s.EndTime {
		return false
	}
	if exactField && !equalFold(a.FieldKey, s.FieldKey) {
		return false
	}
	return true
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// AssignPhase runs the greedy loop for one phase over pre-ordered slots.
// Matchups are consumed FIFO; a matchup that violates the doubleheader bar or
// a week cap rotates to the back, and a slot with no admissible matchup is
// left unassigned with the queue intact.
func AssignPhase(phase string, ordered []CandidateSlot, matchups []matchup.Pair, c Constraints, counters *Counters) Result {
	if counters == nil {
		counters = NewCounters()
	}

	res := Result{Phase: phase}
	queue := make([]matchup.Pair, len(matchups))
	copy(queue, matchups)

	for _, s := range ordered {
		if len(queue) == 0 {
			res.UnassignedSlots = append(res.UnassignedSlots, s)
			continue
		}

		assigned := false
		for rotation := 0; rotation < len(queue); rotation++ {
			m := queue[0]
			if !fits(m, s, c, counters) {
				queue = append(queue[1:], m)
				continue
			}

			home, away := m.HomeTeamID, m.AwayTeamID
			if c.BalanceHomeAway {
				home, away = balancedOrientation(home, away, counters)
			}

			queue = queue[1:]
			counters.record(home, s.GameDate, s.weekKey, true)
			counters.record(away, s.GameDate, s.weekKey, false)
			res.Assignments = append(res.Assignments, slot.Assignment{
				SlotID:     s.SlotID,
				GameDate:   s.GameDate,
				StartTime:  s.StartTime,
				EndTime:    s.EndTime,
				FieldKey:   s.FieldKey,
				HomeTeamID: home,
				AwayTeamID: away,
				Phase:      phase,
			})
			assigned = true
			break
		}
		if !assigned {
			res.UnassignedSlots = append(res.UnassignedSlots, s)
		}
	}

	res.UnassignedMatchups = queue
	return res
}

func fits(m matchup.Pair, s CandidateSlot, c Constraints, counters *Counters) bool {
	if c.NoDoubleHeaders {
		if counters.playedOn(m.HomeTeamID, s.GameDate) || counters.playedOn(m.AwayTeamID, s.GameDate) {
			return false
		}
	}
	if c.MaxGamesPerWeek > 0 {
		if counters.WeekCount(m.HomeTeamID, s.weekKey) >= c.MaxGamesPerWeek {
			return false
		}
		if counters.WeekCount(m.AwayTeamID, s.weekKey) >= c.MaxGamesPerWeek {
			return false
		}
	}
	return true
}

// balancedOrientation keeps or swaps home/away so the side with fewer home
// games hosts, shrinking the spread of per-team home counts. Ties keep the
// builder's orientation.
func balancedOrientation(home, away string, counters *Counters) (string, string) {
	if counters.Home[away] < counters.Home[home] {
		return away, home
	}
	return home, away
}

// BackfillExternalOffers turns leftover and anchor-reserved slots into guest
// games, at most perWeek per ISO week, counting offers already made this run.
// The home team is picked by least external count, then least total, then
// least home count, then team ID; teams at the week cap are skipped.
func BackfillExternalOffers(res *Result, reserved, leftover []CandidateSlot, teams []string, c Constraints, counters *Counters) {
	if c.ExternalOfferPerWeek <= 0 || len(teams) == 0 {
		res.UnassignedSlots = append(res.UnassignedSlots, reserved...)
		return
	}

	perWeek := make(map[string]int)
	for _, a := range res.Assignments {
		if a.IsExternalOffer {
			wk, err := timegrid.WeekKeyOf(a.GameDate)
			if err == nil {
				perWeek[wk]++
			}
		}
	}

	pool := make([]CandidateSlot, 0, len(reserved)+len(leftover))
	pool = append(pool, reserved...)
	pool = append(pool, leftover...)

	var unfilled []CandidateSlot
	for _, s := range pool {
		if perWeek[s.weekKey] >= c.ExternalOfferPerWeek {
			unfilled = append(unfilled, s)
			continue
		}
		home, ok := pickExternalHome(teams, s, c, counters)
		if !ok {
			unfilled = append(unfilled, s)
			continue
		}

		perWeek[s.weekKey]++
		counters.External[home]++
		counters.record(home, s.GameDate, s.weekKey, true)
		res.Assignments = append(res.Assignments, slot.Assignment{
			SlotID:          s.SlotID,
			GameDate:        s.GameDate,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			FieldKey:        s.FieldKey,
			HomeTeamID:      home,
			AwayTeamID:      "",
			IsExternalOffer: true,
			Phase:           res.Phase,
		})
	}
	res.UnassignedSlots = unfilled
}

func pickExternalHome(teams []string, s CandidateSlot, c Constraints, counters *Counters) (string, bool) {
	best := ""
	for _, t := range teams {
		if c.MaxGamesPerWeek > 0 && counters.WeekCount(t, s.weekKey) >= c.MaxGamesPerWeek {
			continue
		}
		if c.NoDoubleHeaders && counters.playedOn(t, s.GameDate) {
			continue
		}
		if best == "" || externalLess(counters, t, best) {
			best = t
		}
	}
	return best, best != ""
}

func externalLess(counters *Counters, a, b string) bool {
	if counters.External[a] != counters.External[b] {
		return counters.External[a] < counters.External[b]
	}
	if counters.Total[a] != counters.Total[b] {
		return counters.Total[a] < counters.Total[b]
	}
	if counters.Home[a] != counters.Home[b] {
		return counters.Home[a] < counters.Home[b]
	}
	return a < b
}

// AssignBracket dequeues matchups into slots in plain slot order, ignoring
// caps: bracket games are fixed placeholders, not load-balanced play.
func AssignBracket(ordered []CandidateSlot, matchups []matchup.Pair) Result {
	res := Result{Phase: PhaseBracket}
	queue := make([]matchup.Pair, len(matchups))
	copy(queue, matchups)

	for _, s := range ordered {
		if len(queue) == 0 {
			res.UnassignedSlots = append(res.UnassignedSlots, s)
			continue
		}
		m := queue[0]
		queue = queue[1:]
		res.Assignments = append(res.Assignments, slot.Assignment{
			SlotID:     s.SlotID,
			GameDate:   s.GameDate,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			FieldKey:   s.FieldKey,
			HomeTeamID: m.HomeTeamID,
			AwayTeamID: m.AwayTeamID,
			Phase:      PhaseBracket,
		})
	}
	res.UnassignedMatchups = queue
	return res
}
