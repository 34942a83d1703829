// Package matchup generates deterministic matchup lists: round-robin via the
// circle method, repeated and target-count variants, and bracket placeholders.
package matchup

// Pair is one matchup. Home/away carries meaning after rotation even though
// round-robin coverage is over unordered pairs.
type Pair struct {
	HomeTeamID string
	AwayTeamID string
}

// byeSentinel pads odd team counts during circle rotation; pairs containing
// it are dropped from the output.
const byeSentinel = "BYE"

// Seed placeholders for bracket play, resolved once pool play completes.
const (
	Seed1     = "Seed1"
	Seed2     = "Seed2"
	Seed3     = "Seed3"
	Seed4     = "Seed4"
	WinnerSF1 = "WinnerSF1"
	WinnerSF2 = "WinnerSF2"
)

// RoundRobin produces every unordered pair exactly once using the circle
// method: position 0 is fixed, positions 1..n-1 rotate each round, and
// home/away alternates by round parity. Output is round 0's pairs in pairing
// order, then round 1, and so on. For t teams the result has t*(t-1)/2 pairs.
func RoundRobin(teams []string) []Pair {
	if len(teams) < 2 {
		return nil
	}

	padded := make([]string, 0, len(teams)+1)
	padded = append(padded, teams...)
	if len(padded)%2 == 1 {
		padded = append(padded, byeSentinel)
	}
	n := len(padded)

	var out []Pair
	for r := 0; r < n-1; r++ {
		for i := 0; i < n/2; i++ {
			a := circlePosition(padded, r, i)
			b := circlePosition(padded, r, n-1-i)
			if a == byeSentinel || b == byeSentinel {
				continue
			}
			if r%2 == 1 {
				a, b = b, a
			}
			out = append(out, Pair{HomeTeamID: a, AwayTeamID: b})
		}
	}
	return out
}

// circlePosition resolves who sits at position pos in round r. Position 0 is
// pinned; the rest rotate by r.
func circlePosition(padded []string, r, pos int) string {
	if pos == 0 {
		return padded[0]
	}
	n := len(padded)
	return padded[1+((pos-1+r)%(n-1))]
}

// Repeated concatenates enough full round-robins for every team to reach
// gamesPerTeam, swapping home/away on odd repetitions so repeat meetings flip
// venues.
func Repeated(teams []string, gamesPerTeam int) []Pair {
	if len(teams) < 2 || gamesPerTeam < 1 {
		return nil
	}
	opponents := len(teams) - 1
	rounds := (gamesPerTeam + opponents - 1) / opponents

	var out []Pair
	for round := 0; round < rounds; round++ {
		for _, p := range RoundRobin(teams) {
			if round%2 == 1 {
				p.HomeTeamID, p.AwayTeamID = p.AwayTeamID, p.HomeTeamID
			}
			out = append(out, p)
		}
	}
	return out
}

// Target emits pairs from Repeated but only while both sides are below
// gamesPerTeam, stopping once every team has reached the target.
func Target(teams []string, gamesPerTeam int) []Pair {
	if len(teams) < 2 || gamesPerTeam < 1 {
		return nil
	}

	counts := make(map[string]int, len(teams))
	var out []Pair
	for _, p := range Repeated(teams, gamesPerTeam) {
		if counts[p.HomeTeamID] >= gamesPerTeam || counts[p.AwayTeamID] >= gamesPerTeam {
			continue
		}
		counts[p.HomeTeamID]++
		counts[p.AwayTeamID]++
		out = append(out, p)

		done := true
		for _, t := range teams {
			if counts[t] < gamesPerTeam {
				done = false
				break
			}
		}
		if done {
			break
		}
	}
	return out
}

// Bracket returns the fixed semifinal and final placeholders.
func Bracket() []Pair {
	return []Pair{
		{HomeTeamID: Seed1, AwayTeamID: Seed4},
		{HomeTeamID: Seed2, AwayTeamID: Seed3},
		{HomeTeamID: WinnerSF1, AwayTeamID: WinnerSF2},
	}
}
