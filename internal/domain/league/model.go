package league

import (
	"fmt"
	"regexp"
)

// Status is the lifecycle state of a league.
type Status string

const (
	StatusActive   Status = "Active"
	StatusDisabled Status = "Disabled"
	StatusDeleted  Status = "Deleted"
)

// identifierPattern is the shape every opaque ID in the system must match.
// Path separators, fragments and control characters are disallowed so IDs
// can appear verbatim in composite keys and URLs.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidID reports whether s is an acceptable opaque identifier.
func ValidID(s string) bool {
	return identifierPattern.MatchString(s)
}

// BlackoutRange is an inclusive date range during which no slots may be
// generated or confirmed.
type BlackoutRange struct {
	StartDate string
	EndDate   string
	Label     string
}

// SeasonConfig holds season boundaries and scheduling defaults for a league.
// A division may override GameLengthMinutes and contribute its own blackouts.
type SeasonConfig struct {
	SpringStart       string
	SpringEnd         string
	FallStart         string
	FallEnd           string
	GameLengthMinutes int
	Blackouts         []BlackoutRange
}

// League is the root entity owning divisions, teams, fields, rules and slots.
type League struct {
	ID       string
	Name     string
	Timezone string
	Status   Status
	Contact  string
	Season   SeasonConfig
}

// Division partitions teams, slots and schedule runs within a league.
// GameLengthMinutes overrides the league value when positive; Blackouts are
// unioned with the league and field blackouts.
type Division struct {
	LeagueID          string
	Code              string
	Name              string
	IsActive          bool
	GameLengthMinutes int
	Blackouts         []BlackoutRange
}

func (l League) Validate() error {
	if !ValidID(l.ID) {
		return fmt.Errorf("league id %q is not a valid identifier", l.ID)
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	switch l.Status {
	case StatusActive, StatusDisabled, StatusDeleted:
	default:
		return fmt.Errorf("league status %q is not recognized", l.Status)
	}
	if l.Season.GameLengthMinutes < 1 {
		return fmt.Errorf("league game length must be at least 1 minute")
	}
	return nil
}

func (d Division) Validate() error {
	if !ValidID(d.LeagueID) {
		return fmt.Errorf("division league id %q is not a valid identifier", d.LeagueID)
	}
	if !ValidID(d.Code) {
		return fmt.Errorf("division code %q is not a valid identifier", d.Code)
	}
	return nil
}

// EffectiveGameLength resolves the game length for a division, preferring
// the division override when set.
func EffectiveGameLength(l League, d Division) int {
	if d.GameLengthMinutes > 0 {
		return d.GameLengthMinutes
	}
	return l.Season.GameLengthMinutes
}

// EffectiveBlackouts unions league, division, and field blackout ranges.
func EffectiveBlackouts(l League, d Division, fieldBlackouts []BlackoutRange) []BlackoutRange {
	out := make([]BlackoutRange, 0, len(l.Season.Blackouts)+len(d.Blackouts)+len(fieldBlackouts))
	out = append(out, l.Season.Blackouts...)
	out = append(out, d.Blackouts...)
	out = append(out, fieldBlackouts...)
	return out
}
