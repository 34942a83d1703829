package team

import (
	"fmt"

	"github.com/fieldwise/league-scheduler/internal/domain/league"
)

// Team is a roster unit unique within (leagueID, division).
type Team struct {
	LeagueID           string
	Division           string
	ID                 string
	Name               string
	PrimaryContact     string
	AssistantCoaches   []string
	OnboardingComplete bool
}

func (t Team) Validate() error {
	if !league.ValidID(t.LeagueID) {
		return fmt.Errorf("team league id %q is not a valid identifier", t.LeagueID)
	}
	if !league.ValidID(t.Division) {
		return fmt.Errorf("team division %q is not a valid identifier", t.Division)
	}
	if !league.ValidID(t.ID) {
		return fmt.Errorf("team id %q is not a valid identifier", t.ID)
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}
