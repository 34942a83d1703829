package memory

import (
	"context"
	"sync"

	"github.com/fieldwise/league-scheduler/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	items  map[string]team.Team
	orders []string
}

func teamKey(leagueID, division, teamID string) string {
	return leagueID + "|" + division + "|" + teamID
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	orders := make([]string, 0, len(teams))
	for _, t := range teams {
		key := teamKey(t.LeagueID, t.Division, t.ID)
		items[key] = t
		orders = append(orders, key)
	}

	return &TeamRepository{
		items:  items,
		orders: orders,
	}
}

func (r *TeamRepository) ListByDivision(_ context.Context, leagueID, division string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Team
	for _, key := range r.orders {
		t := r.items[key]
		if t.LeagueID == leagueID && t.Division == division {
			out = append(out, t)
		}
	}

	return out, nil
}

func (r *TeamRepository) Get(_ context.Context, leagueID, division, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamKey(leagueID, division, teamID)]
	if !ok {
		return team.Team{}, false, nil
	}

	return t, true, nil
}
