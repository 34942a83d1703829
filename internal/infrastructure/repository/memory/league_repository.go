package memory

import (
	"context"
	"sync"

	"github.com/fieldwise/league-scheduler/internal/domain/league"
)

type LeagueRepository struct {
	mu        sync.RWMutex
	items     map[string]league.League
	orders    []string
	divisions map[string][]league.Division
}

func NewLeagueRepository(leagues []league.League, divisions []league.Division) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	orders := make([]string, 0, len(leagues))
	for _, l := range leagues {
		items[l.ID] = l
		orders = append(orders, l.ID)
	}

	byLeague := make(map[string][]league.Division)
	for _, d := range divisions {
		byLeague[d.LeagueID] = append(byLeague[d.LeagueID], d)
	}

	return &LeagueRepository{
		items:     items,
		orders:    orders,
		divisions: byLeague,
	}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) ListDivisions(_ context.Context, leagueID string) ([]league.Division, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Division, len(r.divisions[leagueID]))
	copy(out, r.divisions[leagueID])

	return out, nil
}

func (r *LeagueRepository) GetDivision(_ context.Context, leagueID, code string) (league.Division, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.divisions[leagueID] {
		if d.Code == code {
			return d, true, nil
		}
	}

	return league.Division{}, false, nil
}
