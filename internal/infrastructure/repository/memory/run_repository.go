package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fieldwise/league-scheduler/internal/domain/slot"
)

type RunRepository struct {
	mu     sync.RWMutex
	items  map[string]slot.Run
	orders []string
}

func runKey(leagueID, division, runID string) string {
	return leagueID + "|" + division + "|" + runID
}

func NewRunRepository() *RunRepository {
	return &RunRepository{items: make(map[string]slot.Run)}
}

func (r *RunRepository) Insert(_ context.Context, run slot.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := runKey(run.LeagueID, run.Division, run.ID)
	if _, ok := r.items[key]; !ok {
		r.orders = append(r.orders, key)
	}
	r.items[key] = run

	return nil
}

func (r *RunRepository) Get(_ context.Context, leagueID, division, runID string) (slot.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.items[runKey(leagueID, division, runID)]
	if !ok {
		return slot.Run{}, false, nil
	}

	return run, true, nil
}

func (r *RunRepository) ListByDivision(_ context.Context, leagueID, division string) ([]slot.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []slot.Run
	for _, key := range r.orders {
		run := r.items[key]
		if run.LeagueID == leagueID && run.Division == division {
			out = append(out, run)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedUTC.After(out[j].CreatedUTC)
	})

	return out, nil
}
