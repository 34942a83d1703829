package memory

import (
	"context"
	"sync"

	"github.com/fieldwise/league-scheduler/internal/domain/field"
)

type FieldRepository struct {
	mu     sync.RWMutex
	items  map[string]field.Field
	orders []string
}

func fieldKey(leagueID, parkCode, fieldCode string) string {
	return leagueID + "|" + parkCode + "/" + fieldCode
}

func NewFieldRepository(fields []field.Field) *FieldRepository {
	items := make(map[string]field.Field, len(fields))
	orders := make([]string, 0, len(fields))
	for _, f := range fields {
		key := fieldKey(f.LeagueID, f.ParkCode, f.FieldCode)
		items[key] = f
		orders = append(orders, key)
	}

	return &FieldRepository{
		items:  items,
		orders: orders,
	}
}

func (r *FieldRepository) Get(_ context.Context, leagueID, parkCode, fieldCode string) (field.Field, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.items[fieldKey(leagueID, parkCode, fieldCode)]
	if !ok {
		return field.Field{}, false, nil
	}

	return f, true, nil
}

func (r *FieldRepository) ListByLeague(_ context.Context, leagueID string) ([]field.Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []field.Field
	for _, key := range r.orders {
		f := r.items[key]
		if f.LeagueID == leagueID {
			out = append(out, f)
		}
	}

	return out, nil
}
