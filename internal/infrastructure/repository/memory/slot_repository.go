package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/fieldwise/league-scheduler/internal/domain/slot"
)

type SlotRepository struct {
	mu       sync.RWMutex
	items    map[string]slot.Slot
	orders   []string
	versions map[string]int
}

func slotKey(leagueID, division, slotID string) string {
	return leagueID + "|" + division + "|" + slotID
}

func NewSlotRepository(slots []slot.Slot) *SlotRepository {
	r := &SlotRepository{
		items:    make(map[string]slot.Slot, len(slots)),
		versions: make(map[string]int, len(slots)),
	}
	for _, s := range slots {
		key := slotKey(s.LeagueID, s.Division, s.ID)
		r.items[key] = s
		r.orders = append(r.orders, key)
		r.versions[key] = 1
	}

	return r
}

func versionToken(n int) string {
	return "v" + strconv.Itoa(n)
}

func (r *SlotRepository) Query(_ context.Context, leagueID string, filter slot.QueryFilter) ([]slot.Slot, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []slot.Slot
	for _, key := range r.orders {
		s := r.items[key]
		if s.LeagueID != leagueID {
			continue
		}
		if filter.Division != "" && s.Division != filter.Division {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.FieldKey != "" && !strings.EqualFold(s.FieldKey, filter.FieldKey) {
			continue
		}
		if filter.DateFrom != "" && s.GameDate < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && s.GameDate > filter.DateTo {
			continue
		}
		matched = append(matched, s)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.GameDate != b.GameDate {
			return a.GameDate < b.GameDate
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		if a.FieldKey != b.FieldKey {
			return a.FieldKey < b.FieldKey
		}
		return a.ID < b.ID
	})

	if filter.PageSize <= 0 {
		return matched, "", nil
	}

	offset := 0
	if filter.Cursor != "" {
		n, err := strconv.Atoi(filter.Cursor)
		if err != nil || n < 0 {
			return nil, "", fmt.Errorf("cursor %q is not valid", filter.Cursor)
		}
		offset = n
	}
	if offset >= len(matched) {
		return nil, "", nil
	}

	end := offset + filter.PageSize
	next := ""
	if end < len(matched) {
		next = strconv.Itoa(end)
	} else {
		end = len(matched)
	}

	return matched[offset:end], next, nil
}

func (r *SlotRepository) Get(_ context.Context, leagueID, division, slotID string) (slot.Slot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[slotKey(leagueID, division, slotID)]
	if !ok {
		return slot.Slot{}, false, nil
	}

	return s, true, nil
}

func (r *SlotRepository) Upsert(_ context.Context, s slot.Slot, token string) (slot.Slot, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(s.LeagueID, s.Division, s.ID)
	_, exists := r.items[key]

	if exists {
		if token != versionToken(r.versions[key]) {
			return slot.Slot{}, "", fmt.Errorf("upsert slot %s: %w", s.ID, slot.ErrVersionConflict)
		}
		r.versions[key]++
	} else {
		if token != "" {
			return slot.Slot{}, "", fmt.Errorf("upsert slot %s: %w", s.ID, slot.ErrVersionConflict)
		}
		r.orders = append(r.orders, key)
		r.versions[key] = 1
	}

	r.items[key] = s
	return s, versionToken(r.versions[key]), nil
}

func (r *SlotRepository) Delete(_ context.Context, leagueID, division, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(leagueID, division, slotID)
	if _, ok := r.items[key]; !ok {
		return nil
	}

	delete(r.items, key)
	delete(r.versions, key)
	for i, k := range r.orders {
		if k == key {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}

	return nil
}

func (r *SlotRepository) ListByFieldAndDate(_ context.Context, leagueID, fieldKey, gameDate string) ([]slot.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []slot.Slot
	for _, key := range r.orders {
		s := r.items[key]
		if s.LeagueID == leagueID && strings.EqualFold(s.FieldKey, fieldKey) && s.GameDate == gameDate {
			out = append(out, s)
		}
	}

	return out, nil
}

func (r *SlotRepository) VersionToken(_ context.Context, leagueID, division, slotID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := slotKey(leagueID, division, slotID)
	if _, ok := r.items[key]; !ok {
		return "", nil
	}

	return versionToken(r.versions[key]), nil
}
