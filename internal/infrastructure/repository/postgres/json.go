package postgres

import (
	"fmt"

	sonic "github.com/bytedance/sonic"

	"github.com/fieldwise/league-scheduler/internal/domain/league"
)

type blackoutJSON struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Label     string `json:"label,omitempty"`
}

func marshalBlackouts(ranges []league.BlackoutRange) ([]byte, error) {
	out := make([]blackoutJSON, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, blackoutJSON{StartDate: r.StartDate, EndDate: r.EndDate, Label: r.Label})
	}

	buf, err := sonic.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal blackouts: %w", err)
	}

	return buf, nil
}

func unmarshalBlackouts(raw []byte) ([]league.BlackoutRange, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var rows []blackoutJSON
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal blackouts: %w", err)
	}

	out := make([]league.BlackoutRange, 0, len(rows))
	for _, r := range rows {
		out = append(out, league.BlackoutRange{StartDate: r.StartDate, EndDate: r.EndDate, Label: r.Label})
	}

	return out, nil
}
