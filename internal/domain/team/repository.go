package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByDivision(ctx context.Context, leagueID, division string) ([]Team, error)
	Get(ctx context.Context, leagueID, division, teamID string) (Team, bool, error)
}
