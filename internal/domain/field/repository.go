package field

import "context"

// Repository describes field persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, leagueID, parkCode, fieldCode string) (Field, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Field, error)
}
