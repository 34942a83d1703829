package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	ListDivisions(ctx context.Context, leagueID string) ([]Division, error)
	GetDivision(ctx context.Context, leagueID, code string) (Division, bool, error)
}
