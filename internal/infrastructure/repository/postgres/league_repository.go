package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/league-scheduler/internal/domain/league"
	qb "github.com/fieldwise/league-scheduler/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.IsNull("deleted_at")).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, markTransient(fmt.Errorf("select leagues: %w", err))
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		l, err := leagueFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, markTransient(fmt.Errorf("get league by id: %w", err))
	}

	l, err := leagueFromRow(row)
	if err != nil {
		return league.League{}, false, err
	}

	return l, true, nil
}

func (r *LeagueRepository) ListDivisions(ctx context.Context, leagueID string) ([]league.Division, error) {
	query, args, err := qb.Select("*").From("divisions").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select divisions query: %w", err)
	}

	var rows []divisionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, markTransient(fmt.Errorf("select divisions: %w", err))
	}

	out := make([]league.Division, 0, len(rows))
	for _, row := range rows {
		d, err := divisionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	return out, nil
}

func (r *LeagueRepository) GetDivision(ctx context.Context, leagueID, code string) (league.Division, bool, error) {
	query, args, err := qb.Select("*").From("divisions").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("code", code),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.Division{}, false, fmt.Errorf("build get division query: %w", err)
	}

	var row divisionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Division{}, false, nil
		}
		return league.Division{}, false, markTransient(fmt.Errorf("get division: %w", err))
	}

	d, err := divisionFromRow(row)
	if err != nil {
		return league.Division{}, false, err
	}

	return d, true, nil
}

func leagueFromRow(row leagueTableModel) (league.League, error) {
	blackouts, err := unmarshalBlackouts(row.Blackouts)
	if err != nil {
		return league.League{}, fmt.Errorf("league %s: %w", row.PublicID, err)
	}

	return league.League{
		ID:       row.PublicID,
		Name:     row.Name,
		Timezone: row.Timezone,
		Status:   league.Status(row.Status),
		Contact:  row.Contact,
		Season: league.SeasonConfig{
			SpringStart:       row.SpringStart,
			SpringEnd:         row.SpringEnd,
			FallStart:         row.FallStart,
			FallEnd:           row.FallEnd,
			GameLengthMinutes: row.GameLengthMinutes,
			Blackouts:         blackouts,
		},
	}, nil
}

func divisionFromRow(row divisionTableModel) (league.Division, error) {
	blackouts, err := unmarshalBlackouts(row.Blackouts)
	if err != nil {
		return league.Division{}, fmt.Errorf("division %s: %w", row.Code, err)
	}

	return league.Division{
		LeagueID:          row.LeaguePublicID,
		Code:              row.Code,
		Name:              row.Name,
		IsActive:          row.IsActive,
		GameLengthMinutes: row.GameLengthMinutes,
		Blackouts:         blackouts,
	}, nil
}
