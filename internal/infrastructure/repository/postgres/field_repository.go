package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/league-scheduler/internal/domain/field"
	qb "github.com/fieldwise/league-scheduler/internal/platform/querybuilder"
)

type FieldRepository struct {
	db *sqlx.DB
}

func NewFieldRepository(db *sqlx.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

func (r *FieldRepository) Get(ctx context.Context, leagueID, parkCode, fieldCode string) (field.Field, bool, error) {
	query, args, err := qb.Select("*").From("fields").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("park_code", parkCode),
			qb.Eq("field_code", fieldCode),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return field.Field{}, false, fmt.Errorf("build get field query: %w", err)
	}

	var row fieldTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return field.Field{}, false, nil
		}
		return field.Field{}, false, markTransient(fmt.Errorf("get field: %w", err))
	}

	f, err := fieldFromRow(row)
	if err != nil {
		return field.Field{}, false, err
	}

	return f, true, nil
}

func (r *FieldRepository) ListByLeague(ctx context.Context, leagueID string) ([]field.Field, error) {
	query, args, err := qb.Select("*").From("fields").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("park_code", "field_code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fields query: %w", err)
	}

	var rows []fieldTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, markTransient(fmt.Errorf("select fields: %w", err))
	}

	out := make([]field.Field, 0, len(rows))
	for _, row := range rows {
		f, err := fieldFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	return out, nil
}

func fieldFromRow(row fieldTableModel) (field.Field, error) {
	blackouts, err := unmarshalBlackouts(row.Blackouts)
	if err != nil {
		return field.Field{}, fmt.Errorf("field %s/%s: %w", row.ParkCode, row.FieldCode, err)
	}

	return field.Field{
		LeagueID:    row.LeaguePublicID,
		ParkCode:    row.ParkCode,
		FieldCode:   row.FieldCode,
		ParkName:    row.ParkName,
		FieldName:   row.FieldName,
		DisplayName: row.DisplayName,
		IsActive:    row.IsActive,
		Blackouts:   blackouts,
		Address:     row.Address,
		City:        row.City,
		State:       row.State,
		PostalCode:  row.PostalCode,
	}, nil
}
