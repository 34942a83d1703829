package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	qb "github.com/fieldwise/league-scheduler/internal/platform/querybuilder"
)

type RuleRepository struct {
	db *sqlx.DB
}

func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) ListActive(ctx context.Context, leagueID, fieldKey, dateFrom, dateTo string) ([]availability.Rule, error) {
	conditions := []qb.Condition{
		qb.Eq("league_public_id", leagueID),
		qb.Expr("is_active = TRUE"),
		qb.IsNull("deleted_at"),
	}
	if fieldKey != "" {
		conditions = append(conditions, qb.Eq("field_key", fieldKey))
	}
	if dateTo != "" {
		conditions = append(conditions, qb.Expr("starts_on <= ?", dateTo))
	}
	if dateFrom != "" {
		conditions = append(conditions, qb.Expr("ends_on >= ?", dateFrom))
	}

	query, args, err := qb.Select("*").From("availability_rules").
		Where(conditions...).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select availability rules query: %w", err)
	}

	var rows []ruleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, markTransient(fmt.Errorf("select availability rules: %w", err))
	}

	out := make([]availability.Rule, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.Rule{
			ID:          row.PublicID,
			LeagueID:    row.LeaguePublicID,
			FieldKey:    row.FieldKey,
			Division:    row.DivisionCode,
			DivisionIDs: []string(row.DivisionCodes),
			StartsOn:    row.StartsOn,
			EndsOn:      row.EndsOn,
			DaysOfWeek:  []string(row.DaysOfWeek),
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
			Recurrence:  row.Recurrence,
			Timezone:    row.Timezone,
			IsActive:    row.IsActive,
		})
	}

	return out, nil
}

type ExceptionRepository struct {
	db *sqlx.DB
}

func NewExceptionRepository(db *sqlx.DB) *ExceptionRepository {
	return &ExceptionRepository{db: db}
}

func (r *ExceptionRepository) ListByRule(ctx context.Context, ruleID string) ([]availability.Exception, error) {
	query, args, err := qb.Select("*").From("availability_exceptions").
		Where(
			qb.Eq("rule_public_id", ruleID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select availability exceptions query: %w", err)
	}

	var rows []exceptionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, markTransient(fmt.Errorf("select availability exceptions: %w", err))
	}

	out := make([]availability.Exception, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.Exception{
			ID:        row.PublicID,
			RuleID:    row.RulePublicID,
			DateFrom:  row.DateFrom,
			DateTo:    row.DateTo,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Reason:    row.Reason,
		})
	}

	return out, nil
}

type AllocationRepository struct {
	db *sqlx.DB
}

func NewAllocationRepository(db *sqlx.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

func (r *AllocationRepository) ListActiveByField(ctx context.Context, leagueID, fieldKey string) ([]availability.Allocation, error) {
	query, args, err := qb.Select("*").From("field_allocations").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("field_key", fieldKey),
			qb.Expr("is_active = TRUE"),
			qb.IsNull("deleted_at"),
		).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select field allocations query: %w", err)
	}

	var rows []allocationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, markTransient(fmt.Errorf("select field allocations: %w", err))
	}

	out := make([]availability.Allocation, 0, len(rows))
	for _, row := range rows {
		out = append(out, allocationFromRow(row))
	}

	return out, nil
}

func (r *AllocationRepository) InsertBatch(ctx context.Context, allocations []availability.Allocation) error {
	if len(allocations) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return markTransient(fmt.Errorf("begin tx for allocation batch: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertQuery = `
INSERT INTO field_allocations (
    public_id,
    league_public_id,
    scope,
    field_key,
    starts_on,
    ends_on,
    days_of_week,
    start_time,
    end_time,
    slot_type,
    priority_rank,
    is_active
) VALUES (:public_id, :league_public_id, :scope, :field_key, :starts_on, :ends_on, :days_of_week, :start_time, :end_time, :slot_type, :priority_rank, :is_active)
ON CONFLICT (public_id) DO UPDATE SET
    scope = EXCLUDED.scope,
    field_key = EXCLUDED.field_key,
    starts_on = EXCLUDED.starts_on,
    ends_on = EXCLUDED.ends_on,
    days_of_week = EXCLUDED.days_of_week,
    start_time = EXCLUDED.start_time,
    end_time = EXCLUDED.end_time,
    slot_type = EXCLUDED.slot_type,
    priority_rank = EXCLUDED.priority_rank,
    is_active = EXCLUDED.is_active,
    deleted_at = NULL`

	for _, a := range allocations {
		row := allocationToRow(a)
		sqlQuery, args, err := sqlx.Named(insertQuery, map[string]any{
			"public_id":        row.PublicID,
			"league_public_id": row.LeaguePublicID,
			"scope":            row.Scope,
			"field_key":        row.FieldKey,
			"starts_on":        row.StartsOn,
			"ends_on":          row.EndsOn,
			"days_of_week":     row.DaysOfWeek,
			"start_time":       row.StartTime,
			"end_time":         row.EndTime,
			"slot_type":        row.SlotType,
			"priority_rank":    row.PriorityRank,
			"is_active":        row.IsActive,
		})
		if err != nil {
			return fmt.Errorf("bind insert allocation %s query: %w", a.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return markTransient(fmt.Errorf("insert allocation %s: %w", a.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return markTransient(fmt.Errorf("commit allocation batch tx: %w", err))
	}

	return nil
}

func allocationFromRow(row allocationTableModel) availability.Allocation {
	var priority *int
	if row.PriorityRank.Valid {
		p := int(row.PriorityRank.Int64)
		priority = &p
	}

	return availability.Allocation{
		ID:           row.PublicID,
		LeagueID:     row.LeaguePublicID,
		Scope:        row.Scope,
		FieldKey:     row.FieldKey,
		StartsOn:     row.StartsOn,
		EndsOn:       row.EndsOn,
		DaysOfWeek:   []string(row.DaysOfWeek),
		StartTime:    row.StartTime,
		EndTime:      row.EndTime,
		SlotType:     availability.SlotType(row.SlotType),
		PriorityRank: priority,
		IsActive:     row.IsActive,
	}
}

func allocationToRow(a availability.Allocation) allocationTableModel {
	row := allocationTableModel{
		PublicID:       a.ID,
		LeaguePublicID: a.LeagueID,
		Scope:          a.Scope,
		FieldKey:       a.FieldKey,
		StartsOn:       a.StartsOn,
		EndsOn:         a.EndsOn,
		DaysOfWeek:     append(pq.StringArray{}, a.DaysOfWeek...),
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		SlotType:       string(a.SlotType),
		IsActive:       a.IsActive,
	}
	if a.PriorityRank != nil {
		row.PriorityRank.Valid = true
		row.PriorityRank.Int64 = int64(*a.PriorityRank)
	}

	return row
}
