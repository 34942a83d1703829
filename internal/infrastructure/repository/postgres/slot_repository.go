package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	qb "github.com/fieldwise/league-scheduler/internal/platform/querybuilder"
)

type SlotRepository struct {
	db *sqlx.DB
}

func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func versionToken(n int) string {
	return "v" + strconv.Itoa(n)
}

func (r *SlotRepository) Query(ctx context.Context, leagueID string, filter slot.QueryFilter) ([]slot.Slot, string, error) {
	conditions := []qb.Condition{
		qb.Eq("league_public_id", leagueID),
		qb.IsNull("deleted_at"),
	}
	if filter.Division != "" {
		conditions = append(conditions, qb.Eq("division_code", filter.Division))
	}
	if filter.Status != "" {
		conditions = append(conditions, qb.Eq("status", string(filter.Status)))
	}
	if filter.FieldKey != "" {
		conditions = append(conditions, qb.Expr("LOWER(field_key) = LOWER(?)", filter.FieldKey))
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, qb.Expr("game_date >= ?", filter.DateFrom))
	}
	if filter.DateTo != "" {
		conditions = append(conditions, qb.Expr("game_date <= ?", filter.DateTo))
	}

	builder := qb.Select("*").From("slots").
		Where(conditions...).
		OrderBy("game_date", "start_time", "field_key", "public_id")

	offset := 0
	if filter.PageSize > 0 {
		if filter.Cursor != "" {
			n, err := strconv.Atoi(filter.Cursor)
			if err != nil || n < 0 {
				return nil, "", fmt.Errorf("cursor %q is not valid", filter.Cursor)
			}
			offset = n
		}
		// One extra row tells us whether another page exists.
		builder = builder.Limit(filter.PageSize + 1)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, "", fmt.Errorf("build select slots query: %w", err)
	}
	if offset > 0 {
		query += " OFFSET " + strconv.Itoa(offset)
	}

	var rows []slotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, "", markTransient(fmt.Errorf("select slots: %w", err))
	}

	next := ""
	if filter.PageSize > 0 && len(rows) > filter.PageSize {
		rows = rows[:filter.PageSize]
		next = strconv.Itoa(offset + filter.PageSize)
	}

	out := make([]slot.Slot, 0, len(rows))
	for _, row := range rows {
		out = append(out, slotFromRow(row))
	}

	return out, next, nil
}

func (r *SlotRepository) Get(ctx context.Context, leagueID, division, slotID string) (slot.Slot, bool, error) {
	row, found, err := r.getRow(ctx, r.db, leagueID, division, slotID)
	if err != nil || !found {
		return slot.Slot{}, false, err
	}

	return slotFromRow(row), true, nil
}

func (r *SlotRepository) Upsert(ctx context.Context, s slot.Slot, token string) (slot.Slot, string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return slot.Slot{}, "", markTransient(fmt.Errorf("begin tx for slot upsert: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const lockQuery = `
SELECT version
FROM slots
WHERE league_public_id = $1
  AND division_code = $2
  AND public_id = $3
  AND deleted_at IS NULL
FOR UPDATE`

	var currentVersion int
	err = tx.GetContext(ctx, &currentVersion, lockQuery, s.LeagueID, s.Division, s.ID)
	exists := err == nil
	if err != nil && !isNotFound(err) {
		return slot.Slot{}, "", markTransient(fmt.Errorf("lock slot %s: %w", s.ID, err))
	}

	var newVersion int
	if exists {
		if token != versionToken(currentVersion) {
			return slot.Slot{}, "", fmt.Errorf("upsert slot %s: %w", s.ID, slot.ErrVersionConflict)
		}
		newVersion = currentVersion + 1
		if err := r.updateRow(ctx, tx, s, newVersion); err != nil {
			return slot.Slot{}, "", err
		}
	} else {
		if token != "" {
			return slot.Slot{}, "", fmt.Errorf("upsert slot %s: %w", s.ID, slot.ErrVersionConflict)
		}
		newVersion = 1
		if err := r.insertRow(ctx, tx, s, newVersion); err != nil {
			return slot.Slot{}, "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return slot.Slot{}, "", markTransient(fmt.Errorf("commit slot upsert tx: %w", err))
	}

	return s, versionToken(newVersion), nil
}

func (r *SlotRepository) Delete(ctx context.Context, leagueID, division, slotID string) error {
	const query = `
UPDATE slots
SET deleted_at = NOW()
WHERE league_public_id = $1
  AND division_code = $2
  AND public_id = $3
  AND deleted_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, leagueID, division, slotID); err != nil {
		return markTransient(fmt.Errorf("delete slot %s: %w", slotID, err))
	}

	return nil
}

func (r *SlotRepository) ListByFieldAndDate(ctx context.Context, leagueID, fieldKey, gameDate string) ([]slot.Slot, error) {
	query, args, err := qb.Select("*").From("slots").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Expr("LOWER(field_key) = LOWER(?)", fieldKey),
			qb.Eq("game_date", gameDate),
			qb.IsNull("deleted_at"),
		).
		OrderBy("start_time", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select slots by field and date query: %w", err)
	}

	var rows []slotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, markTransient(fmt.Errorf("select slots by field and date: %w", err))
	}

	out := make([]slot.Slot, 0, len(rows))
	for _, row := range rows {
		out = append(out, slotFromRow(row))
	}

	return out, nil
}

func (r *SlotRepository) VersionToken(ctx context.Context, leagueID, division, slotID string) (string, error) {
	const query = `
SELECT version
FROM slots
WHERE league_public_id = $1
  AND division_code = $2
  AND public_id = $3
  AND deleted_at IS NULL`

	var version int
	if err := r.db.GetContext(ctx, &version, query, leagueID, division, slotID); err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", markTransient(fmt.Errorf("get slot version: %w", err))
	}

	return versionToken(version), nil
}

func (r *SlotRepository) getRow(ctx context.Context, q sqlx.QueryerContext, leagueID, division, slotID string) (slotTableModel, bool, error) {
	query, args, err := qb.Select("*").From("slots").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("division_code", division),
			qb.Eq("public_id", slotID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return slotTableModel{}, false, fmt.Errorf("build get slot query: %w", err)
	}

	var row slotTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return slotTableModel{}, false, nil
		}
		return slotTableModel{}, false, markTransient(fmt.Errorf("get slot: %w", err))
	}

	return row, true, nil
}

func slotNamedArgs(s slot.Slot, version int) map[string]any {
	var confirmedAt any
	if !s.ConfirmedUTC.IsZero() {
		confirmedAt = s.ConfirmedUTC.UTC()
	}

	return map[string]any{
		"public_id":         s.ID,
		"league_public_id":  s.LeagueID,
		"division_code":     s.Division,
		"game_date":         s.GameDate,
		"start_time":        s.StartTime,
		"end_time":          s.EndTime,
		"start_min":         s.StartMin,
		"end_min":           s.EndMin,
		"field_key":         s.FieldKey,
		"park_name":         s.ParkName,
		"field_name":        s.FieldName,
		"display_name":      s.DisplayName,
		"offering_team_id":  s.OfferingTeamID,
		"home_team_id":      s.HomeTeamID,
		"away_team_id":      s.AwayTeamID,
		"is_availability":   s.IsAvailability,
		"is_external_offer": s.IsExternalOffer,
		"status":            string(s.Status),
		"schedule_run_id":   s.ScheduleRunID,
		"game_type":         s.GameType,
		"notes":             s.Notes,
		"confirmed_by":      s.ConfirmedBy,
		"confirmed_at":      confirmedAt,
		"version":           version,
		"updated_by":        s.UpdatedBy,
	}
}

func (r *SlotRepository) insertRow(ctx context.Context, tx *sqlx.Tx, s slot.Slot, version int) error {
	const query = `
INSERT INTO slots (
    public_id, league_public_id, division_code,
    game_date, start_time, end_time, start_min, end_min,
    field_key, park_name, field_name, display_name,
    offering_team_id, home_team_id, away_team_id,
    is_availability, is_external_offer, status,
    schedule_run_id, game_type, notes,
    confirmed_by, confirmed_at, version, updated_by
) VALUES (
    :public_id, :league_public_id, :division_code,
    :game_date, :start_time, :end_time, :start_min, :end_min,
    :field_key, :park_name, :field_name, :display_name,
    :offering_team_id, :home_team_id, :away_team_id,
    :is_availability, :is_external_offer, :status,
    :schedule_run_id, :game_type, :notes,
    :confirmed_by, :confirmed_at, :version, :updated_by
)`

	sqlQuery, args, err := sqlx.Named(query, slotNamedArgs(s, version))
	if err != nil {
		return fmt.Errorf("bind insert slot %s query: %w", s.ID, err)
	}
	sqlQuery = tx.Rebind(sqlQuery)
	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return markTransient(fmt.Errorf("insert slot %s: %w", s.ID, err))
	}

	return nil
}

func (r *SlotRepository) updateRow(ctx context.Context, tx *sqlx.Tx, s slot.Slot, version int) error {
	const query = `
UPDATE slots
SET game_date = :game_date,
    start_time = :start_time,
    end_time = :end_time,
    start_min = :start_min,
    end_min = :end_min,
    field_key = :field_key,
    park_name = :park_name,
    field_name = :field_name,
    display_name = :display_name,
    offering_team_id = :offering_team_id,
    home_team_id = :home_team_id,
    away_team_id = :away_team_id,
    is_availability = :is_availability,
    is_external_offer = :is_external_offer,
    status = :status,
    schedule_run_id = :schedule_run_id,
    game_type = :game_type,
    notes = :notes,
    confirmed_by = :confirmed_by,
    confirmed_at = :confirmed_at,
    version = :version,
    updated_by = :updated_by,
    updated_at = NOW()
WHERE league_public_id = :league_public_id
  AND division_code = :division_code
  AND public_id = :public_id
  AND deleted_at IS NULL`

	sqlQuery, args, err := sqlx.Named(query, slotNamedArgs(s, version))
	if err != nil {
		return fmt.Errorf("bind update slot %s query: %w", s.ID, err)
	}
	sqlQuery = tx.Rebind(sqlQuery)
	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return markTransient(fmt.Errorf("update slot %s: %w", s.ID, err))
	}

	return nil
}
