package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	qb "github.com/fieldwise/league-scheduler/internal/platform/querybuilder"
)

type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

type scheduleRunInsertModel struct {
	PublicID       string    `db:"public_id"`
	LeaguePublicID string    `db:"league_public_id"`
	DivisionCode   string    `db:"division_code"`
	CreatedBy      string    `db:"created_by"`
	DateFrom       string    `db:"date_from"`
	DateTo         string    `db:"date_to"`
	Constraints    []byte    `db:"constraints"`
	Summary        []byte    `db:"summary"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r *RunRepository) Insert(ctx context.Context, run slot.Run) error {
	query, args, err := qb.InsertModel("schedule_runs", scheduleRunInsertModel{
		PublicID:       run.ID,
		LeaguePublicID: run.LeagueID,
		DivisionCode:   run.Division,
		CreatedBy:      run.CreatedBy,
		DateFrom:       run.DateFrom,
		DateTo:         run.DateTo,
		Constraints:    []byte(run.ConstraintsJSON),
		Summary:        []byte(run.SummaryJSON),
		CreatedAt:      run.CreatedUTC.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert schedule run %s query: %w", run.ID, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return markTransient(fmt.Errorf("insert schedule run %s: %w", run.ID, err))
	}

	return nil
}

func (r *RunRepository) Get(ctx context.Context, leagueID, division, runID string) (slot.Run, bool, error) {
	query, args, err := qb.Select("*").From("schedule_runs").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("division_code", division),
			qb.Eq("public_id", runID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return slot.Run{}, false, fmt.Errorf("build get schedule run query: %w", err)
	}

	var row scheduleRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return slot.Run{}, false, nil
		}
		return slot.Run{}, false, markTransient(fmt.Errorf("get schedule run: %w", err))
	}

	return runFromRow(row), true, nil
}

func (r *RunRepository) ListByDivision(ctx context.Context, leagueID, division string) ([]slot.Run, error) {
	query, args, err := qb.Select("*").From("schedule_runs").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("division_code", division),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at DESC", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select schedule runs query: %w", err)
	}

	var rows []scheduleRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, markTransient(fmt.Errorf("select schedule runs: %w", err))
	}

	out := make([]slot.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, runFromRow(row))
	}

	return out, nil
}

func runFromRow(row scheduleRunTableModel) slot.Run {
	return slot.Run{
		LeagueID:        row.LeaguePublicID,
		Division:        row.DivisionCode,
		ID:              row.PublicID,
		CreatedBy:       row.CreatedBy,
		CreatedUTC:      row.CreatedAt.UTC(),
		DateFrom:        row.DateFrom,
		DateTo:          row.DateTo,
		ConstraintsJSON: string(row.Constraints),
		SummaryJSON:     string(row.Summary),
	}
}
