package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fieldwise/league-scheduler/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo league into an empty database. A database that
// already holds a league is left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues WHERE deleted_at IS NULL`); err != nil {
		return markTransient(fmt.Errorf("count leagues for bootstrap seed: %w", err))
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return markTransient(fmt.Errorf("begin seed tx: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, l := range memory.SeedLeagues() {
		blackouts, err := marshalBlackouts(l.Season.Blackouts)
		if err != nil {
			return fmt.Errorf("seed league %s: %w", l.ID, err)
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO leagues (public_id, name, timezone, status, contact, spring_start, spring_end, fall_start, fall_end, game_length_minutes, blackouts)
VALUES (:public_id, :name, :timezone, :status, :contact, :spring_start, :spring_end, :fall_start, :fall_end, :game_length_minutes, :blackouts)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":           l.ID,
			"name":                l.Name,
			"timezone":            l.Timezone,
			"status":              string(l.Status),
			"contact":             l.Contact,
			"spring_start":        l.Season.SpringStart,
			"spring_end":          l.Season.SpringEnd,
			"fall_start":          l.Season.FallStart,
			"fall_end":            l.Season.FallEnd,
			"game_length_minutes": l.Season.GameLengthMinutes,
			"blackouts":           blackouts,
		})
		if err != nil {
			return fmt.Errorf("bind seed league %s query: %w", l.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return markTransient(fmt.Errorf("seed league %s: %w", l.ID, err))
		}
	}

	for _, d := range memory.SeedDivisions() {
		blackouts, err := marshalBlackouts(d.Blackouts)
		if err != nil {
			return fmt.Errorf("seed division %s: %w", d.Code, err)
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO divisions (league_public_id, code, name, is_active, game_length_minutes, blackouts)
VALUES (:league_public_id, :code, :name, :is_active, :game_length_minutes, :blackouts)
ON CONFLICT (league_public_id, code) DO NOTHING`, map[string]any{
			"league_public_id":    d.LeagueID,
			"code":                d.Code,
			"name":                d.Name,
			"is_active":           d.IsActive,
			"game_length_minutes": d.GameLengthMinutes,
			"blackouts":           blackouts,
		})
		if err != nil {
			return fmt.Errorf("bind seed division %s query: %w", d.Code, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return markTransient(fmt.Errorf("seed division %s: %w", d.Code, err))
		}
	}

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (league_public_id, division_code, public_id, name, primary_contact, assistant_coaches, onboarding_complete)
VALUES (:league_public_id, :division_code, :public_id, :name, :primary_contact, :assistant_coaches, :onboarding_complete)
ON CONFLICT (league_public_id, division_code, public_id) DO NOTHING`, map[string]any{
			"league_public_id":    t.LeagueID,
			"division_code":       t.Division,
			"public_id":           t.ID,
			"name":                t.Name,
			"primary_contact":     t.PrimaryContact,
			"assistant_coaches":   append(pq.StringArray{}, t.AssistantCoaches...),
			"onboarding_complete": t.OnboardingComplete,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return markTransient(fmt.Errorf("seed team %s: %w", t.ID, err))
		}
	}

	for _, f := range memory.SeedFields() {
		blackouts, err := marshalBlackouts(f.Blackouts)
		if err != nil {
			return fmt.Errorf("seed field %s: %w", f.Key(), err)
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO fields (league_public_id, park_code, field_code, park_name, field_name, display_name, is_active, blackouts, address, city, state, postal_code)
VALUES (:league_public_id, :park_code, :field_code, :park_name, :field_name, :display_name, :is_active, :blackouts, :address, :city, :state, :postal_code)
ON CONFLICT (league_public_id, park_code, field_code) DO NOTHING`, map[string]any{
			"league_public_id": f.LeagueID,
			"park_code":        f.ParkCode,
			"field_code":       f.FieldCode,
			"park_name":        f.ParkName,
			"field_name":       f.FieldName,
			"display_name":     f.DisplayName,
			"is_active":        f.IsActive,
			"blackouts":        blackouts,
			"address":          f.Address,
			"city":             f.City,
			"state":            f.State,
			"postal_code":      f.PostalCode,
		})
		if err != nil {
			return fmt.Errorf("bind seed field %s query: %w", f.Key(), err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return markTransient(fmt.Errorf("seed field %s: %w", f.Key(), err))
		}
	}

	for _, r := range memory.SeedAvailabilityRules() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO availability_rules (public_id, league_public_id, field_key, division_code, division_codes, starts_on, ends_on, days_of_week, start_time, end_time, recurrence, timezone, is_active)
VALUES (:public_id, :league_public_id, :field_key, :division_code, :division_codes, :starts_on, :ends_on, :days_of_week, :start_time, :end_time, :recurrence, :timezone, :is_active)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":        r.ID,
			"league_public_id": r.LeagueID,
			"field_key":        r.FieldKey,
			"division_code":    r.Division,
			"division_codes":   append(pq.StringArray{}, r.DivisionIDs...),
			"starts_on":        r.StartsOn,
			"ends_on":          r.EndsOn,
			"days_of_week":     append(pq.StringArray{}, r.DaysOfWeek...),
			"start_time":       r.StartTime,
			"end_time":         r.EndTime,
			"recurrence":       r.Recurrence,
			"timezone":         r.Timezone,
			"is_active":        r.IsActive,
		})
		if err != nil {
			return fmt.Errorf("bind seed rule %s query: %w", r.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return markTransient(fmt.Errorf("seed rule %s: %w", r.ID, err))
		}
	}

	for _, e := range memory.SeedAvailabilityExceptions() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO availability_exceptions (public_id, rule_public_id, date_from, date_to, start_time, end_time, reason)
VALUES (:public_id, :rule_public_id, :date_from, :date_to, :start_time, :end_time, :reason)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":      e.ID,
			"rule_public_id": e.RuleID,
			"date_from":      e.DateFrom,
			"date_to":        e.DateTo,
			"start_time":     e.StartTime,
			"end_time":       e.EndTime,
			"reason":         e.Reason,
		})
		if err != nil {
			return fmt.Errorf("bind seed exception %s query: %w", e.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return markTransient(fmt.Errorf("seed exception %s: %w", e.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return markTransient(fmt.Errorf("commit seed tx: %w", err))
	}

	return nil
}
