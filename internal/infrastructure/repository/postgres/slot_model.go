package postgres

import (
	"time"

	"github.com/fieldwise/league-scheduler/internal/domain/slot"
)

type slotTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	LeaguePublicID  string     `db:"league_public_id"`
	DivisionCode    string     `db:"division_code"`
	GameDate        string     `db:"game_date"`
	StartTime       string     `db:"start_time"`
	EndTime         string     `db:"end_time"`
	StartMin        int        `db:"start_min"`
	EndMin          int        `db:"end_min"`
	FieldKey        string     `db:"field_key"`
	ParkName        string     `db:"park_name"`
	FieldName       string     `db:"field_name"`
	DisplayName     string     `db:"display_name"`
	OfferingTeamID  string     `db:"offering_team_id"`
	HomeTeamID      string     `db:"home_team_id"`
	AwayTeamID      string     `db:"away_team_id"`
	IsAvailability  bool       `db:"is_availability"`
	IsExternalOffer bool       `db:"is_external_offer"`
	Status          string     `db:"status"`
	ScheduleRunID   string     `db:"schedule_run_id"`
	GameType        string     `db:"game_type"`
	Notes           string     `db:"notes"`
	ConfirmedBy     string     `db:"confirmed_by"`
	ConfirmedAt     *time.Time `db:"confirmed_at"`
	Version         int        `db:"version"`
	UpdatedBy       string     `db:"updated_by"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

func slotFromRow(row slotTableModel) slot.Slot {
	s := slot.Slot{
		ID:              row.PublicID,
		LeagueID:        row.LeaguePublicID,
		Division:        row.DivisionCode,
		GameDate:        row.GameDate,
		StartTime:       row.StartTime,
		EndTime:         row.EndTime,
		StartMin:        row.StartMin,
		EndMin:          row.EndMin,
		FieldKey:        row.FieldKey,
		ParkName:        row.ParkName,
		FieldName:       row.FieldName,
		DisplayName:     row.DisplayName,
		OfferingTeamID:  row.OfferingTeamID,
		HomeTeamID:      row.HomeTeamID,
		AwayTeamID:      row.AwayTeamID,
		IsAvailability:  row.IsAvailability,
		IsExternalOffer: row.IsExternalOffer,
		Status:          slot.Status(row.Status),
		ScheduleRunID:   row.ScheduleRunID,
		GameType:        row.GameType,
		Notes:           row.Notes,
		ConfirmedBy:     row.ConfirmedBy,
		CreatedUTC:      row.CreatedAt.UTC(),
		UpdatedUTC:      row.UpdatedAt.UTC(),
		UpdatedBy:       row.UpdatedBy,
	}
	if row.ConfirmedAt != nil {
		s.ConfirmedUTC = row.ConfirmedAt.UTC()
	}

	return s
}
