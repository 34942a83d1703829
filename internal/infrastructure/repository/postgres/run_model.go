package postgres

import (
	"time"
)

type scheduleRunTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	LeaguePublicID string     `db:"league_public_id"`
	DivisionCode   string     `db:"division_code"`
	CreatedBy      string     `db:"created_by"`
	DateFrom       string     `db:"date_from"`
	DateTo         string     `db:"date_to"`
	Constraints    []byte     `db:"constraints"`
	Summary        []byte     `db:"summary"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}
