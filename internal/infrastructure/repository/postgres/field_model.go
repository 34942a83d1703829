package postgres

import (
	"time"
)

type fieldTableModel struct {
	ID             int64      `db:"id"`
	LeaguePublicID string     `db:"league_public_id"`
	ParkCode       string     `db:"park_code"`
	FieldCode      string     `db:"field_code"`
	ParkName       string     `db:"park_name"`
	FieldName      string     `db:"field_name"`
	DisplayName    string     `db:"display_name"`
	IsActive       bool       `db:"is_active"`
	Blackouts      []byte     `db:"blackouts"`
	Address        string     `db:"address"`
	City           string     `db:"city"`
	State          string     `db:"state"`
	PostalCode     string     `db:"postal_code"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}
