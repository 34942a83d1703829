package postgres

import (
	"time"
)

type leagueTableModel struct {
	ID                int64      `db:"id"`
	PublicID          string     `db:"public_id"`
	Name              string     `db:"name"`
	Timezone          string     `db:"timezone"`
	Status            string     `db:"status"`
	Contact           string     `db:"contact"`
	SpringStart       string     `db:"spring_start"`
	SpringEnd         string     `db:"spring_end"`
	FallStart         string     `db:"fall_start"`
	FallEnd           string     `db:"fall_end"`
	GameLengthMinutes int        `db:"game_length_minutes"`
	Blackouts         []byte     `db:"blackouts"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
}

type divisionTableModel struct {
	ID                int64      `db:"id"`
	LeaguePublicID    string     `db:"league_public_id"`
	Code              string     `db:"code"`
	Name              string     `db:"name"`
	IsActive          bool       `db:"is_active"`
	GameLengthMinutes int        `db:"game_length_minutes"`
	Blackouts         []byte     `db:"blackouts"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
}
