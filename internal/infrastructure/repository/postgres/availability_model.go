package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type ruleTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	LeaguePublicID string         `db:"league_public_id"`
	FieldKey       string         `db:"field_key"`
	DivisionCode   string         `db:"division_code"`
	DivisionCodes  pq.StringArray `db:"division_codes"`
	StartsOn       string         `db:"starts_on"`
	EndsOn         string         `db:"ends_on"`
	DaysOfWeek     pq.StringArray `db:"days_of_week"`
	StartTime      string         `db:"start_time"`
	EndTime        string         `db:"end_time"`
	Recurrence     string         `db:"recurrence"`
	Timezone       string         `db:"timezone"`
	IsActive       bool           `db:"is_active"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type exceptionTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	RulePublicID string     `db:"rule_public_id"`
	DateFrom     string     `db:"date_from"`
	DateTo       string     `db:"date_to"`
	StartTime    string     `db:"start_time"`
	EndTime      string     `db:"end_time"`
	Reason       string     `db:"reason"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type allocationTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	LeaguePublicID string         `db:"league_public_id"`
	Scope          string         `db:"scope"`
	FieldKey       string         `db:"field_key"`
	StartsOn       string         `db:"starts_on"`
	EndsOn         string         `db:"ends_on"`
	DaysOfWeek     pq.StringArray `db:"days_of_week"`
	StartTime      string         `db:"start_time"`
	EndTime        string         `db:"end_time"`
	SlotType       string         `db:"slot_type"`
	PriorityRank   sql.NullInt64  `db:"priority_rank"`
	IsActive       bool           `db:"is_active"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}
