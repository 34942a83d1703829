package postgres

import (
	"time"

	"github.com/lib/pq"
)

type teamTableModel struct {
	ID                 int64          `db:"id"`
	LeaguePublicID     string         `db:"league_public_id"`
	DivisionCode       string         `db:"division_code"`
	PublicID           string         `db:"public_id"`
	Name               string         `db:"name"`
	PrimaryContact     string         `db:"primary_contact"`
	AssistantCoaches   pq.StringArray `db:"assistant_coaches"`
	OnboardingComplete bool           `db:"onboarding_complete"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
	DeletedAt          *time.Time     `db:"deleted_at"`
}
