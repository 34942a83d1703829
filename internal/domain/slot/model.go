package slot

import (
	"errors"
	"fmt"
	"time"

	"github.com/fieldwise/league-scheduler/internal/domain/league"
)

// Status is the lifecycle state of a slot. Cancelled slots are retained for
// history and excluded from conflict checks and scheduling.
type Status string

const (
	StatusOpen      Status = "Open"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
)

// OfferingAvailable is the offeringTeamId of an availability slot that no
// team has claimed.
const OfferingAvailable = "AVAILABLE"

// ErrVersionConflict is returned by Upsert when the caller's version token no
// longer matches the stored slot.
var ErrVersionConflict = errors.New("slot version conflict")

// Slot is a concrete (fieldKey, gameDate, time range, division) reservation.
type Slot struct {
	ID              string
	LeagueID        string
	Division        string
	GameDate        string
	StartTime       string
	EndTime         string
	StartMin        int
	EndMin          int
	FieldKey        string
	ParkName        string
	FieldName       string
	DisplayName     string
	OfferingTeamID  string
	HomeTeamID      string
	AwayTeamID      string
	IsAvailability  bool
	IsExternalOffer bool
	Status          Status
	ScheduleRunID   string
	GameType        string
	Notes           string
	ConfirmedBy     string
	ConfirmedUTC    time.Time
	CreatedUTC      time.Time
	UpdatedUTC      time.Time
	UpdatedBy       string
}

func (s Slot) Validate() error {
	if !league.ValidID(s.ID) {
		return fmt.Errorf("slot id %q is not a valid identifier", s.ID)
	}
	if !league.ValidID(s.LeagueID) {
		return fmt.Errorf("slot league id %q is not a valid identifier", s.LeagueID)
	}
	if s.StartMin >= s.EndMin {
		return fmt.Errorf("slot %s: start %d must be before end %d", s.ID, s.StartMin, s.EndMin)
	}
	switch s.Status {
	case StatusOpen, StatusConfirmed, StatusCancelled:
	default:
		return fmt.Errorf("slot %s: status %q is not recognized", s.ID, s.Status)
	}
	if s.Status == StatusConfirmed {
		if s.HomeTeamID == "" || s.AwayTeamID == "" {
			return fmt.Errorf("slot %s: confirmed slot must carry both teams", s.ID)
		}
		if s.IsAvailability {
			return fmt.Errorf("slot %s: confirmed slot cannot be an availability slot", s.ID)
		}
	}
	if s.IsAvailability {
		if s.HomeTeamID != "" || s.AwayTeamID != "" {
			return fmt.Errorf("slot %s: availability slot must not carry teams", s.ID)
		}
		if s.OfferingTeamID != OfferingAvailable {
			return fmt.Errorf("slot %s: availability slot must be offered by %q", s.ID, OfferingAvailable)
		}
	}
	return nil
}

// QueryFilter narrows SlotRepository.Query. Zero values mean "any".
type QueryFilter struct {
	Division string
	Status   Status
	FieldKey string
	DateFrom string
	DateTo   string
	PageSize int
	Cursor   string
}

// Assignment is one scheduled pairing produced by the engine. When
// IsExternalOffer is true the away side is a guest team from outside the
// league and AwayTeamID is empty.
type Assignment struct {
	SlotID          string
	GameDate        string
	StartTime       string
	EndTime         string
	FieldKey        string
	HomeTeamID      string
	AwayTeamID      string
	IsExternalOffer bool
	Phase           string
}

// Run records one wizard apply: its inputs, window, and a JSON summary.
type Run struct {
	LeagueID        string
	Division        string
	ID              string
	CreatedBy       string
	CreatedUTC      time.Time
	DateFrom        string
	DateTo          string
	ConstraintsJSON string
	SummaryJSON     string
}
