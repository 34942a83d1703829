package field

import (
	"fmt"
	"strings"

	"github.com/fieldwise/league-scheduler/internal/domain/league"
)

// Field is a playable surface addressed by the composite key parkCode/fieldCode.
type Field struct {
	LeagueID    string
	ParkCode    string
	FieldCode   string
	ParkName    string
	FieldName   string
	DisplayName string
	IsActive    bool
	Blackouts   []league.BlackoutRange
	Address     string
	City        string
	State       string
	PostalCode  string
}

// Key returns the canonical field key used in user-facing strings and indexes.
func (f Field) Key() string {
	return MakeKey(f.ParkCode, f.FieldCode)
}

func MakeKey(parkCode, fieldCode string) string {
	return parkCode + "/" + fieldCode
}

// SplitKey parses a parkCode/fieldCode composite key.
func SplitKey(key string) (parkCode, fieldCode string, err error) {
	parts := strings.SplitN(key, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("field key %q must be parkCode/fieldCode", key)
	}
	if !league.ValidID(parts[0]) || !league.ValidID(parts[1]) {
		return "", "", fmt.Errorf("field key %q contains invalid identifier characters", key)
	}
	return parts[0], parts[1], nil
}

func (f Field) Validate() error {
	if !league.ValidID(f.LeagueID) {
		return fmt.Errorf("field league id %q is not a valid identifier", f.LeagueID)
	}
	if !league.ValidID(f.ParkCode) {
		return fmt.Errorf("park code %q is not a valid identifier", f.ParkCode)
	}
	if !league.ValidID(f.FieldCode) {
		return fmt.Errorf("field code %q is not a valid identifier", f.FieldCode)
	}
	return nil
}
