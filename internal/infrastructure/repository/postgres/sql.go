package postgres

import (
	"database/sql"
	"errors"
	"net"

	"github.com/lib/pq"

	"github.com/fieldwise/league-scheduler/internal/platform/resilience"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// markTransient tags connectivity-class failures so callers can distinguish
// them from permanent query errors.
func markTransient(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return errors.Join(resilience.ErrTransient, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08: connection exceptions, class 57: operator intervention
		// (shutdown, crash recovery). Both are retryable from our side.
		switch pqErr.Code.Class() {
		case "08", "57":
			return errors.Join(resilience.ErrTransient, err)
		}
	}

	if errors.Is(err, sql.ErrConnDone) {
		return errors.Join(resilience.ErrTransient, err)
	}

	return err
}
