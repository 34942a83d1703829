package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/fieldwise/league-scheduler/internal/platform/resilience"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("expected sql.ErrNoRows to be not-found")
	}
	if !isNotFound(fmt.Errorf("get slot: %w", sql.ErrNoRows)) {
		t.Fatal("expected wrapped sql.ErrNoRows to be not-found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatal("did not expect arbitrary error to be not-found")
	}
}

func TestMarkTransient(t *testing.T) {
	if markTransient(nil) != nil {
		t.Fatal("expected nil to stay nil")
	}

	connErr := &pq.Error{Code: "08006"}
	if !errors.Is(markTransient(connErr), resilience.ErrTransient) {
		t.Fatal("expected connection-class pq error to be transient")
	}

	queryErr := &pq.Error{Code: "42703"}
	if errors.Is(markTransient(queryErr), resilience.ErrTransient) {
		t.Fatal("did not expect undefined-column error to be transient")
	}

	if !errors.Is(markTransient(sql.ErrConnDone), resilience.ErrTransient) {
		t.Fatal("expected sql.ErrConnDone to be transient")
	}
}
