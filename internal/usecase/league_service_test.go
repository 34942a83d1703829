package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/infrastructure/repository/memory"
)

func newLeagueFixture(leagues []league.League, divisions []league.Division) *LeagueService {
	return NewLeagueService(
		memory.NewLeagueRepository(leagues, divisions),
		memory.NewTeamRepository(testTeams()),
		memory.NewFieldRepository(testFields()),
	)
}

func TestListLeagues(t *testing.T) {
	svc := newLeagueFixture(testLeagues(), testDivisions())

	leagues, err := svc.ListLeagues(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(leagues) != 1 || leagues[0].ID != testLeague {
		t.Fatalf("unexpected leagues: %+v", leagues)
	}
}

func TestGetLeagueHidesDeleted(t *testing.T) {
	deleted := testLeagues()
	deleted[0].Status = league.StatusDeleted
	svc := newLeagueFixture(deleted, testDivisions())

	_, err := svc.GetLeague(context.Background(), testLeague)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for deleted league, got %v", err)
	}
}

func TestGetDivision(t *testing.T) {
	svc := newLeagueFixture(testLeagues(), testDivisions())
	ctx := context.Background()

	div, err := svc.GetDivision(ctx, testLeague, testDivision)
	if err != nil {
		t.Fatalf("get division: %v", err)
	}
	if div.Code != testDivision {
		t.Fatalf("unexpected division: %+v", div)
	}

	if _, err := svc.GetDivision(ctx, testLeague, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListTeamsByDivision(t *testing.T) {
	svc := newLeagueFixture(testLeagues(), testDivisions())

	teams, err := svc.ListTeams(context.Background(), testLeague, testDivision)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 4 {
		t.Fatalf("expected 4 teams, got %d", len(teams))
	}
}

func TestListFieldsRequiresLeague(t *testing.T) {
	svc := newLeagueFixture(testLeagues(), testDivisions())
	ctx := context.Background()

	fields, err := svc.ListFields(ctx, testLeague)
	if err != nil {
		t.Fatalf("list fields: %v", err)
	}
	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if _, err := svc.ListFields(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
