package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldwise/league-scheduler/internal/domain/field"
	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/domain/team"
)

type LeagueService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	fieldRepo  field.Repository
}

func NewLeagueService(leagueRepo league.Repository, teamRepo team.Repository, fieldRepo field.Repository) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		fieldRepo:  fieldRepo,
	}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.GetLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists || lg.Status == league.StatusDeleted {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return lg, nil
}

func (s *LeagueService) ListDivisions(ctx context.Context, leagueID string) ([]league.Division, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListDivisions")
	defer span.End()

	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}

	divisions, err := s.leagueRepo.ListDivisions(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}

	return divisions, nil
}

func (s *LeagueService) GetDivision(ctx context.Context, leagueID, division string) (league.Division, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.GetDivision")
	defer span.End()

	division = strings.TrimSpace(division)
	if division == "" {
		return league.Division{}, fmt.Errorf("%w: division is required", ErrInvalidInput)
	}

	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return league.Division{}, err
	}

	div, exists, err := s.leagueRepo.GetDivision(ctx, leagueID, division)
	if err != nil {
		return league.Division{}, fmt.Errorf("get division: %w", err)
	}
	if !exists {
		return league.Division{}, fmt.Errorf("%w: division=%s", ErrNotFound, division)
	}

	return div, nil
}

func (s *LeagueService) ListTeams(ctx context.Context, leagueID, division string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListTeams")
	defer span.End()

	if _, err := s.GetDivision(ctx, leagueID, division); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByDivision(ctx, leagueID, division)
	if err != nil {
		return nil, fmt.Errorf("list teams by division: %w", err)
	}

	return teams, nil
}

func (s *LeagueService) ListFields(ctx context.Context, leagueID string) ([]field.Field, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListFields")
	defer span.End()

	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}

	fields, err := s.fieldRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}

	return fields, nil
}
