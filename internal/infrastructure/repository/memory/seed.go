package memory

import (
	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	"github.com/fieldwise/league-scheduler/internal/domain/field"
	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/domain/team"
)

const (
	LeagueIDMaplewood = "maplewood-2025"

	DivisionMajors = "majors"
	DivisionAAA    = "aaa"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:       LeagueIDMaplewood,
			Name:     "Maplewood Youth Baseball",
			Timezone: "America/New_York",
			Status:   league.StatusActive,
			Contact:  "scheduler@maplewoodyouth.example",
			Season: league.SeasonConfig{
				SpringStart:       "2025-04-01",
				SpringEnd:         "2025-06-30",
				FallStart:         "2025-09-01",
				FallEnd:           "2025-10-31",
				GameLengthMinutes: 90,
				Blackouts: []league.BlackoutRange{
					{StartDate: "2025-05-24", EndDate: "2025-05-26", Label: "Memorial Day weekend"},
				},
			},
		},
	}
}

func SeedDivisions() []league.Division {
	return []league.Division{
		{LeagueID: LeagueIDMaplewood, Code: DivisionMajors, Name: "Majors", IsActive: true},
		{LeagueID: LeagueIDMaplewood, Code: DivisionAAA, Name: "AAA", IsActive: true, GameLengthMinutes: 60},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{LeagueID: LeagueIDMaplewood, Division: DivisionMajors, ID: "mw-tigers", Name: "Tigers", PrimaryContact: "tigers@maplewoodyouth.example", OnboardingComplete: true},
		{LeagueID: LeagueIDMaplewood, Division: DivisionMajors, ID: "mw-hawks", Name: "Hawks", PrimaryContact: "hawks@maplewoodyouth.example", OnboardingComplete: true},
		{LeagueID: LeagueIDMaplewood, Division: DivisionMajors, ID: "mw-comets", Name: "Comets", PrimaryContact: "comets@maplewoodyouth.example", OnboardingComplete: true},
		{LeagueID: LeagueIDMaplewood, Division: DivisionMajors, ID: "mw-royals", Name: "Royals", PrimaryContact: "royals@maplewoodyouth.example", OnboardingComplete: true},
		{LeagueID: LeagueIDMaplewood, Division: DivisionAAA, ID: "mw-pirates", Name: "Pirates", PrimaryContact: "pirates@maplewoodyouth.example"},
		{LeagueID: LeagueIDMaplewood, Division: DivisionAAA, ID: "mw-cubs", Name: "Cubs", PrimaryContact: "cubs@maplewoodyouth.example"},
	}
}

func SeedFields() []field.Field {
	return []field.Field{
		{
			LeagueID:    LeagueIDMaplewood,
			ParkCode:    "park-a",
			FieldCode:   "field-1",
			ParkName:    "Ashford Park",
			FieldName:   "Field 1",
			DisplayName: "Ashford Park Field 1",
			IsActive:    true,
			City:        "Maplewood",
			State:       "NJ",
		},
		{
			LeagueID:    LeagueIDMaplewood,
			ParkCode:    "park-a",
			FieldCode:   "field-2",
			ParkName:    "Ashford Park",
			FieldName:   "Field 2",
			DisplayName: "Ashford Park Field 2",
			IsActive:    true,
			City:        "Maplewood",
			State:       "NJ",
			Blackouts: []league.BlackoutRange{
				{StartDate: "2025-04-19", EndDate: "2025-04-19", Label: "Town tournament"},
			},
		},
		{
			LeagueID:    LeagueIDMaplewood,
			ParkCode:    "park-b",
			FieldCode:   "field-1",
			ParkName:    "Birchwood Park",
			FieldName:   "Field 1",
			DisplayName: "Birchwood Park Field 1",
			IsActive:    true,
			City:        "Maplewood",
			State:       "NJ",
		},
	}
}

func SeedAvailabilityRules() []availability.Rule {
	return []availability.Rule{
		{
			ID:         "rule-parka-f1-mon",
			LeagueID:   LeagueIDMaplewood,
			FieldKey:   "park-a/field-1",
			StartsOn:   "2025-04-07",
			EndsOn:     "2025-06-27",
			DaysOfWeek: []string{"Mon"},
			StartTime:  "18:00",
			EndTime:    "21:00",
			Recurrence: availability.RecurrenceWeekly,
			Timezone:   "America/New_York",
			IsActive:   true,
		},
		{
			ID:          "rule-parka-f2-wed",
			LeagueID:    LeagueIDMaplewood,
			FieldKey:    "park-a/field-2",
			DivisionIDs: []string{DivisionMajors},
			StartsOn:    "2025-04-07",
			EndsOn:      "2025-06-27",
			DaysOfWeek:  []string{"Wed"},
			StartTime:   "18:00",
			EndTime:     "20:00",
			Recurrence:  availability.RecurrenceWeekly,
			Timezone:    "America/New_York",
			IsActive:    true,
		},
		{
			ID:         "rule-parkb-f1-sat",
			LeagueID:   LeagueIDMaplewood,
			FieldKey:   "park-b/field-1",
			StartsOn:   "2025-04-05",
			EndsOn:     "2025-06-28",
			DaysOfWeek: []string{"Sat"},
			StartTime:  "09:00",
			EndTime:    "15:00",
			Recurrence: availability.RecurrenceWeekly,
			Timezone:   "America/New_York",
			IsActive:   true,
		},
	}
}

func SeedAvailabilityExceptions() []availability.Exception {
	return []availability.Exception{
		{
			ID:        "exc-parka-f1-apr14",
			RuleID:    "rule-parka-f1-mon",
			DateFrom:  "2025-04-14",
			DateTo:    "2025-04-14",
			StartTime: "18:00",
			EndTime:   "21:00",
			Reason:    "Field maintenance",
		},
	}
}
