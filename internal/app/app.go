package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fieldwise/league-scheduler/internal/config"
	"github.com/fieldwise/league-scheduler/internal/domain/availability"
	"github.com/fieldwise/league-scheduler/internal/domain/field"
	"github.com/fieldwise/league-scheduler/internal/domain/league"
	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	"github.com/fieldwise/league-scheduler/internal/domain/team"
	"github.com/fieldwise/league-scheduler/internal/infrastructure/account/clubhouse"
	"github.com/fieldwise/league-scheduler/internal/infrastructure/repository/memory"
	"github.com/fieldwise/league-scheduler/internal/infrastructure/repository/postgres"
	"github.com/fieldwise/league-scheduler/internal/interfaces/httpapi"
	idgen "github.com/fieldwise/league-scheduler/internal/platform/id"
	"github.com/fieldwise/league-scheduler/internal/platform/logging"
	"github.com/fieldwise/league-scheduler/internal/platform/resilience"
	"github.com/fieldwise/league-scheduler/internal/usecase"
)

type repositories struct {
	league     league.Repository
	team       team.Repository
	field      field.Repository
	rule       availability.RuleRepository
	exception  availability.ExceptionRepository
	allocation availability.AllocationRepository
	slot       slot.Repository
	run        slot.RunRepository
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ids := idgen.NewRandomGenerator()
	slogger := logger.Slog()

	leagueSvc := usecase.NewLeagueService(repos.league, repos.team, repos.field)
	slotSvc := usecase.NewSlotService(repos.league, repos.slot)
	generationSvc := usecase.NewSlotGenerationService(
		repos.league,
		repos.field,
		repos.rule,
		repos.exception,
		repos.allocation,
		repos.slot,
		ids,
	)
	wizardSvc := usecase.NewWizardService(repos.league, repos.team, repos.slot, repos.run, ids)

	principalTTL := cfg.CacheTTL
	if !cfg.CacheEnabled {
		principalTTL = -1
	}

	verifier := clubhouse.NewClient(
		&http.Client{
			Timeout:   cfg.ClubhouseTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg.ClubhouseBaseURL,
		cfg.ClubhouseIntrospectPath,
		cfg.ClubhouseAdminKey,
		principalTTL,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.ClubhouseCircuitEnabled,
			FailureThreshold: cfg.ClubhouseCircuitFailureCount,
			OpenTimeout:      cfg.ClubhouseCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ClubhouseCircuitHalfOpenMaxReq,
		},
		slogger,
	)

	handler := httpapi.NewHandler(leagueSvc, slotSvc, generationSvc, wizardSvc, slogger)
	router := httpapi.NewRouter(handler, verifier, slogger, cfg.CORSAllowedOrigins, cfg.ImportToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		return buildPostgresRepositories(ctx, cfg, logger)
	default:
		return buildMemoryRepositories(cfg, logger), nil
	}
}

func buildMemoryRepositories(cfg config.Config, logger *logging.Logger) repositories {
	var (
		leagues    []league.League
		divisions  []league.Division
		teams      []team.Team
		fields     []field.Field
		rules      []availability.Rule
		exceptions []availability.Exception
	)
	if cfg.SeedDemoData {
		leagues = memory.SeedLeagues()
		divisions = memory.SeedDivisions()
		teams = memory.SeedTeams()
		fields = memory.SeedFields()
		rules = memory.SeedAvailabilityRules()
		exceptions = memory.SeedAvailabilityExceptions()
		logger.Info("memory store seeded with demo league", "leagues", len(leagues))
	}

	return repositories{
		league:     memory.NewLeagueRepository(leagues, divisions),
		team:       memory.NewTeamRepository(teams),
		field:      memory.NewFieldRepository(fields),
		rule:       memory.NewRuleRepository(rules),
		exception:  memory.NewExceptionRepository(exceptions),
		allocation: memory.NewAllocationRepository(nil),
		slot:       memory.NewSlotRepository(nil),
		run:        memory.NewRunRepository(),
	}
}

func buildPostgresRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
	if err != nil {
		return repositories{}, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("postgres connected", "database", dbNameFromURL(cfg.DBURL))

	if cfg.SeedDemoData {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	return repositories{
		league:     postgres.NewLeagueRepository(db),
		team:       postgres.NewTeamRepository(db),
		field:      postgres.NewFieldRepository(db),
		rule:       postgres.NewRuleRepository(db),
		exception:  postgres.NewExceptionRepository(db),
		allocation: postgres.NewAllocationRepository(db),
		slot:       postgres.NewSlotRepository(db),
		run:        postgres.NewRunRepository(db),
	}, nil
}
