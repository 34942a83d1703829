package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldwise/league-scheduler/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.AppEnv)
	assert.Equal(t, "league-scheduler-api", cfg.ServiceName)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.True(t, cfg.SeedDemoData)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "/v1/auth/introspect", cfg.ClubhouseIntrospectPath)
	assert.Equal(t, 3*time.Second, cfg.ClubhouseTimeout)
	assert.True(t, cfg.ClubhouseCircuitEnabled)
	assert.Equal(t, 5, cfg.ClubhouseCircuitFailureCount)
	assert.Equal(t, 15*time.Second, cfg.ClubhouseCircuitOpenTimeout)
	assert.Equal(t, 2, cfg.ClubhouseCircuitHalfOpenMaxReq)
	assert.Empty(t, cfg.ImportToken)
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "stage")
	t.Setenv("APP_SERVICE_NAME", "scheduler-stage")
	t.Setenv("APP_HTTP_ADDR", ":9090")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://scheduler:secret@db:5432/league?sslmode=require")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://scheduler.fieldwise.example, https://admin.fieldwise.example")
	t.Setenv("CLUBHOUSE_ADMIN_KEY", "admin-key")
	t.Setenv("CLUBHOUSE_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("IMPORT_TOKEN", " parks-feed-token ")
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvStage, cfg.AppEnv)
	assert.Equal(t, "scheduler-stage", cfg.ServiceName)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://scheduler:secret@db:5432/league?sslmode=require", cfg.DBURL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"https://scheduler.fieldwise.example", "https://admin.fieldwise.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "admin-key", cfg.ClubhouseAdminKey)
	assert.Equal(t, 3, cfg.ClubhouseCircuitFailureCount)
	assert.Equal(t, "parks-feed-token", cfg.ImportToken)
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel)
}

func TestLoad_SeedDefaultPerEnv(t *testing.T) {
	t.Run("prod disables seed by default", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.SeedDemoData)
	})

	t.Run("prod can opt in", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("SEED_DEMO_DATA", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.SeedDemoData)
	})
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad app env", key: "APP_ENV", value: "qa"},
		{name: "bad store driver", key: "STORE_DRIVER", value: "mysql"},
		{name: "bad cache ttl", key: "CACHE_TTL", value: "sixty"},
		{name: "zero cache ttl", key: "CACHE_TTL", value: "0s"},
		{name: "bad read timeout", key: "APP_READ_TIMEOUT", value: "fast"},
		{name: "bad circuit count", key: "CLUBHOUSE_CIRCUIT_FAILURE_COUNT", value: "many"},
		{name: "zero circuit count", key: "CLUBHOUSE_CIRCUIT_FAILURE_COUNT", value: "0"},
		{name: "bad seed flag", key: "SEED_DEMO_DATA", value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logging.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, logging.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, logging.LevelError, parseLogLevel(" error "))
	assert.Equal(t, logging.LevelInfo, parseLogLevel("unknown"))
}
