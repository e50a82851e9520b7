package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/Veraticus/squeegee/internal/storage"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("EXPORTS", "/srv/exports")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", "/home/tester"},
		{"~/data/squeegee.db", "/home/tester/data/squeegee.db"},
		{"$EXPORTS/History CSV", "/srv/exports/History CSV"},
		{"relative/path", "relative/path"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadOrganizeConfig(t *testing.T) {
	v := viper.New()

	cfg, err := LoadOrganizeConfig(v, model.FileKindEstimate)
	require.NoError(t, err)
	assert.Equal(t, DefaultEstimateSource, cfg.SourceDir)
	assert.Equal(t, DefaultEstimateRoot, cfg.Root)
	assert.Empty(t, cfg.Years)

	v.Set("organize.schedules.source", "/data/daily")
	v.Set("organize.schedules.years", []int{2022, 2023, 2024})
	v.Set("organize.rules", "/etc/squeegee/rules.yaml")
	cfg, err = LoadOrganizeConfig(v, model.FileKindSchedule)
	require.NoError(t, err)
	assert.Equal(t, "/data/daily", cfg.SourceDir)
	assert.Equal(t, DefaultScheduleRoot, cfg.Root)
	assert.Equal(t, []int{2022, 2023, 2024}, cfg.Years)
	assert.Equal(t, "/etc/squeegee/rules.yaml", cfg.RulesPath)

	_, err = LoadOrganizeConfig(v, "invoices")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Run("defaults to local sqlite", func(t *testing.T) {
		t.Setenv("HOME", "/home/tester")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("SUPABASE_DB_URL", "")

		cfg, err := LoadDatabaseConfig(viper.New())
		require.NoError(t, err)
		assert.Equal(t, storage.DriverSQLite, cfg.Driver)
		assert.Equal(t, filepath.Join("/home/tester", ".local", "share", "squeegee", "squeegee.db"), cfg.DSN)
	})

	t.Run("hosted url selects postgres", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("SUPABASE_DB_URL", "postgres://u:p@db.example.com/postgres")

		cfg, err := LoadDatabaseConfig(viper.New())
		require.NoError(t, err)
		assert.Equal(t, storage.DriverPostgres, cfg.Driver)
		assert.Equal(t, "postgres://u:p@db.example.com/postgres", cfg.DSN)
	})

	t.Run("postgres needs a dsn", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("SUPABASE_DB_URL", "")
		v := viper.New()
		v.Set("database.driver", "postgresql")

		_, err := LoadDatabaseConfig(v)
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("unknown driver", func(t *testing.T) {
		v := viper.New()
		v.Set("database.driver", "oracle")
		_, err := LoadDatabaseConfig(v)
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadLLMConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := LoadLLMConfig(viper.New())
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := LoadLLMConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.InDelta(t, DefaultTemperature, cfg.Temperature, 0.0001)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)

	v := viper.New()
	v.Set("llm.api_key", "sk-config")
	v.Set("llm.temperature", 0.0)
	v.Set("llm.timeout", "5s")
	cfg, err = LoadLLMConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "sk-config", cfg.APIKey)
	assert.Zero(t, cfg.Temperature)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	v.Set("llm.temperature", 3.5)
	_, err = LoadLLMConfig(v)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadServerConfig(t *testing.T) {
	cfg := LoadServerConfig(viper.New())
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)

	v := viper.New()
	v.Set("server.addr", "127.0.0.1:8080")
	v.Set("server.allowed_origins", []string{"https://app.example.com"})
	cfg = LoadServerConfig(v)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
}

func TestLoadSheetsConfig(t *testing.T) {
	for _, env := range []string{
		"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_SPREADSHEET_ID", "GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(env, "")
	}

	_, err := LoadSheetsConfig(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no authentication method configured")

	t.Setenv("HOME", "/home/tester")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "env-sheet")
	v := viper.New()
	v.Set("sheets.service_account_path", "~/keys/sa.json")
	v.Set("sheets.batch_size", 50)
	v.Set("sheets.format_header", false)

	cfg, err := LoadSheetsConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/keys/sa.json", cfg.ServiceAccountPath)
	assert.Equal(t, "env-sheet", cfg.SpreadsheetID)
	assert.Equal(t, "Squeegee Records", cfg.SpreadsheetName)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.False(t, cfg.EnableFormatting)
}
