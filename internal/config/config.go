package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/Veraticus/squeegee/internal/storage"
	"github.com/spf13/viper"
)

// Defaults for the export directories, relative to the working directory.
const (
	DefaultEstimateSource = "History CSV"
	DefaultEstimateRoot   = "Organized_Estimates"
	DefaultScheduleSource = "Daily Schedules CSV"
	DefaultScheduleRoot   = "Organized_Schedules"
)

// OrganizeConfig locates one kind of export and its taxonomy tree.
type OrganizeConfig struct {
	SourceDir string
	Root      string
	RulesPath string
	Years     []int
}

// LoadOrganizeConfig reads organize.<kind>.* plus the shared organize.rules.
func LoadOrganizeConfig(v *viper.Viper, kind model.FileKind) (OrganizeConfig, error) {
	cfg := OrganizeConfig{
		SourceDir: DefaultEstimateSource,
		Root:      DefaultEstimateRoot,
	}
	switch kind {
	case model.FileKindEstimate:
	case model.FileKindSchedule:
		cfg.SourceDir = DefaultScheduleSource
		cfg.Root = DefaultScheduleRoot
	default:
		return cfg, fmt.Errorf("%w: unknown export kind %q", common.ErrInvalidConfig, kind)
	}

	prefix := "organize." + string(kind) + "."
	if s := v.GetString(prefix + "source"); s != "" {
		cfg.SourceDir = ExpandPath(s)
	}
	if s := v.GetString(prefix + "root"); s != "" {
		cfg.Root = ExpandPath(s)
	}
	if years := v.GetIntSlice(prefix + "years"); len(years) > 0 {
		cfg.Years = years
	}
	cfg.RulesPath = ExpandPath(v.GetString("organize.rules"))
	return cfg, nil
}

// DatabaseConfig selects the record store.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// LoadDatabaseConfig reads database.driver and database.dsn. Without either,
// DATABASE_URL or SUPABASE_DB_URL selects a hosted Postgres, else a local
// SQLite file under DataDir is used.
func LoadDatabaseConfig(v *viper.Viper) (DatabaseConfig, error) {
	cfg := DatabaseConfig{
		Driver: v.GetString("database.driver"),
		DSN:    v.GetString("database.dsn"),
	}

	if cfg.DSN == "" {
		for _, env := range []string{"DATABASE_URL", "SUPABASE_DB_URL"} {
			if dsn := os.Getenv(env); dsn != "" {
				cfg.DSN = dsn
				if cfg.Driver == "" {
					cfg.Driver = storage.DriverPostgres
				}
				break
			}
		}
	}

	driver, err := storage.NormalizeDriver(cfg.Driver)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	cfg.Driver = driver

	if cfg.DSN == "" {
		if driver != storage.DriverSQLite {
			return cfg, fmt.Errorf("%w: database.dsn is required for %s", common.ErrMissingConfig, driver)
		}
		cfg.DSN = filepath.Join(DataDir(), AppName+".db")
	}
	if driver == storage.DriverSQLite {
		cfg.DSN = ExpandPath(cfg.DSN)
	}
	return cfg, nil
}

// LLMConfig configures the chat-completion client.
type LLMConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Assistant defaults.
const (
	DefaultModel       = "gpt-4"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
)

// LoadLLMConfig reads llm.*, falling back to OPENAI_API_KEY for the key.
func LoadLLMConfig(v *viper.Viper) (LLMConfig, error) {
	cfg := LLMConfig{
		APIKey:      v.GetString("llm.api_key"),
		Model:       v.GetString("llm.model"),
		BaseURL:     v.GetString("llm.base_url"),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     60 * time.Second,
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if v.IsSet("llm.temperature") {
		cfg.Temperature = float32(v.GetFloat64("llm.temperature"))
	}
	if n := v.GetInt("llm.max_tokens"); n > 0 {
		cfg.MaxTokens = n
	}
	if d := v.GetDuration("llm.timeout"); d > 0 {
		cfg.Timeout = d
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		return cfg, fmt.Errorf("%w: llm.api_key or OPENAI_API_KEY", common.ErrMissingConfig)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return cfg, fmt.Errorf("%w: llm.temperature must be between 0 and 2", common.ErrInvalidConfig)
	}
	return cfg, nil
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// DefaultAddr is the listen address of the HTTP API.
const DefaultAddr = ":5001"

// LoadServerConfig reads server.addr and server.allowed_origins.
func LoadServerConfig(v *viper.Viper) ServerConfig {
	cfg := ServerConfig{
		Addr:           v.GetString("server.addr"),
		AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return cfg
}
