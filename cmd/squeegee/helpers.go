package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/squeegee/internal/assistant"
	"github.com/Veraticus/squeegee/internal/config"
	"github.com/Veraticus/squeegee/internal/service"
	"github.com/Veraticus/squeegee/internal/storage"
	"github.com/spf13/viper"
)

// initStorage opens the configured record store and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.Store, error) {
	dbCfg, err := config.LoadDatabaseConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, dbCfg.Driver, dbCfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("Record store ready", "driver", dbCfg.Driver)
	return store, nil
}

// initAgent builds the scheduling assistant over store, which may be nil.
func initAgent(store service.Storage) (*assistant.Agent, error) {
	llmCfg, err := config.LoadLLMConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return assistant.New(assistant.Config{
		APIKey:      llmCfg.APIKey,
		Model:       llmCfg.Model,
		BaseURL:     llmCfg.BaseURL,
		Temperature: llmCfg.Temperature,
		MaxTokens:   llmCfg.MaxTokens,
		Timeout:     llmCfg.Timeout,
	}, store, slog.Default())
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(config.ConfigDir(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0o750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}
