package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/squeegee/internal/config"
	"github.com/Veraticus/squeegee/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the record store schema to the latest version.

Works against the local SQLite file or a hosted Postgres database,
whichever database.driver selects.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")

	dbCfg, err := config.LoadDatabaseConfig(viper.GetViper())
	if err != nil {
		return err
	}

	store, err := storage.Open(ctx, dbCfg.Driver, dbCfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	current, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if status {
		fmt.Fprintf(cmd.OutOrStdout(), "Driver:  %s\nCurrent: %d\nLatest:  %d\n",
			dbCfg.Driver, current, storage.ExpectedSchemaVersion)
		return nil
	}

	slog.Info("🗄️  Running database migrations...", "driver", dbCfg.Driver, "from_version", current)

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("✅ Database migrations completed successfully!", "version", storage.ExpectedSchemaVersion)
	return nil
}
