package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/squeegee/internal/cli"
	"github.com/Veraticus/squeegee/internal/config"
	"github.com/Veraticus/squeegee/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the record store into Google Sheets",
		Long: `Write the clients, services, locations and schedules tables to one tab
each of the configured spreadsheet, replacing what was there.

With --watch the sync repeats every --interval until interrupted.`,
		RunE: runSync,
	}

	cmd.Flags().Bool("watch", false, "keep syncing on an interval")
	cmd.Flags().Duration("interval", sheets.DefaultSyncInterval, "time between syncs in watch mode")

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	watch, _ := cmd.Flags().GetBool("watch")
	interval, _ := cmd.Flags().GetDuration("interval")

	sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("google sheets is not configured: %w", err)
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Sync", "")
	ctx := interrupts.HandleInterrupts(cmd.Context())

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return err
	}
	syncer := sheets.NewSyncer(store, writer, slog.Default())

	if watch {
		slog.Info("Watching for changes", "interval", interval)
		return syncer.Watch(ctx, interval)
	}

	start := time.Now()
	res, err := syncer.SyncAll(ctx)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderSummary(cli.SheetIcon+" Sheets sync", []cli.SummaryRow{
		{Label: "Synced", Value: strings.Join(res.Synced, ", ")},
		{Label: "Failed", Value: strings.Join(res.Failed, ", "), Warn: true},
		{Label: "Spreadsheet", Value: writer.SpreadsheetID()},
		{Label: "Duration", Value: time.Since(start).Round(time.Millisecond)},
	}))
	if errors.Is(err, ctx.Err()) && interrupts.WasInterrupted() {
		return nil
	}
	return err
}
