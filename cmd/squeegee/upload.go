package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/squeegee/internal/cli"
	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/config"
	"github.com/Veraticus/squeegee/internal/extract"
	"github.com/Veraticus/squeegee/internal/importer"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Load estimate exports into the record store",
		Long: `Read every estimate export and record one estimated job per client and
service with a positive amount. Clients and services are matched by name, so
repeated uploads reuse existing records.`,
		RunE: runUpload,
	}

	cmd.Flags().String("source", "", "directory holding the estimate exports")
	cmd.Flags().Bool("dry-run", false, "count records without writing them")

	return cmd
}

func runUpload(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadOrganizeConfig(viper.GetViper(), model.FileKindEstimate)
	if err != nil {
		return err
	}
	if s, _ := cmd.Flags().GetString("source"); s != "" {
		cfg.SourceDir = config.ExpandPath(s)
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := extract.Discover(cfg.SourceDir, model.FileKindEstimate)
	if err != nil {
		return err
	}

	var reqs []importer.Request
	unreadable := 0
	for _, file := range files {
		batch, err := extract.Read(file)
		if err != nil {
			common.LogError(slog.Default(), err, "Failed to read export", common.Fields{"file": file.Name})
			unreadable++
			continue
		}
		reqs = append(reqs, importer.Requests(batch)...)
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, cli.RenderSummary("Upload (dry run)", []cli.SummaryRow{
			{Label: "Files", Value: len(files)},
			{Label: "Unreadable", Value: unreadable, Warn: true},
			{Label: "Records", Value: len(reqs)},
		}))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	res, err := importer.NewUploader(store, slog.Default()).Upload(ctx, reqs)
	fmt.Fprintln(out, cli.RenderSummary("Upload", []cli.SummaryRow{
		{Label: "Files", Value: len(files)},
		{Label: "Unreadable", Value: unreadable, Warn: true},
		{Label: "Created", Value: res.Created},
		{Label: "Failed", Value: res.Failed, Warn: true},
	}))
	return err
}
